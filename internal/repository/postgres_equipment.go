package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
)

// equipmentTables devices / platforms 两张表
var equipmentTables = map[domain.EquipmentKind]string{
	domain.KindDevice:   "devices",
	domain.KindPlatform: "platforms",
}

// PostgresEquipmentRepository 设备/平台Repository实现
type PostgresEquipmentRepository struct {
	db *sql.DB
}

// NewPostgresEquipmentRepository 创建设备Repository
func NewPostgresEquipmentRepository(db *sql.DB) *PostgresEquipmentRepository {
	return &PostgresEquipmentRepository{db: db}
}

var _ EquipmentRepository = (*PostgresEquipmentRepository)(nil)

// ListEquipment 批量获取设备或平台
func (r *PostgresEquipmentRepository) ListEquipment(ctx context.Context, kind domain.EquipmentKind, ids []string) ([]domain.Equipment, error) {
	table, ok := equipmentTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown equipment kind %q", kind)
	}
	if len(ids) == 0 {
		return []domain.Equipment{}, nil
	}

	query := `
		SELECT
			id::text,
			COALESCE(short_name, ''),
			COALESCE(long_name, ''),
			COALESCE(manufacturer_name, ''),
			COALESCE(model, ''),
			COALESCE(serial_number, ''),
			is_public,
			is_internal,
			is_private,
			archived
		FROM ` + table + `
		WHERE id::text = ANY($1)
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	byID := make(map[string]domain.Equipment, len(ids))
	for rows.Next() {
		e := domain.Equipment{Kind: kind}
		if err := rows.Scan(
			&e.ID,
			&e.ShortName,
			&e.LongName,
			&e.Manufacturer,
			&e.Model,
			&e.SerialNumber,
			&e.IsPublic,
			&e.IsInternal,
			&e.IsPrivate,
			&e.Archived,
		); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		byID[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table, err)
	}

	out := make([]domain.Equipment, 0, len(byID))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if e, ok := byID[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, e)
		}
	}
	return out, nil
}
