package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
	"go.uber.org/zap"
)

var archiveTables = map[domain.ArchiveEntity]string{
	domain.ArchiveDevice:        "devices",
	domain.ArchivePlatform:      "platforms",
	domain.ArchiveConfiguration: "configurations",
}

var locationTables = map[domain.LocationKind]string{
	domain.LocationStatic:  "configuration_static_location_actions",
	domain.LocationDynamic: "configuration_dynamic_location_actions",
}

// PostgresArchivalRepository 归档Repository实现
type PostgresArchivalRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresArchivalRepository 创建归档Repository
func NewPostgresArchivalRepository(db *sql.DB, logger *zap.Logger) *PostgresArchivalRepository {
	return &PostgresArchivalRepository{db: db, logger: logger}
}

var _ ArchivalRepository = (*PostgresArchivalRepository)(nil)

// Archive 锁定实体行（FOR UPDATE），在事务内读取区间记录并执行 gate
// 并发写入的安装记录会等待行锁，不会在检查与写入之间插入
func (r *PostgresArchivalRepository) Archive(ctx context.Context, target domain.ArchiveTarget, gate ArchiveGate) error {
	table, ok := archiveTables[target.Entity]
	if !ok {
		return fmt.Errorf("unknown archive entity %q", target.Entity)
	}
	if target.ID == "" {
		return ErrNotFound
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var records domain.ArchivalRecords
	err = tx.QueryRowContext(ctx, `SELECT archived FROM `+table+` WHERE id::text = $1 FOR UPDATE`, target.ID).
		Scan(&records.Archived)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s %s: %w", target.Entity, target.ID, ErrNotFound)
		}
		return fmt.Errorf("failed to lock %s: %w", table, err)
	}

	if !records.Archived {
		if err := loadArchivalRecords(ctx, tx, target, &records); err != nil {
			return err
		}
	}

	if err := gate(records); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE `+table+` SET archived = TRUE WHERE id::text = $1`, target.ID); err != nil {
		return fmt.Errorf("failed to archive %s: %w", table, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit archive: %w", err)
	}

	r.logger.Info("Entity archived",
		zap.String("entity", string(target.Entity)),
		zap.String("id", target.ID),
	)
	return nil
}

func loadArchivalRecords(ctx context.Context, q queryer, target domain.ArchiveTarget, records *domain.ArchivalRecords) error {
	var parts [][]domain.MountAction
	add := func(kind domain.EquipmentKind, where string) error {
		mounts, err := listMounts(ctx, q, kind, where, target.ID)
		if err != nil {
			return err
		}
		parts = append(parts, mounts)
		return nil
	}

	switch target.Entity {
	case domain.ArchiveDevice:
		if err := add(domain.KindDevice, "device_id::text = $1"); err != nil {
			return err
		}
	case domain.ArchivePlatform:
		if err := add(domain.KindPlatform, "platform_id::text = $1 OR parent_platform_id::text = $1"); err != nil {
			return err
		}
		if err := add(domain.KindDevice, "parent_platform_id::text = $1"); err != nil {
			return err
		}
	case domain.ArchiveConfiguration:
		if err := add(domain.KindDevice, "configuration_id::text = $1"); err != nil {
			return err
		}
		if err := add(domain.KindPlatform, "configuration_id::text = $1"); err != nil {
			return err
		}
		for _, kind := range []domain.LocationKind{domain.LocationStatic, domain.LocationDynamic} {
			locations, err := listLocations(ctx, q, kind, target.ID)
			if err != nil {
				return err
			}
			records.Locations = append(records.Locations, locations...)
		}
	}

	for _, p := range parts {
		records.Mounts = mergeByCreation(records.Mounts, p)
	}
	return nil
}

func listLocations(ctx context.Context, q queryer, kind domain.LocationKind, configurationID string) ([]domain.LocationAction, error) {
	table := locationTables[kind]
	query := `
		SELECT
			id::text,
			configuration_id::text,
			begin_date,
			end_date
		FROM ` + table + `
		WHERE configuration_id::text = $1
		ORDER BY begin_date, id
	`
	rows, err := q.QueryContext(ctx, query, configurationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	out := []domain.LocationAction{}
	for rows.Next() {
		l := domain.LocationAction{Kind: kind}
		var endDate sql.NullTime
		if err := rows.Scan(&l.ID, &l.ConfigurationID, &l.BeginDate, &endDate); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		if endDate.Valid {
			l.EndDate = &endDate.Time
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table, err)
	}
	return out, nil
}
