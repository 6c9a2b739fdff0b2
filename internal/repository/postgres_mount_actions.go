package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/lib/pq"
	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
)

type mountTable struct {
	table           string
	equipmentColumn string
}

var mountTables = map[domain.EquipmentKind]mountTable{
	domain.KindDevice:   {table: "device_mount_actions", equipmentColumn: "device_id"},
	domain.KindPlatform: {table: "platform_mount_actions", equipmentColumn: "platform_id"},
}

func selectMounts(t mountTable) string {
	return `
		SELECT
			id::text,
			` + t.equipmentColumn + `::text,
			configuration_id::text,
			parent_platform_id::text,
			begin_date,
			end_date,
			COALESCE(offset_x, 0),
			COALESCE(offset_y, 0),
			COALESCE(offset_z, 0),
			COALESCE(begin_description, ''),
			COALESCE(end_description, ''),
			created_at
		FROM ` + t.table
}

// listMounts 查询一张安装表；where 中的参数从 $1 开始
func listMounts(ctx context.Context, q queryer, kind domain.EquipmentKind, where string, args ...any) ([]domain.MountAction, error) {
	t, ok := mountTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown equipment kind %q", kind)
	}

	query := selectMounts(t) + `
		WHERE ` + where + `
		ORDER BY created_at, id`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", t.table, err)
	}
	defer rows.Close()

	out := []domain.MountAction{}
	for rows.Next() {
		m := domain.MountAction{Kind: kind}
		var parent sql.NullString
		var endDate sql.NullTime
		if err := rows.Scan(
			&m.ID,
			&m.EquipmentID,
			&m.ConfigurationID,
			&parent,
			&m.BeginDate,
			&endDate,
			&m.OffsetX,
			&m.OffsetY,
			&m.OffsetZ,
			&m.BeginDescription,
			&m.EndDescription,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", t.table, err)
		}
		if parent.Valid {
			m.ParentPlatformID = &parent.String
		}
		if endDate.Valid {
			m.EndDate = &endDate.Time
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", t.table, err)
	}
	return out, nil
}

// mergeByCreation 合并两张表的结果，保持写入顺序
func mergeByCreation(a, b []domain.MountAction) []domain.MountAction {
	out := make([]domain.MountAction, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// PostgresMountActionsRepository 安装记录Repository实现
type PostgresMountActionsRepository struct {
	db *sql.DB
}

// NewPostgresMountActionsRepository 创建安装记录Repository
func NewPostgresMountActionsRepository(db *sql.DB) *PostgresMountActionsRepository {
	return &PostgresMountActionsRepository{db: db}
}

var _ MountActionsRepository = (*PostgresMountActionsRepository)(nil)

// ListMountActionsByConfiguration 配置下的设备与平台安装记录
func (r *PostgresMountActionsRepository) ListMountActionsByConfiguration(ctx context.Context, configurationID string) ([]domain.MountAction, error) {
	if configurationID == "" {
		return []domain.MountAction{}, nil
	}
	devices, err := listMounts(ctx, r.db, domain.KindDevice, "configuration_id::text = $1", configurationID)
	if err != nil {
		return nil, err
	}
	platforms, err := listMounts(ctx, r.db, domain.KindPlatform, "configuration_id::text = $1", configurationID)
	if err != nil {
		return nil, err
	}
	return mergeByCreation(devices, platforms), nil
}

// ListMountActionsByEquipment 一批设备或平台的安装记录
func (r *PostgresMountActionsRepository) ListMountActionsByEquipment(ctx context.Context, kind domain.EquipmentKind, ids []string) ([]domain.MountAction, error) {
	t, ok := mountTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown equipment kind %q", kind)
	}
	if len(ids) == 0 {
		return []domain.MountAction{}, nil
	}
	return listMounts(ctx, r.db, kind, t.equipmentColumn+"::text = ANY($1)", pq.Array(ids))
}
