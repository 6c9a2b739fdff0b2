package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
)

type parameterTable struct {
	table       string
	ownerColumn string
	changeTable string
	refColumn   string
}

var parameterTables = map[domain.ParameterOwnerKind]parameterTable{
	domain.OwnerConfiguration: {
		table: "configuration_parameters", ownerColumn: "configuration_id",
		changeTable: "configuration_parameter_value_change_actions", refColumn: "configuration_parameter_id",
	},
	domain.OwnerDevice: {
		table: "device_parameters", ownerColumn: "device_id",
		changeTable: "device_parameter_value_change_actions", refColumn: "device_parameter_id",
	},
	domain.OwnerPlatform: {
		table: "platform_parameters", ownerColumn: "platform_id",
		changeTable: "platform_parameter_value_change_actions", refColumn: "platform_parameter_id",
	},
}

var ownerKinds = []domain.ParameterOwnerKind{domain.OwnerConfiguration, domain.OwnerDevice, domain.OwnerPlatform}

// PostgresParametersRepository 参数Repository实现
type PostgresParametersRepository struct {
	db *sql.DB
}

// NewPostgresParametersRepository 创建参数Repository
func NewPostgresParametersRepository(db *sql.DB) *PostgresParametersRepository {
	return &PostgresParametersRepository{db: db}
}

var _ ParametersRepository = (*PostgresParametersRepository)(nil)

// ListParameters 按所属实体查询参数（每种实体类型一条查询）
func (r *PostgresParametersRepository) ListParameters(ctx context.Context, owners []ParameterOwner) ([]domain.Parameter, error) {
	idsByKind := make(map[domain.ParameterOwnerKind][]string)
	for _, o := range owners {
		idsByKind[o.Kind] = append(idsByKind[o.Kind], o.ID)
	}

	byOwner := make(map[ParameterOwner][]domain.Parameter)
	for _, kind := range ownerKinds {
		ids := idsByKind[kind]
		if len(ids) == 0 {
			continue
		}
		t := parameterTables[kind]
		query := `
			SELECT
				id::text,
				` + t.ownerColumn + `::text,
				COALESCE(label, ''),
				COALESCE(description, ''),
				COALESCE(unit_name, ''),
				COALESCE(unit_uri, '')
			FROM ` + t.table + `
			WHERE ` + t.ownerColumn + `::text = ANY($1)
			ORDER BY id
		`
		if err := r.scanParameters(ctx, query, kind, pq.Array(ids), byOwner); err != nil {
			return nil, err
		}
	}

	out := []domain.Parameter{}
	seen := make(map[ParameterOwner]bool, len(owners))
	for _, o := range owners {
		if seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, byOwner[o]...)
	}
	return out, nil
}

func (r *PostgresParametersRepository) scanParameters(ctx context.Context, query string, kind domain.ParameterOwnerKind, arg any, into map[ParameterOwner][]domain.Parameter) error {
	table := parameterTables[kind].table
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		p := domain.Parameter{OwnerKind: kind}
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Label, &p.Description, &p.UnitName, &p.UnitURI); err != nil {
			return fmt.Errorf("failed to scan %s: %w", table, err)
		}
		key := ParameterOwner{Kind: kind, ID: p.OwnerID}
		into[key] = append(into[key], p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate %s: %w", table, err)
	}
	return nil
}

// ListValueChanges 查询参数值变更日志
func (r *PostgresParametersRepository) ListValueChanges(ctx context.Context, refs []domain.ParameterRef) ([]domain.ParameterValueChangeAction, error) {
	idsByKind := make(map[domain.ParameterOwnerKind][]string)
	for _, ref := range refs {
		idsByKind[ref.OwnerKind] = append(idsByKind[ref.OwnerKind], ref.ID)
	}

	out := []domain.ParameterValueChangeAction{}
	for _, kind := range ownerKinds {
		ids := idsByKind[kind]
		if len(ids) == 0 {
			continue
		}
		t := parameterTables[kind]
		query := `
			SELECT
				id::text,
				` + t.refColumn + `::text,
				date,
				value,
				COALESCE(description, ''),
				created_at
			FROM ` + t.changeTable + `
			WHERE ` + t.refColumn + `::text = ANY($1)
			ORDER BY created_at, id
		`
		rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
		if err != nil {
			return nil, fmt.Errorf("failed to query %s: %w", t.changeTable, err)
		}
		for rows.Next() {
			c := domain.ParameterValueChangeAction{ParameterKind: kind}
			if err := rows.Scan(&c.ID, &c.ParameterID, &c.Date, &c.Value, &c.Description, &c.CreatedAt); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan %s: %w", t.changeTable, err)
			}
			out = append(out, c)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to iterate %s: %w", t.changeTable, err)
		}
	}
	return out, nil
}
