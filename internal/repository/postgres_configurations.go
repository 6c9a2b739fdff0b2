package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
)

// PostgresConfigurationsRepository 配置Repository实现
type PostgresConfigurationsRepository struct {
	db *sql.DB
}

// NewPostgresConfigurationsRepository 创建配置Repository
func NewPostgresConfigurationsRepository(db *sql.DB) *PostgresConfigurationsRepository {
	return &PostgresConfigurationsRepository{db: db}
}

var _ ConfigurationsRepository = (*PostgresConfigurationsRepository)(nil)

// GetConfiguration 获取配置
func (r *PostgresConfigurationsRepository) GetConfiguration(ctx context.Context, id string) (*domain.Configuration, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	query := `
		SELECT
			id::text,
			COALESCE(label, ''),
			COALESCE(status, ''),
			is_public,
			is_internal,
			archived
		FROM configurations
		WHERE id::text = $1
	`

	var c domain.Configuration
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.Label,
		&c.Status,
		&c.IsPublic,
		&c.IsInternal,
		&c.Archived,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("configuration %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get configuration: %w", err)
	}
	return &c, nil
}
