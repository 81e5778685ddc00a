package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/storage"
)

// ConfigStore implements storage.ConfigStore using PostgreSQL.
type ConfigStore struct {
	pool *Pool
}

// NewConfigStore creates a new ConfigStore.
func NewConfigStore(pool *Pool) *ConfigStore {
	return &ConfigStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ConfigStore = (*ConfigStore)(nil)

// GetAll retrieves all test configurations, ordered by date DESC, config_id ASC.
func (s *ConfigStore) GetAll(ctx context.Context) ([]*domain.TestConfiguration, error) {
	query := `
		SELECT config_id, date
		FROM tests
		ORDER BY date DESC, config_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, queryError("get test configurations", err)
	}
	defer rows.Close()

	var configs []*domain.TestConfiguration
	for rows.Next() {
		var c domain.TestConfiguration
		if err := rows.Scan(&c.ConfigID, &c.Date); err != nil {
			return nil, fmt.Errorf("scan test configuration row: %w", err)
		}
		c.Date = c.Date.UTC()
		configs = append(configs, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate test configuration rows: %w", err)
	}

	return configs, nil
}

// GetByID retrieves one configuration. Returns ErrNotFound if not exists.
func (s *ConfigStore) GetByID(ctx context.Context, configID string) (*domain.TestConfiguration, error) {
	query := `
		SELECT config_id, date
		FROM tests
		WHERE config_id = $1
	`

	var c domain.TestConfiguration
	err := s.pool.QueryRow(ctx, query, configID).Scan(&c.ConfigID, &c.Date)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, queryError("get test configuration by id", err)
	}
	c.Date = c.Date.UTC()
	return &c, nil
}

// scanStrings collects a single text column.
func scanStrings(rows pgx.Rows) ([]string, error) {
	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan name row: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate name rows: %w", err)
	}
	return values, nil
}
