// Package app wires configuration to stores, caches and services for the binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"helios-dashboard/internal/cache"
	"helios-dashboard/internal/config"
	"helios-dashboard/internal/fetcher"
	"helios-dashboard/internal/storage"
	chstore "helios-dashboard/internal/storage/clickhouse"
	"helios-dashboard/internal/storage/memory"
	"helios-dashboard/internal/storage/migrations"
	pgstore "helios-dashboard/internal/storage/postgres"
)

// Backend names reported in metrics.
const (
	BackendMemory     = "memory"
	BackendPostgres   = "postgres"
	BackendClickhouse = "clickhouse"
)

// Backend holds the opened stores of one database setup.
type Backend struct {
	Name    string
	Stores  fetcher.Stores
	Catalog storage.CatalogWriter
	Samples storage.SampleWriter

	pool   *pgstore.Pool
	chConn *chstore.Conn
}

// OpenBackend connects the stores selected by cfg. The catalog always lives
// in PostgreSQL; samples move to ClickHouse when a ClickHouse DSN is set.
func OpenBackend(ctx context.Context, cfg config.Config) (*Backend, error) {
	if cfg.UseMemory {
		ms := memory.NewStores()
		return &Backend{
			Name: BackendMemory,
			Stores: fetcher.Stores{
				Configs:   ms.Configs,
				Sensors:   ms.Sensors,
				Samples:   ms.Samples,
				Actuators: ms.Actuators,
			},
			Catalog: ms,
			Samples: ms.Samples,
		}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	loader := pgstore.NewLoader(pool)
	b := &Backend{
		Name: BackendPostgres,
		Stores: fetcher.Stores{
			Configs:   pgstore.NewConfigStore(pool),
			Sensors:   pgstore.NewSensorStore(pool),
			Samples:   pgstore.NewSampleStore(pool),
			Actuators: pgstore.NewActuatorStore(pool),
		},
		Catalog: loader,
		Samples: loader,
		pool:    pool,
	}

	if cfg.ClickhouseDSN != "" {
		chConn, err := chstore.NewConn(ctx, cfg.ClickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("connect to clickhouse: %w", err)
		}
		samples := chstore.NewSampleStore(chConn)
		b.Name = BackendClickhouse
		b.Stores.Samples = samples
		b.Samples = samples
		b.chConn = chConn
	}
	return b, nil
}

// Migrate applies the embedded schema to the databases named by cfg.
// The ClickHouse database is created when missing, so Migrate runs before OpenBackend.
func Migrate(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if cfg.UseMemory {
		return nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	if _, err := migrations.RunPostgresMigrations(ctx, pool, logger); err != nil {
		return fmt.Errorf("postgres migrations: %w", err)
	}

	if cfg.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN, logger)
		if err != nil {
			return fmt.Errorf("clickhouse migrations: %w", err)
		}
		conn.Close()
	}
	return nil
}

// Fetcher creates a Fetcher over the backend's stores.
func (b *Backend) Fetcher(opts ...fetcher.Option) *fetcher.Fetcher {
	opts = append([]fetcher.Option{fetcher.WithBackend(b.Name)}, opts...)
	return fetcher.New(b.Stores, opts...)
}

// Close releases connections.
func (b *Backend) Close() {
	if b.chConn != nil {
		b.chConn.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
}

// OpenCacheStore returns a Redis-backed store when cfg names a Redis address,
// the in-process store otherwise. The returned func releases the client.
func OpenCacheStore(ctx context.Context, cfg config.Config) (cache.Store, func(), error) {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryStore(), func() {}, nil
	}

	client, err := cache.NewRedisClient(ctx, cache.RedisConfig{
		Addr:   cfg.RedisAddr,
		DB:     cfg.RedisDB,
		Prefix: cfg.RedisPrefix,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	return cache.NewRedisStore(client, cfg.RedisPrefix), func() { client.Close() }, nil
}
