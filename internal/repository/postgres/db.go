package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xela07ax/complitic/internal/infra"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Repo — единая точка доступа к PostgreSQL. Методы разнесены по файлам доменов.
type Repo struct {
	pool *pgxpool.Pool
}

// NewRepo создает пул соединений. Доступность базы проверяется через Ping в main.
func NewRepo(ctx context.Context, cfg infra.DatabaseConfig) (*Repo, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("postgres: database url is required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}
	return &Repo{pool: pool}, nil
}

// Ping проверяет доступность базы при старте
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repo) Close() {
	r.pool.Close()
}

// Migrate применяет встроенные SQL-миграции по порядку имен файлов.
// Все миграции идемпотентны (IF NOT EXISTS).
func (r *Repo) Migrate(ctx context.Context) error {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("postgres: list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		sqlText, err := migrationsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("postgres: read migration %s: %w", name, err)
		}
		if _, err := r.pool.Exec(ctx, string(sqlText)); err != nil {
			return fmt.Errorf("postgres: apply migration %s: %w", name, err)
		}
	}
	return nil
}
