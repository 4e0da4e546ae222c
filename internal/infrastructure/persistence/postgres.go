package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pos-pro/internal/domain"
)

// PostgresStore almacén de blobs sobre PostgreSQL: una tabla clave → bytea con
// upsert por clave lógica.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore crea el pool, verifica la conexión y asegura la tabla de
// snapshots.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}

	const ddl = `CREATE TABLE IF NOT EXISTS pos_snapshots (
		key        TEXT PRIMARY KEY,
		blob       BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		pool.Close()
		return nil, fmt.Errorf("crear tabla pos_snapshots: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close cierra el pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Save hace upsert del blob bajo la clave.
func (s *PostgresStore) Save(ctx context.Context, key string, blob []byte) error {
	const q = `INSERT INTO pos_snapshots (key, blob, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET blob = EXCLUDED.blob, updated_at = now()`
	if _, err := s.pool.Exec(ctx, q, key, blob); err != nil {
		return fmt.Errorf("%w: upsert %s: %v", domain.ErrPersistence, key, err)
	}
	return nil
}

// Load lee el blob; fila ausente = clave ausente.
func (s *PostgresStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	const q = `SELECT blob FROM pos_snapshots WHERE key = $1`
	var blob []byte
	err := s.pool.QueryRow(ctx, q, key).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: select %s: %v", domain.ErrPersistence, key, err)
	}
	return blob, true, nil
}
