package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"liquidityCore/internal/model"
	"liquidityCore/internal/state"
)

// Store provides Postgres persistence for engine state and swap metrics.
type Store struct {
	pool *pgxpool.Pool
}

var _ state.Store = (*Store)(nil)

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Migrate creates the tables used by the store.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS engine_state (
			key        bytea PRIMARY KEY,
			value      bytea NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS pool_window_metrics (
			pool_id            bigint NOT NULL,
			window_size_blocks bigint NOT NULL,
			window_start       bigint NOT NULL,
			window_end         bigint NOT NULL,
			swap_count         bigint NOT NULL,
			volume_x           numeric NOT NULL,
			volume_y           numeric NOT NULL,
			fee_x              numeric NOT NULL,
			fee_y              numeric NOT NULL,
			reserve_x          numeric NOT NULL,
			reserve_y          numeric NOT NULL,
			fee_rate_x         numeric,
			fee_rate_y         numeric,
			last_height        bigint NOT NULL,
			created_at         timestamptz NOT NULL DEFAULT now(),
			updated_at         timestamptz NOT NULL DEFAULT now(),
			PRIMARY KEY (pool_id, window_size_blocks, window_start)
		);
		CREATE TABLE IF NOT EXISTS stats_state (
			name        text PRIMARY KEY,
			last_height bigint NOT NULL,
			updated_at  timestamptz NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Get returns the engine state value stored at key.
func (s *Store) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	var value []byte
	row := s.pool.QueryRow(ctx, `SELECT value FROM engine_state WHERE key=$1`, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

// Commit applies writes in one transaction.
func (s *Store) Commit(ctx context.Context, writes []state.Write) error {
	if len(writes) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, w := range writes {
			if w.Value == nil {
				batch.Queue(`DELETE FROM engine_state WHERE key=$1`, w.Key)
				continue
			}
			batch.Queue(`
				INSERT INTO engine_state (key, value, updated_at)
				VALUES ($1, $2, now())
				ON CONFLICT (key) DO UPDATE
				SET value = EXCLUDED.value, updated_at = now()
			`, w.Key, w.Value)
		}

		br := tx.SendBatch(ctx, batch)
		for range writes {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return err
			}
		}
		return br.Close()
	})
}

// UpsertWindowMetrics inserts or updates window metrics.
func (s *Store) UpsertWindowMetrics(ctx context.Context, metrics []model.PoolWindowMetrics) error {
	if len(metrics) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, m := range metrics {
		batch.Queue(`
			INSERT INTO pool_window_metrics (
				pool_id, window_size_blocks, window_start, window_end, swap_count,
				volume_x, volume_y, fee_x, fee_y, reserve_x, reserve_y,
				fee_rate_x, fee_rate_y, last_height, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,now(),now())
			ON CONFLICT (pool_id, window_size_blocks, window_start)
			DO UPDATE SET
				window_end = EXCLUDED.window_end,
				swap_count = EXCLUDED.swap_count,
				volume_x = EXCLUDED.volume_x,
				volume_y = EXCLUDED.volume_y,
				fee_x = EXCLUDED.fee_x,
				fee_y = EXCLUDED.fee_y,
				reserve_x = EXCLUDED.reserve_x,
				reserve_y = EXCLUDED.reserve_y,
				fee_rate_x = EXCLUDED.fee_rate_x,
				fee_rate_y = EXCLUDED.fee_rate_y,
				last_height = EXCLUDED.last_height,
				updated_at = now()
		`,
			int64(m.PoolID),
			int64(m.WindowSizeBlocks),
			int64(m.WindowStart),
			int64(m.WindowEnd),
			int64(m.SwapCount),
			m.VolumeX,
			m.VolumeY,
			m.FeeX,
			m.FeeY,
			m.ReserveX,
			m.ReserveY,
			m.FeeRateX,
			m.FeeRateY,
			int64(m.LastHeight),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range metrics {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadState returns last_height for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var height int64
	row := s.pool.QueryRow(ctx, `SELECT last_height FROM stats_state WHERE name=$1`, name)
	if err := row.Scan(&height); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return uint64(height), true, nil
}

// SaveState upserts last_height for a name.
func (s *Store) SaveState(ctx context.Context, name string, height uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO stats_state (name, last_height, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_height = EXCLUDED.last_height, updated_at = now()
	`, name, int64(height))
	return err
}
