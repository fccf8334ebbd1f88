package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chrisdamba/seatyield/internal/models"
	"github.com/chrisdamba/seatyield/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS seat_yield_state (
    key            TEXT PRIMARY KEY,
    settings       JSONB NOT NULL,
    active_actions JSONB NOT NULL DEFAULT '{}'::jsonb,
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// DB is the part of *pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

type StateRepository struct {
	pool DB
}

func NewStateRepository(pool DB) *StateRepository {
	return &StateRepository{pool: pool}
}

// Connect opens a pool against databaseURL and makes sure the table exists.
func Connect(ctx context.Context, databaseURL string) (*StateRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	r := NewStateRepository(pool)
	if err := r.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return r, nil
}

func (r *StateRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create seat_yield_state: %w", err)
	}
	return nil
}

func (r *StateRepository) Load(ctx context.Context, key string) (*models.PersistedState, error) {
	var settingsRaw, activeRaw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT settings, active_actions FROM seat_yield_state WHERE key = $1`, key,
	).Scan(&settingsRaw, &activeRaw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load state %s: %w", key, err)
	}

	var state models.PersistedState
	if err := json.Unmarshal(settingsRaw, &state.Settings); err != nil {
		return nil, fmt.Errorf("%w: settings of %s: %v", repositories.ErrStateCorrupt, key, err)
	}
	if err := json.Unmarshal(activeRaw, &state.ActiveActions); err != nil {
		return nil, fmt.Errorf("%w: active actions of %s: %v", repositories.ErrStateCorrupt, key, err)
	}
	return &state, nil
}

func (r *StateRepository) Save(ctx context.Context, key string, state models.PersistedState) error {
	settingsRaw, err := json.Marshal(state.Settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	active := state.ActiveActions
	if active == nil {
		active = map[string]bool{}
	}
	activeRaw, err := json.Marshal(active)
	if err != nil {
		return fmt.Errorf("encode active actions: %w", err)
	}

	query := `
        INSERT INTO seat_yield_state (key, settings, active_actions, updated_at)
        VALUES ($1, $2, $3, now())
        ON CONFLICT (key) DO UPDATE
        SET settings = EXCLUDED.settings,
            active_actions = EXCLUDED.active_actions,
            updated_at = now()
    `
	if _, err := r.pool.Exec(ctx, query, key, settingsRaw, activeRaw); err != nil {
		return fmt.Errorf("save state %s: %w", key, err)
	}
	return nil
}

func (r *StateRepository) Close() error {
	r.pool.Close()
	return nil
}
