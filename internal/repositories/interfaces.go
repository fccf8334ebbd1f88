package repositories

import (
	"context"
	"errors"

	"github.com/chrisdamba/seatyield/internal/models"
)

var ErrStateCorrupt = errors.New("persisted state is corrupt")

// StateRepository stores the caller's settings and action toggles. Load
// returns (nil, nil) when nothing has been saved under key.
type StateRepository interface {
	Load(ctx context.Context, key string) (*models.PersistedState, error)
	Save(ctx context.Context, key string, state models.PersistedState) error
	Close() error
}
