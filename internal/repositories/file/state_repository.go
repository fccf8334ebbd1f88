package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/chrisdamba/seatyield/internal/models"
	"github.com/chrisdamba/seatyield/internal/repositories"
)

// StateRepository keeps one JSON document per key inside dir.
type StateRepository struct {
	dir string
}

func NewStateRepository(dir string) *StateRepository {
	return &StateRepository{dir: dir}
}

func (r *StateRepository) path(key string) string {
	return filepath.Join(r.dir, key+".json")
}

func (r *StateRepository) Load(_ context.Context, key string) (*models.PersistedState, error) {
	raw, err := os.ReadFile(r.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state %s: %w", key, err)
	}

	var state models.PersistedState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", repositories.ErrStateCorrupt, key, err)
	}
	return &state, nil
}

// Save writes through a temp file so a crash never leaves half a document.
func (r *StateRepository) Save(_ context.Context, key string, state models.PersistedState) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write state %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state %s: %w", key, err)
	}
	return os.Rename(tmp.Name(), r.path(key))
}

func (r *StateRepository) Close() error { return nil }
