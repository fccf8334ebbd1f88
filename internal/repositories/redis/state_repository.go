package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/chrisdamba/seatyield/internal/models"
	"github.com/chrisdamba/seatyield/internal/repositories"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "seatyield:state:"

type StateRepository struct {
	client *goredis.Client
}

func NewStateRepository(client *goredis.Client) *StateRepository {
	return &StateRepository{client: client}
}

// Connect accepts either a redis:// URL or a bare host:port address.
func Connect(ctx context.Context, redisURL string) (*StateRepository, error) {
	var client *goredis.Client
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := goredis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client = goredis.NewClient(opt)
	} else {
		client = goredis.NewClient(&goredis.Options{Addr: redisURL})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewStateRepository(client), nil
}

func StorageKey(key string) string {
	return keyPrefix + key
}

func (r *StateRepository) Load(ctx context.Context, key string) (*models.PersistedState, error) {
	raw, err := r.client.Get(ctx, StorageKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load state %s: %w", key, err)
	}

	var state models.PersistedState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", repositories.ErrStateCorrupt, key, err)
	}
	return &state, nil
}

func (r *StateRepository) Save(ctx context.Context, key string, state models.PersistedState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := r.client.Set(ctx, StorageKey(key), raw, 0).Err(); err != nil {
		return fmt.Errorf("save state %s: %w", key, err)
	}
	return nil
}

func (r *StateRepository) Close() error {
	return r.client.Close()
}
