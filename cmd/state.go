package cmd

import (
	"context"
	"fmt"

	"github.com/chrisdamba/seatyield/internal/models"
	"github.com/chrisdamba/seatyield/internal/repositories"
	"github.com/chrisdamba/seatyield/internal/repositories/file"
	"github.com/chrisdamba/seatyield/internal/repositories/postgres"
	"github.com/chrisdamba/seatyield/internal/repositories/redis"
	"github.com/rs/zerolog/log"
)

// openStateRepository connects the store named by state.driver.
func openStateRepository(ctx context.Context, sc models.StateConfig) (repositories.StateRepository, error) {
	var (
		repo repositories.StateRepository
		err  error
	)
	switch sc.Driver {
	case "", "file":
		repo = file.NewStateRepository(sc.Path)
	case "postgres":
		repo, err = postgres.Connect(ctx, sc.DatabaseURL)
	case "redis":
		repo, err = redis.Connect(ctx, sc.RedisURL)
	default:
		return nil, fmt.Errorf("unsupported state driver: %s", sc.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s state store: %w", sc.Driver, err)
	}
	log.Debug().Str("driver", sc.Driver).Str("key", sc.Key).Msg("state store ready")
	return repo, nil
}
