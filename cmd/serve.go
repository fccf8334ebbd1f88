package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/chrisdamba/seatyield/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the planning API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		settings, err := validSettings()
		if err != nil {
			return err
		}
		repo, err := openStateRepository(ctx, cfg.State)
		if err != nil {
			return err
		}
		defer repo.Close()

		h := server.NewHandler(newService(), repo, cfg.State.Key, settings)
		srv := &http.Server{
			Addr:              cfg.Server.Address,
			Handler:           server.NewRouter(h, cfg.Server.Mode),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("address", srv.Addr).Str("state_driver", cfg.State.Driver).Msg("starting server")
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	f := serveCmd.Flags()
	f.String("address", ":8080", "listen address")
	bindFlag(f.Lookup("address"), "server.address")
	rootCmd.AddCommand(serveCmd)
}
