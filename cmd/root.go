package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chrisdamba/seatyield/internal/models"
	"github.com/chrisdamba/seatyield/internal/scenarios"
	"github.com/chrisdamba/seatyield/internal/seatyield"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     *models.Config
)

var rootCmd = &cobra.Command{
	Use:   "seatyield",
	Short: "Forecasts empty seats and plans actions to fill them",
	Long: `seatyield forecasts hourly empty-seat risk for a hospitality venue, proposes
tactical actions for the riskiest hours and simulates the revenue impact of the
actions you enable.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := models.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		cfg = c
		setupLogging(cfg.LogLevel, cmd.ErrOrStderr())
		if used := viper.ConfigFileUsed(); used != "" {
			log.Debug().Str("file", used).Msg("using config file")
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./seatyield.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")

	pf.String("scenario", "canal_cafe", "scenario id")
	pf.String("currency", string(models.CurrencyEUR), "currency code: EUR, USD or GBP")
	pf.Int("capacity", 40, "capacity in seats")
	pf.Float64("avg-spend", 42, "average spend per seat")
	pf.Int("open", 12, "opening hour (0-23)")
	pf.Int("close", 23, "closing hour (0-23), exclusive")
	pf.String("date", time.Now().Format(time.DateOnly), "target date, informational")

	bindFlag(pf.Lookup("log-level"), "log_level")
	bindFlag(pf.Lookup("scenario"), "scenario_id")
	bindFlag(pf.Lookup("currency"), "settings.currency")
	bindFlag(pf.Lookup("capacity"), "settings.capacity_seats")
	bindFlag(pf.Lookup("avg-spend"), "settings.avg_spend_per_seat")
	bindFlag(pf.Lookup("open"), "settings.open_hour")
	bindFlag(pf.Lookup("close"), "settings.close_hour")
	bindFlag(pf.Lookup("date"), "settings.target_date")
}

func setupLogging(level string, w io.Writer) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

// newService builds the service over the embedded catalog.
func newService() *seatyield.Service {
	return seatyield.NewService(scenarios.Default())
}

// validSettings returns the configured settings or an ErrInvalidSettings error.
func validSettings() (models.Settings, error) {
	if err := cfg.Settings.Validate(); err != nil {
		return models.Settings{}, err
	}
	return cfg.Settings, nil
}

// Execute runs the root command until it returns or SIGINT/SIGTERM arrives.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
