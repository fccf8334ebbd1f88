package cmd

import (
	"errors"

	"github.com/chrisdamba/seatyield/internal/models"
	"github.com/chrisdamba/seatyield/internal/repositories"
	"github.com/chrisdamba/seatyield/internal/seatyield"
	"github.com/chrisdamba/seatyield/internal/simulator"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	jsonOutput  bool
	activeIDs   []string
	inactiveIDs []string
	exportPlan  bool
	loadState   bool
	saveState   bool
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Show the hourly empty-seat risk timeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := validSettings()
		if err != nil {
			return err
		}
		f, err := newService().Forecast(cfg.ScenarioID, settings)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), f)
		}
		return renderForecast(cmd.OutOrStdout(), f)
	},
}

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the actions proposed for the riskiest hours",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := validSettings()
		if err != nil {
			return err
		}
		actions, err := newService().Actions(cfg.ScenarioID, settings)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), actions)
		}
		return renderActions(cmd.OutOrStdout(), actions, nil)
	},
}

var impactCmd = &cobra.Command{
	Use:   "impact",
	Short: "Simulate the impact of exactly the --active actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := validSettings()
		if err != nil {
			return err
		}
		im, err := newService().Impact(cfg.ScenarioID, settings, activeIDs)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), im)
		}
		return renderImpact(cmd.OutOrStdout(), im, settings.Currency)
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Run forecast, actions and impact in one pass",
	Long: `plan runs the whole pipeline. Actions start from their defaults, or from the
saved toggles with --load-state; --active and --inactive then switch
individual action ids on or off.`,
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	settings := cfg.Settings
	flags := map[string]bool{}

	var repo repositories.StateRepository
	if loadState || saveState {
		r, err := openStateRepository(ctx, cfg.State)
		if err != nil {
			return err
		}
		defer r.Close()
		repo = r
	}

	if loadState {
		state, err := repo.Load(ctx, cfg.State.Key)
		switch {
		case errors.Is(err, repositories.ErrStateCorrupt):
			log.Warn().Err(err).Str("key", cfg.State.Key).Msg("saved state unreadable, using defaults")
			state = nil
		case err != nil:
			return err
		}
		if state == nil {
			log.Info().Str("key", cfg.State.Key).Msg("no saved state, using defaults")
		} else {
			log.Info().Str("key", cfg.State.Key).Strs("active", state.ActiveIDs()).Msg("loaded saved state")
			settings = state.Settings
			for id, on := range state.ActiveActions {
				flags[id] = on
			}
		}
	}

	plan, err := buildPlan(settings, flags)
	if err != nil {
		return err
	}

	if saveState {
		state := models.PersistedState{Settings: plan.Settings, ActiveActions: plan.ActiveActions}
		if err := repo.Save(ctx, cfg.State.Key, state); err != nil {
			return err
		}
		log.Info().Str("key", cfg.State.Key).Int("actions", len(state.ActiveActions)).Msg("state saved")
	}
	return finishPlan(cmd, plan)
}

func buildPlan(settings models.Settings, flags map[string]bool) (seatyield.Plan, error) {
	if err := settings.Validate(); err != nil {
		return seatyield.Plan{}, err
	}
	for _, id := range activeIDs {
		flags[id] = true
	}
	for _, id := range inactiveIDs {
		flags[id] = false
	}
	return newService().Plan(cfg.ScenarioID, settings, flags)
}

func finishPlan(cmd *cobra.Command, plan seatyield.Plan) error {
	if exportPlan {
		// Console records go to stderr when stdout carries the JSON plan.
		console := cmd.OutOrStdout()
		if jsonOutput {
			console = cmd.ErrOrStderr()
		}
		out, err := simulator.NewOutputDestination(cmd.Context(), cfg, console)
		if err != nil {
			return err
		}
		sim := simulator.NewSimulator(cfg, newService(), out)
		_, exportErr := sim.ExportPlan(plan)
		if err := out.Close(); err != nil && exportErr == nil {
			exportErr = err
		}
		if exportErr != nil {
			return exportErr
		}
	}
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), plan)
	}
	return renderPlan(cmd.OutOrStdout(), plan)
}

func init() {
	for _, c := range []*cobra.Command{forecastCmd, actionsCmd, impactCmd, planCmd} {
		c.Flags().BoolVar(&jsonOutput, "json", false, "print JSON instead of a table")
		rootCmd.AddCommand(c)
	}
	impactCmd.Flags().StringSliceVar(&activeIDs, "active", nil, "action ids to enable")
	planCmd.Flags().StringSliceVar(&activeIDs, "active", nil, "action ids to switch on")
	planCmd.Flags().StringSliceVar(&inactiveIDs, "inactive", nil, "action ids to switch off")
	planCmd.Flags().BoolVar(&exportPlan, "export", false, "write report records to output.destination")
	planCmd.Flags().BoolVar(&loadState, "load-state", false, "start from the saved settings and toggles")
	planCmd.Flags().BoolVar(&saveState, "save-state", false, "save the settings and resolved toggles")
}
