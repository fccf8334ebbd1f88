package cmd

import (
	"github.com/chrisdamba/seatyield/internal/simulator"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Plan every scenario across a capacity range and export the results",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := validSettings(); err != nil {
			return err
		}
		out, err := simulator.NewOutputDestination(cmd.Context(), cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		sim := simulator.NewSimulator(cfg, newService(), out)
		sim.Progress = cmd.ErrOrStderr()

		summary, sweepErr := sim.Sweep(cmd.Context())
		if err := out.Close(); err != nil && sweepErr == nil {
			sweepErr = err
		}
		if sweepErr != nil {
			return sweepErr
		}
		if cfg.Output.Destination == "" || cfg.Output.Destination == "console" {
			return nil
		}
		return writeJSON(cmd.OutOrStdout(), summary)
	},
}

func init() {
	f := sweepCmd.Flags()
	f.Int("capacity-min", 20, "smallest capacity to plan")
	f.Int("capacity-max", 120, "largest capacity to plan")
	f.Int("capacity-step", 20, "capacity increment")
	f.Int("synthetic", 0, "number of generated scenarios to add")
	f.Int64("seed", 42, "seed for generated scenarios")
	f.Bool("progress", true, "show a progress bar")
	f.String("output", "console", "destination: console, json, csv, parquet or kafka")

	bindFlag(f.Lookup("capacity-min"), "sweep.capacity_min")
	bindFlag(f.Lookup("capacity-max"), "sweep.capacity_max")
	bindFlag(f.Lookup("capacity-step"), "sweep.capacity_step")
	bindFlag(f.Lookup("synthetic"), "sweep.synthetic_count")
	bindFlag(f.Lookup("seed"), "sweep.seed")
	bindFlag(f.Lookup("progress"), "sweep.show_progress")
	bindFlag(f.Lookup("output"), "output.destination")

	rootCmd.AddCommand(sweepCmd)
}
