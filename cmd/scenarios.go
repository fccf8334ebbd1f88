package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the built-in scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		all := newService().Catalog().All()
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), all)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tCITY\tWEATHER\tEVENT\tDAY\tREVIEWS")
		for _, sc := range all {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", sc.ID, sc.Name, sc.City,
				sc.Context.Weather, sc.Context.LocalEvent, sc.Context.DayType, sc.Context.ReviewVelocity)
		}
		return tw.Flush()
	},
}

func init() {
	scenariosCmd.Flags().BoolVar(&jsonOutput, "json", false, "print JSON instead of a table")
	rootCmd.AddCommand(scenariosCmd)
}
