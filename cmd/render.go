package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/chrisdamba/seatyield/internal/format"
	"github.com/chrisdamba/seatyield/internal/models"
	"github.com/chrisdamba/seatyield/internal/seatyield"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderForecast(w io.Writer, f models.Forecast) error {
	fmt.Fprintf(w, "Forecast for %s (confidence %s, %d seats at risk)\n\n",
		f.ScenarioID, format.Percent(f.ConfidenceScore), f.TotalAtRiskSeats())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WINDOW\tRISK\tAT RISK\tTIER\tNOTE")
	for _, b := range f.Blocks {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			format.Window(b.StartHour, b.EndHour), format.Percent(b.RiskScore), b.AtRiskSeats, b.Tier, b.Note)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	for _, e := range f.Explanations {
		fmt.Fprintf(w, "  - %s\n", e)
	}
	return nil
}

// renderActions marks each action [x] or [ ] from active; a nil map uses the
// action defaults.
func renderActions(w io.Writer, actions []models.Action, active map[string]bool) error {
	if len(actions) == 0 {
		_, err := fmt.Fprintln(w, "No actions proposed.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ON\tID\tWINDOW\tTYPE\tCOST\tCONFIDENCE\tSEATS")
	for _, a := range actions {
		on := a.DefaultEnabled
		if active != nil {
			on = active[a.ID]
		}
		mark := "[ ]"
		if on {
			mark = "[x]"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d-%d\n",
			mark, a.ID, format.Window(a.Window.StartHour, a.Window.EndHour), a.Type,
			a.EstimatedCostLabel, format.Percent(a.Confidence),
			a.ImpactHint.SeatsRecoveredRange[0], a.ImpactHint.SeatsRecoveredRange[1])
	}
	return tw.Flush()
}

func renderImpact(w io.Writer, im models.Impact, currency models.Currency) error {
	code := string(currency)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tBASELINE\tWITH PLAN\tDELTA")
	fmt.Fprintf(tw, "Fill rate\t%s\t%s\t+%s\n",
		format.Percent(im.Baseline.ExpectedFillRate), format.Percent(im.WithPlan.ExpectedFillRate), format.Percent(im.Delta.FillRateLift))
	fmt.Fprintf(tw, "Revenue\t%s\t%s\t+%s\n",
		format.Currency(im.Baseline.ExpectedRevenue, code), format.Currency(im.WithPlan.ExpectedRevenue, code), format.Currency(im.Delta.RevenueLift, code))
	fmt.Fprintf(tw, "No-shows\t%d\t%d\t\n", im.Baseline.ExpectedNoShows, im.WithPlan.ExpectedNoShows)
	fmt.Fprintf(tw, "Seats recovered\t\t\t%d\n", im.Delta.SeatsRecovered)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	for _, e := range im.Explanations {
		fmt.Fprintf(w, "  - %s\n", e)
	}
	return nil
}

func renderPlan(w io.Writer, p seatyield.Plan) error {
	fmt.Fprintf(w, "%s, %s (%s)\n", p.Scenario.Name, p.Scenario.City, p.Settings.TargetDate)
	fmt.Fprintf(w, "%d seats at risk, confidence %d%%, %d actions active\n\n",
		p.Summary.AtRiskSeats, p.Summary.ConfidencePercent, p.Summary.ActiveCount)

	if err := renderForecast(w, p.Forecast); err != nil {
		return err
	}
	fmt.Fprintln(w)
	if err := renderActions(w, p.Actions, p.ActiveActions); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return renderImpact(w, p.Impact, p.Settings.Currency)
}
