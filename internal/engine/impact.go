package engine

import "github.com/chrisdamba/seatyield/internal/models"

const (
	emptyForecastFill = 0.5
	minBaselineFill   = 0.05
	maxBaselineFill   = 0.95
	maxWithPlanFill   = 0.98

	minRiskFactor = 0.2
	maxRiskFactor = 0.95

	// diminishingRate scales how fast accumulated lift erodes later actions.
	diminishingRate = 6.0
	noShowPerAction = 0.2
)

var impactExplanations = []string{
	"Baseline revenue = expected fill × capacity × avg spend per seat (simulated).",
	"Actions add a constrained fill-rate lift with diminishing returns (prevents 'magic' results).",
	"Lift is weighted by risk in the targeted time window (higher risk = more upside).",
	"No-shows are slightly reduced when actions improve confirmation/intent (lightweight assumption).",
}

// HourWeight is the importance of an hour when averaging fill: dinner hours
// count most, lunch hours next.
func HourWeight(hour int) float64 {
	switch {
	case hour >= 18 && hour <= 21:
		return 1.6
	case hour >= 12 && hour <= 14:
		return 1.2
	default:
		return 1.0
	}
}

// AverageExpectedFill is the hour-weighted expected fill of the blocks that
// fall inside the operating window.
func AverageExpectedFill(forecast models.Forecast, settings models.Settings) float64 {
	if len(forecast.Blocks) == 0 {
		return emptyForecastFill
	}

	var wSum, vSum float64
	for _, b := range forecast.Blocks {
		if !settings.InWindow(b.StartHour) {
			continue
		}
		w := HourWeight(b.StartHour)
		wSum += w
		vSum += b.ExpectedFill() * w
	}

	return clamp(vSum/max(1e-6, wSum), minBaselineFill, maxBaselineFill)
}

// Lift is the running state of the diminishing-returns fold.
type Lift struct {
	Fill           float64
	SeatsRecovered int
	Applied        int
}

// Apply folds one action into the running lift and returns the fill added by
// it. ok is false when the forecast has no block at the action's start hour,
// in which case l is unchanged.
func (l *Lift) Apply(forecast models.Forecast, capacity int, a models.Action) (added float64, ok bool) {
	block, found := forecast.BlockAt(a.Window.StartHour)
	if !found {
		return 0, false
	}

	riskFactor := clamp(block.RiskScore, minRiskFactor, maxRiskFactor)
	dim := 1 / (1 + l.Fill*diminishingRate)
	added = a.ImpactHint.MeanFillLift() * riskFactor * dim

	l.Fill += added
	l.SeatsRecovered += round(clamp(a.ImpactHint.MeanSeatsRecovered()*dim, 0, float64(capacity)))
	l.Applied++
	return added, true
}

// ActiveActions returns the actions flagged on in active, in the order of
// actions. That order drives the fold and must not be changed.
func ActiveActions(actions []models.Action, active map[string]bool) []models.Action {
	out := make([]models.Action, 0, len(actions))
	for _, a := range actions {
		if active[a.ID] {
			out = append(out, a)
		}
	}
	return out
}

// ComputeImpact compares doing nothing against activating the actions whose
// ids are flagged on in active.
func ComputeImpact(scenario models.Scenario, settings models.Settings, forecast models.Forecast, actions []models.Action, active map[string]bool) models.Impact {
	capacity := float64(settings.CapacitySeats)

	baselineFill := AverageExpectedFill(forecast, settings)
	baselineNoShows := round(capacity * scenario.NoShowRate)
	baselineRevenue := float64(round(baselineFill * capacity * settings.AvgSpendPerSeat))

	selected := ActiveActions(actions, active)

	var lift Lift
	for _, a := range selected {
		lift.Apply(forecast, settings.CapacitySeats, a)
	}

	withPlanFill := clamp(baselineFill+lift.Fill, 0, maxWithPlanFill)
	withPlanNoShows := max(0, baselineNoShows-round(float64(len(selected))*noShowPerAction))
	withPlanRevenue := float64(round(withPlanFill * capacity * settings.AvgSpendPerSeat))

	explanations := make([]string, len(impactExplanations))
	copy(explanations, impactExplanations)

	return models.Impact{
		ScenarioID: scenario.ID,
		Baseline: models.ImpactSnapshot{
			ExpectedFillRate: baselineFill,
			ExpectedRevenue:  baselineRevenue,
			ExpectedNoShows:  baselineNoShows,
		},
		WithPlan: models.ImpactSnapshot{
			ExpectedFillRate: withPlanFill,
			ExpectedRevenue:  withPlanRevenue,
			ExpectedNoShows:  withPlanNoShows,
		},
		Delta: models.ImpactDelta{
			FillRateLift:   clamp(withPlanFill-baselineFill, 0, 1),
			RevenueLift:    max(0, withPlanRevenue-baselineRevenue),
			SeatsRecovered: max(0, lift.SeatsRecovered),
		},
		Explanations: explanations,
	}
}
