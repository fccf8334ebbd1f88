package engine

import (
	"fmt"

	"github.com/chrisdamba/seatyield/internal/models"
)

const (
	fillRiskWeight   = 0.85
	noShowRiskWeight = 0.35

	minRiskScore = 0.05
	maxRiskScore = 0.98

	highRiskThreshold   = 0.70
	mediumRiskThreshold = 0.40

	minMultiplier = 0.85
	maxMultiplier = 1.20

	baseConfidence = 0.68
	minConfidence  = 0.55
	maxConfidence  = 0.82
)

var (
	weatherAdjustments = map[models.Weather]float64{
		models.WeatherRainy: 0.08,
		models.WeatherSunny: -0.05,
	}
	localEventAdjustments = map[models.LocalEvent]float64{
		models.LocalEventConcertNearby:  0.06,
		models.LocalEventConferenceWeek: 0.04,
	}
	reviewAdjustments = map[models.ReviewVelocity]float64{
		models.ReviewVelocityNegative: 0.07,
		models.ReviewVelocityPositive: -0.04,
	}

	tierNotes = map[models.RiskTier]string{
		models.RiskTierHigh:   "High risk: low historic demand + current conditions",
		models.RiskTierMedium: "Medium risk: moderate demand, monitor + light activation",
		models.RiskTierLow:    "Low risk: demand likely to absorb remaining capacity",
	}
)

// ScenarioMultiplier folds weather, local event and review sentiment into a
// single clamped scalar applied to every hour of the scenario.
func ScenarioMultiplier(ctx models.ScenarioContext) float64 {
	m := 1.0
	m += weatherAdjustments[ctx.Weather]
	m += localEventAdjustments[ctx.LocalEvent]
	m += reviewAdjustments[ctx.ReviewVelocity]
	return clamp(m, minMultiplier, maxMultiplier)
}

// TierFor maps a risk score onto its note tier.
func TierFor(riskScore float64) models.RiskTier {
	switch {
	case riskScore >= highRiskThreshold:
		return models.RiskTierHigh
	case riskScore >= mediumRiskThreshold:
		return models.RiskTierMedium
	default:
		return models.RiskTierLow
	}
}

// ComputeForecast builds the hour-by-hour risk timeline for the operating
// window. An empty window yields an empty block list.
func ComputeForecast(scenario models.Scenario, settings models.Settings) models.Forecast {
	mult := ScenarioMultiplier(scenario.Context)
	capacity := settings.CapacitySeats

	blocks := make([]models.SeatRiskBlock, 0, settings.WindowHours())
	for h := settings.OpenHour; h < settings.CloseHour; h++ {
		histFill := scenario.HistoricalFill(h)

		baseRisk := (1-histFill)*fillRiskWeight + scenario.NoShowRate*noShowRiskWeight
		riskScore := clamp(baseRisk*mult, minRiskScore, maxRiskScore)

		expectedFill := clamp(1-riskScore, 0, 1)
		expectedSeatsSold := round(expectedFill * float64(capacity))
		atRiskSeats := clampInt(capacity-expectedSeatsSold, 0, capacity)

		tier := TierFor(riskScore)
		blocks = append(blocks, models.SeatRiskBlock{
			StartHour:   h,
			EndHour:     h + 1,
			RiskScore:   riskScore,
			AtRiskSeats: atRiskSeats,
			Tier:        tier,
			Note:        tierNotes[tier],
		})
	}

	confidence := baseConfidence + 0.04
	if scenario.Context.ReviewVelocity == models.ReviewVelocityNegative {
		confidence = baseConfidence - 0.06
	}

	return models.Forecast{
		ScenarioID:      scenario.ID,
		ConfidenceScore: clamp(confidence, minConfidence, maxConfidence),
		Blocks:          blocks,
		Explanations:    forecastExplanations(scenario),
	}
}

func forecastExplanations(s models.Scenario) []string {
	return []string{
		"Historical by-hour fill pattern for this venue type (simulated).",
		fmt.Sprintf("Adjusted by weather (%s) and local context (%s).", s.Context.Weather, s.Context.LocalEvent),
		fmt.Sprintf("No-show rate baseline applied (%d%%).", percent(s.NoShowRate)),
		fmt.Sprintf("Walk-in strength affects late-hour risk (%d%%).", percent(s.WalkInStrength)),
	}
}

func percent(x float64) int {
	return round(x * 100)
}
