package engine

import (
	"fmt"
	"sort"

	"github.com/chrisdamba/seatyield/internal/models"
)

// MaxTargetBlocks is how many of the riskiest blocks receive actions.
const MaxTargetBlocks = 3

type confidenceCurve struct {
	base, slope, min, max float64
}

func (c confidenceCurve) at(riskScore float64) float64 {
	return clamp(c.base+(riskScore-0.5)*c.slope, c.min, c.max)
}

type actionTemplate struct {
	slug        string
	actionType  models.ActionType
	title       string
	description string
	rationale   string
	costLabel   string
	confidence  confidenceCurve
	seatsMin    int
	seatsFloor  int
	seatsShare  float64
	fillLift    [2]float64
	// defaultFor is the block index whose action starts enabled.
	defaultFor int
}

var actionTemplates = []actionTemplate{
	{
		slug:        "gbp_boost",
		actionType:  models.ActionGoogleProfileBoost,
		title:       "Google Profile Boost (micro-update)",
		description: "Publish a small Google Business Profile update that increases local visibility during the at-risk window (e.g., fresh photo + short post).",
		rationale:   "GBP recency and engagement can influence local pack visibility. A lightweight update is often enough to nudge discovery without discounting.",
		costLabel:   "Low (owner time or automated)",
		confidence:  confidenceCurve{base: 0.64, slope: 0.2, min: 0.45, max: 0.82},
		seatsMin:    1,
		seatsFloor:  2,
		seatsShare:  0.25,
		fillLift:    [2]float64{0.02, 0.06},
		defaultFor:  0,
	},
	{
		slug:        "hyper_offer",
		actionType:  models.ActionHyperlocalOffer,
		title:       "Hyperlocal Offer (tight window)",
		description: "Target first-time diners within a short radius with a time-boxed offer (no blanket discounts; limited inventory).",
		rationale:   "It shifts a small number of undecided locals into the at-risk window without training your entire customer base to wait for discounts.",
		costLabel:   "Medium (controlled incentives)",
		confidence:  confidenceCurve{base: 0.58, slope: 0.25, min: 0.40, max: 0.78},
		seatsMin:    2,
		seatsFloor:  3,
		seatsShare:  0.35,
		fillLift:    [2]float64{0.03, 0.09},
		defaultFor:  0,
	},
	{
		slug:        "menu_highlight",
		actionType:  models.ActionMenuHighlight,
		title:       "Menu Highlight (high-margin push)",
		description: "Promote a high-margin item and a simple story (seasonal, signature, chef's pick) during the at-risk period.",
		rationale:   "You keep margins healthy while creating a compelling reason to visit now (not later).",
		costLabel:   "Low",
		confidence:  confidenceCurve{base: 0.60, slope: 0.15, min: 0.42, max: 0.76},
		seatsMin:    1,
		seatsFloor:  2,
		seatsShare:  0.18,
		fillLift:    [2]float64{0.01, 0.05},
		defaultFor:  1,
	},
}

// ActionID is the stable identity of the action generated from template
// slug for the block at index idx starting at startHour.
func ActionID(scenarioID string, startHour, idx int, slug string) string {
	return fmt.Sprintf("%s_%d_%d_%s", scenarioID, startHour, idx, slug)
}

func (t actionTemplate) build(scenarioID string, b models.SeatRiskBlock, idx int) models.Action {
	seatsMax := round(float64(b.AtRiskSeats) * t.seatsShare)
	if seatsMax < t.seatsFloor {
		seatsMax = t.seatsFloor
	}
	return models.Action{
		ID:                 ActionID(scenarioID, b.StartHour, idx, t.slug),
		Title:              t.title,
		Type:               t.actionType,
		Window:             models.TimeWindow{StartHour: b.StartHour, EndHour: b.EndHour},
		Description:        t.description,
		Rationale:          t.rationale,
		EstimatedCostLabel: t.costLabel,
		Confidence:         t.confidence.at(b.RiskScore),
		DefaultEnabled:     idx == t.defaultFor,
		ImpactHint: models.ImpactHint{
			SeatsRecoveredRange: [2]int{t.seatsMin, seatsMax},
			FillLiftRange:       t.fillLift,
		},
	}
}

// SelectTargetBlocks returns the n riskiest blocks ordered by start hour.
// Equal scores keep the earlier hour. The forecast is left untouched.
func SelectTargetBlocks(blocks []models.SeatRiskBlock, n int) []models.SeatRiskBlock {
	ranked := make([]models.SeatRiskBlock, len(blocks))
	copy(ranked, blocks)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].RiskScore != ranked[j].RiskScore {
			return ranked[i].RiskScore > ranked[j].RiskScore
		}
		return ranked[i].StartHour < ranked[j].StartHour
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].StartHour < ranked[j].StartHour
	})
	return ranked
}

// ComputeActions proposes mitigation actions for the riskiest windows of the
// forecast, in ascending hour order.
func ComputeActions(scenario models.Scenario, settings models.Settings, forecast models.Forecast) []models.Action {
	top := SelectTargetBlocks(forecast.Blocks, MaxTargetBlocks)

	actions := make([]models.Action, 0, len(top)*len(actionTemplates))
	for idx, b := range top {
		for _, t := range actionTemplates {
			actions = append(actions, t.build(scenario.ID, b, idx))
		}
	}
	return Dedupe(actions)
}

// Dedupe keeps the first action for every (type, start hour) pair and drops
// later ones, preserving order.
func Dedupe(actions []models.Action) []models.Action {
	type key struct {
		actionType models.ActionType
		startHour  int
	}
	seen := make(map[key]bool, len(actions))
	out := make([]models.Action, 0, len(actions))
	for _, a := range actions {
		k := key{a.Type, a.Window.StartHour}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, a)
	}
	return out
}
