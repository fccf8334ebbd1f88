package engine

import (
	"testing"

	"github.com/chrisdamba/seatyield/internal/models"
	"github.com/google/go-cmp/cmp"
)

func riskyScenario() models.Scenario {
	s := workedScenario()
	s.ID = "risky"
	s.HistoricalFillByHour = map[int]float64{
		12: 0.70, 13: 0.80, 14: 0.55,
		15: 0.20, 16: 0.25, 17: 0.45,
		18: 0.85, 19: 0.90, 20: 0.75,
		21: 0.30, 22: 0.15,
	}
	return s
}

func TestSelectTargetBlocksPicksRiskiestInHourOrder(t *testing.T) {
	f := ComputeForecast(riskyScenario(), defaultSettings())

	top := SelectTargetBlocks(f.Blocks, MaxTargetBlocks)
	got := make([]int, len(top))
	for i, b := range top {
		got[i] = b.StartHour
	}
	// lowest fills are 22 (0.15), 15 (0.20), 16 (0.25)
	if diff := cmp.Diff([]int{15, 16, 22}, got); diff != "" {
		t.Fatalf("unexpected selection (-want +got):\n%s", diff)
	}

	for i := 1; i < len(f.Blocks); i++ {
		if f.Blocks[i].StartHour < f.Blocks[i-1].StartHour {
			t.Fatalf("forecast blocks were reordered")
		}
	}
}

func TestSelectTargetBlocksTieBreaksOnEarlierHour(t *testing.T) {
	blocks := []models.SeatRiskBlock{
		{StartHour: 12, RiskScore: 0.5},
		{StartHour: 13, RiskScore: 0.6},
		{StartHour: 14, RiskScore: 0.6},
		{StartHour: 15, RiskScore: 0.6},
		{StartHour: 16, RiskScore: 0.6},
	}
	top := SelectTargetBlocks(blocks, 3)
	if len(top) != 3 || top[0].StartHour != 13 || top[1].StartHour != 14 || top[2].StartHour != 15 {
		t.Fatalf("expected hours 13,14,15, got %+v", top)
	}
}

func TestSelectTargetBlocksFewerThanThree(t *testing.T) {
	blocks := []models.SeatRiskBlock{{StartHour: 20, RiskScore: 0.3}, {StartHour: 21, RiskScore: 0.8}}
	if top := SelectTargetBlocks(blocks, 3); len(top) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(top))
	}
	if top := SelectTargetBlocks(nil, 3); len(top) != 0 {
		t.Fatalf("expected no blocks, got %d", len(top))
	}
}

func TestComputeActionsShape(t *testing.T) {
	s := riskyScenario()
	settings := defaultSettings()
	f := ComputeForecast(s, settings)

	actions := ComputeActions(s, settings, f)
	if len(actions) != 9 {
		t.Fatalf("expected 9 actions, got %d", len(actions))
	}

	wantTypes := []models.ActionType{models.ActionGoogleProfileBoost, models.ActionHyperlocalOffer, models.ActionMenuHighlight}
	wantHours := []int{15, 16, 22}
	for i, a := range actions {
		block, idx := wantHours[i/3], i/3
		if a.Window.StartHour != block || a.Window.EndHour != block+1 {
			t.Errorf("action %d targets %d-%d, want %d", i, a.Window.StartHour, a.Window.EndHour, block)
		}
		if a.Type != wantTypes[i%3] {
			t.Errorf("action %d has type %s, want %s", i, a.Type, wantTypes[i%3])
		}
		if a.Confidence < 0 || a.Confidence > 1 {
			t.Errorf("action %d confidence %.3f out of range", i, a.Confidence)
		}
		wantDefault := (a.Type == models.ActionMenuHighlight && idx == 1) || (a.Type != models.ActionMenuHighlight && idx == 0)
		if a.DefaultEnabled != wantDefault {
			t.Errorf("action %s defaultEnabled=%v, want %v", a.ID, a.DefaultEnabled, wantDefault)
		}
	}
	if actions[0].ID != "risky_15_0_gbp_boost" || actions[8].ID != "risky_22_2_menu_highlight" {
		t.Fatalf("unexpected ids %s / %s", actions[0].ID, actions[8].ID)
	}
}

func TestComputeActionsImpactHints(t *testing.T) {
	b := models.SeatRiskBlock{StartHour: 19, EndHour: 20, RiskScore: 0.5, AtRiskSeats: 20}
	f := models.Forecast{ScenarioID: "x", Blocks: []models.SeatRiskBlock{b}}
	actions := ComputeActions(models.Scenario{ID: "x"}, defaultSettings(), f)

	want := []models.ImpactHint{
		{SeatsRecoveredRange: [2]int{1, 5}, FillLiftRange: [2]float64{0.02, 0.06}},
		{SeatsRecoveredRange: [2]int{2, 7}, FillLiftRange: [2]float64{0.03, 0.09}},
		{SeatsRecoveredRange: [2]int{1, 4}, FillLiftRange: [2]float64{0.01, 0.05}},
	}
	wantConfidence := []float64{0.64, 0.58, 0.60}
	for i, a := range actions {
		if diff := cmp.Diff(want[i], a.ImpactHint); diff != "" {
			t.Errorf("action %d hint (-want +got):\n%s", i, diff)
		}
		if !approx(a.Confidence, wantConfidence[i]) {
			t.Errorf("action %d confidence %.4f, want %.2f", i, a.Confidence, wantConfidence[i])
		}
	}

	b.AtRiskSeats = 0
	b.RiskScore = 0.98
	f.Blocks = []models.SeatRiskBlock{b}
	actions = ComputeActions(models.Scenario{ID: "x"}, defaultSettings(), f)
	if actions[0].ImpactHint.SeatsRecoveredRange != [2]int{1, 2} || actions[1].ImpactHint.SeatsRecoveredRange != [2]int{2, 3} {
		t.Fatalf("expected seat floors, got %v / %v", actions[0].ImpactHint.SeatsRecoveredRange, actions[1].ImpactHint.SeatsRecoveredRange)
	}
	if !approx(actions[0].Confidence, 0.736) || !approx(actions[1].Confidence, 0.70) || !approx(actions[2].Confidence, 0.672) {
		t.Fatalf("unexpected high-risk confidences %.4f %.4f %.4f", actions[0].Confidence, actions[1].Confidence, actions[2].Confidence)
	}
}

func TestComputeActionsEmptyForecast(t *testing.T) {
	actions := ComputeActions(workedScenario(), defaultSettings(), models.Forecast{})
	if len(actions) != 0 {
		t.Fatalf("expected no actions, got %d", len(actions))
	}
}

func TestComputeActionsUniqueTypeAndHour(t *testing.T) {
	s := riskyScenario()
	f := ComputeForecast(s, defaultSettings())
	type key struct {
		actionType models.ActionType
		startHour  int
	}
	seen := map[key]bool{}
	for _, a := range ComputeActions(s, defaultSettings(), f) {
		k := key{a.Type, a.Window.StartHour}
		if seen[k] {
			t.Fatalf("duplicate action %s at %d", a.Type, a.Window.StartHour)
		}
		seen[k] = true
	}
}

func TestDedupeKeepsFirstOccurrence(t *testing.T) {
	in := []models.Action{
		{ID: "a", Type: models.ActionHyperlocalOffer, Window: models.TimeWindow{StartHour: 19}},
		{ID: "b", Type: models.ActionMenuHighlight, Window: models.TimeWindow{StartHour: 19}},
		{ID: "c", Type: models.ActionHyperlocalOffer, Window: models.TimeWindow{StartHour: 19}},
		{ID: "d", Type: models.ActionHyperlocalOffer, Window: models.TimeWindow{StartHour: 20}},
	}
	out := Dedupe(in)
	ids := make([]string, len(out))
	for i, a := range out {
		ids[i] = a.ID
	}
	if diff := cmp.Diff([]string{"a", "b", "d"}, ids); diff != "" {
		t.Fatalf("unexpected dedupe result (-want +got):\n%s", diff)
	}
}

func TestComputeActionsIsDeterministic(t *testing.T) {
	s := riskyScenario()
	settings := defaultSettings()
	f := ComputeForecast(s, settings)

	first := ComputeActions(s, settings, f)
	second := ComputeActions(s, settings, ComputeForecast(s, settings))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("actions differ between calls (-first +second):\n%s", diff)
	}
}
