package seatyield

import (
	"errors"
	"testing"

	"github.com/chrisdamba/seatyield/internal/engine"
	"github.com/chrisdamba/seatyield/internal/models"
	"github.com/chrisdamba/seatyield/internal/scenarios"
	"github.com/google/go-cmp/cmp"
)

func testSettings() models.Settings {
	return models.Settings{
		Currency:        models.CurrencyEUR,
		CapacitySeats:   40,
		AvgSpendPerSeat: 42,
		OpenHour:        12,
		CloseHour:       23,
		TargetDate:      "2026-10-14",
	}
}

func newTestService() *Service {
	return NewService(scenarios.Default())
}

func TestServiceUnknownScenario(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Forecast("missing", testSettings()); !errors.Is(err, ErrUnknownScenario) {
		t.Fatalf("expected ErrUnknownScenario, got %v", err)
	}
	if _, err := svc.Actions("missing", testSettings()); !errors.Is(err, ErrUnknownScenario) {
		t.Fatalf("expected ErrUnknownScenario, got %v", err)
	}
	if _, err := svc.Impact("missing", testSettings(), nil); !errors.Is(err, ErrUnknownScenario) {
		t.Fatalf("expected ErrUnknownScenario, got %v", err)
	}
	if _, err := svc.Plan("missing", testSettings(), nil); !errors.Is(err, ErrUnknownScenario) {
		t.Fatalf("expected ErrUnknownScenario, got %v", err)
	}
}

func TestServiceMatchesEngine(t *testing.T) {
	svc := newTestService()
	settings := testSettings()
	sc, _ := scenarios.Default().Get("bistro_oud_west")

	forecast, err := svc.Forecast(sc.ID, settings)
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if diff := cmp.Diff(engine.ComputeForecast(sc, settings), forecast); diff != "" {
		t.Fatalf("forecast differs:\n%s", diff)
	}

	actions, err := svc.Actions(sc.ID, settings)
	if err != nil {
		t.Fatalf("actions: %v", err)
	}
	if diff := cmp.Diff(engine.ComputeActions(sc, settings, forecast), actions); diff != "" {
		t.Fatalf("actions differ:\n%s", diff)
	}

	ids := []string{actions[0].ID, actions[2].ID}
	impact, err := svc.Impact(sc.ID, settings, ids)
	if err != nil {
		t.Fatalf("impact: %v", err)
	}
	want := engine.ComputeImpact(sc, settings, forecast, actions, map[string]bool{ids[0]: true, ids[1]: true})
	if diff := cmp.Diff(want, impact); diff != "" {
		t.Fatalf("impact differs:\n%s", diff)
	}
}

func TestResolveActiveUsesDefaultsForMissingFlags(t *testing.T) {
	actions := []models.Action{
		{ID: "a", DefaultEnabled: true},
		{ID: "b", DefaultEnabled: false},
		{ID: "c", DefaultEnabled: true},
	}
	got := ResolveActive(actions, map[string]bool{"c": false, "b": true, "stale": true})
	want := map[string]bool{"a": true, "b": true, "c": false}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected flags (-want +got):\n%s", diff)
	}
}

func TestPlanWithDefaults(t *testing.T) {
	plan, err := newTestService().Plan("canal_cafe", testSettings(), nil)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(plan.Forecast.Blocks) != 11 || len(plan.Actions) != 9 {
		t.Fatalf("expected 11 blocks and 9 actions, got %d and %d", len(plan.Forecast.Blocks), len(plan.Actions))
	}
	// two templates default on for the first block, one for the second
	if plan.Summary.ActiveCount != 3 {
		t.Fatalf("expected 3 default-enabled actions, got %d", plan.Summary.ActiveCount)
	}
	if plan.Summary.AtRiskSeats != plan.Forecast.TotalAtRiskSeats() {
		t.Fatalf("summary at-risk seats mismatch")
	}
	if plan.Summary.ConfidencePercent != 72 {
		t.Fatalf("expected 72%% confidence, got %d", plan.Summary.ConfidencePercent)
	}
	if plan.Impact.Delta.FillRateLift <= 0 {
		t.Fatalf("expected positive lift from default plan, got %+v", plan.Impact.Delta)
	}
}

func TestPlanAllOffMatchesBaseline(t *testing.T) {
	svc := newTestService()
	actions, _ := svc.Actions("hotel_bar", testSettings())
	flags := map[string]bool{}
	for _, a := range actions {
		flags[a.ID] = false
	}
	plan, err := svc.Plan("hotel_bar", testSettings(), flags)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if plan.Impact.WithPlan != plan.Impact.Baseline {
		t.Fatalf("expected baseline with every action off")
	}
}
