package simulator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chrisdamba/seatyield/internal/models"
	"github.com/chrisdamba/seatyield/internal/scenarios"
	"github.com/chrisdamba/seatyield/internal/seatyield"
	"github.com/google/go-cmp/cmp"
)

type memoryOutput struct {
	messages map[string][][]byte
	failOn   string
	closed   bool
}

func newMemoryOutput() *memoryOutput {
	return &memoryOutput{messages: make(map[string][][]byte)}
}

func (m *memoryOutput) WriteMessage(topic string, msg []byte) error {
	if topic == m.failOn {
		return errors.New("sink unavailable")
	}
	m.messages[topic] = append(m.messages[topic], msg)
	return nil
}

func (m *memoryOutput) Close() error {
	m.closed = true
	return nil
}

func testConfig() *models.Config {
	return &models.Config{
		ScenarioID: "canal_cafe",
		Settings: models.Settings{
			Currency:        models.CurrencyEUR,
			CapacitySeats:   40,
			AvgSpendPerSeat: 42,
			OpenHour:        12,
			CloseHour:       23,
			TargetDate:      "2026-10-14",
		},
		Sweep: models.SweepConfig{
			CapacityMin:  20,
			CapacityMax:  60,
			CapacityStep: 20,
			Seed:         7,
		},
	}
}

func newTestSimulator(out OutputDestination) *Simulator {
	sim := NewSimulator(testConfig(), seatyield.NewService(scenarios.Default()), out)
	sim.now = func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC) }
	n := 0
	sim.newRunID = func() string {
		n++
		return fmt.Sprintf("run%d", n)
	}
	return sim
}

func testPlan(t *testing.T, sim *Simulator) seatyield.Plan {
	t.Helper()
	plan, err := sim.Service.Plan("canal_cafe", sim.Config.Settings, nil)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	return plan
}

func TestExportPlanRecordCounts(t *testing.T) {
	out := newMemoryOutput()
	sim := newTestSimulator(out)
	plan := testPlan(t, sim)

	runID, err := sim.ExportPlan(plan)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if runID != "run1" {
		t.Fatalf("run id = %q", runID)
	}
	if got := len(out.messages[TopicRiskBlocks]); got != len(plan.Forecast.Blocks) {
		t.Fatalf("risk block records = %d, want %d", got, len(plan.Forecast.Blocks))
	}
	if got := len(out.messages[TopicActions]); got != len(plan.Actions) {
		t.Fatalf("action records = %d, want %d", got, len(plan.Actions))
	}
	if got := len(out.messages[TopicImpact]); got != 1 {
		t.Fatalf("impact records = %d, want 1", got)
	}
}

func TestExportPlanImpactRecord(t *testing.T) {
	out := newMemoryOutput()
	sim := newTestSimulator(out)
	plan := testPlan(t, sim)

	if _, err := sim.ExportPlan(plan); err != nil {
		t.Fatalf("export: %v", err)
	}

	var got ImpactRecord
	if err := json.Unmarshal(out.messages[TopicImpact][0], &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := ImpactRecord{
		RunID:           "run1",
		ScenarioID:      "canal_cafe",
		TargetDate:      "2026-10-14",
		Timestamp:       time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC).Unix(),
		Currency:        "EUR",
		CapacitySeats:   40,
		ActiveCount:     int32(plan.Summary.ActiveCount),
		BaselineFill:    plan.Impact.Baseline.ExpectedFillRate,
		BaselineRevenue: plan.Impact.Baseline.ExpectedRevenue,
		BaselineNoShows: int32(plan.Impact.Baseline.ExpectedNoShows),
		WithPlanFill:    plan.Impact.WithPlan.ExpectedFillRate,
		WithPlanRevenue: plan.Impact.WithPlan.ExpectedRevenue,
		WithPlanNoShows: int32(plan.Impact.WithPlan.ExpectedNoShows),
		FillRateLift:    plan.Impact.Delta.FillRateLift,
		RevenueLift:     plan.Impact.Delta.RevenueLift,
		SeatsRecovered:  int32(plan.Impact.Delta.SeatsRecovered),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("impact record mismatch (-want +got):\n%s", diff)
	}
}

func TestExportPlanActiveFlags(t *testing.T) {
	out := newMemoryOutput()
	sim := newTestSimulator(out)
	plan := testPlan(t, sim)

	if _, err := sim.ExportPlan(plan); err != nil {
		t.Fatalf("export: %v", err)
	}
	for i, raw := range out.messages[TopicActions] {
		var rec ActionRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if rec.ActionID != plan.Actions[i].ID {
			t.Fatalf("record %d id = %q, want %q", i, rec.ActionID, plan.Actions[i].ID)
		}
		if rec.Active != plan.ActiveActions[rec.ActionID] {
			t.Fatalf("record %s active = %v", rec.ActionID, rec.Active)
		}
	}
}

func TestExportPlanWithoutTargetDateUsesRunDate(t *testing.T) {
	dir := t.TempDir()
	out := NewJSONOutput(dir, "seatyield")
	sim := newTestSimulator(out)
	sim.Config.Settings.TargetDate = ""
	plan := testPlan(t, sim)

	if _, err := sim.ExportPlan(plan); err != nil {
		t.Fatalf("export: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	for _, topic := range []string{TopicRiskBlocks, TopicActions, TopicImpact} {
		file := filepath.Join(dir, "seatyield", topic, "date=2026-10-14", "data.json")
		data, err := os.ReadFile(file)
		if err != nil {
			t.Fatalf("read %s: %v", topic, err)
		}
		if !strings.Contains(string(data), `"targetDate":"2026-10-14"`) {
			t.Errorf("%s records not stamped with run date: %s", topic, data)
		}
	}
}

func TestExportPlanPropagatesWriteError(t *testing.T) {
	out := newMemoryOutput()
	out.failOn = TopicImpact
	sim := newTestSimulator(out)

	if _, err := sim.ExportPlan(testPlan(t, sim)); err == nil {
		t.Fatal("expected write error")
	}
}

func TestCapacities(t *testing.T) {
	got, err := Capacities(20, 70, 20)
	if err != nil {
		t.Fatalf("capacities: %v", err)
	}
	if diff := cmp.Diff([]int{20, 40, 60}, got); diff != "" {
		t.Fatalf("capacities mismatch (-want +got):\n%s", diff)
	}
	if _, err := Capacities(20, 60, 0); err == nil {
		t.Fatal("expected error for zero step")
	}
	if _, err := Capacities(60, 20, 10); err == nil {
		t.Fatal("expected error for inverted range")
	}
	if _, err := Capacities(0, 20, 10); err == nil {
		t.Fatal("expected error for zero capacity")
	}
}

func TestSweepEmitsOnePointPerScenarioAndCapacity(t *testing.T) {
	out := newMemoryOutput()
	sim := newTestSimulator(out)
	sim.Config.Sweep.SyntheticCount = 2

	summary, err := sim.Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}

	scenarioCount := scenarios.Default().Len() + 2
	if summary.Scenarios != scenarioCount {
		t.Fatalf("scenarios = %d, want %d", summary.Scenarios, scenarioCount)
	}
	if want := scenarioCount * 3; summary.Points != want || len(out.messages[TopicSweep]) != want {
		t.Fatalf("points = %d, records = %d, want %d", summary.Points, len(out.messages[TopicSweep]), want)
	}
	if summary.BestScenarioID == "" {
		t.Fatal("expected a best scenario")
	}

	synthetic := 0
	for _, raw := range out.messages[TopicSweep] {
		var rec SweepRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if rec.RunID != summary.RunID {
			t.Fatalf("record run id %q, want %q", rec.RunID, summary.RunID)
		}
		if rec.RevenueLift > summary.BestRevenueLift {
			t.Fatalf("record lift %.2f exceeds best %.2f", rec.RevenueLift, summary.BestRevenueLift)
		}
		if rec.Synthetic {
			synthetic++
		}
	}
	if synthetic != 6 {
		t.Fatalf("synthetic records = %d, want 6", synthetic)
	}
}

func TestSweepHonorsCancellation(t *testing.T) {
	out := newMemoryOutput()
	sim := newTestSimulator(out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := sim.Sweep(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(out.messages[TopicSweep]) != 0 {
		t.Fatalf("expected no records after cancellation, got %d", len(out.messages[TopicSweep]))
	}
}

func TestSweepRejectsBadStep(t *testing.T) {
	sim := newTestSimulator(newMemoryOutput())
	sim.Config.Sweep.CapacityStep = 0
	if _, err := sim.Sweep(context.Background()); err == nil {
		t.Fatal("expected error for zero step")
	}
}
