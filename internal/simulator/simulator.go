// Package simulator renders plans into flat report records and runs capacity
// sweeps across scenarios.
package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chrisdamba/seatyield/internal/factories"
	"github.com/chrisdamba/seatyield/internal/models"
	"github.com/chrisdamba/seatyield/internal/seatyield"
	"github.com/lucsky/cuid"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
)

type Simulator struct {
	Config   *models.Config
	Service  *seatyield.Service
	Output   OutputDestination
	Progress io.Writer

	now      func() time.Time
	newRunID func() string
}

// SweepSummary describes one finished sweep.
type SweepSummary struct {
	RunID           string  `json:"runId"`
	Scenarios       int     `json:"scenarios"`
	Points          int     `json:"points"`
	BestScenarioID  string  `json:"bestScenarioId"`
	BestCapacity    int     `json:"bestCapacity"`
	BestRevenueLift float64 `json:"bestRevenueLift"`
}

func NewSimulator(config *models.Config, service *seatyield.Service, output OutputDestination) *Simulator {
	return &Simulator{
		Config:   config,
		Service:  service,
		Output:   output,
		Progress: os.Stderr,
		now:      time.Now,
		newRunID: cuid.New,
	}
}

func (s *Simulator) emit(topic string, record interface{}) error {
	msg, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("error serializing %s record: %w", topic, err)
	}
	if err := s.Output.WriteMessage(topic, msg); err != nil {
		return fmt.Errorf("failed to write %s record: %w", topic, err)
	}
	return nil
}

// recordDate is the partition date for a run: the settings' target date, or
// the run's own date when none was given.
func (s *Simulator) recordDate(settings models.Settings) string {
	if settings.TargetDate != "" {
		return settings.TargetDate
	}
	return s.now().Format(time.DateOnly)
}

// ExportPlan writes one risk-block record per hour, one record per action and
// a single impact record, all sharing a fresh run id.
func (s *Simulator) ExportPlan(plan seatyield.Plan) (string, error) {
	runID := s.newRunID()
	ts := s.now().Unix()
	sid, date := plan.Scenario.ID, s.recordDate(plan.Settings)

	for _, b := range plan.Forecast.Blocks {
		rec := RiskBlockRecord{
			RunID:       runID,
			ScenarioID:  sid,
			TargetDate:  date,
			Timestamp:   ts,
			StartHour:   int32(b.StartHour),
			EndHour:     int32(b.EndHour),
			RiskScore:   b.RiskScore,
			AtRiskSeats: int32(b.AtRiskSeats),
			Tier:        string(b.Tier),
			Note:        b.Note,
		}
		if err := s.emit(TopicRiskBlocks, rec); err != nil {
			return runID, err
		}
	}

	for _, a := range plan.Actions {
		rec := ActionRecord{
			RunID:          runID,
			ScenarioID:     sid,
			TargetDate:     date,
			Timestamp:      ts,
			ActionID:       a.ID,
			ActionType:     string(a.Type),
			Title:          a.Title,
			StartHour:      int32(a.Window.StartHour),
			EndHour:        int32(a.Window.EndHour),
			Confidence:     a.Confidence,
			CostLabel:      a.EstimatedCostLabel,
			DefaultEnabled: a.DefaultEnabled,
			Active:         plan.ActiveActions[a.ID],
			SeatsMin:       int32(a.ImpactHint.SeatsRecoveredRange[0]),
			SeatsMax:       int32(a.ImpactHint.SeatsRecoveredRange[1]),
			LiftMin:        a.ImpactHint.FillLiftRange[0],
			LiftMax:        a.ImpactHint.FillLiftRange[1],
		}
		if err := s.emit(TopicActions, rec); err != nil {
			return runID, err
		}
	}

	im := plan.Impact
	rec := ImpactRecord{
		RunID:           runID,
		ScenarioID:      sid,
		TargetDate:      date,
		Timestamp:       ts,
		Currency:        string(plan.Settings.Currency),
		CapacitySeats:   int32(plan.Settings.CapacitySeats),
		ActiveCount:     int32(plan.Summary.ActiveCount),
		BaselineFill:    im.Baseline.ExpectedFillRate,
		BaselineRevenue: im.Baseline.ExpectedRevenue,
		BaselineNoShows: int32(im.Baseline.ExpectedNoShows),
		WithPlanFill:    im.WithPlan.ExpectedFillRate,
		WithPlanRevenue: im.WithPlan.ExpectedRevenue,
		WithPlanNoShows: int32(im.WithPlan.ExpectedNoShows),
		FillRateLift:    im.Delta.FillRateLift,
		RevenueLift:     im.Delta.RevenueLift,
		SeatsRecovered:  int32(im.Delta.SeatsRecovered),
	}
	if err := s.emit(TopicImpact, rec); err != nil {
		return runID, err
	}

	log.Info().
		Str("run_id", runID).
		Str("scenario", sid).
		Int("blocks", len(plan.Forecast.Blocks)).
		Int("actions", len(plan.Actions)).
		Msg("plan exported")
	return runID, nil
}

// Capacities lists lo, lo+step, ... up to and including hi.
func Capacities(lo, hi, step int) ([]int, error) {
	if step <= 0 {
		return nil, fmt.Errorf("capacity step must be positive, got %d", step)
	}
	if lo <= 0 || hi < lo {
		return nil, fmt.Errorf("invalid capacity range %d..%d", lo, hi)
	}
	var out []int
	for c := lo; c <= hi; c += step {
		out = append(out, c)
	}
	return out, nil
}

// Sweep plans every catalog scenario, plus sweep.synthetic_count generated
// ones, at every capacity in range using default-enabled actions.
func (s *Simulator) Sweep(ctx context.Context) (SweepSummary, error) {
	sc := s.Config.Sweep
	capacities, err := Capacities(sc.CapacityMin, sc.CapacityMax, sc.CapacityStep)
	if err != nil {
		return SweepSummary{}, err
	}

	type entry struct {
		scenario  models.Scenario
		synthetic bool
	}
	var entries []entry
	for _, scn := range s.Service.Catalog().All() {
		entries = append(entries, entry{scenario: scn})
	}
	if sc.SyntheticCount > 0 {
		for _, scn := range factories.NewScenarioFactory(sc.Seed).CreateScenarios(sc.SyntheticCount) {
			entries = append(entries, entry{scenario: scn, synthetic: true})
		}
	}

	summary := SweepSummary{RunID: s.newRunID(), Scenarios: len(entries)}
	ts := s.now().Unix()
	date := s.recordDate(s.Config.Settings)
	total := len(entries) * len(capacities)

	progress := s.Progress
	if !sc.ShowProgress || progress == nil {
		progress = io.Discard
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("sweep"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	log.Info().
		Str("run_id", summary.RunID).
		Int("scenarios", len(entries)).
		Ints("capacities", capacities).
		Msg("sweep starts")

	first := true
	for _, e := range entries {
		for _, capacity := range capacities {
			if err := ctx.Err(); err != nil {
				return summary, err
			}

			settings := s.Config.Settings
			settings.CapacitySeats = capacity
			plan := seatyield.BuildPlan(e.scenario, settings, nil)

			rec := SweepRecord{
				RunID:           summary.RunID,
				ScenarioID:      e.scenario.ID,
				TargetDate:      date,
				Timestamp:       ts,
				Synthetic:       e.synthetic,
				CapacitySeats:   int32(capacity),
				AtRiskSeats:     int32(plan.Summary.AtRiskSeats),
				ActiveCount:     int32(plan.Summary.ActiveCount),
				BaselineFill:    plan.Impact.Baseline.ExpectedFillRate,
				WithPlanFill:    plan.Impact.WithPlan.ExpectedFillRate,
				BaselineRevenue: plan.Impact.Baseline.ExpectedRevenue,
				WithPlanRevenue: plan.Impact.WithPlan.ExpectedRevenue,
				RevenueLift:     plan.Impact.Delta.RevenueLift,
				SeatsRecovered:  int32(plan.Impact.Delta.SeatsRecovered),
			}
			if err := s.emit(TopicSweep, rec); err != nil {
				return summary, err
			}

			summary.Points++
			if first || rec.RevenueLift > summary.BestRevenueLift {
				first = false
				summary.BestScenarioID = e.scenario.ID
				summary.BestCapacity = capacity
				summary.BestRevenueLift = rec.RevenueLift
			}
			_ = bar.Add(1)
		}
	}
	_ = bar.Finish()

	log.Info().
		Str("run_id", summary.RunID).
		Int("points", summary.Points).
		Str("best_scenario", summary.BestScenarioID).
		Int("best_capacity", summary.BestCapacity).
		Float64("best_revenue_lift", summary.BestRevenueLift).
		Msg("sweep completed")
	return summary, nil
}
