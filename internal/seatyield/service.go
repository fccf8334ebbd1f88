// Package seatyield resolves scenario identifiers and chains the engine
// stages the way the presentation layer consumes them.
package seatyield

import (
	"errors"
	"fmt"

	"github.com/chrisdamba/seatyield/internal/engine"
	"github.com/chrisdamba/seatyield/internal/models"
	"github.com/chrisdamba/seatyield/internal/scenarios"
)

var ErrUnknownScenario = errors.New("unknown scenario")

// Plan is one full pass over the pipeline.
type Plan struct {
	Scenario      models.Scenario `json:"scenario"`
	Settings      models.Settings `json:"settings"`
	Forecast      models.Forecast `json:"forecast"`
	Actions       []models.Action `json:"actions"`
	ActiveActions map[string]bool `json:"activeActions"`
	Impact        models.Impact   `json:"impact"`
	Summary       Summary         `json:"summary"`
}

type Summary struct {
	AtRiskSeats       int `json:"atRiskSeats"`
	ConfidencePercent int `json:"confidencePercent"`
	ActiveCount       int `json:"activeCount"`
}

// Service is stateless apart from the catalog it reads from.
type Service struct {
	catalog *scenarios.Catalog
}

func NewService(catalog *scenarios.Catalog) *Service {
	return &Service{catalog: catalog}
}

func (s *Service) Catalog() *scenarios.Catalog {
	return s.catalog
}

func (s *Service) scenario(id string) (models.Scenario, error) {
	sc, ok := s.catalog.Get(id)
	if !ok {
		return models.Scenario{}, fmt.Errorf("%w: %q", ErrUnknownScenario, id)
	}
	return sc, nil
}

func (s *Service) Forecast(scenarioID string, settings models.Settings) (models.Forecast, error) {
	sc, err := s.scenario(scenarioID)
	if err != nil {
		return models.Forecast{}, err
	}
	return engine.ComputeForecast(sc, settings), nil
}

// Actions recomputes the forecast before deriving actions.
func (s *Service) Actions(scenarioID string, settings models.Settings) ([]models.Action, error) {
	sc, err := s.scenario(scenarioID)
	if err != nil {
		return nil, err
	}
	forecast := engine.ComputeForecast(sc, settings)
	return engine.ComputeActions(sc, settings, forecast), nil
}

// Impact recomputes forecast and actions, then simulates the given ids.
func (s *Service) Impact(scenarioID string, settings models.Settings, activeIDs []string) (models.Impact, error) {
	sc, err := s.scenario(scenarioID)
	if err != nil {
		return models.Impact{}, err
	}
	forecast := engine.ComputeForecast(sc, settings)
	actions := engine.ComputeActions(sc, settings, forecast)
	return engine.ComputeImpact(sc, settings, forecast, actions, ActiveSet(activeIDs)), nil
}

// Plan runs every stage. flags carries persisted toggles; actions without a
// flag fall back to their default.
func (s *Service) Plan(scenarioID string, settings models.Settings, flags map[string]bool) (Plan, error) {
	sc, err := s.scenario(scenarioID)
	if err != nil {
		return Plan{}, err
	}
	return BuildPlan(sc, settings, flags), nil
}

// BuildPlan is Plan for a scenario that is not in a catalog.
func BuildPlan(sc models.Scenario, settings models.Settings, flags map[string]bool) Plan {
	forecast := engine.ComputeForecast(sc, settings)
	actions := engine.ComputeActions(sc, settings, forecast)
	active := ResolveActive(actions, flags)
	impact := engine.ComputeImpact(sc, settings, forecast, actions, active)

	return Plan{
		Scenario:      sc,
		Settings:      settings,
		Forecast:      forecast,
		Actions:       actions,
		ActiveActions: active,
		Impact:        impact,
		Summary: Summary{
			AtRiskSeats:       forecast.TotalAtRiskSeats(),
			ConfidencePercent: int(forecast.ConfidenceScore*100 + 0.5),
			ActiveCount:       len(engine.ActiveActions(actions, active)),
		},
	}
}

// ResolveActive returns one flag per action: the stored flag when present,
// otherwise the action's default. Flags for unknown ids are dropped.
func ResolveActive(actions []models.Action, flags map[string]bool) map[string]bool {
	out := make(map[string]bool, len(actions))
	for _, a := range actions {
		if on, ok := flags[a.ID]; ok {
			out[a.ID] = on
			continue
		}
		out[a.ID] = a.DefaultEnabled
	}
	return out
}

// ActiveSet turns a list of ids into the set form the simulator takes.
func ActiveSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
