package models

// ScenarioContext summarises the demand conditions of a scenario.
type ScenarioContext struct {
	Weather        Weather        `json:"weather" yaml:"weather"`
	LocalEvent     LocalEvent     `json:"localEvent" yaml:"local_event"`
	DayType        DayType        `json:"dayType" yaml:"day_type"`
	ReviewVelocity ReviewVelocity `json:"reviewVelocity" yaml:"review_velocity"`
}

type Scenario struct {
	ID                   string          `json:"id" yaml:"id"`
	Name                 string          `json:"name" yaml:"name"`
	City                 string          `json:"city" yaml:"city"`
	Context              ScenarioContext `json:"context" yaml:"context"`
	HistoricalFillByHour map[int]float64 `json:"historicalFillByHour" yaml:"historical_fill_by_hour"` // sparse, hour -> fill fraction
	NoShowRate           float64         `json:"noShowRate" yaml:"no_show_rate"`
	WalkInStrength       float64         `json:"walkInStrength" yaml:"walk_in_strength"`
}

// DefaultHistoricalFill is used for hours missing from HistoricalFillByHour.
const DefaultHistoricalFill = 0.35

// HistoricalFill returns the recorded fill for hour, or DefaultHistoricalFill.
func (s Scenario) HistoricalFill(hour int) float64 {
	if fill, ok := s.HistoricalFillByHour[hour]; ok {
		return fill
	}
	return DefaultHistoricalFill
}

// Clone returns a copy that shares no mutable state with s.
func (s Scenario) Clone() Scenario {
	out := s
	if s.HistoricalFillByHour != nil {
		out.HistoricalFillByHour = make(map[int]float64, len(s.HistoricalFillByHour))
		for h, v := range s.HistoricalFillByHour {
			out.HistoricalFillByHour[h] = v
		}
	}
	return out
}
