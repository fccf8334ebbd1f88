package models

type ImpactSnapshot struct {
	ExpectedFillRate float64 `json:"expectedFillRate"`
	ExpectedRevenue  float64 `json:"expectedRevenue"`
	ExpectedNoShows  int     `json:"expectedNoShows"`
}

type ImpactDelta struct {
	FillRateLift   float64 `json:"fillRateLift"`
	RevenueLift    float64 `json:"revenueLift"`
	SeatsRecovered int     `json:"seatsRecovered"`
}

type Impact struct {
	ScenarioID   string         `json:"scenarioId"`
	Baseline     ImpactSnapshot `json:"baseline"`
	WithPlan     ImpactSnapshot `json:"withPlan"`
	Delta        ImpactDelta    `json:"delta"`
	Explanations []string       `json:"explanations"`
}
