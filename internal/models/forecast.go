package models

type SeatRiskBlock struct {
	StartHour   int      `json:"startHour"`
	EndHour     int      `json:"endHour"`
	RiskScore   float64  `json:"riskScore"`
	AtRiskSeats int      `json:"atRiskSeats"`
	Tier        RiskTier `json:"tier"`
	Note        string   `json:"note"`
}

// ExpectedFill is the fill fraction implied by the block's risk.
func (b SeatRiskBlock) ExpectedFill() float64 {
	fill := 1 - b.RiskScore
	if fill < 0 {
		return 0
	}
	if fill > 1 {
		return 1
	}
	return fill
}

type Forecast struct {
	ScenarioID      string          `json:"scenarioId"`
	ConfidenceScore float64         `json:"confidenceScore"`
	Blocks          []SeatRiskBlock `json:"blocks"`
	Explanations    []string        `json:"explanations"`
}

// BlockAt returns the first block starting at hour.
func (f Forecast) BlockAt(hour int) (SeatRiskBlock, bool) {
	for _, b := range f.Blocks {
		if b.StartHour == hour {
			return b, true
		}
	}
	return SeatRiskBlock{}, false
}

// TotalAtRiskSeats sums at-risk seats across all blocks.
func (f Forecast) TotalAtRiskSeats() int {
	total := 0
	for _, b := range f.Blocks {
		total += b.AtRiskSeats
	}
	return total
}
