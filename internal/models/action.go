package models

type TimeWindow struct {
	StartHour int `json:"startHour"`
	EndHour   int `json:"endHour"`
}

type ImpactHint struct {
	SeatsRecoveredRange [2]int     `json:"seatsRecoveredRange"`
	FillLiftRange       [2]float64 `json:"fillLiftRange"`
}

// MeanFillLift is the midpoint of the fill-lift range.
func (h ImpactHint) MeanFillLift() float64 {
	return (h.FillLiftRange[0] + h.FillLiftRange[1]) / 2
}

// MeanSeatsRecovered is the midpoint of the seats-recovered range.
func (h ImpactHint) MeanSeatsRecovered() float64 {
	return float64(h.SeatsRecoveredRange[0]+h.SeatsRecoveredRange[1]) / 2
}

type Action struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Type               ActionType `json:"type"`
	Window             TimeWindow `json:"window"`
	Description        string     `json:"description"`
	Rationale          string     `json:"whyThisWorks"`
	EstimatedCostLabel string     `json:"estimatedCostLabel"`
	Confidence         float64    `json:"confidence"`
	DefaultEnabled     bool       `json:"defaultEnabled"`
	ImpactHint         ImpactHint `json:"impactHint"`
}
