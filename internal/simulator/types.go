package simulator

import "fmt"

const (
	TopicRiskBlocks = "seat_risk_blocks"
	TopicActions    = "seat_yield_actions"
	TopicImpact     = "seat_yield_impact"
	TopicSweep      = "seat_yield_sweep"
)

// RiskBlockRecord is one hour of the forecast timeline.
type RiskBlockRecord struct {
	RunID       string  `json:"runId" parquet:"name=runId,type=BYTE_ARRAY,convertedtype=UTF8"`
	ScenarioID  string  `json:"scenarioId" parquet:"name=scenarioId,type=BYTE_ARRAY,convertedtype=UTF8"`
	TargetDate  string  `json:"targetDate" parquet:"name=targetDate,type=BYTE_ARRAY,convertedtype=UTF8"`
	Timestamp   int64   `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	StartHour   int32   `json:"startHour" parquet:"name=startHour,type=INT32"`
	EndHour     int32   `json:"endHour" parquet:"name=endHour,type=INT32"`
	RiskScore   float64 `json:"riskScore" parquet:"name=riskScore,type=DOUBLE"`
	AtRiskSeats int32   `json:"atRiskSeats" parquet:"name=atRiskSeats,type=INT32"`
	Tier        string  `json:"tier" parquet:"name=tier,type=BYTE_ARRAY,convertedtype=UTF8"`
	Note        string  `json:"note" parquet:"name=note,type=BYTE_ARRAY,convertedtype=UTF8"`
}

// ActionRecord is one proposed action and whether the plan activated it.
type ActionRecord struct {
	RunID          string  `json:"runId" parquet:"name=runId,type=BYTE_ARRAY,convertedtype=UTF8"`
	ScenarioID     string  `json:"scenarioId" parquet:"name=scenarioId,type=BYTE_ARRAY,convertedtype=UTF8"`
	TargetDate     string  `json:"targetDate" parquet:"name=targetDate,type=BYTE_ARRAY,convertedtype=UTF8"`
	Timestamp      int64   `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	ActionID       string  `json:"actionId" parquet:"name=actionId,type=BYTE_ARRAY,convertedtype=UTF8"`
	ActionType     string  `json:"actionType" parquet:"name=actionType,type=BYTE_ARRAY,convertedtype=UTF8"`
	Title          string  `json:"title" parquet:"name=title,type=BYTE_ARRAY,convertedtype=UTF8"`
	StartHour      int32   `json:"startHour" parquet:"name=startHour,type=INT32"`
	EndHour        int32   `json:"endHour" parquet:"name=endHour,type=INT32"`
	Confidence     float64 `json:"confidence" parquet:"name=confidence,type=DOUBLE"`
	CostLabel      string  `json:"costLabel" parquet:"name=costLabel,type=BYTE_ARRAY,convertedtype=UTF8"`
	DefaultEnabled bool    `json:"defaultEnabled" parquet:"name=defaultEnabled,type=BOOLEAN"`
	Active         bool    `json:"active" parquet:"name=active,type=BOOLEAN"`
	SeatsMin       int32   `json:"seatsMin" parquet:"name=seatsMin,type=INT32"`
	SeatsMax       int32   `json:"seatsMax" parquet:"name=seatsMax,type=INT32"`
	LiftMin        float64 `json:"liftMin" parquet:"name=liftMin,type=DOUBLE"`
	LiftMax        float64 `json:"liftMax" parquet:"name=liftMax,type=DOUBLE"`
}

// ImpactRecord is the baseline versus with-plan comparison of one plan.
type ImpactRecord struct {
	RunID           string  `json:"runId" parquet:"name=runId,type=BYTE_ARRAY,convertedtype=UTF8"`
	ScenarioID      string  `json:"scenarioId" parquet:"name=scenarioId,type=BYTE_ARRAY,convertedtype=UTF8"`
	TargetDate      string  `json:"targetDate" parquet:"name=targetDate,type=BYTE_ARRAY,convertedtype=UTF8"`
	Timestamp       int64   `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	Currency        string  `json:"currency" parquet:"name=currency,type=BYTE_ARRAY,convertedtype=UTF8"`
	CapacitySeats   int32   `json:"capacitySeats" parquet:"name=capacitySeats,type=INT32"`
	ActiveCount     int32   `json:"activeCount" parquet:"name=activeCount,type=INT32"`
	BaselineFill    float64 `json:"baselineFill" parquet:"name=baselineFill,type=DOUBLE"`
	BaselineRevenue float64 `json:"baselineRevenue" parquet:"name=baselineRevenue,type=DOUBLE"`
	BaselineNoShows int32   `json:"baselineNoShows" parquet:"name=baselineNoShows,type=INT32"`
	WithPlanFill    float64 `json:"withPlanFill" parquet:"name=withPlanFill,type=DOUBLE"`
	WithPlanRevenue float64 `json:"withPlanRevenue" parquet:"name=withPlanRevenue,type=DOUBLE"`
	WithPlanNoShows int32   `json:"withPlanNoShows" parquet:"name=withPlanNoShows,type=INT32"`
	FillRateLift    float64 `json:"fillRateLift" parquet:"name=fillRateLift,type=DOUBLE"`
	RevenueLift     float64 `json:"revenueLift" parquet:"name=revenueLift,type=DOUBLE"`
	SeatsRecovered  int32   `json:"seatsRecovered" parquet:"name=seatsRecovered,type=INT32"`
}

// SweepRecord is one (scenario, capacity) point of a sensitivity sweep.
type SweepRecord struct {
	RunID           string  `json:"runId" parquet:"name=runId,type=BYTE_ARRAY,convertedtype=UTF8"`
	ScenarioID      string  `json:"scenarioId" parquet:"name=scenarioId,type=BYTE_ARRAY,convertedtype=UTF8"`
	TargetDate      string  `json:"targetDate" parquet:"name=targetDate,type=BYTE_ARRAY,convertedtype=UTF8"`
	Timestamp       int64   `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	Synthetic       bool    `json:"synthetic" parquet:"name=synthetic,type=BOOLEAN"`
	CapacitySeats   int32   `json:"capacitySeats" parquet:"name=capacitySeats,type=INT32"`
	AtRiskSeats     int32   `json:"atRiskSeats" parquet:"name=atRiskSeats,type=INT32"`
	ActiveCount     int32   `json:"activeCount" parquet:"name=activeCount,type=INT32"`
	BaselineFill    float64 `json:"baselineFill" parquet:"name=baselineFill,type=DOUBLE"`
	WithPlanFill    float64 `json:"withPlanFill" parquet:"name=withPlanFill,type=DOUBLE"`
	BaselineRevenue float64 `json:"baselineRevenue" parquet:"name=baselineRevenue,type=DOUBLE"`
	WithPlanRevenue float64 `json:"withPlanRevenue" parquet:"name=withPlanRevenue,type=DOUBLE"`
	RevenueLift     float64 `json:"revenueLift" parquet:"name=revenueLift,type=DOUBLE"`
	SeatsRecovered  int32   `json:"seatsRecovered" parquet:"name=seatsRecovered,type=INT32"`
}

// NewRecord returns a pointer to an empty record for topic.
func NewRecord(topic string) (interface{}, error) {
	switch topic {
	case TopicRiskBlocks:
		return new(RiskBlockRecord), nil
	case TopicActions:
		return new(ActionRecord), nil
	case TopicImpact:
		return new(ImpactRecord), nil
	case TopicSweep:
		return new(SweepRecord), nil
	default:
		return nil, fmt.Errorf("unknown topic: %s", topic)
	}
}
