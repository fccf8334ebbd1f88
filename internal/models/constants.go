package models

type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
)

type Weather string

const (
	WeatherSunny Weather = "Sunny"
	WeatherRainy Weather = "Rainy"
	WeatherWindy Weather = "Windy"
	WeatherSnowy Weather = "Snowy"
)

type LocalEvent string

const (
	LocalEventNone           LocalEvent = "None"
	LocalEventConcertNearby  LocalEvent = "Concert nearby"
	LocalEventFootballMatch  LocalEvent = "Football match"
	LocalEventConferenceWeek LocalEvent = "Conference week"
)

type DayType string

const (
	DayTypeWeekday DayType = "Weekday"
	DayTypeWeekend DayType = "Weekend"
)

type ReviewVelocity string

const (
	ReviewVelocityPositive ReviewVelocity = "Positive"
	ReviewVelocityNeutral  ReviewVelocity = "Neutral"
	ReviewVelocityNegative ReviewVelocity = "Negative"
)

type RiskTier string

const (
	RiskTierHigh   RiskTier = "high"
	RiskTierMedium RiskTier = "medium"
	RiskTierLow    RiskTier = "low"
)

type ActionType string

const (
	ActionGoogleProfileBoost ActionType = "Google Profile Boost"
	ActionHyperlocalOffer    ActionType = "Hyperlocal Offer"
	ActionReviewNudge        ActionType = "Review Nudge"
	ActionMenuHighlight      ActionType = "Menu Highlight"
	ActionInventoryPush      ActionType = "Last-Minute Inventory Push"
)

var (
	Currencies       = []Currency{CurrencyEUR, CurrencyUSD, CurrencyGBP}
	Weathers         = []Weather{WeatherSunny, WeatherRainy, WeatherWindy, WeatherSnowy}
	LocalEvents      = []LocalEvent{LocalEventNone, LocalEventConcertNearby, LocalEventFootballMatch, LocalEventConferenceWeek}
	DayTypes         = []DayType{DayTypeWeekday, DayTypeWeekend}
	ReviewVelocities = []ReviewVelocity{ReviewVelocityPositive, ReviewVelocityNeutral, ReviewVelocityNegative}
)

// Valid reports whether c is one of the supported settings currencies.
func (c Currency) Valid() bool {
	for _, known := range Currencies {
		if c == known {
			return true
		}
	}
	return false
}
