package models

import (
	"errors"
	"fmt"
)

var ErrInvalidSettings = errors.New("invalid settings")

// Settings are the venue-level inputs collected by the caller. The operating
// window is the half-open hour range [OpenHour, CloseHour).
type Settings struct {
	Currency        Currency `json:"currency" mapstructure:"currency"`
	CapacitySeats   int      `json:"capacitySeats" mapstructure:"capacity_seats"`
	AvgSpendPerSeat float64  `json:"avgSpendPerSeat" mapstructure:"avg_spend_per_seat"`
	OpenHour        int      `json:"openHour" mapstructure:"open_hour"`
	CloseHour       int      `json:"closeHour" mapstructure:"close_hour"`
	TargetDate      string   `json:"targetDateISO" mapstructure:"target_date"` // informational only
}

// WindowHours is the number of hourly blocks in the operating window.
func (s Settings) WindowHours() int {
	if s.CloseHour <= s.OpenHour {
		return 0
	}
	return s.CloseHour - s.OpenHour
}

// InWindow reports whether hour falls inside [OpenHour, CloseHour).
func (s Settings) InWindow(hour int) bool {
	return hour >= s.OpenHour && hour < s.CloseHour
}

// Validate checks settings the way a form layer would before calling the
// engine. The engine itself accepts anything and clamps its own outputs.
func (s Settings) Validate() error {
	if !s.Currency.Valid() {
		return fmt.Errorf("%w: unsupported currency %q", ErrInvalidSettings, s.Currency)
	}
	if s.CapacitySeats <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidSettings, s.CapacitySeats)
	}
	if s.AvgSpendPerSeat <= 0 {
		return fmt.Errorf("%w: average spend must be positive, got %.2f", ErrInvalidSettings, s.AvgSpendPerSeat)
	}
	if s.OpenHour < 0 || s.OpenHour > 23 {
		return fmt.Errorf("%w: open hour %d outside 0..23", ErrInvalidSettings, s.OpenHour)
	}
	if s.CloseHour < 0 || s.CloseHour > 23 {
		return fmt.Errorf("%w: close hour %d outside 0..23", ErrInvalidSettings, s.CloseHour)
	}
	return nil
}
