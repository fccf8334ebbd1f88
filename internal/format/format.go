// Package format renders engine values for people.
package format

import (
	"fmt"
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// HumanTime renders an hour as 12am..11pm, wrapping modulo 24.
func HumanTime(hour int) string {
	h := ((hour % 24) + 24) % 24
	suffix := "am"
	if h >= 12 {
		suffix = "pm"
	}
	hr12 := h % 12
	if hr12 == 0 {
		hr12 = 12
	}
	return fmt.Sprintf("%d%s", hr12, suffix)
}

// Window renders a half-open hour range such as "7pm–8pm".
func Window(start, end int) string {
	return HumanTime(start) + "–" + HumanTime(end)
}

// Percent renders a fraction clamped to [0, 1] as a whole percentage.
func Percent(x float64) string {
	v := math.Max(0, math.Min(1, x))
	return fmt.Sprintf("%d%%", int(math.Floor(v*100+0.5)))
}

// Currency renders a whole-unit amount with the currency symbol. Codes that
// are not recognised ISO 4217 currencies fall back to "CODE amount".
func Currency(amount float64, code string) string {
	rounded := int64(math.Floor(amount + 0.5))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%s %d", code, rounded)
	}
	return printer.Sprintf("%v%d", currency.Symbol(unit), rounded)
}
