package format

import (
	"strings"
	"testing"
)

func TestHumanTime(t *testing.T) {
	cases := map[int]string{0: "12am", 9: "9am", 12: "12pm", 13: "1pm", 23: "11pm", 24: "12am", -1: "11pm", 37: "1pm"}
	for hour, want := range cases {
		if got := HumanTime(hour); got != want {
			t.Errorf("HumanTime(%d) = %s, want %s", hour, got, want)
		}
	}
	if got := Window(19, 20); got != "7pm–8pm" {
		t.Errorf("Window(19, 20) = %s", got)
	}
}

func TestPercent(t *testing.T) {
	cases := map[float64]string{0: "0%", 0.437: "44%", 0.726: "73%", 1: "100%", 1.4: "100%", -0.2: "0%"}
	for x, want := range cases {
		if got := Percent(x); got != want {
			t.Errorf("Percent(%.3f) = %s, want %s", x, got, want)
		}
	}
}

func TestCurrencyFallback(t *testing.T) {
	if got := Currency(1234.4, "ZZZ"); got != "ZZZ 1234" {
		t.Fatalf("expected plain fallback, got %q", got)
	}
	if got := Currency(10, "not-a-code"); got != "not-a-code 10" {
		t.Fatalf("expected plain fallback, got %q", got)
	}
}

func TestCurrencyKnownCode(t *testing.T) {
	got := Currency(840, "EUR")
	if strings.HasPrefix(got, "EUR ") || !strings.Contains(got, "840") {
		t.Fatalf("expected symbol formatting, got %q", got)
	}
}
