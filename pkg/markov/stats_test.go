package markov

import (
	"testing"
)

func TestStats(t *testing.T) {
	c := newTestChain(t, 1, "aaab", "abc")

	// a -> a(2) b(2); b -> c(1)
	expected := Stats{
		Order:        1,
		Windows:      2,
		Transitions:  3,
		Observations: 5,
		MaxFanOut:    2,
	}
	if got := c.Stats(); got != expected {
		t.Errorf("expected stats %+v, got %+v", expected, got)
	}
}

func TestStatsEmpty(t *testing.T) {
	c := newTestChain(t, 3, "ab")
	if got := c.Stats(); got != (Stats{Order: 3}) {
		t.Errorf("expected zero stats for order 3, got %+v", got)
	}
}
