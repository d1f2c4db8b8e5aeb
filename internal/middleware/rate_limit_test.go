package middleware

import (
	"testing"
	"time"
)

func TestLimiterAllowsWithinBudget(t *testing.T) {
	l := &limiter{windows: map[int64]*rateWindow{}, limit: 3, window: time.Minute}
	now := time.Now()

	for i := 0; i < 3; i++ {
		if !l.allow(1, now) {
			t.Fatalf("request %d within budget must pass", i+1)
		}
	}
	if l.allow(1, now) {
		t.Fatal("request over budget must be rejected")
	}
	// A different chat has its own budget.
	if !l.allow(2, now) {
		t.Fatal("unrelated chat must not be affected")
	}
}

func TestLimiterResetsAfterWindow(t *testing.T) {
	l := &limiter{windows: map[int64]*rateWindow{}, limit: 1, window: time.Minute}
	now := time.Now()

	if !l.allow(1, now) {
		t.Fatal("first request must pass")
	}
	if l.allow(1, now.Add(30*time.Second)) {
		t.Fatal("second request inside the window must be rejected")
	}
	if !l.allow(1, now.Add(time.Minute)) {
		t.Fatal("request after the window must pass again")
	}
}
