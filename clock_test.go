package gtimer

import (
	"testing"
	"time"
)

func TestMonotonicClockIsNonDecreasing(t *testing.T) {
	c := NewClock()
	a := c.NowUS()
	time.Sleep(time.Millisecond)
	b := c.NowUS()
	if b < a {
		t.Fatalf("expected non-decreasing clock, got %d then %d", a, b)
	}
	if b-a < 500 {
		t.Fatalf("expected at least ~1ms to have elapsed, got %dus", b-a)
	}
}
