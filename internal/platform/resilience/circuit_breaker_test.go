package resilience

import (
	"testing"
	"time"
)

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(2, time.Minute, 1)

	if err := b.Allow(); err != nil {
		t.Fatalf("closed breaker should allow: %v", err)
	}
	b.RecordFailure()
	b.RecordFailure()

	if got := b.State(); got != CircuitStateOpen {
		t.Fatalf("expected open state, got %s", got)
	}
	if err := b.Allow(); err == nil {
		t.Fatal("open breaker should reject")
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(1, 10*time.Millisecond, 1)
	base := time.Now()
	b.now = func() time.Time { return base }

	b.RecordFailure()
	if got := b.State(); got != CircuitStateOpen {
		t.Fatalf("expected open state, got %s", got)
	}

	b.now = func() time.Time { return base.Add(20 * time.Millisecond) }
	if err := b.Allow(); err != nil {
		t.Fatalf("half-open probe should be allowed: %v", err)
	}
	b.RecordSuccess()

	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("expected closed after successful probe, got %s", got)
	}
}

func TestSingleFlight_Deduplicates(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	calls := 0

	val, err, _ := g.Do("key", func() (any, error) {
		calls++
		return 42, nil
	})
	if err != nil || val != 42 {
		t.Fatalf("unexpected result: %v %v", val, err)
	}
	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
}
