package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestWithRetrySucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastConfig(), func() error {
		calls++
		if calls < 3 {
			return Transient(errors.New("connection reset"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithRetry() = %v", err)
	}
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
}

func TestWithRetryStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("bad request")
	calls := 0
	err := WithRetry(context.Background(), fastConfig(), func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Errorf("err = %v, want the permanent error", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1 (no retry on permanent errors)", calls)
	}
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	underlying := errors.New("service unavailable")
	calls := 0
	err := WithRetry(context.Background(), fastConfig(), func() error {
		calls++
		return Transient(underlying)
	})
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
	if !errors.Is(err, underlying) {
		t.Errorf("err = %v, must wrap the last failure", err)
	}
}

func TestWithRetryHonoursContext(t *testing.T) {
	cfg := fastConfig()
	cfg.InitialBackoff = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := WithRetry(ctx, cfg, func() error {
		return Transient(errors.New("timeout"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestTransientMarking(t *testing.T) {
	if Transient(nil) != nil {
		t.Error("Transient(nil) must stay nil")
	}
	base := errors.New("429 too many requests")
	marked := Transient(base)
	if !IsTransient(marked) {
		t.Error("marked error not recognized")
	}
	if IsTransient(base) {
		t.Error("unmarked error recognized as transient")
	}
	if !errors.Is(marked, base) {
		t.Error("marking must preserve the error chain")
	}
}

func TestCalculateBackoffCaps(t *testing.T) {
	cfg := fastConfig()
	if got := calculateBackoff(0, cfg); got != time.Millisecond {
		t.Errorf("attempt 0 backoff = %v", got)
	}
	if got := calculateBackoff(10, cfg); got != cfg.MaxBackoff {
		t.Errorf("late backoff = %v, want the cap %v", got, cfg.MaxBackoff)
	}
}
