package usage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestConsumeUntilLimit(t *testing.T) {
	svc := NewService(3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.Consume(ctx, "user-1"); err != nil {
			t.Fatalf("Consume %d: %v", i, err)
		}
	}
	if err := svc.Consume(ctx, "user-1"); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached, got %v", err)
	}

	// Another user is unaffected.
	if err := svc.Consume(ctx, "user-2"); err != nil {
		t.Fatalf("Consume for other user: %v", err)
	}
}

func TestCounterResetsAtMidnight(t *testing.T) {
	svc := NewService(1)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 23, 50, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	if err := svc.Consume(ctx, "user-1"); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if err := svc.Consume(ctx, "user-1"); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached, got %v", err)
	}

	svc.now = func() time.Time { return base.Add(20 * time.Minute) }
	if err := svc.Consume(ctx, "user-1"); err != nil {
		t.Fatalf("expected fresh allowance on a new day: %v", err)
	}
}

func TestReset(t *testing.T) {
	svc := NewService(1)
	ctx := context.Background()

	if err := svc.Consume(ctx, "user-1"); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if err := svc.Reset(ctx, "user-1"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	u, err := svc.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if u.Used != 0 {
		t.Fatalf("expected zero usage after reset, got %d", u.Used)
	}
}
