package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_IndependentHosts(t *testing.T) {
	l := NewLimiter(1, 1)
	ctx := context.Background()

	// Burst of one per host; a second host must not be charged for the
	// first host's request.
	start := time.Now()
	if err := l.Wait(ctx, "https://dgms.gov.in/UserView/index?mid=1650"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if err := l.Wait(ctx, "https://mirror.example.org/sanket.pdf"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("waits on distinct hosts took %v, want near-immediate", elapsed)
	}
}

func TestLimiter_SameHostThrottled(t *testing.T) {
	l := NewLimiter(10, 1)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx, "https://dgms.gov.in/writereaddata/sanket_q1.pdf"); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
	}
	// Burst 1 at 10 rps means the second and third waits pay ~100ms
	// each.
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("three same-host waits took %v, want at least 150ms", elapsed)
	}
}

func TestLimiter_WaitWithDelayAddsCrawlDelay(t *testing.T) {
	l := NewLimiter(100, 10)

	start := time.Now()
	if err := l.WaitWithDelay(context.Background(), "https://dgms.gov.in/", 100*time.Millisecond); err != nil {
		t.Fatalf("WaitWithDelay: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("elapsed %v, want at least the 100ms crawl delay", elapsed)
	}
}

func TestLimiter_WaitWithDelayHonorsCancel(t *testing.T) {
	l := NewLimiter(100, 10)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := l.WaitWithDelay(ctx, "https://dgms.gov.in/", 5*time.Second)
	if err == nil {
		t.Fatal("expected context error, got nil")
	}
}

func TestLimiter_InvalidURL(t *testing.T) {
	l := NewLimiter(1, 1)
	if err := l.Wait(context.Background(), "://not-a-url"); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}
