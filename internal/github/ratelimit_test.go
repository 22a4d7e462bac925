package github

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-github/v66/github"
)

func responseWithHeaders(h map[string]string) *http.Response {
	header := http.Header{}
	for k, v := range h {
		header.Set(k, v)
	}
	return &http.Response{StatusCode: 200, Header: header}
}

func newTestGate(now time.Time) (*RateGate, *[]time.Duration) {
	g := NewRateGate()
	g.now = func() time.Time { return now }
	var slept []time.Duration
	g.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return g, &slept
}

func TestRateGate_NoHeadersNoPause(t *testing.T) {
	g, slept := newTestGate(time.Unix(1000, 0))
	for i := 0; i < 3; i++ {
		if err := g.Wait(context.Background()); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}
	if len(*slept) != 0 {
		t.Fatalf("expected no pauses, got %v", *slept)
	}
}

func TestRateGate_PausesUntilResetWhenExhausted(t *testing.T) {
	now := time.Unix(1000, 0)
	g, slept := newTestGate(now)

	g.Update(responseWithHeaders(map[string]string{
		"X-RateLimit-Remaining": "0",
		"X-RateLimit-Reset":     fmt.Sprintf("%d", now.Add(90*time.Second).Unix()),
	}))

	if err := g.Wait(context.Background()); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if len(*slept) != 1 || (*slept)[0] != 90*time.Second {
		t.Fatalf("expected one 90s pause, got %v", *slept)
	}
}

func TestRateGate_HonorsRetryAfterCooldown(t *testing.T) {
	now := time.Unix(1000, 0)
	g, slept := newTestGate(now)

	g.Update(responseWithHeaders(map[string]string{
		"Retry-After":           "30",
		"X-RateLimit-Remaining": "100",
	}))

	if err := g.Wait(context.Background()); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if len(*slept) != 1 || (*slept)[0] != 30*time.Second {
		t.Fatalf("expected one 30s pause, got %v", *slept)
	}
}

func TestRateGate_RemainingBudgetDoesNotPause(t *testing.T) {
	now := time.Unix(1000, 0)
	g, slept := newTestGate(now)

	g.Update(responseWithHeaders(map[string]string{
		"X-RateLimit-Remaining": "42",
		"X-RateLimit-Reset":     fmt.Sprintf("%d", now.Add(time.Hour).Unix()),
	}))

	if err := g.Wait(context.Background()); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if len(*slept) != 0 {
		t.Fatalf("expected no pauses, got %v", *slept)
	}
}

func TestIsRateLimit(t *testing.T) {
	if IsRateLimit(nil) {
		t.Fatal("nil error must not be a rate limit")
	}
	if IsRateLimit(fmt.Errorf("boom")) {
		t.Fatal("plain error must not be a rate limit")
	}
	if !IsRateLimit(&github.RateLimitError{}) {
		t.Fatal("RateLimitError must be detected")
	}
	if !IsRateLimit(&github.AbuseRateLimitError{}) {
		t.Fatal("AbuseRateLimitError must be detected")
	}
	if !IsRateLimit(fmt.Errorf("wrapped: %w", &github.RateLimitError{})) {
		t.Fatal("wrapped RateLimitError must be detected")
	}
}
