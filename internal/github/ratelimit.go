package github

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/go-github/v66/github"
)

// RateGate tracks the API quota advertised through the standard rate-limit
// headers and pauses callers once it is exhausted. The pipeline is sequential
// (one request in flight), so the gate never needs to arbitrate between
// concurrent callers; the mutex only keeps Update and Wait coherent.
type RateGate struct {
	mu        sync.Mutex
	remaining int
	reset     time.Time
	cooldown  time.Time
	seen      bool
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
}

func NewRateGate() *RateGate {
	return &RateGate{
		remaining: 1, // allow the first request; headers take over after that
		now:       time.Now,
		sleep:     sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Wait blocks until a request may be sent: first through any Retry-After
// cooldown, then until the quota reset if the remaining budget is zero.
func (g *RateGate) Wait(ctx context.Context) error {
	g.mu.Lock()
	now := g.now()
	var pause time.Duration
	switch {
	case now.Before(g.cooldown):
		pause = g.cooldown.Sub(now)
	case g.seen && g.remaining <= 0 && now.Before(g.reset):
		pause = g.reset.Sub(now)
	}
	g.mu.Unlock()

	if pause > 0 {
		if err := g.sleep(ctx, pause); err != nil {
			return err
		}
	}
	return nil
}

// Update records rate-limit state from a response.
func (g *RateGate) Update(resp *http.Response) {
	if resp == nil {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
			until := g.now().Add(time.Duration(seconds) * time.Second)
			if until.After(g.cooldown) {
				g.cooldown = until
			}
		}
	}

	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil && val >= 0 {
			g.remaining = val
			g.seen = true
		}
	}

	if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil && val > 0 {
			g.reset = time.Unix(val, 0)
		}
	}
}

// IsRateLimit reports whether err is a primary or secondary rate-limit
// rejection from the GitHub API.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	var rle *github.RateLimitError
	if errors.As(err, &rle) {
		return true
	}
	var arle *github.AbuseRateLimitError
	return errors.As(err, &arle)
}
