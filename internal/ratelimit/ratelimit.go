package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter implements a token bucket rate limiter. Timing is injectable so
// tests can drive it without real delays.
type Limiter struct {
	rate       float64 // tokens per second
	tokens     float64
	maxTokens  float64
	lastUpdate time.Time
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error
	mu         sync.Mutex
}

// New creates a new rate limiter with the specified rate (requests per second)
func New(rps float64) *Limiter {
	if rps <= 0 {
		rps = 1.0
	}
	l := &Limiter{
		rate:      rps,
		tokens:    rps,
		maxTokens: rps,
		now:       time.Now,
		sleep:     sleepCtx,
	}
	l.lastUpdate = l.now()
	return l
}

// NewWithClock creates a limiter driven by the given clock and sleep
// functions instead of the wall clock.
func NewWithClock(rps float64, now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) *Limiter {
	l := New(rps)
	l.now = now
	l.sleep = sleep
	l.lastUpdate = now()
	return l
}

// Wait blocks until a token is available or the context is cancelled
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		if l.tryTake() {
			return nil
		}

		waitTime := time.Duration(float64(time.Second) / l.rate)
		if err := l.sleep(ctx, waitTime); err != nil {
			return err
		}
	}
}

func (l *Limiter) tryTake() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	elapsed := now.Sub(l.lastUpdate).Seconds()

	l.tokens += elapsed * l.rate
	if l.tokens > l.maxTokens {
		l.tokens = l.maxTokens
	}

	l.lastUpdate = now

	if l.tokens >= 1.0 {
		l.tokens -= 1.0
		return true
	}

	return false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
