// Package ratelimit meters outbound calls per external source.
//
// Limiters fail fast: Acquire never waits for capacity, it returns an
// *ExceededError so the caller can abort or defer the work.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrLimitExceeded = errors.New("rate limit exceeded")

// Rule allows Limit calls per Window. A non-positive Limit disables metering.
type Rule struct {
	Limit  int
	Window time.Duration
}

func (r Rule) enabled() bool {
	return r.Limit > 0 && r.Window > 0
}

type Permit struct {
	Key       string
	Used      int
	Remaining int
	ResetAt   time.Time
}

type Usage struct {
	Key        string    `json:"key"`
	Used       int       `json:"used"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	Window     string    `json:"window"`
	ResetAt    time.Time `json:"reset_at"`
	Percentage float64   `json:"percentage"`
}

type ExceededError struct {
	Key     string
	Limit   int
	Window  time.Duration
	ResetAt time.Time
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("%s: key=%s limit=%d window=%s reset_at=%s",
		ErrLimitExceeded, e.Key, e.Limit, e.Window, e.ResetAt.UTC().Format(time.RFC3339))
}

func (e *ExceededError) Is(target error) bool {
	return target == ErrLimitExceeded
}

// RetryAfter is the time left until capacity frees up, never negative.
func (e *ExceededError) RetryAfter(now time.Time) time.Duration {
	if d := e.ResetAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

type Limiter interface {
	Acquire(ctx context.Context, key string) (Permit, error)
	Usage(ctx context.Context, key string) (Usage, error)
}

func newUsage(key string, rule Rule, used int, resetAt time.Time) Usage {
	if used > rule.Limit {
		used = rule.Limit
	}
	usage := Usage{
		Key:       key,
		Used:      used,
		Limit:     rule.Limit,
		Remaining: rule.Limit - used,
		Window:    rule.Window.String(),
		ResetAt:   resetAt,
	}
	if rule.Limit > 0 {
		usage.Percentage = float64(used) / float64(rule.Limit) * 100
	}
	return usage
}

// Unlimited never rejects.
type Unlimited struct{}

func (Unlimited) Acquire(_ context.Context, key string) (Permit, error) {
	return Permit{Key: key, Remaining: -1}, nil
}

func (Unlimited) Usage(_ context.Context, key string) (Usage, error) {
	return Usage{Key: key, Remaining: -1}, nil
}
