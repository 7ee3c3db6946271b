package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// TokenBucket paces calls with a token bucket and caps them with a sliding
// log of recent grants. A call needs a token and a free slot in the log, so
// no Window-long span ever holds more than Limit permits.
type TokenBucket struct {
	mu       sync.Mutex
	state    map[string]*bucketState
	rules    map[string]Rule
	fallback Rule
	now      func() time.Time
}

type bucketState struct {
	tokens *rate.Limiter
	// grants holds the times of the permits still inside the window, oldest first.
	grants []time.Time
}

func NewTokenBucket(rules map[string]Rule, fallback Rule) *TokenBucket {
	copied := make(map[string]Rule, len(rules))
	for key, rule := range rules {
		copied[key] = rule
	}
	return &TokenBucket{
		state:    make(map[string]*bucketState),
		rules:    copied,
		fallback: fallback,
		now:      time.Now,
	}
}

func (l *TokenBucket) rule(key string) Rule {
	if rule, ok := l.rules[key]; ok {
		return rule
	}
	return l.fallback
}

// stateFor must be called with l.mu held.
func (l *TokenBucket) stateFor(key string, rule Rule, now time.Time) *bucketState {
	st, ok := l.state[key]
	if !ok {
		interval := rule.Window / time.Duration(rule.Limit)
		st = &bucketState{
			tokens: rate.NewLimiter(rate.Every(interval), rule.Limit),
			grants: make([]time.Time, 0, rule.Limit),
		}
		l.state[key] = st
	}

	cutoff := now.Add(-rule.Window)
	expired := 0
	for expired < len(st.grants) && !st.grants[expired].After(cutoff) {
		expired++
	}
	if expired > 0 {
		st.grants = append(st.grants[:0], st.grants[expired:]...)
	}
	return st
}

// resetAt is when the next call could be admitted by both guards.
func (st *bucketState) resetAt(rule Rule, now time.Time) time.Time {
	at := now.Add(untilNextToken(st.tokens, now))
	if len(st.grants) >= rule.Limit {
		if slot := st.grants[0].Add(rule.Window); slot.After(at) {
			at = slot
		}
	}
	return at
}

func (l *TokenBucket) Acquire(_ context.Context, key string) (Permit, error) {
	rule := l.rule(key)
	if !rule.enabled() {
		return Permit{Key: key, Remaining: -1}, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	st := l.stateFor(key, rule, now)
	if len(st.grants) >= rule.Limit || !st.tokens.AllowN(now, 1) {
		return Permit{}, &ExceededError{
			Key:     key,
			Limit:   rule.Limit,
			Window:  rule.Window,
			ResetAt: st.resetAt(rule, now),
		}
	}
	st.grants = append(st.grants, now)

	used := len(st.grants)
	return Permit{
		Key:       key,
		Used:      used,
		Remaining: rule.Limit - used,
		ResetAt:   st.grants[0].Add(rule.Window),
	}, nil
}

func (l *TokenBucket) Usage(_ context.Context, key string) (Usage, error) {
	rule := l.rule(key)
	if !rule.enabled() {
		return Usage{Key: key, Remaining: -1}, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	st := l.stateFor(key, rule, now)
	resetAt := now
	if len(st.grants) > 0 {
		resetAt = st.grants[0].Add(rule.Window)
	}
	return newUsage(key, rule, len(st.grants), resetAt), nil
}

func untilNextToken(b *rate.Limiter, now time.Time) time.Duration {
	tokens := b.TokensAt(now)
	if tokens >= 1 {
		return 0
	}
	perToken := time.Duration(float64(time.Second) / float64(b.Limit()))
	return time.Duration((1 - tokens) * float64(perToken))
}
