package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// CounterStore holds per-window call counts. Take must be atomic: it
// increments only while the count is below limit.
type CounterStore interface {
	Take(ctx context.Context, key string, windowStart time.Time, window time.Duration, limit int) (used int, ok bool, err error)
	Count(ctx context.Context, key string, windowStart time.Time) (int, error)
}

// FixedWindow counts calls in windows aligned to Rule.Window.
type FixedWindow struct {
	store    CounterStore
	rules    map[string]Rule
	fallback Rule
	now      func() time.Time
}

func NewFixedWindow(store CounterStore, rules map[string]Rule, fallback Rule) *FixedWindow {
	if store == nil {
		store = NewMemoryCounter()
	}
	copied := make(map[string]Rule, len(rules))
	for key, rule := range rules {
		copied[key] = rule
	}
	return &FixedWindow{
		store:    store,
		rules:    copied,
		fallback: fallback,
		now:      time.Now,
	}
}

func (l *FixedWindow) rule(key string) Rule {
	if rule, ok := l.rules[key]; ok {
		return rule
	}
	return l.fallback
}

func (l *FixedWindow) window(rule Rule) (time.Time, time.Time) {
	start := l.now().UTC().Truncate(rule.Window)
	return start, start.Add(rule.Window)
}

func (l *FixedWindow) Acquire(ctx context.Context, key string) (Permit, error) {
	rule := l.rule(key)
	if !rule.enabled() {
		return Permit{Key: key, Remaining: -1}, nil
	}

	start, resetAt := l.window(rule)
	used, ok, err := l.store.Take(ctx, key, start, rule.Window, rule.Limit)
	if err != nil {
		return Permit{}, fmt.Errorf("take rate limit slot key=%s: %w", key, err)
	}
	if !ok {
		return Permit{}, &ExceededError{
			Key:     key,
			Limit:   rule.Limit,
			Window:  rule.Window,
			ResetAt: resetAt,
		}
	}

	return Permit{
		Key:       key,
		Used:      used,
		Remaining: rule.Limit - used,
		ResetAt:   resetAt,
	}, nil
}

func (l *FixedWindow) Usage(ctx context.Context, key string) (Usage, error) {
	rule := l.rule(key)
	if !rule.enabled() {
		return Usage{Key: key, Remaining: -1}, nil
	}

	start, resetAt := l.window(rule)
	used, err := l.store.Count(ctx, key, start)
	if err != nil {
		return Usage{}, fmt.Errorf("count rate limit usage key=%s: %w", key, err)
	}
	return newUsage(key, rule, used, resetAt), nil
}

type windowCounter struct {
	start time.Time
	count int
}

// MemoryCounter is a process-wide CounterStore.
type MemoryCounter struct {
	mu       sync.Mutex
	counters map[string]windowCounter
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{counters: make(map[string]windowCounter)}
}

func (m *MemoryCounter) Take(_ context.Context, key string, windowStart time.Time, _ time.Duration, limit int) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counter := m.counters[key]
	if !counter.start.Equal(windowStart) {
		counter = windowCounter{start: windowStart}
	}
	if counter.count >= limit {
		m.counters[key] = counter
		return counter.count, false, nil
	}
	counter.count++
	m.counters[key] = counter
	return counter.count, true, nil
}

func (m *MemoryCounter) Count(_ context.Context, key string, windowStart time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counter, ok := m.counters[key]
	if !ok || !counter.start.Equal(windowStart) {
		return 0, nil
	}
	return counter.count, nil
}
