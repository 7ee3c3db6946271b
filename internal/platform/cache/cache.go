package cache

import (
	"context"
	"strings"
	"time"

	"github.com/valyala/bytebufferpool"
)

// Cache stores opaque payloads with a per-entry time to live.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// TTLPolicy holds cache lifetimes per entity type.
type TTLPolicy struct {
	Leagues  time.Duration
	Teams    time.Duration
	Fixtures time.Duration
	Detail   time.Duration
}

func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		Leagues:  24 * time.Hour,
		Teams:    24 * time.Hour,
		Fixtures: time.Hour,
		Detail:   30 * time.Minute,
	}
}

// Normalize fills non-positive durations with defaults.
func (p TTLPolicy) Normalize() TTLPolicy {
	defaults := DefaultTTLPolicy()
	if p.Leagues <= 0 {
		p.Leagues = defaults.Leagues
	}
	if p.Teams <= 0 {
		p.Teams = defaults.Teams
	}
	if p.Fixtures <= 0 {
		p.Fixtures = defaults.Fixtures
	}
	if p.Detail <= 0 {
		p.Detail = defaults.Detail
	}
	return p
}

// Key joins non-empty parts with ':'.
func Key(parts ...string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if buf.Len() > 0 {
			_ = buf.WriteByte(':')
		}
		_, _ = buf.WriteString(part)
	}
	return buf.String()
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (Noop) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}
