package resilience

import "time"

// CircuitBreakerConfig guards one upstream provider. Zero fields fall back
// to the provider defaults on Normalize.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
		HalfOpenMaxReq:   1,
	}
}

func (c CircuitBreakerConfig) Normalize() CircuitBreakerConfig {
	d := DefaultCircuitBreakerConfig()
	c.FailureThreshold = atLeast(c.FailureThreshold, 1, d.FailureThreshold)
	c.HalfOpenMaxReq = atLeast(c.HalfOpenMaxReq, 1, d.HalfOpenMaxReq)
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = d.OpenTimeout
	}
	return c
}

// RetryPolicy bounds attempts and spaces them linearly: attempt n waits
// n*Backoff before running again.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Backoff: time.Second}
}

func (p RetryPolicy) Normalize() RetryPolicy {
	p.MaxAttempts = atLeast(p.MaxAttempts, 1, 1)
	if p.Backoff < 0 {
		p.Backoff = 0
	}
	return p
}

func (p RetryPolicy) Delay(attempt int) time.Duration {
	return time.Duration(attempt) * p.Backoff
}

func atLeast(v, minimum, fallback int) int {
	if v < minimum {
		return fallback
	}
	return v
}
