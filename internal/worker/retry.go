package worker

import (
	"math"
	"time"
)

// RetryPolicy параметры экспоненциального backoff для записи в журнал.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:    5,
		InitialDelay:  2 * time.Second,
		MaxDelay:      time.Minute,
		BackoffFactor: 2,
	}
}

// withDefaults подставляет значения по умолчанию для незаданных полей.
func (r RetryPolicy) withDefaults() RetryPolicy {
	def := DefaultRetryPolicy()
	if r.MaxRetries <= 0 {
		r.MaxRetries = def.MaxRetries
	}
	if r.InitialDelay <= 0 {
		r.InitialDelay = def.InitialDelay
	}
	if r.MaxDelay <= 0 {
		r.MaxDelay = def.MaxDelay
	}
	if r.BackoffFactor <= 0 {
		r.BackoffFactor = def.BackoffFactor
	}
	return r
}

// Exhausted reports whether a task that failed attempt times goes to the dead letter list.
func (r RetryPolicy) Exhausted(attempt int) bool {
	return attempt >= r.MaxRetries
}

// NextDelay returns the wait before retry number attempt (1-based), capped by MaxDelay.
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if r.InitialDelay <= 0 {
		r.InitialDelay = time.Second
	}
	if r.BackoffFactor <= 0 {
		r.BackoffFactor = 2
	}

	d := time.Duration(float64(r.InitialDelay) * math.Pow(r.BackoffFactor, float64(attempt-1)))
	if r.MaxDelay > 0 && (d > r.MaxDelay || d <= 0) {
		return r.MaxDelay
	}
	if d <= 0 {
		d = time.Second
	}
	return d
}
