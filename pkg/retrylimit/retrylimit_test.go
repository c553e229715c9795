package retrylimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func fastPolicy(attempts int) Policy {
	p := DefaultPolicy()
	p.MaxAttempts = attempts
	p.InitialDelay = time.Millisecond
	p.MaxDelay = time.Millisecond
	p.RateLimitDelay = time.Millisecond
	p.Jitter = false
	return p
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), nil, fastPolicy(5), func(context.Context) error {
		calls++
		if calls < 3 {
			return &StatusError{Code: 503, URL: "u"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnPermanent(t *testing.T) {
	boom := errors.New("bad request")
	calls := 0
	err := Do(context.Background(), nil, fastPolicy(5), func(context.Context) error {
		calls++
		return Permanent(boom)
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestDoExhausts(t *testing.T) {
	boom := errors.New("flaky")
	err := Do(context.Background(), nil, fastPolicy(2), func(context.Context) error { return boom })

	assert.ErrorIs(t, err, ErrExhausted)
	assert.ErrorIs(t, err, boom)
}

func TestDoHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := fastPolicy(5)
	p.InitialDelay = time.Hour
	p.MaxDelay = time.Hour

	err := Do(ctx, nil, p, func(context.Context) error {
		cancel()
		return errors.New("fail")
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestAdaptiveLimiterBounds(t *testing.T) {
	lim := NewAdaptiveLimiter(4, 1, 5, 1, 0.5)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lim.now = func() time.Time { return clock }

	lim.RateLimited()
	assert.Equal(t, rate.Limit(2), lim.Limit())
	lim.RateLimited()
	lim.RateLimited()
	assert.Equal(t, rate.Limit(1), lim.Limit())

	lim.Success()
	assert.Equal(t, rate.Limit(1), lim.Limit(), "no growth inside the recovery window")

	clock = clock.Add(time.Minute)
	for i := 0; i < 10; i++ {
		lim.Success()
	}
	assert.Equal(t, rate.Limit(5), lim.Limit())
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, IsRateLimited(&StatusError{Code: 429}))
	assert.True(t, IsServerError(&StatusError{Code: 502}))
	assert.False(t, IsServerError(&StatusError{Code: 404}))
	assert.False(t, IsRateLimited(errors.New("x")))
}
