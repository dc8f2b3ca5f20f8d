package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/moritzschallercs50/FrameAgent-Studio"
)

// fastConfig retries immediately so tests don't sleep.
func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: time.Microsecond,
		MaxDelay:     time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDoReturnsFirstSuccess(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), fastConfig(5), func() (string, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransientErrors(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), fastConfig(5), func() (string, error) {
		calls++
		if calls < 3 {
			return "", ai.NewTransientError("rate limited", 429, nil)
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	permanent := ai.NewPermanentError("bad key", 401, nil)
	calls := 0
	_, err := Do(context.Background(), fastConfig(5), func() (string, error) {
		calls++
		return "", permanent
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, permanent)
}

func TestDoExhaustsAttempts(t *testing.T) {
	transient := ai.NewTransientError("overloaded", 503, nil)
	calls := 0
	_, err := Do(context.Background(), fastConfig(3), func() (string, error) {
		calls++
		return "", transient
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, transient)
}

func TestDisabledConfigAttemptsOnce(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Disabled(), func() (string, error) {
		calls++
		return "", ai.NewTransientError("rate limited", 429, nil)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoHonorsContextCancellationDuringBackoff(t *testing.T) {
	cfg := Config{
		MaxAttempts:  5,
		InitialDelay: time.Hour, // never actually waited out
		MaxDelay:     time.Hour,
		Multiplier:   2.0,
	}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := Do(ctx, cfg, func() (string, error) {
		calls++
		return "", ai.NewTransientError("overloaded", 503, nil)
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDoPrefersServerRetryAfter(t *testing.T) {
	cfg := Config{
		MaxAttempts:  2,
		InitialDelay: time.Hour, // backoff alone would hang the test
		MaxDelay:     time.Hour,
		Multiplier:   2.0,
	}

	calls := 0
	start := time.Now()
	result, err := Do(context.Background(), cfg, func() (string, error) {
		calls++
		if calls == 1 {
			return "", ai.NewTransientErrorWithRetry("rate limited", 429, time.Millisecond, nil)
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 2, calls)
	assert.Less(t, time.Since(start), time.Second)
}

func TestIsTransientCategorized(t *testing.T) {
	assert.True(t, IsTransient(ai.NewTransientError("overloaded", 503, nil)))
	assert.False(t, IsTransient(ai.NewPermanentError("bad key", 401, nil)))
	assert.False(t, IsTransient(ai.NewUserInputError("bad request", 400, nil)))
	assert.False(t, IsTransient(nil))
}

func TestIsTransientHeuristics(t *testing.T) {
	assert.True(t, IsTransient(errors.New("googleapi: Error 429: quota exceeded")))
	assert.True(t, IsTransient(errors.New("connection reset by peer")))
	assert.True(t, IsTransient(errors.New("dial tcp: i/o timeout")))
	assert.False(t, IsTransient(errors.New("model not found")))
}

func TestDelayGrowsAndCaps(t *testing.T) {
	cfg := Config{
		InitialDelay: time.Second,
		MaxDelay:     4 * time.Second,
		Multiplier:   2.0,
	}
	assert.Equal(t, time.Second, cfg.Delay(0))
	assert.Equal(t, 2*time.Second, cfg.Delay(1))
	assert.Equal(t, 4*time.Second, cfg.Delay(2))
	assert.Equal(t, 4*time.Second, cfg.Delay(5))
}

func TestDelayJitterStaysInRange(t *testing.T) {
	cfg := Config{
		InitialDelay: time.Second,
		MaxDelay:     time.Minute,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
	for i := 0; i < 100; i++ {
		d := cfg.Delay(0)
		assert.GreaterOrEqual(t, d, 900*time.Millisecond)
		assert.LessOrEqual(t, d, 1100*time.Millisecond)
	}
}
