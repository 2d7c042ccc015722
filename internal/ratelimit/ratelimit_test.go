package ratelimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agora/pkg/testutil"
)

func TestInMemoryStore_SlidingWindow(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	store := NewInMemoryStore(WithClock(func() time.Time { return now }))
	ctx := context.Background()

	for i := range 3 {
		res, err := store.Allow(ctx, "start:203.0.113.9", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2-i, res.Remaining)
	}

	res, err := store.Allow(ctx, "start:203.0.113.9", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, now.Add(time.Minute), res.ResetAt)

	other, err := store.Allow(ctx, "start:198.51.100.1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, other.Allowed, "keys are independent")

	now = now.Add(time.Minute + time.Second)
	res, err = store.Allow(ctx, "start:203.0.113.9", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed, "window slid past the old requests")
}

type failingStore struct{}

func (failingStore) Allow(context.Context, string, int, time.Duration) (Result, error) {
	return Result{}, errors.New("redis down")
}

func TestMiddleware_PerIP(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusCreated) })
	request := func(t *testing.T, ip string) *http.Request {
		return testutil.WithClientIP(testutil.NewRequest(t, http.MethodPost, "/registrations"), ip)
	}

	testutil.Given(t, "a limit of one start per hour", func(t *testing.T) {
		h := NewMiddleware(NewInMemoryStore(), logger).PerIP("start", 1, time.Hour)(ok)

		first := testutil.DoRequest(h, request(t, "203.0.113.9"))
		second := testutil.DoRequest(h, request(t, "203.0.113.9"))

		testutil.Then(t, "the second request from the same IP is rejected", func(t *testing.T) {
			assert.Equal(t, http.StatusCreated, first.Code)
			assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))
			testutil.AssertStatusAndError(t, second, http.StatusTooManyRequests, "rate_limited")
			assert.NotEmpty(t, second.Header().Get("Retry-After"))
		})
	})

	testutil.Given(t, "a failing store", func(t *testing.T) {
		h := NewMiddleware(failingStore{}, logger).PerIP("start", 1, time.Hour)(ok)
		testutil.Then(t, "requests pass", func(t *testing.T) {
			assert.Equal(t, http.StatusCreated, testutil.DoRequest(h, request(t, "203.0.113.9")).Code)
		})
	})

	testutil.Given(t, "a zero limit", func(t *testing.T) {
		h := NewMiddleware(failingStore{}, logger).PerIP("start", 0, time.Hour)(ok)
		testutil.Then(t, "the limiter is bypassed", func(t *testing.T) {
			rr := testutil.DoRequest(h, request(t, "203.0.113.9"))
			assert.Equal(t, http.StatusCreated, rr.Code)
			assert.Empty(t, rr.Header().Get("X-RateLimit-Limit"))
		})
	})
}
