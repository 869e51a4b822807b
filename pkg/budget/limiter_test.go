package budget

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gelisim-chatbot-be/internal/pkg/apperrors"
	"gelisim-chatbot-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCounterStore mimics Redis atomic counters in memory.
type fakeCounterStore struct {
	mu       sync.Mutex
	counters map[string]int64
	expiries map[string]time.Duration
	failing  bool
}

func newFakeCounterStore() *fakeCounterStore {
	return &fakeCounterStore{
		counters: make(map[string]int64),
		expiries: make(map[string]time.Duration),
	}
}

func (s *fakeCounterStore) Incr(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return 0, errors.New("connection refused")
	}
	s.counters[key]++
	return s.counters[key], nil
}

func (s *fakeCounterStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return errors.New("connection refused")
	}
	s.expiries[key] = ttl
	return nil
}

func (s *fakeCounterStore) Get(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return 0, errors.New("connection refused")
	}
	return s.counters[key], nil
}

func TestCheckIPDailyLimit(t *testing.T) {
	ctx := context.Background()

	t.Run("requests up to the limit pass, the next is rejected", func(t *testing.T) {
		store := newFakeCounterStore()
		limiter := NewLimiter(store, 200, 2000, logger.NewNop())

		for i := 0; i < 200; i++ {
			require.NoError(t, limiter.CheckIPDailyLimit(ctx, "10.0.0.1"))
		}

		err := limiter.CheckIPDailyLimit(ctx, "10.0.0.1")
		require.Error(t, err)

		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.KindQuotaExceeded, appErr.Kind)
		assert.Equal(t, 86400, appErr.RetryAfter)
	})

	t.Run("limits are tracked per IP", func(t *testing.T) {
		store := newFakeCounterStore()
		limiter := NewLimiter(store, 1, 2000, logger.NewNop())

		require.NoError(t, limiter.CheckIPDailyLimit(ctx, "10.0.0.1"))
		require.Error(t, limiter.CheckIPDailyLimit(ctx, "10.0.0.1"))
		require.NoError(t, limiter.CheckIPDailyLimit(ctx, "10.0.0.2"))
	})

	t.Run("first increment attaches a daily expiry", func(t *testing.T) {
		store := newFakeCounterStore()
		limiter := NewLimiter(store, 200, 2000, logger.NewNop())

		require.NoError(t, limiter.CheckIPDailyLimit(ctx, "10.0.0.1"))
		assert.Len(t, store.expiries, 1)
		for _, ttl := range store.expiries {
			assert.Equal(t, 86400*time.Second, ttl)
		}
	})
}

func TestCheckGlobalDailyLimit(t *testing.T) {
	ctx := context.Background()

	t.Run("global cap rejects once crossed", func(t *testing.T) {
		store := newFakeCounterStore()
		limiter := NewLimiter(store, 200, 3, logger.NewNop())

		for i := 0; i < 3; i++ {
			require.NoError(t, limiter.CheckGlobalDailyLimit(ctx))
		}
		err := limiter.CheckGlobalDailyLimit(ctx)
		require.Error(t, err)

		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.KindQuotaExceeded, appErr.Kind)
	})
}

func TestConcurrentIncrementsAreMonotonic(t *testing.T) {
	ctx := context.Background()
	store := newFakeCounterStore()
	limiter := NewLimiter(store, 50, 10_000, logger.NewNop())

	const n = 100
	var wg sync.WaitGroup
	rejected := make(chan struct{}, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.CheckIPDailyLimit(ctx, "10.0.0.1"); err != nil {
				rejected <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(rejected)

	// Final counter equals N; exactly the increments beyond the
	// threshold were rejected.
	count, err := store.Get(ctx, limiter.todayKey("ip:10.0.0.1"))
	require.NoError(t, err)
	assert.Equal(t, int64(n), count)
	assert.Equal(t, n-50, len(rejected))
}

func TestLimiterFailsClosed(t *testing.T) {
	ctx := context.Background()
	store := newFakeCounterStore()
	store.failing = true
	limiter := NewLimiter(store, 200, 2000, logger.NewNop())

	err := limiter.CheckIPDailyLimit(ctx, "10.0.0.1")
	require.Error(t, err)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindDependencyUnavailable, appErr.Kind)
}

func TestGetUsageStats(t *testing.T) {
	ctx := context.Background()
	store := newFakeCounterStore()
	limiter := NewLimiter(store, 200, 2000, logger.NewNop())

	require.NoError(t, limiter.CheckGlobalDailyLimit(ctx))
	require.NoError(t, limiter.CheckGlobalDailyLimit(ctx))

	stats, err := limiter.GetUsageStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.GlobalToday)
	assert.Equal(t, 2000, stats.GlobalLimit)
	assert.Equal(t, 200, stats.IPLimit)
}
