package budget

import (
	"context"
	"fmt"
	"time"

	"gelisim-chatbot-be/internal/pkg/apperrors"
	"gelisim-chatbot-be/internal/pkg/logger"
)

// dayTTL keeps a daily counter alive until Redis cleans it up. Keys embed
// the UTC date, so they go stale on their own at the day boundary.
const dayTTL = 86400 * time.Second

// Limiter enforces per-IP and global daily request caps. Per-minute rate
// limiting alone does not stop an attacker who paces requests just under
// that limit all day long; this is the coarser second layer against
// denial-of-wallet attacks.
//
// Store unavailability fails CLOSED: the limiter exists to protect spend,
// and an open gate with no counter defeats it.
type Limiter struct {
	store            CounterStore
	ipDailyLimit     int
	globalDailyLimit int
	log              logger.ILogger
	now              func() time.Time
}

func NewLimiter(store CounterStore, ipDailyLimit, globalDailyLimit int, log logger.ILogger) *Limiter {
	return &Limiter{
		store:            store,
		ipDailyLimit:     ipDailyLimit,
		globalDailyLimit: globalDailyLimit,
		log:              log,
		now:              time.Now,
	}
}

func (l *Limiter) todayKey(scope string) string {
	today := l.now().UTC().Format("2006-01-02")
	return fmt.Sprintf("budget:%s:%s", scope, today)
}

// CheckIPDailyLimit increments and checks the caller's daily counter.
func (l *Limiter) CheckIPDailyLimit(ctx context.Context, clientIP string) error {
	key := l.todayKey("ip:" + clientIP)

	current, err := l.bump(ctx, key)
	if err != nil {
		return apperrors.NewDependencyUnavailable("limit servisi", err)
	}

	if current > int64(l.ipDailyLimit) {
		l.log.Warn("budget", "IP daily limit exceeded", map[string]interface{}{
			"ip": clientIP, "count": current, "limit": l.ipDailyLimit,
		})
		return apperrors.NewQuotaExceeded(fmt.Sprintf(
			"Günlük istek limitinize ulaştınız (%d istek/gün). Yarın tekrar deneyebilirsiniz.",
			l.ipDailyLimit,
		))
	}
	return nil
}

// CheckGlobalDailyLimit increments and checks the system-wide daily counter.
// This is the last line of defense against distributed attacks.
func (l *Limiter) CheckGlobalDailyLimit(ctx context.Context) error {
	key := l.todayKey("global")

	current, err := l.bump(ctx, key)
	if err != nil {
		return apperrors.NewDependencyUnavailable("limit servisi", err)
	}

	if current > int64(l.globalDailyLimit) {
		l.log.Error("budget", "GLOBAL daily limit exceeded", map[string]interface{}{
			"count": current, "limit": l.globalDailyLimit,
		})
		return apperrors.NewQuotaExceeded("Sistem günlük kapasiteye ulaştı. Lütfen yarın tekrar deneyin.")
	}
	return nil
}

// bump atomically increments the counter and attaches the TTL on the
// counter's first increment of the day.
func (l *Limiter) bump(ctx context.Context, key string) (int64, error) {
	current, err := l.store.Incr(ctx, key)
	if err != nil {
		return 0, err
	}
	if current == 1 {
		if err := l.store.Expire(ctx, key, dayTTL); err != nil {
			return 0, err
		}
	}
	return current, nil
}

// UsageStats reports current global usage for monitoring.
type UsageStats struct {
	GlobalToday int64 `json:"global_today"`
	GlobalLimit int   `json:"global_limit"`
	IPLimit     int   `json:"ip_limit"`
}

func (l *Limiter) GetUsageStats(ctx context.Context) (*UsageStats, error) {
	count, err := l.store.Get(ctx, l.todayKey("global"))
	if err != nil {
		return nil, apperrors.NewDependencyUnavailable("limit servisi", err)
	}
	return &UsageStats{
		GlobalToday: count,
		GlobalLimit: l.globalDailyLimit,
		IPLimit:     l.ipDailyLimit,
	}, nil
}
