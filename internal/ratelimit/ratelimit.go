package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter - общий лимитер для внешнего текстового сервиса: держит
// минимальный интервал между вызовами. Один экземпляр на процесс,
// Acquire сериализует темп для всех воркеров (FCFS по захвату лока).
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time

	// подменяется в тестах
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

type Config struct {
	CallsPerMinute int
}

func New(cfg Config) *Limiter {
	calls := cfg.CallsPerMinute
	if calls <= 0 {
		calls = 15
	}

	return &Limiter{
		interval: time.Minute / time.Duration(calls),
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// Acquire блокирует до освобождения слота. Слот резервируется под
// локом, само ожидание идет без лока, так что отмена одного вызова
// не задерживает остальных.
func (l *Limiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	now := l.now()
	start := l.next
	if start.Before(now) {
		start = now
	}
	l.next = start.Add(l.interval)
	l.mu.Unlock()

	if wait := start.Sub(now); wait > 0 {
		return l.sleep(ctx, wait)
	}
	return nil
}

// Interval - эффективный минимальный интервал между вызовами.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
