package store

import (
	"context"
	"time"

	"github.com/krishiapp/krishi-settings/internal/domain"
)

// LatencyStore delays every call to the wrapped store, mimicking a slow
// network backend. The delay honours context cancellation.
type LatencyStore struct {
	next      PreferenceStore
	loadDelay time.Duration
	saveDelay time.Duration
}

// WithLatency wraps next. Zero delays return next unchanged.
func WithLatency(next PreferenceStore, loadDelay, saveDelay time.Duration) PreferenceStore {
	if loadDelay <= 0 && saveDelay <= 0 {
		return next
	}
	return &LatencyStore{next: next, loadDelay: loadDelay, saveDelay: saveDelay}
}

// Load waits loadDelay then delegates.
func (l *LatencyStore) Load(ctx context.Context) (domain.UserSettings, bool, error) {
	if err := sleep(ctx, l.loadDelay); err != nil {
		return domain.UserSettings{}, false, err
	}
	return l.next.Load(ctx)
}

// Save waits saveDelay then delegates.
func (l *LatencyStore) Save(ctx context.Context, settings domain.UserSettings) error {
	if err := sleep(ctx, l.saveDelay); err != nil {
		return err
	}
	return l.next.Save(ctx, settings)
}

// Ping delegates when the wrapped store supports it.
func (l *LatencyStore) Ping(ctx context.Context) error {
	if p, ok := l.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
