package settings

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/krishiapp/krishi-settings/internal/domain"
)

var errStoreDown = errors.New("store unavailable")

// memStore is a PreferenceStore with knobs for failure and latency.
type memStore struct {
	mu    sync.Mutex
	data  domain.UserSettings
	found bool
	saved []domain.UserSettings

	loads atomic.Int32
	saves atomic.Int32

	loadDelay time.Duration
	loadErr   error
	// failSave decides per call (1-based) whether Save fails.
	failSave func(n int32) bool
	// gate, when set, makes each Save take one token before finishing.
	gate chan struct{}
	// hang, when set, makes Save block on it and ignore its context.
	hang chan struct{}
}

func newMemStore() *memStore {
	return &memStore{}
}

func seededStore(s domain.UserSettings) *memStore {
	return &memStore{data: s, found: true}
}

func (m *memStore) Load(ctx context.Context) (domain.UserSettings, bool, error) {
	m.loads.Add(1)
	if m.loadDelay > 0 {
		select {
		case <-time.After(m.loadDelay):
		case <-ctx.Done():
			return domain.UserSettings{}, false, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return domain.UserSettings{}, false, m.loadErr
	}
	return m.data, m.found, nil
}

func (m *memStore) Save(ctx context.Context, s domain.UserSettings) error {
	n := m.saves.Add(1)

	if m.hang != nil {
		<-m.hang
	}
	if m.gate != nil {
		select {
		case <-m.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if m.failSave != nil && m.failSave(n) {
		return errStoreDown
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = s
	m.found = true
	m.saved = append(m.saved, s)
	return nil
}

func (m *memStore) setLoadErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

func (m *memStore) stored() (domain.UserSettings, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data, m.found
}

func (m *memStore) history() []domain.UserSettings {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.UserSettings, len(m.saved))
	copy(out, m.saved)
	return out
}

// recorder collects engine events.
type recorder struct {
	mu     sync.Mutex
	events []any
}

func (r *recorder) Emit(event any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) failed() []FailedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []FailedEvent
	for _, e := range r.events {
		if f, ok := e.(FailedEvent); ok {
			out = append(out, f)
		}
	}
	return out
}

func (r *recorder) committed() []CommittedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []CommittedEvent
	for _, e := range r.events {
		if c, ok := e.(CommittedEvent); ok {
			out = append(out, c)
		}
	}
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEngine(t *testing.T, s *memStore, opts Options) *Engine {
	t.Helper()
	e, err := New(s, opts, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func readyEngine(t *testing.T, s *memStore, opts Options) *Engine {
	t.Helper()
	e := newEngine(t, s, opts)
	require.NoError(t, e.Initialize(context.Background()))
	return e
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}
