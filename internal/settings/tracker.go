package settings

import (
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/jellydator/ttlcache/v3"

	"github.com/krishiapp/krishi-settings/internal/domain"
)

// FieldState is the save indicator shown next to a field.
type FieldState int

// Field states.
const (
	StateIdle FieldState = iota
	StatePending
	StateSaved
)

func (s FieldState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSaved:
		return "saved"
	default:
		return "idle"
	}
}

// tracker owns the pending and recently-saved sets.
//
// Pending is reference counted: a field stays pending until every write
// touching it has finished. A field enters the saved set only when its last
// in-flight write commits, and leaves it when the TTL runs out or a new
// write begins.
type tracker struct {
	mu      sync.Mutex
	pending map[domain.Field]int
	saved   *ttlcache.Cache[domain.Field, string]
}

func newTracker(window time.Duration) *tracker {
	saved := ttlcache.New(
		ttlcache.WithTTL[domain.Field, string](window),
		ttlcache.WithDisableTouchOnHit[domain.Field, string](),
	)
	go saved.Start()

	return &tracker{
		pending: make(map[domain.Field]int),
		saved:   saved,
	}
}

func (t *tracker) begin(fields []domain.Field) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, f := range fields {
		t.pending[f]++
		t.saved.Delete(f)
	}
}

// commit clears pending and marks fields saved by writeID.
func (t *tracker) commit(fields []domain.Field, writeID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, f := range fields {
		if t.release(f) {
			t.saved.Set(f, writeID, ttlcache.DefaultTTL)
		}
	}
}

// abort clears pending without marking anything saved.
func (t *tracker) abort(fields []domain.Field) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, f := range fields {
		t.release(f)
	}
}

// release decrements f and reports whether it is no longer pending.
func (t *tracker) release(f domain.Field) bool {
	n := t.pending[f] - 1
	if n <= 0 {
		delete(t.pending, f)
		return true
	}
	t.pending[f] = n
	return false
}

func (t *tracker) state(f domain.Field) FieldState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending[f] > 0 {
		return StatePending
	}
	if t.saved.Has(f) {
		return StateSaved
	}
	return StateIdle
}

func (t *tracker) pendingSet() mapset.Set[domain.Field] {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := mapset.NewThreadUnsafeSetWithSize[domain.Field](len(t.pending))
	for f := range t.pending {
		out.Add(f)
	}
	return out
}

func (t *tracker) savedSet() mapset.Set[domain.Field] {
	out := mapset.NewThreadUnsafeSet[domain.Field]()
	for f, item := range t.saved.Items() {
		if !item.IsExpired() {
			out.Add(f)
		}
	}
	return out
}

func (t *tracker) close() {
	t.saved.Stop()
}
