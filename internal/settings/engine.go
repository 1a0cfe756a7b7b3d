// Package settings is the settings synchronization engine.
//
// The engine owns the in-memory UserSettings snapshot and the persistent
// PreferenceStore. Reads never block. Writes are validated up front, then
// applied by a single writer goroutine in arrival order: the new snapshot
// is published at once, the store is asked to save it, and on failure the
// previous snapshot is restored. While a write is in flight its fields are
// in the Pending set; after it commits they sit in the RecentlySaved set
// for a short window.
package settings

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/sync/singleflight"

	"github.com/krishiapp/krishi-settings/internal/cascade"
	"github.com/krishiapp/krishi-settings/internal/domain"
	domainerrors "github.com/krishiapp/krishi-settings/internal/errors"
	"github.com/krishiapp/krishi-settings/internal/store"
	"github.com/krishiapp/krishi-settings/internal/validation"
)

// Defaults for Options.
const (
	DefaultStoreTimeout    = 10 * time.Second
	DefaultSavedWindow     = 1500 * time.Millisecond
	DefaultQueueSize       = 64
	DefaultMaxCascadeDepth = 4
)

// ErrClosed is returned for writes submitted to, or still queued in, a closed engine.
var ErrClosed = &domainerrors.Error{Code: domainerrors.CodeNotInitialized, Message: "settings engine is closed"}

// Status is the lifecycle state of the engine.
type Status int

// Engine statuses.
const (
	StatusLoading Status = iota
	StatusReady
)

func (s Status) String() string {
	if s == StatusReady {
		return "ready"
	}
	return "loading"
}

// Options configures an Engine. Zero values fall back to the defaults above.
type Options struct {
	// Defaults seed an empty store. Zero means domain.DefaultUserSettings.
	Defaults domain.UserSettings
	// Facts are the profile values that PublicProfile shows besides settings.
	Facts domain.ProfileFacts
	// Rules are the cascade rules and constraints. Nil means cascade.Default.
	Rules *cascade.RuleSet
	// Validator checks the settings each write would produce.
	Validator *validation.Validator
	// Emitter receives engine events.
	Emitter EventEmitter

	// StoreTimeout bounds every Load and Save.
	StoreTimeout time.Duration
	// SavedWindow is how long a field stays in the RecentlySaved set.
	SavedWindow time.Duration
	// QueueSize is the write queue capacity; submitters block when it is full.
	QueueSize int
	// MaxCascadeDepth stops rules that trigger each other from looping.
	MaxCascadeDepth int
}

func (o Options) withDefaults() Options {
	if o.Defaults == (domain.UserSettings{}) {
		o.Defaults = domain.DefaultUserSettings()
	}
	if o.Facts == (domain.ProfileFacts{}) {
		o.Facts = domain.DefaultProfileFacts()
	}
	if o.Rules == nil {
		o.Rules = cascade.Default()
	}
	if o.Validator == nil {
		o.Validator = validation.New()
	}
	if o.Emitter == nil {
		o.Emitter = NoopEmitter{}
	}
	if o.StoreTimeout <= 0 {
		o.StoreTimeout = DefaultStoreTimeout
	}
	if o.SavedWindow <= 0 {
		o.SavedWindow = DefaultSavedWindow
	}
	if o.QueueSize <= 0 {
		o.QueueSize = DefaultQueueSize
	}
	if o.MaxCascadeDepth <= 0 {
		o.MaxCascadeDepth = DefaultMaxCascadeDepth
	}
	return o
}

// Engine is the single source of truth for one user's settings.
type Engine struct {
	store  store.PreferenceStore
	opts   Options
	logger *slog.Logger

	init  singleflight.Group
	ready atomic.Bool

	mu       sync.RWMutex
	snapshot domain.UserSettings

	tracker *tracker

	queue     chan *Write
	stop      chan struct{}
	done      chan struct{}
	closeMu   sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// New creates an engine over s and starts its writer. Call Initialize
// before submitting writes and Close when finished.
func New(s store.PreferenceStore, opts Options, logger *slog.Logger) (*Engine, error) {
	if s == nil {
		return nil, fmt.Errorf("settings: nil preference store")
	}
	if logger == nil {
		logger = slog.Default()
	}
	opts = opts.withDefaults()

	if err := opts.Validator.Validate(opts.Defaults); err != nil {
		return nil, fmt.Errorf("settings: invalid defaults: %w", err)
	}

	e := &Engine{
		store:    s,
		opts:     opts,
		logger:   logger,
		snapshot: opts.Defaults,
		tracker:  newTracker(opts.SavedWindow),
		queue:    make(chan *Write, opts.QueueSize),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go e.run()

	return e, nil
}

// Initialize loads the stored settings, or seeds and saves the defaults
// when the store is empty. Concurrent callers share one load. Once it has
// succeeded, later calls return nil without touching the store; after a
// failure the next call retries.
func (e *Engine) Initialize(ctx context.Context) error {
	if e.ready.Load() {
		return nil
	}

	ch := e.init.DoChan("init", func() (any, error) {
		if e.ready.Load() {
			return nil, nil
		}
		return nil, e.load()
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) load() error {
	start := time.Now()

	var (
		loaded domain.UserSettings
		found  bool
	)
	err := e.callStore(func(ctx context.Context) error {
		var err error
		loaded, found, err = e.store.Load(ctx)
		return err
	})
	if err != nil {
		e.logger.Error("settings load failed", "error", err)
		return domainerrors.Persistence(err, "load settings")
	}

	if found {
		if err := e.opts.Validator.Validate(loaded); err != nil {
			e.logger.Error("stored settings rejected", "error", err)
			return domainerrors.Persistence(fmt.Errorf("%w: %w", store.ErrCorrupt, err), "load settings")
		}
	} else {
		loaded = e.opts.Defaults
		if err := e.callStore(func(ctx context.Context) error {
			return e.store.Save(ctx, loaded)
		}); err != nil {
			e.logger.Error("settings seed failed", "error", err)
			return domainerrors.Persistence(err, "seed default settings")
		}
	}

	e.mu.Lock()
	e.snapshot = loaded
	e.mu.Unlock()
	e.ready.Store(true)

	e.logger.Info("settings loaded",
		"seeded", !found,
		"duration", time.Since(start),
	)
	e.opts.Emitter.Emit(LoadedEvent{Settings: loaded, Seeded: !found})
	return nil
}

// Status reports whether the engine is still loading or ready for writes.
func (e *Engine) Status() Status {
	if e.ready.Load() {
		return StatusReady
	}
	return StatusLoading
}

// Snapshot returns the current settings and whether they have been loaded.
// Before Initialize succeeds it returns the defaults and false.
func (e *Engine) Snapshot() (domain.UserSettings, bool) {
	return e.current(), e.ready.Load()
}

// Get returns the current value of one field, or ErrNotInitialized
// before the settings have been loaded.
func (e *Engine) Get(f domain.Field) (any, error) {
	if !f.Known() {
		return nil, domainerrors.NotFoundf("unknown field %q", f)
	}
	if !e.ready.Load() {
		return nil, domainerrors.ErrNotInitialized
	}
	return e.current().Get(f), nil
}

// PublicProfile projects the current settings for other users. The second
// result is false until the settings have been loaded.
func (e *Engine) PublicProfile() (domain.PublicProfile, bool) {
	if !e.ready.Load() {
		return domain.PublicProfile{}, false
	}
	return domain.NewPublicProfile(e.current(), e.opts.Facts), true
}

// Theme derives the UI theme from the current settings. The second result
// is false until the settings have been loaded.
func (e *Engine) Theme() (domain.Theme, bool) {
	if !e.ready.Load() {
		return "", false
	}
	return e.current().Theme(), true
}

// FieldState reports whether f is pending, recently saved, or idle.
func (e *Engine) FieldState(f domain.Field) FieldState {
	return e.tracker.state(f)
}

// IsPending reports whether a write touching f is in flight.
func (e *Engine) IsPending(f domain.Field) bool {
	return e.tracker.state(f) == StatePending
}

// IsSaved reports whether f committed within the saved window.
func (e *Engine) IsSaved(f domain.Field) bool {
	return e.tracker.state(f) == StateSaved
}

// Pending returns a snapshot of the fields with writes in flight.
func (e *Engine) Pending() mapset.Set[domain.Field] {
	return e.tracker.pendingSet()
}

// RecentlySaved returns a snapshot of the fields saved within the window.
func (e *Engine) RecentlySaved() mapset.Set[domain.Field] {
	return e.tracker.savedSet()
}

// Close stops the writer. Writes still queued fail with ErrClosed.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		close(e.stop)
		<-e.done

		e.closeMu.Lock()
		e.closed = true
		e.closeMu.Unlock()

		for drained := false; !drained; {
			select {
			case w := <-e.queue:
				e.tracker.abort(w.fields)
				w.finish(ErrClosed)
			default:
				drained = true
			}
		}

		e.tracker.close()
		e.logger.Info("settings engine closed")
	})
	return nil
}

func (e *Engine) current() domain.UserSettings {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot
}

func (e *Engine) publish(s domain.UserSettings) {
	e.mu.Lock()
	e.snapshot = s
	e.mu.Unlock()
}

// save writes s through callStore. When the call fails but the store
// later reports that the abandoned save landed anyway, the writer is asked
// to save the current snapshot again so the store matches it.
func (e *Engine) save(s domain.UserSettings) error {
	late := make(chan error, 1)
	err := e.callStore(func(ctx context.Context) error {
		err := e.store.Save(ctx, s)
		late <- err
		return err
	})
	if err != nil {
		go e.resyncIfLanded(late)
	}
	return err
}

func (e *Engine) resyncIfLanded(late <-chan error) {
	select {
	case err := <-late:
		if err != nil {
			return
		}
	case <-e.stop:
		return
	}

	e.logger.Warn("abandoned settings save landed late, saving current settings again")
	w := newResync()
	if err := e.submit(context.Background(), w); err != nil {
		e.logger.Warn("settings resync not queued", "error", err)
	}
}

// callStore runs fn with a StoreTimeout deadline. A store that ignores its
// context is abandoned once the deadline passes.
func (e *Engine) callStore(fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), e.opts.StoreTimeout)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- fn(ctx) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return fmt.Errorf("store call exceeded %s: %w", e.opts.StoreTimeout, ctx.Err())
	}
}
