package settings

import (
	"sync"

	"github.com/krishiapp/krishi-settings/internal/domain"
)

// ThemeTracker follows the committed darkMode value and notifies listeners
// when the theme flips. Register it as an Emitter.
type ThemeTracker struct {
	mu        sync.RWMutex
	theme     domain.Theme
	listeners []func(domain.Theme)
}

// NewThemeTracker starts at initial.
func NewThemeTracker(initial domain.Theme) *ThemeTracker {
	return &ThemeTracker{theme: initial}
}

// Theme returns the last committed theme.
func (t *ThemeTracker) Theme() domain.Theme {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.theme
}

// OnChange registers fn to run after each theme flip.
func (t *ThemeTracker) OnChange(fn func(domain.Theme)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

// Emit implements EventEmitter.
func (t *ThemeTracker) Emit(event any) {
	switch ev := event.(type) {
	case LoadedEvent:
		t.set(ev.Settings.Theme())
	case CommittedEvent:
		t.set(ev.Settings.Theme())
	}
}

func (t *ThemeTracker) set(theme domain.Theme) {
	t.mu.Lock()
	if t.theme == theme {
		t.mu.Unlock()
		return
	}
	t.theme = theme
	listeners := append([]func(domain.Theme){}, t.listeners...)
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(theme)
	}
}
