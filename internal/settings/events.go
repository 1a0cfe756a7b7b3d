package settings

import (
	"github.com/krishiapp/krishi-settings/internal/domain"
)

// EventEmitter receives engine events. Emit is called from the writer
// goroutine and must not block.
type EventEmitter interface {
	Emit(event any)
}

// NoopEmitter discards events.
type NoopEmitter struct{}

// Emit implements EventEmitter.Emit as a no-op.
func (NoopEmitter) Emit(_ any) {}

// Emitters fans an event out to several emitters in order.
type Emitters []EventEmitter

// Emit implements EventEmitter.
func (es Emitters) Emit(event any) {
	for _, e := range es {
		if e != nil {
			e.Emit(event)
		}
	}
}

// LoadedEvent is emitted once, when Initialize succeeds.
type LoadedEvent struct {
	Settings domain.UserSettings
	// Seeded is true when the store was empty and defaults were written.
	Seeded bool
}

// CommittedEvent is emitted after a write is acknowledged by the store.
type CommittedEvent struct {
	WriteID   string
	CascadeOf string
	Fields    []domain.Field
	Previous  domain.UserSettings
	Settings  domain.UserSettings
}

// FailedEvent is emitted after a write is rolled back.
type FailedEvent struct {
	WriteID   string
	CascadeOf string
	Fields    []domain.Field
	Err       error
}
