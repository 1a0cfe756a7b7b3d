package store

import (
	"context"

	"github.com/krishiapp/krishi-settings/internal/domain"
)

// PreferenceStore persists the whole settings bag.
//
// Load reports ok=false with a nil error when nothing has been saved yet.
// Save replaces the stored bag in one step; a failed Save leaves the
// previous bag in place.
type PreferenceStore interface {
	Load(ctx context.Context) (settings domain.UserSettings, ok bool, err error)
	Save(ctx context.Context, settings domain.UserSettings) error
}

// Pinger is implemented by stores that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}
