package settings

import (
	"context"
	"slices"

	"github.com/krishiapp/krishi-settings/internal/domain"
	"github.com/krishiapp/krishi-settings/internal/id"
)

// Write is a handle to one queued update. The engine completes it exactly
// once, after the store acknowledges or the change is rolled back.
type Write struct {
	ID string
	// CascadeOf is the ID of the write whose commit produced this one.
	CascadeOf string

	fields  []domain.Field
	changes map[domain.Field]any
	ctx     context.Context
	barrier bool
	resync  bool

	done    chan struct{}
	err     error
	cascade *Write
}

func newWrite(ctx context.Context, changes map[domain.Field]any) *Write {
	fields := make([]domain.Field, 0, len(changes))
	for f := range changes {
		fields = append(fields, f)
	}
	slices.Sort(fields)

	return &Write{
		ID:      id.NewWrite(),
		fields:  fields,
		changes: changes,
		ctx:     ctx,
		done:    make(chan struct{}),
	}
}

func newBarrier(ctx context.Context) *Write {
	return &Write{
		ID:      id.NewWrite(),
		ctx:     ctx,
		barrier: true,
		done:    make(chan struct{}),
	}
}

// newResync saves the current snapshot again without changing it.
func newResync() *Write {
	return &Write{
		ID:     id.NewWrite(),
		ctx:    context.Background(),
		resync: true,
		done:   make(chan struct{}),
	}
}

// Fields returns the fields this write touches, sorted by name.
func (w *Write) Fields() []domain.Field {
	return slices.Clone(w.fields)
}

// Changes returns a copy of the coerced values this write applies.
func (w *Write) Changes() map[domain.Field]any {
	out := make(map[domain.Field]any, len(w.changes))
	for f, v := range w.changes {
		out[f] = v
	}
	return out
}

// Done is closed once the write has finished.
func (w *Write) Done() <-chan struct{} {
	return w.done
}

// Err returns the outcome. It is only meaningful after Done is closed.
func (w *Write) Err() error {
	select {
	case <-w.done:
		return w.err
	default:
		return nil
	}
}

// Wait blocks until the write finishes or ctx is done. Giving up on the
// wait does not cancel a write the engine has already started.
func (w *Write) Wait(ctx context.Context) error {
	select {
	case <-w.done:
		return w.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cascade returns the follow-up write produced by this write's commit, or
// nil when no rule fired. It is only meaningful after Done is closed.
func (w *Write) Cascade() *Write {
	select {
	case <-w.done:
		return w.cascade
	default:
		return nil
	}
}

// WaitAll waits for the write and every cascade it produced, returning the
// first error in the chain.
func (w *Write) WaitAll(ctx context.Context) error {
	for cur := w; cur != nil; cur = cur.Cascade() {
		if err := cur.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (w *Write) finish(err error) {
	w.err = err
	close(w.done)
}
