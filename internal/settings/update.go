package settings

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/go-multierror"

	"github.com/krishiapp/krishi-settings/internal/cascade"
	"github.com/krishiapp/krishi-settings/internal/domain"
	domainerrors "github.com/krishiapp/krishi-settings/internal/errors"
)

// UpdateOne queues a change to a single field. See UpdateMany.
func (e *Engine) UpdateOne(ctx context.Context, f domain.Field, value any) (*Write, error) {
	return e.UpdateMany(ctx, map[domain.Field]any{f: value})
}

// UpdateMany validates changes and queues them as one atomic write.
//
// Rejected changes return an error and never touch the snapshot or the
// pending set. Accepted changes mark their fields pending before this
// returns; the returned Write completes when the store has answered.
// ctx only bounds the wait for queue space and a write that has not
// started yet.
func (e *Engine) UpdateMany(ctx context.Context, changes map[domain.Field]any) (*Write, error) {
	if !e.ready.Load() {
		return nil, domainerrors.ErrNotInitialized
	}

	coerced, err := e.prepare(changes)
	if err != nil {
		return nil, err
	}

	w := newWrite(ctx, coerced)
	if err := e.submit(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Set updates one field and waits for it and any cascade it triggers.
func (e *Engine) Set(ctx context.Context, f domain.Field, value any) error {
	return e.SetMany(ctx, map[domain.Field]any{f: value})
}

// SetMany updates several fields and waits for them and any cascade.
func (e *Engine) SetMany(ctx context.Context, changes map[domain.Field]any) error {
	w, err := e.UpdateMany(ctx, changes)
	if err != nil {
		return err
	}
	return w.WaitAll(ctx)
}

// Drain waits until every write queued before the call, and every cascade
// those writes trigger, has finished.
func (e *Engine) Drain(ctx context.Context) error {
	w := newBarrier(ctx)
	if err := e.submit(ctx, w); err != nil {
		return err
	}
	return w.Wait(ctx)
}

// prepare coerces changes and checks the settings they would produce.
// Every bad field is reported at once.
func (e *Engine) prepare(changes map[domain.Field]any) (map[domain.Field]any, error) {
	if len(changes) == 0 {
		return nil, domainerrors.Validation("no changes given")
	}

	var merr *multierror.Error
	details := make(map[string]string)
	coerced := make(map[domain.Field]any, len(changes))

	for _, f := range slices.Sorted(maps.Keys(changes)) {
		v, err := f.Coerce(changes[f])
		if err != nil {
			details[string(f)] = err.Error()
			merr = multierror.Append(merr, err)
			continue
		}
		coerced[f] = v
	}
	if merr != nil {
		return nil, domainerrors.ValidationWithDetails("invalid settings update", details).WithCause(merr)
	}

	candidate := e.current().Apply(coerced)

	// Only complain about the fields being changed.
	fieldErrs := e.opts.Validator.FieldErrors(candidate)
	for _, name := range slices.Sorted(maps.Keys(fieldErrs)) {
		if _, ok := coerced[domain.Field(name)]; !ok {
			continue
		}
		details[name] = fieldErrs[name]
		merr = multierror.Append(merr, fmt.Errorf("%s %s", name, fieldErrs[name]))
	}
	if merr != nil {
		return nil, domainerrors.ValidationWithDetails("invalid settings update", details).WithCause(merr)
	}

	if err := e.opts.Rules.Check(candidate, coerced); err != nil {
		return nil, err
	}
	return coerced, nil
}

// submit marks w pending and hands it to the writer.
func (e *Engine) submit(ctx context.Context, w *Write) error {
	e.closeMu.RLock()
	defer e.closeMu.RUnlock()
	if e.closed {
		return ErrClosed
	}

	e.tracker.begin(w.fields)
	select {
	case e.queue <- w:
		return nil
	case <-e.stop:
		e.tracker.abort(w.fields)
		return ErrClosed
	case <-ctx.Done():
		e.tracker.abort(w.fields)
		return ctx.Err()
	}
}

// run is the single writer. Only it mutates the snapshot after load.
func (e *Engine) run() {
	defer close(e.done)
	for {
		select {
		case <-e.stop:
			return
		case w := <-e.queue:
			e.process(w, 0)
		}
	}
}

func (e *Engine) process(w *Write, depth int) {
	if w.barrier {
		w.finish(nil)
		return
	}
	if w.resync {
		err := e.save(e.current())
		if err != nil {
			e.logger.Warn("settings resync failed", "write_id", w.ID, "error", err)
		}
		w.finish(err)
		return
	}

	if err := w.ctx.Err(); err != nil {
		e.tracker.abort(w.fields)
		w.finish(err)
		return
	}

	prev := e.current()
	next := prev.Apply(w.changes)

	// Earlier writes may have changed what the constraints see.
	if err := e.opts.Rules.Check(next, w.changes); err != nil {
		e.tracker.abort(w.fields)
		e.logger.Debug("settings write rejected at apply",
			"write_id", w.ID,
			"fields", w.fields,
			"error", err,
		)
		w.finish(err)
		return
	}

	e.publish(next)

	err := e.save(next)
	if err != nil {
		e.publish(prev)
		e.tracker.abort(w.fields)

		perr := domainerrors.Persistence(err, "save settings")
		e.logger.Warn("settings write rolled back",
			"write_id", w.ID,
			"cascade_of", w.CascadeOf,
			"fields", w.fields,
			"error", err,
		)
		e.opts.Emitter.Emit(FailedEvent{
			WriteID:   w.ID,
			CascadeOf: w.CascadeOf,
			Fields:    w.Fields(),
			Err:       perr,
		})
		w.finish(perr)
		return
	}

	e.tracker.commit(w.fields, w.ID)
	e.logger.Debug("settings write committed",
		"write_id", w.ID,
		"cascade_of", w.CascadeOf,
		"fields", w.fields,
	)
	e.opts.Emitter.Emit(CommittedEvent{
		WriteID:   w.ID,
		CascadeOf: w.CascadeOf,
		Fields:    w.Fields(),
		Previous:  prev,
		Settings:  next,
	})

	fired := e.opts.Rules.Triggered(w.changes)
	if len(fired) == 0 {
		w.finish(nil)
		return
	}
	if depth >= e.opts.MaxCascadeDepth {
		e.logger.Warn("cascade depth limit reached",
			"write_id", w.ID,
			"depth", depth,
		)
		w.finish(nil)
		return
	}

	cw := e.cascadeWrite(w, fired)
	w.cascade = cw
	w.finish(nil)
	e.process(cw, depth+1)
}

// cascadeWrite builds the follow-up batch for rules fired by w. It runs
// detached from the caller's context.
func (e *Engine) cascadeWrite(w *Write, fired []cascade.Rule) *Write {
	cw := newWrite(context.Background(), cascade.Effects(fired))
	cw.CascadeOf = w.ID
	e.tracker.begin(cw.fields)

	names := make([]string, len(fired))
	for i, r := range fired {
		names[i] = r.Name
	}
	e.logger.Debug("cascade triggered",
		"write_id", cw.ID,
		"cascade_of", w.ID,
		"rules", names,
		"fields", cw.fields,
	)
	return cw
}
