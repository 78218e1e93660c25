package activity

import (
	"context"
	"errors"
	"fmt"

	backing "github.com/goliatone/go-backing"
)

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithTemplate sets the identity fields copied into every event.
func WithTemplate(template ChangeEventInput) RecorderOption {
	return func(r *Recorder) {
		r.template = template
	}
}

// WithRecordLoading also records sets made while the store is loading.
func WithRecordLoading(record bool) RecorderOption {
	return func(r *Recorder) {
		r.recordLoading = record
	}
}

// WithContext sets the context passed to hooks.
func WithContext(ctx context.Context) RecorderOption {
	return func(r *Recorder) {
		if ctx != nil {
			r.ctx = ctx
		}
	}
}

// WithErrorHandler receives hook errors. Without one, errors are kept and
// returned by Err.
func WithErrorHandler(handler func(error)) RecorderOption {
	return func(r *Recorder) {
		r.onError = handler
	}
}

// Recorder subscribes to a store and emits an event for every property set
// after the baseline.
type Recorder struct {
	store         backing.Store
	emitter       *Emitter
	id            string
	template      ChangeEventInput
	recordLoading bool
	ctx           context.Context
	onError       func(error)
	errs          []error
}

// Record subscribes a new Recorder to store.
func Record(store backing.Store, emitter *Emitter, opts ...RecorderOption) (*Recorder, error) {
	if store == nil {
		return nil, fmt.Errorf("activity: store must not be nil")
	}
	r := &Recorder{
		store:   store,
		emitter: emitter,
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	id, err := backing.SubscribeFunc(store, r.handle)
	if err != nil {
		return nil, err
	}
	r.id = id
	return r, nil
}

func (r *Recorder) handle(key string, oldValue, newValue any) {
	if !r.emitter.Enabled() {
		return
	}
	if !r.recordLoading && !r.store.IsInitializationCompleted() {
		return
	}
	input := r.template
	input.Key = key
	input.OldValue = oldValue
	input.NewValue = newValue

	event := BuildPropertyChangedEvent(input)
	if backing.Classify(newValue).Kind == backing.KindNull {
		event = BuildPropertyClearedEvent(input)
	}
	r.report(r.emitter.Emit(r.ctx, event))
}

// Baseline emits a baseline event listing the currently changed keys and
// then completes initialization on the store, typically after a partial
// payload was sent.
func (r *Recorder) Baseline(ctx context.Context) error {
	if ctx == nil {
		ctx = r.ctx
	}
	input := r.template
	input.Keys = backing.Keys(backing.ChangedEntries(r.store))
	r.store.SetIsInitializationCompleted(true)
	return r.emitter.Emit(ctx, BuildBaselineEvent(input))
}

// Err returns the hook errors collected so far.
func (r *Recorder) Err() error {
	return errors.Join(r.errs...)
}

// Close unsubscribes from the store.
func (r *Recorder) Close() {
	r.store.Unsubscribe(r.id)
}

func (r *Recorder) report(err error) {
	if err == nil {
		return
	}
	if r.onError != nil {
		r.onError(err)
		return
	}
	r.errs = append(r.errs, err)
}
