// Package watch runs expression rules against backing store changes. A
// Watcher subscribes to one store; every Set builds a ChangeContext and
// dispatches it to the handlers whose rule evaluates to true.
//
// Rules are written for expr-lang/expr by default. CEL (cel-go) is available
// through NewCELEvaluator and JavaScript (goja) through NewJSEvaluator when
// built with the js_eval tag.
package watch

import (
	"fmt"
	"time"

	backing "github.com/goliatone/go-backing"
)

// Handler receives changes whose rule matched.
type Handler func(ChangeContext)

// Option configures a Watcher.
type Option func(*config)

type config struct {
	evaluator Evaluator
	cache     ProgramCache
	functions *FunctionRegistry
	logger    Logger
	args      map[string]any
	clock     func() time.Time
	err       error
}

// WithEvaluator replaces the default expr evaluator.
func WithEvaluator(evaluator Evaluator) Option {
	return func(cfg *config) {
		cfg.evaluator = evaluator
	}
}

// WithProgramCache shares compiled programs with the default evaluator.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *config) {
		cfg.cache = cache
	}
}

// WithFunctionRegistry exposes registry to the default evaluator.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *config) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers fn under name for the default evaluator.
// Registration errors are returned by Watch.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *config) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		if err := cfg.functions.Register(name, fn); err != nil && cfg.err == nil {
			cfg.err = err
		}
	}
}

// WithLogger records every rule evaluation.
func WithLogger(logger Logger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

// WithArgs binds args for every evaluation.
func WithArgs(args map[string]any) Option {
	return func(cfg *config) {
		cfg.args = args
	}
}

// WithClock overrides the time source bound as now.
func WithClock(clock func() time.Time) Option {
	return func(cfg *config) {
		if clock != nil {
			cfg.clock = clock
		}
	}
}

type rule struct {
	expression string
	program    CompiledRule
	handler    Handler
}

// Watcher evaluates rules on every change of one store. Like the store it
// observes, a Watcher is not safe for concurrent use.
type Watcher struct {
	store     backing.Store
	id        string
	evaluator Evaluator
	engine    string
	logger    Logger
	args      map[string]any
	clock     func() time.Time
	rules     []rule
	closed    bool
}

// Watch subscribes a new Watcher to store.
func Watch(store backing.Store, opts ...Option) (*Watcher, error) {
	if store == nil {
		return nil, fmt.Errorf("watch: store must not be nil")
	}
	cfg := config{logger: noopLogger{}, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.err != nil {
		return nil, cfg.err
	}

	evaluator := cfg.evaluator
	if evaluator == nil {
		var exprOpts []ExprEvaluatorOption
		if cfg.cache != nil {
			exprOpts = append(exprOpts, ExprWithProgramCache(cfg.cache))
		}
		if cfg.functions != nil {
			exprOpts = append(exprOpts, ExprWithFunctionRegistry(cfg.functions))
		}
		evaluator = NewExprEvaluator(exprOpts...)
	}
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}

	w := &Watcher{
		store:     store,
		evaluator: evaluator,
		engine:    evaluatorEngineName(evaluator),
		logger:    cfg.logger,
		args:      cfg.args,
		clock:     cfg.clock,
	}
	id, err := backing.SubscribeFunc(store, w.handle)
	if err != nil {
		return nil, err
	}
	w.id = id
	return w, nil
}

// ID returns the subscription id registered on the store.
func (w *Watcher) ID() string {
	return w.id
}

// Engine names the evaluator in use: expr, cel, js or custom.
func (w *Watcher) Engine() string {
	return w.engine
}

// On registers handler for changes where expression evaluates to true.
// Compilation errors are returned immediately.
func (w *Watcher) On(expression string, handler Handler) error {
	if w.closed {
		return ErrClosed
	}
	if expression == "" {
		return ErrEmptyExpression
	}
	if handler == nil {
		return ErrNilHandler
	}
	program, err := w.evaluator.Compile(expression)
	if err != nil {
		return wrapEvaluationError(w.engine, expression, "", err)
	}
	w.rules = append(w.rules, rule{expression: expression, program: program, handler: handler})
	return nil
}

// OnKey registers handler for every change of key.
func (w *Watcher) OnKey(key string, handler Handler) error {
	if key == "" {
		return backing.ErrEmptyKey
	}
	return w.On(fmt.Sprintf("key == %q", key), handler)
}

// Evaluate runs expression once against the current store contents.
func (w *Watcher) Evaluate(expression string) (any, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	ctx := w.context("", nil, nil)
	start := time.Now()
	value, err := w.evaluator.Evaluate(ctx, expression)
	err = wrapEvaluationError(w.engine, expression, "", err)
	w.logger.LogEvaluation(LogEvent{
		Engine:   w.engine,
		Expr:     expression,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Close unsubscribes from the store. Registered rules stop firing.
func (w *Watcher) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.store.Unsubscribe(w.id)
}

func (w *Watcher) context(key string, oldValue, newValue any) ChangeContext {
	ctx := NewChangeContext(w.store, key, oldValue, newValue)
	now := w.clock()
	ctx.Now = &now
	ctx.Args = w.args
	return ctx
}

// handle never fails the Set that triggered it: evaluation errors and
// non-bool results are logged and the rule is skipped.
func (w *Watcher) handle(key string, oldValue, newValue any) {
	if w.closed || len(w.rules) == 0 {
		return
	}
	ctx := w.context(key, oldValue, newValue)
	for _, r := range append([]rule(nil), w.rules...) {
		start := time.Now()
		matched, err := w.match(r, ctx)
		w.logger.LogEvaluation(LogEvent{
			Engine:   w.engine,
			Expr:     r.expression,
			Key:      key,
			Matched:  matched,
			Duration: time.Since(start),
			Err:      err,
		})
		if err != nil || !matched {
			continue
		}
		r.handler(ctx)
	}
}

func (w *Watcher) match(r rule, ctx ChangeContext) (bool, error) {
	result, err := r.program.Evaluate(ctx)
	if err != nil {
		return false, wrapEvaluationError(w.engine, r.expression, ctx.Key, err)
	}
	matched, ok := result.(bool)
	if !ok {
		return false, wrapEvaluationError(w.engine, r.expression, ctx.Key,
			fmt.Errorf("%w: got %T", ErrNonBoolResult, result))
	}
	return matched, nil
}
