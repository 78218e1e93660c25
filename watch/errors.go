package watch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoEvaluator indicates the watcher could not build an evaluator.
	ErrNoEvaluator = errors.New("watch: evaluator not configured")
	// ErrEmptyExpression indicates a rule was registered without an expression.
	ErrEmptyExpression = errors.New("watch: expression must not be empty")
	// ErrNilHandler indicates a rule was registered without a handler.
	ErrNilHandler = errors.New("watch: handler must not be nil")
	// ErrNonBoolResult indicates a rule expression did not produce a bool.
	ErrNonBoolResult = errors.New("watch: rule did not evaluate to bool")
	// ErrClosed indicates the watcher has been closed.
	ErrClosed = errors.New("watch: watcher closed")
	// ErrInvalidFunction indicates a rule function without a name or body.
	ErrInvalidFunction = errors.New("watch: invalid rule function")
	// ErrReservedFunction indicates a rule function named after a binding.
	ErrReservedFunction = errors.New("watch: function name shadows a rule binding")
	// ErrDuplicateFunction indicates a rule function registered twice.
	ErrDuplicateFunction = errors.New("watch: rule function already registered")
	// ErrUnknownFunction indicates a rule called a function nobody registered.
	ErrUnknownFunction = errors.New("watch: rule function not registered")
	// ErrRuleTimeout indicates a script rule ran past its time budget.
	ErrRuleTimeout = errors.New("watch: rule timed out")
)

// EvaluationError captures evaluator metadata alongside the originating error.
type EvaluationError struct {
	Engine string
	Expr   string
	Key    string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("watch: %s evaluator %s key=%s: %v", e.Engine, describeExpression(e.Expr), describeKey(e.Key), e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func describeKey(key string) string {
	if key == "" {
		return "<none>"
	}
	return key
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "watch:") {
		return err
	}
	return fmt.Errorf("watch: %s evaluator: %w", engine, err)
}

func wrapEvaluationError(engine, expr, key string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Key == "" {
			evalErr.Key = key
		}
		return evalErr
	}

	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Key:    key,
		Err:    err,
	}
}
