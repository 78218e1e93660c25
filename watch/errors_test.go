package watch

import (
	"errors"
	"testing"
)

func TestWrapEvaluationErrorCreatesMetadata(t *testing.T) {
	base := errors.New("boom")
	err := wrapEvaluationError("expr", "current && missing", "displayName", base)

	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	if evalErr.Engine != "expr" {
		t.Fatalf("expected engine expr, got %q", evalErr.Engine)
	}
	if evalErr.Expr != "current && missing" {
		t.Fatalf("expected expression metadata, got %q", evalErr.Expr)
	}
	if evalErr.Key != "displayName" {
		t.Fatalf("expected key metadata, got %q", evalErr.Key)
	}
	if !errors.Is(evalErr.Err, base) {
		t.Fatalf("wrapped error should unwrap to base error")
	}
}

func TestWrapEvaluationErrorAugmentsExisting(t *testing.T) {
	base := errors.New("compile failure")
	existing := &EvaluationError{
		Engine: "expr",
		Err:    base,
	}

	err := wrapEvaluationError("cel", "rule", "manager", existing)
	if !errors.Is(err, base) {
		t.Fatalf("expected base error to unwrap")
	}
	if existing.Engine != "expr" {
		t.Fatalf("existing engine should not be overwritten, got %q", existing.Engine)
	}
	if existing.Expr != "rule" {
		t.Fatalf("expression should be filled, got %q", existing.Expr)
	}
	if existing.Key != "manager" {
		t.Fatalf("key should be filled, got %q", existing.Key)
	}
}

func TestWrapEvaluatorErrorPrefixesOnce(t *testing.T) {
	err := wrapEvaluatorError("cel", errors.New("bad env"))
	if err.Error() != "watch: cel evaluator: bad env" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if again := wrapEvaluatorError("cel", err); again != err {
		t.Fatalf("expected already prefixed error to be returned unchanged")
	}
}
