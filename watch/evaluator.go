package watch

import "fmt"

// Evaluator executes expressions against a change context.
type Evaluator interface {
	Evaluate(ctx ChangeContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx ChangeContext) (any, error)
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*watch.exprEvaluator":
		return "expr"
	case "*watch.celEvaluator":
		return "cel"
	case "*watch.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
