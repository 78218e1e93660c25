//go:build !js_eval

package watch

import "testing"

func TestJSEvaluatorUnavailableWithoutTag(t *testing.T) {
	if JSEvaluatorAvailable() {
		t.Fatalf("expected js evaluator to be unavailable")
	}
	if NewJSEvaluator() != nil {
		t.Fatalf("expected nil evaluator without js_eval tag")
	}
}
