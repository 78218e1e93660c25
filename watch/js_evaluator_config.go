package watch

import "time"

// jsEvaluatorConfig is shared by the goja evaluator and its stub so both
// builds accept the same options.
type jsEvaluatorConfig struct {
	cache    ProgramCache
	registry *FunctionRegistry
	timeout  time.Duration
}

// JSEvaluatorOption configures the JS evaluator.
type JSEvaluatorOption func(*jsEvaluatorConfig)

// JSWithProgramCache shares compiled scripts between evaluators.
func JSWithProgramCache(cache ProgramCache) JSEvaluatorOption {
	return func(cfg *jsEvaluatorConfig) {
		cfg.cache = cache
	}
}

// JSWithFunctionRegistry exposes the helpers in registry to script rules.
func JSWithFunctionRegistry(registry *FunctionRegistry) JSEvaluatorOption {
	return func(cfg *jsEvaluatorConfig) {
		if registry != nil {
			cfg.registry = registry.Clone()
		}
	}
}

// JSWithTimeout interrupts a script rule that runs longer than timeout.
// Rules run inside Set, so a runaway script would otherwise block the
// caller. Zero disables the limit.
func JSWithTimeout(timeout time.Duration) JSEvaluatorOption {
	return func(cfg *jsEvaluatorConfig) {
		if timeout > 0 {
			cfg.timeout = timeout
		}
	}
}

func applyJSEvaluatorOptions(opts []JSEvaluatorOption) jsEvaluatorConfig {
	var cfg jsEvaluatorConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
