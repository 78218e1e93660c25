package watch

import "time"

// LogEvent describes a rule evaluation attempt.
type LogEvent struct {
	Engine   string
	Expr     string
	Key      string
	Matched  bool
	Duration time.Duration
	Err      error
}

// Logger records rule evaluations.
type Logger interface {
	LogEvaluation(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// LogEvaluation implements Logger.
func (f LoggerFunc) LogEvaluation(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogEvaluation(LogEvent) {}
