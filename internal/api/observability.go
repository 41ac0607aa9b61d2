package api

import (
	"github.com/rs/zerolog"
)

// CallEvent records metadata about a single backend request.
type CallEvent struct {
	Method     string
	Path       string
	StatusCode int
	LatencyMs  int64
	Success    bool
	ErrorCode  string
}

// Observer receives events about backend calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to a zerolog logger.
type LogObserver struct {
	logger zerolog.Logger
}

func NewLogObserver(logger zerolog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	ev := o.logger.Debug()
	if !event.Success {
		ev = o.logger.Warn().Str("error_code", event.ErrorCode)
	}
	ev.Str("method", event.Method).
		Str("path", event.Path).
		Int("status", event.StatusCode).
		Int64("latency_ms", event.LatencyMs).
		Msg("api_call")
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
