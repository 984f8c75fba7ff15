package llm

import (
	"io"
	"log/slog"
)

// CallEvent records metadata about a single model invocation.
type CallEvent struct {
	Provider  ProviderKind
	Model     string
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about model calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes model call events to an io.Writer via slog.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	if event.Success {
		o.logger.Info("llm_call",
			"provider", event.Provider,
			"model", event.Model,
			"latency_ms", event.LatencyMs,
		)
		return
	}
	o.logger.Error("llm_call",
		"provider", event.Provider,
		"model", event.Model,
		"latency_ms", event.LatencyMs,
		"error_code", event.ErrorCode,
	)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
