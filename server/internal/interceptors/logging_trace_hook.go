package interceptors

import (
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

const (
	TraceIDField = "trace_id"
	SpanIDField  = "span_id"
)

// TraceHook adds the trace and span IDs of the entry's context to every log entry.
// Handlers must log through WithContext(ctx) for the IDs to be found.
type TraceHook struct {
	// SampledOnly skips spans that are not sampled, so that only IDs that can be looked up are logged.
	SampledOnly bool
}

func (h *TraceHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *TraceHook) Fire(entry *logrus.Entry) error {
	if entry.Context == nil {
		return nil
	}

	sc := trace.SpanContextFromContext(entry.Context)
	if !sc.IsValid() || (h.SampledOnly && !sc.IsSampled()) {
		return nil
	}
	entry.Data[TraceIDField] = sc.TraceID().String()
	entry.Data[SpanIDField] = sc.SpanID().String()

	return nil
}
