package api

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	listsRoute    = "/api/lists"
	listsSpanName = "todo.lists.enumerate"
)

// listsRequestMetrics collects per-stage timings for the list enumeration
// endpoint and emits them as a structured log entry plus a span when the
// request completes.
type listsRequestMetrics struct {
	logger         *log.Logger
	span           trace.Span
	start          time.Time
	fetchDuration  time.Duration
	encodeDuration time.Duration
	listsReturned  int
	errorStage     string
}

func newListsRequestMetrics(ctx context.Context, logger *log.Logger) (*listsRequestMetrics, context.Context) {
	m := &listsRequestMetrics{logger: logger, start: time.Now()}
	spanCtx, span := otel.Tracer("todo-api/api").Start(ctx, listsSpanName)
	m.span = span
	return m, spanCtx
}

func (m *listsRequestMetrics) ObserveFetch(d time.Duration) {
	if d <= 0 {
		return
	}
	m.fetchDuration = d
}

func (m *listsRequestMetrics) ObserveEncode(d time.Duration) {
	if d <= 0 {
		return
	}
	m.encodeDuration = d
}

func (m *listsRequestMetrics) SetListsReturned(count int) {
	if count < 0 {
		count = 0
	}
	m.listsReturned = count
}

func (m *listsRequestMetrics) SetErrorStage(stage string) {
	if stage == "" {
		return
	}
	m.errorStage = stage
}

// Log finishes the span and writes one metrics entry for the request.
func (m *listsRequestMetrics) Log(status int, err error) {
	if m == nil {
		return
	}
	total := time.Since(m.start)

	if m.span != nil {
		attrs := []attribute.KeyValue{
			attribute.String("http.route", listsRoute),
			attribute.Int("http.status_code", status),
			attribute.Int("todo.lists.lists_returned", m.listsReturned),
			attribute.Float64("todo.lists.total_ms", durationToMillis(total)),
		}
		if m.fetchDuration > 0 {
			attrs = append(attrs, attribute.Float64("todo.lists.fetch_ms", durationToMillis(m.fetchDuration)))
		}
		if m.encodeDuration > 0 {
			attrs = append(attrs, attribute.Float64("todo.lists.encode_ms", durationToMillis(m.encodeDuration)))
		}
		if m.errorStage != "" {
			attrs = append(attrs, attribute.String("todo.lists.error_stage", m.errorStage))
		}
		m.span.SetAttributes(attrs...)
		if err != nil {
			m.span.SetStatus(codes.Error, err.Error())
		} else {
			m.span.SetStatus(codes.Ok, "")
		}
		m.span.End()
	}

	if m.logger == nil {
		return
	}
	fields := log.Fields{
		"route":          listsRoute,
		"status":         status,
		"total_ms":       durationToMillis(total),
		"lists_returned": m.listsReturned,
	}
	if m.fetchDuration > 0 {
		fields["fetch_ms"] = durationToMillis(m.fetchDuration)
	}
	if m.encodeDuration > 0 {
		fields["encode_ms"] = durationToMillis(m.encodeDuration)
	}
	if m.errorStage != "" {
		fields["error_stage"] = m.errorStage
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	m.logger.WithFields(fields).Info("lists.request.metrics")
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
