package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	AttrFunction = attribute.Key("hooks.function")
	AttrA        = attribute.Key("hooks.a")
	AttrB        = attribute.Key("hooks.b")
	AttrRun      = attribute.Key("hooks.run")
	AttrResult   = attribute.Key("hooks.result")
)

// SpanRecorder adds a "call" event to the span active in ctx.
// Without a recording span it does nothing.
type SpanRecorder struct{}

// Called implements Recorder.
func (SpanRecorder) Called(ctx context.Context, function string, a, b int64) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent("call", trace.WithAttributes(
		AttrFunction.String(function),
		AttrA.Int64(a),
		AttrB.Int64(b),
	))
}
