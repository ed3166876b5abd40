package emit

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTelEmitter turns each Event into an OpenTelemetry span: event.Msg
// names the span, event fields and Meta become attributes, and
// Meta["error"] (if present) marks the span as errored. Spans
// represent a point in time, so they start and end immediately rather
// than staying open across a node's execution.
type OTelEmitter struct {
	tracer trace.Tracer
}

// NewOTelEmitter wraps tracer (e.g. otel.Tracer("assemblyzero")) as an
// Emitter.
func NewOTelEmitter(tracer trace.Tracer) *OTelEmitter {
	return &OTelEmitter{tracer: tracer}
}

// Emit starts, annotates, and immediately ends one span for event.
func (o *OTelEmitter) Emit(event Event) {
	_, span := o.tracer.Start(context.Background(), event.Msg)
	defer span.End()
	o.annotate(span, event)
}

// EmitBatch emits one span per event, in order; the OTel batch span
// processor handles export efficiency.
func (o *OTelEmitter) EmitBatch(ctx context.Context, events []Event) error {
	for _, event := range events {
		_, span := o.tracer.Start(ctx, event.Msg)
		o.annotate(span, event)
		span.End()
	}
	return nil
}

// Flush forces the global tracer provider to export any buffered
// spans, if it supports ForceFlush (the SDK provider does; a no-op
// provider silently doesn't).
func (o *OTelEmitter) Flush(ctx context.Context) error {
	type flusher interface {
		ForceFlush(context.Context) error
	}
	if f, ok := otel.GetTracerProvider().(flusher); ok {
		return f.ForceFlush(ctx)
	}
	return nil
}

// annotate sets event/metadata/concurrency attributes on span and
// marks it errored if event.Meta carries an "error" key.
func (o *OTelEmitter) annotate(span trace.Span, event Event) {
	span.SetAttributes(
		attribute.String("langgraph.run_id", event.RunID),
		attribute.Int("langgraph.step", event.Step),
		attribute.String("langgraph.node_id", event.NodeID),
	)
	setMetadataAttributes(span, event.Meta)
	setConcurrencyAttributes(span, event.Meta)

	if errMsg, ok := event.Meta["error"].(string); ok {
		span.SetStatus(codes.Error, errMsg)
		span.RecordError(fmt.Errorf("%s", errMsg))
	}
}

// metaAttrKey maps a handful of cost/latency metadata keys onto
// dotted OpenTelemetry attribute names; every other key passes
// through unchanged.
func metaAttrKey(key string) string {
	switch key {
	case "tokens_in":
		return "langgraph.llm.tokens_in"
	case "tokens_out":
		return "langgraph.llm.tokens_out"
	case "cost_usd":
		return "langgraph.llm.cost_usd"
	case "latency_ms":
		return "langgraph.node.latency_ms"
	case "model":
		return "langgraph.llm.model"
	default:
		return key
	}
}

// setMetadataAttributes converts event.Meta into span attributes,
// skipping the concurrency keys setConcurrencyAttributes owns.
func setMetadataAttributes(span trace.Span, meta map[string]interface{}) {
	for key, value := range meta {
		if key == "step_id" || key == "order_key" || key == "attempt" {
			continue
		}

		attrKey := metaAttrKey(key)
		switch v := value.(type) {
		case string:
			span.SetAttributes(attribute.String(attrKey, v))
		case int:
			span.SetAttributes(attribute.Int(attrKey, v))
		case int64:
			span.SetAttributes(attribute.Int64(attrKey, v))
		case float64:
			span.SetAttributes(attribute.Float64(attrKey, v))
		case bool:
			span.SetAttributes(attribute.Bool(attrKey, v))
		case time.Duration:
			span.SetAttributes(attribute.Int64(attrKey, int64(v/time.Millisecond)))
		default:
			span.SetAttributes(attribute.String(attrKey, fmt.Sprintf("%v", v)))
		}
	}
}

// setConcurrencyAttributes records the frontier's step_id/order_key/
// attempt for a work item, letting a trace backend correlate retries
// and deterministic replay ordering.
func setConcurrencyAttributes(span trace.Span, meta map[string]interface{}) {
	if stepID, ok := meta["step_id"].(string); ok {
		span.SetAttributes(attribute.String("langgraph.step_id", stepID))
	}
	if orderKey, ok := meta["order_key"].(string); ok {
		span.SetAttributes(attribute.String("langgraph.order_key", orderKey))
	}
	if attempt, ok := meta["attempt"].(int); ok {
		span.SetAttributes(attribute.Int("langgraph.attempt", attempt))
	} else if attempt, ok := meta["attempt"].(int64); ok {
		span.SetAttributes(attribute.Int64("langgraph.attempt", attempt))
	}
}
