package nats

import (
	"context"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestNATSHeaderCarrier_GetSetKeys(t *testing.T) {
	carrier := NATSHeaderCarrier(make(nats.Header))

	carrier.Set("traceparent", "00-abc-def-01")
	carrier.Set("baggage", "tenant=staynest")

	assert.Equal(t, "00-abc-def-01", carrier.Get("traceparent"))
	assert.ElementsMatch(t, []string{"Traceparent", "Baggage"}, carrier.Keys())
	assert.Empty(t, carrier.Get("missing"))
}

func TestNATSHeaderCarrier_CarriesTraceContext(t *testing.T) {
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	assert.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	assert.NoError(t, err)

	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

	header := make(nats.Header)
	propagator := propagation.TraceContext{}
	propagator.Inject(ctx, NATSHeaderCarrier(header))

	assert.Equal(t, "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", header.Get("traceparent"))

	extracted := trace.SpanContextFromContext(propagator.Extract(context.Background(), NATSHeaderCarrier(header)))
	assert.Equal(t, traceID, extracted.TraceID())
	assert.Equal(t, spanID, extracted.SpanID())
}

func TestNewNATSPublisher_NilConnection(t *testing.T) {
	publisher, err := NewNATSPublisher(nil)

	assert.Error(t, err)
	assert.Nil(t, publisher)
}
