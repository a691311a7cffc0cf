// Package tracing installs the OpenTelemetry tracer provider and records errors on spans.
package tracing

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"resume-ats/internal/shared/telemetry"
)

// ErrorType classifies span errors so traces can be filtered.
type ErrorType string

const (
	ErrorTypeExtraction ErrorType = "extraction"
	ErrorTypeNLP        ErrorType = "nlp"
	ErrorTypeDB         ErrorType = "db"
	ErrorTypeCanceled   ErrorType = "canceled"
	ErrorTypeInternal   ErrorType = "internal"
)

// Shutdown flushes and stops the provider installed by Setup.
type Shutdown func(ctx context.Context) error

// Setup exports spans over OTLP/gRPC to endpoint. An empty endpoint leaves the
// global no-op provider in place.
func Setup(ctx context.Context, serviceName, endpoint string) (Shutdown, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
	)
	otel.SetTracerProvider(tp)
	telemetry.Info("tracing.enabled", map[string]any{"endpoint": endpoint, "service": serviceName})
	return tp.Shutdown, nil
}

// RecordError marks span failed with err and its classification.
func RecordError(span trace.Span, err error, errorType ErrorType) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetAttributes(attribute.String("error.type", string(errorType)))
	span.SetStatus(codes.Error, err.Error())
}
