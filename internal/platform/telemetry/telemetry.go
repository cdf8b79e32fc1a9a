// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package telemetry installs the global OpenTelemetry tracer provider.

Store calls are always instrumented through otel.Tracer; without an OTLP
endpoint the global provider stays a no-op and spans cost nothing.
*/
package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ShutdownFunc flushes pending spans and releases the exporter.
type ShutdownFunc func(context context.Context) error

// Setup exports spans over OTLP/HTTP to endpoint (e.g. http://collector:4318).
//
// An empty endpoint leaves tracing disabled and returns a no-op shutdown.
func Setup(ctx context.Context, endpoint, serviceName, serviceVersion string, logger *slog.Logger) (ShutdownFunc, error) {
	if endpoint == "" {
		logger.Debug("tracing_disabled")
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return nil, fmt.Errorf("telemetry: failed to create exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		)),
	)
	otel.SetTracerProvider(provider)

	logger.Info("tracing_enabled", slog.String("endpoint", endpoint))
	return provider.Shutdown, nil
}
