package source

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/roach88/frbgen/internal/source"

var (
	metricsOnce   sync.Once
	parseCounter  metric.Int64Counter
	parseDuration metric.Float64Histogram
)

func initMetrics() {
	metricsOnce.Do(func() {
		meter := otel.Meter(instrumentationName)
		parseCounter, _ = meter.Int64Counter("frbgen.source.parses",
			metric.WithDescription("Rust source files parsed, by outcome"))
		parseDuration, _ = meter.Float64Histogram("frbgen.source.parse.duration",
			metric.WithDescription("Time spent parsing and extracting one file"),
			metric.WithUnit("ms"))
	})
}

func startParseSpan(ctx context.Context, filePath string, size int) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, "source.Parse",
		trace.WithAttributes(
			attribute.String("source.language", "rust"),
			attribute.String("source.file", filePath),
			attribute.Int("source.size_bytes", size),
		))
}

func setParseSpanResult(span trace.Span, funcs, structs int) {
	span.SetAttributes(
		attribute.Int("source.public_funcs", funcs),
		attribute.Int("source.public_structs", structs),
	)
}

func endSpanWithError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func recordParse(ctx context.Context, elapsed time.Duration, success bool) {
	initMetrics()
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	if parseCounter != nil {
		parseCounter.Add(ctx, 1, attrs)
	}
	if parseDuration != nil {
		parseDuration.Record(ctx, float64(elapsed.Microseconds())/1000.0, attrs)
	}
}
