package compiler

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/roach88/frbgen/internal/compiler"

var (
	metricsOnce    sync.Once
	resolveCounter metric.Int64Counter
)

func initMetrics() {
	metricsOnce.Do(func() {
		meter := otel.Meter(instrumentationName)
		resolveCounter, _ = meter.Int64Counter("frbgen.compiler.resolves",
			metric.WithDescription("ApiFile resolutions, by outcome and error kind"))
	})
}

func startResolveSpan(ctx context.Context, funcs, structs int) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, "compiler.Parse",
		trace.WithAttributes(
			attribute.Int("compiler.input_funcs", funcs),
			attribute.Int("compiler.input_structs", structs),
		))
}

func finishResolve(ctx context.Context, span trace.Span, poolSize int, err error) {
	initMetrics()

	kind := ""
	if err != nil {
		if cerr, ok := err.(*CompileError); ok {
			kind = string(cerr.Kind)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("compiler.struct_pool", poolSize))
	}

	if resolveCounter != nil {
		resolveCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.Bool("success", err == nil),
			attribute.String("error_kind", kind),
		))
	}
}
