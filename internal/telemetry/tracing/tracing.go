package tracing

import (
	"fmt"

	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	honeycomb "github.com/honeycombio/honeycomb-opentelemetry-go"
	"github.com/honeycombio/otel-config-go/otelconfig"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var GlobalTracer = otel.Tracer("liftlog-service")

// EndSpanWithErrCheck marks the span as failed when err is set, then ends it.
func EndSpanWithErrCheck(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "ok")
	}
	span.End()
}

// HoneycombSetup configures the OpenTelemetry SDK through the honeycomb distro.
// Endpoint and API key come from the standard OTEL_* / HONEYCOMB_* env vars.
// The returned func must be called on shutdown to flush pending spans.
func HoneycombSetup(enabled bool, serviceName string, rdb *redis.Client) (func(), error) {
	if !enabled {
		log.Debugln("honeycomb tracing disabled, using noop tracer")
		return func() {}, nil
	}

	if rdb != nil {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	// copies baggage entries onto every new span as attributes
	bsp := honeycomb.NewBaggageSpanProcessor()

	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(serviceName),
		otelconfig.WithSpanProcessor(bsp),
	)
	if err != nil {
		return nil, fmt.Errorf("configure open telemetry: %w", err)
	}

	log.Infof("honeycomb tracing enabled for [%s]", serviceName)
	return otelShutdown, nil
}
