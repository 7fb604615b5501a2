package telemetry

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	headerTraceID       = "X-Trace-ID"
	headerCorrelationID = "X-Correlation-ID"
)

// FiberMiddleware opens a server span per request, continues any incoming
// trace and records request latency by route and status.
func FiberMiddleware() fiber.Handler {
	tracer := Tracer()
	propagator := otel.GetTextMapPropagator()

	latency, err := Meter().Float64Histogram("clubhouse.http.server.duration",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"))
	if err != nil {
		log.Printf("[Telemetry] failed to create latency histogram: %v", err)
	}

	return func(c *fiber.Ctx) error {
		started := time.Now()
		parent := propagator.Extract(c.Context(), propagation.HeaderCarrier(c.GetReqHeaders()))

		attrs := []attribute.KeyValue{
			attribute.String("http.method", c.Method()),
			attribute.String("http.target", c.OriginalURL()),
			attribute.String("http.client_ip", c.IP()),
		}
		if id := c.Get(headerCorrelationID); id != "" {
			attrs = append(attrs, attribute.String("http.correlation_id", id))
		}

		// Named by raw path until routing has matched
		ctx, span := tracer.Start(parent, c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		c.SetUserContext(ctx)
		if sc := span.SpanContext(); sc.HasTraceID() {
			c.Set(headerTraceID, sc.TraceID().String())
		}

		err := c.Next()

		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
			span.SetName(c.Method() + " " + route)
		}
		status := c.Response().StatusCode()
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)

		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case status >= fiber.StatusInternalServerError:
			span.SetStatus(codes.Error, "HTTP "+strconv.Itoa(status))
		}

		if latency != nil {
			latency.Record(ctx, time.Since(started).Seconds(), metric.WithAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.route", route),
				attribute.Int("http.status_code", status),
			))
		}
		return err
	}
}

// SetSpanAttribute tags the request span with a string attribute.
func SetSpanAttribute(c *fiber.Ctx, key, value string) {
	trace.SpanFromContext(c.UserContext()).SetAttributes(attribute.String(key, value))
}
