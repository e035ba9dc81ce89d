package otel

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otel "go.opentelemetry.io/otel"
	attribute "go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	resource "go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	config "github.com/shortnote/shortnote-bot/config"
)

type MeterProvider = sdkmetric.MeterProvider

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

//go:generate mockgen -source=otel.go -destination=../tests/mocks/otel.go -package=mocks
type OpenTelemetry interface {
	Init(config config.Config) error
	Handler() http.Handler
	RecordEventInsert(ctx context.Context, status string)
	RecordReauthorization(ctx context.Context)
	RecordBatch(ctx context.Context, total, completed int, duration time.Duration)
	RecordHTTPRequest(ctx context.Context, method, route string, status int)
	Shutdown(ctx context.Context) error
}

// OpenTelemetryImpl exports metrics in the Prometheus text format. Every
// Record method is a no-op until Init succeeds.
type OpenTelemetryImpl struct {
	meterProvider *MeterProvider
	registry      *prometheus.Registry

	insertCounter   metric.Int64Counter
	reauthCounter   metric.Int64Counter
	requestCounter  metric.Int64Counter
	batchSize       metric.Int64Histogram
	batchDurationMs metric.Float64Histogram
}

func (o *OpenTelemetryImpl) Init(config config.Config) error {
	registry := prometheus.NewRegistry()
	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(config.ApplicationName),
		)),
	)

	otel.SetMeterProvider(mp)
	o.meterProvider = mp
	o.registry = registry

	meter := mp.Meter("shortnote-bot")

	var errs []error
	o.insertCounter, err = meter.Int64Counter(
		"calendar.events.inserted",
		metric.WithDescription("Number of calendar event inserts by outcome"),
	)
	errs = append(errs, err)

	o.reauthCounter, err = meter.Int64Counter(
		"auth.reauthorizations",
		metric.WithDescription("Number of callers sent back to the login flow after their credential expired"),
	)
	errs = append(errs, err)

	o.requestCounter, err = meter.Int64Counter(
		"http.server.requests",
		metric.WithDescription("Number of HTTP requests served"),
	)
	errs = append(errs, err)

	o.batchSize, err = meter.Int64Histogram(
		"notes.batch.size",
		metric.WithDescription("Number of dated notes submitted per message"),
	)
	errs = append(errs, err)

	o.batchDurationMs, err = meter.Float64Histogram(
		"notes.batch.duration",
		metric.WithDescription("Time from the first insert to the last completion of a message"),
		metric.WithUnit("ms"),
	)
	errs = append(errs, err)

	for _, e := range errs {
		if e != nil {
			return e
		}
	}

	return nil
}

// Handler serves the collected metrics. Before Init it answers 404.
func (o *OpenTelemetryImpl) Handler() http.Handler {
	if o.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})
}

func (o *OpenTelemetryImpl) RecordEventInsert(ctx context.Context, status string) {
	if o.insertCounter == nil {
		return
	}
	o.insertCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func (o *OpenTelemetryImpl) RecordReauthorization(ctx context.Context) {
	if o.reauthCounter == nil {
		return
	}
	o.reauthCounter.Add(ctx, 1)
}

func (o *OpenTelemetryImpl) RecordBatch(ctx context.Context, total, completed int, duration time.Duration) {
	if o.batchSize == nil || o.batchDurationMs == nil {
		return
	}
	complete := attribute.Bool("complete", completed == total)
	o.batchSize.Record(ctx, int64(total), metric.WithAttributes(complete))
	o.batchDurationMs.Record(ctx, float64(duration)/float64(time.Millisecond), metric.WithAttributes(complete))
}

func (o *OpenTelemetryImpl) RecordHTTPRequest(ctx context.Context, method, route string, status int) {
	if o.requestCounter == nil {
		return
	}
	o.requestCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	))
}

func (o *OpenTelemetryImpl) Shutdown(ctx context.Context) error {
	if o.meterProvider == nil {
		return nil
	}
	return o.meterProvider.Shutdown(ctx)
}
