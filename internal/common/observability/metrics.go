package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	rankCounter   otelmetric.Int64Counter
	rankDuration  otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	rankCounter, _ := meter.Int64Counter(
		"rankings.processed",
		otelmetric.WithDescription("Number of ranking requests processed"),
	)

	rankDuration, _ := meter.Float64Histogram(
		"rankings.duration",
		otelmetric.WithDescription("Ranking evaluation duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		rankCounter:   rankCounter,
		rankDuration:  rankDuration,
	}
}

func (o *Observability) RecordRanking(ctx context.Context, status string) {
	if o != nil && o.rankCounter != nil {
		o.rankCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordRankingDuration(ctx context.Context, duration time.Duration, status string) {
	if o != nil && o.rankDuration != nil {
		o.rankDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) Shutdown() {
	if o != nil && o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
