package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	commissionComputes metric.Int64Counter
	rankingRequests    metric.Int64Counter
	snapshotUpserts    metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "commission"
	}
	meter := provider.Meter(name)

	commissionComputes, err := meter.Int64Counter("commission_computes_total")
	if err != nil {
		return nil, err
	}
	rankingRequests, err := meter.Int64Counter("commission_ranking_requests_total")
	if err != nil {
		return nil, err
	}
	snapshotUpserts, err := meter.Int64Counter("commission_snapshot_upserts_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		commissionComputes: commissionComputes,
		rankingRequests:    rankingRequests,
		snapshotUpserts:    snapshotUpserts,
	}, nil
}

func (m *Metrics) RecordCompute(ctx context.Context, department string, outcome string) {
	if m == nil || m.commissionComputes == nil {
		return
	}
	m.commissionComputes.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("department", department),
			attribute.String("outcome", outcome),
		),
	)
}

func (m *Metrics) RecordRanking(ctx context.Context, department string) {
	if m == nil || m.rankingRequests == nil {
		return
	}
	m.rankingRequests.Add(ctx, 1,
		metric.WithAttributes(attribute.String("department", department)),
	)
}

func (m *Metrics) RecordSnapshotUpsert(ctx context.Context) {
	if m == nil || m.snapshotUpserts == nil {
		return
	}
	m.snapshotUpserts.Add(ctx, 1)
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch protocol {
	case "grpc":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http", "http/protobuf":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported otlp protocol %q", protocol)
	}
}
