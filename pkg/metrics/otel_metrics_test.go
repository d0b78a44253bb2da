package metrics

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *OTelMetrics
	ctx := context.Background()

	m.RecordCheckIn(ctx, "heavy", "", "")
	m.RecordTeamAlert(ctx, "Sales", "high", "low_mood")
	m.RecordPublishFailed(ctx, "checkin.created")
	m.RecordDashboardCache(ctx, "hit")
}

func TestRecordCheckIn(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	prev := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)
	t.Cleanup(func() { otel.SetMeterProvider(prev) })

	if err := InitMetrics(); err != nil {
		t.Fatalf("InitMetrics: %v", err)
	}

	ctx := context.Background()
	GetMetrics().RecordCheckIn(ctx, "heavy", "heavy-streak", "high")
	GetMetrics().RecordCheckIn(ctx, "light", "", "")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if md.Name != "checkins_created_total" {
				continue
			}
			sum, ok := md.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("unexpected data type %T", md.Data)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	if total != 2 {
		t.Fatalf("checkins_created_total = %d, want 2", total)
	}
}
