package metrics

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics 业务指标集合
type OTelMetrics struct {
	CheckInsCreatedTotal   metric.Int64Counter
	SuggestionsTotal       metric.Int64Counter
	TeamAlertsTotal        metric.Int64Counter
	EventsPublishFailed    metric.Int64Counter
	DashboardCacheRequests metric.Int64Counter
}

var (
	metrics *OTelMetrics
	mu      sync.RWMutex
)

// InitMetrics 从全局 MeterProvider 创建业务指标，需在 otel 初始化之后调用
func InitMetrics() error {
	meter := otel.Meter("mindbalance")
	m := &OTelMetrics{}

	var err error
	if m.CheckInsCreatedTotal, err = meter.Int64Counter(
		"checkins_created_total",
		metric.WithDescription("Total number of check-ins created"),
		metric.WithUnit("{checkin}"),
	); err != nil {
		return err
	}

	if m.SuggestionsTotal, err = meter.Int64Counter(
		"suggestions_selected_total",
		metric.WithDescription("Suggestions selected by rule id"),
		metric.WithUnit("{suggestion}"),
	); err != nil {
		return err
	}

	if m.TeamAlertsTotal, err = meter.Int64Counter(
		"team_alerts_total",
		metric.WithDescription("Team risk alerts raised by the worker"),
		metric.WithUnit("{alert}"),
	); err != nil {
		return err
	}

	if m.EventsPublishFailed, err = meter.Int64Counter(
		"events_publish_failed_total",
		metric.WithDescription("Domain events that could not be published"),
		metric.WithUnit("{event}"),
	); err != nil {
		return err
	}

	if m.DashboardCacheRequests, err = meter.Int64Counter(
		"dashboard_cache_requests_total",
		metric.WithDescription("Personal dashboard cache lookups by result"),
		metric.WithUnit("{request}"),
	); err != nil {
		return err
	}

	mu.Lock()
	metrics = m
	mu.Unlock()
	return nil
}

// GetMetrics 获取全局指标实例；未初始化时返回 nil，所有 Record 方法对 nil 安全
func GetMetrics() *OTelMetrics {
	mu.RLock()
	defer mu.RUnlock()
	return metrics
}

// RecordCheckIn 记录一次打卡及其命中的规则
func (m *OTelMetrics) RecordCheckIn(ctx context.Context, workload, ruleID, priority string) {
	if m == nil {
		return
	}
	if ruleID == "" {
		ruleID = "default"
	}

	m.CheckInsCreatedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("workload", workload),
	))
	m.SuggestionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("rule_id", ruleID),
		attribute.String("priority", priority),
	))
}

// RecordTeamAlert 记录团队告警，只带部门与等级，不含个人信息
func (m *OTelMetrics) RecordTeamAlert(ctx context.Context, team, severity, kind string) {
	if m == nil {
		return
	}
	m.TeamAlertsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("team", team),
		attribute.String("severity", severity),
		attribute.String("kind", kind),
	))
}

// RecordPublishFailed 记录事件投递失败
func (m *OTelMetrics) RecordPublishFailed(ctx context.Context, routingKey string) {
	if m == nil {
		return
	}
	m.EventsPublishFailed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("routing_key", routingKey),
	))
}

// RecordDashboardCache 记录缓存查询结果：hit / miss / error
func (m *OTelMetrics) RecordDashboardCache(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.DashboardCacheRequests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("result", result),
	))
}
