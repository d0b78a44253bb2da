package middleware

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/config"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"MindBalance/pkg/logger"
)

// httpMetrics HTTP 相关指标
type httpMetrics struct {
	requestTotal   metric.Int64Counter
	duration       metric.Float64Histogram
	requestSize    metric.Int64Histogram
	responseSize   metric.Int64Histogram
	activeRequests metric.Int64UpDownCounter
}

var (
	serverMetrics     *httpMetrics
	serverMetricsOnce sync.Once
)

// toValidUTF8 统一清洗用户可控字符串，防止非法 UTF-8 触发指标/trace 序列化失败
func toValidUTF8(val string) string {
	return strings.ToValidUTF8(val, "")
}

// getServerMetrics 第一次请求时从全局 MeterProvider 创建指标；未启用 otel 时为 no-op
func getServerMetrics() *httpMetrics {
	serverMetricsOnce.Do(func() {
		m, err := newHTTPMetrics(otel.Meter("mindbalance/http"))
		if err != nil {
			logger.Logger.Warn("Failed to create HTTP metrics, falling back to no-op", zap.Error(err))
			m, _ = newHTTPMetrics(noop.NewMeterProvider().Meter("mindbalance/http"))
		}
		serverMetrics = m
	})
	return serverMetrics
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	m := &httpMetrics{}
	var err error

	if m.requestTotal, err = meter.Int64Counter(
		"http.server.requests.total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, err
	}

	if m.duration, err = meter.Float64Histogram(
		"http.server.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0),
	); err != nil {
		return nil, err
	}

	if m.requestSize, err = meter.Int64Histogram(
		"http.server.request.size",
		metric.WithDescription("HTTP request size"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}

	if m.responseSize, err = meter.Int64Histogram(
		"http.server.response.size",
		metric.WithDescription("HTTP response size"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}

	if m.activeRequests, err = meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of active HTTP requests"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// OpenTelemetryMiddleware 创建 OpenTelemetry 中间件
func OpenTelemetryMiddleware() app.HandlerFunc {
	tracer := otel.Tracer("mindbalance/http")

	return func(ctx context.Context, c *app.RequestContext) {
		startTime := time.Now()
		m := getServerMetrics()

		m.activeRequests.Add(ctx, 1)
		defer m.activeRequests.Add(ctx, -1)

		method := toValidUTF8(string(c.Method()))
		path := toValidUTF8(string(c.Path()))
		uri := toValidUTF8(c.Request.URI().String())
		scheme := toValidUTF8(string(c.Request.URI().Scheme()))
		host := toValidUTF8(string(c.Host()))
		ua := toValidUTF8(string(c.UserAgent()))

		// 创建 Span
		spanName := method + " " + path
		spanCtx, span := tracer.Start(ctx, spanName, trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("http.route", path),
			attribute.String("url.full", uri),
			attribute.String("url.scheme", scheme),
			attribute.String("http.host", host),
			attribute.String("http.user_agent", ua),
		))
		defer span.End()

		// 请求 ID 用于关联日志与 trace
		if requestID := c.GetHeader(RequestIDHeader); len(requestID) > 0 {
			span.SetAttributes(attribute.String("http.request_id", toValidUTF8(string(requestID))))
		}

		c.Next(spanCtx)

		// 认证在本中间件之后执行，身份只能在 Next 返回后读取
		if userID, ok := GetUserID(ctx, c); ok {
			span.SetAttributes(attribute.String("enduser.id", toValidUTF8(userID)))
		}

		// 记录请求指标
		duration := time.Since(startTime).Seconds()
		statusCode := int(c.Response.StatusCode())

		// 设置 Span 属性
		span.SetAttributes(
			attribute.Int("http.response.status_code", statusCode),
			attribute.Float64("http.duration", duration),
		)

		// 根据状态码设置 Span 状态
		if statusCode >= 400 {
			span.SetStatus(codes.Error, "HTTP error")
			if statusCode >= 500 {
				if lastErr := c.Errors.Last(); lastErr != nil {
					span.RecordError(lastErr)
				}
			}
		} else {
			span.SetStatus(codes.Ok, "HTTP success")
		}

		// 记录指标
		labels := []attribute.KeyValue{
			attribute.String("http.request.method", method),
			attribute.String("http.route", path),
			attribute.Int("http.response.status_code", statusCode),
		}

		m.requestTotal.Add(ctx, 1, metric.WithAttributes(labels...))
		m.duration.Record(ctx, duration, metric.WithAttributes(labels...))

		// 记录请求和响应大小
		if requestSize := int64(c.Request.Header.ContentLength()); requestSize > 0 {
			m.requestSize.Record(ctx, requestSize, metric.WithAttributes(labels...))
		}
		if responseSize := int64(len(c.Response.Body())); responseSize > 0 {
			m.responseSize.Record(ctx, responseSize, metric.WithAttributes(labels...))
		}
	}
}

// NewServerTracerConfig 创建 Hertz Server 的追踪配置
// 返回用于初始化 Hertz server 的配置选项和追踪中间件
func NewServerTracerConfig(opts ...hertztracing.Option) (config.Option, app.HandlerFunc) {
	tracer, cfg := hertztracing.NewServerTracer(opts...)
	return tracer, hertztracing.ServerMiddleware(cfg)
}
