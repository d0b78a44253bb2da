package redis

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const maxTracedKeys = 5

// TracingHook 为每条 Redis 命令生成 span，并统计命中率
type TracingHook struct {
	tracer          trace.Tracer
	attrs           []attribute.KeyValue
	commandsTotal   metric.Int64Counter
	commandDuration metric.Float64Histogram
	cacheHits       metric.Int64Counter
	cacheMisses     metric.Int64Counter
}

// NewTracingHook 创建追踪 Hook，指标从全局 MeterProvider 获取
func NewTracingHook(serviceName string, db int) (*TracingHook, error) {
	meter := otel.Meter(serviceName + ".redis")
	th := &TracingHook{
		tracer: otel.Tracer(serviceName + ".redis"),
		attrs: []attribute.KeyValue{
			semconv.DBSystemRedis,
			semconv.DBRedisDBIndex(db),
		},
	}

	var err error
	if th.commandsTotal, err = meter.Int64Counter("redis.commands.total",
		metric.WithDescription("Total number of Redis commands"),
		metric.WithUnit("{command}")); err != nil {
		return nil, err
	}
	if th.commandDuration, err = meter.Float64Histogram("redis.command.duration",
		metric.WithDescription("Redis command duration"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if th.cacheHits, err = meter.Int64Counter("redis.cache.hits",
		metric.WithDescription("Number of GET commands that found a value")); err != nil {
		return nil, err
	}
	if th.cacheMisses, err = meter.Int64Counter("redis.cache.misses",
		metric.WithDescription("Number of GET commands that returned nil")); err != nil {
		return nil, err
	}
	return th, nil
}

// DialHook 实现 redis.Hook 接口
func (th *TracingHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

// ProcessHook 实现 redis.Hook 接口
func (th *TracingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		ctx, span := th.tracer.Start(ctx, "redis."+cmd.Name(),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(th.attrs...),
		)
		defer span.End()

		span.SetAttributes(semconv.DBOperation(cmd.Name()))
		if keys := extractKeys(cmd.Args()); len(keys) > 0 {
			span.SetAttributes(attribute.StringSlice("redis.keys", keys))
		}

		start := time.Now()
		err := next(ctx, cmd)

		status := "success"
		switch {
		case err == redis.Nil:
			status = "not_found"
		case err != nil:
			status = "error"
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		}

		labels := metric.WithAttributes(
			attribute.String("redis.command", cmd.Name()),
			attribute.String("redis.status", status),
		)
		th.commandsTotal.Add(ctx, 1, labels)
		th.commandDuration.Record(ctx, time.Since(start).Seconds(), labels)

		if cmd.Name() == "get" {
			if err == redis.Nil {
				th.cacheMisses.Add(ctx, 1)
			} else if err == nil {
				th.cacheHits.Add(ctx, 1)
			}
		}

		return err
	}
}

// ProcessPipelineHook 实现 redis.Hook 接口
func (th *TracingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		ctx, span := th.tracer.Start(ctx, "redis.pipeline",
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(th.attrs...),
		)
		defer span.End()

		span.SetAttributes(attribute.Int("redis.pipeline.count", len(cmds)))

		err := next(ctx, cmds)
		if err != nil && err != redis.Nil {
			span.SetStatus(codes.Error, err.Error())
		}
		th.commandsTotal.Add(ctx, int64(len(cmds)), metric.WithAttributes(
			attribute.String("redis.command", "pipeline"),
		))
		return err
	}
}

// extractKeys 提取命令中的键名，跳过命令名本身
func extractKeys(args []interface{}) []string {
	keys := make([]string, 0, maxTracedKeys)
	for i := 1; i < len(args) && len(keys) < maxTracedKeys; i++ {
		if key, ok := args[i].(string); ok {
			keys = append(keys, sanitizeKey(key))
		}
	}
	return keys
}

// sanitizeKey 键名里带 token/password/secret 时只保留第一段
func sanitizeKey(key string) string {
	lower := strings.ToLower(key)
	if strings.Contains(lower, "token") || strings.Contains(lower, "password") || strings.Contains(lower, "secret") {
		if i := strings.Index(key, ":"); i > 0 {
			return key[:i] + ":***"
		}
		return "***"
	}
	if len(key) > 100 {
		return key[:100] + "..."
	}
	return key
}

// InstrumentClient 为 Redis 客户端挂载追踪 Hook
func InstrumentClient(client *redis.Client, serviceName string, db int) error {
	hook, err := NewTracingHook(serviceName, db)
	if err != nil {
		return err
	}
	client.AddHook(hook)
	return nil
}
