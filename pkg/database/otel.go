package database

import (
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	startTimeKey = "otel:start_time"
	spanKey      = "otel:span"
)

var sensitiveSQL = regexp.MustCompile(`(password|token|secret)\s*=\s*'[^']*'`)

// PluginConfig 插件配置
type PluginConfig struct {
	ServiceName  string
	Driver       string // postgres / sqlite
	MaxSQLLength int
}

// DefaultPluginConfig 默认插件配置
func DefaultPluginConfig() PluginConfig {
	return PluginConfig{
		ServiceName:  "mindbalance",
		Driver:       "postgres",
		MaxSQLLength: 500,
	}
}

// OTELPlugin GORM OpenTelemetry 插件，为每条语句生成 span 并记录耗时
type OTELPlugin struct {
	tracer        trace.Tracer
	config        PluginConfig
	queriesTotal  metric.Int64Counter
	queryDuration metric.Float64Histogram
}

// NewOTELPlugin 创建插件实例，指标从全局 MeterProvider 获取
func NewOTELPlugin(config PluginConfig) (*OTELPlugin, error) {
	if config.ServiceName == "" {
		config.ServiceName = "mindbalance"
	}
	if config.MaxSQLLength <= 0 {
		config.MaxSQLLength = 500
	}

	meter := otel.Meter(config.ServiceName + ".gorm")

	queriesTotal, err := meter.Int64Counter(
		"db.queries.total",
		metric.WithDescription("Total number of database queries"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, err
	}

	queryDuration, err := meter.Float64Histogram(
		"db.query.duration",
		metric.WithDescription("Database query duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5),
	)
	if err != nil {
		return nil, err
	}

	return &OTELPlugin{
		tracer:        otel.Tracer(config.ServiceName + ".gorm"),
		config:        config,
		queriesTotal:  queriesTotal,
		queryDuration: queryDuration,
	}, nil
}

// Name 实现 gorm.Plugin 接口
func (p *OTELPlugin) Name() string {
	return "otel_plugin"
}

// Initialize 注册回调
func (p *OTELPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()

	if err := cb.Query().Before("gorm:query").Register("otel:before_query", p.before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("otel:after_query", p.after); err != nil {
		return err
	}
	if err := cb.Create().Before("gorm:create").Register("otel:before_create", p.before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("otel:after_create", p.after); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("otel:before_row", p.before); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("otel:after_row", p.after); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("otel:before_raw", p.before); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("otel:after_raw", p.after)
}

func (p *OTELPlugin) before(db *gorm.DB) {
	ctx, span := p.tracer.Start(db.Statement.Context, "db."+tableOf(db),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(p.systemAttr(), attribute.String("db.table", tableOf(db))),
	)

	db.InstanceSet(startTimeKey, time.Now())
	db.InstanceSet(spanKey, span)
	db.Statement.Context = ctx
}

func (p *OTELPlugin) after(db *gorm.DB) {
	v, ok := db.InstanceGet(spanKey)
	if !ok {
		return
	}
	span, ok := v.(trace.Span)
	if !ok {
		return
	}
	defer span.End()

	operation := operationOf(db.Statement.SQL.String())
	span.SetName(operation)
	span.SetAttributes(
		semconv.DBStatement(p.sanitize(db.Statement.SQL.String())),
		attribute.Int64("db.rows_affected", db.Statement.RowsAffected),
	)

	status := "success"
	switch {
	case db.Error == nil, db.Error == gorm.ErrRecordNotFound:
		span.SetStatus(codes.Ok, "")
	default:
		status = "error"
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	attrs := metric.WithAttributes(
		attribute.String("db.operation", operation),
		attribute.String("db.status", status),
	)
	p.queriesTotal.Add(db.Statement.Context, 1, attrs)

	if t, ok := db.InstanceGet(startTimeKey); ok {
		if start, ok := t.(time.Time); ok {
			p.queryDuration.Record(db.Statement.Context, time.Since(start).Seconds(), attrs)
		}
	}
}

func (p *OTELPlugin) systemAttr() attribute.KeyValue {
	if p.config.Driver == "sqlite" {
		return semconv.DBSystemSqlite
	}
	return semconv.DBSystemPostgreSQL
}

// sanitize 截断并脱敏 SQL
func (p *OTELPlugin) sanitize(sql string) string {
	if len(sql) > p.config.MaxSQLLength {
		sql = sql[:p.config.MaxSQLLength] + "..."
	}
	return sensitiveSQL.ReplaceAllString(sql, "$1='***'")
}

func tableOf(db *gorm.DB) string {
	if db.Statement.Table == "" {
		return "unknown"
	}
	return db.Statement.Table
}

func operationOf(sql string) string {
	s := strings.ToUpper(strings.TrimSpace(sql))
	switch {
	case s == "":
		return "db.unknown"
	case strings.HasPrefix(s, "SELECT"):
		return "db.select"
	case strings.HasPrefix(s, "INSERT"):
		return "db.insert"
	case strings.HasPrefix(s, "UPDATE"):
		return "db.update"
	case strings.HasPrefix(s, "DELETE"):
		return "db.delete"
	default:
		return "db.query"
	}
}

// WithDefaultOTELPlugin 使用默认配置添加 OpenTelemetry 插件
func WithDefaultOTELPlugin(db *gorm.DB, serviceName, driver string) error {
	config := DefaultPluginConfig()
	config.ServiceName = serviceName
	config.Driver = driver

	plugin, err := NewOTELPlugin(config)
	if err != nil {
		return err
	}
	return db.Use(plugin)
}
