package middleware

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"MindBalance/config"
	"MindBalance/pkg/errors"
	"MindBalance/pkg/logger"
	"MindBalance/pkg/response"
)

// RecoverConfig recover 中间件配置
type RecoverConfig struct {
	// 是否记录堆栈
	EnableStackTrace bool
	// 生产环境是否返回详细错误
	ExposeDetailsInProduction bool
	// 是否在 span 中记录异常
	RecordInSpan bool
	// 严重错误回调，可用于发送告警
	OnSevereError func(ctx context.Context, c *app.RequestContext, err interface{}, stack []byte)
	IsProduction  bool
}

// NewRecoverConfig 创建 recover 配置
func NewRecoverConfig() RecoverConfig {
	return RecoverConfig{
		EnableStackTrace: true,
		RecordInSpan:     true,
		IsProduction:     config.Cfg.IsProduction(),
	}
}

// RecoverMiddleware 创建 recover 中间件
func RecoverMiddleware() app.HandlerFunc {
	return RecoverMiddlewareWithConfig(NewRecoverConfig())
}

// RecoverMiddlewareWithConfig 带配置的 recover 中间件
func RecoverMiddlewareWithConfig(cfg RecoverConfig) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				handlePanic(ctx, c, err, cfg)
			}
		}()

		c.Next(ctx)
	}
}

// handlePanic 记录日志并返回 500
func handlePanic(ctx context.Context, c *app.RequestContext, err interface{}, cfg RecoverConfig) {
	var stack []byte
	if cfg.EnableStackTrace {
		stack = getStackTrace()
	}

	logPanic(ctx, c, err, stack)

	if cfg.RecordInSpan {
		span := trace.SpanFromContext(ctx)
		span.RecordError(fmt.Errorf("panic: %v", err))
		span.SetStatus(codes.Error, "panic recovered")
	}

	if cfg.OnSevereError != nil && isSeverePanic(err) {
		cfg.OnSevereError(ctx, c, err, stack)
	}

	writeErrorResponse(ctx, c, err, stack, cfg)
	c.Abort()
}

// writeErrorResponse 生产环境只返回通用提示
func writeErrorResponse(ctx context.Context, c *app.RequestContext, err interface{}, stack []byte, cfg RecoverConfig) {
	if cfg.IsProduction && !cfg.ExposeDetailsInProduction {
		response.Error(ctx, c, errors.Internal)
		return
	}

	details := map[string]interface{}{
		"panic":     fmt.Sprintf("%v", err),
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if len(stack) > 0 {
		details["stack"] = string(stack)
	}
	response.ErrorWithDetails(ctx, c, errors.Internal.WithMessage(fmt.Sprintf("Internal error: %v", err)), details)
}

// getStackTrace 当前 goroutine 的调用栈，过滤 runtime 帧
func getStackTrace() []byte {
	var buf strings.Builder
	buf.WriteString("goroutine panic:\n")

	// 跳过 runtime.Callers / getStackTrace / handlePanic
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") {
			fmt.Fprintf(&buf, "  %s:%d\n    %s\n", frame.File, frame.Line, frame.Function)
		}
		if !more {
			break
		}
	}
	return []byte(buf.String())
}

// logPanic 记录 panic 日志；请求体可能含个人状态信息，不记录
func logPanic(ctx context.Context, c *app.RequestContext, err interface{}, stack []byte) {
	fields := []zap.Field{
		zap.String("panic", fmt.Sprintf("%v", err)),
		zap.String("path", string(c.Path())),
		zap.String("method", string(c.Method())),
		zap.String("client_ip", c.ClientIP()),
		zap.String("request_id", string(c.GetHeader(RequestIDHeader))),
	}

	if userID, exists := GetUserID(ctx, c); exists {
		fields = append(fields, zap.String("user_id", userID))
	}
	if len(stack) > 0 {
		fields = append(fields, zap.ByteString("stack", stack))
	}

	logger.Logger.Error("[PANIC RECOVERED]", fields...)
	if isSeverePanic(err) {
		logger.Logger.Error("[SEVERE PANIC DETECTED]", fields...)
	}
}

// isSeverePanic 判断是否为严重错误
func isSeverePanic(err interface{}) bool {
	if err == nil {
		return false
	}

	errStr := fmt.Sprintf("%v", err)
	severePatterns := []string{
		"runtime: out of memory",
		"fatal error:",
		"concurrent map writes",
		"concurrent map read and map write",
		"runtime error: makeslice:",
		"index out of range",
		"slice bounds out of range",
		"unexpected signal",
	}
	for _, pattern := range severePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
