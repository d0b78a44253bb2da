package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"

	"MindBalance/internal/middleware"
	"MindBalance/internal/service"
	"MindBalance/pkg/errors"
	"MindBalance/pkg/logger"
	"MindBalance/pkg/response"
)

// viewerOf 把认证身份转换为服务层的访问者
func viewerOf(c *app.RequestContext) (service.Viewer, bool) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		return service.Viewer{}, false
	}
	return service.Viewer{UserID: id.UserID, Admin: id.IsAdmin()}, true
}

// writeError 业务错误原样返回，其余错误记录日志后统一返回 INTERNAL_ERROR
func writeError(ctx context.Context, c *app.RequestContext, err error) {
	if _, ok := errors.As(err); ok {
		response.Error(ctx, c, err)
		return
	}

	logger.Logger.Error("Request failed",
		zap.String("method", string(c.Method())),
		zap.String("path", string(c.Path())),
		zap.String("request_id", string(c.GetHeader(middleware.RequestIDHeader))),
		zap.Error(err),
	)
	response.Error(ctx, c, errors.Internal)
}
