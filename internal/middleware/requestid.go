package middleware

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-Id"

// RequestIDMiddleware 透传或生成请求 ID，写回响应头
func RequestIDMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		requestID := string(c.GetHeader(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
			c.Request.Header.Set(RequestIDHeader, requestID)
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next(ctx)
	}
}
