package handler

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"

	"MindBalance/internal/model/dto"
	"MindBalance/pkg/response"
)

// Health 健康检查
// GET /api/health
func Health(ctx context.Context, c *app.RequestContext) {
	response.Success(ctx, c, dto.HealthResponse{
		Status:    "healthy",
		Message:   "MindBalance API is running!",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
