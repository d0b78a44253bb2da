package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"MindBalance/internal/model/dto"
	"MindBalance/internal/service"
	"MindBalance/pkg/errors"
	"MindBalance/pkg/response"
)

// CreateCheckIn 提交打卡并返回匹配到的建议
// POST /api/checkin
func CreateCheckIn(ctx context.Context, c *app.RequestContext) {
	viewer, ok := viewerOf(c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	var req dto.CreateCheckInRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	checkIn, err := service.CheckIn().Create(ctx, viewer, req)
	if err != nil {
		writeError(ctx, c, err)
		return
	}

	response.Success(ctx, c, dto.CreateCheckInResponse{CheckIn: *checkIn, Success: true})
}

// GetCheckInHistory 打卡历史
// GET /api/checkin/history/:user_id?period=week|month|year
func GetCheckInHistory(ctx context.Context, c *app.RequestContext) {
	viewer, ok := viewerOf(c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	var query dto.HistoryQuery
	if err := c.BindQuery(&query); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	history, err := service.CheckIn().History(ctx, viewer, c.Param("user_id"), query.Period)
	if err != nil {
		writeError(ctx, c, err)
		return
	}

	response.Success(ctx, c, dto.HistoryResponse{History: history, Total: len(history), Success: true})
}
