package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"MindBalance/internal/model/dto"
	"MindBalance/internal/service"
	"MindBalance/pkg/errors"
	"MindBalance/pkg/response"
)

// GetPersonalDashboard 个人仪表盘
// GET /api/dashboard/personal/:user_id
func GetPersonalDashboard(ctx context.Context, c *app.RequestContext) {
	viewer, ok := viewerOf(c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	resp, err := service.Dashboard().Personal(ctx, viewer, c.Param("user_id"))
	if err != nil {
		writeError(ctx, c, err)
		return
	}

	response.Success(ctx, c, resp)
}

// GetAdminDashboard 管理端匿名汇总
// GET /api/dashboard/admin?department=&period=
func GetAdminDashboard(ctx context.Context, c *app.RequestContext) {
	viewer, ok := viewerOf(c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	var query dto.AdminDashboardQuery
	if err := c.BindQuery(&query); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	resp, err := service.Dashboard().Admin(ctx, viewer, query)
	if err != nil {
		writeError(ctx, c, err)
		return
	}

	response.Success(ctx, c, resp)
}
