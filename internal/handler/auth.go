package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"MindBalance/internal/model/dto"
	"MindBalance/internal/service"
	"MindBalance/pkg/errors"
	"MindBalance/pkg/response"
)

// Login 邮箱密码登录
// POST /api/auth/login
func Login(ctx context.Context, c *app.RequestContext) {
	var req dto.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		response.Error(ctx, c, errors.InvalidRequest.WithMessage("email and password are required"))
		return
	}

	resp, err := service.Auth().Login(ctx, req)
	if err != nil {
		writeError(ctx, c, err)
		return
	}

	response.Success(ctx, c, resp)
}
