package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"MindBalance/internal/model/dto"
	"MindBalance/internal/service"
	"MindBalance/pkg/errors"
	"MindBalance/pkg/response"
)

// ListResources 资源库列表
// GET /api/resources?category=&difficulty=
func ListResources(ctx context.Context, c *app.RequestContext) {
	var query dto.ResourceQuery
	if err := c.BindQuery(&query); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	resp, err := service.Resource().List(ctx, query)
	if err != nil {
		writeError(ctx, c, err)
		return
	}

	response.Success(ctx, c, resp)
}

// GetResource 资源详情，id 非数字时同样返回 404
// GET /api/resources/:id
func GetResource(ctx context.Context, c *app.RequestContext) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(ctx, c, errors.ResourceNotFound)
		return
	}

	resource, err := service.Resource().Get(ctx, id)
	if err != nil {
		writeError(ctx, c, err)
		return
	}

	response.Success(ctx, c, dto.ResourceResponse{Resource: *resource, Success: true})
}
