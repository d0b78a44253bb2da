package response

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"

	"MindBalance/pkg/errors"
)

// ErrorResponse 统一的错误响应格式，沿用前端约定的 success/message 字段
type ErrorResponse struct {
	Details map[string]interface{} `json:"details,omitempty"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Success bool                   `json:"success"`
}

func errorToHTTPStatus(err error) int {
	def, ok := errors.As(err)
	if !ok {
		return http.StatusInternalServerError
	}

	// 根据错误码映射 HTTP 状态码
	switch def.Code {
	case errors.TooManyRequests.Code:
		return http.StatusTooManyRequests // 429
	case errors.InvalidRequest.Code, errors.InvalidCheckIn.Code:
		return http.StatusBadRequest // 400
	case errors.WrongPassword.Code, errors.Unauthorized.Code:
		return http.StatusUnauthorized // 401
	case errors.Forbidden.Code:
		return http.StatusForbidden // 403
	case errors.UserNotFound.Code, errors.ResourceNotFound.Code:
		return http.StatusNotFound // 404
	default:
		return http.StatusInternalServerError // 500
	}
}

// StatusOf 返回错误对应的 HTTP 状态码
func StatusOf(err error) int {
	return errorToHTTPStatus(err)
}

// Error 返回错误响应
func Error(ctx context.Context, c *app.RequestContext, err error) {
	ErrorWithDetails(ctx, c, err, nil)
}

func ErrorWithDetails(ctx context.Context, c *app.RequestContext, err error, details map[string]interface{}) {
	statusCode := errorToHTTPStatus(err)

	var code, message string
	if def, ok := errors.As(err); ok {
		code = def.Code
		message = def.Message
	} else {
		code = errors.Internal.Code
		message = err.Error()
	}

	c.JSON(statusCode, ErrorResponse{
		Success: false,
		Code:    code,
		Message: message,
		Details: details,
	})
}

// Success 返回成功响应，data 自带 success 字段
func Success(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func BindError(ctx context.Context, c *app.RequestContext, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Success: false,
		Code:    errors.InvalidRequest.Code,
		Message: err.Error(),
	})
}
