package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hertz-contrib/jwt"

	"MindBalance/internal/model"
	"MindBalance/pkg/errors"
	"MindBalance/pkg/response"
	"MindBalance/pkg/token"
)

const (
	IdentityKey = token.IdentityKey
)

// Identity 已认证请求的身份
type Identity struct {
	UserID string
	Role   model.Role
}

// IsAdmin 是否为管理员
func (i Identity) IsAdmin() bool {
	return i.Role == model.RoleAdmin
}

var (
	authMiddleware *jwt.HertzJWTMiddleware
)

func initAuthMiddleware() error {
	// 使用 token 包中共享的生成器
	sharedGenerator := token.GetGenerator()
	if sharedGenerator == nil {
		return fmt.Errorf("token generator not initialized, call token.Init() first")
	}

	mw, err := jwt.New(&jwt.HertzJWTMiddleware{
		Realm:            "MindBalance API",
		SigningAlgorithm: "HS256",
		Key:              sharedGenerator.Key,
		Timeout:          sharedGenerator.Timeout,
		MaxRefresh:       sharedGenerator.MaxRefresh,
		IdentityKey:      sharedGenerator.IdentityKey,
		TimeFunc:         sharedGenerator.TimeFunc,

		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			claims, err := token.ClaimsFromMap(jwt.ExtractClaims(ctx, c))
			if err != nil {
				return nil
			}
			return Identity{UserID: claims.UserID, Role: model.Role(claims.Role)}
		},

		Authorizator: func(data interface{}, ctx context.Context, c *app.RequestContext) bool {
			_, ok := data.(Identity)
			return ok
		},

		Unauthorized: func(ctx context.Context, c *app.RequestContext, code int, message string) {
			c.JSON(http.StatusUnauthorized, response.ErrorResponse{
				Success: false,
				Code:    errors.Unauthorized.Code,
				Message: message,
			})
		},

		TokenLookup:   "header: Authorization, query: token, cookie: jwt",
		TokenHeadName: "Bearer",
	})
	if err != nil {
		return fmt.Errorf("failed to create auth middleware: %w", err)
	}

	authMiddleware = mw
	return nil
}

func AuthMiddleware() app.HandlerFunc {
	if authMiddleware == nil {
		panic("AuthMiddleware not initialized, call Init() first")
	}
	return authMiddleware.MiddlewareFunc()
}

// GetIdentity 从请求上下文中获取身份
func GetIdentity(c *app.RequestContext) (Identity, bool) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// GetUserID 从请求上下文中获取用户 ID
func GetUserID(ctx context.Context, c *app.RequestContext) (string, bool) {
	id, ok := GetIdentity(c)
	if !ok || id.UserID == "" {
		return "", false
	}
	return id.UserID, true
}

// RequireAdmin 仅允许管理员继续，需挂在 AuthMiddleware 之后
func RequireAdmin() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		id, ok := GetIdentity(c)
		if !ok {
			response.Error(ctx, c, errors.Unauthorized)
			c.Abort()
			return
		}
		if !id.IsAdmin() {
			response.Error(ctx, c, errors.Forbidden.WithMessage("Admin role required"))
			c.Abort()
			return
		}
		c.Next(ctx)
	}
}
