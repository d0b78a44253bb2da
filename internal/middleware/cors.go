package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"

	"MindBalance/config"
)

// CORSConfig 跨域配置；AllowOrigins 为空时回显请求的 Origin
type CORSConfig struct {
	AllowOrigins  []string
	AllowMethods  []string
	AllowHeaders  []string
	ExposeHeaders []string
	MaxAge        int
}

func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins:  config.Cfg.CORSAllowOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", RequestIDHeader},
		MaxAge:        86400,
	}
}

func CORSMiddleware() app.HandlerFunc {
	return CORSMiddlewareWithConfig(DefaultCORSConfig())
}

func CORSMiddlewareWithConfig(cfg CORSConfig) app.HandlerFunc {
	methods := strings.Join(cfg.AllowMethods, ", ")
	headers := strings.Join(cfg.AllowHeaders, ", ")
	expose := strings.Join(cfg.ExposeHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(ctx context.Context, c *app.RequestContext) {
		if origin, ok := cfg.allowOrigin(string(c.Request.Header.Get("Origin"))); ok {
			c.Header("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				c.Header("Vary", "Origin")
			}
		}
		c.Header("Access-Control-Allow-Methods", methods)
		c.Header("Access-Control-Allow-Headers", headers)
		c.Header("Access-Control-Expose-Headers", expose)
		c.Header("Access-Control-Max-Age", maxAge)

		// 预检请求
		if string(c.Method()) == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next(ctx)
	}
}

// allowOrigin 返回应写入 Access-Control-Allow-Origin 的值，不在白名单内时不写
func (cfg CORSConfig) allowOrigin(origin string) (string, bool) {
	if len(cfg.AllowOrigins) == 0 {
		if origin == "" {
			return "*", true
		}
		return origin, true
	}

	for _, allowed := range cfg.AllowOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			if origin == "" {
				return "*", true
			}
			return origin, true
		}
	}
	return "", false
}
