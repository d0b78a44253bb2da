package router

import (
	"github.com/cloudwego/hertz/pkg/route"

	"MindBalance/internal/handler"
	"MindBalance/internal/middleware"
)

// Register 注册全部路由，需在 middleware.Init 之后调用
func Register(r *route.Engine) {
	r.Use(middleware.RecoverMiddleware())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.OpenTelemetryMiddleware())

	api := r.Group("/api")
	api.GET("/health", handler.Health)

	// 认证
	auth := api.Group("/auth", middleware.AuthRateLimitMiddleware())
	{
		auth.POST("/login", handler.Login)
	}

	// 资源库无需登录
	resources := api.Group("/resources")
	{
		resources.GET("", handler.ListResources)
		resources.GET("/:id", handler.GetResource)
	}

	// 打卡
	checkIn := api.Group("/checkin", middleware.AuthMiddleware(), middleware.GeneralRateLimitMiddleware())
	{
		checkIn.POST("", handler.CreateCheckIn)
		checkIn.GET("/history/:user_id", handler.GetCheckInHistory)
	}

	// 仪表盘
	dashboard := api.Group("/dashboard", middleware.AuthMiddleware(), middleware.GeneralRateLimitMiddleware())
	{
		dashboard.GET("/personal/:user_id", handler.GetPersonalDashboard)
		dashboard.GET("/admin", middleware.RequireAdmin(), handler.GetAdminDashboard)
	}
}
