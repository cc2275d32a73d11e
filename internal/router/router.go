package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"MysticTarot/internal/handler"
	"MysticTarot/internal/middleware"
)

func Register(h *server.Hertz) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())

	h.GET("/health", handler.Health)

	v1 := h.Group("/v1")

	// 认证相关路由
	auth := v1.Group("/auth")
	auth.Use(middleware.AuthRateLimitMiddleware())
	{
		auth.POST("/device/exchange", handler.ExchangeDevice)
		auth.POST("/token/refresh", handler.RefreshToken)
	}

	// 每日卡牌路由
	dailyCard := v1.Group("/daily-card")
	dailyCard.Use(middleware.AuthMiddleware())
	{
		dailyCard.GET("", handler.GetDailyCard)
		dailyCard.POST("/draw", middleware.DrawRateLimitMiddleware(), handler.DrawDailyCard)
		dailyCard.POST("/seen", handler.MarkRevealSeen)
		dailyCard.GET("/history", handler.GetDailyCardHistory)

		// 强制重抽只在开发环境可用，handler 内部校验
		dailyCard.DELETE("", handler.ForceRefreshDailyCard)
	}

	// 神秘日与角色，不需要鉴权
	v1.GET("/mystic-day", handler.GetMysticDay)
	v1.GET("/characters", handler.ListCharacters)
}
