package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"RollCall/internal/handler"
	"RollCall/internal/middleware"
)

func Register(h *server.Hertz) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.RequestIDMiddleware())

	v1 := h.Group("/v1")

	v1.GET("/healthz", handler.Healthz)

	// 出勤路由，写接口单独限流
	attendance := v1.Group("/attendance")
	{
		attendance.GET("/status", handler.GetStatus)
		attendance.GET("/history", handler.GetHistory)
		attendance.POST("", middleware.RecordRateLimitMiddleware(), handler.RecordAttendance)
	}
}
