package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"RollCall/internal/model/dto"
	"RollCall/internal/service"
	"RollCall/pkg/response"
)

// GetStatus 查询某个聚会日的签到状态
// GET /v1/attendance/status?date=YYYY/MM/DD
func GetStatus(ctx context.Context, c *app.RequestContext) {
	dateKey := c.Query("date")

	view, err := service.Attendance().GetStatus(ctx, dateKey)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, view)
}

// GetHistory 查询某昵称某月的出勤历史
// GET /v1/attendance/history?nickname=N&month=YYYY-MM
func GetHistory(ctx context.Context, c *app.RequestContext) {
	nickname := c.Query("nickname")
	month := c.Query("month")

	view, err := service.Attendance().GetHistory(ctx, nickname, month)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, view)
}

// RecordAttendance 签到
// POST /v1/attendance
func RecordAttendance(ctx context.Context, c *app.RequestContext) {
	var req dto.RecordAttendanceRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Attendance().Record(ctx, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// Healthz 存活探针
// GET /v1/healthz
func Healthz(ctx context.Context, c *app.RequestContext) {
	response.Success(ctx, c, map[string]string{"status": "ok"})
}
