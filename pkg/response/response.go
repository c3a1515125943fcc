package response

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"

	"RollCall/pkg/errors"
)

// ErrorResponse 统一的错误响应格式
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Details map[string]interface{} `json:"details,omitempty"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
}

// SuccessResponse 统一的成功响应格式
type SuccessResponse struct {
	Data interface{}            `json:"data"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}

func errorToHTTPStatus(code string) int {
	switch code {
	case "MISSING_FIELD", "INVALID_DATE_FORMAT", "INVALID_MONTH_FORMAT",
		"INVALID_TEAM_CODE", "INVALID_MEETING_TYPE", "INVALID_REQUEST":
		return http.StatusBadRequest // 400
	case "RATE_LIMITED":
		return http.StatusTooManyRequests // 429
	case "STORE_UNAVAILABLE":
		return http.StatusServiceUnavailable // 503
	default:
		return http.StatusInternalServerError // 500
	}
}

func unpack(err error) (code, message string, details map[string]interface{}) {
	switch e := err.(type) {
	case errors.DetailedDefinition:
		return e.Code, e.Message, e.Details
	case errors.Definition:
		return e.Code, e.Message, nil
	default:
		return "INTERNAL_ERROR", err.Error(), nil
	}
}

// Error 返回错误响应
func Error(ctx context.Context, c *app.RequestContext, err error) {
	code, message, details := unpack(err)

	c.JSON(errorToHTTPStatus(code), ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func ErrorWithDetails(ctx context.Context, c *app.RequestContext, err error, details map[string]interface{}) {
	code, message, _ := unpack(err)

	c.JSON(errorToHTTPStatus(code), ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func Success(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
	})
}

func SuccessWithMeta(ctx context.Context, c *app.RequestContext, data interface{}, meta map[string]interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

func BindError(ctx context.Context, c *app.RequestContext, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		},
	})
}
