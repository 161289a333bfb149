package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse is the envelope for every /api response.
// Data is an interface so that an empty list still encodes as [].
type APIResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	Errors    any    `json:"errors,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func Success(ctx *gin.Context, status int, data any, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, APIResponse{
		Status:    StatusSuccess,
		Message:   message,
		Data:      data,
		RequestID: ctx.GetString("request_id"),
	})
}

func Error(ctx *gin.Context, status int, message string, errs any) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.JSON(status, APIResponse{
		Status:    StatusError,
		Message:   message,
		Errors:    errs,
		RequestID: ctx.GetString("request_id"),
	})
}

// AbortWithError writes an error envelope and stops the handler chain.
func AbortWithError(ctx *gin.Context, status int, message string, errs any) {
	Error(ctx, status, message, errs)
	ctx.Abort()
}
