package httpapi

import (
	"github.com/gin-gonic/gin"

	"carmate-platform/internal/apperr"
	"carmate-platform/pkg/logger"
)

// successEnvelope and errorEnvelope are the only two response shapes this
// API produces. Codes inside the error envelope come from apperr.
type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Meta    any  `json:"meta,omitempty"`
}

type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// OK writes the success envelope.
func OK(c *gin.Context, status int, data any) {
	c.JSON(status, successEnvelope{Success: true, Data: data})
}

// Fail translates any error into the error envelope. This is the single
// place where error kinds become HTTP statuses; business logic never sees a
// status code. Internal details are exposed only outside release mode.
func Fail(c *gin.Context, err error) {
	e := apperr.From(err)

	if e.Code == apperr.CodeInternal {
		logger.From(c.Request.Context()).Error("request failed", "err", err)
		if gin.Mode() == gin.ReleaseMode {
			e.Details = nil
		}
	}

	c.AbortWithStatusJSON(e.Status, errorEnvelope{
		Success: false,
		Error:   errorBody{Code: e.Code, Message: e.Message, Details: e.Details},
	})
}

// NotFoundHandler is the fallback for unmatched routes.
func NotFoundHandler(c *gin.Context) {
	c.JSON(404, errorEnvelope{
		Success: false,
		Error: errorBody{
			Code:    apperr.CodeNotFound,
			Message: "route " + c.Request.Method + " " + c.Request.URL.Path + " not found",
		},
	})
}
