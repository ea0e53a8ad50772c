// Package handlers implements the exposed HTTP surface of the tracking
// engine.
package handlers

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	"github.com/fieldlink/locate-sla/pkg/errors"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// respondError maps an error to its HTTP status via the error-code table.
// Unclassified and internal failures are masked so stack details never leak.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	resp := ErrorResponse{Code: string(code)}
	var ae *errors.AppError
	if stderrors.As(err, &ae) {
		resp.Message = ae.Message
		resp.Detail = ae.Detail
	} else {
		resp.Message = err.Error()
	}
	if code == errors.CodeInternal || code == errors.CodeUnknown {
		resp.Message = "internal server error"
		resp.Detail = ""
	}

	c.AbortWithStatusJSON(status, resp)
}

// bindJSON decodes the request body, converting decode failures into
// invalid-parameter errors.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, errors.InvalidParam("invalid request body").WithCause(err))
		return false
	}
	return true
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}
