package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/unicollab/study-api/pkg/errors"
)

// ErrorBody is the error response contract: a short user-facing error plus
// an optional underlying message. Detail exposure is acceptable for an
// internal tool; production deployments should redact Message.
type ErrorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// JSON sends a success payload as-is. Handlers return the flat shapes the
// clients expect rather than a wrapping envelope.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, payload)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusCreated, payload)
}

// Error converts any error into the common error body.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	body := ErrorBody{Error: appErr.Message, Code: appErr.Code}
	if appErr.Err != nil {
		body.Message = appErr.Err.Error()
	}
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, body)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
