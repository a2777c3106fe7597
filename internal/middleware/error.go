package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ErrorBody is the payload of every JSON error response
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// WriteError aborts the request with a JSON error response
func WriteError(c *gin.Context, status int, code string, message string, details any) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{
		Code:    code,
		Message: message,
		Details: details,
	}})
}

// ErrorHandler recovers panics into a JSON 500 so one bad submission never
// takes the process down.
func ErrorHandler(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error().
					Interface("panic", err).
					Str("request_id", c.GetString(RequestIDHeader)).
					Str("path", c.Request.URL.Path).
					Msg("recovered from panic")
				WriteError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal Server Error", nil)
			}
		}()

		c.Next()
	}
}
