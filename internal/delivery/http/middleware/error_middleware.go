package middleware

import (
	"errors"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.Internal(err)
		}

		if appErr.Err != nil {
			logger.Log.Error("request failed",
				"status", appErr.Code,
				"path", c.Request.URL.Path,
				"request_id", c.GetString(requestIDKey),
				"error", appErr.Err,
			)
		}
		// Only the public message is rendered.
		response.Error(c, appErr.Code, appErr.Message, nil)
	}
}
