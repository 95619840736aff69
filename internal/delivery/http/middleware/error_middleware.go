package middleware

import (
	"errors"
	"net/http"

	"go-collab-backend/internal/delivery/http/response"
	"go-collab-backend/pkg/apperror"
	"go-collab-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler converts errors pushed onto the gin context into the
// standard envelope. Anything that is not an AppError is logged server-side
// and masked to avoid leaking internals.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		logger.Log.Error("unhandled request error",
			"path", c.Request.URL.Path, "error", err)
		response.Error(c, http.StatusInternalServerError,
			"An unexpected error occurred. Please try again later.", nil)
	}
}
