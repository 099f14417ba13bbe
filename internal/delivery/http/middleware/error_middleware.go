package middleware

import (
	"errors"
	"net/http"

	"go-interview-scheduler/internal/delivery/http/response"
	"go-interview-scheduler/pkg/apperror"
	"go-interview-scheduler/pkg/logger"

	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Kind apperror.Kind `json:"kind"`
}

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Kind != apperror.KindInternal {
			if appErr.Err != nil {
				logger.Log.Debug("request failed", "kind", appErr.Kind, "path", c.FullPath(), "cause", appErr.Err)
			}
			response.Error(c, appErr.Code, appErr.Message, errorBody{Kind: appErr.Kind})
			return
		}

		// Internal details stay in the log.
		logger.Log.Error("internal server error",
			"error", err,
			"path", c.FullPath(),
			"request_id", requestIDOf(c),
		)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", errorBody{Kind: apperror.KindInternal})
	}
}
