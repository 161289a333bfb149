package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-service/internal/domain/apperror"
	"github.com/oksasatya/go-user-service/pkg/response"
)

// Recovery converts a panic into a logged 500 with the generic error envelope.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"panic":      recovered,
		}).Error("panic recovered")
		response.AbortWithError(c, http.StatusInternalServerError, apperror.InternalMessage, nil)
	})
}
