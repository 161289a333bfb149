package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-service/internal/domain/apperror"
	"github.com/oksasatya/go-user-service/pkg/response"
)

// ErrorHandler turns the last error attached with c.Error into the JSON error
// envelope. Internal causes are logged and never sent to the client.
func ErrorHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		ae := apperror.From(last.Err)
		if ae.Kind == apperror.KindInternal {
			logger.WithError(ae.Err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
			}).Error("request failed")
		}
		response.Error(c, ae.HTTPStatus(), ae.Message, ae.Details)
	}
}
