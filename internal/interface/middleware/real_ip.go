package middleware

import (
	"github.com/gin-gonic/gin"
)

// RemoteIPHeaders are consulted, in order, only when the direct peer is a
// trusted proxy (see gin.Engine.SetTrustedProxies).
var RemoteIPHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// RealIP stores the resolved client IP in the Gin context (key: "real_ip").
// Forwarded headers from untrusted peers are ignored, so the value cannot be
// chosen by the client.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("real_ip", c.ClientIP())
		c.Next()
	}
}
