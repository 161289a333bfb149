package middleware

import (
	"net/netip"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP bypasses the rate limit for loopback and private-range
// clients (10/8, 172.16/12, 192.168/16, fc00::/7). The address is the one
// resolved through trusted proxies only, so a forged X-Forwarded-For from an
// untrusted peer does not qualify.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		addr, err := netip.ParseAddr(ipFromCtx(c))
		if err != nil {
			return false
		}
		addr = addr.Unmap()
		return addr.IsLoopback() || addr.IsPrivate()
	}
}
