package router

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	handlers "github.com/oksasatya/go-user-service/internal/interface/http"
	"github.com/oksasatya/go-user-service/internal/interface/middleware"
)

type EngineOptions struct {
	Logger      *logrus.Logger
	CORSOrigins []string
	HTTPLog     bool
	// TrustedProxies may set forwarding headers. Empty trusts no one and the
	// client IP is always the TCP peer.
	TrustedProxies []string
}

// NewEngine builds the gin engine with the global middleware chain and the
// root health route. Feature routes are added through a Registry.
func NewEngine(opts EngineOptions) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.RemoteIPHeaders = middleware.RemoteIPHeaders
	if opts.HTTPLog {
		r.Use(gin.Logger())
	}
	r.Use(
		middleware.RequestIDMiddleware(),
		middleware.Recovery(opts.Logger),
		middleware.RealIP(),
		cors.New(corsConfig(opts.CORSOrigins)),
		middleware.ErrorHandler(opts.Logger),
	)
	r.GET("/", handlers.Health)
	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
