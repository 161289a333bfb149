package router

import (
	"time"

	"github.com/redis/go-redis/v9"

	appuser "github.com/oksasatya/go-user-service/internal/application"
	handlers "github.com/oksasatya/go-user-service/internal/interface/http"
	"github.com/oksasatya/go-user-service/internal/interface/middleware"
	"github.com/oksasatya/go-user-service/internal/router/modules"
)

// Deps are the collaborators the HTTP modules need. Redis may be nil,
// which disables rate limiting.
type Deps struct {
	UseCases           *appuser.UseCases
	Redis              *redis.Client
	RateLimitPerMinute int
	// BypassPrivateIPs exempts loopback and private client IPs from the limit.
	BypassPrivateIPs bool
	DebugMetrics     bool
}

// InitModules registers all application modules with the router registry.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, d Deps) {
	var allow middleware.AllowFunc
	if d.BypassPrivateIPs {
		allow = middleware.AllowPrivateIP()
	}
	r.Use(middleware.RateLimit(d.Redis, d.RateLimitPerMinute, time.Minute, middleware.KeyByIP(), allow))

	r.Add(modules.NewUserModule(handlers.NewUserHandler(d.UseCases)))
	if d.DebugMetrics {
		r.Add(modules.NewDebugModule())
	}
}
