package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-user-service/internal/interface/http"
)

// UserModule wires the user CRUD handlers into routes:
// POST/GET /users, GET /users/search, GET/PUT/DELETE /users/:id.
// All routes are registered under the given RouterGroup (usually /api).
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.POST("", m.Handler.Create)
		users.GET("", m.Handler.GetAll)
		users.GET("/search", m.Handler.Search)
		users.GET("/:id", m.Handler.GetByID)
		users.PUT("/:id", m.Handler.Update)
		users.DELETE("/:id", m.Handler.Delete)
	}
}
