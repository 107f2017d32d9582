package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-user-registration/internal/interface/http"
	"github.com/oksasatya/go-user-registration/internal/interface/middleware"
)

// UserModule wires user handlers into routes.
// Public: POST /users/register
// Protected (Bearer): GET /users/me
type UserModule struct {
	Handler  *handlers.UserHandler
	Tokens   middleware.TokenVerifier
	Redis    *redis.Client
	Messages middleware.MessageSource
}

func NewUserModule(h *handlers.UserHandler, tokens middleware.TokenVerifier, rdb *redis.Client, msgs middleware.MessageSource) *UserModule {
	return &UserModule{Handler: h, Tokens: tokens, Redis: rdb, Messages: msgs}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.POST("/register", m.Handler.Register)

	auth := users.Group("/")
	auth.Use(middleware.Auth(m.Tokens, m.Redis, m.Messages))
	{
		auth.GET("/me", m.Handler.Me)
	}
}
