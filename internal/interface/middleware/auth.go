package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-user-registration/pkg/helpers"
	"github.com/oksasatya/go-user-registration/pkg/i18n"
	"github.com/oksasatya/go-user-registration/pkg/response"
)

const (
	UserEmailKey = "userEmail"
	UserIDKey    = "userID"
)

// TokenVerifier returns the subject of a valid token.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// MessageSource resolves message keys to user-facing text.
type MessageSource interface {
	Message(key string) string
}

// Auth validates the bearer token issued at registration. When rdb is set the
// session opened at registration must still exist. It sets userEmail (and userID
// when a session is present) in the Gin context.
func Auth(tokens TokenVerifier, rdb *redis.Client, msgs MessageSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Abort(c, http.StatusUnauthorized, msgs.Message(i18n.AuthMissingToken))
			return
		}
		email, err := tokens.Verify(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, msgs.Message(i18n.AuthInvalidToken))
			return
		}

		if rdb != nil {
			data, err := helpers.LoadSession(c.Request.Context(), rdb, email)
			if err != nil || len(data) == 0 {
				response.Abort(c, http.StatusUnauthorized, msgs.Message(i18n.AuthSessionNotFound))
				return
			}
			c.Set(UserIDKey, data["user_id"])
		}

		c.Set(UserEmailKey, email)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
