package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/milescape/server/internal/auth"
)

// TokenCookieName is the cookie the login endpoint sets and this gate reads.
const TokenCookieName = "token"

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt TokenVerifier
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

// RequireAuth lets a request through only when the token cookie verifies.
// Rejection aborts the chain, the handler never runs on a bad token.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(TokenCookieName)
		if err != nil || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "unauthorized access",
				},
			})
			return
		}

		claims, err := m.jwt.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "unauthorized access",
				},
			})
			return
		}

		// Stash the verified identity on the context. Ownership checks
		// against caller-supplied emails happen in the handlers.
		c.Set(ctxEmailKey, claims.Email)

		c.Next()
	}
}

// EmailFromContext exposes the verified identity so handlers don't need to
// know the magic key.
func EmailFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxEmailKey)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}
