package rest

import (
	"net/http"

	"CapybaraPetService/internal/auth"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// TokenVerifier проверяет bearer токен
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// AuthRequired пропускает запрос только с действительным bearer токеном
func AuthRequired(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}

		identity, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFrom возвращает пользователя, прошедшего AuthRequired
func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	identity, ok := value.(auth.Identity)
	return identity, ok
}

const accessDeniedMessage = "Access denied"

// SameUser пропускает запрос, только если параметр пути param совпадает с пользователем из токена
func SameUser(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ownsUser(c, c.Param(param)) {
			return
		}
		c.Next()
	}
}

// ownsUser проверяет, что userID принадлежит пользователю из токена; иначе отвечает 403
func ownsUser(c *gin.Context, userID string) bool {
	identity, ok := IdentityFrom(c)
	if !ok || identity.UserID != userID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": accessDeniedMessage})
		return false
	}
	return true
}
