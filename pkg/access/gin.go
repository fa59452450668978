package access

import (
	"github.com/gin-gonic/gin"
)

const identityContextKey = "identity"

// SetIdentity кладёт идентичность запроса в контекст Gin.
// Вызывается middleware аутентификации после проверки токена.
func SetIdentity(c *gin.Context, identity *Identity) {
	c.Set(identityContextKey, identity)
}

// IdentityFromContext достаёт идентичность запроса из контекста Gin.
// Возвращает nil для анонимных запросов.
func IdentityFromContext(c *gin.Context) *Identity {
	value, exists := c.Get(identityContextKey)
	if !exists {
		return nil
	}

	identity, ok := value.(*Identity)
	if !ok {
		return nil
	}

	return identity
}
