package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Artotz/lead-middleware-sub001/internal/dto"
	"github.com/Artotz/lead-middleware-sub001/internal/identity"
)

const identityKey = "identity"

// RequireIdentity resolves the acting user from the session cookie and
// aborts with 401 when no identity is resolvable. It runs before any
// handler logic, so unauthenticated requests never reach validation or
// the store.
func RequireIdentity(resolver identity.Resolver, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := resolver.Resolve(c.Request)
		if err != nil {
			log.Warn("Identity resolution failed",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "unauthenticated",
				Message: "a valid session is required",
			})
			return
		}

		c.Set(identityKey, actor)
		c.Next()
	}
}

// CurrentIdentity retrieves the resolved actor from the request context.
func CurrentIdentity(c *gin.Context) (*identity.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	actor, ok := value.(*identity.Identity)
	return actor, ok
}
