package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Identity carries the caller identity forwarded by the API gateway.
// The gateway terminates authentication; this service only reads the
// headers it injects.
type Identity struct {
	UserID string
	Roles  []string
}

// HasRole reports whether the identity carries the given role
func (id *Identity) HasRole(role string) bool {
	for _, r := range id.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

const identityContextKey = "gateway_identity"

// GatewayIdentity reads the X-User-Id and X-User-Roles headers set by the
// gateway and stores the identity on the request context. Requests without
// the headers pass through anonymously; RequireIdentity enforces presence.
func GatewayIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-Id")
		if userID == "" {
			c.Next()
			return
		}

		identity := &Identity{UserID: userID}
		if roles := c.GetHeader("X-User-Roles"); roles != "" {
			for _, role := range strings.Split(roles, ",") {
				if role = strings.TrimSpace(role); role != "" {
					identity.Roles = append(identity.Roles, role)
				}
			}
		}

		c.Set(identityContextKey, identity)
		c.Next()
	}
}

// RequireIdentity rejects requests that reached this service without a
// gateway-forwarded identity
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := GetIdentity(c); !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Missing caller identity",
				"code":  "UNAUTHENTICATED",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetIdentity returns the gateway identity stored on the context, if any
func GetIdentity(c *gin.Context) (*Identity, bool) {
	value, exists := c.Get(identityContextKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*Identity)
	return identity, ok
}
