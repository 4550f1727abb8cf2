package auth

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
)

// ClaimsKey is the gin context key holding the caller's Claims.
const ClaimsKey = "claims"

// RoleAdmin is granted to tokens exchanged for the admin API key.
const RoleAdmin = "admin"

const bearerPrefix = "bearer "

// BearerAuth guards write routes with HS256 bearer tokens. When roles are
// given the token's role must be one of them.
func BearerAuth(signingKey, issuer string, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := Parse(strings.TrimSpace(header[len(bearerPrefix):]), signingKey, issuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, claims.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}
