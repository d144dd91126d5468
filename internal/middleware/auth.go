package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"parcel/internal/auth"
	"parcel/internal/domain"
	"parcel/internal/redis"
	"parcel/internal/repository"
)

// callerEmailKey is the gin context key holding the verified caller email.
const callerEmailKey = "callerEmail"

// CallerEmail returns the verified identity of the caller, or an empty
// string when the request was not authenticated.
func CallerEmail(c *gin.Context) string {
	return c.GetString(callerEmailKey)
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

// Authenticate verifies the bearer token on every request passing through
// it. A missing or malformed header is unauthenticated; a token that fails
// verification is forbidden.
func Authenticate(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
			return
		}

		email, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
			return
		}

		c.Set(callerEmailKey, email)
		c.Next()
	}
}

// AuthenticateOptional resolves the caller identity when a bearer token is
// present but lets anonymous requests through. Routes whose authorization
// depends on query parameters decide in the handler.
func AuthenticateOptional(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		email, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
			return
		}

		c.Set(callerEmailKey, email)
		c.Next()
	}
}

// RequireAdmin gates a route on the caller holding the admin role in the
// user directory. Roles are cached briefly; the directory stays the source
// of truth.
func RequireAdmin(userRepo repository.UserRepository, roleCache redis.RoleCacheInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := CallerEmail(c)
		if email == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
			return
		}

		ctx := c.Request.Context()

		role, err := roleCache.Get(ctx, email)
		if err != nil || role == "" {
			user, err := userRepo.GetByEmail(ctx, email)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
				return
			}
			role = string(user.Role)
			_ = roleCache.Set(ctx, email, role)
		}

		if role != string(domain.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
			return
		}

		c.Next()
	}
}
