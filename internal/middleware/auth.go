package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/inmohub/realty-api/internal/config"
	"github.com/inmohub/realty-api/internal/domain/identity"
)

const ContextCaller = "caller"

// CallerFrom returns the request's identity; the zero Caller means
// anonymous.
func CallerFrom(c *gin.Context) identity.Caller {
	if v, ok := c.Get(ContextCaller); ok {
		if caller, ok := v.(identity.Caller); ok {
			return caller
		}
	}
	return identity.Caller{}
}

func parseCaller(cfg *config.Config, tokenString string) (identity.Caller, bool) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return identity.Caller{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return identity.Caller{}, false
	}

	userID, ok := claims["sub"].(float64)
	if !ok {
		return identity.Caller{}, false
	}
	username, _ := claims["username"].(string)
	roleStr, _ := claims["role"].(string)

	role, err := identity.ParseRole(roleStr)
	if err != nil {
		return identity.Caller{}, false
	}

	return identity.Caller{
		ID:       uint(userID),
		Username: username,
		Role:     role,
	}, true
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		caller, ok := parseCaller(cfg, tokenString)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		c.Set(ContextCaller, caller)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the caller when a token is present but
// lets anonymous requests through. A malformed token is still rejected so
// a client never silently downgrades to anonymous visibility.
func OptionalAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		caller, ok := parseCaller(cfg, tokenString)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		c.Set(ContextCaller, caller)
		c.Next()
	}
}

// RequireRole gates a route to the given roles. Must run after
// AuthMiddleware.
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	allowed := make(map[identity.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		caller := CallerFrom(c)
		if _, ok := allowed[caller.Role]; !ok || caller.Anonymous() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
