// middleware/auth.go
package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/fadhlanhapp/ridefare-backend/utils"
)

const principalKey = "principal"

// TokenTTL is how long issued bearer tokens stay valid
const TokenTTL = 24 * time.Hour

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "ridefare-dev-secret"
	}
	return []byte(secret)
}

// GenerateToken issues a signed bearer token for a principal. Registration
// uses it to hand new users their identity; tests use it directly.
func GenerateToken(principal string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": principal,
		"jti": uuid.New().String(),
		"iat": now.Unix(),
		"exp": now.Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// RequireIdentity resolves the caller's principal from the Authorization
// header and stores it in the request context. The engine trusts nothing
// else about the caller: roles and account types are looked up server-side.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthenticated(c, "Authorization header is required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthenticated(c, "Invalid authorization format")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return jwtSecret(), nil
		})
		if err != nil || !token.Valid {
			abortUnauthenticated(c, "Invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthenticated(c, "Invalid token claims")
			return
		}
		principal, _ := claims["sub"].(string)
		if principal == "" {
			abortUnauthenticated(c, "Invalid token: missing sub claim")
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// Principal returns the authenticated caller identity set by RequireIdentity
func Principal(c *gin.Context) string {
	return c.GetString(principalKey)
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"kind": utils.KindUnauthorized, "message": message},
	})
}
