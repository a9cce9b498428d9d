package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Azi77ry/personal-App/auth"
	"github.com/Azi77ry/personal-App/models"
)

const (
	// ContextUserID is where the authenticated user id lands for handlers.
	ContextUserID = "user_id"
	// ContextToken carries the raw bearer token, needed by logout.
	ContextToken = "token"
	// ContextClaims carries the parsed session claims.
	ContextClaims = "claims"
)

// Auth verifies the bearer token on every request and rejects revoked
// tokens. The user identity handlers see comes from here, never from the
// request payload.
func Auth(tokens *auth.TokenService, revoked *auth.RevocationList) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c.Request)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Missing or invalid token"})
			c.Abort()
			return
		}

		claims, err := tokens.Parse(tokenString, models.TokenPurposeSession)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Invalid token"})
			c.Abort()
			return
		}

		if revoked.IsRevoked(c.Request.Context(), tokenString) {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Token has been revoked"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextToken, tokenString)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
