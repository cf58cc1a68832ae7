package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"alcyxob/coaching-app/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Context key for the authenticated user.
const ContextUserIDKey = "userID"

// jwtClaims defines the structure we expect in the JWT payload. Tokens
// are issued by the identity service; this core only verifies them.
type jwtClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}
		tokenString := parts[1]

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, fmt.Sprintf("Invalid token: %v", err))
			}
			return
		}

		if !token.Valid || claims.UserID == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// respondWithDomainError maps a service error to the right HTTP status.
func respondWithDomainError(c *gin.Context, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	switch derr.Kind {
	case domain.KindNotFound:
		abortWithError(c, http.StatusNotFound, derr.Message)
	case domain.KindNotAuthorized:
		abortWithError(c, http.StatusForbidden, derr.Message)
	case domain.KindAlreadyResolved, domain.KindInvalidStateTransition, domain.KindConflict:
		abortWithError(c, http.StatusConflict, derr.Message)
	case domain.KindValidation:
		abortWithError(c, http.StatusBadRequest, derr.Message)
	case domain.KindAITimeout:
		abortWithError(c, http.StatusGatewayTimeout, derr.Message)
	case domain.KindExternalServiceFailure:
		abortWithError(c, http.StatusBadGateway, derr.Message)
	default:
		abortWithError(c, http.StatusInternalServerError, derr.Message)
	}
}

// Helper function to get User ID from context (used by handlers)
func getUserIDFromContext(c *gin.Context) (string, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok {
		return "", errors.New("invalid user ID type in context")
	}
	return idStr, nil
}
