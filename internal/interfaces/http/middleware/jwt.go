package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	appidentity "github.com/silverledger/backend/internal/application/identity"
	"github.com/silverledger/backend/internal/domain/shared"
	"github.com/silverledger/backend/internal/infrastructure/logger"
	"github.com/silverledger/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Auth context keys
const (
	AuthUserIDKey   = "auth_user_id"
	AuthUsernameKey = "auth_username"
	AuthRoleKey     = "auth_role"
	AuthHeaderKey   = "Authorization"
	BearerPrefix    = "Bearer "
)

// Authenticator resolves a bearer token to the user it belongs to
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*appidentity.UserResponse, error)
}

// JWTAuth requires a valid bearer token whose user still exists. The user
// is re-read on every request, so deleting a user revokes their tokens.
func JWTAuth(authenticator Authenticator, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			authFailed(c, log, dto.ErrCodeUnauthorized, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			authFailed(c, log, dto.ErrCodeUnauthorized, "Invalid authorization header format")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
		if token == "" {
			authFailed(c, log, dto.ErrCodeUnauthorized, "Missing token")
			return
		}

		user, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				authFailed(c, log, domainErr.Code, domainErr.Message)
				return
			}
			log.Error("Failed to authenticate request", zap.Error(err))
			abortWithError(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
			return
		}

		c.Set(AuthUserIDKey, user.ID)
		c.Set(AuthUsernameKey, user.Username)
		c.Set(AuthRoleKey, user.Role)

		ctx := c.Request.Context()
		ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), user.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func authFailed(c *gin.Context, log *zap.Logger, code, message string) {
	log.Warn("Authentication failed",
		zap.String("code", code),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", GetRequestID(c)),
	)
	abortWithError(c, http.StatusUnauthorized, code, message)
}

// RequireRoles lets the request through only when the authenticated user
// has one of roles. It must run after JWTAuth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetAuthRole(c)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Your role is not allowed to perform this action")
	}
}

// GetAuthUserID returns the authenticated user's id
func GetAuthUserID(c *gin.Context) string {
	return c.GetString(AuthUserIDKey)
}

// GetAuthUsername returns the authenticated user's name
func GetAuthUsername(c *gin.Context) string {
	return c.GetString(AuthUsernameKey)
}

// GetAuthRole returns the authenticated user's role
func GetAuthRole(c *gin.Context) string {
	return c.GetString(AuthRoleKey)
}
