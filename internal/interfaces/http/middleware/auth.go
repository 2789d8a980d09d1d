package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/shared"
	"github.com/storehub/backend/internal/infrastructure/auth"
	"github.com/storehub/backend/internal/infrastructure/logger"
	"github.com/storehub/backend/internal/infrastructure/persistence/audit"
	"github.com/storehub/backend/internal/infrastructure/telemetry"
	"github.com/storehub/backend/internal/interfaces/http/dto"
)

// Gin context keys set by Authenticate
const (
	ClaimsKey    = "auth_claims"
	PrincipalKey = "auth_principal"
)

const bearerPrefix = "Bearer "

// Authenticator resolves a bearer token to its user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*identity.User, *auth.Claims, error)
}

// AuthConfig holds configuration for the authentication middleware
type AuthConfig struct {
	Authenticator Authenticator
	Metrics       *telemetry.Metrics
	Logger        *zap.Logger
}

// Authenticate requires a valid bearer token. The user becomes the request
// principal and the audit actor; the claims are kept for logout.
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		if header == "" || !strings.HasPrefix(header, bearerPrefix) || token == "" {
			cfg.Metrics.AuthFailure("missing")
			abort(c, http.StatusUnauthorized, "Unauthenticated.")
			return
		}

		ctx := c.Request.Context()
		user, claims, err := cfg.Authenticator.Authenticate(ctx, token)
		if err != nil {
			reason := failureReason(err)
			cfg.Metrics.AuthFailure(reason)
			log.Warn("Authentication failed",
				zap.String("reason", reason),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))

			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) && domainErr.Code != shared.CodeUnauthorized {
				abort(c, dto.GetHTTPStatus(dto.NormalizeErrorCode(domainErr.Code)), domainErr.Message)
				return
			}
			if reason == "error" {
				abort(c, http.StatusInternalServerError, "Server Error")
				return
			}
			abort(c, http.StatusUnauthorized, "Unauthenticated.")
			return
		}

		ctx = identity.WithPrincipal(ctx, user)
		ctx = audit.WithActor(ctx, user.ID)
		c.Request = c.Request.WithContext(ctx)
		c.Set(ClaimsKey, claims)
		c.Set(PrincipalKey, user)

		c.Next()
	}
}

func failureReason(err error) string {
	var domainErr *shared.DomainError
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		return "revoked"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingUserID):
		return "invalid"
	case errors.As(err, &domainErr):
		return strings.ToLower(domainErr.Code)
	}
	return "error"
}

// GetClaims returns the token claims of the authenticated request
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetPrincipal returns the authenticated user
func GetPrincipal(c *gin.Context) *identity.User {
	if v, ok := c.Get(PrincipalKey); ok {
		if user, ok := v.(*identity.User); ok {
			return user
		}
	}
	return nil
}

// requestLogger returns the request logger enriched with correlation fields
func requestLogger(c *gin.Context, fallback *zap.Logger) *zap.Logger {
	if fallback != nil {
		return logger.For(c.Request.Context(), fallback)
	}
	return logger.L(c.Request.Context())
}
