package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/shared"
	"github.com/storehub/backend/internal/infrastructure/telemetry"
)

// RoutePermission maps one route to the permission it requires
type RoutePermission struct {
	Method     string // HTTP method
	Path       string // gin route pattern relative to the API base path
	Permission string // e.g. "view users"
}

// RoutePermissionConfig holds configuration for route-based permission checking
type RoutePermissionConfig struct {
	// Routes is the static permission table
	Routes []RoutePermission
	// BasePath is prefixed to every route path, e.g. "/api/v1"
	BasePath string
	Metrics  *telemetry.Metrics
	Logger   *zap.Logger
}

// RoutePermissionMiddleware enforces the permission table. Routes absent
// from the table only need authentication. Must run after Authenticate.
func RoutePermissionMiddleware(cfg RoutePermissionConfig) gin.HandlerFunc {
	table := make(map[string]string, len(cfg.Routes))
	for _, r := range cfg.Routes {
		table[routeKey(r.Method, cfg.BasePath+r.Path)] = r.Permission
	}

	return func(c *gin.Context) {
		permission, guarded := table[routeKey(c.Request.Method, c.FullPath())]
		if !guarded {
			c.Next()
			return
		}

		user, ok := identity.PrincipalFrom(c.Request.Context())
		if !ok {
			abort(c, http.StatusUnauthorized, "Unauthenticated.")
			return
		}
		if !user.HasPermission(permission) {
			cfg.Metrics.PermissionDenied(permission)
			requestLogger(c, cfg.Logger).Warn("Permission denied",
				zap.String("permission", permission),
				zap.Strings("roles", user.RoleNames()),
				zap.String("route", c.FullPath()),
				zap.String("method", c.Request.Method),
			)
			abort(c, http.StatusForbidden, shared.ErrForbidden.Message)
			return
		}
		c.Next()
	}
}

func routeKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}
