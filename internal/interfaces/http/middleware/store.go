package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/shared"
	"github.com/storehub/backend/internal/domain/tenancy"
	"github.com/storehub/backend/internal/infrastructure/telemetry"
	"github.com/storehub/backend/internal/interfaces/http/dto"
)

// ActiveStoreKey is the gin context key of the resolved store id
const ActiveStoreKey = "active_store_id"

// StoreContextConfig holds configuration for the store context middleware
type StoreContextConfig struct {
	Metrics *telemetry.Metrics
	Logger  *zap.Logger
}

// StoreContext resolves the active store of the request.
//
// An X-Store-ID header selects the store after an access check; otherwise
// the principal's default store is used. Without a principal no store is
// active. Must run after Authenticate.
func StoreContext(cfg StoreContextConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := identity.PrincipalFrom(c.Request.Context())
		if !ok {
			c.Next()
			return
		}

		var storeID uint
		if raw := strings.TrimSpace(c.GetHeader(StoreIDHeader)); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				c.AbortWithStatusJSON(http.StatusUnprocessableEntity, dto.NewValidationErrorResponse(
					"Validation failed",
					map[string][]string{StoreIDHeader: {"The X-Store-ID header must be a valid store id."}},
				))
				return
			}
			if !user.HasAccessToStore(uint(id)) {
				cfg.Metrics.StoreAccessDenied()
				requestLogger(c, cfg.Logger).Warn("Store access denied",
					zap.Uint64("requested_store_id", id))
				abort(c, http.StatusForbidden, shared.ErrStoreAccessDenied.Message)
				return
			}
			storeID = uint(id)
		} else if user.DefaultStoreID != nil {
			storeID = *user.DefaultStoreID
		}

		if storeID != 0 {
			c.Request = c.Request.WithContext(tenancy.WithActiveStore(c.Request.Context(), storeID))
			c.Set(ActiveStoreKey, storeID)
			trace.SpanFromContext(c.Request.Context()).SetAttributes(attribute.Int64("store.id", int64(storeID)))
		}
		c.Next()
	}
}

// GetActiveStoreID returns the active store of the request, if any
func GetActiveStoreID(c *gin.Context) (uint, bool) {
	return tenancy.ActiveStore(c.Request.Context())
}
