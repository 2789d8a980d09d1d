package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/storehub/backend/internal/domain/identity"
)

func userWithPermissions(perms ...string) *identity.User {
	role := &identity.Role{Name: "manager"}
	for _, p := range perms {
		role.Permissions = append(role.Permissions, identity.Permission{Name: p})
	}
	user := testUser(1, nil)
	user.Roles = []*identity.Role{role}
	return user
}

func permissionRouter(user *identity.User) *gin.Engine {
	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(withPrincipal(user), RoutePermissionMiddleware(RoutePermissionConfig{
		BasePath: "/api/v1",
		Routes: []RoutePermission{
			{Method: http.MethodGet, Path: "/users", Permission: "view users"},
			{Method: http.MethodDelete, Path: "/users/:id", Permission: "delete users"},
		},
	}))
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	api.GET("/users", ok)
	api.DELETE("/users/:id", ok)
	api.GET("/profile", ok)
	return router
}

func TestRoutePermissionMiddleware(t *testing.T) {
	send := func(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		return w
	}

	t.Run("grants routes covered by a role permission", func(t *testing.T) {
		router := permissionRouter(userWithPermissions("view users"))
		assert.Equal(t, http.StatusOK, send(router, http.MethodGet, "/api/v1/users").Code)
	})

	t.Run("matches route patterns", func(t *testing.T) {
		router := permissionRouter(userWithPermissions("delete users"))
		assert.Equal(t, http.StatusOK, send(router, http.MethodDelete, "/api/v1/users/42").Code)
	})

	t.Run("denies without the permission", func(t *testing.T) {
		router := permissionRouter(userWithPermissions("view users"))
		w := send(router, http.MethodDelete, "/api/v1/users/42")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"success":false,"message":"You do not have the required permission to perform this action."}`, w.Body.String())
	})

	t.Run("unguarded routes only need a principal", func(t *testing.T) {
		router := permissionRouter(userWithPermissions())
		assert.Equal(t, http.StatusOK, send(router, http.MethodGet, "/api/v1/profile").Code)
	})

	t.Run("guarded route without principal", func(t *testing.T) {
		router := permissionRouter(nil)
		assert.Equal(t, http.StatusUnauthorized, send(router, http.MethodGet, "/api/v1/users").Code)
	})
}
