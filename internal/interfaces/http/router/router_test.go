package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("items", "/items")
		ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
		g.GET("", ok).POST("", ok).PUT("/:id", ok).PATCH("/:id", ok).DELETE("/:id", ok)
		g.RegisterRoutes(engine.Group("/api/v1"))

		for _, tc := range []struct{ method, path string }{
			{http.MethodGet, "/api/v1/items"},
			{http.MethodPost, "/api/v1/items"},
			{http.MethodPut, "/api/v1/items/1"},
			{http.MethodPatch, "/api/v1/items/1"},
			{http.MethodDelete, "/api/v1/items/1"},
		} {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, http.StatusOK, w.Code, tc.method)
			assert.Equal(t, tc.method, w.Body.String())
		}
	})

	t.Run("applies middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test").Use(func(c *gin.Context) {
			c.Header("X-Group", "test")
			c.Next()
		})
		g.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil))
		assert.Equal(t, "test", w.Header().Get("X-Group"))
	})

	t.Run("lists routes including subgroups", func(t *testing.T) {
		g := NewDomainGroup("users", "/users")
		g.GET("/:id", func(*gin.Context) {})
		g.Group("stores", "/:id/stores").POST("", func(*gin.Context) {})

		assert.Equal(t, []Route{
			{Method: http.MethodGet, Path: "/users/:id"},
			{Method: http.MethodPost, Path: "/users/:id/stores"},
		}, g.Routes())
	})
}

// apiRoutes registers the API with nil handlers; only the route shapes matter
func apiRoutes(t *testing.T) map[string]bool {
	t.Helper()
	engine := gin.New()
	r := NewRouter(engine)
	RegisterAPI(r, Handlers{}, Middleware{})
	r.Setup()

	routes := map[string]bool{}
	for _, info := range engine.Routes() {
		routes[info.Method+" "+strings.TrimPrefix(info.Path, r.BasePath())] = true
	}
	return routes
}

func TestPermissionTable(t *testing.T) {
	routes := apiRoutes(t)

	t.Run("every entry names a registered route", func(t *testing.T) {
		for _, p := range PermissionTable {
			assert.True(t, routes[p.Method+" "+p.Path], "%s %s is not registered", p.Method, p.Path)
		}
	})

	t.Run("only auth and store switch are unguarded", func(t *testing.T) {
		guarded := map[string]bool{}
		for _, p := range PermissionTable {
			guarded[p.Method+" "+p.Path] = true
		}
		for route := range routes {
			if guarded[route] {
				continue
			}
			path := strings.SplitN(route, " ", 2)[1]
			assert.True(t, strings.HasPrefix(path, "/auth/") || path == "/stores/switch",
				"%s has no permission", route)
		}
	})

	t.Run("no duplicates", func(t *testing.T) {
		seen := map[string]bool{}
		for _, p := range PermissionTable {
			key := p.Method + " " + p.Path
			assert.False(t, seen[key], "duplicate entry %s", key)
			seen[key] = true
		}
	})
}
