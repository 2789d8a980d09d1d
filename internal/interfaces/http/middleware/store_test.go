package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/storehub/backend/internal/domain/identity"
)

func uintPtr(v uint) *uint { return &v }

// withPrincipal stands in for Authenticate in tests
func withPrincipal(user *identity.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			c.Request = c.Request.WithContext(identity.WithPrincipal(c.Request.Context(), user))
		}
		c.Next()
	}
}

func storeRouter(user *identity.User) *gin.Engine {
	router := gin.New()
	router.Use(withPrincipal(user), StoreContext(StoreContextConfig{}))
	router.GET("/store", func(c *gin.Context) {
		id, ok := GetActiveStoreID(c)
		c.JSON(http.StatusOK, gin.H{"store_id": id, "active": ok})
	})
	return router
}

func getStore(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/store", nil)
	if header != "" {
		req.Header.Set(StoreIDHeader, header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestStoreContext(t *testing.T) {
	t.Run("header selects an accessible store", func(t *testing.T) {
		w := getStore(storeRouter(testUser(1, uintPtr(1), 2, 3)), "3")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"store_id":3,"active":true}`, w.Body.String())
	})

	t.Run("primary store grants access", func(t *testing.T) {
		user := testUser(1, nil)
		user.StoreID = uintPtr(9)
		w := getStore(storeRouter(user), "9")
		assert.JSONEq(t, `{"store_id":9,"active":true}`, w.Body.String())
	})

	t.Run("falls back to the default store", func(t *testing.T) {
		w := getStore(storeRouter(testUser(1, uintPtr(4))), "")
		assert.JSONEq(t, `{"store_id":4,"active":true}`, w.Body.String())
	})

	t.Run("no header and no default leaves no active store", func(t *testing.T) {
		w := getStore(storeRouter(testUser(1, nil, 2)), "")
		assert.JSONEq(t, `{"store_id":0,"active":false}`, w.Body.String())
	})

	t.Run("inaccessible store is forbidden", func(t *testing.T) {
		w := getStore(storeRouter(testUser(1, uintPtr(1), 2)), "5")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"success":false,"message":"You do not have access to this store."}`, w.Body.String())
	})

	t.Run("malformed header is a validation error", func(t *testing.T) {
		for _, header := range []string{"abc", "0", "-1"} {
			w := getStore(storeRouter(testUser(1, uintPtr(1))), header)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, header)
			assert.Contains(t, w.Body.String(), StoreIDHeader)
		}
	})

	t.Run("anonymous requests pass through", func(t *testing.T) {
		w := getStore(storeRouter(nil), "5")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"store_id":0,"active":false}`, w.Body.String())
	})
}
