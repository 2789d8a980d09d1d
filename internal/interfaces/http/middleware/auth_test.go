package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/shared"
	"github.com/storehub/backend/internal/infrastructure/auth"
	"github.com/storehub/backend/internal/infrastructure/persistence/audit"
)

type fakeAuthenticator struct {
	users map[string]*identity.User
	err   error
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (*identity.User, *auth.Claims, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	user, ok := f.users[token]
	if !ok {
		return nil, nil, auth.ErrInvalidToken
	}
	return user, &auth.Claims{UserID: user.ID}, nil
}

func testUser(id uint, defaultStore *uint, stores ...uint) *identity.User {
	user := &identity.User{
		FirstName:      "Jane",
		LastName:       "Doe",
		Status:         identity.UserStatusActive,
		DefaultStoreID: defaultStore,
		StoreIDs:       stores,
	}
	user.ID = id
	return user
}

func authRouter(authn Authenticator) *gin.Engine {
	router := gin.New()
	router.Use(Authenticate(AuthConfig{Authenticator: authn}))
	router.GET("/me", func(c *gin.Context) {
		principal, ok := identity.PrincipalFrom(c.Request.Context())
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		actor, _ := audit.ActorFrom(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"id":       principal.ID,
			"actor":    actor,
			"same":     GetPrincipal(c) == principal,
			"claimsId": GetClaims(c).UserID,
		})
	})
	return router
}

func TestAuthenticate(t *testing.T) {
	authn := &fakeAuthenticator{users: map[string]*identity.User{"good": testUser(7, nil)}}
	router := authRouter(authn)

	send := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("sets principal and audit actor", func(t *testing.T) {
		w := send("Bearer good")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":7,"actor":7,"same":true,"claimsId":7}`, w.Body.String())
	})

	t.Run("rejects missing header", func(t *testing.T) {
		w := send("")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"success":false,"message":"Unauthenticated."}`, w.Body.String())
	})

	t.Run("rejects non bearer scheme", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, send("Basic abc").Code)
		assert.Equal(t, http.StatusUnauthorized, send("Bearer ").Code)
	})

	t.Run("rejects unknown token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, send("Bearer bad").Code)
	})
}

func TestAuthenticate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"expired", auth.ErrExpiredToken, http.StatusUnauthorized, "Unauthenticated."},
		{"revoked", auth.ErrTokenRevoked, http.StatusUnauthorized, "Unauthenticated."},
		{"inactive account", shared.Forbidden("Your account is not active."), http.StatusForbidden, "Your account is not active."},
		{"unexpected", assert.AnError, http.StatusInternalServerError, "Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := authRouter(&fakeAuthenticator{err: tt.err})
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("Authorization", "Bearer token")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
		})
	}
}

func TestFailureReason(t *testing.T) {
	assert.Equal(t, "expired", failureReason(auth.ErrExpiredToken))
	assert.Equal(t, "invalid", failureReason(auth.ErrMissingUserID))
	assert.Equal(t, "forbidden", failureReason(shared.ErrForbidden))
	assert.Equal(t, "error", failureReason(assert.AnError))
}
