package router

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appcontact "github.com/storehub/backend/internal/application/contact"
	appidentity "github.com/storehub/backend/internal/application/identity"
	appsetting "github.com/storehub/backend/internal/application/setting"
	apptenancy "github.com/storehub/backend/internal/application/tenancy"
	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/tenancy"
	"github.com/storehub/backend/internal/infrastructure/auth"
	"github.com/storehub/backend/internal/infrastructure/cache"
	"github.com/storehub/backend/internal/infrastructure/config"
	"github.com/storehub/backend/internal/infrastructure/persistence"
	"github.com/storehub/backend/internal/infrastructure/persistence/models"
	"github.com/storehub/backend/internal/interfaces/http/handler"
	"github.com/storehub/backend/internal/interfaces/http/middleware"
)

// apiEnv is the whole HTTP stack over an in-memory database
type apiEnv struct {
	t       *testing.T
	db      *gorm.DB
	engine  *gin.Engine
	jwt     *auth.JWTService
	users   *persistence.GormUserRepository
	objects *fakeObjects
	stores  map[string]*tenancy.Store
	tokens  map[string]string
	userIDs map[string]uint
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	middleware.SetupValidator()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, persistence.RegisterCallbacks(db))
	require.NoError(t, db.AutoMigrate(models.All()...))

	log := zap.NewNop()
	userRepo := persistence.NewGormUserRepository(db)
	storeRepo := persistence.NewGormStoreRepository(db)
	roleRepo := persistence.NewGormRoleRepository(db)
	permRepo := persistence.NewGormPermissionRepository(db)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-32-characters-long",
		AccessTokenExpiration: time.Hour,
		Issuer:                "storehub-test",
	})
	blacklist := auth.NewMemoryTokenBlacklist()
	principals := cache.NewPrincipalCache(time.Minute)

	authService := appidentity.NewAuthService(userRepo, storeRepo, jwtService, blacklist, principals, log)
	objects := &fakeObjects{uploaded: map[string]bool{}}
	handlers := Handlers{
		Auth: handler.NewAuthHandler(authService),
		User: handler.NewUserHandler(
			appidentity.NewUserService(userRepo, storeRepo, blacklist, jwtService, principals, log),
			apptenancy.NewMembershipService(userRepo, storeRepo, principals, log),
		),
		Role:    handler.NewRoleHandler(appidentity.NewRoleService(roleRepo, permRepo, principals, log)),
		Store:   handler.NewStoreHandler(apptenancy.NewStoreService(storeRepo, userRepo, principals, log)),
		Contact: handler.NewContactHandler(appcontact.NewService(persistence.NewGormContactRepository(db), log)),
		Setting: handler.NewSettingHandler(appsetting.NewService(persistence.NewGormSettingRepository(db), log)),
		Avatar:  handler.NewAvatarHandler(appidentity.NewAvatarService(userRepo, storeRepo, objects, principals, log)),
	}

	engine := gin.New()
	r := NewRouter(engine)
	RegisterAPI(r, handlers, Middleware{
		Protected: ProtectedChain(
			middleware.AuthConfig{Authenticator: authService},
			middleware.StoreContextConfig{},
			middleware.RoutePermissionConfig{Routes: PermissionTable, BasePath: r.BasePath()},
		),
	})
	r.Setup()

	env := &apiEnv{
		t:       t,
		db:      db,
		engine:  engine,
		jwt:     jwtService,
		users:   userRepo,
		objects: objects,
		stores:  map[string]*tenancy.Store{},
		tokens:  map[string]string{},
		userIDs: map[string]uint{},
	}
	env.seed(roleRepo, permRepo, storeRepo)
	return env
}

func (e *apiEnv) seed(roleRepo *persistence.GormRoleRepository, permRepo *persistence.GormPermissionRepository, storeRepo *persistence.GormStoreRepository) {
	ctx := context.Background()
	names := map[string]bool{}
	for _, p := range PermissionTable {
		if !names[p.Permission] {
			names[p.Permission] = true
			require.NoError(e.t, e.db.Create(&models.PermissionModel{Name: p.Permission}).Error)
		}
	}
	all, err := permRepo.FindAll(ctx)
	require.NoError(e.t, err)

	admin, _ := identity.NewRole(identity.RoleAdmin)
	admin.SetPermissions(all)
	require.NoError(e.t, roleRepo.Create(ctx, admin))

	clerkPerms, err := permRepo.FindByNames(ctx, []string{PermViewContacts, PermCreateContacts, PermViewSettings, PermEditSettings})
	require.NoError(e.t, err)
	clerk, _ := identity.NewRole("clerk")
	clerk.SetPermissions(clerkPerms)
	require.NoError(e.t, roleRepo.Create(ctx, clerk))

	for _, name := range []string{"North", "South", "East"} {
		store, err := tenancy.NewStore(name)
		require.NoError(e.t, err)
		require.NoError(e.t, storeRepo.Create(ctx, store))
		e.stores[name] = store
	}

	e.addUser("admin", admin, e.stores["North"].ID, e.stores["North"].ID, e.stores["South"].ID)
	e.addUser("clerk", clerk, e.stores["North"].ID, e.stores["North"].ID)
}

// addUser inserts a user without paying for bcrypt and signs a token for it
func (e *apiEnv) addUser(name string, role *identity.Role, defaultStore uint, stores ...uint) {
	ctx := context.Background()
	user := &identity.User{
		FirstName:      name,
		LastName:       "Test",
		Email:          name + "@example.com",
		PasswordHash:   "$2a$04$hash",
		Status:         identity.UserStatusActive,
		DefaultStoreID: &defaultStore,
		StoreIDs:       stores,
	}
	require.NoError(e.t, e.users.Create(ctx, user))
	require.NoError(e.t, e.users.SyncRoles(ctx, user.ID, []uint{role.ID}))

	token, err := e.jwt.Generate(user.ID)
	require.NoError(e.t, err)
	e.tokens[name] = token.AccessToken
	e.userIDs[name] = user.ID
}

// fakeObjects stands in for S3; a key exists once the test marks it uploaded
type fakeObjects struct {
	uploaded map[string]bool
}

func (f *fakeObjects) PresignUpload(_ context.Context, key, _ string) (string, time.Time, error) {
	return "https://objects.test/" + key, time.Now().Add(time.Minute), nil
}

func (f *fakeObjects) PresignDownload(_ context.Context, key string) (string, time.Time, error) {
	return "https://objects.test/" + key + "?download", time.Now().Add(time.Minute), nil
}

func (f *fakeObjects) Exists(_ context.Context, key string) (bool, error) {
	return f.uploaded[key], nil
}

func (f *fakeObjects) Delete(_ context.Context, key string) error {
	delete(f.uploaded, key)
	return nil
}

type apiResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

func (e *apiEnv) do(as, method, path, body string, headers ...string) (int, apiResponse) {
	e.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token, ok := e.tokens[as]; ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

type contactBody struct {
	Contact appcontact.ContactDTO `json:"contact"`
}

type contactList struct {
	Contacts   []appcontact.ContactDTO `json:"contacts"`
	Pagination struct {
		Total int64 `json:"total"`
	} `json:"pagination"`
}

func (e *apiEnv) createContact(as, name string, storeID uint) appcontact.ContactDTO {
	e.t.Helper()
	status, resp := e.do(as, http.MethodPost, "/contacts",
		fmt.Sprintf(`{"contact_name":%q,"type":"client","client_type":"company","store_id":%d}`, name, storeID))
	require.Equal(e.t, http.StatusCreated, status, resp.Message)
	return decode[contactBody](e.t, resp.Data).Contact
}

func TestAPI_Authentication(t *testing.T) {
	env := newAPIEnv(t)

	status, resp := env.do("nobody", http.MethodGet, "/contacts", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthenticated.", resp.Message)

	status, resp = env.do("clerk", http.MethodGet, "/auth/profile", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Profile retrieved successfully", resp.Message)

	status, _ = env.do("clerk", http.MethodPost, "/auth/logout", "")
	require.Equal(t, http.StatusOK, status)

	status, _ = env.do("clerk", http.MethodGet, "/auth/profile", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAPI_RegisterAndLogin(t *testing.T) {
	env := newAPIEnv(t)

	status, resp := env.do("", http.MethodPost, "/auth/register",
		`{"first_name":"Ann","last_name":"Lee","email":"ann@example.com","password":"secret123","password_confirmation":"secret124"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, resp.Errors, "password_confirmation")

	status, resp = env.do("", http.MethodPost, "/auth/register",
		`{"first_name":"Ann","last_name":"Lee","email":"ann@example.com","password":"secret123","password_confirmation":"secret123"}`)
	require.Equal(t, http.StatusCreated, status, resp.Message)
	assert.Equal(t, "User registered successfully", resp.Message)

	status, resp = env.do("", http.MethodPost, "/auth/register",
		`{"first_name":"Ann","last_name":"Lee","email":"ann@example.com","password":"secret123","password_confirmation":"secret123"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, []string{"The email has already been taken."}, resp.Errors["email"])

	status, resp = env.do("", http.MethodPost, "/auth/login", `{"email":"ann@example.com","password":"wrong-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", resp.Message)

	status, resp = env.do("", http.MethodPost, "/auth/login", `{"email":"ann@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, status)
	result := decode[appidentity.AuthResult](t, resp.Data)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "ann@example.com", result.User.Email)
}

func TestAPI_StoreContext(t *testing.T) {
	env := newAPIEnv(t)
	south := env.stores["South"].ID

	status, resp := env.do("clerk", http.MethodGet, "/contacts", "", "X-Store-ID", fmt.Sprint(south))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "You do not have access to this store.", resp.Message)

	status, resp = env.do("clerk", http.MethodGet, "/contacts", "", "X-Store-ID", "abc")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, resp.Errors, "X-Store-ID")

	status, _ = env.do("admin", http.MethodGet, "/contacts", "", "X-Store-ID", fmt.Sprint(south))
	assert.Equal(t, http.StatusOK, status)
}

func TestAPI_Permissions(t *testing.T) {
	env := newAPIEnv(t)
	c := env.createContact("admin", "Acme", env.stores["North"].ID)

	status, resp := env.do("clerk", http.MethodDelete, fmt.Sprintf("/contacts/%d", c.ID), "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "You do not have the required permission to perform this action.", resp.Message)

	status, _ = env.do("clerk", http.MethodGet, "/users", "")
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.do("admin", http.MethodDelete, fmt.Sprintf("/contacts/%d", c.ID), "")
	assert.Equal(t, http.StatusOK, status)
}

func TestAPI_ContactIsolation(t *testing.T) {
	env := newAPIEnv(t)
	north, south := env.stores["North"].ID, env.stores["South"].ID

	env.createContact("admin", "North Co", north)
	southContact := env.createContact("admin", "South Co", south)

	t.Run("admin sees the active store only", func(t *testing.T) {
		status, resp := env.do("admin", http.MethodGet, "/contacts", "")
		require.Equal(t, http.StatusOK, status)
		list := decode[contactList](t, resp.Data)
		require.Len(t, list.Contacts, 1)
		assert.Equal(t, "North Co", list.Contacts[0].ContactName)
	})

	t.Run("explicit store filter", func(t *testing.T) {
		status, resp := env.do("admin", http.MethodGet, fmt.Sprintf("/contacts?store_id=%d", south), "")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, int64(1), decode[contactList](t, resp.Data).Pagination.Total)

		status, _ = env.do("clerk", http.MethodGet, fmt.Sprintf("/contacts?store_id=%d", south), "")
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("contact of another store is not found", func(t *testing.T) {
		status, resp := env.do("clerk", http.MethodGet, fmt.Sprintf("/contacts/%d", southContact.ID), "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Contact not found.", resp.Message)
	})

	t.Run("create fills the active store and the creator", func(t *testing.T) {
		status, resp := env.do("clerk", http.MethodPost, "/contacts", `{"contact_name":"Walk-in","type":"client"}`)
		require.Equal(t, http.StatusCreated, status, resp.Message)
		created := decode[contactBody](t, resp.Data).Contact
		require.NotNil(t, created.StoreID)
		assert.Equal(t, north, *created.StoreID)
		require.NotNil(t, created.CreatedBy)
		assert.Equal(t, env.userIDs["clerk"], *created.CreatedBy)
	})

	t.Run("soft delete and restore", func(t *testing.T) {
		path := fmt.Sprintf("/contacts/%d", southContact.ID)
		status, _ := env.do("admin", http.MethodDelete, path, "", "X-Store-ID", fmt.Sprint(south))
		require.Equal(t, http.StatusOK, status)

		status, _ = env.do("admin", http.MethodGet, path, "", "X-Store-ID", fmt.Sprint(south))
		assert.Equal(t, http.StatusNotFound, status)

		status, resp := env.do("admin", http.MethodPost, path+"/restore", "", "X-Store-ID", fmt.Sprint(south))
		require.Equal(t, http.StatusOK, status, resp.Message)
		restored := decode[contactBody](t, resp.Data).Contact
		assert.Nil(t, restored.DeletedAt)
	})
}

func TestAPI_SettingsIntegerPrecision(t *testing.T) {
	env := newAPIEnv(t)

	status, resp := env.do("clerk", http.MethodPut, "/settings/big", `{"value":9007199254740993,"type":"integer"}`)
	require.Equal(t, http.StatusOK, status, resp.Message)

	status, resp = env.do("clerk", http.MethodGet, "/settings/big", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"setting":{"key":"big","value":9007199254740993,"type":"integer"}}`, string(resp.Data))

	for _, body := range []string{
		`{"value":1e20,"type":"integer"}`,
		`{"value":9223372036854775808,"type":"integer"}`,
		`{"value":2.5,"type":"integer"}`,
	} {
		status, resp = env.do("clerk", http.MethodPut, "/settings/big", body)
		assert.Equal(t, http.StatusUnprocessableEntity, status, body)
		assert.Contains(t, resp.Errors, "value", body)
	}

	status, resp = env.do("clerk", http.MethodGet, "/settings/big", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"setting":{"key":"big","value":9007199254740993,"type":"integer"}}`, string(resp.Data))
}

func TestAPI_Settings(t *testing.T) {
	env := newAPIEnv(t)

	status, resp := env.do("clerk", http.MethodPut, "/settings/max_items", `{"value":25,"type":"integer"}`)
	require.Equal(t, http.StatusOK, status, resp.Message)
	assert.Equal(t, "Setting saved successfully", resp.Message)

	status, resp = env.do("clerk", http.MethodPut, "/settings/max_items", `{"value":"many"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, resp.Errors, "value")

	status, resp = env.do("clerk", http.MethodGet, "/settings/max_items", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"setting":{"key":"max_items","value":25,"type":"integer"}}`, string(resp.Data))

	status, _ = env.do("admin", http.MethodGet, "/settings/max_items", "", "X-Store-ID", fmt.Sprint(env.stores["South"].ID))
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do("clerk", http.MethodDelete, "/settings/max_items", "")
	require.Equal(t, http.StatusOK, status)
	status, _ = env.do("clerk", http.MethodGet, "/settings/max_items", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_Memberships(t *testing.T) {
	env := newAPIEnv(t)
	clerk := env.userIDs["clerk"]
	east := env.stores["East"].ID

	status, resp := env.do("admin", http.MethodPut, fmt.Sprintf("/users/%d/default-store", clerk), fmt.Sprintf(`{"store_id":%d}`, east))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "User does not have access to this store.", resp.Message)

	status, resp = env.do("admin", http.MethodPost, fmt.Sprintf("/users/%d/stores", clerk), fmt.Sprintf(`{"store_id":%d}`, east))
	require.Equal(t, http.StatusOK, status, resp.Message)
	assert.Equal(t, "Store assigned to user successfully", resp.Message)

	status, resp = env.do("admin", http.MethodPost, fmt.Sprintf("/users/%d/stores", clerk), fmt.Sprintf(`{"store_id":%d}`, east))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "User is already assigned to this store.", resp.Message)

	status, _ = env.do("admin", http.MethodPut, fmt.Sprintf("/users/%d/default-store", clerk), fmt.Sprintf(`{"store_id":%d}`, east))
	require.Equal(t, http.StatusOK, status)

	// the principal cache was flushed, so the new membership applies at once
	status, _ = env.do("clerk", http.MethodGet, "/contacts", "", "X-Store-ID", fmt.Sprint(east))
	assert.Equal(t, http.StatusOK, status)

	status, resp = env.do("admin", http.MethodGet, fmt.Sprintf("/users/%d/stores", clerk), "")
	require.Equal(t, http.StatusOK, status)
	stores := decode[apptenancy.UserStoresDTO](t, resp.Data)
	assert.Len(t, stores.Stores, 2)
	require.NotNil(t, stores.DefaultStoreID)
	assert.Equal(t, east, *stores.DefaultStoreID)

	status, _ = env.do("admin", http.MethodDelete, fmt.Sprintf("/users/%d/stores/%d", clerk, east), "")
	require.Equal(t, http.StatusOK, status)

	status, resp = env.do("admin", http.MethodDelete, fmt.Sprintf("/users/%d/stores/%d", clerk, east), "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User is not assigned to this store.", resp.Message)
}

func TestAPI_StoreSwitch(t *testing.T) {
	env := newAPIEnv(t)

	status, resp := env.do("clerk", http.MethodPost, "/stores/switch", fmt.Sprintf(`{"store_id":%d}`, env.stores["South"].ID))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "You do not have access to this store.", resp.Message)

	status, resp = env.do("admin", http.MethodPost, "/stores/switch", fmt.Sprintf(`{"store_id":%d}`, env.stores["South"].ID))
	require.Equal(t, http.StatusOK, status, resp.Message)
	assert.Equal(t, "Store switched successfully", resp.Message)

	// without a header the new default applies
	c := env.createContact("admin", "South Co", env.stores["South"].ID)
	status, resp = env.do("admin", http.MethodGet, "/contacts", "")
	require.Equal(t, http.StatusOK, status)
	list := decode[contactList](t, resp.Data)
	require.Len(t, list.Contacts, 1)
	assert.Equal(t, c.ID, list.Contacts[0].ID)
}

func TestAPI_Roles(t *testing.T) {
	env := newAPIEnv(t)

	status, resp := env.do("admin", http.MethodPost, "/roles", `{"name":"auditor","permissions":["view users","view stores"]}`)
	require.Equal(t, http.StatusCreated, status, resp.Message)
	role := decode[struct {
		Role appidentity.RoleDTO `json:"role"`
	}](t, resp.Data).Role
	assert.ElementsMatch(t, []string{"view users", "view stores"}, role.Permissions)

	status, resp = env.do("admin", http.MethodPost, "/roles", `{"name":"ghost","permissions":["fly"]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.NotEmpty(t, resp.Errors)

	status, _ = env.do("admin", http.MethodPost, "/roles", `{"name":"auditor"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestAPI_Avatar(t *testing.T) {
	env := newAPIEnv(t)

	status, resp := env.do("clerk", http.MethodGet, "/auth/profile/avatar", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Avatar not found.", resp.Message)

	status, resp = env.do("clerk", http.MethodPost, "/auth/profile/avatar", `{"content_type":"image/png"}`)
	require.Equal(t, http.StatusOK, status, resp.Message)
	upload := decode[struct {
		Upload appidentity.AvatarUpload `json:"upload"`
	}](t, resp.Data).Upload
	assert.True(t, strings.HasPrefix(upload.Key, fmt.Sprintf("avatars/%d/", env.userIDs["clerk"])), upload.Key)

	status, resp = env.do("clerk", http.MethodPut, "/auth/profile/avatar", fmt.Sprintf(`{"key":%q}`, upload.Key))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "The avatar has not been uploaded.", resp.Message)

	env.objects.uploaded[upload.Key] = true
	status, resp = env.do("clerk", http.MethodPut, "/auth/profile/avatar", fmt.Sprintf(`{"key":%q}`, upload.Key))
	require.Equal(t, http.StatusOK, status, resp.Message)

	status, resp = env.do("clerk", http.MethodGet, "/auth/profile/avatar", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(resp.Data), upload.Key+"?download")
}
