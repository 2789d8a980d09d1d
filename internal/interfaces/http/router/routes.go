package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storehub/backend/internal/interfaces/http/handler"
	"github.com/storehub/backend/internal/interfaces/http/middleware"
)

// Permission names
const (
	PermViewUsers       = "view users"
	PermEditUsers       = "edit users"
	PermDeleteUsers     = "delete users"
	PermViewRoles       = "view roles"
	PermCreateRoles     = "create roles"
	PermEditRoles       = "edit roles"
	PermDeleteRoles     = "delete roles"
	PermViewPermissions = "view permissions"
	PermViewStores      = "view stores"
	PermCreateStores    = "create stores"
	PermEditStores      = "edit stores"
	PermDeleteStores    = "delete stores"
	PermViewContacts    = "view contacts"
	PermCreateContacts  = "create contacts"
	PermEditContacts    = "edit contacts"
	PermDeleteContacts  = "delete contacts"
	PermViewSettings    = "view settings"
	PermEditSettings    = "edit settings"
)

func guard(method, path, permission string) middleware.RoutePermission {
	return middleware.RoutePermission{Method: method, Path: path, Permission: permission}
}

// PermissionTable is the one place route permissions are declared. Paths
// are relative to the API base path. Routes missing here only require
// authentication.
var PermissionTable = []middleware.RoutePermission{
	guard(http.MethodGet, "/users", PermViewUsers),
	guard(http.MethodGet, "/users/:id", PermViewUsers),
	guard(http.MethodDelete, "/users/:id", PermDeleteUsers),
	guard(http.MethodGet, "/users/:id/stores", PermViewUsers),
	guard(http.MethodPost, "/users/:id/stores", PermEditUsers),
	guard(http.MethodDelete, "/users/:id/stores/:store", PermEditUsers),
	guard(http.MethodPut, "/users/:id/default-store", PermEditUsers),

	guard(http.MethodGet, "/roles", PermViewRoles),
	guard(http.MethodGet, "/roles/:id", PermViewRoles),
	guard(http.MethodPost, "/roles", PermCreateRoles),
	guard(http.MethodPut, "/roles/:id", PermEditRoles),
	guard(http.MethodPatch, "/roles/:id", PermEditRoles),
	guard(http.MethodDelete, "/roles/:id", PermDeleteRoles),
	guard(http.MethodGet, "/permissions", PermViewPermissions),

	guard(http.MethodGet, "/stores", PermViewStores),
	guard(http.MethodGet, "/stores/:id", PermViewStores),
	guard(http.MethodPost, "/stores", PermCreateStores),
	guard(http.MethodPut, "/stores/:id", PermEditStores),
	guard(http.MethodPatch, "/stores/:id", PermEditStores),
	guard(http.MethodDelete, "/stores/:id", PermDeleteStores),
	guard(http.MethodPost, "/stores/:id/restore", PermEditStores),

	guard(http.MethodGet, "/contacts", PermViewContacts),
	guard(http.MethodGet, "/contacts/:id", PermViewContacts),
	guard(http.MethodPost, "/contacts", PermCreateContacts),
	guard(http.MethodPut, "/contacts/:id", PermEditContacts),
	guard(http.MethodPatch, "/contacts/:id", PermEditContacts),
	guard(http.MethodDelete, "/contacts/:id", PermDeleteContacts),
	guard(http.MethodPost, "/contacts/:id/restore", PermEditContacts),

	guard(http.MethodGet, "/settings", PermViewSettings),
	guard(http.MethodGet, "/settings/:key", PermViewSettings),
	guard(http.MethodPut, "/settings/:key", PermEditSettings),
	guard(http.MethodDelete, "/settings/:key", PermEditSettings),
}

// Handlers groups the HTTP handlers served under the API base path
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Role    *handler.RoleHandler
	Store   *handler.StoreHandler
	Contact *handler.ContactHandler
	Setting *handler.SettingHandler
	// Avatar is optional; its routes exist only with object storage configured
	Avatar *handler.AvatarHandler
}

// Middleware holds the chains applied to API routes
type Middleware struct {
	// Public runs before register and login, e.g. the auth rate limiter
	Public []gin.HandlerFunc
	// Protected runs before every authenticated route, in order:
	// authentication, store context, then permission checks
	Protected []gin.HandlerFunc
}

// ProtectedChain builds the standard authenticated chain
func ProtectedChain(auth middleware.AuthConfig, store middleware.StoreContextConfig, perms middleware.RoutePermissionConfig, extra ...gin.HandlerFunc) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{
		middleware.Authenticate(auth),
		middleware.StoreContext(store),
	}
	chain = append(chain, extra...)
	return append(chain, middleware.RoutePermissionMiddleware(perms))
}

// RegisterAPI declares every API route on r
func RegisterAPI(r *Router, h Handlers, mw Middleware) {
	public := NewDomainGroup("auth", "/auth").Use(mw.Public...)
	public.POST("/register", h.Auth.Register)
	public.POST("/login", h.Auth.Login)

	account := NewDomainGroup("account", "/auth").Use(mw.Protected...)
	account.POST("/logout", h.Auth.Logout)
	account.GET("/profile", h.Auth.Profile)
	account.PUT("/profile", h.Auth.UpdateProfile)
	account.PATCH("/profile", h.Auth.UpdateProfile)
	if h.Avatar != nil {
		account.GET("/profile/avatar", h.Avatar.Get)
		account.POST("/profile/avatar", h.Avatar.InitiateUpload)
		account.PUT("/profile/avatar", h.Avatar.Confirm)
	}

	users := NewDomainGroup("users", "/users").Use(mw.Protected...)
	users.GET("", h.User.List)
	users.GET("/:id", h.User.Get)
	users.DELETE("/:id", h.User.Delete)
	users.GET("/:id/stores", h.User.ListStores)
	users.POST("/:id/stores", h.User.AssignStore)
	users.DELETE("/:id/stores/:store", h.User.RemoveStore)
	users.PUT("/:id/default-store", h.User.SetDefaultStore)

	roles := NewDomainGroup("roles", "/roles").Use(mw.Protected...)
	roles.GET("", h.Role.List)
	roles.GET("/:id", h.Role.Get)
	roles.POST("", h.Role.Create)
	roles.PUT("/:id", h.Role.Update)
	roles.PATCH("/:id", h.Role.Update)
	roles.DELETE("/:id", h.Role.Delete)

	permissions := NewDomainGroup("permissions", "/permissions").Use(mw.Protected...)
	permissions.GET("", h.Role.Permissions)

	stores := NewDomainGroup("stores", "/stores").Use(mw.Protected...)
	stores.GET("", h.Store.List)
	stores.POST("", h.Store.Create)
	stores.POST("/switch", h.Store.Switch)
	stores.GET("/:id", h.Store.Get)
	stores.PUT("/:id", h.Store.Update)
	stores.PATCH("/:id", h.Store.Update)
	stores.DELETE("/:id", h.Store.Delete)
	stores.POST("/:id/restore", h.Store.Restore)

	contacts := NewDomainGroup("contacts", "/contacts").Use(mw.Protected...)
	contacts.GET("", h.Contact.List)
	contacts.POST("", h.Contact.Create)
	contacts.GET("/:id", h.Contact.Get)
	contacts.PUT("/:id", h.Contact.Update)
	contacts.PATCH("/:id", h.Contact.Update)
	contacts.DELETE("/:id", h.Contact.Delete)
	contacts.POST("/:id/restore", h.Contact.Restore)

	settings := NewDomainGroup("settings", "/settings").Use(mw.Protected...)
	settings.GET("", h.Setting.List)
	settings.GET("/:key", h.Setting.Get)
	settings.PUT("/:key", h.Setting.Put)
	settings.DELETE("/:key", h.Setting.Delete)

	r.Register(public).
		Register(account).
		Register(users).
		Register(roles).
		Register(permissions).
		Register(stores).
		Register(contacts).
		Register(settings)
}
