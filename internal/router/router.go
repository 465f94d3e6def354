// Package router wires handlers to URL paths. All routes are declared in one
// table together with their access level so the exposed surface is auditable
// at a glance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/listora/realty-api/internal/handler"
	"github.com/listora/realty-api/internal/middleware"
	"github.com/listora/realty-api/internal/model"
)

// Route is one declared API endpoint.
type Route struct {
	Method string
	Path   string
	Access Access
	// Cached marks public GET routes whose responses go through the
	// Redis response cache when one is configured.
	Cached  bool
	Handler echo.HandlerFunc
}

// Deps collects everything route registration needs.
type Deps struct {
	Auth     *handler.AuthHandler
	Listings *handler.ListingHandler
	Browse   *handler.BrowseHandler
	Features *handler.FeatureHandler
	Users    *handler.UserHandler
	Uploads  *handler.UploadHandler

	JWTSecret string
	// CacheMW is optional; nil disables response caching.
	CacheMW echo.MiddlewareFunc
	// RateLimitMW is optional; nil disables rate limiting.
	RateLimitMW echo.MiddlewareFunc
}

// Routes returns the full route table. Order matters for Echo only where a
// literal segment must win over a parameter; "/listings/all" is declared
// before "/listings/:id" for that reason.
func Routes(d Deps) []Route {
	return []Route{
		{Method: "POST", Path: "/auth/register", Access: Public, Handler: d.Auth.Register},
		{Method: "POST", Path: "/auth/login", Access: Public, Handler: d.Auth.Login},
		{Method: "POST", Path: "/auth/refresh-token", Access: Public, Handler: d.Auth.RefreshToken},
		{Method: "POST", Path: "/auth/create-admin", Access: Admin, Handler: d.Auth.CreateAdmin},
		{Method: "POST", Path: "/auth/logout", Access: Authenticated, Handler: d.Auth.Logout},
		{Method: "GET", Path: "/auth/me", Access: Authenticated, Handler: d.Auth.Me},

		{Method: "GET", Path: "/listings", Access: Admin, Handler: d.Listings.Search},
		{Method: "GET", Path: "/listings/featured", Access: Public, Cached: true, Handler: d.Browse.Featured},
		{Method: "GET", Path: "/listings/:id", Access: Public, Cached: true, Handler: d.Browse.Get},
		{Method: "POST", Path: "/listings", Access: Admin, Handler: d.Listings.Create},
		{Method: "PATCH", Path: "/listings/:id", Access: Admin, Handler: d.Listings.Update},
		{Method: "DELETE", Path: "/listings/all", Access: Admin, Handler: d.Listings.DeleteAll},
		{Method: "DELETE", Path: "/listings/:id", Access: Admin, Handler: d.Listings.Delete},

		{Method: "GET", Path: "/features", Access: Public, Cached: true, Handler: d.Features.List},
		{Method: "GET", Path: "/features/:id", Access: Public, Handler: d.Features.Get},
		{Method: "POST", Path: "/features", Access: Admin, Handler: d.Features.Create},
		{Method: "PUT", Path: "/features/:id", Access: Admin, Handler: d.Features.Update},
		{Method: "DELETE", Path: "/features/:id", Access: Admin, Handler: d.Features.Delete},

		{Method: "GET", Path: "/users", Access: Admin, Handler: d.Users.List},
		{Method: "PUT", Path: "/users/:id/role", Access: Admin, Handler: d.Users.UpdateRole},

		{Method: "POST", Path: "/uploads/image", Access: Authenticated, Handler: d.Uploads.Image},
	}
}

// Register mounts the route table under /api, plus the health check and the
// static /uploads tree at the root.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)
	e.Static("/uploads", d.Uploads.Dir)

	api := e.Group("/api")
	if d.RateLimitMW != nil {
		api.Use(d.RateLimitMW)
	}

	jwt := middleware.JWTAuth(d.JWTSecret)
	admin := middleware.RequireRole(model.RoleAdmin)

	for _, r := range Routes(d) {
		var mws []echo.MiddlewareFunc
		switch r.Access {
		case Authenticated:
			mws = append(mws, jwt)
		case Admin:
			mws = append(mws, jwt, admin)
		}
		if r.Cached && d.CacheMW != nil {
			mws = append(mws, d.CacheMW)
		}
		api.Add(r.Method, r.Path, r.Handler, mws...)
	}
}
