package http

import (
	"net/http"

	"github.com/back2u/back2u/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RouterDeps bundles the handlers and middlewares the router wires together.
type RouterDeps struct {
	Identity      *IdentityHandler
	Admin         *AdminHandler
	Reports       *ReportHandler
	Notifications *NotificationHandler
	Geocode       *GeocodeHandler

	// Sessions resolves bearer tokens for the auth middleware.
	Sessions middleware.TokenResolver
	// Users backs the admin-role check.
	Users middleware.UserFinder

	Log *zap.Logger
}

// NewRouter builds the API router. Register, login and reverse geocoding are
// open; everything else requires a bearer token, and moderation plus user
// management additionally require the admin role.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.AllowContentType("application/json"))
	r.Use(middleware.WithRequestLogging(deps.Log))

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", deps.Identity.Register)
		r.Post("/login", deps.Identity.Login)
		r.Get("/geocode/reverse", deps.Geocode.Reverse)

		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(deps.Sessions))

			r.Post("/logout", deps.Identity.Logout)
			r.Post("/preferences/darkmode", deps.Identity.ToggleDarkMode)

			r.Get("/reports", deps.Reports.ListAll)
			r.Post("/reports", deps.Reports.Create)
			r.Get("/reports/mine", deps.Reports.ListMine)

			r.Get("/notifications", deps.Notifications.List)
			r.Post("/notifications/{id}/read", deps.Notifications.MarkAsRead)
			r.Post("/notifications/read-all", deps.Notifications.MarkAllAsRead)
			r.Delete("/notifications", deps.Notifications.ClearAll)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(deps.Users))

				r.Post("/reports/{id}/verify", deps.Reports.Verify)
				r.Post("/reports/{id}/unverify", deps.Reports.Unverify)
				r.Delete("/reports/{id}", deps.Reports.Delete)

				r.Get("/admin/users", deps.Admin.ListUsers)
				r.Delete("/admin/users/{id}", deps.Admin.DeleteUser)
				r.Put("/admin/users/{id}/role", deps.Admin.UpdateUserRole)
				r.Get("/admin/stats", deps.Admin.Stats)
			})
		})
	})

	return r
}
