package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/auth"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/categories"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/comms"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/inventory"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/roles"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/till"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	Tenants           TenantSource
	AuthMiddleware    auth.Middleware
	AuthHandler       *auth.Handler
	RolesHandler      *roles.Handler
	UsersHandler      *users.Handler
	CategoriesHandler *categories.Handler
	InventoryHandler  *inventory.Handler
	TillHandler       *till.Handler
	CommsHandler      *comms.Handler
}

// NewRouter constructs the chi.Router for the POS API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(TenantMiddleware(params.Tenants, params.Config.TenantHeader, params.Logger))
		r.Use(params.AuthMiddleware.Authenticate)

		r.Route("/auth", params.AuthHandler.MountRoutes)
		r.Route("/roles", params.RolesHandler.MountRoutes)
		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/categories", params.CategoriesHandler.MountRoutes)
		r.Route("/inventory", params.InventoryHandler.MountRoutes)
		r.Route("/comms", params.CommsHandler.MountRoutes)
		params.TillHandler.MountRoutes(r)
	})

	return r
}
