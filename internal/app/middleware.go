package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/platform/httpx"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/shared"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/tenants"
)

// TenantSource resolves tenants by key for the tenant middleware.
type TenantSource interface {
	FindByKey(ctx context.Context, key string) (*tenants.Tenant, error)
}

// MiddlewareConfig aggregates dependencies shared by the middleware stack.
type MiddlewareConfig struct {
	Logger *slog.Logger
	Config *Config
}

// MiddlewareStack installs the base middleware chain for the API.
func MiddlewareStack(cfg MiddlewareConfig) []func(http.Handler) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        cfg.Config != nil && cfg.Config.IsProduction(),
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
	})

	timeout := 30 * time.Second
	if cfg.Config != nil && cfg.Config.AppRequestTimeout > 0 {
		timeout = cfg.Config.AppRequestTimeout
	}

	return []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Timeout(timeout),
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := secureMiddleware.Process(w, r); err != nil {
					cfg.Logger.Warn("secure headers blocked request", slog.Any("error", err))
					httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
					return
				}
				next.ServeHTTP(w, r)
			})
		},
		middleware.Compress(5),
		httprate.Limit(120, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)),
	}
}

// TenantMiddleware resolves the tenant key header into a tenant context.
// Requests without a resolvable active tenant never reach tenant-scoped
// handlers.
func TenantMiddleware(source TenantSource, header string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(strings.ToLower(r.Header.Get(header)))
			if key == "" {
				httpx.Problem(w, http.StatusBadRequest, "Bad Request", "tenant key required")
				return
			}
			tenant, err := source.FindByKey(r.Context(), key)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown tenant")
					return
				}
				logger.Error("resolve tenant", slog.String("key", key), slog.Any("error", err))
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			if !tenant.IsActive {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "tenant disabled")
				return
			}
			ctx := shared.ContextWithTenant(r.Context(), &shared.Tenant{ID: tenant.ID, Key: tenant.Key})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
