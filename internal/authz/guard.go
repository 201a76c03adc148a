package authz

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/platform/httpx"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/shared"
)

// AccountSource loads the authorization view of a user. Implementations
// return (nil, nil) when the user does not exist in the tenant.
type AccountSource interface {
	FindAccount(ctx context.Context, tenantKey string, userID int64) (*Account, error)
}

// Options tune a single guard. The zero value selects all-of evaluation,
// header-based branch resolution and owner bypass.
type Options struct {
	// Any selects at-least-one evaluation instead of all-of.
	Any bool
	// BranchParam names a chi route or query parameter consulted for the
	// branch context before the header fallback.
	BranchParam string
	// BranchHeader overrides the guard's default branch header.
	BranchHeader string
	// DisableOwnerBypass forces full evaluation even for owner accounts.
	DisableOwnerBypass bool
}

// Guard produces declarative permission middleware for protected routes.
type Guard struct {
	accounts     AccountSource
	cache        *RoleCache
	logger       *slog.Logger
	branchHeader string
}

// NewGuard wires a guard over the account source and role cache.
// branchHeader is the default header consulted for branch context.
func NewGuard(accounts AccountSource, cache *RoleCache, logger *slog.Logger, branchHeader string) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{accounts: accounts, cache: cache, logger: logger, branchHeader: branchHeader}
}

// Require ensures the current user holds all listed permissions.
func (g *Guard) Require(perms ...string) func(http.Handler) http.Handler {
	return g.RequireWith(Options{}, perms...)
}

// RequireAny ensures the current user holds at least one listed permission.
func (g *Guard) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return g.RequireWith(Options{Any: true}, perms...)
}

// RequireWith ensures the listed permissions with explicit options.
func (g *Guard) RequireWith(opts Options, perms ...string) func(http.Handler) http.Handler {
	required := normalizePermissions(perms)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := g.Authorize(r, opts, required); err != nil {
				g.respond(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Authorize runs the full decision chain for one request and returns nil on
// allow. Denials come back as the package sentinel errors; store failures
// propagate wrapped and unretried.
func (g *Guard) Authorize(r *http.Request, opts Options, required []string) error {
	ctx := r.Context()

	tenant := shared.TenantFromContext(ctx)
	if tenant == nil || tenant.Key == "" {
		return ErrMissingTenant
	}

	userID, ok := shared.UserIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}

	// Account status and grants are always read fresh; only roles are cached.
	account, err := g.accounts.FindAccount(ctx, tenant.Key, userID)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrUnauthenticated
	}
	if !account.Active() {
		return ErrAccountInactive
	}

	if !opts.DisableOwnerBypass && account.IsOwner() {
		return nil
	}

	if len(required) == 0 {
		return nil
	}

	roles, err := g.cache.Get(ctx, tenant.Key)
	if err != nil {
		return err
	}

	granted := Aggregate(*account, roles, g.resolveBranch(r, opts))
	if opts.Any {
		if HasAny(required, granted) {
			return nil
		}
	} else if HasAll(required, granted) {
		return nil
	}
	return ErrPermissionDenied
}

// resolveBranch picks the branch context from the route parameter, then the
// query string, then the configured header. Empty means no branch context.
func (g *Guard) resolveBranch(r *http.Request, opts Options) string {
	if opts.BranchParam != "" {
		if v := strings.TrimSpace(chi.URLParam(r, opts.BranchParam)); v != "" {
			return v
		}
		if v := strings.TrimSpace(r.URL.Query().Get(opts.BranchParam)); v != "" {
			return v
		}
	}
	header := opts.BranchHeader
	if header == "" {
		header = g.branchHeader
	}
	if header == "" {
		return ""
	}
	return strings.TrimSpace(r.Header.Get(header))
}

// respond is the single boundary mapping decision errors onto HTTP
// responses. Denial details stay generic so callers cannot probe the role
// structure.
func (g *Guard) respond(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
	case errors.Is(err, ErrAccountInactive):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "account not active")
	case errors.Is(err, ErrPermissionDenied):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient permissions")
	case errors.Is(err, ErrMissingTenant):
		g.logger.Error("authz guard misconfigured", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	default:
		g.logger.Error("authz store failure", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
