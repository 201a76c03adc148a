package categories

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/authz"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/platform/httpx"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/shared"
)

// RepositoryPort defines data access methods for categories.
type RepositoryPort interface {
	List(ctx context.Context, tenantID int64) ([]Category, error)
	Create(ctx context.Context, category Category) (Category, error)
	Update(ctx context.Context, category Category) (Category, error)
	Delete(ctx context.Context, tenantID, categoryID int64) error
}

// Handler manages category endpoints.
type Handler struct {
	repo      RepositoryPort
	guard     *authz.Guard
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(repo RepositoryPort, guard *authz.Guard) *Handler {
	return &Handler{repo: repo, guard: guard, validator: validator.New()}
}

// MountRoutes registers category routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAny(shared.PermCategoriesView, shared.PermCategoriesManage))
		r.Get("/", h.list)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.PermCategoriesManage))
		r.Post("/", h.create)
		r.Put("/{categoryID}", h.update)
		r.Delete("/{categoryID}", h.delete)
	})
}

type categoryPayload struct {
	Name      string `json:"name" validate:"required,max=120"`
	SortOrder int    `json:"sortOrder" validate:"gte=0"`
}

type categoryResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCategoryResponse(c Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, SortOrder: c.SortOrder, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tenant := shared.TenantFromContext(r.Context())
	list, err := h.repo.List(r.Context(), tenant.ID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	out := make([]categoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCategoryResponse(c))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	tenant := shared.TenantFromContext(r.Context())
	payload, err := h.decode(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.repo.Create(r.Context(), Category{
		TenantID:  tenant.ID,
		Name:      strings.TrimSpace(payload.Name),
		SortOrder: payload.SortOrder,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toCategoryResponse(created))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	tenant := shared.TenantFromContext(r.Context())
	categoryID, err := strconv.ParseInt(chi.URLParam(r, "categoryID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid category id", httpx.ErrValidation))
		return
	}
	payload, err := h.decode(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	updated, err := h.repo.Update(r.Context(), Category{
		ID:        categoryID,
		TenantID:  tenant.ID,
		Name:      strings.TrimSpace(payload.Name),
		SortOrder: payload.SortOrder,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCategoryResponse(updated))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	tenant := shared.TenantFromContext(r.Context())
	categoryID, err := strconv.ParseInt(chi.URLParam(r, "categoryID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid category id", httpx.ErrValidation))
		return
	}
	if err := h.repo.Delete(r.Context(), tenant.ID, categoryID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) decode(r *http.Request) (categoryPayload, error) {
	var payload categoryPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		return payload, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	if err := h.validator.Struct(payload); err != nil {
		return payload, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	return payload, nil
}
