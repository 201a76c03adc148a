package roles

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/authz"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/platform/httpx"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/shared"
)

// Handler manages role management endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     *authz.Guard
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard *authz.Guard) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers role routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAny(shared.PermRolesView, shared.PermRolesManage))
		r.Get("/", h.list)
		r.Get("/{key}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.PermRolesManage))
		r.Post("/", h.create)
		r.Put("/{key}", h.update)
		r.Delete("/{key}", h.delete)
	})
}

type rolePayload struct {
	Key         string   `json:"key" validate:"required,max=64"`
	Name        string   `json:"name" validate:"max=120"`
	Permissions []string `json:"permissions" validate:"required,min=1"`
	Scope       string   `json:"scope" validate:"omitempty,oneof=tenant branch"`
}

type roleResponse struct {
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Permissions []string  `json:"permissions"`
	Scope       string    `json:"scope"`
	IsSystem    bool      `json:"isSystem"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toRoleResponse(role Role) roleResponse {
	return roleResponse{
		Key:         role.Key,
		Name:        role.Name,
		Permissions: role.Permissions,
		Scope:       string(role.Scope),
		IsSystem:    role.IsSystem,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tenant := shared.TenantFromContext(r.Context())
	list, err := h.service.List(r.Context(), *tenant)
	if err != nil {
		h.logger.Error("list roles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]roleResponse, 0, len(list))
	for _, role := range list {
		out = append(out, toRoleResponse(role))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tenant := shared.TenantFromContext(r.Context())
	role, err := h.service.Get(r.Context(), *tenant, chi.URLParam(r, "key"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toRoleResponse(*role))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	tenant := shared.TenantFromContext(r.Context())
	payload, err := h.decode(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	role, err := h.service.Create(r.Context(), *tenant, RoleInput{
		Key:         payload.Key,
		Name:        payload.Name,
		Permissions: payload.Permissions,
		Scope:       authz.Scope(payload.Scope),
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toRoleResponse(role))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	tenant := shared.TenantFromContext(r.Context())
	payload, err := h.decode(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	role, err := h.service.Update(r.Context(), *tenant, chi.URLParam(r, "key"), RoleInput{
		Name:        payload.Name,
		Permissions: payload.Permissions,
		Scope:       authz.Scope(payload.Scope),
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toRoleResponse(role))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	tenant := shared.TenantFromContext(r.Context())
	if err := h.service.Delete(r.Context(), *tenant, chi.URLParam(r, "key")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrInvalidInput) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	httpx.RespondError(w, err)
}

func (h *Handler) decode(r *http.Request) (rolePayload, error) {
	var payload rolePayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		return payload, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	// Update requests omit the key since it rides on the URL.
	if r.Method != http.MethodPost {
		payload.Key = chi.URLParam(r, "key")
	}
	if err := h.validator.Struct(payload); err != nil {
		return payload, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	return payload, nil
}
