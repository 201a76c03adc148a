package users

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/authz"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/platform/httpx"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/shared"
)

// Handler manages user management endpoints.
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

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAny(shared.PermUsersView, shared.PermUsersManage))
		r.Get("/", h.list)
		r.Get("/{userID}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.PermUsersManage))
		r.Post("/", h.create)
		r.Put("/{userID}/status", h.setStatus)
		r.Put("/{userID}/roles", h.setRoles)
		r.Put("/{userID}/grants", h.setGrants)
	})
}

type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResponse(user User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Status:    user.Status,
		Roles:     user.Roles,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tenant := shared.TenantFromContext(r.Context())
	list, err := h.service.List(r.Context(), *tenant)
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]userResponse, 0, len(list))
	for _, user := range list {
		out = append(out, toUserResponse(user))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tenant := shared.TenantFromContext(r.Context())
	userID, err := pathID(r, "userID")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	user, err := h.service.Get(r.Context(), *tenant, userID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toUserResponse(*user))
}

type createUserPayload struct {
	Email    string   `json:"email" validate:"required,email"`
	Name     string   `json:"name" validate:"max=120"`
	Password string   `json:"password" validate:"required,min=8"`
	Roles    []string `json:"roles"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	tenant := shared.TenantFromContext(r.Context())
	var payload createUserPayload
	if err := h.decode(r, &payload); err != nil {
		httpx.RespondError(w, err)
		return
	}
	user, err := h.service.Create(r.Context(), *tenant, CreateInput{
		Email:    payload.Email,
		Name:     payload.Name,
		Password: payload.Password,
		Roles:    payload.Roles,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toUserResponse(user))
}

type statusPayload struct {
	Status string `json:"status" validate:"required,oneof=active suspended archived"`
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	tenant := shared.TenantFromContext(r.Context())
	userID, err := pathID(r, "userID")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var payload statusPayload
	if err := h.decode(r, &payload); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.SetStatus(r.Context(), *tenant, userID, payload.Status); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

type rolesPayload struct {
	Roles []string `json:"roles" validate:"required"`
}

func (h *Handler) setRoles(w http.ResponseWriter, r *http.Request) {
	tenant := shared.TenantFromContext(r.Context())
	userID, err := pathID(r, "userID")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var payload rolesPayload
	if err := h.decode(r, &payload); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.SetRoles(r.Context(), *tenant, userID, payload.Roles); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

type grantPayload struct {
	RoleKey  string `json:"roleKey" validate:"required"`
	BranchID string `json:"branchId"`
}

type grantsPayload struct {
	Grants []grantPayload `json:"grants" validate:"required,dive"`
}

func (h *Handler) setGrants(w http.ResponseWriter, r *http.Request) {
	tenant := shared.TenantFromContext(r.Context())
	userID, err := pathID(r, "userID")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var payload grantsPayload
	if err := h.decode(r, &payload); err != nil {
		httpx.RespondError(w, err)
		return
	}
	grants := make([]authz.ScopedGrant, 0, len(payload.Grants))
	for _, g := range payload.Grants {
		grants = append(grants, authz.ScopedGrant{RoleKey: g.RoleKey, BranchID: g.BranchID})
	}
	if err := h.service.SetGrants(r.Context(), *tenant, userID, grants); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) decode(r *http.Request, target any) error {
	if err := httpx.DecodeJSON(r, target); err != nil {
		return fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	if err := h.validator.Struct(target); err != nil {
		return fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	return nil
}

func pathID(r *http.Request, param string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s", httpx.ErrValidation, param)
	}
	return id, nil
}
