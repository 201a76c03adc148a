package inventory

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

// Handler manages inventory endpoints.
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

// MountRoutes registers inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAny(shared.PermInventoryView, shared.PermInventoryManage))
		r.Get("/", h.list)
		r.Get("/{itemID}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.PermInventoryManage))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.PermInventoryAdjust))
		r.Post("/{itemID}/adjust", h.adjust)
	})
}

type itemResponse struct {
	ID           int64     `json:"id"`
	CategoryID   int64     `json:"categoryId"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	Quantity     int64     `json:"quantity"`
	ReorderLevel int64     `json:"reorderLevel"`
	PriceCents   int64     `json:"priceCents"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toItemResponse(item Item) itemResponse {
	return itemResponse{
		ID:           item.ID,
		CategoryID:   item.CategoryID,
		SKU:          item.SKU,
		Name:         item.Name,
		Quantity:     item.Quantity,
		ReorderLevel: item.ReorderLevel,
		PriceCents:   item.PriceCents,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tenant := shared.TenantFromContext(r.Context())
	list, err := h.service.List(r.Context(), *tenant)
	if err != nil {
		h.logger.Error("list items", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]itemResponse, 0, len(list))
	for _, item := range list {
		out = append(out, toItemResponse(item))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tenant := shared.TenantFromContext(r.Context())
	itemID, err := itemIDParam(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.Get(r.Context(), *tenant, itemID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemResponse(*item))
}

type createItemPayload struct {
	CategoryID   int64  `json:"categoryId"`
	SKU          string `json:"sku" validate:"required,max=64"`
	Name         string `json:"name" validate:"required,max=200"`
	Quantity     int64  `json:"quantity" validate:"gte=0"`
	ReorderLevel int64  `json:"reorderLevel" validate:"gte=0"`
	PriceCents   int64  `json:"priceCents" validate:"gte=0"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	tenant := shared.TenantFromContext(r.Context())
	var payload createItemPayload
	if err := h.decode(r, &payload); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.Create(r.Context(), *tenant, CreateInput{
		CategoryID:   payload.CategoryID,
		SKU:          payload.SKU,
		Name:         payload.Name,
		Quantity:     payload.Quantity,
		ReorderLevel: payload.ReorderLevel,
		PriceCents:   payload.PriceCents,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toItemResponse(item))
}

type adjustPayload struct {
	Delta  int64  `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"max=200"`
}

func (h *Handler) adjust(w http.ResponseWriter, r *http.Request) {
	tenant := shared.TenantFromContext(r.Context())
	itemID, err := itemIDParam(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var payload adjustPayload
	if err := h.decode(r, &payload); err != nil {
		httpx.RespondError(w, err)
		return
	}
	actor, _ := shared.UserIDFromContext(r.Context())
	item, err := h.service.Adjust(r.Context(), *tenant, Adjustment{
		ItemID: itemID,
		Delta:  payload.Delta,
		Reason: payload.Reason,
		Actor:  actor,
	})
	if err != nil {
		if err == ErrNegativeStock || err == ErrInvalidDelta {
			httpx.Problem(w, http.StatusUnprocessableEntity, "Unprocessable", err.Error())
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemResponse(item))
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

func itemIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid item id", httpx.ErrValidation)
	}
	return id, nil
}
