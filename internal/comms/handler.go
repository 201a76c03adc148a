package comms

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/authz"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/platform/httpx"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/shared"
)

// Handler manages communication endpoints.
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

// MountRoutes registers communication routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.PermCommsSend))
		r.Post("/messages", h.send)
	})
}

type messagePayload struct {
	Channel string `json:"channel" validate:"omitempty,oneof=email sms"`
	To      string `json:"to" validate:"required,max=200"`
	Subject string `json:"subject" validate:"max=200"`
	Body    string `json:"body" validate:"required"`
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	tenant := shared.TenantFromContext(r.Context())
	var payload messagePayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	err := h.service.Send(r.Context(), *tenant, Message{
		Channel: payload.Channel,
		To:      payload.To,
		Subject: payload.Subject,
		Body:    payload.Body,
	})
	if err != nil {
		h.logger.Error("queue message", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
