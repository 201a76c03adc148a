package till

import (
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

// Handler manages till session endpoints. All routes carry the branch in
// the path; the guard reads the same parameter to resolve branch context,
// so branch-scoped grants line up with the branch being operated on.
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

// MountRoutes registers till routes under /branches/{branchID}/till.
func (h *Handler) MountRoutes(r chi.Router) {
	branch := authz.Options{BranchParam: "branchID"}
	r.Route("/branches/{branchID}/till", func(r chi.Router) {
		r.With(h.guard.RequireWith(branch, shared.PermTillView)).Get("/sessions", h.list)
		r.With(h.guard.RequireWith(branch, shared.PermTillOpen)).Post("/open", h.open)
		r.With(h.guard.RequireWith(branch, shared.PermTillClose)).Post("/close", h.close)
	})
}

type sessionResponse struct {
	ID            int64      `json:"id"`
	BranchID      string     `json:"branchId"`
	OpenedBy      int64      `json:"openedBy"`
	ClosedBy      int64      `json:"closedBy,omitempty"`
	OpeningFloat  int64      `json:"openingFloat"`
	ClosingAmount int64      `json:"closingAmount,omitempty"`
	Status        string     `json:"status"`
	OpenedAt      time.Time  `json:"openedAt"`
	ClosedAt      *time.Time `json:"closedAt,omitempty"`
}

func toSessionResponse(s Session) sessionResponse {
	return sessionResponse{
		ID:            s.ID,
		BranchID:      s.BranchID,
		OpenedBy:      s.OpenedBy,
		ClosedBy:      s.ClosedBy,
		OpeningFloat:  s.OpeningFloat,
		ClosingAmount: s.ClosingAmount,
		Status:        s.Status,
		OpenedAt:      s.OpenedAt,
		ClosedAt:      s.ClosedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tenant := shared.TenantFromContext(r.Context())
	sessions, err := h.service.List(r.Context(), *tenant, chi.URLParam(r, "branchID"))
	if err != nil {
		h.logger.Error("list till sessions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResponse(s))
	}
	httpx.JSON(w, http.StatusOK, out)
}

type openPayload struct {
	OpeningFloat int64 `json:"openingFloat" validate:"gte=0"`
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request) {
	tenant := shared.TenantFromContext(r.Context())
	userID, _ := shared.UserIDFromContext(r.Context())
	var payload openPayload
	if err := h.decode(r, &payload); err != nil {
		httpx.RespondError(w, err)
		return
	}
	session, err := h.service.Open(r.Context(), *tenant, chi.URLParam(r, "branchID"), userID, payload.OpeningFloat)
	if err != nil {
		if err == ErrSessionOpen {
			httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toSessionResponse(session))
}

type closePayload struct {
	ClosingAmount int64 `json:"closingAmount" validate:"gte=0"`
}

func (h *Handler) close(w http.ResponseWriter, r *http.Request) {
	tenant := shared.TenantFromContext(r.Context())
	userID, _ := shared.UserIDFromContext(r.Context())
	var payload closePayload
	if err := h.decode(r, &payload); err != nil {
		httpx.RespondError(w, err)
		return
	}
	session, err := h.service.Close(r.Context(), *tenant, chi.URLParam(r, "branchID"), userID, payload.ClosingAmount)
	if err != nil {
		if err == ErrSessionClosed {
			httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toSessionResponse(session))
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
