package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/notify"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Sessions hands out the cart session behind a session cookie.
type Sessions interface {
	Session(ctx context.Context, id string) (*session.Session, error)
}

type CartHandler struct {
	sessions Sessions
	timeout  time.Duration
	log      *zap.Logger
}

func NewCartHandler(sessions Sessions, timeout time.Duration, log *zap.Logger) *CartHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CartHandler{
		sessions: sessions,
		timeout:  timeout,
		log:      log,
	}
}

type AddItemRequestDTO struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity"`
}

type PanelRequestDTO struct {
	Action string `json:"action"`
}

type BuyerRequestDTO struct {
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CountryCode string `json:"country_code"`
}

type DiscountsRequestDTO struct {
	Codes []string `json:"codes"`
}

// CartResponse is the cart as a storefront page renders it.
type CartResponse struct {
	Cart          *domain.Cart          `json:"cart"`
	ItemCount     int                   `json:"item_count"`
	Subtotal      string                `json:"subtotal"`
	Total         string                `json:"total"`
	Loading       bool                  `json:"loading"`
	PanelOpen     bool                  `json:"panel_open"`
	Error         string                `json:"error,omitempty"`
	Notifications []notify.Notification `json:"notifications"`
}

func cartResponse(s *session.Session) CartResponse {
	m := s.Manager
	state := m.State()
	notes := s.Notifications.Drain()
	if notes == nil {
		notes = []notify.Notification{}
	}
	return CartResponse{
		Cart:          state.Cart,
		ItemCount:     m.ItemCount(),
		Subtotal:      m.Subtotal(),
		Total:         m.Total(),
		Loading:       state.Loading,
		PanelOpen:     state.PanelOpen,
		Error:         state.LastError,
		Notifications: notes,
	}
}

// session resolves the caller's session. A failed first initialization is
// not fatal here: the state carries the error and the next mutation retries.
func (h *CartHandler) session(ctx context.Context, w http.ResponseWriter) (*session.Session, bool) {
	id := sessionFromContext(ctx)
	if id == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session cookie")
		return nil, false
	}
	s, err := h.sessions.Session(ctx, id)
	if s == nil {
		handleError(w, err)
		return nil, false
	}
	if err != nil {
		logger.FromContext(ctx, h.log).Warn("cart initialization failed", zap.String("session", id), zap.Error(err))
	}
	return s, true
}

// mutate runs op against the caller's manager and renders the resulting cart.
func (h *CartHandler) mutate(w http.ResponseWriter, r *http.Request, status int, op func(ctx context.Context, s *session.Session) error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	s, ok := h.session(ctx, w)
	if !ok {
		return
	}
	if err := op(ctx, s); err != nil {
		errStatus, body := errorResponse(err)
		body.Notifications = s.Notifications.Drain()
		respondJSON(w, errStatus, body)
		return
	}
	respondJSON(w, status, cartResponse(s))
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, http.StatusOK, func(context.Context, *session.Session) error { return nil })
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.VariantID == "" {
		respondError(w, http.StatusBadRequest, "invalid_variant_id", "variant_id is required")
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	h.mutate(w, r, http.StatusCreated, func(ctx context.Context, s *session.Session) error {
		return s.Manager.AddItem(ctx, req.VariantID, req.Quantity)
	})
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "line_id")

	var req UpdateQuantityRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity == nil || *req.Quantity < 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be zero or more")
		return
	}

	h.mutate(w, r, http.StatusOK, func(ctx context.Context, s *session.Session) error {
		return s.Manager.UpdateItem(ctx, lineID, *req.Quantity)
	})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "line_id")
	h.mutate(w, r, http.StatusOK, func(ctx context.Context, s *session.Session) error {
		return s.Manager.RemoveItem(ctx, lineID)
	})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, http.StatusOK, func(ctx context.Context, s *session.Session) error {
		return s.Manager.ClearCart(ctx)
	})
}

func (h *CartHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, http.StatusOK, func(ctx context.Context, s *session.Session) error {
		return s.Manager.Refresh(ctx)
	})
}

func (h *CartHandler) Panel(w http.ResponseWriter, r *http.Request) {
	var req PanelRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	var toggle func(s *session.Session)
	switch req.Action {
	case "open":
		toggle = func(s *session.Session) { s.Manager.OpenPanel() }
	case "close":
		toggle = func(s *session.Session) { s.Manager.ClosePanel() }
	case "toggle":
		toggle = func(s *session.Session) { s.Manager.TogglePanel() }
	default:
		respondError(w, http.StatusBadRequest, "invalid_action", "action must be open, close or toggle")
		return
	}

	h.mutate(w, r, http.StatusOK, func(_ context.Context, s *session.Session) error {
		toggle(s)
		return nil
	})
}

func (h *CartHandler) UpdateBuyer(w http.ResponseWriter, r *http.Request) {
	var req BuyerRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	identity := domain.BuyerIdentity{Email: req.Email, Phone: req.Phone, CountryCode: req.CountryCode}

	h.mutate(w, r, http.StatusOK, func(ctx context.Context, s *session.Session) error {
		return s.Manager.UpdateBuyerIdentity(ctx, identity)
	})
}

func (h *CartHandler) ApplyDiscounts(w http.ResponseWriter, r *http.Request) {
	var req DiscountsRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	h.mutate(w, r, http.StatusOK, func(ctx context.Context, s *session.Session) error {
		return s.Manager.ApplyDiscountCodes(ctx, req.Codes)
	})
}

// Checkout redirects the shopper to the hosted checkout of their cart.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	s, ok := h.session(ctx, w)
	if !ok {
		return
	}
	url, err := s.Manager.CheckoutURL()
	if err != nil {
		handleError(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
