package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yash151294/StockENT-sub002/internal/negotiation"
)

type NegotiationsHandler struct {
	Service *negotiation.Service
}

type CreateNegotiationReq struct {
	ProductID  string `json:"product_id"`
	BuyerID    string `json:"buyer_id"`
	OfferCents int64  `json:"offer_cents"`
	Message    string `json:"message,omitempty"`
}

type CounterOfferReq struct {
	SellerID     string `json:"seller_id"`
	CounterCents int64  `json:"counter_cents"`
	Message      string `json:"message,omitempty"`
}

type NegotiationActionReq struct {
	UserID string `json:"user_id"`
}

func (h *NegotiationsHandler) Register(r *chi.Mux) {
	r.Post("/negotiations", h.create)
	r.Post("/negotiations/{id}/counter", h.counter)
	r.Post("/negotiations/{id}/accept", h.accept)
	r.Post("/negotiations/{id}/decline", h.decline)
	r.Post("/negotiations/{id}/cancel", h.cancel)
	r.Get("/negotiations/{id}", h.get)
	r.Get("/negotiations", h.listByUser)
}

func (h *NegotiationsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateNegotiationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := h.timeout(r)
	defer cancel()

	n, err := h.Service.Create(ctx, req.ProductID, req.BuyerID, req.OfferCents, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (h *NegotiationsHandler) counter(w http.ResponseWriter, r *http.Request) {
	var req CounterOfferReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := h.timeout(r)
	defer cancel()

	n, err := h.Service.Counter(ctx, chi.URLParam(r, "id"), req.SellerID, req.CounterCents, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NegotiationsHandler) accept(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.Service.Accept)
}

func (h *NegotiationsHandler) decline(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.Service.Decline)
}

func (h *NegotiationsHandler) cancel(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.Service.Cancel)
}

func (h *NegotiationsHandler) action(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, id, userID string) (negotiation.Negotiation, error)) {
	var req NegotiationActionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := h.timeout(r)
	defer cancel()

	n, err := fn(ctx, chi.URLParam(r, "id"), req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NegotiationsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.timeout(r)
	defer cancel()

	n, err := h.Service.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NegotiationsHandler) listByUser(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing user_id"})
		return
	}

	ctx, cancel := h.timeout(r)
	defer cancel()

	ns, err := h.Service.ByUser(ctx, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ns)
}

func (h *NegotiationsHandler) timeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 5*time.Second)
}
