package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/yash151294/StockENT-sub002/internal/auction"
	"github.com/yash151294/StockENT-sub002/internal/redisx"
)

type AuctionsHandler struct {
	Service *auction.Service
	Redis   *redis.Client
}

type PlaceBidReq struct {
	BidderID    string `json:"bidder_id"`
	AmountCents int64  `json:"amount_cents"`
}

type PlaceBidResp struct {
	Auction auction.Auction `json:"auction"`
	Bid     auction.Bid     `json:"bid"`
}

type RestartAuctionReq struct {
	SellerID  string     `json:"seller_id"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

func (h *AuctionsHandler) Register(r *chi.Mux) {
	r.Post("/auctions/{id}/bids", h.placeBid)
	r.Post("/auctions/{id}/restart", h.restart)
	r.Post("/auctions/{id}/cancel", h.cancel)
	r.Get("/auctions/{id}", h.get)
	r.Get("/auctions/{id}/bids", h.listBids)
}

func (h *AuctionsHandler) placeBid(w http.ResponseWriter, r *http.Request) {
	var req PlaceBidReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	placed, err := h.Service.PlaceBid(ctx, chi.URLParam(r, "id"), req.BidderID, req.AmountCents)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cacheAuction(ctx, placed.Auction)
	writeJSON(w, http.StatusOK, PlaceBidResp{Auction: placed.Auction, Bid: placed.Bid})
}

func (h *AuctionsHandler) restart(w http.ResponseWriter, r *http.Request) {
	var req RestartAuctionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	a, err := h.Service.Restart(ctx, chi.URLParam(r, "id"), req.SellerID, req.StartTime, req.EndTime)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cacheAuction(ctx, a)
	writeJSON(w, http.StatusOK, a)
}

func (h *AuctionsHandler) cancel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	a, err := h.Service.Cancel(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	h.cacheAuction(ctx, a)
	writeJSON(w, http.StatusOK, a)
}

func (h *AuctionsHandler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// cache first, DB is the truth
	key := fmt.Sprintf(redisx.KeyAuctionStatus, id)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	a, err := h.Service.Get(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cacheAuction(ctx, a)
	writeJSON(w, http.StatusOK, a)
}

func (h *AuctionsHandler) listBids(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	bids, err := h.Service.Bids(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bids)
}

func (h *AuctionsHandler) cacheAuction(ctx context.Context, a auction.Auction) {
	b, err := json.Marshal(a)
	if err != nil {
		return
	}
	_ = h.Redis.Set(ctx, fmt.Sprintf(redisx.KeyAuctionStatus, a.ID), b, redisx.TTLStatusCache).Err()
}
