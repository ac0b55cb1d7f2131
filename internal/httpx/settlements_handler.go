package httpx

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yash151294/StockENT-sub002/internal/settlement"
)

// SettlementReader is the read surface of the settlement outbox: given the
// originating auction or negotiation, what happened to its reservation.
type SettlementReader interface {
	BySource(ctx context.Context, st settlement.SourceType, sourceID string) (settlement.Settlement, error)
}

type SettlementsHandler struct {
	Settlements SettlementReader
}

func (h *SettlementsHandler) Register(r *chi.Mux) {
	r.Get("/settlements/{source_type}/{source_id}", h.bySource)
}

func (h *SettlementsHandler) bySource(w http.ResponseWriter, r *http.Request) {
	st := settlement.SourceType(strings.ToUpper(chi.URLParam(r, "source_type")))
	if st != settlement.SourceAuction && st != settlement.SourceNegotiation {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "source_type must be AUCTION or NEGOTIATION"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	s, err := h.Settlements.BySource(ctx, st, chi.URLParam(r, "source_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
