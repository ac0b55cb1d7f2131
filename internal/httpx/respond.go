package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/yash151294/StockENT-sub002/internal/market"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(market.KindOf(err)), map[string]string{
		"error": err.Error(),
		"kind":  string(market.KindOf(err)),
	})
}

func statusFor(kind market.ErrorKind) int {
	switch kind {
	case market.KindNotFound:
		return http.StatusNotFound
	case market.KindUnauthorized:
		return http.StatusForbidden
	case market.KindValidation:
		return http.StatusBadRequest
	case market.KindInvalidState, market.KindConflict:
		return http.StatusConflict
	case market.KindDependency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
