package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/yash151294/StockENT-sub002/internal/market"
	"github.com/yash151294/StockENT-sub002/internal/negotiation"
	"github.com/yash151294/StockENT-sub002/internal/settlement"
)

type negotiationsAPI struct {
	router   *chi.Mux
	store    *negotiation.MockStore
	products *market.MockProductCatalog
	bus      *market.MockPublisher
}

func newNegotiationsAPI(t *testing.T) negotiationsAPI {
	ctrl := gomock.NewController(t)
	api := negotiationsAPI{
		router:   chi.NewRouter(),
		store:    negotiation.NewMockStore(ctrl),
		products: market.NewMockProductCatalog(ctrl),
		bus:      market.NewMockPublisher(ctrl),
	}
	settler := settlement.NewCoordinator(
		settlement.NewMockStore(ctrl),
		market.NewMockCartReserver(ctrl),
		market.NewMockNotifier(ctrl),
	)
	svc := negotiation.NewService(api.store, api.products, settler, api.bus, "test")
	h := &NegotiationsHandler{Service: svc}
	h.Register(api.router)
	return api
}

func TestCreateNegotiationBadJSON(t *testing.T) {
	api := newNegotiationsAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/negotiations", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateNegotiationProductNotFound(t *testing.T) {
	api := newNegotiationsAPI(t)

	api.products.EXPECT().Product(gomock.Any(), "missing").
		Return(market.Product{}, errors.New("no rows"))

	body := `{"product_id":"missing","buyer_id":"u1","offer_cents":5000}`
	req := httptest.NewRequest(http.MethodPost, "/negotiations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateNegotiation(t *testing.T) {
	api := newNegotiationsAPI(t)

	api.products.EXPECT().Product(gomock.Any(), "p1").Return(market.Product{
		ID:             "p1",
		SellerID:       "s1",
		BasePriceCents: 10000,
		MinOrderQty:    1,
		ListingType:    market.ListingNegotiable,
		Status:         market.ProductActive,
	}, nil)
	api.store.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n negotiation.Negotiation) (negotiation.Negotiation, error) {
			return n, nil
		})
	api.bus.EXPECT().Publish(market.TopicNegotiationCreated, gomock.Any(), gomock.Any())

	body := `{"product_id":"p1","buyer_id":"u1","offer_cents":9000,"message":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/negotiations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"buyer_offer_cents":9000`)
}

func TestAcceptNegotiationForbidden(t *testing.T) {
	api := newNegotiationsAPI(t)

	api.store.EXPECT().Get(gomock.Any(), "n1").
		Return(negotiation.Negotiation{ID: "n1", BuyerID: "u1", SellerID: "s1",
			Status: negotiation.StatusCountered}, nil)

	body := `{"user_id":"s1"}`
	req := httptest.NewRequest(http.MethodPost, "/negotiations/n1/accept", strings.NewReader(body))
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListNegotiationsRequiresUserID(t *testing.T) {
	api := newNegotiationsAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/negotiations", nil)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
