package negotiation

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/yash151294/StockENT-sub002/internal/market"
	"github.com/yash151294/StockENT-sub002/internal/settlement"
)

type serviceMocks struct {
	store    *MockStore
	products *market.MockProductCatalog
	setStore *settlement.MockStore
	cart     *market.MockCartReserver
	notify   *market.MockNotifier
	bus      *market.MockPublisher
}

func newTestService(t *testing.T) (*Service, serviceMocks) {
	ctrl := gomock.NewController(t)
	m := serviceMocks{
		store:    NewMockStore(ctrl),
		products: market.NewMockProductCatalog(ctrl),
		setStore: settlement.NewMockStore(ctrl),
		cart:     market.NewMockCartReserver(ctrl),
		notify:   market.NewMockNotifier(ctrl),
		bus:      market.NewMockPublisher(ctrl),
	}
	settler := settlement.NewCoordinator(m.setStore, m.cart, m.notify)
	return NewService(m.store, m.products, settler, m.bus, "test"), m
}

func negotiableProduct() market.Product {
	return market.Product{
		ID:             "p1",
		SellerID:       "s1",
		BasePriceCents: 10000,
		MinOrderQty:    5,
		ListingType:    market.ListingNegotiable,
		Status:         market.ProductActive,
		ExpiresAt:      time.Now().UTC().Add(48 * time.Hour),
	}
}

func decodePayload(t *testing.T, value []byte) market.NegotiationEventPayload {
	t.Helper()
	var env market.Envelope
	require.NoError(t, json.Unmarshal(value, &env))
	var p market.NegotiationEventPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	return p
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		buyerID string
		offer   int64
	}{
		{"missing buyer", "", 5000},
		{"zero offer", "u1", 0},
		{"negative offer", "u1", -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			_, err := svc.Create(context.Background(), "p1", tt.buyerID, tt.offer, "")
			require.Equal(t, market.KindValidation, market.KindOf(err))
		})
	}
}

func TestCreateProductRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*market.Product)
		buyerID string
		offer   int64
		want    market.ErrorKind
	}{
		{
			name:    "product not active",
			mutate:  func(p *market.Product) { p.Status = market.ProductSold },
			buyerID: "u1", offer: 5000,
			want: market.KindInvalidState,
		},
		{
			name:    "listing not negotiable",
			mutate:  func(p *market.Product) { p.ListingType = market.ListingFixed },
			buyerID: "u1", offer: 5000,
			want: market.KindValidation,
		},
		{
			name:    "buyer is the seller",
			mutate:  func(p *market.Product) {},
			buyerID: "s1", offer: 5000,
			want: market.KindValidation,
		},
		{
			name:    "offer above 150% of asking price",
			mutate:  func(p *market.Product) {},
			buyerID: "u1", offer: 15001,
			want: market.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService(t)
			p := negotiableProduct()
			tt.mutate(&p)
			m.products.EXPECT().Product(gomock.Any(), "p1").Return(p, nil)

			_, err := svc.Create(context.Background(), "p1", tt.buyerID, tt.offer, "")
			require.Equal(t, tt.want, market.KindOf(err))
		})
	}
}

func TestCreate(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	p := negotiableProduct()

	m.products.EXPECT().Product(ctx, "p1").Return(p, nil)
	m.store.EXPECT().Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, n Negotiation) (Negotiation, error) {
			require.NotEmpty(t, n.ID)
			require.Equal(t, "s1", n.SellerID)
			require.Equal(t, StatusPending, n.Status)
			// offer exactly at 150% of the asking price is allowed
			require.Equal(t, int64(15000), n.BuyerOfferCents)
			require.Equal(t, p.ExpiresAt, n.ExpiresAt)
			return n, nil
		})
	m.bus.EXPECT().Publish(market.TopicNegotiationCreated, gomock.Any(), gomock.Any()).
		Do(func(_ string, _ []byte, value []byte) {
			payload := decodePayload(t, value)
			require.Equal(t, "u1", payload.BuyerID)
			require.Equal(t, int64(15000), payload.BuyerOfferCents)
		})

	got, err := svc.Create(ctx, "p1", "u1", 15000, "bulk order")
	require.NoError(t, err)
	require.Equal(t, "bulk order", got.BuyerMessage)
}

func TestCreateDefaultExpiry(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	p := negotiableProduct()
	p.ExpiresAt = time.Time{}

	m.products.EXPECT().Product(ctx, "p1").Return(p, nil)
	m.store.EXPECT().Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, n Negotiation) (Negotiation, error) {
			require.WithinDuration(t, time.Now().UTC().Add(defaultLifetime), n.ExpiresAt, time.Minute)
			return n, nil
		})
	m.bus.EXPECT().Publish(market.TopicNegotiationCreated, gomock.Any(), gomock.Any())

	_, err := svc.Create(ctx, "p1", "u1", 9000, "")
	require.NoError(t, err)
}

func TestCounterRules(t *testing.T) {
	pending := Negotiation{ID: "n1", ProductID: "p1", BuyerID: "u1", SellerID: "s1",
		BuyerOfferCents: 10000, Status: StatusPending}

	t.Run("only the seller", func(t *testing.T) {
		svc, m := newTestService(t)
		m.store.EXPECT().Get(gomock.Any(), "n1").Return(pending, nil)
		_, err := svc.Counter(context.Background(), "n1", "u1", 12000, "")
		require.Equal(t, market.KindUnauthorized, market.KindOf(err))
	})

	t.Run("not pending", func(t *testing.T) {
		svc, m := newTestService(t)
		n := pending
		n.Status = StatusCountered
		m.store.EXPECT().Get(gomock.Any(), "n1").Return(n, nil)
		_, err := svc.Counter(context.Background(), "n1", "s1", 12000, "")
		require.Equal(t, market.KindInvalidState, market.KindOf(err))
	})

	t.Run("counter at or below the offer", func(t *testing.T) {
		svc, m := newTestService(t)
		m.store.EXPECT().Get(gomock.Any(), "n1").Return(pending, nil)
		_, err := svc.Counter(context.Background(), "n1", "s1", 10000, "")
		require.Equal(t, market.KindValidation, market.KindOf(err))
	})

	t.Run("counter above 150% of asking price", func(t *testing.T) {
		svc, m := newTestService(t)
		m.store.EXPECT().Get(gomock.Any(), "n1").Return(pending, nil)
		m.products.EXPECT().Product(gomock.Any(), "p1").Return(negotiableProduct(), nil)
		_, err := svc.Counter(context.Background(), "n1", "s1", 15001, "")
		require.Equal(t, market.KindValidation, market.KindOf(err))
	})
}

func TestCounter(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	pending := Negotiation{ID: "n1", ProductID: "p1", BuyerID: "u1", SellerID: "s1",
		BuyerOfferCents: 10000, Status: StatusPending}
	counter := int64(12000)
	countered := pending
	countered.Status = StatusCountered
	countered.SellerCounterOfferCents = &counter

	m.store.EXPECT().Get(ctx, "n1").Return(pending, nil)
	m.products.EXPECT().Product(ctx, "p1").Return(negotiableProduct(), nil)
	m.store.EXPECT().Counter(ctx, "n1", counter, "best I can do").Return(countered, nil)
	m.bus.EXPECT().Publish(market.TopicNegotiationCountered, []byte("n1"), gomock.Any()).
		Do(func(_ string, _ []byte, value []byte) {
			payload := decodePayload(t, value)
			require.Equal(t, int64(12000), payload.CounterOfferCents)
			require.Equal(t, string(StatusCountered), payload.Status)
		})

	got, err := svc.Counter(ctx, "n1", "s1", counter, "best I can do")
	require.NoError(t, err)
	require.Equal(t, countered, got)
}

func TestAcceptRules(t *testing.T) {
	counter := int64(12000)
	countered := Negotiation{ID: "n1", ProductID: "p1", BuyerID: "u1", SellerID: "s1",
		BuyerOfferCents: 10000, SellerCounterOfferCents: &counter, Status: StatusCountered}

	t.Run("only the buyer", func(t *testing.T) {
		svc, m := newTestService(t)
		m.store.EXPECT().Get(gomock.Any(), "n1").Return(countered, nil)
		_, err := svc.Accept(context.Background(), "n1", "s1")
		require.Equal(t, market.KindUnauthorized, market.KindOf(err))
	})

	t.Run("no counter offer yet", func(t *testing.T) {
		svc, m := newTestService(t)
		n := countered
		n.Status = StatusPending
		n.SellerCounterOfferCents = nil
		m.store.EXPECT().Get(gomock.Any(), "n1").Return(n, nil)
		_, err := svc.Accept(context.Background(), "n1", "u1")
		require.Equal(t, market.KindInvalidState, market.KindOf(err))
	})

	t.Run("product no longer active", func(t *testing.T) {
		svc, m := newTestService(t)
		p := negotiableProduct()
		p.Status = market.ProductSold
		m.store.EXPECT().Get(gomock.Any(), "n1").Return(countered, nil)
		m.products.EXPECT().Product(gomock.Any(), "p1").Return(p, nil)
		_, err := svc.Accept(context.Background(), "n1", "u1")
		require.Equal(t, market.KindInvalidState, market.KindOf(err))
	})
}

func TestAcceptSettlesAtCounterOffer(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	counter := int64(12000)
	countered := Negotiation{ID: "n1", ProductID: "p1", BuyerID: "u1", SellerID: "s1",
		BuyerOfferCents: 10000, SellerCounterOfferCents: &counter, Status: StatusCountered}
	accepted := countered
	accepted.Status = StatusAccepted

	m.store.EXPECT().Get(ctx, "n1").Return(countered, nil)
	m.products.EXPECT().Product(ctx, "p1").Return(negotiableProduct(), nil)

	var enqueued settlement.Settlement
	m.store.EXPECT().Accept(ctx, "n1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, st settlement.Settlement) (Negotiation, error) {
			require.Equal(t, settlement.SourceNegotiation, st.SourceType)
			require.Equal(t, "n1", st.SourceID)
			require.Equal(t, "u1", st.BeneficiaryID)
			require.Equal(t, "s1", st.SellerID)
			require.Equal(t, int64(12000), st.PriceCents)
			require.Equal(t, 5, st.Quantity)
			enqueued = st
			return accepted, nil
		})
	m.cart.EXPECT().Reserve(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, res market.Reservation) error {
			require.Equal(t, "NEGOTIATION:n1", res.Provenance)
			require.Equal(t, int64(12000), res.PriceCents)
			require.Equal(t, 5, res.Quantity)
			return nil
		})
	m.setStore.EXPECT().MarkReserved(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, id string) (bool, error) {
			require.Equal(t, enqueued.ID, id)
			return true, nil
		})
	m.notify.EXPECT().Notify(ctx, "u1", gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	m.notify.EXPECT().Notify(ctx, "s1", gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	m.bus.EXPECT().Publish(market.TopicNegotiationAccepted, []byte("n1"), gomock.Any())

	got, err := svc.Accept(ctx, "n1", "u1")
	require.NoError(t, err)
	require.Equal(t, StatusAccepted, got.Status)
}

func TestAcceptSurvivesCartOutage(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	counter := int64(12000)
	countered := Negotiation{ID: "n1", ProductID: "p1", BuyerID: "u1", SellerID: "s1",
		BuyerOfferCents: 10000, SellerCounterOfferCents: &counter, Status: StatusCountered}
	accepted := countered
	accepted.Status = StatusAccepted

	m.store.EXPECT().Get(ctx, "n1").Return(countered, nil)
	m.products.EXPECT().Product(ctx, "p1").Return(negotiableProduct(), nil)
	m.store.EXPECT().Accept(ctx, "n1", gomock.Any()).Return(accepted, nil)
	m.cart.EXPECT().Reserve(ctx, gomock.Any()).
		Return(market.Errf(market.KindDependency, "cart unavailable"))
	m.setStore.EXPECT().MarkFailed(ctx, gomock.Any(), gomock.Any()).Return(nil)
	m.bus.EXPECT().Publish(market.TopicNegotiationAccepted, []byte("n1"), gomock.Any())

	// the accepted transition is committed; the retry pass picks the
	// settlement up later
	got, err := svc.Accept(ctx, "n1", "u1")
	require.NoError(t, err)
	require.Equal(t, StatusAccepted, got.Status)
}

func TestDecline(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	counter := int64(12000)
	countered := Negotiation{ID: "n1", ProductID: "p1", BuyerID: "u1", SellerID: "s1",
		SellerCounterOfferCents: &counter, Status: StatusCountered}
	declined := countered
	declined.Status = StatusDeclined

	m.store.EXPECT().Get(ctx, "n1").Return(countered, nil)
	m.store.EXPECT().Decline(ctx, "n1").Return(declined, nil)
	m.bus.EXPECT().Publish(market.TopicNegotiationDeclined, []byte("n1"), gomock.Any())

	got, err := svc.Decline(ctx, "n1", "u1")
	require.NoError(t, err)
	require.Equal(t, StatusDeclined, got.Status)
}

func TestDeclineOnlyBuyer(t *testing.T) {
	svc, m := newTestService(t)
	m.store.EXPECT().Get(gomock.Any(), "n1").
		Return(Negotiation{ID: "n1", BuyerID: "u1", SellerID: "s1"}, nil)

	_, err := svc.Decline(context.Background(), "n1", "s1")
	require.Equal(t, market.KindUnauthorized, market.KindOf(err))
}

func TestCancelParties(t *testing.T) {
	n := Negotiation{ID: "n1", ProductID: "p1", BuyerID: "u1", SellerID: "s1", Status: StatusPending}

	for _, caller := range []string{"u1", "s1"} {
		t.Run(caller, func(t *testing.T) {
			svc, m := newTestService(t)
			cancelled := n
			cancelled.Status = StatusCancelled
			m.store.EXPECT().Get(gomock.Any(), "n1").Return(n, nil)
			m.store.EXPECT().Cancel(gomock.Any(), "n1").Return(cancelled, nil)
			m.bus.EXPECT().Publish(market.TopicNegotiationCancelled, []byte("n1"), gomock.Any())

			got, err := svc.Cancel(context.Background(), "n1", caller)
			require.NoError(t, err)
			require.Equal(t, StatusCancelled, got.Status)
		})
	}

	t.Run("outsider", func(t *testing.T) {
		svc, m := newTestService(t)
		m.store.EXPECT().Get(gomock.Any(), "n1").Return(n, nil)
		_, err := svc.Cancel(context.Background(), "n1", "intruder")
		require.Equal(t, market.KindUnauthorized, market.KindOf(err))
	})
}

func TestExpireDue(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	past := Negotiation{ID: "n1", ProductID: "p1", BuyerID: "u1", SellerID: "s1",
		Status: StatusPending, ExpiresAt: now.Add(-time.Hour)}
	fresh := Negotiation{ID: "n2", ProductID: "p2", BuyerID: "u1", SellerID: "s1",
		Status: StatusPending, ExpiresAt: now.Add(time.Hour)}
	orphaned := Negotiation{ID: "n3", ProductID: "p3", BuyerID: "u1", SellerID: "s1",
		Status: StatusCountered, ExpiresAt: now.Add(time.Hour)}

	active := negotiableProduct()
	active.ID = "p2"
	sold := negotiableProduct()
	sold.ID = "p3"
	sold.Status = market.ProductSold

	m.store.EXPECT().Open(ctx).Return([]Negotiation{past, fresh, orphaned}, nil)
	m.products.EXPECT().Product(ctx, "p2").Return(active, nil)
	m.products.EXPECT().Product(ctx, "p3").Return(sold, nil)
	m.store.EXPECT().Expire(ctx, "n1").Return(true, nil)
	m.store.EXPECT().Expire(ctx, "n3").Return(true, nil)
	m.bus.EXPECT().Publish(market.TopicNegotiationExpired, []byte("n1"), gomock.Any())
	m.bus.EXPECT().Publish(market.TopicNegotiationExpired, []byte("n3"), gomock.Any())
	m.bus.EXPECT().Publish(market.TopicNegotiationSweep, gomock.Any(), gomock.Any())

	res, err := svc.ExpireDue(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 2, res.Processed)
	require.Equal(t, []string{"n1", "n3"}, res.EntityIDs)
	require.Empty(t, res.Errors)
}

func TestExpireDueLostRaceIsSkipped(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	past := Negotiation{ID: "n1", ProductID: "p1", BuyerID: "u1", SellerID: "s1",
		Status: StatusPending, ExpiresAt: now.Add(-time.Hour)}

	m.store.EXPECT().Open(ctx).Return([]Negotiation{past}, nil)
	m.store.EXPECT().Expire(ctx, "n1").Return(false, nil)
	// the aggregate event goes out even when the cycle moved nothing
	m.bus.EXPECT().Publish(market.TopicNegotiationSweep, gomock.Any(), gomock.Any())

	res, err := svc.ExpireDue(ctx, now)
	require.NoError(t, err)
	require.Zero(t, res.Processed)
	require.Empty(t, res.Errors)
}
