package notifier

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/yash151294/StockENT-sub002/internal/market"
)

func newTestService(t *testing.T) (*Service, *market.MockNotifier) {
	ctrl := gomock.NewController(t)
	notify := market.NewMockNotifier(ctrl)
	return &Service{Notify: notify, ServiceName: "notifier"}, notify
}

func TestDispatchBidPlaced(t *testing.T) {
	svc, notify := newTestService(t)
	ctx := context.Background()

	env := market.NewEnvelope("test", market.EventBidPlaced, "a1", market.BidPlacedPayload{
		AuctionID:      "a1",
		SellerID:       "s1",
		BidderID:       "u2",
		AmountCents:    12000,
		OutbidBidderID: "u3",
	})

	notify.EXPECT().Notify(ctx, "s1", "New bid", gomock.Any(), gomock.Any()).Return(nil)
	notify.EXPECT().Notify(ctx, "u3", "You have been outbid", gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, svc.dispatch(ctx, env))
}

func TestDispatchBidPlacedFirstBid(t *testing.T) {
	svc, notify := newTestService(t)
	ctx := context.Background()

	env := market.NewEnvelope("test", market.EventBidPlaced, "a1", market.BidPlacedPayload{
		AuctionID: "a1", SellerID: "s1", BidderID: "u2", AmountCents: 10000,
	})

	// nobody to outbid on the first bid
	notify.EXPECT().Notify(ctx, "s1", "New bid", gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, svc.dispatch(ctx, env))
}

func TestDispatchAuctionEnded(t *testing.T) {
	t.Run("with winner", func(t *testing.T) {
		svc, notify := newTestService(t)
		ctx := context.Background()

		env := market.NewEnvelope("test", market.EventAuctionEnded, "a1", market.AuctionEndedPayload{
			AuctionID: "a1", SellerID: "s1", WinnerID: "u2", WinningBidCents: 15000, ReserveMet: true,
		})
		notify.EXPECT().Notify(ctx, "u2", "Auction won", gomock.Any(), gomock.Any()).Return(nil)

		require.NoError(t, svc.dispatch(ctx, env))
	})

	t.Run("no winner", func(t *testing.T) {
		svc, notify := newTestService(t)
		ctx := context.Background()

		env := market.NewEnvelope("test", market.EventAuctionEnded, "a1", market.AuctionEndedPayload{
			AuctionID: "a1", SellerID: "s1",
		})
		notify.EXPECT().Notify(ctx, "s1", "Auction ended", gomock.Any(), gomock.Any()).Return(nil)

		require.NoError(t, svc.dispatch(ctx, env))
	})
}

func TestDispatchNegotiationExpiredNotifiesBothParties(t *testing.T) {
	svc, notify := newTestService(t)
	ctx := context.Background()

	env := market.NewEnvelope("test", market.EventNegotiationExpired, "n1", market.NegotiationEventPayload{
		NegotiationID: "n1", ProductID: "p1", BuyerID: "u1", SellerID: "s1", Status: "EXPIRED",
	})

	notify.EXPECT().Notify(ctx, "u1", "Negotiation expired", gomock.Any(), gomock.Any()).Return(nil)
	notify.EXPECT().Notify(ctx, "s1", "Negotiation expired", gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, svc.dispatch(ctx, env))
}

func TestDispatchIgnoresSweepEvents(t *testing.T) {
	svc, _ := newTestService(t)

	env := market.NewEnvelope("test", market.EventSweepCompleted, "end_due_auctions", market.SweepPayload{
		Sweep: "end_due_auctions", Processed: 3,
	})

	require.NoError(t, svc.dispatch(context.Background(), env))
}
