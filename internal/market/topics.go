package market

const (
	TopicAuctionStarted   = "auction.started"
	TopicAuctionBidPlaced = "auction.bid.placed"
	TopicAuctionEnded     = "auction.ended"
	TopicAuctionRestarted = "auction.restarted"
	TopicAuctionCancelled = "auction.cancelled"
	TopicAuctionSweep     = "auction.sweep"

	TopicNegotiationCreated   = "negotiation.created"
	TopicNegotiationCountered = "negotiation.countered"
	TopicNegotiationAccepted  = "negotiation.accepted"
	TopicNegotiationDeclined  = "negotiation.declined"
	TopicNegotiationCancelled = "negotiation.cancelled"
	TopicNegotiationExpired   = "negotiation.expired"
	TopicNegotiationSweep     = "negotiation.sweep"
)

// Topics lists every engine topic, in the order consumers subscribe to them.
func Topics() []string {
	return []string{
		TopicAuctionStarted,
		TopicAuctionBidPlaced,
		TopicAuctionEnded,
		TopicAuctionRestarted,
		TopicAuctionCancelled,
		TopicAuctionSweep,
		TopicNegotiationCreated,
		TopicNegotiationCountered,
		TopicNegotiationAccepted,
		TopicNegotiationDeclined,
		TopicNegotiationCancelled,
		TopicNegotiationExpired,
		TopicNegotiationSweep,
	}
}

// Partition key = entity id, so all events of one auction/negotiation keep order.
func PartitionKey(entityID string) []byte { return []byte(entityID) }
