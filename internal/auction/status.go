package auction

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusActive    Status = "ACTIVE"
	StatusEnded     Status = "ENDED"
	StatusCancelled Status = "CANCELLED"
)

// Status transitions are monotonic except for the explicit seller restart,
// which takes ENDED back to ACTIVE (or SCHEDULED, when the new window is in
// the future).
var validNext = map[Status]map[Status]bool{
	StatusScheduled: {StatusActive: true, StatusCancelled: true},
	StatusActive:    {StatusEnded: true, StatusCancelled: true},
	StatusEnded:     {StatusActive: true, StatusScheduled: true},
	StatusCancelled: {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

type BidStatus string

const (
	BidWinning BidStatus = "WINNING"
	BidOutbid  BidStatus = "OUTBID"
	BidWon     BidStatus = "WON"
	BidLost    BidStatus = "LOST"
)
