package negotiation

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCountered Status = "COUNTERED"
	StatusAccepted  Status = "ACCEPTED"
	StatusDeclined  Status = "DECLINED"
	StatusCancelled Status = "CANCELLED"
	StatusExpired   Status = "EXPIRED"
)

// ACCEPTED, DECLINED, CANCELLED and EXPIRED are terminal.
var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusCountered: true, StatusCancelled: true, StatusExpired: true},
	StatusCountered: {StatusAccepted: true, StatusDeclined: true, StatusCancelled: true, StatusExpired: true},
	StatusAccepted:  {},
	StatusDeclined:  {},
	StatusCancelled: {},
	StatusExpired:   {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func (s Status) Terminal() bool {
	return len(validNext[s]) == 0
}

// Open statuses are the ones the expiry sweep looks at.
func (s Status) Open() bool {
	return s == StatusPending || s == StatusCountered
}
