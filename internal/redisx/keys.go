package redisx

import "time"

const (
	// Auction status cache: auction_status:{auction_id} -> JSON snapshot
	KeyAuctionStatus = "auction_status:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Scheduler leader lock + last-run marker (observability only)
	KeySchedulerLeader  = "scheduler:leader"
	KeySchedulerLastRun = "scheduler:last_run"
)

var (
	TTLStatusCache = 30 * time.Second
	TTLDedup       = 48 * time.Hour
	TTLLastRun     = 24 * time.Hour
)
