package redisx

import "time"

const (
	// Record by id: {prefix}:order:{order_id} -> JSON record
	KeyOrder = "%s:order:%s"

	// Owner secondary index: {prefix}:user_orders:{user_id} -> set of order ids
	KeyOwnerIndex = "%s:user_orders:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLDedup = 48 * time.Hour
)
