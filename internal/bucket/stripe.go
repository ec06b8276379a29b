package bucket

import "sync"

// rwStripe is one lock in the stripe table, padded out to a cache line so
// adjacent stripes don't ping-pong between cores under contention.
type rwStripe struct {
	sync.RWMutex
	_ [40]byte
}
