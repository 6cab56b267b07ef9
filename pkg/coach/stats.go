package coach

import "sync/atomic"

// Stats counts pipeline activity. All counters are safe for concurrent
// use.
type Stats struct {
	frames          atomic.Uint64
	sent            atomic.Uint64
	dropped         atomic.Uint64
	transportErrors atomic.Uint64
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Frames          uint64 `json:"frames"`
	Sent            uint64 `json:"sent"`
	Dropped         uint64 `json:"dropped"`
	TransportErrors uint64 `json:"transport_errors"`
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Frames:          s.frames.Load(),
		Sent:            s.sent.Load(),
		Dropped:         s.dropped.Load(),
		TransportErrors: s.transportErrors.Load(),
	}
}
