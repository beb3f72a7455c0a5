// Package dedupe tracks flood waves a drone has already forwarded or
// answered, so it never processes the same wave twice.
package dedupe

import "github.com/Suge42/skylink-drone/core/node"

// Key uniquely identifies a flood wave.
type Key struct {
	FloodID     uint64
	InitiatorID node.NodeId
}

// Seen is the set of flood waves already forwarded or answered by a drone.
// Unlike a typical packet deduplicator, it never evicts: spec.md's
// seen_floods invariant requires the set to grow monotonically for the
// lifetime of the drone, since forgetting a wave would let it be rebroadcast
// and risk exponential traffic.
type Seen struct {
	waves map[Key]struct{}
}

// New creates an empty Seen set.
func New() *Seen {
	return &Seen{waves: make(map[Key]struct{})}
}

// Insert records key as seen. It reports true if this is the first time key
// has been recorded (the caller should rebroadcast/respond), or false if key
// was already present (the caller must not rebroadcast again).
func (s *Seen) Insert(key Key) (first bool) {
	if _, ok := s.waves[key]; ok {
		return false
	}
	s.waves[key] = struct{}{}
	return true
}

// Len returns the number of flood waves recorded so far.
func (s *Seen) Len() int {
	return len(s.waves)
}
