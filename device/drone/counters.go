package drone

import "sync/atomic"

// Counters tracks drone activity using atomic counters, so a host can
// observe a running drone without instrumenting the simulation controller.
// All fields are safe for concurrent access, though in practice only the
// drone's own loop goroutine ever mutates them.
type Counters struct {
	PacketsForwarded    atomic.Uint64 // packets forwarded after the checks, plus each flood-request rebroadcast send
	PacketsDropped      atomic.Uint64 // self-originated fragments discarded by the PDR check
	FloodsForwarded     atomic.Uint64 // flood requests rebroadcast to at least one neighbour
	FloodsAnswered      atomic.Uint64 // flood requests answered with a FloodResponse
	NacksSent           atomic.Uint64 // nack packets sendNack handed to a neighbour (shortcut nacks count as ControllerShortcuts)
	ControllerShortcuts atomic.Uint64 // packets handed to the controller shortcut
}

// CountersSnapshot is a plain-value copy of Counters for reading.
type CountersSnapshot struct {
	PacketsForwarded    uint64
	PacketsDropped      uint64
	FloodsForwarded     uint64
	FloodsAnswered      uint64
	NacksSent           uint64
	ControllerShortcuts uint64
}

// Snapshot returns a consistent point-in-time copy of all counters.
func (c *Counters) Snapshot() CountersSnapshot {
	return CountersSnapshot{
		PacketsForwarded:    c.PacketsForwarded.Load(),
		PacketsDropped:      c.PacketsDropped.Load(),
		FloodsForwarded:     c.FloodsForwarded.Load(),
		FloodsAnswered:      c.FloodsAnswered.Load(),
		NacksSent:           c.NacksSent.Load(),
		ControllerShortcuts: c.ControllerShortcuts.Load(),
	}
}
