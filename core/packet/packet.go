// Package packet defines the in-process packet value carried between a
// drone and its neighbours. The wire format is intentionally unspecified:
// a Packet is a typed Go value, never bytes-on-the-wire — serialization and
// transport are external collaborators of this module.
package packet

import "github.com/Suge42/skylink-drone/core/node"

// RoutingHeader is the source route fixed by the packet's original sender.
// Hops[HopIndex] is the intended current receiver.
type RoutingHeader struct {
	HopIndex int
	Hops     []node.NodeId
}

// Clone returns a RoutingHeader with its own copy of Hops, so a forwarded
// packet's header can be mutated without aliasing the sender's original.
func (h RoutingHeader) Clone() RoutingHeader {
	hops := make([]node.NodeId, len(h.Hops))
	copy(hops, h.Hops)
	return RoutingHeader{HopIndex: h.HopIndex, Hops: hops}
}

// Kind is the sum type of payloads a Packet may carry: Fragment, Ack, Nack,
// FloodRequest, or FloodResponse. It is a closed set — every implementation
// lives in this package.
type Kind interface {
	packetKind()
}

// Fragment is a user-data fragment in transit. Its own payload bytes are
// out of scope for this module; only the index needed to correlate a Nack
// back to it is modeled.
type Fragment struct {
	FragmentIndex uint64
}

func (Fragment) packetKind() {}

// Ack is a positive acknowledgement, routed like any other packet.
type Ack struct {
	FragmentIndex uint64
}

func (Ack) packetKind() {}

// NackType enumerates the reasons a drone refuses to deliver a Fragment.
type NackType int

const (
	// Dropped marks a fragment discarded by the PDR check.
	Dropped NackType = iota
	// DestinationIsDrone marks a fragment whose destination is this drone,
	// which is never a valid endpoint for user traffic.
	DestinationIsDrone
	// ErrorInRouting marks a fragment whose next hop is not a known neighbour.
	ErrorInRouting
	// UnexpectedRecipient marks a fragment addressed to a different node.
	UnexpectedRecipient
)

func (t NackType) String() string {
	switch t {
	case Dropped:
		return "Dropped"
	case DestinationIsDrone:
		return "DestinationIsDrone"
	case ErrorInRouting:
		return "ErrorInRouting"
	case UnexpectedRecipient:
		return "UnexpectedRecipient"
	default:
		return "Unknown"
	}
}

// Nack is a negative acknowledgement synthesised by a drone. OffendingNextHop
// is populated only for ErrorInRouting; ActualReceiver only for
// UnexpectedRecipient.
type Nack struct {
	FragmentIndex    uint64
	Type             NackType
	OffendingNextHop node.NodeId
	ActualReceiver   node.NodeId
}

func (Nack) packetKind() {}

// PathEntry records one hop of a flood wave's traversal.
type PathEntry struct {
	ID   node.NodeId
	Kind node.NodeKind
}

// FloodRequest is a network-discovery broadcast. It bypasses RoutingHeader
// entirely — PathTrace is its route.
type FloodRequest struct {
	FloodID     uint64
	InitiatorID node.NodeId
	PathTrace   []PathEntry
}

func (FloodRequest) packetKind() {}

// Clone returns a FloodRequest with its own copy of PathTrace.
func (f FloodRequest) Clone() FloodRequest {
	trace := make([]PathEntry, len(f.PathTrace))
	copy(trace, f.PathTrace)
	return FloodRequest{FloodID: f.FloodID, InitiatorID: f.InitiatorID, PathTrace: trace}
}

// FloodResponse carries the final path trace of an answered flood wave back
// toward its initiator.
type FloodResponse struct {
	FloodID   uint64
	PathTrace []PathEntry
}

func (FloodResponse) packetKind() {}

// Packet is the unit of work passed through a drone's packet channel.
type Packet struct {
	Kind      Kind
	Header    RoutingHeader
	SessionID uint64
}

// Clone returns a Packet with its own copy of Header.Hops and, for a
// FloodRequest, its own copy of PathTrace. Required before broadcasting the
// same wave to multiple neighbours so each send can mutate independently.
func (p Packet) Clone() Packet {
	clone := Packet{Kind: p.Kind, Header: p.Header.Clone(), SessionID: p.SessionID}
	if fr, ok := p.Kind.(FloodRequest); ok {
		clone.Kind = fr.Clone()
	}
	return clone
}
