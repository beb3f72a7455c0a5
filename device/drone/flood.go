package drone

import (
	"github.com/Suge42/skylink-drone/core/dedupe"
	"github.com/Suge42/skylink-drone/core/node"
	"github.com/Suge42/skylink-drone/core/packet"
	"github.com/Suge42/skylink-drone/device/controller"
)

// handleFloodRequest implements the flood engine (spec.md §4.4). A
// FloodRequest bypasses RoutingHeader entirely: its route is PathTrace, not
// the packet's routing header.
func (d *Drone) handleFloodRequest(pkt packet.Packet, fr packet.FloodRequest) {
	trace := appendPathEntry(fr.PathTrace, packet.PathEntry{ID: d.id, Kind: node.Drone})

	key := dedupe.Key{FloodID: fr.FloodID, InitiatorID: fr.InitiatorID}
	if !d.seen.Insert(key) {
		// Already seen: the wave terminates here without rebroadcast —
		// seen_floods is the only cycle-breaker.
		d.answerFlood(fr.FloodID, fr.InitiatorID, trace)
		return
	}

	if len(d.neighbours) == 1 {
		d.answerFlood(fr.FloodID, fr.InitiatorID, trace)
		return
	}

	predecessor := fr.InitiatorID
	if len(trace) > 1 {
		predecessor = trace[len(trace)-2].ID
	}

	updated := packet.Packet{
		Kind:      packet.FloodRequest{FloodID: fr.FloodID, InitiatorID: fr.InitiatorID, PathTrace: trace},
		Header:    pkt.Header,
		SessionID: pkt.SessionID,
	}

	forwarded := false
	for id := range d.neighbours {
		if id == predecessor {
			continue
		}
		clone := updated.Clone()
		if d.trySend(id, clone) {
			forwarded = true
			d.Counters.PacketsForwarded.Add(1)
			d.sendEvent(controller.PacketSent{Packet: clone})
		}
		// Send failures to individual neighbours are silently ignored: the
		// flood is best-effort.
	}
	if forwarded {
		d.Counters.FloodsForwarded.Add(1)
	}
}

// answerFlood synthesises a FloodResponse for trace and feeds it back
// through the normal packet-handling path so it undergoes the check
// pipeline and is forwarded one hop toward the initiator.
func (d *Drone) answerFlood(floodID uint64, initiatorID node.NodeId, trace []packet.PathEntry) {
	d.handlePacket(floodResponseFor(floodID, initiatorID, trace))
	d.Counters.FloodsAnswered.Add(1)
}

// floodResponseFor builds the FloodResponse packet for a (possibly
// duplicate-terminated) path trace (spec.md §4.4.1).
func floodResponseFor(floodID uint64, initiatorID node.NodeId, trace []packet.PathEntry) packet.Packet {
	hops := make([]node.NodeId, len(trace))
	for i, entry := range trace {
		hops[len(trace)-1-i] = entry.ID
	}
	if trace[0].ID != initiatorID {
		hops = append(hops, initiatorID)
	}

	traceCopy := make([]packet.PathEntry, len(trace))
	copy(traceCopy, trace)

	return packet.Packet{
		Kind:      packet.FloodResponse{FloodID: floodID, PathTrace: traceCopy},
		Header:    packet.RoutingHeader{HopIndex: 0, Hops: hops},
		SessionID: floodID,
	}
}

// appendPathEntry returns a new slice with entry appended, never mutating
// trace's backing array — the inbound packet's trace may still be
// referenced elsewhere (e.g. by other neighbours sharing the same receive).
func appendPathEntry(trace []packet.PathEntry, entry packet.PathEntry) []packet.PathEntry {
	out := make([]packet.PathEntry, len(trace)+1)
	copy(out, trace)
	out[len(trace)] = entry
	return out
}
