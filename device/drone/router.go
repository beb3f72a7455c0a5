package drone

import (
	"github.com/Suge42/skylink-drone/core/packet"
	"github.com/Suge42/skylink-drone/device/controller"
)

// forward sends a packet that passed every check (spec.md §4.3). nh is the
// next hop, already advanced into by the check pipeline.
func (d *Drone) forward(pkt packet.Packet) {
	nh := pkt.Header.Hops[pkt.Header.HopIndex]

	if d.trySend(nh, pkt) {
		d.Counters.PacketsForwarded.Add(1)
		d.sendEvent(controller.PacketSent{Packet: pkt})
		return
	}

	// Send failed (or the neighbour was never known): evict it, then
	// translate the failure into a nack for Fragments, or a controller
	// shortcut for everything else.
	d.log.Debug("evicting unreachable neighbour", "neighbour", nh)
	delete(d.neighbours, nh)

	if _, ok := pkt.Kind.(packet.Fragment); ok {
		nack := d.createNack(d.id, pkt, packet.ErrorInRouting, nh)
		d.sendNack(nack.Header.Hops[1], nack)
		return
	}

	d.Counters.ControllerShortcuts.Add(1)
	d.sendEvent(controller.ControllerShortcut{Packet: pkt})
}

// handleCheckFailure dispatches an already-addressed packet surfaced by a
// failed check (spec.md §4.3's failure arm).
func (d *Drone) handleCheckFailure(original, errPkt packet.Packet) {
	nack, isNack := errPkt.Kind.(packet.Nack)
	if !isNack {
		// A non-Fragment packet the checks refused to touch: surface it to
		// the controller shortcut unchanged.
		d.Counters.ControllerShortcuts.Add(1)
		d.sendEvent(controller.ControllerShortcut{Packet: errPkt})
		return
	}

	switch nack.Type {
	case packet.UnexpectedRecipient:
		// This drone was never on the intended path; the normal "next hop"
		// doesn't apply, so route starting from the newly reversed route's
		// first entry.
		d.sendNack(errPkt.Header.Hops[0], errPkt)

	case packet.Dropped:
		// original.Header.Hops[0] is the original packet's source, which is
		// also where the Dropped nack is ultimately headed (the nack's
		// route is the reverse of the original's prefix up to self).
		originalSource := original.Header.Hops[0]
		if originalSource == d.id {
			d.Counters.PacketsDropped.Add(1)
			d.sendEvent(controller.PacketDropped{Packet: original})
			return
		}
		d.handlePacket(errPkt)

	default: // DestinationIsDrone, ErrorInRouting
		d.handlePacket(errPkt)
	}
}
