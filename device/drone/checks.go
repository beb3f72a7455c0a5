package drone

import "github.com/Suge42/skylink-drone/core/packet"

// applyChecks runs the validation pipeline (spec.md §4.2) over a non-flood
// packet: four checks, with the hop-index advance after the first. It returns (result, true) when every check passes —
// result is the packet with its hop index advanced, ready to forward. It
// returns (result, false) when a check fails — result is the
// already-addressed replacement packet the router should forward verbatim
// (either a synthesised Nack for a Fragment, or the untouched original for
// any other packet class, surfaced so the router can hand it to the
// controller shortcut).
func (d *Drone) applyChecks(pkt packet.Packet) (packet.Packet, bool) {
	pkt, ok := d.idHopMatchCheck(pkt)
	if !ok {
		return pkt, false
	}

	pkt = advanceHop(pkt)

	pkt, ok = d.finalDestinationCheck(pkt)
	if !ok {
		return pkt, false
	}

	pkt, ok = d.pdrCheck(pkt)
	if !ok {
		return pkt, false
	}

	pkt, ok = d.nextHopKnownCheck(pkt)
	if !ok {
		return pkt, false
	}

	return pkt, true
}

// idHopMatchCheck fails if hops[hop_index] is not this drone's id. A
// Fragment fails with an UnexpectedRecipient nack routed back to the
// previous hop; any other packet class is surfaced unchanged for the
// controller shortcut.
func (d *Drone) idHopMatchCheck(pkt packet.Packet) (packet.Packet, bool) {
	hdr := pkt.Header
	if hdr.Hops[hdr.HopIndex] == d.id {
		return pkt, true
	}

	if _, ok := pkt.Kind.(packet.Fragment); ok {
		previousHop := hdr.Hops[hdr.HopIndex-1]
		return d.createNack(previousHop, pkt, packet.UnexpectedRecipient, d.id), false
	}
	return pkt, false
}

// advanceHop increments hop_index when there is a next entry to advance
// into, and leaves it unchanged when this drone is the last entry — the
// conditional-advance variant spec.md §9 adopts, so the final-destination
// check below always sees a legal index.
func advanceHop(pkt packet.Packet) packet.Packet {
	if pkt.Header.HopIndex+1 < len(pkt.Header.Hops) {
		pkt.Header.HopIndex++
	}
	return pkt
}

// finalDestinationCheck fails if, after advancing, this drone is itself the
// destination — a drone is never a valid endpoint for user traffic.
func (d *Drone) finalDestinationCheck(pkt packet.Packet) (packet.Packet, bool) {
	hdr := pkt.Header
	if hdr.Hops[hdr.HopIndex] != d.id {
		return pkt, true
	}

	if _, ok := pkt.Kind.(packet.Fragment); ok {
		return d.createNack(d.id, pkt, packet.DestinationIsDrone, 0), false
	}
	return pkt, false
}

// pdrCheck draws a uniform integer in [0,100) for Fragments only; a draw
// strictly less than the configured PDR fails the check with a Dropped
// nack. PDR=0 never drops; PDR=100 always drops.
func (d *Drone) pdrCheck(pkt packet.Packet) (packet.Packet, bool) {
	if _, ok := pkt.Kind.(packet.Fragment); !ok {
		return pkt, true
	}

	draw := d.randIntN(100)
	if draw < d.pdrPermille {
		return d.createNack(d.id, pkt, packet.Dropped, 0), false
	}
	return pkt, true
}

// nextHopKnownCheck fails if the (advanced) new current hop is not a known
// neighbour.
func (d *Drone) nextHopKnownCheck(pkt packet.Packet) (packet.Packet, bool) {
	hdr := pkt.Header
	nextHop := hdr.Hops[hdr.HopIndex]
	if _, ok := d.neighbours[nextHop]; ok {
		return pkt, true
	}

	if _, ok := pkt.Kind.(packet.Fragment); ok {
		return d.createNack(d.id, pkt, packet.ErrorInRouting, nextHop), false
	}
	return pkt, false
}
