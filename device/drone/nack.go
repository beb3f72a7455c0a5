package drone

import (
	"fmt"

	"github.com/Suge42/skylink-drone/core/node"
	"github.com/Suge42/skylink-drone/core/packet"
	"github.com/Suge42/skylink-drone/device/controller"
)

// createNack builds a Nack packet addressed back toward startingID — the
// node the nack should appear to be sent from, usually this drone's own id
// but hops[hop_index-1] in the UnexpectedRecipient case. payload carries the
// variant-specific value: the offending next hop for ErrorInRouting, or the
// actual receiver for UnexpectedRecipient; it is ignored for every other
// NackType.
//
// createNack panics if startingID does not appear in p's hop list. The
// check pipeline only ever calls this on a packet it has already placed
// startingID into, so a missing entry means an internal invariant was
// violated, not a malformed external input (spec.md §7).
func (d *Drone) createNack(startingID node.NodeId, p packet.Packet, nackType packet.NackType, payload node.NodeId) packet.Packet {
	var fragmentIndex uint64
	if frag, ok := p.Kind.(packet.Fragment); ok {
		fragmentIndex = frag.FragmentIndex
	}

	position := -1
	for i, id := range p.Header.Hops {
		if id == startingID {
			position = i
			break
		}
	}
	if position == -1 {
		panic(fmt.Sprintf("drone: createNack: starting id %s not found in hops %v", startingID, p.Header.Hops))
	}

	hops := make([]node.NodeId, position+1)
	for i := 0; i <= position; i++ {
		hops[i] = p.Header.Hops[position-i]
	}

	nack := packet.Nack{FragmentIndex: fragmentIndex, Type: nackType}
	switch nackType {
	case packet.ErrorInRouting:
		nack.OffendingNextHop = payload
	case packet.UnexpectedRecipient:
		nack.ActualReceiver = payload
	}

	return packet.Packet{
		Kind:      nack,
		Header:    packet.RoutingHeader{HopIndex: 0, Hops: hops},
		SessionID: p.SessionID,
	}
}

// sendNack forwards a nack toward target. If target is a known neighbour,
// the nack's hop index is advanced and it is sent on, emitting PacketSent;
// otherwise it is handed to the controller shortcut.
func (d *Drone) sendNack(target node.NodeId, nack packet.Packet) {
	if _, ok := d.neighbours[target]; ok {
		nack.Header.HopIndex++
		if d.trySend(target, nack) {
			d.Counters.NacksSent.Add(1)
			d.sendEvent(controller.PacketSent{Packet: nack})
			return
		}
	}
	d.Counters.ControllerShortcuts.Add(1)
	d.sendEvent(controller.ControllerShortcut{Packet: nack})
}
