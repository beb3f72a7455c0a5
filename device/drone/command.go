package drone

import (
	"github.com/Suge42/skylink-drone/core/packet"
	"github.com/Suge42/skylink-drone/device/controller"
)

// handleCommand mutates drone configuration in running mode (spec.md §4.6).
func (d *Drone) handleCommand(cmd controller.Command) {
	switch c := cmd.(type) {
	case controller.AddSender:
		d.neighbours[c.NodeId] = c.Channel

	case controller.RemoveSender:
		delete(d.neighbours, c.NodeId)

	case controller.SetPacketDropRate:
		d.pdrPermille = clampPDR(c.Rate)

	case controller.Crash:
		d.crashing = true
		d.log.Info("crashing")
	}
}

// crashingHandleCommand is the crash-mode command handler (spec.md §4.1):
// only RemoveSender has any effect; every other command is discarded so
// configuration cannot be mutated once a drone has begun tearing down.
func (d *Drone) crashingHandleCommand(cmd controller.Command) {
	if rm, ok := cmd.(controller.RemoveSender); ok {
		delete(d.neighbours, rm.NodeId)
	}
}

// crashingHandlePacket routes an inbound packet while crashing (spec.md §4.7).
func (d *Drone) crashingHandlePacket(pkt packet.Packet) {
	switch pkt.Kind.(type) {
	case packet.Fragment:
		// A crashing drone refuses all new user traffic: synthesise the
		// nack directly, bypassing the check pipeline, and send it back
		// along the originating hop.
		nack := d.createNack(d.id, pkt, packet.ErrorInRouting, d.id)
		d.sendNack(nack.Header.Hops[1], nack)

	case packet.FloodRequest:
		// Flood cycles must not propagate through a node about to disappear.

	default:
		// Ack, Nack, FloodResponse: these may be in-flight responses that
		// neighbours rely on for their own teardown.
		d.handlePacket(pkt)
	}
}
