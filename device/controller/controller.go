// Package controller defines the command/event protocol between a drone and
// the simulation controller that supervises it. The controller itself is an
// external collaborator — this package only specifies the shapes that cross
// the boundary.
package controller

import (
	"github.com/Suge42/skylink-drone/core/node"
	"github.com/Suge42/skylink-drone/core/packet"
)

// Command is the closed sum of directives a controller may send to a drone.
type Command interface {
	isCommand()
}

// AddSender installs (or overwrites) a channel to a neighbour.
type AddSender struct {
	NodeId  node.NodeId
	Channel chan<- packet.Packet
}

func (AddSender) isCommand() {}

// RemoveSender releases the channel to a neighbour, if any.
type RemoveSender struct {
	NodeId node.NodeId
}

func (RemoveSender) isCommand() {}

// SetPacketDropRate updates the drone's packet-drop rate. Rate is a
// real number; the drone clamps it to [0,1] before scaling it to a permille
// value internally.
type SetPacketDropRate struct {
	Rate float64
}

func (SetPacketDropRate) isCommand() {}

// Crash begins a graceful, irreversible shutdown of the drone.
type Crash struct{}

func (Crash) isCommand() {}

// Event is the closed sum of notifications a drone emits to its controller.
type Event interface {
	isEvent()
}

// PacketSent reports a packet successfully handed to a neighbour channel.
type PacketSent struct {
	Packet packet.Packet
}

func (PacketSent) isEvent() {}

// PacketDropped reports a self-originated fragment discarded by the PDR
// check.
type PacketDropped struct {
	Packet packet.Packet
}

func (PacketDropped) isEvent() {}

// ControllerShortcut hands the controller a packet this drone could not
// route itself.
type ControllerShortcut struct {
	Packet packet.Packet
}

func (ControllerShortcut) isEvent() {}
