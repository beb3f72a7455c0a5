package drone

import (
	"context"
	"testing"
	"time"

	"github.com/Suge42/skylink-drone/core/node"
	"github.com/Suge42/skylink-drone/core/packet"
	"github.com/Suge42/skylink-drone/device/controller"
)

const testTimeout = time.Second

func recvPacket(t *testing.T, ch <-chan packet.Packet) packet.Packet {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for a packet")
		return packet.Packet{}
	}
}

func recvEvent(t *testing.T, ch <-chan controller.Event) controller.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for a controller event")
		return nil
	}
}

// harness wires a single running Drone (id 2, neighbours 1 and 3) to
// channels the test can drive directly, covering the relay, flood, and
// crash scenarios end to end through the real event loop.
type harness struct {
	t       *testing.T
	drone   *Drone
	cmdCh   chan controller.Command
	pktCh   chan packet.Packet
	eventCh chan controller.Event
	toHop1  chan packet.Packet
	toHop3  chan packet.Packet
	cancel  context.CancelFunc
	done    chan struct{}
}

func newHarness(t *testing.T, pdr float64) *harness {
	t.Helper()
	cmdCh := make(chan controller.Command)
	pktCh := make(chan packet.Packet, 4)
	eventCh := make(chan controller.Event, 8)
	toHop1 := make(chan packet.Packet, 4)
	toHop3 := make(chan packet.Packet, 4)

	d := New(Config{
		ID:             2,
		ControllerSend: eventCh,
		ControllerRecv: cmdCh,
		PacketRecv:     pktCh,
		InitialNeighbours: map[node.NodeId]chan<- packet.Packet{
			1: toHop1,
			3: toHop3,
		},
		InitialPDR: pdr,
		RandIntN:   func(n int) int { return 0 },
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	h := &harness{t: t, drone: d, cmdCh: cmdCh, pktCh: pktCh, eventCh: eventCh, toHop1: toHop1, toHop3: toHop3, cancel: cancel, done: done}
	t.Cleanup(func() {
		cancel()
		<-h.done
	})
	return h
}

func TestDrone_HappyPathRelay(t *testing.T) {
	h := newHarness(t, 0)
	h.pktCh <- packet.Packet{
		Kind:   packet.Fragment{FragmentIndex: 1},
		Header: packet.RoutingHeader{HopIndex: 1, Hops: []node.NodeId{1, 2, 3}},
	}

	fwd := recvPacket(t, h.toHop3)
	if fwd.Header.HopIndex != 2 {
		t.Errorf("forwarded HopIndex = %d, want 2", fwd.Header.HopIndex)
	}
	ev := recvEvent(t, h.eventCh)
	if _, ok := ev.(controller.PacketSent); !ok {
		t.Errorf("event = %T, want PacketSent", ev)
	}
}

func TestDrone_MisroutedFragmentIsNackedToPreviousHop(t *testing.T) {
	h := newHarness(t, 0)
	// Addressed to node 5, but this drone (2) is the one receiving it.
	h.pktCh <- packet.Packet{
		Kind:   packet.Fragment{FragmentIndex: 1},
		Header: packet.RoutingHeader{HopIndex: 1, Hops: []node.NodeId{1, 5, 3}},
	}

	nackPkt := recvPacket(t, h.toHop1)
	nack, ok := nackPkt.Kind.(packet.Nack)
	if !ok || nack.Type != packet.UnexpectedRecipient {
		t.Fatalf("Kind = %+v, want an UnexpectedRecipient nack", nackPkt.Kind)
	}
}

func TestDrone_SelfOriginatedDropEmitsPacketDropped(t *testing.T) {
	h := newHarness(t, 1) // PDR 1.0: always drop
	h.pktCh <- packet.Packet{
		Kind:   packet.Fragment{FragmentIndex: 1},
		Header: packet.RoutingHeader{HopIndex: 0, Hops: []node.NodeId{2, 3}},
	}

	ev := recvEvent(t, h.eventCh)
	if _, ok := ev.(controller.PacketDropped); !ok {
		t.Fatalf("event = %T, want PacketDropped", ev)
	}
}

func TestDrone_DropOfTransitFragmentRoutesNackTowardSource(t *testing.T) {
	h := newHarness(t, 1) // PDR 1.0: always drop
	h.pktCh <- packet.Packet{
		Kind:   packet.Fragment{FragmentIndex: 1},
		Header: packet.RoutingHeader{HopIndex: 1, Hops: []node.NodeId{1, 2, 3}},
	}

	nackPkt := recvPacket(t, h.toHop1)
	nack, ok := nackPkt.Kind.(packet.Nack)
	if !ok || nack.Type != packet.Dropped {
		t.Fatalf("Kind = %+v, want a Dropped nack routed back toward node 1", nackPkt.Kind)
	}
}

func TestDrone_FloodRequestIsRebroadcastToOtherNeighbours(t *testing.T) {
	h := newHarness(t, 0)
	h.pktCh <- packet.Packet{
		Kind: packet.FloodRequest{
			FloodID:     1,
			InitiatorID: 9,
			PathTrace:   []packet.PathEntry{{ID: 9, Kind: node.Client}},
		},
	}

	fwd := recvPacket(t, h.toHop3)
	if _, ok := fwd.Kind.(packet.FloodRequest); !ok {
		t.Errorf("Kind = %T, want FloodRequest rebroadcast to the other neighbour", fwd.Kind)
	}
}

func TestDrone_CrashStopsForwardingFragmentsButKeepsCommandsWorking(t *testing.T) {
	h := newHarness(t, 0)
	h.cmdCh <- controller.Crash{}

	// A command sent right after Crash must still be observed (RemoveSender
	// has effect even while crashing): prove the loop is alive and servicing
	// ControllerRecv before checking packet behavior.
	h.cmdCh <- controller.RemoveSender{NodeId: 3}

	h.pktCh <- packet.Packet{
		Kind:   packet.Fragment{FragmentIndex: 1},
		Header: packet.RoutingHeader{HopIndex: 1, Hops: []node.NodeId{1, 2, 3}},
	}
	nackPkt := recvPacket(t, h.toHop1)
	if _, ok := nackPkt.Kind.(packet.Nack); !ok {
		t.Fatalf("Kind = %T, want a Nack: a crashing drone must refuse new Fragment traffic", nackPkt.Kind)
	}
}

func TestDrone_RunExitsWhenBothChannelsClose(t *testing.T) {
	cmdCh := make(chan controller.Command)
	pktCh := make(chan packet.Packet)
	eventCh := make(chan controller.Event, 1)

	d := New(Config{
		ID:             1,
		ControllerSend: eventCh,
		ControllerRecv: cmdCh,
		PacketRecv:     pktCh,
	})

	done := make(chan struct{})
	go func() {
		d.Run(context.Background())
		close(done)
	}()

	close(cmdCh)
	close(pktCh)

	select {
	case <-done:
	case <-time.After(testTimeout):
		t.Fatal("Run did not return after both channels closed")
	}
}
