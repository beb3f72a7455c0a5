package drone

import (
	"io"
	"log/slog"

	"github.com/Suge42/skylink-drone/core/dedupe"
	"github.com/Suge42/skylink-drone/core/node"
	"github.com/Suge42/skylink-drone/core/packet"
	"github.com/Suge42/skylink-drone/device/controller"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testDrone builds a Drone with fields set directly, bypassing New, so unit
// tests can exercise individual methods (applyChecks, forward, ...) without
// running the event loop. Its controller channel is buffered so the events
// those methods emit never block; a test that inspects events replaces it.
func testDrone(id node.NodeId, neighbours map[node.NodeId]chan<- packet.Packet) *Drone {
	return &Drone{
		cfg:        Config{ControllerSend: make(chan controller.Event, 16)},
		log:        discardLogger(),
		randIntN:   func(n int) int { return 0 }, // never drops unless overridden
		id:         id,
		neighbours: neighbours,
		seen:       dedupe.New(),
	}
}

func newChan(buf int) chan packet.Packet {
	return make(chan packet.Packet, buf)
}
