// Package drone implements a single node of a simulated source-routed
// packet swarm: hop-by-hop fragment forwarding, a network-discovery flood
// protocol, stochastic packet dropping, nack generation, and a graceful
// crash shutdown that keeps serving its neighbours' teardown traffic.
//
// A Drone owns its entire state and runs it from a single goroutine (Run).
// All cross-goroutine communication happens over channels; no lock guards
// a Drone's fields.
package drone

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/Suge42/skylink-drone/core/dedupe"
	"github.com/Suge42/skylink-drone/core/node"
	"github.com/Suge42/skylink-drone/core/packet"
	"github.com/Suge42/skylink-drone/device/controller"
)

// Config configures a Drone. ID, ControllerSend, ControllerRecv, and
// PacketRecv are required; everything else has a usable zero value or is
// defaulted by New.
type Config struct {
	// ID is this drone's identity. Immutable after construction.
	ID node.NodeId

	// ControllerSend is where the drone emits PacketSent/PacketDropped/
	// ControllerShortcut events. Assumed always-available: a send failure
	// here is a fatal invariant violation, not a recoverable error.
	ControllerSend chan<- controller.Event

	// ControllerRecv carries commands from the controller.
	ControllerRecv <-chan controller.Command

	// PacketRecv carries packets multiplexed from every neighbour.
	PacketRecv <-chan packet.Packet

	// InitialNeighbours seeds the drone's outbound channel table. Must not
	// contain this drone's own id.
	InitialNeighbours map[node.NodeId]chan<- packet.Packet

	// InitialPDR is a real-valued packet-drop probability in [0,1];
	// out-of-range values are clamped before scaling to a permille value.
	InitialPDR float64

	// Logger receives drone activity. Falls back to slog.Default() if nil.
	Logger *slog.Logger

	// RandIntN draws a uniform integer in [0,n). Falls back to
	// math/rand/v2's package-level IntN if nil; overridable for
	// deterministic PDR tests.
	RandIntN func(n int) int
}

// Drone is one node of the swarm. It is not safe for concurrent use from
// outside its own Run goroutine.
type Drone struct {
	cfg      Config
	log      *slog.Logger
	randIntN func(n int) int

	id          node.NodeId
	pdrPermille int
	neighbours  map[node.NodeId]chan<- packet.Packet
	seen        *dedupe.Seen
	crashing    bool

	Counters Counters
}

// New creates a Drone from cfg. InitialPDR is clamped to [0,1] and scaled to
// a permille value exactly as spec.md requires.
func New(cfg Config) *Drone {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	randIntN := cfg.RandIntN
	if randIntN == nil {
		randIntN = rand.IntN
	}

	neighbours := make(map[node.NodeId]chan<- packet.Packet, len(cfg.InitialNeighbours))
	for id, ch := range cfg.InitialNeighbours {
		neighbours[id] = ch
	}

	return &Drone{
		cfg:         cfg,
		log:         logger.WithGroup("drone").With("id", cfg.ID),
		randIntN:    randIntN,
		id:          cfg.ID,
		pdrPermille: clampPDR(cfg.InitialPDR),
		neighbours:  neighbours,
		seen:        dedupe.New(),
	}
}

// ID returns this drone's identity.
func (d *Drone) ID() node.NodeId { return d.id }

// PDRPermille returns the current packet-drop rate, an integer in [0,100].
func (d *Drone) PDRPermille() int { return d.pdrPermille }

// clampPDR clamps a real-valued rate to [0,1] and scales it to an integer
// in [0,100], truncating any fractional percent.
func clampPDR(rate float64) int {
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	return int(rate * 100)
}

// Run drives the drone's event loop until both the command and packet
// channels are observed closed. ctx lets a host force an early exit (for
// example in a wedged test); the protocol's own termination path is the
// crash sequence described below and does not require ctx to be canceled.
//
// Each iteration gives the command channel strict priority over the packet
// channel: a non-blocking poll of ControllerRecv runs first, and only falls
// through to the two-way blocking select when nothing is immediately ready.
// This is the Go rendering of a biased select — configuration changes,
// especially RemoveSender and Crash, can never be starved by packet
// traffic.
func (d *Drone) Run(ctx context.Context) {
	cmdClosed, pktClosed := false, false

	for {
		if ctx.Err() != nil {
			return
		}

		if !cmdClosed {
			select {
			case cmd, ok := <-d.cfg.ControllerRecv:
				if !ok {
					cmdClosed = true
				} else {
					d.dispatchCommand(cmd)
				}
				continue
			default:
			}
		}

		if cmdClosed && pktClosed {
			return
		}

		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-blockingIfOpen(d.cfg.ControllerRecv, cmdClosed):
			if !ok {
				cmdClosed = true
				continue
			}
			d.dispatchCommand(cmd)
		case pkt, ok := <-blockingIfOpen(d.cfg.PacketRecv, pktClosed):
			if !ok {
				pktClosed = true
				continue
			}
			d.dispatchPacket(pkt)
		}
	}
}

// blockingIfOpen returns ch unless closed is true, in which case it returns
// nil — a nil channel blocks forever in a select, which is exactly how we
// want an already-closed endpoint to behave: excluded from consideration
// without causing a tight busy-loop of zero-value receives.
func blockingIfOpen[T any](ch <-chan T, closed bool) <-chan T {
	if closed {
		return nil
	}
	return ch
}

// dispatchCommand routes a command to the running-mode or crashing-mode
// handler depending on the drone's current state.
func (d *Drone) dispatchCommand(cmd controller.Command) {
	if d.crashing {
		d.crashingHandleCommand(cmd)
		return
	}
	d.handleCommand(cmd)
}

// dispatchPacket routes an inbound packet to the running-mode or
// crashing-mode handler depending on the drone's current state.
func (d *Drone) dispatchPacket(pkt packet.Packet) {
	if d.crashing {
		d.crashingHandlePacket(pkt)
		return
	}
	d.handlePacket(pkt)
}

// handlePacket is the running-mode packet entry point (spec.md §4.4/§4.2/§4.3).
// A FloodRequest bypasses the routing header entirely and is handled by the
// flood engine; everything else goes through the check pipeline and router.
func (d *Drone) handlePacket(pkt packet.Packet) {
	if fr, ok := pkt.Kind.(packet.FloodRequest); ok {
		d.handleFloodRequest(pkt, fr)
		return
	}

	checked, passed := d.applyChecks(pkt)
	if passed {
		d.forward(checked)
		return
	}
	d.handleCheckFailure(pkt, checked)
}

// sendEvent reports an event to the controller. The controller channel is
// assumed always-available (spec.md §5); a blocked or full channel here
// indicates the controller itself has wedged, which is outside this
// module's failure model, so the send is allowed to block the loop rather
// than be silently dropped.
func (d *Drone) sendEvent(ev controller.Event) {
	d.cfg.ControllerSend <- ev
}

// trySend attempts a non-blocking send to neighbour id. It reports whether
// the send succeeded. A neighbour with no registered channel, or whose
// channel is full or whose receiver is gone, is treated identically: the
// send did not happen (spec.md §5 — bounded-channel fullness is
// indistinguishable from an unreachable receiver from this drone's point of
// view).
func (d *Drone) trySend(id node.NodeId, pkt packet.Packet) bool {
	ch, ok := d.neighbours[id]
	if !ok {
		return false
	}
	select {
	case ch <- pkt:
		return true
	default:
		return false
	}
}
