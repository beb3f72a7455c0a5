// Package swarm provides a small concurrency harness for running a set of
// drones together. Building the topology and supervising it is the
// simulation controller's job (an external collaborator of this module);
// Group only solves the orchestration chore of starting every drone's loop
// and waiting for the whole set to finish.
package swarm

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Suge42/skylink-drone/device/drone"
)

// Group runs a fixed set of drones concurrently and reports when they have
// all finished. It is not reusable once started.
type Group struct {
	eg     *errgroup.Group
	ctx    context.Context
	drones []*drone.Drone
}

// New creates a Group bound to ctx. Canceling ctx tells every member drone's
// Run loop to exit.
func New(ctx context.Context, drones ...*drone.Drone) *Group {
	eg, gctx := errgroup.WithContext(ctx)
	return &Group{eg: eg, ctx: gctx, drones: drones}
}

// Start launches every drone's Run loop in its own goroutine.
func (g *Group) Start() {
	for _, d := range g.drones {
		d := d
		g.eg.Go(func() error {
			d.Run(g.ctx)
			return nil
		})
	}
}

// Wait blocks until every drone's Run loop has returned (which each does
// once its channels close or the group's context is canceled). Run returns
// no error and each member goroutine returns nil, so Wait always returns nil.
func (g *Group) Wait() error {
	return g.eg.Wait()
}
