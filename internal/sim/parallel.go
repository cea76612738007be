package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Ensemble advances independent simulations concurrently. Each member is
// stepped by exactly one goroutine, so the single-threaded contract of a
// Simulation still holds.
type Ensemble struct {
	members []*Simulation
}

func NewEnsemble(members ...*Simulation) *Ensemble {
	return &Ensemble{members: members}
}

func (e *Ensemble) Members() []*Simulation { return e.members }

// Run steps every member frames times with the same dt and toggles. It stops
// early with the context error once ctx is done.
func (e *Ensemble) Run(ctx context.Context, frames int, dt float64, toggles Toggles) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, m := range e.members {
		m := m
		g.Go(func() error {
			for i := 0; i < frames; i++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				m.Step(dt, toggles)
			}
			return nil
		})
	}
	return g.Wait()
}
