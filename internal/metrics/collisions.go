package metrics

import "github.com/san-kum/gravsim/internal/dynamo"

// Collisions counts resolved collisions. Register it with
// Simulation.AddCollisionObserver; frame observations are ignored.
type Collisions struct {
	name  string
	count int
	last  float64
}

func NewCollisions() *Collisions {
	return &Collisions{name: "collisions"}
}

func (c *Collisions) Name() string { return c.name }

func (c *Collisions) OnCollision(a, b *dynamo.Body, t float64) {
	c.count++
	c.last = t
}

func (c *Collisions) Observe(bodies []*dynamo.Body, t float64) {}

func (c *Collisions) Value() float64 { return float64(c.count) }

// LastAt returns the simulated time of the most recent collision.
func (c *Collisions) LastAt() float64 { return c.last }

func (c *Collisions) Reset() {
	c.count = 0
	c.last = 0
}
