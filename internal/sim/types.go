package sim

import (
	"fmt"
	"strings"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Mode selects how the gravity pass feeds velocities.
type Mode int

const (
	// ModeReference updates velocities inside the pairwise gravity loop and
	// again in the integration pass with the last written acceleration.
	ModeReference Mode = iota
	// ModeCorrected sums every pairwise acceleration and applies gravity to
	// velocity once per sub-step, in the integration pass.
	ModeCorrected
)

func (m Mode) String() string {
	switch m {
	case ModeReference:
		return "reference"
	case ModeCorrected:
		return "corrected"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode maps a mode name to its Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "", "reference":
		return ModeReference, nil
	case "corrected":
		return ModeCorrected, nil
	}
	return 0, fmt.Errorf("unknown gravity mode: %s", name)
}

// Toggles switch the physical passes of a step on and off.
type Toggles struct {
	Gravity   bool
	Collision bool
}

// AllOn enables gravity and collisions.
func AllOn() Toggles { return Toggles{Gravity: true, Collision: true} }

const (
	// DefaultSubsteps is the number of sub-steps per Step call.
	DefaultSubsteps = 2
	// CooldownSlots is how many sub-steps a resolved pair stays immune.
	CooldownSlots = 3
)

// Config is fixed for the lifetime of a Simulation.
type Config struct {
	G        float64
	Substeps int
	Mode     Mode
}

func DefaultConfig() Config {
	return Config{
		G:        dynamo.G,
		Substeps: DefaultSubsteps,
		Mode:     ModeReference,
	}
}

// Observer is notified after every Step.
type Observer interface {
	OnStep(bodies []*dynamo.Body, t float64)
}

// CollisionObserver is notified for every resolved collision.
type CollisionObserver interface {
	OnCollision(a, b *dynamo.Body, t float64)
}

// Metric reduces the frames it observes to a single value.
type Metric interface {
	Name() string
	Observe(bodies []*dynamo.Body, t float64)
	Value() float64
	Reset()
}
