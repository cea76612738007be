package experiment

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

// Config drives a headless run of fixed frames.
type Config struct {
	Frames  int
	Dt      float64
	Toggles sim.Toggles
	// ValidateState stops the run at the first frame leaving a body
	// non-finite.
	ValidateState bool
	// RecordPositions keeps every body position per frame in the result.
	RecordPositions bool
}

// Result holds one sample per frame, the initial state included.
type Result struct {
	Names       []string
	Times       []float64
	Momentum    []float64
	Energy      []float64
	Positions   [][]dynamo.Vector
	Metrics     map[string]float64
	Collisions  int
	FramesTaken int
	EnergyDrift float64
}

type Experiment struct {
	cfg     Config
	sim     *sim.Simulation
	metrics []sim.Metric
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup attaches the simulation and the metrics to observe. Metrics that
// also count collisions are registered as collision observers.
func (e *Experiment) Setup(s *sim.Simulation, metrics []sim.Metric) error {
	if s == nil {
		return fmt.Errorf("experiment: nil simulation")
	}
	e.sim = s
	e.metrics = metrics
	for _, m := range metrics {
		if co, ok := m.(sim.CollisionObserver); ok {
			s.AddCollisionObserver(co)
		}
	}
	return nil
}

func (e *Experiment) validateConfig() error {
	if e.cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", e.cfg.Dt)
	}
	if e.cfg.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", e.cfg.Frames)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.sim == nil {
		return nil, ErrNotSetup
	}
	if err := e.validateConfig(); err != nil {
		return nil, err
	}

	bodies := e.sim.Bodies()
	n := e.cfg.Frames + 1
	result := &Result{
		Names:    make([]string, len(bodies)),
		Times:    make([]float64, 0, n),
		Momentum: make([]float64, 0, n),
		Energy:   make([]float64, 0, n),
		Metrics:  make(map[string]float64),
	}
	for i, b := range bodies {
		result.Names[i] = b.String()
	}
	if e.cfg.RecordPositions {
		result.Positions = make([][]dynamo.Vector, len(bodies))
		for i := range bodies {
			result.Positions[i] = make([]dynamo.Vector, 0, n)
		}
	}

	for _, m := range e.metrics {
		m.Reset()
	}
	collisions0 := e.sim.Collisions()

	e.sample(result)
	for i := 0; i < e.cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			e.finish(result, collisions0)
			return result, ctx.Err()
		default:
		}

		e.sim.Step(e.cfg.Dt, e.cfg.Toggles)
		result.FramesTaken++

		if e.cfg.ValidateState {
			if b := firstNonFinite(e.sim.Bodies()); b != nil {
				e.finish(result, collisions0)
				return result, &RunError{Frame: i, Time: e.sim.Time(), Body: b.String(), Err: dynamo.ErrNonFinite}
			}
		}
		e.sample(result)
	}

	e.finish(result, collisions0)
	return result, nil
}

// RunWithCallback steps until the callback returns false, ctx is done or
// the configured frames are exhausted.
func (e *Experiment) RunWithCallback(ctx context.Context, callback func(s *sim.Simulation) bool) error {
	if e.sim == nil {
		return ErrNotSetup
	}
	if err := e.validateConfig(); err != nil {
		return err
	}

	for i := 0; i < e.cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(e.sim) {
			return nil
		}

		e.sim.Step(e.cfg.Dt, e.cfg.Toggles)

		if e.cfg.ValidateState {
			if b := firstNonFinite(e.sim.Bodies()); b != nil {
				return &RunError{Frame: i, Time: e.sim.Time(), Body: b.String(), Err: dynamo.ErrNonFinite}
			}
		}
	}
	return nil
}

func (e *Experiment) sample(r *Result) {
	bodies := e.sim.Bodies()
	t := e.sim.Time()
	for _, m := range e.metrics {
		m.Observe(bodies, t)
	}

	r.Times = append(r.Times, t)
	r.Momentum = append(r.Momentum, e.sim.Momentum().Magnitude())
	r.Energy = append(r.Energy, e.sim.Energy())
	if r.Positions != nil {
		for i, b := range bodies {
			r.Positions[i] = append(r.Positions[i], b.Position())
		}
	}
}

func (e *Experiment) finish(r *Result, collisions0 int) {
	r.Collisions = e.sim.Collisions() - collisions0
	if len(r.Energy) > 1 && r.Energy[0] != 0 {
		first, last := r.Energy[0], r.Energy[len(r.Energy)-1]
		r.EnergyDrift = math.Abs(last-first) / math.Abs(first)
	}
	for _, m := range e.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}

// Simulation returns the underlying simulation for adding observers.
func (e *Experiment) Simulation() *sim.Simulation {
	return e.sim
}

func firstNonFinite(bodies []*dynamo.Body) *dynamo.Body {
	for _, b := range bodies {
		if !b.IsFinite() {
			return b
		}
	}
	return nil
}

