package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
)

type Registry struct {
	modes   map[string]sim.Mode
	metrics map[string]func(g float64) sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		modes:   make(map[string]sim.Mode),
		metrics: make(map[string]func(g float64) sim.Metric),
	}

	r.modes[sim.ModeReference.String()] = sim.ModeReference
	r.modes[sim.ModeCorrected.String()] = sim.ModeCorrected

	r.metrics["energy"] = func(g float64) sim.Metric { return metrics.NewEnergy(g) }
	r.metrics["energy_drift"] = func(g float64) sim.Metric { return metrics.NewEnergyDrift(g) }
	r.metrics["momentum_drift"] = func(float64) sim.Metric { return metrics.NewMomentumDrift() }
	r.metrics["center_drift"] = func(float64) sim.Metric { return metrics.NewCenterDrift() }
	r.metrics["collisions"] = func(float64) sim.Metric { return metrics.NewCollisions() }
	r.metrics["stability"] = func(float64) sim.Metric { return metrics.NewStability(1e15) }

	return r
}

func (r *Registry) GetMode(name string) (sim.Mode, error) {
	m, ok := r.modes[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q (have %v)", ErrUnknownMode, name, r.ListModes())
	}
	return m, nil
}

func (r *Registry) GetMetric(name string, g float64) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownMetric, name, r.ListMetrics())
	}
	return fn(g), nil
}

// Metrics resolves names to fresh metrics. No names means DefaultMetrics.
func (r *Registry) Metrics(names []string, g float64) ([]sim.Metric, error) {
	if len(names) == 0 {
		return r.DefaultMetrics(g), nil
	}
	ms := make([]sim.Metric, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		m, err := r.GetMetric(name, g)
		if err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	return ms, nil
}

func (r *Registry) GetScenario(name string) (*config.Config, error) {
	return config.Scenario(name, "")
}

func (r *Registry) ListModes() []string {
	return sortedKeys(r.modes)
}

func (r *Registry) ListMetrics() []string {
	return sortedKeys(r.metrics)
}

func (r *Registry) ListScenarios() []string {
	return config.ListPresets()
}

// DefaultMetrics returns the conservation and collision metrics every run
// reports.
func (r *Registry) DefaultMetrics(g float64) []sim.Metric {
	return []sim.Metric{
		metrics.NewMomentumDrift(),
		metrics.NewEnergyDrift(g),
		metrics.NewCenterDrift(),
		metrics.NewCollisions(),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
