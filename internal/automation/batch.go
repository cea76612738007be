package automation

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/storage"
)

// Batch is a scripted sequence of headless runs.
type Batch struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Steps       []BatchStep `yaml:"steps"`
}

// BatchStep runs one scenario. Scenario names a preset; Config, when set,
// loads a scenario file instead. Zero fields keep the scenario's values and
// no Metrics means the default set.
type BatchStep struct {
	Scenario  string   `yaml:"scenario"`
	Config    string   `yaml:"config"`
	Mode      string   `yaml:"mode"`
	Substeps  int      `yaml:"substeps"`
	Frames    int      `yaml:"frames"`
	Dt        float64  `yaml:"dt"`
	Gravity   *bool    `yaml:"gravity"`
	Collision *bool    `yaml:"collision"`
	Metrics   []string `yaml:"metrics"`
	Save      bool     `yaml:"save"`
}

// StepResult is the outcome of one batch step. RunID is set when the step
// was stored.
type StepResult struct {
	Step   BatchStep
	Info   export.RunInfo
	Result *experiment.Result
	RunID  string
}

// LoadBatch loads a batch from a YAML file
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("automation: parse %s: %w", path, err)
	}
	if len(batch.Steps) == 0 {
		return nil, fmt.Errorf("automation: %s has no steps", path)
	}

	return &batch, nil
}

// scenario resolves the step's scenario and applies its overrides.
func (s BatchStep) scenario() (*config.Config, error) {
	cfg, err := config.Scenario(s.Scenario, s.Config)
	if err != nil {
		return nil, err
	}
	if s.Mode != "" {
		cfg.Mode = s.Mode
	}
	if s.Substeps > 0 {
		cfg.Substeps = s.Substeps
	}
	if s.Gravity != nil {
		cfg.Physics.Gravity = *s.Gravity
	}
	if s.Collision != nil {
		cfg.Physics.Collision = *s.Collision
	}
	return cfg, cfg.Validate()
}

// RunBatch executes all steps in order. Steps with Save set are written to
// st, which may be nil when no step saves.
func RunBatch(ctx context.Context, batch *Batch, st *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(batch.Steps))
	registry := experiment.NewRegistry()

	for i, step := range batch.Steps {
		cfg, err := step.scenario()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		fmt.Printf("Running step %d/%d: %s (%s)\n", i+1, len(batch.Steps), cfg.Name, cfg.Mode)

		frames := step.Frames
		if frames <= 0 {
			frames = 1000
		}
		dt := step.Dt
		if dt <= 0 {
			dt = cfg.TimeScale / 60
		}

		s, err := cfg.NewSimulation()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		ms, err := registry.Metrics(step.Metrics, s.Config().G)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		exp := experiment.New(experiment.Config{Frames: frames, Dt: dt, Toggles: cfg.Toggles()})
		if err := exp.Setup(s, ms); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{
			Step:   step,
			Info:   export.RunInfo{Scenario: cfg.Name, Mode: cfg.Mode, Dt: dt, Frames: frames},
			Result: result,
		}
		if step.Save {
			if st == nil {
				return results, fmt.Errorf("step %d: no store to save to", i+1)
			}
			if sr.RunID, err = st.Save(sr.Info, result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}
