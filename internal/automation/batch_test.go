package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/storage"
)

const batchDoc = `
name: modes
description: binary pair in both stepping modes
steps:
  - scenario: binary
    frames: 20
    dt: 0.01
  - scenario: binary
    mode: corrected
    substeps: 4
    frames: 20
    dt: 0.01
    collision: false
    metrics: [energy_drift, stability]
    save: true
`

func writeBatch(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.yaml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadBatch(t *testing.T) {
	batch, err := LoadBatch(writeBatch(t, batchDoc))
	if err != nil {
		t.Fatal(err)
	}
	if batch.Name != "modes" || len(batch.Steps) != 2 {
		t.Fatalf("unexpected batch %+v", batch)
	}
	step := batch.Steps[1]
	if step.Collision == nil || *step.Collision || step.Gravity != nil {
		t.Errorf("expected collision off and gravity unset, got %+v", step)
	}

	cfg, err := step.scenario()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != "corrected" || cfg.Substeps != 4 || cfg.Physics.Collision || !cfg.Physics.Gravity {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoadBatchEmpty(t *testing.T) {
	if _, err := LoadBatch(writeBatch(t, "name: empty\n")); err == nil {
		t.Error("expected an error for a batch without steps")
	}
}

func TestRunBatch(t *testing.T) {
	batch, err := LoadBatch(writeBatch(t, batchDoc))
	if err != nil {
		t.Fatal(err)
	}
	st := storage.New(t.TempDir())

	results, err := RunBatch(context.Background(), batch, st)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].RunID != "" {
		t.Error("first step should not be saved")
	}
	if results[1].RunID == "" {
		t.Fatal("second step should be saved")
	}
	if got := len(results[1].Result.Times); got != 21 {
		t.Errorf("expected 21 samples, got %d", got)
	}
	if got := results[1].Result.Metrics; len(got) != 2 {
		t.Errorf("expected the two selected metrics, got %v", got)
	}
	if _, ok := results[0].Result.Metrics["collisions"]; !ok {
		t.Error("first step should report the default metrics")
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Mode != "corrected" {
		t.Errorf("expected one corrected run stored, got %+v", runs)
	}
}

func TestRunBatchSaveWithoutStore(t *testing.T) {
	batch, err := LoadBatch(writeBatch(t, batchDoc))
	if err != nil {
		t.Fatal(err)
	}
	results, err := RunBatch(context.Background(), batch, nil)
	if err == nil {
		t.Fatal("expected an error saving without a store")
	}
	if len(results) != 1 {
		t.Errorf("expected the first step to complete, got %d results", len(results))
	}
}

func TestRunBatchBadScenario(t *testing.T) {
	batch := &Batch{Steps: []BatchStep{{Scenario: "nowhere"}}}
	if _, err := RunBatch(context.Background(), batch, nil); err == nil {
		t.Error("expected an error for an unknown scenario")
	}
}

func TestRunBatchUnknownMetric(t *testing.T) {
	batch := &Batch{Steps: []BatchStep{{Scenario: "binary", Frames: 2, Metrics: []string{"energy_drfit"}}}}
	results, err := RunBatch(context.Background(), batch, nil)
	if !errors.Is(err, experiment.ErrUnknownMetric) {
		t.Errorf("expected ErrUnknownMetric, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no completed steps, got %d", len(results))
	}
}
