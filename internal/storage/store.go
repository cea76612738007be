package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/export"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

// Store keeps headless runs under baseDir, one directory per run.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Series is the time series read back from a run.
type Series struct {
	Times    []float64
	Momentum []float64
	Energy   []float64
}

// Save writes the run metadata and its time series and returns the run id.
// A failed save leaves no run directory behind.
func (s *Store) Save(info export.RunInfo, result *experiment.Result) (runID string, err error) {
	ts := s.now()
	runID = fmt.Sprintf("%s_%s_%d", info.Scenario, info.Mode, ts.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	meta := RunMetadata{
		ID:          runID,
		Scenario:    info.Scenario,
		Mode:        info.Mode,
		Timestamp:   ts,
		Dt:          info.Dt,
		Frames:      info.Frames,
		FramesTaken: result.FramesTaken,
		Collisions:  result.Collisions,
		EnergyDrift: result.EnergyDrift,
		Metrics:     result.Metrics,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("storage: %s: %w", runID, err)
	}

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
			runID = ""
		}
	}()

	if err := os.WriteFile(filepath.Join(runDir, metadataFile), append(data, '\n'), 0644); err != nil {
		return "", err
	}

	series := &experiment.Result{
		Times:    result.Times,
		Momentum: result.Momentum,
		Energy:   result.Energy,
	}
	if err := export.ExportCSV(filepath.Join(runDir, seriesFile), series); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns the stored runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadSeries reads the time, momentum and energy columns of a run.
func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	series := &Series{}
	if len(records) < 2 {
		return series, nil
	}

	for _, record := range records[1:] {
		if len(record) < 3 {
			continue
		}
		vals := [3]float64{}
		ok := true
		for j := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}
		series.Times = append(series.Times, vals[0])
		series.Momentum = append(series.Momentum, vals[1])
		series.Energy = append(series.Energy, vals[2])
	}

	return series, nil
}
