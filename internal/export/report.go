package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/gravsim/internal/experiment"
)

// RunInfo names what produced a result.
type RunInfo struct {
	Scenario string  `json:"scenario"`
	Mode     string  `json:"mode"`
	Dt       float64 `json:"dt"`
	Frames   int     `json:"frames"`
}

type ExportData struct {
	RunInfo
	Steps       int                `json:"steps"`
	Bodies      []string           `json:"bodies"`
	Times       []float64          `json:"times"`
	Momentum    []float64          `json:"momentum"`
	Energy      []float64          `json:"energy"`
	// Positions holds one track per body.
	Positions   [][][2]float64     `json:"positions,omitempty"`
	Metrics     map[string]float64 `json:"metrics"`
	Collisions  int                `json:"collisions"`
	EnergyDrift float64            `json:"energy_drift"`
}

func newExportData(info RunInfo, result *experiment.Result) ExportData {
	data := ExportData{
		RunInfo:     info,
		Steps:       len(result.Times),
		Bodies:      result.Names,
		Times:       result.Times,
		Momentum:    result.Momentum,
		Energy:      result.Energy,
		Metrics:     result.Metrics,
		Collisions:  result.Collisions,
		EnergyDrift: result.EnergyDrift,
	}
	if len(result.Positions) > 0 {
		data.Positions = make([][][2]float64, len(result.Positions))
		for i, track := range result.Positions {
			row := make([][2]float64, len(track))
			for j, p := range track {
				row[j] = [2]float64{p.X(), p.Y()}
			}
			data.Positions[i] = row
		}
	}
	return data
}

// WriteJSON encodes result as indented JSON. Non-finite samples cannot be
// encoded and make it fail.
func WriteJSON(w io.Writer, info RunInfo, result *experiment.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(info, result))
}

func ExportJSON(path string, info RunInfo, result *experiment.Result) error {
	return writeFile(path, func(w io.Writer) error { return WriteJSON(w, info, result) })
}

func ExportJSONStdout(info RunInfo, result *experiment.Result) error {
	return WriteJSON(os.Stdout, info, result)
}

// WriteCSV writes one row per sample: time, momentum, energy and, when
// positions were recorded, x and y of every body.
func WriteCSV(w io.Writer, result *experiment.Result) error {
	cw := csv.NewWriter(w)

	withPositions := hasTracks(result)
	header := []string{"time", "momentum", "energy"}
	if withPositions {
		for i, name := range result.Names {
			if name == "" {
				name = strconv.Itoa(i)
			}
			header = append(header, name+"_x", name+"_y")
		}
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := range result.Times {
		row := []string{
			formatFloat(result.Times[i]),
			formatFloat(result.Momentum[i]),
			formatFloat(result.Energy[i]),
		}
		if withPositions {
			for _, track := range result.Positions {
				row = append(row, formatFloat(track[i].X()), formatFloat(track[i].Y()))
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: csv: %w", err)
	}
	return nil
}

// hasTracks reports whether every body has one position per sample.
func hasTracks(r *experiment.Result) bool {
	if len(r.Positions) == 0 || len(r.Positions) != len(r.Names) {
		return false
	}
	for _, track := range r.Positions {
		if len(track) != len(r.Times) {
			return false
		}
	}
	return true
}

func ExportCSV(path string, result *experiment.Result) error {
	return writeFile(path, func(w io.Writer) error { return WriteCSV(w, result) })
}

// writeFile creates path and fills it with write. A failed close is
// reported like a failed write.
func writeFile(path string, write func(io.Writer) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("export: close %s: %w", path, cerr)
		}
	}()
	return write(file)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}
