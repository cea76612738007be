package storage

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

type RunMetadata struct {
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Mode        string             `json:"mode"`
	Timestamp   time.Time          `json:"timestamp"`
	Dt          float64            `json:"dt"`
	Frames      int                `json:"frames"`
	FramesTaken int                `json:"frames_taken"`
	Collisions  int                `json:"collisions"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
}

// number encodes like a JSON number, except NaN and ±Inf which are written
// as the strings "NaN", "+Inf" and "-Inf".
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return json.Marshal(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

func (n *number) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*n = number(f)
	return nil
}

type metadataJSON struct {
	ID          string            `json:"id"`
	Scenario    string            `json:"scenario"`
	Mode        string            `json:"mode"`
	Timestamp   time.Time         `json:"timestamp"`
	Dt          number            `json:"dt"`
	Frames      int               `json:"frames"`
	FramesTaken int               `json:"frames_taken"`
	Collisions  int               `json:"collisions"`
	EnergyDrift number            `json:"energy_drift"`
	Metrics     map[string]number `json:"metrics"`
}

func (m RunMetadata) MarshalJSON() ([]byte, error) {
	out := metadataJSON{
		ID:          m.ID,
		Scenario:    m.Scenario,
		Mode:        m.Mode,
		Timestamp:   m.Timestamp,
		Dt:          number(m.Dt),
		Frames:      m.Frames,
		FramesTaken: m.FramesTaken,
		Collisions:  m.Collisions,
		EnergyDrift: number(m.EnergyDrift),
	}
	if m.Metrics != nil {
		out.Metrics = make(map[string]number, len(m.Metrics))
		for k, v := range m.Metrics {
			out.Metrics[k] = number(v)
		}
	}
	return json.Marshal(out)
}

func (m *RunMetadata) UnmarshalJSON(data []byte) error {
	var in metadataJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*m = RunMetadata{
		ID:          in.ID,
		Scenario:    in.Scenario,
		Mode:        in.Mode,
		Timestamp:   in.Timestamp,
		Dt:          float64(in.Dt),
		Frames:      in.Frames,
		FramesTaken: in.FramesTaken,
		Collisions:  in.Collisions,
		EnergyDrift: float64(in.EnergyDrift),
	}
	if in.Metrics != nil {
		m.Metrics = make(map[string]float64, len(in.Metrics))
		for k, v := range in.Metrics {
			m.Metrics[k] = float64(v)
		}
	}
	return nil
}
