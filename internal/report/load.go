package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Transition is one row of transitions.csv.
type Transition struct {
	At       time.Time
	DeviceID string
	Trigger  string
	From     string
	To       string
}

// EventRow is one row of events.csv. Extra holds the decoded payload
// when the cell contains valid JSON, nil otherwise.
type EventRow struct {
	At       time.Time
	Type     string
	DeviceID string
	Extra    map[string]any
}

// DeviceInfo is a device's identity as recorded in the JSON snapshot.
type DeviceInfo struct {
	Kind       string
	Name       string
	Attributes map[string]any
}

// DeviceIndex maps device IDs to their snapshot info.
type DeviceIndex map[string]DeviceInfo

// parseTime accepts the RFC3339 timestamps the sinks write, falling
// back to a seconds-precision local form for hand-edited files.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}

// LoadTransitions reads transitions.csv. A missing file yields an
// empty slice; rows without a parseable timestamp are skipped.
func LoadTransitions(path string) ([]Transition, error) {
	rows, err := readCSV(path, 5)
	if err != nil {
		return nil, err
	}

	out := make([]Transition, 0, len(rows))
	for _, row := range rows {
		at, err := parseTime(row[0])
		if err != nil {
			continue
		}
		out = append(out, Transition{
			At:       at,
			DeviceID: row[1],
			Trigger:  row[2],
			From:     row[3],
			To:       row[4],
		})
	}
	return out, nil
}

// LoadEvents reads events.csv. A missing file yields an empty slice;
// rows without a parseable timestamp are skipped, and an unparseable
// extra cell leaves Extra nil rather than discarding the row.
func LoadEvents(path string) ([]EventRow, error) {
	rows, err := readCSV(path, 4)
	if err != nil {
		return nil, err
	}

	out := make([]EventRow, 0, len(rows))
	for _, row := range rows {
		at, err := parseTime(row[0])
		if err != nil {
			continue
		}
		ev := EventRow{
			At:       at,
			Type:     row[1],
			DeviceID: row[2],
		}
		if cell := row[3]; cell != "" {
			var extra map[string]any
			if json.Unmarshal([]byte(cell), &extra) == nil {
				ev.Extra = extra
			}
		}
		out = append(out, ev)
	}
	return out, nil
}

// LoadDeviceIndex reads the JSON snapshot and returns device info by
// ID. A missing or corrupt file yields an empty index.
func LoadDeviceIndex(path string) DeviceIndex {
	idx := make(DeviceIndex)

	data, err := os.ReadFile(path)
	if err != nil {
		return idx
	}

	var doc struct {
		Dispositivos []struct {
			ID        string         `json:"id"`
			Tipo      string         `json:"tipo"`
			Nome      string         `json:"nome"`
			Atributos map[string]any `json:"atributos"`
		} `json:"dispositivos"`
	}
	if json.Unmarshal(data, &doc) != nil {
		return idx
	}

	for _, d := range doc.Dispositivos {
		if d.ID == "" {
			continue
		}
		idx[d.ID] = DeviceInfo{
			Kind:       d.Tipo,
			Name:       d.Nome,
			Attributes: d.Atributos,
		}
	}
	return idx
}

// readCSV loads all data rows from path, skipping the header and any
// row shorter than want columns. A missing file is not an error.
func readCSV(path string, want int) ([][]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("report: opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows [][]string
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("report: reading %s: %w", path, err)
		}
		if first {
			first = false
			continue
		}
		if len(row) < want {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
