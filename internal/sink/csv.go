package sink

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/casalab/casahub/internal/event"
)

// CSV file names inside the sink directory.
const (
	transitionsFile = "transitions.csv"
	commandsFile    = "commands.csv"
	eventsFile      = "events.csv"
)

// Column headers are part of the on-disk contract: the report loaders
// parse these files by name.
var (
	transitionHeaders = []string{"timestamp", "id_dispositivo", "evento", "estado_origem", "estado_destino"}
	commandHeaders    = []string{"timestamp", "id_dispositivo", "comando", "estado_origem", "estado_destino"}
	eventHeaders      = []string{"timestamp", "tipo", "id", "extra"}
)

// CSVLog appends hub events to CSV files under one directory:
//
//   - transitions.csv: real state transitions only, lowercased values
//   - commands.csv: every executed command, including blocked ones
//   - events.csv: every event, with the payload JSON-encoded in "extra"
//
// Files are created with headers on first write and appended to after
// that, so consecutive runs accumulate into the same files.
type CSVLog struct {
	dir string

	mu    sync.Mutex
	files map[string]*csvFile
}

type csvFile struct {
	f *os.File
	w *csv.Writer
}

// NewCSVLog builds a CSV sink writing into dir, creating it if needed.
func NewCSVLog(dir string) (*CSVLog, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("sink: creating csv directory: %w", err)
	}
	return &CSVLog{
		dir:   dir,
		files: make(map[string]*csvFile),
	}, nil
}

// Notify implements event.Observer.
func (s *CSVLog) Notify(evt event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := evt.At.Format(time.RFC3339)
	p := evt.Payload

	if evt.Type == event.TypeStateTransition {
		row := []string{
			ts,
			str(p["id"]),
			strings.ToLower(str(p["evento"])),
			strings.ToLower(str(p["antes"])),
			strings.ToLower(str(p["depois"])),
		}
		if err := s.append(transitionsFile, transitionHeaders, row); err != nil {
			return err
		}
	}

	if evt.Type == event.TypeCommandExecuted {
		row := []string{ts, str(p["id"]), str(p["comando"]), str(p["antes"]), str(p["depois"])}
		if err := s.append(commandsFile, commandHeaders, row); err != nil {
			return err
		}
	}

	extra := make(map[string]any, len(p))
	for k, v := range p {
		if k != "id" {
			extra[k] = v
		}
	}
	extraJSON, err := json.Marshal(extra)
	if err != nil {
		return fmt.Errorf("sink: encoding event extra: %w", err)
	}
	row := []string{ts, string(evt.Type), str(p["id"]), string(extraJSON)}
	return s.append(eventsFile, eventHeaders, row)
}

// append writes one row, opening the file and writing headers on first use.
func (s *CSVLog) append(name string, headers, row []string) error {
	cf, ok := s.files[name]
	if !ok {
		path := filepath.Join(s.dir, name)
		_, statErr := os.Stat(path)
		fresh := os.IsNotExist(statErr)

		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
		if err != nil {
			return fmt.Errorf("sink: opening %s: %w", name, err)
		}
		cf = &csvFile{f: f, w: csv.NewWriter(f)}
		s.files[name] = cf

		if fresh {
			if err := cf.w.Write(headers); err != nil {
				return fmt.Errorf("sink: writing %s header: %w", name, err)
			}
		}
	}

	if err := cf.w.Write(row); err != nil {
		return fmt.Errorf("sink: writing %s row: %w", name, err)
	}
	cf.w.Flush()
	return cf.w.Error()
}

// Close flushes and closes every open file.
func (s *CSVLog) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for name, cf := range s.files {
		cf.w.Flush()
		if err := cf.w.Error(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("sink: flushing %s: %w", name, err)
		}
		if err := cf.f.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("sink: closing %s: %w", name, err)
		}
	}
	s.files = make(map[string]*csvFile)
	return firstErr
}

// str renders a payload value as a CSV cell. Nil becomes the empty string.
func str(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
