package sink

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/casalab/casahub/internal/event"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return rows
}

func TestCSVLog(t *testing.T) {
	dir := t.TempDir()
	s, err := NewCSVLog(dir)
	if err != nil {
		t.Fatalf("NewCSVLog: %v", err)
	}

	events := []event.Event{
		newEvent(event.TypeCommandExecuted, map[string]any{
			"id": "luz_sala", "comando": "ligar", "antes": "DESLIGADA", "depois": "LIGADA", "bloqueado": false,
		}),
		newEvent(event.TypeStateTransition, map[string]any{
			"id": "luz_sala", "tipo": "LUZ", "evento": "ligar", "antes": "DESLIGADA", "depois": "LIGADA",
		}),
		newEvent(event.TypeRoutineExecuted, map[string]any{
			"rotina": "boa_noite", "total": 2, "sucesso": 2, "falhas": 0,
		}),
	}
	for _, evt := range events {
		if err := s.Notify(evt); err != nil {
			t.Fatalf("Notify: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	t.Run("transitions file", func(t *testing.T) {
		rows := readCSV(t, filepath.Join(dir, "transitions.csv"))
		if len(rows) != 2 {
			t.Fatalf("transitions.csv has %d rows, want header + 1", len(rows))
		}
		wantHeader := []string{"timestamp", "id_dispositivo", "evento", "estado_origem", "estado_destino"}
		for i, h := range wantHeader {
			if rows[0][i] != h {
				t.Errorf("header[%d] = %q, want %q", i, rows[0][i], h)
			}
		}
		got := rows[1]
		if got[1] != "luz_sala" || got[2] != "ligar" || got[3] != "desligada" || got[4] != "ligada" {
			t.Errorf("transition row = %v, want lowercased luz_sala/ligar/desligada/ligada", got)
		}
	})

	t.Run("commands file", func(t *testing.T) {
		rows := readCSV(t, filepath.Join(dir, "commands.csv"))
		if len(rows) != 2 {
			t.Fatalf("commands.csv has %d rows, want header + 1", len(rows))
		}
		got := rows[1]
		if got[1] != "luz_sala" || got[2] != "ligar" || got[3] != "DESLIGADA" || got[4] != "LIGADA" {
			t.Errorf("command row = %v", got)
		}
	})

	t.Run("events file has every event", func(t *testing.T) {
		rows := readCSV(t, filepath.Join(dir, "events.csv"))
		if len(rows) != 4 {
			t.Fatalf("events.csv has %d rows, want header + 3", len(rows))
		}
		if rows[3][1] != "ROTINA_EXECUTADA" {
			t.Errorf("events row type = %q, want ROTINA_EXECUTADA", rows[3][1])
		}
		if rows[3][2] != "" {
			t.Errorf("routine event id cell = %q, want empty", rows[3][2])
		}
	})
}

func TestCSVLogAppendsAcrossRuns(t *testing.T) {
	dir := t.TempDir()

	for i := 0; i < 2; i++ {
		s, err := NewCSVLog(dir)
		if err != nil {
			t.Fatalf("NewCSVLog: %v", err)
		}
		evt := newEvent(event.TypeStateTransition, map[string]any{
			"id": "porta", "tipo": "PORTA", "evento": "trancar", "antes": "DESTRANCADA", "depois": "TRANCADA",
		})
		if err := s.Notify(evt); err != nil {
			t.Fatalf("Notify: %v", err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}

	rows := readCSV(t, filepath.Join(dir, "transitions.csv"))
	if len(rows) != 3 {
		t.Fatalf("transitions.csv has %d rows, want single header + 2 rows", len(rows))
	}
	if rows[0][0] != "timestamp" {
		t.Errorf("first row should be the header, got %v", rows[0])
	}
	if rows[1][0] == "timestamp" || rows[2][0] == "timestamp" {
		t.Error("header was written twice")
	}
}
