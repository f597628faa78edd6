// Package persist saves and restores hub state as a JSON snapshot.
//
// The snapshot carries the hub identity, every device with its current
// attributes, and the defined routines. Loading is tolerant: entries
// that cannot be restored are skipped and reported as diagnostics
// instead of aborting the whole load. Only a structurally invalid
// document fails the load outright.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/casalab/casahub/internal/device"
	"github.com/casalab/casahub/internal/hub"
)

// ErrInvalidConfig reports a snapshot file that is not a valid JSON
// document of the expected shape. Per-entry problems never produce it.
var ErrInvalidConfig = errors.New("persist: invalid snapshot")

// Diagnostic describes one snapshot entry that was skipped during load.
type Diagnostic struct {
	Section string // "dispositivo" or "rotina"
	Ref     string // device ID, routine name, or positional ref
	Reason  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %q: %s", d.Section, d.Ref, d.Reason)
}

type hubDoc struct {
	Nome   string `json:"nome"`
	Versao string `json:"versao"`
}

type deviceDoc struct {
	ID        string         `json:"id"`
	Tipo      string         `json:"tipo"`
	Nome      string         `json:"nome"`
	Estado    string         `json:"estado"`
	Atributos map[string]any `json:"atributos"`
}

type stepDoc struct {
	ID         string         `json:"id"`
	Comando    string         `json:"comando"`
	Argumentos map[string]any `json:"argumentos,omitempty"`
}

type snapshot struct {
	Hub          hubDoc               `json:"hub"`
	Dispositivos []json.RawMessage    `json:"dispositivos"`
	Rotinas      map[string][]stepDoc `json:"rotinas,omitempty"`
}

// attributes that are derived from runtime state and carried in the
// snapshot for inspection only. They are never fed back on load.
var derivedAttrs = map[string]bool{
	"estado_nome":          true,
	"historico":            true,
	"consumo_wh":           true,
	"consumo_wh_total":     true,
	"ligada_desde":         true,
	"tentativas_invalidas": true,
	"total_bebidas":        true,
	"ultimo_volume":        true,
}

// Save writes the full hub state to path. The write is atomic: the
// snapshot lands in a temp file in the same directory and is renamed
// over the target, so a crash mid-write never truncates an existing
// snapshot.
func Save(path string, h *hub.Hub) error {
	doc := struct {
		Hub          hubDoc         `json:"hub"`
		Dispositivos []deviceDoc    `json:"dispositivos"`
		Rotinas      map[string]any `json:"rotinas"`
	}{
		Hub:          hubDoc{Nome: h.Name(), Versao: h.Version()},
		Dispositivos: []deviceDoc{},
		Rotinas:      map[string]any{},
	}

	for _, d := range h.ListDevices() {
		doc.Dispositivos = append(doc.Dispositivos, deviceDoc{
			ID:        d.ID(),
			Tipo:      string(d.Kind()),
			Nome:      d.Name(),
			Estado:    d.State(),
			Atributos: d.Attributes(),
		})
	}
	for _, r := range h.Routines() {
		steps := make([]stepDoc, 0, len(r.Steps))
		for _, s := range r.Steps {
			sd := stepDoc{ID: s.DeviceID, Comando: s.Command}
			if len(s.Args) > 0 {
				sd.Argumentos = s.Args
			}
			steps = append(steps, sd)
		}
		doc.Rotinas[r.Name] = steps
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("persist: encode snapshot: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("persist: create snapshot directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".casahub-*.json")
	if err != nil {
		return fmt.Errorf("persist: create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("persist: write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("persist: close snapshot: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("persist: chmod snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("persist: replace snapshot: %w", err)
	}
	return nil
}

// Load restores devices and routines from the snapshot at path into h.
//
// Entries that cannot be restored are skipped: malformed device
// objects, unknown kinds, duplicate IDs, invalid attribute values and
// broken routine steps each yield one Diagnostic. Device state is
// derived from the stored attributes, not taken verbatim from the
// "estado" field, so a snapshot can never put a device into a state
// its attributes contradict.
//
// A file that is not valid JSON, or whose top-level shape is wrong,
// returns ErrInvalidConfig and loads nothing.
func Load(path string, h *hub.Hub) ([]Diagnostic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("persist: read snapshot: %w", err)
	}

	var doc snapshot
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	var diags []Diagnostic

	for i, raw := range doc.Dispositivos {
		ref := fmt.Sprintf("dispositivos[%d]", i)
		var dd deviceDoc
		if err := json.Unmarshal(raw, &dd); err != nil {
			diags = append(diags, Diagnostic{"dispositivo", ref, "entrada malformada"})
			continue
		}
		if dd.ID != "" {
			ref = dd.ID
		}
		kind, err := device.ParseKind(dd.Tipo)
		if err != nil {
			diags = append(diags, Diagnostic{"dispositivo", ref, fmt.Sprintf("tipo desconhecido %q", dd.Tipo)})
			continue
		}
		attrs := restorableAttrs(dd.Atributos)
		if _, err := h.AddDevice(kind, dd.ID, dd.Nome, attrs); err != nil {
			diags = append(diags, Diagnostic{"dispositivo", ref, err.Error()})
		}
	}

	names := make([]string, 0, len(doc.Rotinas))
	for name := range doc.Rotinas {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		stepDocs := doc.Rotinas[name]
		steps := make([]hub.Step, 0, len(stepDocs))
		for i, sd := range stepDocs {
			if strings.TrimSpace(sd.ID) == "" || strings.TrimSpace(sd.Comando) == "" {
				diags = append(diags, Diagnostic{
					"rotina", name,
					fmt.Sprintf("passo %d sem id ou comando", i+1),
				})
				continue
			}
			steps = append(steps, hub.Step{DeviceID: sd.ID, Command: sd.Comando, Args: sd.Argumentos})
		}
		if len(steps) == 0 {
			diags = append(diags, Diagnostic{"rotina", name, "nenhum passo válido"})
			continue
		}
		if err := h.DefineRoutine(name, steps); err != nil {
			diags = append(diags, Diagnostic{"rotina", name, err.Error()})
		}
	}

	return diags, nil
}

// restorableAttrs strips derived attributes so the factory only sees
// the ones that define device configuration.
func restorableAttrs(attrs map[string]any) map[string]any {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if derivedAttrs[k] {
			continue
		}
		out[k] = v
	}
	return out
}
