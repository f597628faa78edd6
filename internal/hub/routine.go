package hub

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/casalab/casahub/internal/device"
	"github.com/casalab/casahub/internal/event"
)

// Step is one entry of a routine: a command aimed at one device.
type Step struct {
	DeviceID string
	Command  string
	Args     device.Args
}

// Routine is a named ordered batch of steps, executed as one logical
// unit with per-step failure isolation. Read-only once defined.
type Routine struct {
	Name  string
	Steps []Step
}

// StepResult records the outcome of one routine step. Err is nil when
// the step executed, including blocked commands: a guard rejection is a
// valid outcome, not a failure.
type StepResult struct {
	Index    int
	DeviceID string
	Command  string
	From     string
	To       string
	Blocked  bool
	Err      error
}

// RoutineResult aggregates a full routine execution. Steps preserve the
// routine's definition order.
type RoutineResult struct {
	ExecutionID string
	Name        string
	Total       int
	Succeeded   int
	Failed      int
	Steps       []StepResult
}

// DefineRoutine registers (or replaces) a named routine.
func (h *Hub) DefineRoutine(name string, steps []Step) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: nome vazio", ErrInvalidRoutine)
	}
	if len(steps) == 0 {
		return fmt.Errorf("%w: %q não tem passos", ErrInvalidRoutine, name)
	}

	own := make([]Step, len(steps))
	copy(own, steps)
	for i := range own {
		if own[i].Args == nil {
			own[i].Args = device.Args{}
		}
	}
	h.routines[name] = Routine{Name: name, Steps: own}
	return nil
}

// Routine returns a defined routine by name.
func (h *Hub) Routine(name string) (Routine, bool) {
	r, ok := h.routines[name]
	return r, ok
}

// Routines returns every defined routine sorted by name.
func (h *Hub) Routines() []Routine {
	names := make([]string, 0, len(h.routines))
	for name := range h.routines {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Routine, 0, len(names))
	for _, name := range names {
		out = append(out, h.routines[name])
	}
	return out
}

// ExecuteRoutine runs a routine's steps sequentially. A failing step is
// recorded and never aborts the remaining steps; the aggregated result
// is published as one ROTINA_EXECUTADA event and returned.
func (h *Hub) ExecuteRoutine(name string) (RoutineResult, error) {
	routine, ok := h.routines[name]
	if !ok {
		return RoutineResult{}, fmt.Errorf("%w: %q", ErrRoutineNotFound, name)
	}

	result := RoutineResult{
		ExecutionID: uuid.NewString(),
		Name:        name,
		Total:       len(routine.Steps),
		Steps:       make([]StepResult, 0, len(routine.Steps)),
	}

	for i, step := range routine.Steps {
		sr := StepResult{
			Index:    i + 1,
			DeviceID: step.DeviceID,
			Command:  step.Command,
		}

		out, err := h.ExecuteCommand(step.DeviceID, step.Command, step.Args)
		if err != nil {
			sr.Err = err
			result.Failed++
			h.log.Warn("routine step failed",
				"rotina", name, "passo", sr.Index, "id", step.DeviceID, "error", err)
		} else {
			sr.From = out.From
			sr.To = out.To
			sr.Blocked = out.Blocked
			result.Succeeded++
		}
		result.Steps = append(result.Steps, sr)
	}

	h.log.Info("routine executed",
		"rotina", name, "total", result.Total, "sucesso", result.Succeeded, "falhas", result.Failed)
	h.publish(event.New(event.TypeRoutineExecuted, h.now(), map[string]any{
		"rotina":   name,
		"execucao": result.ExecutionID,
		"total":    result.Total,
		"sucesso":  result.Succeeded,
		"falhas":   result.Failed,
	}))
	return result, nil
}
