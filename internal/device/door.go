package device

import "fmt"

// Door states.
const (
	DoorLocked   = "TRANCADA"
	DoorUnlocked = "DESTRANCADA"
	DoorOpen     = "ABERTA"
)

// Door is a lockable door. Trying to lock it while open is acknowledged
// but refused, and counted in tentativas_invalidas.
type Door struct {
	machine
	invalidAttempts int
}

// NewDoor builds a door, initially TRANCADA.
func NewDoor(id, name string) *Door {
	d := &Door{machine: newMachine(KindDoor, id, name, DoorLocked)}

	d.cmds = map[string]string{
		"destrancar": "TRANCADA → DESTRANCADA",
		"trancar":    "DESTRANCADA → TRANCADA (bloqueado se ABERTA)",
		"abrir":      "DESTRANCADA → ABERTA",
		"fechar":     "ABERTA → DESTRANCADA",
	}
	d.rules = []rule{
		{source: DoorLocked, trigger: "destrancar", dest: DoorUnlocked},
		{source: DoorUnlocked, trigger: "trancar", dest: DoorLocked},
		{source: DoorUnlocked, trigger: "abrir", dest: DoorOpen},
		{source: DoorOpen, trigger: "fechar", dest: DoorUnlocked},
		// Locking an open door stays put and counts the attempt.
		{
			source:  DoorOpen,
			trigger: "trancar",
			dest:    DoorOpen,
			blocked: true,
			reason:  ReasonInvalidCommand,
			before:  d.countInvalidAttempt,
			extra:   d.attemptsExtra,
		},
	}
	return d
}

func (d *Door) countInvalidAttempt(Args) error {
	d.invalidAttempts++
	return nil
}

func (d *Door) attemptsExtra() map[string]any {
	return map[string]any{"tentativas_invalidas": d.invalidAttempts}
}

// SetAttribute implements Device. Doors expose no mutable attributes;
// tentativas_invalidas is a derived counter.
func (d *Door) SetAttribute(key string, value any) error {
	if err := d.checkReservedAttr(key); err != nil {
		return err
	}
	return fmt.Errorf("%w: %q não é mutável em %s", ErrInvalidAttribute, key, d.kind)
}

// Attributes implements Device.
func (d *Door) Attributes() map[string]any {
	return map[string]any{
		"tentativas_invalidas": d.invalidAttempts,
		"estado_nome":          d.state,
	}
}
