package device

import "fmt"

// Blind states.
const (
	BlindClosed  = "FECHADA"
	BlindPartial = "PARCIAL"
	BlindOpen    = "ABERTA"
)

// Blind is a motorised blind whose state mirrors its opening percentage:
// 0 is FECHADA, 100 is ABERTA, anything in between PARCIAL.
type Blind struct {
	machine
	opening int
}

// NewBlind builds a blind; the initial state follows the opening.
func NewBlind(id, name string, opening int) (*Blind, error) {
	if opening < 0 || opening > 100 {
		return nil, fmt.Errorf("%w: \"abertura\" deve estar entre 0 e 100", ErrInvalidAttribute)
	}

	b := &Blind{
		machine: newMachine(KindBlind, id, name, blindStateFor(opening)),
		opening: opening,
	}

	b.cmds = map[string]string{
		"abrir":   "Abre totalmente (abertura=100)",
		"fechar":  "Fecha totalmente (abertura=0)",
		"ajustar": "Ajusta abertura (0..100); destino depende do percentual",
	}

	b.rules = []rule{
		{source: BlindClosed, trigger: "abrir", dest: BlindOpen, before: b.openFull},
		{source: BlindPartial, trigger: "abrir", dest: BlindOpen, before: b.openFull},
		{source: BlindOpen, trigger: "abrir", dest: BlindOpen, blocked: true, reason: ReasonRedundant},
		{source: BlindOpen, trigger: "fechar", dest: BlindClosed, before: b.closeFull},
		{source: BlindPartial, trigger: "fechar", dest: BlindClosed, before: b.closeFull},
		{source: BlindClosed, trigger: "fechar", dest: BlindClosed, blocked: true, reason: ReasonRedundant},
	}

	// ajustar: three mutually exclusive guarded rules over the same
	// trigger, from every state. Re-requesting the current opening is
	// redundant and blocked before the guards run.
	for _, src := range []string{BlindClosed, BlindPartial, BlindOpen} {
		b.rules = append(b.rules,
			rule{source: src, trigger: "ajustar", guard: b.sameOpening, dest: src, blocked: true, reason: ReasonRedundant},
			rule{source: src, trigger: "ajustar", guard: b.wantsOpen, dest: BlindOpen, before: b.applyOpening, extra: b.openingExtra},
			rule{source: src, trigger: "ajustar", guard: b.wantsClosed, dest: BlindClosed, before: b.applyOpening, extra: b.openingExtra},
			rule{source: src, trigger: "ajustar", guard: b.wantsPartial, dest: BlindPartial, before: b.applyOpening, extra: b.openingExtra},
		)
	}
	return b, nil
}

func blindStateFor(opening int) string {
	switch {
	case opening == 0:
		return BlindClosed
	case opening == 100:
		return BlindOpen
	default:
		return BlindPartial
	}
}

func (b *Blind) requestedOpening(args Args) (int, error) {
	return intArgInRange(args, "percentual", 0, 100)
}

func (b *Blind) sameOpening(args Args) (bool, error) {
	n, err := b.requestedOpening(args)
	if err != nil {
		return false, err
	}
	return n == b.opening, nil
}

func (b *Blind) wantsOpen(args Args) (bool, error) {
	n, err := b.requestedOpening(args)
	if err != nil {
		return false, err
	}
	return n == 100, nil
}

func (b *Blind) wantsClosed(args Args) (bool, error) {
	n, err := b.requestedOpening(args)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (b *Blind) wantsPartial(args Args) (bool, error) {
	n, err := b.requestedOpening(args)
	if err != nil {
		return false, err
	}
	return n >= 1 && n <= 99, nil
}

func (b *Blind) applyOpening(args Args) error {
	n, err := b.requestedOpening(args)
	if err != nil {
		return err
	}
	b.opening = n
	return nil
}

func (b *Blind) openFull(Args) error {
	b.opening = 100
	return nil
}

func (b *Blind) closeFull(Args) error {
	b.opening = 0
	return nil
}

func (b *Blind) openingExtra() map[string]any {
	return map[string]any{"abertura": b.opening}
}

// SetAttribute mutates abertura; the state follows the new percentage.
func (b *Blind) SetAttribute(key string, value any) error {
	if err := b.checkReservedAttr(key); err != nil {
		return err
	}
	switch key {
	case "abertura":
		n, err := attrInt(key, value, 0, 100)
		if err != nil {
			return err
		}
		b.opening = n
		b.state = blindStateFor(n)
		return nil
	default:
		return fmt.Errorf("%w: %q não é mutável em %s", ErrInvalidAttribute, key, b.kind)
	}
}

// Attributes implements Device.
func (b *Blind) Attributes() map[string]any {
	return map[string]any{
		"abertura":    b.opening,
		"estado_nome": b.state,
	}
}
