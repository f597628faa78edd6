package device

import (
	"fmt"
	"time"

	"github.com/casalab/casahub/internal/event"
)

// guardFn decides whether a rule may fire. A false return lets the next
// rule for the same (state, command) pair be tried; an error aborts the
// execution and reaches the caller.
type guardFn func(args Args) (bool, error)

// effectFn runs before the state changes. An error aborts the execution
// with the state untouched.
type effectFn func(args Args) error

// extraFn supplies extra payload keys for the COMANDO_EXECUTADO event,
// evaluated after the effect ran.
type extraFn func() map[string]any

// rule is one row of a kind's transition table.
//
// Invariant: for a given (source, trigger) pair at most one guard may be
// satisfied at evaluation time. Blocked rules keep the state but still run
// their before-effect (the door uses this to count invalid attempts).
type rule struct {
	source  string
	trigger string
	guard   guardFn
	dest    string
	blocked bool
	reason  string
	before  effectFn
	extra   extraFn
}

// machine carries identity, the current state and the transition table
// shared by every device kind. Kind structs embed it and fill rules and
// cmds in their constructor.
type machine struct {
	id    string
	name  string
	kind  Kind
	state string
	rules []rule
	cmds  map[string]string
	now   func() time.Time
}

func newMachine(kind Kind, id, name, initial string) machine {
	return machine{
		id:    id,
		name:  name,
		kind:  kind,
		state: initial,
		now:   time.Now,
	}
}

func (m *machine) ID() string   { return m.id }
func (m *machine) Name() string { return m.name }
func (m *machine) Kind() Kind   { return m.kind }
func (m *machine) State() string { return m.state }

// Commands returns a copy of the command table.
func (m *machine) Commands() map[string]string {
	out := make(map[string]string, len(m.cmds))
	for k, v := range m.cmds {
		out[k] = v
	}
	return out
}

// Execute runs one command through the transition table.
//
// Resolution order: unknown command → ErrUnsupportedCommand; first rule
// matching (state, command) whose guard passes fires; no match → blocked
// with motivo "comando_invalido" and unchanged state.
func (m *machine) Execute(command string, args Args) (Outcome, error) {
	if _, ok := m.cmds[command]; !ok {
		return Outcome{}, fmt.Errorf("%w: %q em %q", ErrUnsupportedCommand, command, m.id)
	}
	if args == nil {
		args = Args{}
	}

	for i := range m.rules {
		r := &m.rules[i]
		if r.source != m.state || r.trigger != command {
			continue
		}
		if r.guard != nil {
			ok, err := r.guard(args)
			if err != nil {
				return Outcome{}, err
			}
			if !ok {
				continue
			}
		}
		return m.fire(r, command, args)
	}

	// Known command with no rule for the current state: the device
	// acknowledges and ignores it.
	out := Outcome{
		Command: command,
		From:    m.state,
		To:      m.state,
		Blocked: true,
		Reason:  ReasonInvalidCommand,
	}
	m.record(&out)
	return out, nil
}

func (m *machine) fire(r *rule, command string, args Args) (Outcome, error) {
	from := m.state
	if r.before != nil {
		if err := r.before(args); err != nil {
			return Outcome{}, err
		}
	}
	if !r.blocked {
		m.state = r.dest
	}
	out := Outcome{
		Command: command,
		From:    from,
		To:      m.state,
		Blocked: r.blocked,
		Reason:  r.reason,
	}
	if r.extra != nil {
		out.Extra = r.extra()
	}
	m.record(&out)
	return out, nil
}

// record appends the events the execution produced: always one
// COMANDO_EXECUTADO, plus one TRANSICAO_ESTADO when the state really
// changed. Self-transitions and blocked commands emit no transition event.
func (m *machine) record(out *Outcome) {
	at := m.now()

	payload := map[string]any{
		"id":        m.id,
		"comando":   out.Command,
		"antes":     out.From,
		"depois":    out.To,
		"bloqueado": out.Blocked,
	}
	if out.Reason != "" {
		payload["motivo"] = out.Reason
	}
	for k, v := range out.Extra {
		payload[k] = v
	}
	out.Events = append(out.Events, event.New(event.TypeCommandExecuted, at, payload))

	if !out.Blocked && out.From != out.To {
		out.Events = append(out.Events, event.New(event.TypeStateTransition, at, map[string]any{
			"id":     m.id,
			"tipo":   string(m.kind),
			"evento": out.Command,
			"antes":  out.From,
			"depois": out.To,
		}))
	}
}

// checkReservedAttr rejects keys no device may mutate directly.
func (m *machine) checkReservedAttr(key string) error {
	switch key {
	case "id", "tipo", "nome", "estado", "estado_nome":
		return fmt.Errorf("%w: %q é reservado", ErrInvalidAttribute, key)
	}
	return nil
}

// attrInt validates an integer attribute value within [min, max],
// reporting failures as ErrInvalidAttribute.
func attrInt(key string, value any, min, max int) (int, error) {
	n, err := toInt(value, key)
	if err != nil {
		return 0, fmt.Errorf("%w: %q deve ser inteiro", ErrInvalidAttribute, key)
	}
	if n < min || n > max {
		return 0, fmt.Errorf("%w: %q deve estar entre %d e %d", ErrInvalidAttribute, key, min, max)
	}
	return n, nil
}
