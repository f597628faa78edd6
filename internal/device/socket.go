package device

import (
	"fmt"
	"math"
	"time"
)

// Socket states.
const (
	SocketOff = "DESLIGADA"
	SocketOn  = "LIGADA"
)

// Socket is a metered wall socket. Energy accrues only while it is on:
// each ligar/desligar pair closes an interval worth wattage × hours.
type Socket struct {
	machine
	wattage       int
	accumulatedWh float64
	onSince       time.Time // zero while off
}

// NewSocket builds a socket, initially DESLIGADA. Wattage must be ≥ 0.
func NewSocket(id, name string, wattage int) (*Socket, error) {
	if wattage < 0 {
		return nil, fmt.Errorf("%w: \"potencia_w\" deve ser ≥ 0", ErrInvalidAttribute)
	}

	s := &Socket{
		machine: newMachine(KindSocket, id, name, SocketOff),
		wattage: wattage,
	}

	s.cmds = map[string]string{
		"ligar":    "DESLIGADA → LIGADA (inicia medição de consumo)",
		"desligar": "LIGADA → DESLIGADA (agrega consumo do intervalo)",
	}
	s.rules = []rule{
		{source: SocketOff, trigger: "ligar", dest: SocketOn, before: s.markOn},
		{source: SocketOn, trigger: "ligar", dest: SocketOn, blocked: true, reason: ReasonRedundant},
		{source: SocketOn, trigger: "desligar", dest: SocketOff, before: s.settle, extra: s.energyExtra},
		{source: SocketOff, trigger: "desligar", dest: SocketOff, blocked: true, reason: ReasonRedundant},
	}
	return s, nil
}

func (s *Socket) markOn(Args) error {
	s.onSince = s.now()
	return nil
}

// settle closes the current on-interval into the accumulated total.
func (s *Socket) settle(Args) error {
	if !s.onSince.IsZero() {
		hours := s.now().Sub(s.onSince).Hours()
		s.accumulatedWh += float64(s.wattage) * hours
	}
	s.onSince = time.Time{}
	return nil
}

func (s *Socket) energyExtra() map[string]any {
	return map[string]any{"consumo_wh": round4(s.accumulatedWh)}
}

// TotalWh returns the energy consumed so far. While the socket is on, the
// open interval is included without mutating the accumulated total.
func (s *Socket) TotalWh() float64 {
	total := s.accumulatedWh
	if !s.onSince.IsZero() {
		total += float64(s.wattage) * s.now().Sub(s.onSince).Hours()
	}
	return total
}

// SetAttribute mutates potencia_w. Consumption fields are derived and
// cannot be restored verbatim.
func (s *Socket) SetAttribute(key string, value any) error {
	if err := s.checkReservedAttr(key); err != nil {
		return err
	}
	switch key {
	case "potencia_w":
		n, err := attrInt(key, value, 0, math.MaxInt32)
		if err != nil {
			return err
		}
		s.wattage = n
		return nil
	default:
		return fmt.Errorf("%w: %q não é mutável em %s", ErrInvalidAttribute, key, s.kind)
	}
}

// Attributes implements Device.
func (s *Socket) Attributes() map[string]any {
	attrs := map[string]any{
		"potencia_w":       s.wattage,
		"consumo_wh":       round4(s.accumulatedWh),
		"consumo_wh_total": round4(s.TotalWh()),
		"estado_nome":      s.state,
	}
	if !s.onSince.IsZero() {
		attrs["ligada_desde"] = s.onSince.Format(time.RFC3339)
	} else {
		attrs["ligada_desde"] = nil
	}
	return attrs
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
