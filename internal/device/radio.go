package device

import "fmt"

// Radio states.
const (
	RadioOff = "DESLIGADO"
	RadioOn  = "LIGADO"
)

// defaultVolume is restored on power-on when no volume was ever set.
const defaultVolume = 50

// Radio is a station radio. Turning it off saves the last nonzero volume;
// turning it on restores that memory or 50.
type Radio struct {
	machine
	volume     int
	lastVolume int
	station    Station
}

// NewRadio builds a radio. A nonzero initial volume starts it LIGADO.
func NewRadio(id, name string, volume int, station Station) (*Radio, error) {
	if volume < 0 || volume > 100 {
		return nil, fmt.Errorf("%w: \"volume\" deve estar entre 0 e 100", ErrInvalidAttribute)
	}
	if station == "" {
		station = StationMPB
	}

	initial := RadioOff
	if volume > 0 {
		initial = RadioOn
	}

	r := &Radio{
		machine:    newMachine(KindRadio, id, name, initial),
		volume:     volume,
		lastVolume: defaultVolume,
		station:    station,
	}
	if volume > 0 {
		r.lastVolume = volume
	}

	r.cmds = map[string]string{
		"ligar":           "DESLIGADO → LIGADO (restaura último volume ou 50)",
		"desligar":        "LIGADO → DESLIGADO (salva último volume e zera)",
		"definir_volume":  "Ajusta volume (0..100), requer LIGADO",
		"definir_estacao": "Sintoniza uma estação, requer LIGADO",
	}
	r.rules = []rule{
		{source: RadioOff, trigger: "ligar", dest: RadioOn, before: r.restoreVolume},
		{source: RadioOn, trigger: "ligar", dest: RadioOn, blocked: true, reason: ReasonRedundant},
		{source: RadioOn, trigger: "desligar", dest: RadioOff, before: r.saveVolume},
		{source: RadioOff, trigger: "desligar", dest: RadioOff, blocked: true, reason: ReasonRedundant},
		{source: RadioOn, trigger: "definir_volume", dest: RadioOn, before: r.applyVolume, extra: r.volumeExtra},
		{source: RadioOff, trigger: "definir_volume", dest: RadioOff, blocked: true, reason: ReasonRadioOff},
		{source: RadioOn, trigger: "definir_estacao", dest: RadioOn, before: r.applyStation, extra: r.stationExtra},
		{source: RadioOff, trigger: "definir_estacao", dest: RadioOff, blocked: true, reason: ReasonRadioOff},
	}
	return r, nil
}

func (r *Radio) restoreVolume(Args) error {
	if r.volume == 0 {
		restored := r.lastVolume
		if restored == 0 {
			restored = defaultVolume
		}
		r.volume = restored
		r.lastVolume = restored
	}
	return nil
}

func (r *Radio) saveVolume(Args) error {
	if r.volume > 0 {
		r.lastVolume = r.volume
	}
	r.volume = 0
	return nil
}

func (r *Radio) applyVolume(args Args) error {
	n, err := intArgInRange(args, "valor", 0, 100)
	if err != nil {
		return err
	}
	r.volume = n
	if n > 0 {
		r.lastVolume = n
	}
	return nil
}

func (r *Radio) applyStation(args Args) error {
	raw, ok := args["estacao"]
	if !ok {
		return fmt.Errorf("%w: faltou %q", ErrValidation, "estacao")
	}
	s, err := ParseStation(raw)
	if err != nil {
		return err
	}
	r.station = s
	return nil
}

func (r *Radio) volumeExtra() map[string]any {
	return map[string]any{"volume": r.volume}
}

func (r *Radio) stationExtra() map[string]any {
	return map[string]any{"estacao": string(r.station)}
}

// SetAttribute mutates volume or estacao. The state follows the volume:
// zero means DESLIGADO, anything else LIGADO.
func (r *Radio) SetAttribute(key string, value any) error {
	if err := r.checkReservedAttr(key); err != nil {
		return err
	}
	switch key {
	case "volume":
		n, err := attrInt(key, value, 0, 100)
		if err != nil {
			return err
		}
		r.volume = n
		if n > 0 {
			r.lastVolume = n
			r.state = RadioOn
		} else {
			r.state = RadioOff
		}
		return nil
	case "estacao":
		s, err := ParseStation(value)
		if err != nil {
			return fmt.Errorf("%w: estação inválida %v", ErrInvalidAttribute, value)
		}
		r.station = s
		return nil
	default:
		return fmt.Errorf("%w: %q não é mutável em %s", ErrInvalidAttribute, key, r.kind)
	}
}

// Attributes implements Device.
func (r *Radio) Attributes() map[string]any {
	return map[string]any{
		"volume":        r.volume,
		"ultimo_volume": r.lastVolume,
		"estacao":       string(r.station),
		"estado_nome":   r.state,
	}
}
