package device

import "fmt"

// Light states.
const (
	LightOff = "DESLIGADA"
	LightOn  = "LIGADA"
)

// defaultBrightness is restored on power-on when no brightness was ever set.
const defaultBrightness = 100

// Light is a dimmable colored light. Turning it off saves the last
// nonzero brightness; turning it on restores that memory or 100.
type Light struct {
	machine
	brightness     int
	lastBrightness int
	color          Color
}

// NewLight builds a light. A nonzero initial brightness starts it LIGADA.
func NewLight(id, name string, brightness int, color Color) (*Light, error) {
	if brightness < 0 || brightness > 100 {
		return nil, fmt.Errorf("%w: \"brilho\" deve estar entre 0 e 100", ErrInvalidAttribute)
	}
	if color == "" {
		color = ColorNeutral
	}

	initial := LightOff
	if brightness > 0 {
		initial = LightOn
	}

	l := &Light{
		machine:    newMachine(KindLight, id, name, initial),
		brightness: brightness,
		color:      color,
	}
	if brightness > 0 {
		l.lastBrightness = brightness
	}

	l.cmds = map[string]string{
		"ligar":          "DESLIGADA → LIGADA (restaura último brilho ou 100)",
		"desligar":       "LIGADA → DESLIGADA (salva último brilho e zera)",
		"definir_brilho": "Ajusta brilho (0..100), requer LIGADA",
		"definir_cor":    "Ajusta cor (QUENTE/FRIA/NEUTRA), requer LIGADA",
	}
	l.rules = []rule{
		{source: LightOff, trigger: "ligar", dest: LightOn, before: l.restoreBrightness},
		{source: LightOn, trigger: "ligar", dest: LightOn, blocked: true, reason: ReasonRedundant},
		{source: LightOn, trigger: "desligar", dest: LightOff, before: l.saveBrightness},
		{source: LightOff, trigger: "desligar", dest: LightOff, blocked: true, reason: ReasonRedundant},
		{source: LightOn, trigger: "definir_brilho", dest: LightOn, before: l.applyBrightness, extra: l.brightnessExtra},
		{source: LightOff, trigger: "definir_brilho", dest: LightOff, blocked: true, reason: ReasonLightOff},
		{source: LightOn, trigger: "definir_cor", dest: LightOn, before: l.applyColor, extra: l.colorExtra},
		{source: LightOff, trigger: "definir_cor", dest: LightOff, blocked: true, reason: ReasonLightOff},
	}
	return l, nil
}

func (l *Light) restoreBrightness(Args) error {
	if l.brightness == 0 {
		restored := l.lastBrightness
		if restored == 0 {
			restored = defaultBrightness
		}
		l.brightness = restored
		l.lastBrightness = restored
	}
	return nil
}

func (l *Light) saveBrightness(Args) error {
	if l.brightness > 0 {
		l.lastBrightness = l.brightness
	}
	l.brightness = 0
	return nil
}

func (l *Light) applyBrightness(args Args) error {
	n, err := intArgInRange(args, "valor", 0, 100)
	if err != nil {
		return err
	}
	l.brightness = n
	if n > 0 {
		l.lastBrightness = n
	}
	return nil
}

func (l *Light) applyColor(args Args) error {
	raw, ok := args["cor"]
	if !ok {
		return fmt.Errorf("%w: faltou %q", ErrValidation, "cor")
	}
	c, err := ParseColor(raw)
	if err != nil {
		return err
	}
	l.color = c
	return nil
}

func (l *Light) brightnessExtra() map[string]any {
	return map[string]any{"brilho": l.brightness}
}

func (l *Light) colorExtra() map[string]any {
	return map[string]any{"cor": string(l.color)}
}

// SetAttribute mutates brilho or cor. The state follows the brightness:
// zero means DESLIGADA, anything else LIGADA.
func (l *Light) SetAttribute(key string, value any) error {
	if err := l.checkReservedAttr(key); err != nil {
		return err
	}
	switch key {
	case "brilho":
		n, err := attrInt(key, value, 0, 100)
		if err != nil {
			return err
		}
		l.brightness = n
		if n > 0 {
			l.lastBrightness = n
			l.state = LightOn
		} else {
			l.state = LightOff
		}
		return nil
	case "cor":
		c, err := ParseColor(value)
		if err != nil {
			return fmt.Errorf("%w: cor inválida %v", ErrInvalidAttribute, value)
		}
		l.color = c
		return nil
	default:
		return fmt.Errorf("%w: %q não é mutável em %s", ErrInvalidAttribute, key, l.kind)
	}
}

// Attributes implements Device.
func (l *Light) Attributes() map[string]any {
	return map[string]any{
		"brilho":      l.brightness,
		"cor":         string(l.color),
		"estado_nome": l.state,
	}
}
