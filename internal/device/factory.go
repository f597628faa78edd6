package device

import (
	"fmt"
	"strings"
)

// New constructs a device of the given kind from raw construction
// attributes, enforcing type and range constraints before the FSM ever
// sees them. Unknown attribute keys are ignored; missing keys take
// kind-specific defaults.
func New(kind Kind, id, name string, attrs map[string]any) (Device, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidID
	}
	if name == "" {
		name = id
	}

	switch kind {
	case KindDoor:
		return NewDoor(id, name), nil

	case KindLight:
		brightness := 0
		color := ColorNeutral
		if v, ok := attrs["brilho"]; ok {
			n, err := attrInt("brilho", v, 0, 100)
			if err != nil {
				return nil, err
			}
			brightness = n
		}
		if v, ok := attrs["cor"]; ok {
			c, err := ParseColor(v)
			if err != nil {
				return nil, fmt.Errorf("%w: cor inválida %v", ErrInvalidAttribute, v)
			}
			color = c
		}
		return NewLight(id, name, brightness, color)

	case KindSocket:
		wattage := 0
		if v, ok := attrs["potencia_w"]; ok {
			n, err := toInt(v, "potencia_w")
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: \"potencia_w\" deve ser inteiro ≥ 0", ErrInvalidAttribute)
			}
			wattage = n
		}
		return NewSocket(id, name, wattage)

	case KindCoffee:
		c := NewCoffeeMachine(id, name)
		if v, ok := attrs["agua_ml"]; ok {
			if err := c.SetAttribute("agua_ml", v); err != nil {
				return nil, err
			}
		}
		if v, ok := attrs["capsulas"]; ok {
			if err := c.SetAttribute("capsulas", v); err != nil {
				return nil, err
			}
		}
		return c, nil

	case KindRadio:
		volume := 0
		station := StationMPB
		if v, ok := attrs["volume"]; ok {
			n, err := attrInt("volume", v, 0, 100)
			if err != nil {
				return nil, err
			}
			volume = n
		}
		if v, ok := attrs["estacao"]; ok {
			s, err := ParseStation(v)
			if err != nil {
				return nil, fmt.Errorf("%w: estação inválida %v", ErrInvalidAttribute, v)
			}
			station = s
		}
		return NewRadio(id, name, volume, station)

	case KindBlind:
		opening := 0
		if v, ok := attrs["abertura"]; ok {
			n, err := attrInt("abertura", v, 0, 100)
			if err != nil {
				return nil, err
			}
			opening = n
		}
		return NewBlind(id, name, opening)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
