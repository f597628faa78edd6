package device

import (
	"fmt"
	"strings"

	"github.com/casalab/casahub/internal/event"
)

// Kind identifies a device kind. Wire values match the persisted JSON
// and the CSV/SQLite event streams.
type Kind string

const (
	KindDoor   Kind = "PORTA"
	KindLight  Kind = "LUZ"
	KindSocket Kind = "TOMADA"
	KindCoffee Kind = "CAFETEIRA"
	KindRadio  Kind = "RADIO"
	KindBlind  Kind = "PERSIANA"
)

// AllKinds returns every supported kind, in declaration order.
func AllKinds() []Kind {
	return []Kind{KindDoor, KindLight, KindSocket, KindCoffee, KindRadio, KindBlind}
}

// ParseKind converts a wire string into a Kind, case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllKinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Blocked-command reasons, stable across the event streams.
const (
	ReasonRedundant      = "transicao_redundante"
	ReasonInvalidCommand = "comando_invalido"
	ReasonLightOff       = "luz_desligada"
	ReasonRadioOff       = "radio_desligado"
	ReasonNoResources    = "sem_recurso"
)

// Color is a light color. Wire values match the persisted JSON.
type Color string

const (
	ColorWarm    Color = "QUENTE"
	ColorCool    Color = "FRIA"
	ColorNeutral Color = "NEUTRA"
)

// AllColors returns every supported light color.
func AllColors() []Color {
	return []Color{ColorWarm, ColorCool, ColorNeutral}
}

// ParseColor accepts a Color or a (case-insensitive) string.
func ParseColor(v any) (Color, error) {
	switch c := v.(type) {
	case Color:
		v = string(c)
	case string:
	default:
		return "", fmt.Errorf("%w: cor deve ser QUENTE, FRIA ou NEUTRA", ErrValidation)
	}
	s := Color(strings.ToUpper(strings.TrimSpace(v.(string))))
	for _, known := range AllColors() {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: cor inválida %q (use QUENTE, FRIA ou NEUTRA)", ErrValidation, v)
}

// Station is a radio station. Wire values match the persisted JSON.
type Station string

const (
	StationNoticias    Station = "NOTICIAS"
	StationMPB         Station = "MPB"
	StationRock        Station = "ROCK"
	StationJazz        Station = "JAZZ"
	StationClassica    Station = "CLASSICA"
	StationPop         Station = "POP"
	StationReggae      Station = "REGGAE"
	StationLofi        Station = "LOFI"
	StationEsportes    Station = "ESPORTES"
	StationEntrevistas Station = "ENTREVISTAS"
)

// AllStations returns every supported radio station.
func AllStations() []Station {
	return []Station{
		StationNoticias, StationMPB, StationRock, StationJazz, StationClassica,
		StationPop, StationReggae, StationLofi, StationEsportes, StationEntrevistas,
	}
}

// ParseStation accepts a Station or a (case-insensitive) string.
func ParseStation(v any) (Station, error) {
	switch s := v.(type) {
	case Station:
		v = string(s)
	case string:
	default:
		return "", fmt.Errorf("%w: estação deve ser uma string", ErrValidation)
	}
	s := Station(strings.ToUpper(strings.TrimSpace(v.(string))))
	for _, known := range AllStations() {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: estação inválida %q", ErrValidation, v)
}

// Args carries named command arguments, e.g. {"valor": 70} for
// definir_brilho or {"percentual": 40} for ajustar.
type Args map[string]any

// Outcome describes the result of one command execution.
//
// Blocked outcomes keep From == To and carry the reason the FSM refused
// the command. Events holds every event the execution produced, in
// emission order, ready for the hub to forward.
type Outcome struct {
	Command string
	From    string
	To      string
	Blocked bool
	Reason  string
	Extra   map[string]any
	Events  []event.Event
}

// Device is the contract every kind implements.
//
// Execute and SetAttribute are the only mutation paths; both re-validate
// their inputs before touching device state.
type Device interface {
	ID() string
	Name() string
	Kind() Kind
	State() string

	// Execute runs a command through the kind's FSM. Unknown commands
	// return ErrUnsupportedCommand; argument failures return ErrValidation.
	// Guard rejections are reported via Outcome.Blocked, not errors.
	Execute(command string, args Args) (Outcome, error)

	// SetAttribute mutates one attribute, re-validating exactly like the
	// factory. Reserved and derived keys are rejected with ErrInvalidAttribute.
	SetAttribute(key string, value any) error

	// Attributes returns a fresh snapshot of the externally visible
	// fields. The state name is always present under "estado_nome".
	Attributes() map[string]any

	// Commands maps each supported command to a short description.
	Commands() map[string]string
}

// intArg extracts an integer argument, tolerating the numeric types that
// JSON decoding and the CLI produce.
func intArg(args Args, key string) (int, error) {
	v, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("%w: faltou %q", ErrValidation, key)
	}
	return toInt(v, key)
}

func toInt(v any, key string) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("%w: %q deve ser inteiro", ErrValidation, key)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: %q deve ser inteiro", ErrValidation, key)
	}
}

// intArgInRange extracts an integer argument and enforces [min, max].
func intArgInRange(args Args, key string, min, max int) (int, error) {
	v, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("%w: faltou %q", ErrValidation, key)
	}
	return intInRange(v, key, min, max)
}

func intInRange(v any, key string, min, max int) (int, error) {
	n, err := toInt(v, key)
	if err != nil {
		return 0, err
	}
	if n < min || n > max {
		return 0, fmt.Errorf("%w: %q deve estar entre %d e %d", ErrValidation, key, min, max)
	}
	return n, nil
}
