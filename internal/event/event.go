// Package event defines the hub's event record and the observer contract.
//
// Every state-affecting operation produces exactly one or more immutable
// events. The hub forwards each event, in order, to every registered
// observer. Observers must tolerate payload keys they do not understand:
// the payload is an open map whose key set is stable per event type.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies the kind of event. Wire values are stable and shared
// with the CSV and SQLite sinks and the report loaders.
type Type string

const (
	TypeDeviceAdded      Type = "DISPOSITIVO_ADICIONADO"
	TypeDeviceRemoved    Type = "DISPOSITIVO_REMOVIDO"
	TypeCommandExecuted  Type = "COMANDO_EXECUTADO"
	TypeAttributeChanged Type = "ATRIBUTO_ALTERADO"
	TypeStateTransition  Type = "TRANSICAO_ESTADO"
	TypeRoutineExecuted  Type = "ROTINA_EXECUTADA"
	TypeError            Type = "ERRO"
)

// AllTypes returns every event type, in declaration order.
func AllTypes() []Type {
	return []Type{
		TypeDeviceAdded,
		TypeDeviceRemoved,
		TypeCommandExecuted,
		TypeAttributeChanged,
		TypeStateTransition,
		TypeRoutineExecuted,
		TypeError,
	}
}

// Event is an immutable record of something that happened in the hub.
//
// Payload key conventions (per type):
//   - COMANDO_EXECUTADO: id, comando, antes, depois, bloqueado, motivo?
//   - TRANSICAO_ESTADO:  id, tipo, evento, antes, depois
//   - ATRIBUTO_ALTERADO: id, atributo, antes, depois
//   - ROTINA_EXECUTADA:  rotina, total, sucesso, falhas
//   - ERRO:              id?, comando?, erro
type Event struct {
	ID      string         `json:"id"`
	Type    Type           `json:"tipo"`
	Payload map[string]any `json:"payload"`
	At      time.Time      `json:"timestamp"`
}

// New builds an event with a fresh ID. The payload map is retained as-is;
// callers must not mutate it after the call.
func New(t Type, at time.Time, payload map[string]any) Event {
	if payload == nil {
		payload = map[string]any{}
	}
	return Event{
		ID:      uuid.NewString(),
		Type:    t,
		Payload: payload,
		At:      at,
	}
}

// DeviceID returns the payload "id" field, or "" when the event is not
// tied to a device (e.g. ROTINA_EXECUTADA).
func (e Event) DeviceID() string {
	if v, ok := e.Payload["id"].(string); ok {
		return v
	}
	return ""
}

// Observer receives events published by the hub.
//
// Notify errors are logged and swallowed by the hub; a failing observer
// never blocks delivery to the remaining observers or the hub's caller.
type Observer interface {
	Notify(evt Event) error
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(evt Event) error

// Notify implements Observer.
func (f ObserverFunc) Notify(evt Event) error { return f(evt) }
