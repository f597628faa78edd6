// Package device implements the per-kind finite-state machines that govern
// every simulated device in CasaHub.
//
// Each kind (porta, luz, tomada, cafeteira, radio, persiana) is a struct
// embedding the shared machine, which carries identity, the current state
// and the kind's transition table. A transition rule pairs a (state,
// command) key with an optional guard; the first rule whose guard passes
// fires, runs its before-effect and moves the state.
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│                         device package                            │
//	│                                                                   │
//	│  ┌──────────────┐   ┌───────────────┐   ┌─────────────────────┐  │
//	│  │   machine    │   │  kind structs │   │      factory        │  │
//	│  │ (machine.go) │◀──│ door, light,  │   │    (factory.go)     │  │
//	│  │              │   │ socket, coffee│   │                     │  │
//	│  │ • rule table │   │ radio, blind  │   │ • New(kind,id,...)  │  │
//	│  │ • guards     │   │               │   │ • attrs validation  │  │
//	│  │ • event emit │   │ • effects     │   │ • initial state     │  │
//	│  └──────────────┘   └───────────────┘   └─────────────────────┘  │
//	└──────────────────────────────────────────────────────────────────┘
//
// # Command outcomes
//
// A command that no rule accepts in the current state is blocked, not an
// error: the device acknowledges it with a COMANDO_EXECUTADO event carrying
// bloqueado=true and a motivo, and the state does not change. Only unknown
// commands and argument validation failures surface as Go errors.
//
// Executions return an Outcome whose Events slice holds everything the
// command produced; the hub forwards those events to its observers in order.
package device
