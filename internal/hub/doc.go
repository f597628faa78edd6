// Package hub implements the central registry and dispatcher of CasaHub.
//
// The hub owns the device collection and the routine table, routes
// commands and attribute changes into each device's FSM, and republishes
// every resulting event to the registered observers.
//
// # Architecture
//
//	┌────────────────────────────────────────────────────────────────┐
//	│                             Hub                                 │
//	│                                                                 │
//	│  ┌───────────────┐    ┌────────────────┐    ┌───────────────┐  │
//	│  │   Registry    │    │   Dispatcher   │    │   Routines    │  │
//	│  │   (hub.go)    │    │    (hub.go)    │    │ (routine.go)  │  │
//	│  │               │    │                │    │               │  │
//	│  │ • add/remove  │    │ • ExecuteCmd   │    │ • ordered     │  │
//	│  │ • list/get    │    │ • SetAttribute │    │   steps       │  │
//	│  │ • uniqueness  │    │ • ERRO events  │    │ • failure     │  │
//	│  └───────────────┘    └────────────────┘    │   isolation   │  │
//	│          │                     │            └───────────────┘  │
//	│          └─────────────────────┴──────────▶ publish(events)    │
//	└──────────────────────────────────│─────────────────────────────┘
//	                                   ▼
//	                     observers (console, CSV, SQLite, MQTT, Influx)
//
// # Execution model
//
// Single-threaded and synchronous: every operation runs to completion
// before returning, observers are invoked inline in registration order,
// and there is no locking. A multi-threaded host must serialise access
// to the hub externally.
//
// Observer failures (errors and panics) are logged and swallowed; they
// never reach the hub's caller or block the remaining observers.
package hub
