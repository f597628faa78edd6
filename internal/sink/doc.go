// Package sink provides the event observers that attach to the hub.
//
// Each sink implements event.Observer and handles one destination:
//
//	            ┌──────────────┐
//	   Hub ───▶ │  observers   │
//	            └──────┬───────┘
//	                   │
//	     ┌─────────┬───┴─────┬──────────┬───────────┐
//	     ▼         ▼         ▼          ▼           ▼
//	  Console    CSV      History     MQTT       Influx
//	  (stdout)  (files)   (SQLite)   (broker)   (telemetry)
//
// Sinks are synchronous: the hub calls Notify inline, in registration
// order. A sink that fails only loses its own record; the hub swallows
// the error and keeps delivering. Sinks holding resources (files,
// database, broker connections) expose Close for shutdown.
package sink
