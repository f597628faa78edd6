package sink

import (
	"time"

	"github.com/casalab/casahub/internal/event"
)

// TelemetryWriter is the part of the InfluxDB client the sink needs.
type TelemetryWriter interface {
	WriteTransition(deviceID, kind, trigger, from, to string, at time.Time)
	WriteEnergy(deviceID string, consumedWh float64, at time.Time)
}

// Influx records state transitions and socket energy consumption as
// time-series points. Writes are fire-and-forget; the underlying
// client batches them.
type Influx struct {
	w TelemetryWriter
}

// NewInflux builds the telemetry sink on top of a connected writer.
func NewInflux(w TelemetryWriter) *Influx {
	return &Influx{w: w}
}

// Notify implements event.Observer.
func (s *Influx) Notify(evt event.Event) error {
	p := evt.Payload
	switch evt.Type {
	case event.TypeStateTransition:
		s.w.WriteTransition(
			str(p["id"]), str(p["tipo"]), str(p["evento"]),
			str(p["antes"]), str(p["depois"]), evt.At,
		)

	case event.TypeCommandExecuted:
		// Sockets attach their cumulative consumption when switched off.
		if wh, ok := toFloat(p["consumo_wh"]); ok {
			s.w.WriteEnergy(str(p["id"]), wh, evt.At)
		}
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
