package sink

import (
	"encoding/json"
	"fmt"

	"github.com/casalab/casahub/internal/event"
)

// EventPublisher is the part of the MQTT client the sink needs.
type EventPublisher interface {
	PublishEvent(eventType, deviceID string, payload []byte) error
}

// MQTT forwards every hub event to an MQTT broker, one topic per
// event type and device, so external consumers can subscribe with
// wildcards (casahub/events/TRANSICAO_ESTADO/#).
type MQTT struct {
	pub EventPublisher
}

// NewMQTT builds the MQTT sink on top of a connected publisher.
func NewMQTT(pub EventPublisher) *MQTT {
	return &MQTT{pub: pub}
}

// Notify implements event.Observer.
func (s *MQTT) Notify(evt event.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("sink: encoding event: %w", err)
	}
	return s.pub.PublishEvent(string(evt.Type), evt.DeviceID(), payload)
}
