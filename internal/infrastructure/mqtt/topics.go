package mqtt

import (
	"fmt"
	"strings"
)

// defaultTopicPrefix is used when the config leaves topic_prefix empty.
const defaultTopicPrefix = "casahub"

// Topics builds the hub's MQTT topic names. Using these helpers keeps
// topic naming consistent between the publisher sink and any external
// subscriber.
//
//	topics := mqtt.Topics{Prefix: "casahub"}
//	topics.Event("COMANDO_EXECUTADO", "luz_sala")
//	// Returns: "casahub/events/COMANDO_EXECUTADO/luz_sala"
type Topics struct {
	// Prefix is prepended to every topic. Defaults to "casahub".
	Prefix string
}

func (t Topics) prefix() string {
	if strings.TrimSpace(t.Prefix) == "" {
		return defaultTopicPrefix
	}
	return strings.Trim(t.Prefix, "/")
}

// Event returns the topic for one hub event, keyed by event type and
// the device it concerns. Events with no device land under "hub".
//
// Example: casahub/events/TRANSICAO_ESTADO/porta_entrada
func (t Topics) Event(eventType, deviceID string) string {
	if deviceID == "" {
		deviceID = "hub"
	}
	return fmt.Sprintf("%s/events/%s/%s", t.prefix(), eventType, deviceID)
}

// SystemStatus returns the topic carrying the hub's online/offline status.
//
// Example: casahub/system/status
func (t Topics) SystemStatus() string {
	return fmt.Sprintf("%s/system/status", t.prefix())
}
