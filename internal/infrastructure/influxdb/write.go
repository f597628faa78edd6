package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteTransition records one device state transition.
//
// The write is non-blocking; points are batched and sent asynchronously.
//
// Parameters:
//   - deviceID: Device identifier (e.g., "luz_sala")
//   - kind: Device kind (e.g., "LUZ")
//   - trigger: Command that caused the transition
//   - from, to: Source and destination states
//   - at: When the transition happened
func (c *Client) WriteTransition(deviceID, kind, trigger, from, to string, at time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"transitions",
		map[string]string{
			"device_id": deviceID,
			"kind":      kind,
		},
		map[string]interface{}{
			"trigger": trigger,
			"from":    from,
			"to":      to,
		},
		at,
	)

	c.writeAPI.WritePoint(point)
}

// WriteEnergy records a smart socket's energy consumption.
//
// Parameters:
//   - deviceID: Device identifier
//   - consumedWh: Cumulative consumption at switch-off, in watt-hours
func (c *Client) WriteEnergy(deviceID string, consumedWh float64, at time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"energy",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"consumed_wh": consumedWh,
		},
		at,
	)

	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this for measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
