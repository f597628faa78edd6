// Package mqtt provides MQTT client connectivity for CasaHub.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Event publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// The hub publishes every event it emits to the broker so external
// consumers (dashboards, automations) can react without linking against
// the hub:
//
//	CasaHub → MQTT Broker → subscribers
//
// Topics follow <prefix>/events/<event type>/<device id>, plus a
// retained <prefix>/system/status carrying online/offline state.
//
// # Security Considerations
//
//   - TLS is required for production deployments (broker.tls=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.Sinks.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.PublishEvent("TRANSICAO_ESTADO", "luz_sala", payload)
package mqtt
