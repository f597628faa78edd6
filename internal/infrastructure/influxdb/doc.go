// Package influxdb provides InfluxDB connectivity for CasaHub.
//
// It wraps the official influxdb-client-go v2 library with the hub's
// patterns for connection management, point writing, and health monitoring.
//
// # Purpose
//
// This package handles time-series storage for:
//   - Device state transitions
//   - Smart socket energy consumption
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    Enabled: true,
//	    URL:     "http://localhost:8086",
//	    Token:   "your-token",
//	    Org:     "casahub",
//	    Bucket:  "events",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteTransition("luz_sala", "LUZ", "ligar", "DESLIGADA", "LIGADA", time.Now())
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are delivered via
// the SetOnError callback. Connection and health check errors are
// returned directly.
package influxdb
