// Package influxdb provides InfluxDB connectivity for Parklot Core.
//
// It wraps the official influxdb-client-go v2 library with Parklot-specific
// patterns for connection management, metric writing, and health monitoring.
//
// # Purpose
//
// This package handles time-series data storage for:
//   - Lot occupancy over time (available/occupied after each gate cycle)
//   - Discrete gate events (entry, exit, entry_denied)
//   - Temperature and humidity samples
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    URL:    "http://localhost:8086",
//	    Token:  "your-token",
//	    Org:    "parklot",
//	    Bucket: "metrics",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Write occupancy after a gate cycle
//	client.WriteOccupancy("lot-01", 3, 1, 4)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are logged via a callback.
// Connection and health check errors are returned directly.
//
// # Performance
//
// Writes are batched according to config.yaml settings (batch_size, flush_interval).
// This keeps per-cycle overhead off the gate controller's path.
package influxdb
