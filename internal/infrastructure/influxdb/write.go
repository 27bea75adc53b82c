package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteOccupancy writes a capacity measurement after a gate cycle.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - siteID: Site identifier for multi-lot deployments
//   - available: Free slots after the cycle
//   - occupied: Occupied slots after the cycle
//   - total: Lot capacity
func (c *Client) WriteOccupancy(siteID string, available, occupied, total int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"occupancy",
		map[string]string{
			"site": siteID,
		},
		map[string]interface{}{
			"available": available,
			"occupied":  occupied,
			"total":     total,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteGateEvent writes one discrete gate event.
//
// Parameters:
//   - siteID: Site identifier
//   - kind: Event kind ("entry", "exit", "entry_denied")
func (c *Client) WriteGateEvent(siteID string, kind string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"gate_events",
		map[string]string{
			"site": siteID,
			"kind": kind,
		},
		map[string]interface{}{
			"count": 1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteEnvironment writes a validated temperature/humidity sample.
//
// Parameters:
//   - siteID: Site identifier
//   - temperatureC: Temperature in degrees Celsius
//   - humidityPct: Relative humidity in percent
func (c *Client) WriteEnvironment(siteID string, temperatureC, humidityPct float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"environment",
		map[string]string{
			"site": siteID,
		},
		map[string]interface{}{
			"temperature_c": temperatureC,
			"humidity_pct":  humidityPct,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("system_stats",
//	    map[string]string{"site": "lot-01"},
//	    map[string]interface{}{"uptime_seconds": 86400})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
