package influxdb_test

import (
	"errors"
	"testing"

	"github.com/nerrad567/parklot-core/internal/infrastructure/config"
	"github.com/nerrad567/parklot-core/internal/infrastructure/influxdb"
)

func TestConnectDisabled(t *testing.T) {
	cfg := config.InfluxDBConfig{
		Enabled: false,
		URL:     "http://localhost:8086",
		Token:   "parklot-dev-token",
		Org:     "parklot",
		Bucket:  "metrics",
	}

	_, err := influxdb.Connect(cfg)
	if !errors.Is(err, influxdb.ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestCloseUnconnected(t *testing.T) {
	client := &influxdb.Client{}
	if err := client.Close(); err != nil {
		t.Errorf("Close() on unconnected client error = %v, want nil", err)
	}
}

func TestFlushUnconnected(t *testing.T) {
	client := &influxdb.Client{}
	// Must not panic with no write API.
	client.Flush()
}

func TestWriteUnconnected(t *testing.T) {
	client := &influxdb.Client{}
	// Writes on a disconnected client are silently dropped.
	client.WriteOccupancy("lot-01", 3, 1, 4)
	client.WriteGateEvent("lot-01", "entry")
	client.WriteEnvironment("lot-01", 21.5, 45.0)
	client.WritePoint("custom", nil, map[string]interface{}{"v": 1})
}
