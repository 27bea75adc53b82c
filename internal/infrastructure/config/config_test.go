package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
site:
  id: "test-lot"
parking:
  total_slots: 6
  gate_dwell_ms: 1500
database:
  path: "/tmp/test.db"
  wal_mode: true
mqtt:
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
api:
  host: "0.0.0.0"
  port: 8080
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Site.ID != "test-lot" {
		t.Errorf("Site.ID = %q, want %q", cfg.Site.ID, "test-lot")
	}

	if cfg.Parking.TotalSlots != 6 {
		t.Errorf("Parking.TotalSlots = %d, want 6", cfg.Parking.TotalSlots)
	}

	if cfg.Parking.GateDwellMS != 1500 {
		t.Errorf("Parking.GateDwellMS = %d, want 1500", cfg.Parking.GateDwellMS)
	}

	// Defaults survive partial files
	if cfg.Parking.SensorPollMS != 50 {
		t.Errorf("Parking.SensorPollMS = %d, want default 50", cfg.Parking.SensorPollMS)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	content := `
site:
  id: "test-lot"
database:
  path: "/tmp/from-file.db"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("PARKLOT_DATABASE_PATH", "/tmp/from-env.db")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/from-env.db" {
		t.Errorf("Database.Path = %q, want env override %q", cfg.Database.Path, "/tmp/from-env.db")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "empty site id",
			mutate:  func(c *Config) { c.Site.ID = "" },
			wantErr: true,
		},
		{
			name:    "zero slots",
			mutate:  func(c *Config) { c.Parking.TotalSlots = 0 },
			wantErr: true,
		},
		{
			name:    "zero dwell",
			mutate:  func(c *Config) { c.Parking.GateDwellMS = 0 },
			wantErr: true,
		},
		{
			name:    "servo angle out of range",
			mutate:  func(c *Config) { c.Hardware.ServoOpenAngle = 270 },
			wantErr: true,
		},
		{
			name:    "invalid qos",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: true,
		},
		{
			name:    "invalid api port",
			mutate:  func(c *Config) { c.API.Port = 0 },
			wantErr: true,
		},
		{
			name:    "telegram enabled without token",
			mutate:  func(c *Config) { c.Telegram.Enabled = true },
			wantErr: true,
		},
		{
			name: "telegram enabled with token",
			mutate: func(c *Config) {
				c.Telegram.Enabled = true
				c.Telegram.Token = "123456:token"
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_DurationHelpers(t *testing.T) {
	cfg := Default()

	if got := cfg.GateDwell().Milliseconds(); got != 2000 {
		t.Errorf("GateDwell() = %dms, want 2000ms", got)
	}
	if got := cfg.SensorPollInterval().Milliseconds(); got != 50 {
		t.Errorf("SensorPollInterval() = %dms, want 50ms", got)
	}
	if got := cfg.CosmeticLockTimeout().Milliseconds(); got != 50 {
		t.Errorf("CosmeticLockTimeout() = %dms, want 50ms", got)
	}
}
