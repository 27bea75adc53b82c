package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Parklot Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Parking  ParkingConfig  `yaml:"parking"`
	Hardware HardwareConfig `yaml:"hardware"`
	Database DatabaseConfig `yaml:"database"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	API      APIConfig      `yaml:"api"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Telegram TelegramConfig `yaml:"telegram"`
	Time     TimeConfig     `yaml:"time"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SiteConfig contains site-specific information.
type SiteConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Timezone string `yaml:"timezone"`
}

// ParkingConfig contains the lot geometry and worker timing settings.
//
// All *_ms values are in milliseconds. They map directly onto the worker
// pass intervals: the sensor poll interval bounds debounce resolution, the
// gate dwell is how long the barrier stays fully open for vehicle passage.
type ParkingConfig struct {
	// TotalSlots is the number of parking slots in the lot.
	TotalSlots int `yaml:"total_slots"`

	// GateDwellMS is how long the barrier stays open per actuation.
	GateDwellMS int `yaml:"gate_dwell_ms"`

	// SensorPollMS is the presence-line sampling interval.
	SensorPollMS int `yaml:"sensor_poll_ms"`

	// GatePollMS is the channel poll timeout and end-of-pass sleep for the
	// gate controller.
	GatePollMS int `yaml:"gate_poll_ms"`

	// IndicatorPollMS is the indicator refresh interval.
	IndicatorPollMS int `yaml:"indicator_poll_ms"`

	// EnvironmentPollMS is the temperature/humidity sampling interval.
	// Must not be below the physical sensor's 2s minimum.
	EnvironmentPollMS int `yaml:"environment_poll_ms"`

	// DisplayUpdateMS is the default-view refresh interval for the local display.
	DisplayUpdateMS int `yaml:"display_update_ms"`

	// EntryQueueSize and ExitQueueSize bound the sensor event channels.
	EntryQueueSize int `yaml:"entry_queue_size"`
	ExitQueueSize  int `yaml:"exit_queue_size"`

	// SendTimeoutMS is the short timeout for best-effort channel sends.
	SendTimeoutMS int `yaml:"send_timeout_ms"`

	// CosmeticLockMS is the bounded-timeout acquisition window for cosmetic
	// aggregates (clock, display override).
	CosmeticLockMS int `yaml:"cosmetic_lock_ms"`
}

// HardwareConfig contains pin assignments and actuator geometry.
type HardwareConfig struct {
	// Driver selects the HAL backend: "sim" for the simulated lot.
	Driver string `yaml:"driver"`

	EntrySensorPin int `yaml:"entry_sensor_pin"`
	ExitSensorPin  int `yaml:"exit_sensor_pin"`
	ServoPin       int `yaml:"servo_pin"`
	GreenLEDPin    int `yaml:"green_led_pin"`
	RedLEDPin      int `yaml:"red_led_pin"`
	EnvSensorPin   int `yaml:"env_sensor_pin"`

	// ServoOpenAngle and ServoClosedAngle are the two fixed barrier positions.
	ServoOpenAngle   int `yaml:"servo_open_angle"`
	ServoClosedAngle int `yaml:"servo_closed_angle"`
}

// DatabaseConfig contains SQLite database settings for the gate event journal.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`

	// JournalMaxRows bounds the journal; older rows are pruned.
	JournalMaxRows int `yaml:"journal_max_rows"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// APIConfig contains HTTP dashboard server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	TLS      TLSConfig        `yaml:"tls"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// TLSConfig contains TLS certificate settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeoutConfig contains HTTP timeout settings (seconds).
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// TelegramConfig contains chat-bot settings.
type TelegramConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`

	// PollTimeout is the long-poll timeout in seconds.
	PollTimeout int `yaml:"poll_timeout"`
}

// TimeConfig contains time synchronisation settings.
type TimeConfig struct {
	// NTPServer is the primary time source.
	NTPServer string `yaml:"ntp_server"`

	// APIURL is the HTTP fallback time source, queried when NTP fails.
	APIURL string `yaml:"api_url"`

	// Timezone passed to the HTTP fallback (e.g. "Africa/Cairo").
	Timezone string `yaml:"timezone"`

	// ProbeURL is the endpoint used for internet reachability checks.
	// Expected to return HTTP 204.
	ProbeURL string `yaml:"probe_url"`

	// UpdateIntervalMS is how often the time-of-day aggregate is refreshed.
	UpdateIntervalMS int `yaml:"update_interval_ms"`

	// ConnectivityCheckMS is how often reachability is re-probed.
	ConnectivityCheckMS int `yaml:"connectivity_check_ms"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: PARKLOT_SECTION_KEY
// For example: PARKLOT_DATABASE_PATH, PARKLOT_TELEGRAM_TOKEN
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with sensible defaults.
//
// The timing defaults match the physical constraints of the lot hardware:
// 50ms sensor polling (debounce resolution), 2s barrier dwell (vehicle
// passage), 2s environment sampling (sensor minimum interval).
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			ID:       "lot-001",
			Name:     "Parklot",
			Timezone: "UTC",
		},
		Parking: ParkingConfig{
			TotalSlots:        4,
			GateDwellMS:       2000,
			SensorPollMS:      50,
			GatePollMS:        10,
			IndicatorPollMS:   100,
			EnvironmentPollMS: 2000,
			DisplayUpdateMS:   500,
			EntryQueueSize:    5,
			ExitQueueSize:     5,
			SendTimeoutMS:     100,
			CosmeticLockMS:    50,
		},
		Hardware: HardwareConfig{
			Driver:           "sim",
			EntrySensorPin:   18,
			ExitSensorPin:    19,
			ServoPin:         25,
			GreenLEDPin:      26,
			RedLEDPin:        27,
			EnvSensorPin:     4,
			ServoOpenAngle:   0,
			ServoClosedAngle: 90,
		},
		Database: DatabaseConfig{
			Path:           "./data/parklot.db",
			WALMode:        true,
			BusyTimeout:    5,
			JournalMaxRows: 1000,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "parklot-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Telegram: TelegramConfig{
			PollTimeout: 30,
		},
		Time: TimeConfig{
			NTPServer:           "pool.ntp.org",
			APIURL:              "https://timeapi.io/api/Time/current/zone",
			Timezone:            "UTC",
			ProbeURL:            "http://clients3.google.com/generate_204",
			UpdateIntervalMS:    5000,
			ConnectivityCheckMS: 10000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: PARKLOT_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Database
	if v := os.Getenv("PARKLOT_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("PARKLOT_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("PARKLOT_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("PARKLOT_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// API
	if v := os.Getenv("PARKLOT_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	// InfluxDB
	if v := os.Getenv("PARKLOT_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Telegram bot token (never committed to config files)
	if v := os.Getenv("PARKLOT_TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Site validation
	if c.Site.ID == "" {
		errs = append(errs, "site.id is required")
	}

	// Parking validation
	if c.Parking.TotalSlots < 1 {
		errs = append(errs, "parking.total_slots must be at least 1")
	}
	if c.Parking.GateDwellMS < 1 {
		errs = append(errs, "parking.gate_dwell_ms must be positive")
	}
	if c.Parking.SensorPollMS < 1 {
		errs = append(errs, "parking.sensor_poll_ms must be positive")
	}
	if c.Parking.EntryQueueSize < 1 || c.Parking.ExitQueueSize < 1 {
		errs = append(errs, "parking queue sizes must be at least 1")
	}

	// Hardware validation
	if c.Hardware.ServoOpenAngle < 0 || c.Hardware.ServoOpenAngle > 180 {
		errs = append(errs, "hardware.servo_open_angle must be between 0 and 180")
	}
	if c.Hardware.ServoClosedAngle < 0 || c.Hardware.ServoClosedAngle > 180 {
		errs = append(errs, "hardware.servo_closed_angle must be between 0 and 180")
	}

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	// Telegram validation
	if c.Telegram.Enabled && c.Telegram.Token == "" {
		errs = append(errs, "telegram.token is required when telegram is enabled (set PARKLOT_TELEGRAM_TOKEN)")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GateDwell returns the barrier dwell time as a Duration.
func (c *Config) GateDwell() time.Duration {
	return time.Duration(c.Parking.GateDwellMS) * time.Millisecond
}

// SensorPollInterval returns the presence-line sampling interval as a Duration.
func (c *Config) SensorPollInterval() time.Duration {
	return time.Duration(c.Parking.SensorPollMS) * time.Millisecond
}

// CosmeticLockTimeout returns the bounded lock-acquisition window for
// cosmetic aggregates as a Duration.
func (c *Config) CosmeticLockTimeout() time.Duration {
	return time.Duration(c.Parking.CosmeticLockMS) * time.Millisecond
}

// SendTimeout returns the best-effort channel send timeout as a Duration.
func (c *Config) SendTimeout() time.Duration {
	return time.Duration(c.Parking.SendTimeoutMS) * time.Millisecond
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
