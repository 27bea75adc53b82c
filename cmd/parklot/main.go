// Parklot Core - Parking Lot Controller
//
// This is the main entry point for the Parklot Core application.
// Parklot is an embedded real-time controller for a small parking lot:
//   - Capacity tracking with a fixed slot count
//   - Barrier automation driven by entry/exit presence sensors
//   - Local display, LED indicators, dashboard, and chat-bot presentation
//
// For architecture details, see: DESIGN.md
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/nerrad567/parklot-core/migrations"

	"github.com/nerrad567/parklot-core/internal/api"
	"github.com/nerrad567/parklot-core/internal/bot"
	"github.com/nerrad567/parklot-core/internal/clock"
	"github.com/nerrad567/parklot-core/internal/display"
	"github.com/nerrad567/parklot-core/internal/hal"
	"github.com/nerrad567/parklot-core/internal/infrastructure/config"
	"github.com/nerrad567/parklot-core/internal/infrastructure/database"
	"github.com/nerrad567/parklot-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/parklot-core/internal/infrastructure/logging"
	"github.com/nerrad567/parklot-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/parklot-core/internal/journal"
	"github.com/nerrad567/parklot-core/internal/parking"
	"github.com/nerrad567/parklot-core/internal/state"
	"github.com/nerrad567/parklot-core/internal/telemetry"
	"github.com/nerrad567/parklot-core/internal/worker"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// overrideHold is how long an operator or gate message stays on the local
// display before the default view resumes.
const overrideHold = 3 * time.Second

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	// This is the Go pattern for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Run the application
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Parklot Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Shared lot state: one store, five independently locked aggregates
	store := state.New(cfg.Parking.TotalSlots, cfg.CosmeticLockTimeout())
	log.Info("state store initialised", "total_slots", cfg.Parking.TotalSlots)

	// Connect the hardware devices
	lot, err := hal.New(cfg.Hardware)
	if err != nil {
		return fmt.Errorf("initialising hardware: %w", err)
	}
	log.Info("hardware initialised", "driver", cfg.Hardware.Driver)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Gate event journal
	journalRepo := journal.NewSQLiteRepository(db.DB, cfg.Database.JournalMaxRows)
	log.Info("journal initialised", "max_rows", cfg.Database.JournalMaxRows)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		// Set up MQTT logging callbacks
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		// Set up InfluxDB error callback
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Telemetry recorder fans completed gate activity out to the journal,
	// MQTT, and InfluxDB off the real-time lane. Assign through locals so a
	// disabled sink stays a nil interface, not a typed nil.
	var bus telemetry.Publisher
	if mqttClient != nil {
		bus = mqttClient
	}
	var metrics telemetry.MetricsWriter
	if influxClient != nil {
		metrics = influxClient
	}
	recorder := telemetry.New(telemetry.Options{
		SiteID:  cfg.Site.ID,
		Store:   store,
		Journal: journalRepo,
		Bus:     bus,
		Metrics: metrics,
		Logger:  log,
	})
	go recorder.Run(ctx)

	// Sensor events flow through bounded channels: the monitor produces,
	// the gate controller consumes. Entry is always drained before exit.
	entryCh := make(chan parking.Event, cfg.Parking.EntryQueueSize)
	exitCh := make(chan parking.Event, cfg.Parking.ExitQueueSize)

	monitor := parking.NewMonitor(lot.EntrySensor, lot.ExitSensor, entryCh, exitCh, cfg.SendTimeout())
	monitor.SetLogger(log)

	controller := parking.NewController(parking.ControllerOptions{
		Store:       store,
		Barrier:     lot.Barrier,
		EntryCh:     entryCh,
		ExitCh:      exitCh,
		Dwell:       cfg.GateDwell(),
		PollTimeout: time.Duration(cfg.Parking.GatePollMS) * time.Millisecond,
		OpenAngle:   cfg.Hardware.ServoOpenAngle,
		ClosedAngle: cfg.Hardware.ServoClosedAngle,
	})
	controller.SetLogger(log)
	controller.SetRecorder(recorder)

	indicator := parking.NewIndicator(store, lot.GreenLED, lot.RedLED)

	envMonitor := parking.NewEnvMonitor(store, lot.EnvSensor)
	envMonitor.SetLogger(log)
	envMonitor.SetRecorder(recorder)

	syncer := clock.New(store, cfg.Time)
	syncer.SetLogger(log)

	renderer := display.NewRenderer(store, lot.Display, overrideHold)

	// Park the barrier in the closed position before any events flow.
	lot.Barrier.MoveTo(cfg.Hardware.ServoClosedAngle)

	supervisor, err := buildWorkers(cfg, monitor, controller, indicator, envMonitor, syncer, renderer, store, recorder)
	if err != nil {
		return fmt.Errorf("registering workers: %w", err)
	}
	supervisor.SetLogger(log)

	if startErr := supervisor.Start(ctx); startErr != nil {
		return fmt.Errorf("starting workers: %w", startErr)
	}

	// Start the HTTP dashboard and REST API
	apiServer, err := api.New(api.Deps{
		Config:     cfg.API,
		Logger:     log,
		Store:      store,
		Journal:    journalRepo,
		Supervisor: supervisor,
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := apiServer.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	// Start the Telegram bot (optional)
	if cfg.Telegram.Enabled {
		chatBot, botErr := bot.New(cfg.Telegram, store)
		if botErr != nil {
			return fmt.Errorf("creating telegram bot: %w", botErr)
		}
		chatBot.SetLogger(log)
		go chatBot.Run(ctx)
	} else {
		log.Info("telegram bot disabled")
	}

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient, apiServer); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Let every worker finish its current pass; the gate controller may be
	// mid-dwell and needs to close the barrier.
	supervisor.Wait()

	// Deferred Close() calls will run in reverse order:
	// 1. API server
	// 2. InfluxDB (if enabled)
	// 3. MQTT (if enabled)
	// 4. Database

	log.Info("Parklot Core stopped")
	return nil
}

// buildWorkers registers the fixed worker set with a new supervisor.
//
// The real-time lane holds the hardware loops (sensors, gate, indicator,
// environment sensor); the best-effort lane holds presentation and network
// loops. Priority orders startup within a lane.
func buildWorkers(
	cfg *config.Config,
	monitor *parking.Monitor,
	controller *parking.Controller,
	indicator *parking.Indicator,
	envMonitor *parking.EnvMonitor,
	syncer *clock.Syncer,
	renderer *display.Renderer,
	store *state.Store,
	recorder *telemetry.Recorder,
) (*worker.Supervisor, error) {
	supervisor := worker.NewSupervisor()

	workers := []worker.Worker{
		{
			Name:     "sensor-monitor",
			Lane:     worker.LaneRealTime,
			Priority: 3,
			Interval: cfg.SensorPollInterval(),
			Run:      monitor.Pass,
		},
		{
			Name:     "gate-controller",
			Lane:     worker.LaneRealTime,
			Priority: 2,
			Interval: time.Duration(cfg.Parking.GatePollMS) * time.Millisecond,
			Run:      controller.Pass,
		},
		{
			Name:     "slot-indicator",
			Lane:     worker.LaneRealTime,
			Priority: 1,
			Interval: time.Duration(cfg.Parking.IndicatorPollMS) * time.Millisecond,
			Run:      indicator.Pass,
		},
		{
			Name:     "environment-monitor",
			Lane:     worker.LaneRealTime,
			Priority: 0,
			Interval: time.Duration(cfg.Parking.EnvironmentPollMS) * time.Millisecond,
			Run:      envMonitor.Pass,
		},
		{
			Name:     "display-renderer",
			Lane:     worker.LaneBestEffort,
			Priority: 3,
			Interval: time.Duration(cfg.Parking.DisplayUpdateMS) * time.Millisecond,
			Run:      renderer.Pass,
		},
		{
			Name:     "gate-publisher",
			Lane:     worker.LaneBestEffort,
			Priority: 2,
			Interval: time.Duration(cfg.Parking.IndicatorPollMS) * time.Millisecond,
			Run:      gatePublisher(store, recorder),
		},
		{
			Name:     "time-sync",
			Lane:     worker.LaneBestEffort,
			Priority: 1,
			Interval: time.Duration(cfg.Time.UpdateIntervalMS) * time.Millisecond,
			Run:      syncer.SyncPass,
		},
		{
			Name:     "connectivity-probe",
			Lane:     worker.LaneBestEffort,
			Priority: 0,
			Interval: time.Duration(cfg.Time.ConnectivityCheckMS) * time.Millisecond,
			Run:      syncer.ProbePass,
		},
	}

	for _, w := range workers {
		if err := supervisor.Add(w); err != nil {
			return nil, err
		}
	}
	return supervisor, nil
}

// gatePublisher returns a pass function that republishes the retained gate
// status document whenever the gate aggregate changes. The first pass always
// publishes, seeding the retained topic at startup.
func gatePublisher(store *state.Store, recorder *telemetry.Recorder) func(ctx context.Context) {
	published := false
	var last state.GateStatus
	return func(_ context.Context) {
		gate := store.Gate()
		if published && gate == last {
			return
		}
		recorder.PublishGate(gate)
		published = true
		last = gate
	}
}

// getConfigPath returns the configuration file path.
// Uses PARKLOT_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("PARKLOT_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - mqttClient: MQTT client to check (may be nil if disabled)
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//   - apiServer: API server to check
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client, apiServer *api.Server) error {
	// Check database
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	// Check MQTT (if enabled)
	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	// Check InfluxDB (if enabled)
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	// Check API server
	if err := apiServer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	return nil
}
