// Package config provides configuration loading for Parklot Core.
//
// Configuration is loaded from a YAML file with hardcoded defaults applied
// first, then file values, then PARKLOT_* environment variable overrides.
// The loaded configuration is validated before use; a controller driving a
// physical barrier must never start with nonsensical timing or geometry.
//
// # Usage
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    return err
//	}
//	dwell := cfg.GateDwell()
//
// Timing values are stored as integer milliseconds in YAML and exposed as
// time.Duration through helper methods.
package config
