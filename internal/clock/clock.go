// Package clock keeps the time-of-day aggregate synchronised from
// external sources.
//
// NTP is the primary source; an HTTP time API is the fallback when NTP
// fails; when both fail the stored value is simply retained. A separate
// pass probes internet reachability against an HTTP 204 endpoint. Both
// passes write under the clock lock's bounded-timeout acquisition and
// skip the cycle on a miss.
package clock

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/beevik/ntp"

	"github.com/nerrad567/parklot-core/internal/infrastructure/config"
	"github.com/nerrad567/parklot-core/internal/state"
)

// Rendered formats for the display and presentation channels.
const (
	timeFormat = "15:04:05"
	dateFormat = "2006/01/02"
)

// requestTimeout bounds each outbound source request.
const requestTimeout = 5 * time.Second

// Logger defines the logging interface used by the syncer.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}

// Syncer refreshes the clock aggregate from NTP with an HTTP fallback.
//
// The source functions are fields so tests can substitute fakes; the
// defaults query the configured real services.
type Syncer struct {
	store    *state.Store
	cfg      config.TimeConfig
	location *time.Location
	client   *http.Client
	logger   Logger

	// ntpTime queries the primary source. Defaults to ntp.Time.
	ntpTime func(server string) (time.Time, error)

	// hadSync tracks whether any source has ever succeeded, for logging
	// the first successful sync at Info.
	hadSync bool
}

// New creates a time syncer over the given store.
//
// An unparseable timezone falls back to UTC rather than failing: a lot
// controller with a bad timezone should still open the barrier.
func New(store *state.Store, cfg config.TimeConfig) *Syncer {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		location = time.UTC
	}

	return &Syncer{
		store:    store,
		cfg:      cfg,
		location: location,
		client:   &http.Client{Timeout: requestTimeout},
		logger:   noopLogger{},
		ntpTime:  ntp.Time,
	}
}

// SetLogger sets the logger for the syncer.
func (s *Syncer) SetLogger(logger Logger) {
	s.logger = logger
}

// SyncPass refreshes the time-of-day aggregate once.
func (s *Syncer) SyncPass(ctx context.Context) {
	now, err := s.fetchTime(ctx)
	if err != nil {
		s.logger.Debug("time sync failed, retaining previous value", "error", err)
		return
	}

	now = now.In(s.location)
	if !s.store.SetClockTime(now.Format(timeFormat), now.Format(dateFormat)) {
		s.logger.Debug("clock lock busy, update skipped")
		return
	}

	if !s.hadSync {
		s.hadSync = true
		s.logger.Info("time synchronised", "time", now.Format(timeFormat), "date", now.Format(dateFormat))
	}
}

// ProbePass refreshes the reachability flags once.
func (s *Syncer) ProbePass(ctx context.Context) {
	network, internet := s.probe(ctx)
	if !s.store.SetConnectivity(network, internet) {
		s.logger.Debug("clock lock busy, connectivity update skipped")
	}
}

// fetchTime tries NTP first, then the HTTP fallback.
func (s *Syncer) fetchTime(ctx context.Context) (time.Time, error) {
	now, ntpErr := s.ntpTime(s.cfg.NTPServer)
	if ntpErr == nil {
		return now, nil
	}

	now, apiErr := s.fetchHTTPTime(ctx)
	if apiErr == nil {
		s.logger.Debug("NTP failed, used HTTP fallback", "ntp_error", ntpErr)
		return now, nil
	}

	return time.Time{}, fmt.Errorf("ntp: %w; http fallback: %w", ntpErr, apiErr)
}

// apiTimeResponse is the subset of the HTTP time API document we read.
type apiTimeResponse struct {
	DateTime string `json:"dateTime"`
}

// fetchHTTPTime queries the fallback time API for the configured timezone.
func (s *Syncer) fetchHTTPTime(ctx context.Context) (time.Time, error) {
	url := fmt.Sprintf("%s?timeZone=%s", s.cfg.APIURL, s.cfg.Timezone)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return time.Time{}, fmt.Errorf("building time request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return time.Time{}, fmt.Errorf("querying time API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return time.Time{}, fmt.Errorf("time API returned status %d", resp.StatusCode)
	}

	var doc apiTimeResponse
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return time.Time{}, fmt.Errorf("decoding time API response: %w", err)
	}

	// The API returns wall time already in the requested zone, with
	// fractional seconds we don't need.
	if len(doc.DateTime) < len("2006-01-02T15:04:05") {
		return time.Time{}, fmt.Errorf("time API value too short: %q", doc.DateTime)
	}
	now, err := time.ParseInLocation("2006-01-02T15:04:05", doc.DateTime[:19], s.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing time API value %q: %w", doc.DateTime, err)
	}
	return now, nil
}

// probe checks reachability against the 204 endpoint.
//
// network means an HTTP response of any status came back (the local
// network and DNS work); internet additionally requires the expected
// 204, distinguishing captive portals from real connectivity.
func (s *Syncer) probe(ctx context.Context) (network, internet bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.ProbeURL, nil)
	if err != nil {
		return false, false
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false, false
	}
	defer resp.Body.Close()

	return true, resp.StatusCode == http.StatusNoContent
}
