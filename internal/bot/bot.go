// Package bot exposes the lot over a Telegram chat interface.
//
// The bot long-polls for commands and answers each one synchronously
// with a message built from the same snapshot the dashboard uses.
// Formatting is split into pure functions so replies are unit-testable
// without a Telegram session.
package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nerrad567/parklot-core/internal/infrastructure/config"
	"github.com/nerrad567/parklot-core/internal/state"
)

// Logger defines the logging interface used by the bot.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Bot serves chat commands against the shared state.
type Bot struct {
	api    *tgbotapi.BotAPI
	store  *state.Store
	cfg    config.TelegramConfig
	logger Logger
}

// New authenticates against the Telegram API.
//
// Parameters:
//   - cfg: Telegram settings (token comes from PARKLOT_TELEGRAM_TOKEN)
//   - store: Shared state snapshots for replies
//
// Returns:
//   - *Bot: Authenticated bot ready for Run
//   - error: If the token is rejected
func New(cfg config.TelegramConfig, store *state.Store) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("authenticating telegram bot: %w", err)
	}

	return &Bot{
		api:    api,
		store:  store,
		cfg:    cfg,
		logger: noopLogger{},
	}, nil
}

// SetLogger sets the logger for the bot.
func (b *Bot) SetLogger(logger Logger) {
	b.logger = logger
}

// Run long-polls for updates until the context is cancelled.
// Intended to be run as a goroutine from main.
func (b *Bot) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = b.cfg.PollTimeout
	updates := b.api.GetUpdatesChan(cfg)

	b.logger.Info("telegram bot polling", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			b.handleCommand(update.Message)
		}
	}
}

// handleCommand formats and sends the reply for one command message.
func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	reply := Reply(msg.Command(), b.store.Snapshot())

	out := tgbotapi.NewMessage(msg.Chat.ID, reply)
	if _, err := b.api.Send(out); err != nil {
		b.logger.Warn("telegram reply failed", "command", msg.Command(), "error", err)
	}
}

// Reply builds the response text for a command against a snapshot.
// Unknown commands get the capability list.
func Reply(command string, snap state.Snapshot) string {
	switch command {
	case "status":
		return FormatStatus(snap)
	case "time":
		return FormatTime(snap)
	case "temp":
		return FormatTemp(snap)
	case "all":
		return FormatAll(snap)
	default:
		return FormatStart()
	}
}

// FormatStart returns the greeting and capability list.
func FormatStart() string {
	return strings.Join([]string{
		"Parking lot controller.",
		"",
		"/status - slot availability",
		"/time - current date and time",
		"/temp - temperature and humidity",
		"/all - everything at once",
	}, "\n")
}

// FormatStatus returns slot availability, flagging a full lot.
func FormatStatus(snap state.Snapshot) string {
	if snap.Available == 0 {
		return fmt.Sprintf("Lot FULL (%d/%d slots free)", snap.Available, snap.Total)
	}
	return fmt.Sprintf("Slots free: %d/%d", snap.Available, snap.Total)
}

// FormatTime returns the current date and time of day.
func FormatTime(snap state.Snapshot) string {
	return fmt.Sprintf("Date: %s\nTime: %s", snap.Date, snap.Time)
}

// FormatTemp returns the last valid environment reading.
func FormatTemp(snap state.Snapshot) string {
	return fmt.Sprintf("Temperature: %.1f°C\nHumidity: %.1f%%", snap.Temperature, snap.Humidity)
}

// FormatAll concatenates status, time, and environment.
func FormatAll(snap state.Snapshot) string {
	return strings.Join([]string{
		FormatStatus(snap),
		FormatTime(snap),
		FormatTemp(snap),
	}, "\n")
}
