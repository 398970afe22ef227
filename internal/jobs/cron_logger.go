package jobs

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

var _ cron.Logger = cronLogger{}

// cronLogger routes cron's own messages into slog. Cron reports every
// schedule and run at Info, which is noise for per-robot timers, so those
// go to Debug.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
