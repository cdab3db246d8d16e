package logger

import (
	"log/slog"
	"os"
)

// New: JSON в stdout, в dev ещё и Debug. Логгер становится slog.Default:
// им пишут компоненты, которым свой не передали.
func New(env string) *slog.Logger {
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	log := slog.New(h).With("service", "storage-desk")
	slog.SetDefault(log)
	return log
}
