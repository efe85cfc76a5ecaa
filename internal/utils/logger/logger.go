package logger

import (
	"io"
	"os"
	"strings"

	"golang.org/x/exp/slog"

	"shelfkeeper/internal/app/server/config"
)

// New создает логгер для окружения: local - цветной вывод в консоль,
// dev - JSON с уровнем debug, prod - JSON с уровнем info.
func New(env string) *slog.Logger {
	switch env {
	case config.EnvLocal:
		return setupPrettySlog()
	case config.EnvDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}

// WithLevel как New, но уровень задается явно (LOG_LEVEL). Пустое или
// неизвестное значение оставляет уровень окружения.
func WithLevel(env, level string) *slog.Logger {
	if _, ok := parseLevel(level); !ok {
		return New(env)
	}
	return NewTo(os.Stdout, env, level)
}

// NewTo пишет в w. Клиент CLI выводит логи в stderr, чтобы не смешивать их
// с результатом команды.
func NewTo(w io.Writer, env, level string) *slog.Logger {
	lvl, ok := parseLevel(level)
	if !ok {
		lvl = slog.LevelInfo
		if env == config.EnvLocal || env == config.EnvDev {
			lvl = slog.LevelDebug
		}
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if env == config.EnvLocal {
		return slog.New(NewPrettyHandler(w, PrettyHandlerOptions{SlogOpts: opts}))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func setupPrettySlog() *slog.Logger {
	opts := PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug},
	}
	return slog.New(NewPrettyHandler(os.Stdout, opts))
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return 0, false
}
