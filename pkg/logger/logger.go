package logger

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a LOG_LEVEL value to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Init initializes the global slog logger. Format "pretty" writes colored
// console lines; anything else writes JSON.
func Init(writer io.Writer, level slog.Level, format string) {
	var handler slog.Handler
	if format == "pretty" {
		handler = tint.NewHandler(writer, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				// Customize attribute keys for consistency if needed
				if a.Key == slog.TimeKey {
					a.Key = "timestamp"
				}
				if a.Key == slog.LevelKey {
					a.Key = "level"
				}
				if a.Key == slog.MessageKey {
					a.Key = "message"
				}
				return a
			},
		})
	}
	slog.SetDefault(slog.New(handler))
}

// NewBrowserLogger returns the printf-style logger handed to chromedp.
func NewBrowserLogger(level slog.Level) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel(level))
	cfg.Sampling = nil
	l, err := cfg.Build(zap.Fields(zap.String("component", "browser")))
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

func zapLevel(level slog.Level) zapcore.Level {
	switch {
	case level <= slog.LevelDebug:
		return zapcore.DebugLevel
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	}
	return zapcore.InfoLevel
}
