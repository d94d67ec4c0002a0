package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/samber/oops"
)

var log = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// Init replaces the process logger. format is "json" or "text", level is
// one of debug, info, warn, error. A nil writer means stdout.
func Init(format, level string, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "", "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		return fmt.Errorf("invalid log format %q: must be 'json' or 'text'", format)
	}

	log = slog.New(handler)
	slog.SetDefault(log)
	log.Info("logger initialized")
	return nil
}

// Logger returns the underlying slog logger.
func Logger() *slog.Logger {
	return log
}

func Debug(msg string, fields map[string]any) {
	log.Debug(msg, attrs(fields)...)
}

func Info(msg string, fields map[string]any) {
	log.Info(msg, attrs(fields)...)
}

func Warn(msg string, fields map[string]any) {
	log.Warn(msg, attrs(fields)...)
}

func Error(msg string, fields map[string]any) {
	log.Error(msg, attrs(fields)...)
}

func Fatal(msg string, fields map[string]any) {
	log.Error(msg, append(attrs(fields), "fatal", true)...)
	os.Exit(1)
}

// LogError logs err at error level. oops errors contribute their code and
// context so the cause can be traced without leaking it to clients.
func LogError(msg string, err error, fields map[string]any) {
	args := attrs(fields)
	if oopsErr, ok := oops.AsOops(err); ok {
		args = append(args, "error", oopsErr.Error())
		if code := oopsErr.Code(); code != nil {
			args = append(args, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			args = append(args, "context", ctx)
		}
	} else if err != nil {
		args = append(args, "error", err.Error())
	}
	log.Error(msg, args...)
}

func attrs(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	out := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}
