package logger

import (
	"log/slog"
	"os"
)

func Init() {
	handler := slog.NewJSONHandler(os.Stdout, nil)
	slog.SetDefault(slog.New(handler))
}

func attrs(fields map[string]any) []any {
	out := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}

func Info(msg string, fields map[string]any) {
	slog.Info(msg, attrs(fields)...)
}

func Warn(msg string, fields map[string]any) {
	slog.Warn(msg, attrs(fields)...)
}

func Error(msg string, fields map[string]any) {
	slog.Error(msg, attrs(fields)...)
}

func Fatal(msg string, fields map[string]any) {
	slog.Error(msg, attrs(fields)...)
	os.Exit(1)
}
