package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// New creates a structured logger writing to w.
// level is one of debug, info, warn, error; format is text or json.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl := slog.LevelInfo
	if level = strings.TrimSpace(level); level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (expected text or json)", format)
	}
}
