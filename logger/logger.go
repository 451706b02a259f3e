package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-yadex/yadex/config"
)

// Init builds the root logger from the [log] config section and
// returns a context carrying it; packages pick it up with
// log.FromContext.
func Init(ctx context.Context) (context.Context, error) {
	c := config.C()

	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return ctx, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}

	var w io.Writer = os.Stderr
	if c.Log.File != "" {
		f, err := os.OpenFile(c.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return ctx, fmt.Errorf("open log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, f)
	}

	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
		Prefix:          "yadex",
	})
	return log.WithContext(ctx, l), nil
}
