package cw

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"
)

// logTimestamp is the session log's timestamp layout, expressed through
// strftime rather than a Go reference-time layout string.
var logTimestamp = strftime.MustNew("%Y-%m-%d %H:%M:%S")

// FormatLogTimestamp renders t in the session log's timestamp format.
func FormatLogTimestamp(t time.Time) string {
	return logTimestamp.FormatString(t)
}

// timestampWriter prefixes every write with a strftime-formatted
// timestamp, since charmbracelet/log's own TimeFormat option only
// accepts a Go reference-time layout, not a strftime pattern.
type timestampWriter struct {
	w io.Writer
}

func (tw *timestampWriter) Write(p []byte) (int, error) {
	line := append([]byte(FormatLogTimestamp(time.Now())+" "), p...)
	if _, err := tw.w.Write(line); err != nil {
		return 0, err
	}
	return len(p), nil
}

// NewSessionLogger returns a *log.Logger that stamps each line with
// FormatLogTimestamp instead of the library's own timestamp formatting,
// for a Generator or CLI command that wants a consistent session log.
func NewSessionLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(&timestampWriter{w: w}, log.Options{
		ReportTimestamp: false,
	})
	logger.SetFormatter(log.TextFormatter)
	return logger
}
