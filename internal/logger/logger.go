// Package logger sets up the logrus logger used for diagnostics. Everything
// is written to a daily file under the user config directory; verbose mode
// mirrors it to stderr. Messages meant for the operator go through the
// colors package instead.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
)

// Options configures New.
type Options struct {
	// Dir holds the log files; logging to file is skipped when empty.
	Dir     string
	Verbose bool
	// Now is used to name the daily file, time.Now when nil.
	Now func() time.Time
}

// Logger wraps a logrus logger together with its log file.
type Logger struct {
	*log.Logger
	file *os.File
	Path string
}

// New builds a logger. Failing to open the log file is not fatal: the
// logger then writes to stderr in verbose mode and nowhere otherwise.
func New(opts Options) *Logger {
	l := log.New()
	l.SetFormatter(&log.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})
	l.SetLevel(log.DebugLevel)

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	lg := &Logger{Logger: l}
	var writers []io.Writer
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err == nil {
			path := filepath.Join(opts.Dir, now().Format("20060102")+".log")
			if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600); err == nil {
				lg.file = f
				lg.Path = path
				writers = append(writers, f)
			}
		}
	}
	if opts.Verbose {
		writers = append(writers, os.Stderr)
	}

	switch len(writers) {
	case 0:
		l.SetOutput(io.Discard)
	case 1:
		l.SetOutput(writers[0])
	default:
		l.SetOutput(io.MultiWriter(writers...))
	}
	return lg
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
