package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options controls where and how the process logs.
type Options struct {
	Level    string // zerolog level name; empty means info
	Pretty   bool   // console writer instead of raw JSON
	Dir      string // when set, log lines are teed into a dated file under Dir
	Symbol   string
	Interval string
}

// New builds the process logger. The returned closer owns the log
// file, if any, and is a no-op otherwise.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	var console io.Writer = os.Stderr
	if opts.Pretty {
		console = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}

	writer := console
	closer := io.Closer(nopCloser{})
	if opts.Dir != "" {
		file, err := openLogFile(opts.Dir, opts.Symbol, opts.Interval)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, err
		}
		writer = zerolog.MultiLevelWriter(console, file)
		closer = file
	}

	log := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return log, closer, nil
}

// openLogFile opens an append-only dated log file, one per symbol and
// interval per day.
func openLogFile(dir, symbol, interval string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	name := fmt.Sprintf("%s_%s_%s.log", symbol, interval, time.Now().Format("2006-01-02"))
	file, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
