// Package log is the zerolog front end shared by the rc5 tools. Events go to a
// console writer on stderr, to an SQLite database, or to both.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	pkgLogger = zerolog.Nop()
	minLevel  = zerolog.InfoLevel
)

var (
	consoleOut io.Writer
	mu         sync.RWMutex
)

var ErrNotInitialized = errors.New("log: sqlite sink not initialized, call log.Init() first")

// timeFieldFmt is fixed width and always UTC so that the SQLite time range
// queries can compare the stored strings lexically.
const timeFieldFmt = "2006-01-02T15:04:05.000000000Z07:00"

// SetStd sends events at or above level to a console writer on stderr. If the
// SQLite sink is open, events go to both.
func SetStd(level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = level
	consoleOut = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	rebuild()
}

// ParseLevel accepts zerolog level names ("debug", "info", "warn", ...).
func ParseLevel(s string) (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log: %w", err)
	}
	if lvl == zerolog.NoLevel {
		return zerolog.InfoLevel, nil
	}
	return lvl, nil
}

// rebuild recomputes pkgLogger from the active sinks. Callers hold mu.
func rebuild() {
	var writers []io.Writer
	if consoleOut != nil {
		writers = append(writers, consoleOut)
	}
	if dbWriterInstance != nil {
		writers = append(writers, dbWriterInstance)
	}

	switch len(writers) {
	case 0:
		pkgLogger = zerolog.Nop()
		return
	case 1:
		pkgLogger = zerolog.New(writers[0])
	default:
		pkgLogger = zerolog.New(zerolog.MultiLevelWriter(writers...))
	}
	zerolog.TimeFieldFormat = timeFieldFmt
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	pkgLogger = pkgLogger.Level(minLevel).With().Timestamp().Logger()
}

func logger() *zerolog.Logger {
	mu.RLock()
	l := pkgLogger
	mu.RUnlock()
	return &l
}

func Debug() *zerolog.Event { return logger().Debug() }
func Info() *zerolog.Event  { return logger().Info() }
func Warn() *zerolog.Event  { return logger().Warn() }
func Error() *zerolog.Event { return logger().Error() }
func Fatal() *zerolog.Event { return logger().Fatal() }

// Printf logs at info level.
func Printf(format string, v ...any) {
	logger().Info().CallerSkipFrame(1).Msgf(format, v...)
}

func Fatalf(format string, v ...any) {
	logger().Fatal().Msgf(format, v...)
}
