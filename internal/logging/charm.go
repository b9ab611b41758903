package logging

import (
	"fmt"
	"io"
	"sync/atomic"

	charm "github.com/charmbracelet/log"
)

// CharmLogger is a Logger backed by charmbracelet/log.
// It renders colored, human-oriented output and is what the tools use on a terminal.
// It is safe for concurrent use.
type CharmLogger struct {
	logger       *charm.Logger
	level        Level
	fatalHandler atomic.Pointer[FatalHandler]
}

// NewCharmLogger creates a charm-backed logger writing to w at the given level.
// prefix, if non-empty, is shown before every message (typically the tool name).
func NewCharmLogger(w io.Writer, level Level, prefix string) *CharmLogger {
	l := charm.NewWithOptions(w, charm.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           toCharmLevel(level),
	})
	return &CharmLogger{logger: l, level: level}
}

func toCharmLevel(l Level) charm.Level {
	switch l {
	case LevelError:
		return charm.ErrorLevel
	case LevelWarn:
		return charm.WarnLevel
	case LevelInfo:
		return charm.InfoLevel
	default:
		return charm.DebugLevel
	}
}

// SetFatalHandler sets the handler called when Fatalf is invoked.
func (l *CharmLogger) SetFatalHandler(h FatalHandler) {
	l.fatalHandler.Store(&h)
}

// Level returns the logging level.
func (l *CharmLogger) Level() Level {
	return l.level
}

// Errorf implements Logger.
func (l *CharmLogger) Errorf(format string, args ...any) {
	l.logger.Errorf(format, args...)
}

// Warnf implements Logger.
func (l *CharmLogger) Warnf(format string, args ...any) {
	l.logger.Warnf(format, args...)
}

// Infof implements Logger.
func (l *CharmLogger) Infof(format string, args ...any) {
	l.logger.Infof(format, args...)
}

// Debugf implements Logger.
func (l *CharmLogger) Debugf(format string, args ...any) {
	l.logger.Debugf(format, args...)
}

// Fatalf logs at FATAL level and triggers the fatal handler.
// Unlike charm's own Fatalf it does not exit the process.
func (l *CharmLogger) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.logger.Log(charm.FatalLevel, msg)

	if h := l.fatalHandler.Load(); h != nil {
		(*h)(msg)
	}
}
