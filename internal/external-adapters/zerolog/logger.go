// Package zerolog adapts the domain Logger interface onto rs/zerolog.
package zerolog

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/ochairo/decant/internal/domain/interfaces"
)

// Logger implements interfaces.Logger on a zerolog logger
type Logger struct {
	log zerolog.Logger
}

// New creates a console logger at the given level. An unparseable level
// falls back to info.
func New(level string, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}

	parsed, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}

	writer := zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	return &Logger{
		log: zerolog.New(writer).Level(parsed).With().Timestamp().Logger(),
	}
}

// WithComponent returns a logger tagged with a component name
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{log: l.log.With().Str("component", name).Logger()}
}

// Debug logs debug-level messages
func (l *Logger) Debug(msg string, fields ...interfaces.Field) {
	l.emit(l.log.Debug(), msg, fields)
}

// Info logs informational messages
func (l *Logger) Info(msg string, fields ...interfaces.Field) {
	l.emit(l.log.Info(), msg, fields)
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, fields ...interfaces.Field) {
	l.emit(l.log.Warn(), msg, fields)
}

// Error logs error messages
func (l *Logger) Error(msg string, fields ...interfaces.Field) {
	l.emit(l.log.Error(), msg, fields)
}

func (l *Logger) emit(event *zerolog.Event, msg string, fields []interfaces.Field) {
	for _, field := range fields {
		event = event.Interface(field.Key, field.Value)
	}
	event.Msg(msg)
}
