package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// zerologLogger implements Logger on top of zerolog.
type zerologLogger struct {
	l zerolog.Logger
}

// NewConsole creates a Logger writing human-readable output to stderr.
func NewConsole() Logger {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return NewZerolog(zerolog.New(out).With().Timestamp().Logger())
}

// NewZerolog wraps an existing zerolog.Logger.
func NewZerolog(l zerolog.Logger) Logger {
	return &zerologLogger{l: l}
}

func (z *zerologLogger) Debug(msg string, fields ...Field) { emit(z.l.Debug(), msg, fields) }
func (z *zerologLogger) Info(msg string, fields ...Field)  { emit(z.l.Info(), msg, fields) }
func (z *zerologLogger) Warn(msg string, fields ...Field)  { emit(z.l.Warn(), msg, fields) }
func (z *zerologLogger) Error(msg string, fields ...Field) { emit(z.l.Error(), msg, fields) }

func emit(event *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			event = event.Str(f.Key, v)
		case int:
			event = event.Int(f.Key, v)
		case int64:
			event = event.Int64(f.Key, v)
		case uint64:
			event = event.Uint64(f.Key, v)
		case bool:
			event = event.Bool(f.Key, v)
		case time.Duration:
			event = event.Dur(f.Key, v)
		case error:
			event = event.Err(v)
		default:
			event = event.Interface(f.Key, v)
		}
	}
	event.Msg(msg)
}
