package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the logging interface used across all layers. Fields are passed
// as alternating key/value pairs: log.Info("user registered", "user_id", id).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

type zeroLogger struct {
	log zerolog.Logger
}

func New(level string) Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	zl := zerolog.New(os.Stdout).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	return &zeroLogger{log: zl}
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() Logger {
	return &zeroLogger{log: zerolog.Nop()}
}

func (l *zeroLogger) Debug(msg string, args ...interface{}) {
	l.withFields(l.log.Debug(), args).Msg(msg)
}

func (l *zeroLogger) Info(msg string, args ...interface{}) {
	l.withFields(l.log.Info(), args).Msg(msg)
}

func (l *zeroLogger) Warn(msg string, args ...interface{}) {
	l.withFields(l.log.Warn(), args).Msg(msg)
}

func (l *zeroLogger) Error(msg string, args ...interface{}) {
	l.withFields(l.log.Error(), args).Msg(msg)
}

func (l *zeroLogger) Fatal(msg string, args ...interface{}) {
	l.withFields(l.log.Fatal(), args).Msg(msg)
}

func (l *zeroLogger) withFields(ev *zerolog.Event, args []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, args[i+1])
	}
	return ev
}
