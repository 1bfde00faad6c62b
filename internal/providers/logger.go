// Package providers holds the ambient infrastructure both binaries share:
// logging, configuration loading, caching and metrics, wired the same way
// across cmd/tzbuild and cmd/tzprovider.
package providers

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// TypeEnum tags every log line with the subsystem that produced it, the
// same key-per-call-site idiom the original daemon used for its single
// TypeApp subsystem, extended here for tzcore's additional subsystems.
type TypeEnum string

const (
	TypeApp      TypeEnum = "app"
	TypeBuild    TypeEnum = "build"
	TypeTree     TypeEnum = "tree"
	TypeProvider TypeEnum = "provider"
	TypeBudget   TypeEnum = "budget"
)

// Logger is the leveled, structured logging facade used throughout tzcore.
type Logger interface {
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Errorf(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
}

type zerologLogger struct {
	logger zerolog.Logger
}

// NewLogProvider builds a Logger backed by zerolog, writing to w (or
// os.Stderr if nil) at the given minimum level ("debug", "info", "warn",
// "error").
func NewLogProvider(level string, w io.Writer) (Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	base := zerolog.New(w).With().Timestamp().Logger().Level(parsed)
	return &zerologLogger{logger: base}, nil
}

func (l *zerologLogger) Debugf(t TypeEnum, format string, args ...interface{}) {
	l.logger.Debug().Str("type", string(t)).Msgf(format, args...)
}

func (l *zerologLogger) Infof(t TypeEnum, format string, args ...interface{}) {
	l.logger.Info().Str("type", string(t)).Msgf(format, args...)
}

func (l *zerologLogger) Warnf(t TypeEnum, format string, args ...interface{}) {
	l.logger.Warn().Str("type", string(t)).Msgf(format, args...)
}

func (l *zerologLogger) Errorf(t TypeEnum, format string, args ...interface{}) {
	l.logger.Error().Str("type", string(t)).Msgf(format, args...)
}

func (l *zerologLogger) Fatalf(t TypeEnum, format string, args ...interface{}) {
	l.logger.Fatal().Str("type", string(t)).Msgf(format, args...)
}
