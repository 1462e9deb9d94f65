package logx

import (
	"io"
	"os"

	"github.com/plenarlens/server/internal/core"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var DefaultLoggerOpts = &LoggerOpts{
	Environment: core.Development,
}

type LoggerOpts struct {
	Environment core.Environment
	// Output defaults to stderr so CLI output on stdout stays clean.
	Output io.Writer
	// Verbose forces debug level regardless of environment.
	Verbose bool
}

func safe(otps ...LoggerOpts) *LoggerOpts {
	if len(otps) == 0 {
		return DefaultLoggerOpts
	}
	return &otps[0]
}

func Init(otps ...LoggerOpts) {
	o := safe(otps...)
	out := o.Output
	if out == nil {
		out = os.Stderr
	}

	if o.Environment == core.Production {
		log.Logger = zerolog.New(out).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	} else {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Caller().Logger()
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}
	if o.Verbose {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	}
}

// Disable silences all log output, mostly for tests.
func Disable() {
	log.Logger = zerolog.Nop()
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
