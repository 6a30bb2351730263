package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger routes diagnostics through logrus. Quiet mode keeps warnings and errors.
type Logger struct {
	log *logrus.Logger
}

// New creates a Logger writing to out.
func New(verbose bool, out io.Writer) *Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: !verbose,
		DisableQuote:     true,
	})
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.WarnLevel)
	}
	return &Logger{log: l}
}

// Discard returns a Logger that drops everything. Handy in tests.
func Discard() *Logger {
	return New(false, io.Discard)
}

func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.log.WithFields(fields).Debug(msg)
}

func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.log.WithFields(fields).Info(msg)
}

func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.log.WithFields(fields).Warn(msg)
}

func (l *Logger) Error(msg string, err error, fields map[string]interface{}) {
	l.log.WithFields(fields).WithError(err).Error(msg)
}
