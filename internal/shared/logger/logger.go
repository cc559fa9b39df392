// Package logger provides the structured logger used across the client.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus.Logger with client-specific field helpers.
type Logger struct {
	*logrus.Logger
}

// New creates a JSON logger at the given level; unknown levels fall back to info.
func New(level string) *Logger {
	log := logrus.New()

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	log.SetLevel(logLevel)

	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	log.SetOutput(os.Stdout)

	return &Logger{Logger: log}
}

// WithEpisode tags an entry with the episode key it concerns.
func (l *Logger) WithEpisode(noRawat string) *logrus.Entry {
	return l.Logger.WithField("no_rawat", noRawat)
}

// WithRequestID tags an entry with an outgoing request ID.
func (l *Logger) WithRequestID(id string) *logrus.Entry {
	return l.Logger.WithField("request_id", id)
}

// Nop returns a logger that discards everything, for tests.
func Nop() *Logger {
	log := logrus.New()
	log.SetOutput(nopWriter{})
	return &Logger{Logger: log}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
