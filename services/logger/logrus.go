package logsvc

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/zhaoyk/iclass-cli/core"
)

// Logger is a logrus-backed console implementation of core.Logger.
type Logger struct {
	entry *logrus.Entry
}

var _ core.Logger = (*Logger)(nil)

func NewLogger(debug bool) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return &Logger{entry: logrus.NewEntry(l)}
}

// expected args: error and/or map[string]interface{}
func (l *Logger) prepare(args []interface{}) *logrus.Entry {
	entry := l.entry
	for _, arg := range args {
		switch v := arg.(type) {
		case error:
			entry = entry.WithError(v)
		case map[string]interface{}:
			entry = entry.WithFields(v)
		default:
			entry = entry.WithField("detail", v)
		}
	}
	return entry
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.prepare(args).Debug(msg) }
func (l *Logger) Info(msg string, args ...interface{})  { l.prepare(args).Info(msg) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.prepare(args).Warn(msg) }
func (l *Logger) Error(msg string, args ...interface{}) { l.prepare(args).Error(msg) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.prepare(args).Fatal(msg) }
