package utils

import (
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetupLogger configures the shared logrus instance. level accepts the
// usual logrus names; anything unknown falls back to info.
func SetupLogger(level string) {
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
}

// Logger exposes the shared instance for middleware and workers.
func Logger() *logrus.Logger {
	return log
}

// LogEvent prints a standardized line with module/action/request_id.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(requestID, module, action, message string) {
	log.WithFields(logrus.Fields{
		"module":     strings.ToUpper(module),
		"action":     action,
		"request_id": strings.TrimSpace(requestID),
	}).Info(message)
}

// LogError mirrors LogEvent for failures that stay server-side.
func LogError(requestID, module, action string, err error) {
	log.WithFields(logrus.Fields{
		"module":     strings.ToUpper(module),
		"action":     action,
		"request_id": strings.TrimSpace(requestID),
	}).Error(err)
}
