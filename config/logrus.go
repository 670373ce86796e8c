package config

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	logg *logrus.Logger
)

func GetLogger() *logrus.Logger {
	return logg
}

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetLevel(parseLevel(os.Getenv("LOG_LEVEL")))
	logg.SetOutput(os.Stderr)
}

// ConfigureLogger reapplies LOG_LEVEL after .env has been loaded.
func ConfigureLogger() {
	logg.SetLevel(parseLevel(os.Getenv("LOG_LEVEL")))
}

func parseLevel(s string) logrus.Level {
	if lvl, err := logrus.ParseLevel(strings.TrimSpace(s)); err == nil {
		return lvl
	}
	return logrus.InfoLevel
}

func LogError(logger *logrus.Logger, moduleName string, funcName string, context string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	logger.WithFields(fields).Error(err.Error())
}
