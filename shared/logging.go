package shared

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
)

// ConfigureLogging applies LOG_LEVEL to both loggers. Unknown levels fall back to info.
func ConfigureLogging(level string) {
	level = strings.ToLower(strings.TrimSpace(level))

	zerologLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		zerologLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(zerologLevel)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logrusLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logrusLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logrusLevel)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
