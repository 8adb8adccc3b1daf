package config

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

// ConfigureLogging sets up the global logrus logger. Logs go to stdout, as JSON unless the
// text format is requested.
func ConfigureLogging(settings LogSettings) error {
	switch settings.Format {
	case "", "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format %q", settings.Format)
	}

	log.SetOutput(os.Stdout)

	level := log.InfoLevel
	if settings.Level != "" {
		var err error
		if level, err = log.ParseLevel(settings.Level); err != nil {
			return fmt.Errorf("error parsing log level: %w", err)
		}
	}
	log.SetLevel(level)
	return nil
}
