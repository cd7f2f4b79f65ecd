package utils

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// InitLogger configures the global logrus logger. Set LOG_FORMAT=json for
// structured output (the default is the readable text formatter).
func InitLogger() {
	log.SetOutput(os.Stdout)
	if os.Getenv("LOG_FORMAT") == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
	if lvl, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}
}
