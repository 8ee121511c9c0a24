package main

import (
	"os"

	"quadterm/internal/logging"
)

const envLogLevel = "QUADTERM_LOG_LEVEL"

func defaultLogLevel(getenv func(string) string) logging.Level {
	if getenv == nil {
		getenv = os.Getenv
	}
	if level, ok := logging.ParseLevel(getenv(envLogLevel)); ok {
		return level
	}
	return logging.LevelInfo
}
