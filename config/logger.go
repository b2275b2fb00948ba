package config

import (
	"github.com/MonkyMars/gecho"
)

var logger = gecho.NewDefaultLogger()

// InitializeLogger replaces the default logger with one honouring the configured level.
func InitializeLogger() *gecho.Logger {
	logger = NewLogger(true)
	return logger
}

// NewLogger builds a logger at the environment's log level.
func NewLogger(showCaller bool) *gecho.Logger {
	level := gecho.ParseLogLevel(GetLogLevel())
	return gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(showCaller), gecho.WithLogLevel(level)))
}

func GetLogger() *gecho.Logger {
	return logger
}
