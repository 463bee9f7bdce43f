// Package config provides configuration helpers for go-enic commands:
// environment overrides, the YAML tuning file and persisted settings.
package config

import "os"

// Environment variables read by the commands.
const (
	EnvSerial   = "ENIC_SERIAL"
	EnvHTTP     = "ENIC_HTTP"
	EnvConfig   = "ENIC_CONFIG"
	EnvLogLevel = "ENIC_LOG_LEVEL"
	EnvLogFile  = "ENIC_LOG_FILE"
)

// Defaults used when nothing is set.
const (
	DefaultHTTPAddr = ":8080"
	DefaultLogLevel = "info"
	AppName         = "go-enic"
)

// SerialPort returns the serial device from ENIC_SERIAL.
// Empty means commands come from stdin.
func SerialPort(fallback string) string {
	return env(EnvSerial, fallback)
}

// HTTPAddr returns the web listen address from ENIC_HTTP.
func HTTPAddr(fallback string) string {
	if fallback == "" {
		fallback = DefaultHTTPAddr
	}
	return env(EnvHTTP, fallback)
}

// Path returns the tuning file path from ENIC_CONFIG. Empty means built-in
// defaults.
func Path(fallback string) string {
	return env(EnvConfig, fallback)
}

// LogLevel returns the log level from ENIC_LOG_LEVEL.
func LogLevel(fallback string) string {
	if fallback == "" {
		fallback = DefaultLogLevel
	}
	return env(EnvLogLevel, fallback)
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
