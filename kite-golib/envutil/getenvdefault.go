package envutil

import (
	"os"
	"strconv"
	"time"
)

// GetenvDefault gets the value of an environment variable, or returns the
// specified default value if that variable is not set or empty.
func GetenvDefault(name, defaultValue string) string {
	val, found := os.LookupEnv(name)
	if !found || val == "" {
		return defaultValue
	}
	return val
}

// GetenvDefaultBool gets an environment variable as a bool, or else returns the default.
// Unparseable values are treated as unset.
func GetenvDefaultBool(name string, defaultVal bool) bool {
	val, found := os.LookupEnv(name)
	if !found {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

// GetenvDefaultDuration gets an environment variable as a time.Duration, or else returns the default.
func GetenvDefaultDuration(name string, defaultVal time.Duration) time.Duration {
	val, found := os.LookupEnv(name)
	if !found {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
