package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnv returns the trimmed value of key, or fallback when it is empty or
// unset.
func GetEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

// getEnvParsed applies parse to key's value. Unset, empty and unparsable
// values all yield fallback.
func getEnvParsed[T any](key string, fallback T, parse func(string) (T, error)) T {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := parse(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func GetEnvInt(key string, fallback int) int {
	return getEnvParsed(key, fallback, strconv.Atoi)
}

func GetEnvBool(key string, fallback bool) bool {
	return getEnvParsed(key, fallback, strconv.ParseBool)
}

func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	return getEnvParsed(key, fallback, time.ParseDuration)
}

// GetEnvMinutes reads a whole number of minutes, the unit operators use for
// link validity.
func GetEnvMinutes(key string, fallback time.Duration) time.Duration {
	return getEnvParsed(key, fallback, func(s string) (time.Duration, error) {
		n, err := strconv.Atoi(s)
		return time.Duration(n) * time.Minute, err
	})
}

// SplitCSV splits on commas and drops blank entries.
func SplitCSV(raw string) []string {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// DefaultWorkerID returns "<hostname>-<pid>" for telling consumer instances
// apart on the broker. fallbackName replaces an unknown hostname.
func DefaultWorkerID(fallbackName string) string {
	host, err := os.Hostname()
	if err != nil || strings.TrimSpace(host) == "" {
		host = fallbackName
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
