// Package misc holds small helpers shared by the commands and adapters.
package misc

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Getenv returns the trimmed value of key, or def when it is unset or blank.
func Getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return def
}

// HasEnv reports whether key is set to a non-blank value.
func HasEnv(key string) bool {
	return strings.TrimSpace(os.Getenv(key)) != ""
}

// GetDuration accepts plain seconds ("10") or Go durations ("1m30s").
// Non-positive values collapse to 0; unparsable ones yield def.
func GetDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return max(time.Duration(n)*time.Second, 0)
	}
	if d, err := time.ParseDuration(v); err == nil {
		return max(d, 0)
	}
	return def
}

func GetBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return def
	}
}
