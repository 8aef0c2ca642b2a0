// Package config resolves command settings from the environment, flags and defaults, in that order.
package config

import (
	"strings"
	"time"

	"github.com/vshulcz/elasticreport/internal/misc"
)

// FromEnvOrFlag prefers a non-blank env value, then a non-blank flag, then def.
func FromEnvOrFlag(envKey, flagVal, def string) string {
	if v := misc.Getenv(envKey, ""); v != "" {
		return v
	}
	if v := strings.TrimSpace(flagVal); v != "" {
		return v
	}
	return def
}

// FromEnvOrFlagBool lets the env override in both directions; a set flag can only turn the option on.
func FromEnvOrFlagBool(envKey string, flagVal, def bool) bool {
	if misc.HasEnv(envKey) {
		return misc.GetBool(envKey, def)
	}
	return flagVal || def
}

// FromEnvOrFlagDuration reads seconds or a Go duration from env, else flagSeconds unless it equals
// flagSentinel, else defSeconds. The bool reports whether the value was configured explicitly.
func FromEnvOrFlagDuration(envKey string, flagSeconds, flagSentinel, defSeconds int) (time.Duration, bool) {
	def := time.Duration(defSeconds) * time.Second
	if misc.HasEnv(envKey) {
		return misc.GetDuration(envKey, def), true
	}
	if flagSeconds != flagSentinel {
		return time.Duration(flagSeconds) * time.Second, true
	}
	return def, false
}
