// Package util holds helpers shared by the binaries.
package util

import "go.uber.org/zap"

// BuildInfo is stamped at link time with -ldflags "-X main.buildVersion=...".
type BuildInfo struct {
	Version string
	Date    string
	Commit  string
}

func na(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

// Fields renders the build info as log fields; unset values read "N/A".
func (b BuildInfo) Fields() []zap.Field {
	return []zap.Field{
		zap.String("build_version", na(b.Version)),
		zap.String("build_date", na(b.Date)),
		zap.String("build_commit", na(b.Commit)),
	}
}
