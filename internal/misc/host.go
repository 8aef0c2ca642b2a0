package misc

import (
	"os"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

// Hostname resolves the reporting host identifier once per process start.
// gopsutil is asked first, then the kernel hostname; "unknown" if both fail.
func Hostname() string {
	if info, err := host.Info(); err == nil && info != nil {
		if h := strings.TrimSpace(info.Hostname); h != "" {
			return h
		}
	}
	if h, err := os.Hostname(); err == nil && strings.TrimSpace(h) != "" {
		return strings.TrimSpace(h)
	}
	return "unknown"
}
