package config

import (
	"flag"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"

	"github.com/vshulcz/elasticreport/internal/adapters/elastic/probe"
)

const (
	defaultSinkAddr    = ":9200"
	defaultSinkVersion = "7.17.0"
)

// SinkConfig configures the development bulk sink.
type SinkConfig struct {
	Address   string
	DSN       string
	Version   string
	AuditFile string
	AuditURL  string
}

// LoadSinkConfig follows the same ENV > CLI > defaults order as the agent.
func LoadSinkConfig(args []string, out io.Writer) (SinkConfig, error) {
	if out == nil {
		out = io.Discard
	}

	fs := flag.NewFlagSet("sink", flag.ContinueOnError)
	fs.SetOutput(out)

	var addrOpt, dsnOpt, versionOpt, auditFileOpt, auditURLOpt string
	fs.StringVar(&addrOpt, "a", "", fmt.Sprintf("HTTP listen address, default: %s", defaultSinkAddr))
	fs.StringVar(&dsnOpt, "d", "", "DATABASE_DSN for Postgres, default: in-memory store")
	fs.StringVar(&versionOpt, "v", "", fmt.Sprintf("version number reported by GET /, default: %s", defaultSinkVersion))

	fs.StringVar(&auditFileOpt, "audit-file", "", "append ingest audit events to this file")
	fs.StringVar(&auditURLOpt, "audit-url", "", "POST ingest audit events to this URL")

	if err := fs.Parse(args); err != nil {
		return SinkConfig{}, err
	}

	addr := normalizeListenAddr(FromEnvOrFlag("ADDRESS", addrOpt, defaultSinkAddr))
	if _, port, err := net.SplitHostPort(addr); err != nil || port == "" {
		return SinkConfig{}, fmt.Errorf("invalid listen address: %q", addr)
	}

	version := FromEnvOrFlag("SINK_VERSION", versionOpt, defaultSinkVersion)
	if _, err := probe.ParseVersion(version); err != nil {
		return SinkConfig{}, fmt.Errorf("invalid sink version: %q", version)
	}

	auditURL := FromEnvOrFlag("AUDIT_URL", auditURLOpt, "")
	if auditURL != "" {
		if _, err := url.ParseRequestURI(auditURL); err != nil {
			return SinkConfig{}, fmt.Errorf("invalid audit url: %q", auditURL)
		}
	}

	return SinkConfig{
		Address:   addr,
		DSN:       FromEnvOrFlag("DATABASE_DSN", dsnOpt, ""),
		Version:   version,
		AuditFile: FromEnvOrFlag("AUDIT_FILE", auditFileOpt, ""),
		AuditURL:  auditURL,
	}, nil
}

func normalizeListenAddr(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultSinkAddr
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		if u, err := url.Parse(s); err == nil && u.Host != "" {
			return u.Host
		}
	}
	if !strings.Contains(s, ":") {
		return ":" + s
	}
	return s
}
