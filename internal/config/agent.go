package config

import (
	"flag"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/vshulcz/elasticreport/internal/domain"
	"github.com/vshulcz/elasticreport/internal/misc"
	"github.com/vshulcz/elasticreport/internal/services/report"
)

const (
	defaultBulkURL        = "http://localhost:9200/_bulk"
	defaultIndex          = "metrics"
	defaultReportInterval = 10
	defaultPollInterval   = 2
	defaultHTTPTimeout    = 10
)

// Transport names accepted by -t / TRANSPORT.
const (
	TransportNetHTTP  = "nethttp"
	TransportFastHTTP = "fasthttp"
)

type AgentConfig struct {
	BulkURL        string
	InfoURL        string
	Index          string
	Host           string
	Transport      string
	Rotation       report.Rotation
	PollInterval   time.Duration
	ReportInterval time.Duration
	HTTPTimeout    time.Duration
	Compress       bool
}

// ENV > CLI > defaults
func LoadAgentConfig(args []string, out io.Writer) (AgentConfig, error) {
	if out == nil {
		out = io.Discard
	}

	fs := flag.NewFlagSet("agent", flag.ContinueOnError)
	fs.SetOutput(out)

	var (
		bulkOpt, infoOpt, indexOpt, rotOpt, hostOpt, trOpt string
		reportOpt, pollOpt, timeoutOpt                     int
		gzipOpt                                            bool
	)

	fs.StringVar(&bulkOpt, "u", "", fmt.Sprintf("bulk endpoint URL, default: %s", defaultBulkURL))
	fs.StringVar(&infoOpt, "n", "", "info endpoint URL, default: root of the bulk URL")
	fs.StringVar(&indexOpt, "i", "", fmt.Sprintf("base index name, default: %s", defaultIndex))
	fs.StringVar(&rotOpt, "rot", "", "index rotation: none, daily or monthly, default: none")
	fs.StringVar(&hostOpt, "host", "", "reporting host identifier, default: machine hostname")
	fs.StringVar(&trOpt, "t", "", "HTTP transport: nethttp or fasthttp, default: nethttp")
	fs.IntVar(&reportOpt, "r", 0, fmt.Sprintf("report interval in seconds, default: %d", defaultReportInterval))
	fs.IntVar(&pollOpt, "p", 0, fmt.Sprintf("poll interval in seconds, default: %d", defaultPollInterval))
	fs.IntVar(&timeoutOpt, "timeout", 0, fmt.Sprintf("HTTP timeout in seconds, default: %d", defaultHTTPTimeout))
	fs.BoolVar(&gzipOpt, "z", false, "gzip bulk request bodies")

	if err := fs.Parse(args); err != nil {
		return AgentConfig{}, err
	}

	bulk := normalizeAddressURL(FromEnvOrFlag("ELASTIC_BULK_URL", bulkOpt, defaultBulkURL))
	if _, err := url.ParseRequestURI(bulk); err != nil {
		return AgentConfig{}, fmt.Errorf("invalid bulk url: %q", bulk)
	}

	info := FromEnvOrFlag("ELASTIC_INFO_URL", infoOpt, "")
	if info == "" {
		info = rootURL(bulk)
	} else {
		info = normalizeAddressURL(info)
	}
	if _, err := url.ParseRequestURI(info); err != nil {
		return AgentConfig{}, fmt.Errorf("invalid info url: %q", info)
	}

	index := FromEnvOrFlag("ELASTIC_INDEX", indexOpt, defaultIndex)
	if !domain.ValidIndexName(index) {
		return AgentConfig{}, fmt.Errorf("%w: %q", domain.ErrInvalidIndex, index)
	}

	rotation, err := report.ParseRotation(FromEnvOrFlag("INDEX_ROTATION", rotOpt, string(report.RotationNone)))
	if err != nil {
		return AgentConfig{}, err
	}

	tr := strings.ToLower(FromEnvOrFlag("TRANSPORT", trOpt, TransportNetHTTP))
	if tr != TransportNetHTTP && tr != TransportFastHTTP {
		return AgentConfig{}, fmt.Errorf("unknown transport: %q", tr)
	}

	host := FromEnvOrFlag("REPORT_HOST", hostOpt, "")
	if host == "" {
		host = misc.Hostname()
	}

	reportEvery, _ := FromEnvOrFlagDuration("REPORT_INTERVAL", reportOpt, 0, defaultReportInterval)
	if reportEvery <= 0 {
		return AgentConfig{}, fmt.Errorf("report interval must be > 0, got %v", reportEvery)
	}
	poll, _ := FromEnvOrFlagDuration("POLL_INTERVAL", pollOpt, 0, defaultPollInterval)
	if poll <= 0 {
		return AgentConfig{}, fmt.Errorf("poll interval must be > 0, got %v", poll)
	}
	timeout, _ := FromEnvOrFlagDuration("HTTP_TIMEOUT", timeoutOpt, 0, defaultHTTPTimeout)
	if timeout <= 0 {
		return AgentConfig{}, fmt.Errorf("http timeout must be > 0, got %v", timeout)
	}

	return AgentConfig{
		BulkURL:        bulk,
		InfoURL:        info,
		Index:          index,
		Host:           host,
		Transport:      tr,
		Rotation:       rotation,
		PollInterval:   poll,
		ReportInterval: reportEvery,
		HTTPTimeout:    timeout,
		Compress:       FromEnvOrFlagBool("COMPRESS", gzipOpt, false),
	}, nil
}

func normalizeAddressURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultBulkURL
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	if strings.HasPrefix(s, ":") {
		return "http://localhost" + s
	}
	return "http://" + s
}

// rootURL keeps scheme and host of raw and points it at "/".
func rootURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}).String()
}
