// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Query engine kinds accepted by QUERY_ENGINE.
const (
	EngineAthena = "athena"
	EngineDuckDB = "duckdb"
	EngineNone   = "none"
)

// UpstreamConfig holds the base URLs and call limits for the upstream services.
type UpstreamConfig struct {
	ProductsURL   string        // products service base URL
	OrdersURL     string        // orders service base URL
	SuppliersURL  string        // suppliers service base URL
	Timeout       time.Duration // per-call timeout (default 10s)
	HealthTimeout time.Duration // per-probe timeout for health checks (default 5s)
	RPS           float64       // outbound requests per second per upstream (default 50)
	Burst         int           // outbound burst per upstream (default 20)

	FanoutConcurrency int // max concurrent enrichment calls per request (default 8)
	MaxListPages      int // hard bound on pages walked by one bulk fetch (default 10)
	ListPageSize      int // page size used by bulk fetches (default 100)
}

// QueryConfig holds the query engine settings.
type QueryConfig struct {
	Engine         string // athena, duckdb, or none
	AWSRegion      string
	AWSProfile     string
	AWSAccessKeyID string
	AWSSecretKey   string
	Database       string // default target database
	OutputLocation string // default result sink
	WorkGroup      string
	PollInterval   time.Duration // delay between status polls (default 1s)
	PollAttempts   int           // max status polls per job (default 30)
	MaxResultPages int           // bound on result pages fetched per job (default 50)
	ResultURLTTL   time.Duration // presigned download URL lifetime; 0 disables
	DuckDBPath     string        // empty means in-memory
	DuckDBInitSQL  string        // optional SQL file run when the local engine starts
}

// HasStaticCredentials returns true when both AWS key parts are set.
func (q *QueryConfig) HasStaticCredentials() bool {
	return q.AWSAccessKeyID != "" && q.AWSSecretKey != ""
}

// Config holds the configuration for the HTTP API, upstream clients and the
// query engine.
type Config struct {
	ListenAddr string // HTTP listen address (default ":8000")
	LogLevel   string // log level: debug, info, warn, error (default "info")
	Env        string // environment: "development" (default) or "production"

	// Inbound rate limiting
	RateLimitRPS   float64 // sustained requests per second (default 100)
	RateLimitBurst int     // burst capacity (default 200)

	// CORS
	CORSAllowedOrigins []string // allowed origins for CORS (default: ["*"])

	// TracesExporter selects the OpenTelemetry exporter: "", "stdout" or "otlp".
	TracesExporter string

	Upstream UpstreamConfig
	Query    QueryConfig

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when the server is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LoadFromEnv loads configuration from environment variables.
// Malformed numbers and durations are reported as errors; missing values take
// their defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		ListenAddr:     os.Getenv("LISTEN_ADDR"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		Env:            os.Getenv("ENV"),
		TracesExporter: strings.ToLower(strings.TrimSpace(os.Getenv("OTEL_TRACES_EXPORTER"))),
		Upstream: UpstreamConfig{
			ProductsURL:  strings.TrimRight(os.Getenv("PRODUCTS_SERVICE_URL"), "/"),
			OrdersURL:    strings.TrimRight(os.Getenv("ORDERS_SERVICE_URL"), "/"),
			SuppliersURL: strings.TrimRight(os.Getenv("SUPPLIERS_SERVICE_URL"), "/"),
		},
		Query: QueryConfig{
			Engine:         strings.ToLower(strings.TrimSpace(os.Getenv("QUERY_ENGINE"))),
			AWSRegion:      os.Getenv("AWS_REGION"),
			AWSProfile:     os.Getenv("AWS_PROFILE"),
			AWSAccessKeyID: os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretKey:   os.Getenv("AWS_SECRET_ACCESS_KEY"),
			Database:       os.Getenv("ATHENA_DATABASE"),
			OutputLocation: os.Getenv("ATHENA_OUTPUT_LOCATION"),
			WorkGroup:      os.Getenv("ATHENA_WORKGROUP"),
			DuckDBPath:     os.Getenv("DUCKDB_PATH"),
			DuckDBInitSQL:  os.Getenv("DUCKDB_INIT_SQL"),
		},
	}

	var err error
	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"UPSTREAM_TIMEOUT", &cfg.Upstream.Timeout},
		{"HEALTH_TIMEOUT", &cfg.Upstream.HealthTimeout},
		{"QUERY_POLL_INTERVAL", &cfg.Query.PollInterval},
	}
	for _, d := range durations {
		if *d.dst, err = parseDurationEnv(d.key); err != nil {
			return nil, err
		}
	}
	urlTTLOff := false
	switch v := strings.TrimSpace(os.Getenv("RESULT_URL_TTL")); v {
	case "0", "off":
		urlTTLOff = true
	default:
		if cfg.Query.ResultURLTTL, err = parseDurationEnv("RESULT_URL_TTL"); err != nil {
			return nil, err
		}
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"UPSTREAM_BURST", &cfg.Upstream.Burst},
		{"FANOUT_CONCURRENCY", &cfg.Upstream.FanoutConcurrency},
		{"MAX_LIST_PAGES", &cfg.Upstream.MaxListPages},
		{"LIST_PAGE_SIZE", &cfg.Upstream.ListPageSize},
		{"QUERY_POLL_ATTEMPTS", &cfg.Query.PollAttempts},
		{"QUERY_MAX_RESULT_PAGES", &cfg.Query.MaxResultPages},
		{"RATE_LIMIT_BURST", &cfg.RateLimitBurst},
	}
	for _, n := range ints {
		if *n.dst, err = parseIntEnv(n.key); err != nil {
			return nil, err
		}
	}
	if cfg.Upstream.RPS, err = parseFloatEnv("UPSTREAM_RPS"); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = parseFloatEnv("RATE_LIMIT_RPS"); err != nil {
		return nil, err
	}

	// CORS
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORSAllowedOrigins = compactNonEmpty(origins)
	}

	// Defaults
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8000"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.RateLimitRPS == 0 {
		cfg.RateLimitRPS = 100
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 200
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}
	applyUpstreamDefaults(&cfg.Upstream)
	applyQueryDefaults(&cfg.Query)
	if urlTTLOff {
		cfg.Query.ResultURLTTL = 0
	}

	switch cfg.Query.Engine {
	case EngineAthena, EngineDuckDB, EngineNone:
	default:
		return nil, fmt.Errorf("unsupported QUERY_ENGINE %q: use athena, duckdb or none", cfg.Query.Engine)
	}
	if cfg.Query.Engine == EngineAthena && !strings.HasPrefix(cfg.Query.OutputLocation, "s3://") {
		return nil, fmt.Errorf("ATHENA_OUTPUT_LOCATION must be an s3:// URI, got %q", cfg.Query.OutputLocation)
	}
	if (cfg.Query.AWSAccessKeyID == "") != (cfg.Query.AWSSecretKey == "") {
		cfg.Warnings = append(cfg.Warnings, "only one of AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY is set; falling back to the default credential chain")
	}
	if cfg.Query.Engine == EngineNone {
		cfg.Warnings = append(cfg.Warnings, "QUERY_ENGINE=none: report endpoints will answer 503")
	}
	switch cfg.TracesExporter {
	case "", "none", "stdout", "otlp":
	default:
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("unknown OTEL_TRACES_EXPORTER %q; tracing disabled", cfg.TracesExporter))
		cfg.TracesExporter = ""
	}

	// Production mode: insecure defaults are fatal errors.
	if cfg.IsProduction() {
		if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
			return nil, fmt.Errorf("CORS wildcard (*) is not allowed in production (ENV=production)")
		}
	}

	return cfg, nil
}

func applyUpstreamDefaults(u *UpstreamConfig) {
	if u.ProductsURL == "" {
		u.ProductsURL = "http://productos-service:5001"
	}
	if u.OrdersURL == "" {
		u.OrdersURL = "http://ordenes-service:8080"
	}
	if u.SuppliersURL == "" {
		u.SuppliersURL = "http://proveedores-service:3000"
	}
	if u.Timeout == 0 {
		u.Timeout = 10 * time.Second
	}
	if u.HealthTimeout == 0 {
		u.HealthTimeout = 5 * time.Second
	}
	if u.RPS == 0 {
		u.RPS = 50
	}
	if u.Burst == 0 {
		u.Burst = 20
	}
	if u.FanoutConcurrency == 0 {
		u.FanoutConcurrency = 8
	}
	if u.MaxListPages == 0 {
		u.MaxListPages = 10
	}
	if u.ListPageSize == 0 {
		u.ListPageSize = 100
	}
}

func applyQueryDefaults(q *QueryConfig) {
	if q.Engine == "" {
		q.Engine = EngineAthena
	}
	if q.AWSRegion == "" {
		q.AWSRegion = "us-east-1"
	}
	if q.Database == "" {
		q.Database = "inventario_db"
	}
	if q.OutputLocation == "" {
		q.OutputLocation = "s3://inventario-athena-results/"
	}
	if q.PollInterval == 0 {
		q.PollInterval = time.Second
	}
	if q.PollAttempts == 0 {
		q.PollAttempts = 30
	}
	if q.MaxResultPages == 0 {
		q.MaxResultPages = 50
	}
	if q.ResultURLTTL == 0 {
		q.ResultURLTTL = 15 * time.Minute
	}
}

func parseDurationEnv(key string) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func parseIntEnv(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return n, nil
}

func parseFloatEnv(key string) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if f <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return f, nil
}

func compactNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = stripQuotes(strings.TrimSpace(value))
		if _, set := os.LookupEnv(key); !set {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
