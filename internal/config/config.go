package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	HTTPAddr    string
	AdminAPIKey string
	LogLevel    string
	LogFormat   string

	TracingEnabled bool
	OTLPEndpoint   string

	RefreshPollSecs          int
	InflationCacheDays       int
	InflationDispatchDelayMS int
	MiningSettingsPath       string

	FetchRequestTimeoutSecs  int
	FetchResourceTimeoutSecs int

	CoinGeckoBaseURL     string
	YahooBaseURL         string
	MempoolBaseURL       string
	BinanceBaseURL       string
	FearGreedBaseURL     string
	FiscalDataBaseURL    string
	WorldBankBaseURL     string
	CryptoCompareBaseURL string
	RedditBaseURL        string
	NewsFeedURL          string
	NewsSubreddit        string
}

func Load() *Config {
	cfg := &Config{
		HTTPAddr:           strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		AdminAPIKey:        strings.TrimSpace(os.Getenv("ADMIN_API_KEY")),
		OTLPEndpoint:       strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		MiningSettingsPath: strings.TrimSpace(os.Getenv("MINING_SETTINGS_PATH")),

		// Empty base URLs select each provider's public endpoint.
		CoinGeckoBaseURL:     strings.TrimSpace(os.Getenv("COINGECKO_BASE_URL")),
		YahooBaseURL:         strings.TrimSpace(os.Getenv("YAHOO_BASE_URL")),
		MempoolBaseURL:       strings.TrimSpace(os.Getenv("MEMPOOL_BASE_URL")),
		BinanceBaseURL:       strings.TrimSpace(os.Getenv("BINANCE_BASE_URL")),
		FearGreedBaseURL:     strings.TrimSpace(os.Getenv("FEAR_GREED_BASE_URL")),
		FiscalDataBaseURL:    strings.TrimSpace(os.Getenv("FISCALDATA_BASE_URL")),
		WorldBankBaseURL:     strings.TrimSpace(os.Getenv("WORLDBANK_BASE_URL")),
		CryptoCompareBaseURL: strings.TrimSpace(os.Getenv("CRYPTOCOMPARE_BASE_URL")),
		RedditBaseURL:        strings.TrimSpace(os.Getenv("REDDIT_BASE_URL")),
		NewsFeedURL:          strings.TrimSpace(os.Getenv("NEWS_FEED_URL")),
		NewsSubreddit:        strings.TrimSpace(os.Getenv("NEWS_SUBREDDIT")),
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.OTLPEndpoint == "" {
		cfg.OTLPEndpoint = "localhost:4317"
	}
	if cfg.AdminAPIKey == "" {
		log.Warn().Msg("ADMIN_API_KEY not set, refresh and settings endpoints are unauthenticated")
	}
	if cfg.MiningSettingsPath == "" {
		log.Warn().Msg("MINING_SETTINGS_PATH not set, mining settings will not survive a restart")
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "trace", "debug", "info", "warn", "error":
	default:
		log.Warn().Str("value", cfg.LogLevel).Msg("unsupported LOG_LEVEL, defaulting to info")
		cfg.LogLevel = "info"
	}

	cfg.LogFormat = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT")))
	if cfg.LogFormat != "console" && cfg.LogFormat != "json" {
		if cfg.LogFormat != "" {
			log.Warn().Str("value", cfg.LogFormat).Msg("unsupported LOG_FORMAT, defaulting to json")
		}
		cfg.LogFormat = "json"
	}

	cfg.TracingEnabled = !strings.EqualFold(strings.TrimSpace(os.Getenv("TRACING_ENABLED")), "false")

	cfg.RefreshPollSecs = positiveInt("REFRESH_POLL_SECS", 300)
	cfg.InflationCacheDays = positiveInt("INFLATION_CACHE_DAYS", 7)
	cfg.FetchRequestTimeoutSecs = positiveInt("FETCH_REQUEST_TIMEOUT_SECS", 30)
	cfg.FetchResourceTimeoutSecs = positiveInt("FETCH_RESOURCE_TIMEOUT_SECS", 60)

	cfg.InflationDispatchDelayMS = 150
	if v := strings.TrimSpace(os.Getenv("INFLATION_DISPATCH_DELAY_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.InflationDispatchDelayMS = n
		}
	}

	if cfg.FetchResourceTimeoutSecs < cfg.FetchRequestTimeoutSecs {
		log.Warn().
			Int("request_secs", cfg.FetchRequestTimeoutSecs).
			Int("resource_secs", cfg.FetchResourceTimeoutSecs).
			Msg("FETCH_RESOURCE_TIMEOUT_SECS below request timeout, raising it")
		cfg.FetchResourceTimeoutSecs = cfg.FetchRequestTimeoutSecs
	}

	return cfg
}

func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshPollSecs) * time.Second
}

func (c *Config) InflationWindow() time.Duration {
	return time.Duration(c.InflationCacheDays) * 24 * time.Hour
}

func (c *Config) InflationDispatchDelay() time.Duration {
	return time.Duration(c.InflationDispatchDelayMS) * time.Millisecond
}

func (c *Config) FetchRequestTimeout() time.Duration {
	return time.Duration(c.FetchRequestTimeoutSecs) * time.Second
}

func (c *Config) FetchResourceTimeout() time.Duration {
	return time.Duration(c.FetchResourceTimeoutSecs) * time.Second
}

func positiveInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warn().Str("key", key).Str("value", v).Int("default", def).Msg("invalid value, using default")
		return def
	}
	return n
}
