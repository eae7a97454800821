package config

import (
	"fmt"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultBaseURL is the production Flood Forecasting API root.
const DefaultBaseURL = "https://floodforecasting.googleapis.com/v1"

// Config holds all extractor settings, populated from environment variables.
type Config struct {
	BaseURL     string
	KeyFile     string
	HTTPTimeout time.Duration

	CountryCodesFile string
	ISOA3File        string
	ShapefilePath    string

	DataDir       string
	PlotsDir      string
	ExportEnabled bool

	LogLevel        string
	LogFormat       string
	MetricsTextfile string

	// Optional Kafka sink; disabled when no brokers are set.
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	timeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("FLOODHUB_HTTP_TIMEOUT", "0s"))
	if err != nil || timeout < 0 {
		return nil, fmt.Errorf("invalid FLOODHUB_HTTP_TIMEOUT")
	}

	exportEnabled, err := strconv.ParseBool(sharedcfg.EnvOrDefault("EXPORT_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid EXPORT_ENABLED: %w", err)
	}

	cfg := &Config{
		BaseURL:          sharedcfg.EnvOrDefault("FLOODHUB_BASE_URL", DefaultBaseURL),
		KeyFile:          sharedcfg.EnvOrDefault("FLOODHUB_KEY_FILE", "data/keys/key.txt"),
		HTTPTimeout:      timeout,
		CountryCodesFile: sharedcfg.EnvOrDefault("COUNTRY_CODES_FILE", "data/country_codes.json"),
		ISOA3File:        sharedcfg.EnvOrDefault("ISO_A3_FILE", "data/country_codes_to_ISO_A3.json"),
		ShapefilePath:    sharedcfg.EnvOrDefault("SHAPEFILE_PATH", "data/ne_110m_admin_0_countries/ne_110m_admin_0_countries.shp"),
		DataDir:          sharedcfg.EnvOrDefault("DATA_DIR", "data"),
		PlotsDir:         sharedcfg.EnvOrDefault("PLOTS_DIR", "plots"),
		ExportEnabled:    exportEnabled,
		LogLevel:         sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:        sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		MetricsTextfile:  sharedcfg.EnvOrDefault("METRICS_TEXTFILE", ""),
		KafkaTopic:       sharedcfg.EnvOrDefault("KAFKA_TOPIC", "floodhub-forecasts"),
	}
	if brokers := sharedcfg.EnvOrDefault("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokers)
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("FLOODHUB_BASE_URL is required")
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want text or json", cfg.LogFormat)
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// SinkEnabled reports whether forecasts should also be published to Kafka.
func (c *Config) SinkEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
