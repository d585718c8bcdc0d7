package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Instrument directory backing modes.
const (
	SourcePG  = "pg"
	SourceCSV = "csv"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	Port string

	// Instrument directory
	InstrumentSource  string // "pg" or "csv"
	PGURL             string
	InstrumentCSVPath string

	// Known broker IDs for transfer validation
	BrokerIDs []string

	// AI extraction (optional; the document endpoint is disabled without a key)
	GeminiAPIKey string
	GeminiModel  string

	// Export delivery (optional; falls back to a logging mock)
	MailgunDomain string
	MailgunAPIKey string
	SenderEmail   string

	SessionTTL     time.Duration
	MaxUploadBytes int64
	LogLevel       string
}

// Load reads configuration from the environment, with .env support for
// local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		InstrumentSource:  getEnv("INSTRUMENT_SOURCE", SourcePG),
		PGURL:             os.Getenv("PG_URL"),
		InstrumentCSVPath: os.Getenv("INSTRUMENT_CSV_PATH"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		MailgunDomain:     os.Getenv("MAILGUN_DOMAIN"),
		MailgunAPIKey:     os.Getenv("MAILGUN_API_KEY"),
		SenderEmail:       os.Getenv("SENDER_EMAIL"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	switch cfg.InstrumentSource {
	case SourcePG:
		if cfg.PGURL == "" {
			return nil, fmt.Errorf("PG_URL environment variable is required when INSTRUMENT_SOURCE=pg")
		}
	case SourceCSV:
		if cfg.InstrumentCSVPath == "" {
			return nil, fmt.Errorf("INSTRUMENT_CSV_PATH environment variable is required when INSTRUMENT_SOURCE=csv")
		}
	default:
		return nil, fmt.Errorf("INSTRUMENT_SOURCE must be %q or %q, got %q", SourcePG, SourceCSV, cfg.InstrumentSource)
	}

	brokerIDs := os.Getenv("BROKER_IDS")
	if brokerIDs == "" {
		return nil, fmt.Errorf("BROKER_IDS environment variable is required (comma-separated broker IDs)")
	}
	for _, id := range strings.Split(brokerIDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			cfg.BrokerIDs = append(cfg.BrokerIDs, id)
		}
	}
	if len(cfg.BrokerIDs) == 0 {
		return nil, fmt.Errorf("BROKER_IDS contains no broker IDs")
	}

	ttlStr := getEnv("SESSION_TTL", "30m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL %q: %w", ttlStr, err)
	}
	cfg.SessionTTL = ttl

	maxUploadStr := getEnv("MAX_UPLOAD_BYTES", "10485760")
	maxUpload, err := strconv.ParseInt(maxUploadStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES %q: %w", maxUploadStr, err)
	}
	cfg.MaxUploadBytes = maxUpload

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
