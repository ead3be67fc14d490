package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/polyscout/insiderscan/internal/secrets"
)

// AuthMode represents the authentication mode for the Data API
type AuthMode string

const (
	AuthModeNone   AuthMode = "none"
	AuthModeBearer AuthMode = "bearer"
	AuthModeAPIKey AuthMode = "api_key"
)

// Config holds all application configuration
type Config struct {
	// Environment
	Environment string

	// Market discovery
	MarketsAPIURL string

	// Data API
	DataAPIBaseURL      string
	DataAPIAuthMode     AuthMode
	DataAPIBearerToken  string
	DataAPIAPIKey       string
	DataAPIExtraHeaders map[string]string

	// Holder fetching
	TopHoldersLimit   int
	MinPositionUSD    float64
	LongshotMinShares float64
	LongshotMaxPrice  float64
	BlacklistWallets  []string

	// Wallet profiling
	ActivityLimit         int
	PositionSizeThreshold float64
	CategoryKeywords      []string

	// Scan orchestration
	MinScore       int
	TopK           int
	BatchSize      int
	BatchDelay     time.Duration
	MarketDelay    time.Duration
	SnapshotPath   string

	// Rate limits (requests per second)
	HoldersRPS   float64
	PositionsRPS float64
	ActivityRPS  float64

	// API server
	ServerPort       int
	AnalysisCacheTTL time.Duration
}

// defaultCategoryKeywords is a fallback topical keyword set for the
// category-concentration signal. Operators are expected to override it
// via CATEGORY_KEYWORDS for their coverage area.
var defaultCategoryKeywords = []string{
	"openai", "chatgpt", "gpt", "anthropic", "claude",
	"google", "deepmind", "gemini", "apple", "iphone",
	"microsoft", "copilot", "meta", "facebook", "instagram",
	"amazon", "aws", "tesla", "nvidia", "spacex", "starship",
	"xai", "grok", "netflix", "tiktok", "bytedance",
	"acquisition", "merger", "ipo", "ceo", "resign",
	"launch", "release", "announce", "lawsuit", "settlement",
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Environment:           getEnv("ENVIRONMENT", "production"),
		MarketsAPIURL:         getEnv("MARKETS_API_URL", ""),
		DataAPIBaseURL:        getEnv("DATA_API_BASE_URL", "https://data-api.polymarket.com"),
		DataAPIAuthMode:       AuthMode(getEnv("DATA_API_AUTH_MODE", "none")),
		DataAPIBearerToken:    secrets.GetOptional("DATA_API_BEARER_TOKEN", ""),
		DataAPIAPIKey:         secrets.GetOptional("DATA_API_API_KEY", ""),
		TopHoldersLimit:       getEnvInt("TOP_HOLDERS_LIMIT", 30),
		MinPositionUSD:        getEnvFloat("MIN_POSITION_USD", 5000.0),
		LongshotMinShares:     getEnvFloat("LONGSHOT_MIN_SHARES", 50000.0),
		LongshotMaxPrice:      getEnvFloat("LONGSHOT_MAX_PRICE", 0.10),
		ActivityLimit:         getEnvInt("ACTIVITY_LIMIT", 200),
		PositionSizeThreshold: getEnvFloat("POSITION_SIZE_THRESHOLD", 100.0),
		MinScore:              getEnvInt("MIN_SCORE", 50),
		TopK:                  getEnvInt("TOP_K", 100),
		BatchSize:             getEnvInt("BATCH_SIZE", 5),
		BatchDelay:            time.Duration(getEnvInt("BATCH_DELAY_MS", 500)) * time.Millisecond,
		MarketDelay:           time.Duration(getEnvInt("MARKET_DELAY_MS", 300)) * time.Millisecond,
		SnapshotPath:          getEnv("SNAPSHOT_PATH", "data/suspicious.json"),
		HoldersRPS:            getEnvFloat("HOLDERS_RPS", 2.0),
		PositionsRPS:          getEnvFloat("POSITIONS_RPS", 2.0),
		ActivityRPS:           getEnvFloat("ACTIVITY_RPS", 2.0),
		ServerPort:            getEnvInt("SERVER_PORT", 8080),
		AnalysisCacheTTL:      time.Duration(getEnvInt("ANALYSIS_CACHE_TTL_SEC", 300)) * time.Second,
	}

	cfg.CategoryKeywords = parseCSV(getEnv("CATEGORY_KEYWORDS", ""))
	if len(cfg.CategoryKeywords) == 0 {
		cfg.CategoryKeywords = defaultCategoryKeywords
	}
	for i, kw := range cfg.CategoryKeywords {
		cfg.CategoryKeywords[i] = strings.ToLower(kw)
	}

	cfg.BlacklistWallets = parseCSV(getEnv("BLACKLIST_WALLETS", ""))
	for i, w := range cfg.BlacklistWallets {
		cfg.BlacklistWallets[i] = strings.ToLower(w)
	}

	extraHeadersJSON := getEnv("DATA_API_EXTRA_HEADERS", "{}")
	if err := json.Unmarshal([]byte(extraHeadersJSON), &cfg.DataAPIExtraHeaders); err != nil {
		return nil, fmt.Errorf("invalid DATA_API_EXTRA_HEADERS JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks configuration for errors
func (c *Config) Validate() error {
	if c.MarketsAPIURL == "" {
		return fmt.Errorf("MARKETS_API_URL is required")
	}

	switch c.DataAPIAuthMode {
	case AuthModeNone:
	case AuthModeBearer:
		if c.DataAPIBearerToken == "" {
			return fmt.Errorf("DATA_API_BEARER_TOKEN is required when AUTH_MODE is bearer")
		}
	case AuthModeAPIKey:
		if c.DataAPIAPIKey == "" {
			return fmt.Errorf("DATA_API_API_KEY is required when AUTH_MODE is api_key")
		}
	default:
		return fmt.Errorf("invalid DATA_API_AUTH_MODE: %s (must be none, bearer, or api_key)", c.DataAPIAuthMode)
	}

	if c.BatchSize < 1 {
		return fmt.Errorf("BATCH_SIZE must be at least 1")
	}
	if c.TopK < 1 {
		return fmt.Errorf("TOP_K must be at least 1")
	}
	if c.LongshotMaxPrice <= 0 || c.LongshotMaxPrice >= 1 {
		return fmt.Errorf("LONGSHOT_MAX_PRICE must be between 0 and 1 exclusive")
	}

	return nil
}

// IsBlacklisted reports whether a wallet is on the configured exclusion list.
func (c *Config) IsBlacklisted(wallet string) bool {
	w := strings.ToLower(wallet)
	for _, b := range c.BlacklistWallets {
		if b == w {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	var result []string
	for _, item := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
