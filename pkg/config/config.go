package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provider selects which block-explorer backend serves on-chain data.
// Fixed for the process lifetime once chosen at startup.
type Provider string

const (
	ProviderEtherscan Provider = "etherscan"
	ProviderAlchemy   Provider = "alchemy"
)

const (
	EtherscanBaseURL = "https://api.etherscan.io/api"
	AlchemyBaseURL   = "https://eth-mainnet.g.alchemy.com/v2"

	// Telegram hard limit per message.
	MaxMessageLength = 4096
)

type Config struct {
	// Telegram
	TelegramBotToken string

	// Blockchain API
	APIProvider     Provider
	EtherscanAPIKey string
	AlchemyAPIKey   string

	// API settings
	APITimeout      time.Duration
	APIMaxRetries   int
	APIRetryDelay   time.Duration
	RateLimitPerMin int
	TxFetchLimit    int

	// Cache
	CacheEnabled bool
	CacheTTL     time.Duration
	CacheMaxSize int

	// Analysis thresholds
	DeFiContractThreshold int

	// DB
	DBPath string

	// Dashboard
	DashboardPort int

	// Logging / environment
	LogLevel    string
	Debug       bool
	Environment string
}

// ConfigurationError marks a missing or inconsistent setting. Fatal at
// startup: the process must not begin serving with one of these.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return "configuration error: " + e.Msg }

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),

		APIProvider:     Provider(envOr("BLOCKCHAIN_API_PROVIDER", string(ProviderEtherscan))),
		EtherscanAPIKey: os.Getenv("ETHERSCAN_API_KEY"),
		AlchemyAPIKey:   os.Getenv("ALCHEMY_API_KEY"),

		APITimeout:      time.Duration(envInt("API_TIMEOUT", 30)) * time.Second,
		APIMaxRetries:   envInt("API_MAX_RETRIES", 3),
		APIRetryDelay:   time.Duration(envInt("API_RETRY_DELAY_MS", 1000)) * time.Millisecond,
		RateLimitPerMin: envInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 60),
		TxFetchLimit:    envInt("TX_FETCH_LIMIT", 10),

		CacheEnabled: envOr("CACHE_ENABLED", "true") == "true",
		CacheTTL:     time.Duration(envInt("CACHE_TTL_SECONDS", 300)) * time.Second,
		CacheMaxSize: envInt("CACHE_MAX_SIZE", 1000),

		DeFiContractThreshold: envInt("DEFI_CONTRACT_THRESHOLD", 5),

		DBPath:        envOr("DB_PATH", "etherscope.db"),
		DashboardPort: envInt("DASHBOARD_PORT", 8080),

		LogLevel:    envOr("LOG_LEVEL", "info"),
		Debug:       envOr("DEBUG", "false") == "true",
		Environment: envOr("ENVIRONMENT", "production"),
	}

	return cfg, nil
}

// Validate checks that the credentials required for the selected provider
// are present. Called once at startup, before anything starts serving.
func (c *Config) Validate() error {
	if c.TelegramBotToken == "" {
		return &ConfigurationError{Msg: "TELEGRAM_BOT_TOKEN environment variable is required"}
	}
	switch c.APIProvider {
	case ProviderEtherscan:
		if c.EtherscanAPIKey == "" {
			return &ConfigurationError{Msg: "ETHERSCAN_API_KEY environment variable is required for Etherscan provider"}
		}
	case ProviderAlchemy:
		if c.AlchemyAPIKey == "" {
			return &ConfigurationError{Msg: "ALCHEMY_API_KEY environment variable is required for Alchemy provider"}
		}
	default:
		return &ConfigurationError{Msg: fmt.Sprintf("unknown blockchain provider %q", c.APIProvider)}
	}
	return nil
}

// BlockchainAPIKey returns the key for the selected provider.
func (c *Config) BlockchainAPIKey() string {
	if c.APIProvider == ProviderAlchemy {
		return c.AlchemyAPIKey
	}
	return c.EtherscanAPIKey
}

// helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return fallback
}
