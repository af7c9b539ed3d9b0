package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"hermes/pkg/errors"
)

// Config is the full service configuration, loaded from the environment.
type Config struct {
	App           AppConfig
	API           APIConfig
	Postgres      PostgresConfig
	Redis         RedisConfig
	AI            AIConfig
	Crypto        CryptoConfig
	Networks      NetworksConfig
	Providers     ProvidersConfig
	Trading       TradingConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"hermes"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

type APIConfig struct {
	Host            string        `envconfig:"API_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"API_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"15s"`
}

func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type PostgresConfig struct {
	DSN      string `envconfig:"POSTGRES_DSN" required:"true"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"10"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type AIConfig struct {
	OpenAIKey string `envconfig:"OPENAI_API_KEY" required:"true"`
	Model     string `envconfig:"AI_MODEL" default:"gpt-4o"`
	// Character is prepended to the system prompt to shape the agent's voice.
	Character string `envconfig:"AI_CHARACTER" default:""`
	MaxTurns  int    `envconfig:"AI_MAX_TURNS" default:"8"`
}

type CryptoConfig struct {
	// EncryptionKey protects wallet secrets at rest. Must be 32 bytes.
	EncryptionKey string `envconfig:"ENCRYPTION_KEY" required:"true"`
}

type NetworksConfig struct {
	// Agent is the list of networks this deployment operates on. Providers
	// declaring other networks are registered but never served.
	Agent   []string `envconfig:"AGENT_NETWORKS" default:"bnb,ethereum"`
	Default string   `envconfig:"DEFAULT_NETWORK" default:"bnb"`

	BNBRPCURL      string `envconfig:"BNB_RPC_URL" default:"https://bsc-dataseed.binance.org"`
	EthereumRPCURL string `envconfig:"ETHEREUM_RPC_URL" default:""`
}

type ProvidersConfig struct {
	FourMemeBaseURL  string        `envconfig:"FOURMEME_BASE_URL" required:"true"`
	SwapExecutionURL string        `envconfig:"SWAP_EXECUTION_URL" required:"true"`
	BirdeyeAPIKey    string        `envconfig:"BIRDEYE_API_KEY" default:""`
	QuoteTimeout     time.Duration `envconfig:"PROVIDER_QUOTE_TIMEOUT" default:"5s"`
}

type TradingConfig struct {
	DefaultSlippageBps int64 `envconfig:"DEFAULT_SLIPPAGE_BPS" default:"100"`
}

type ErrorTrackingConfig struct {
	SentryDSN   string  `envconfig:"SENTRY_DSN" default:""`
	SampleRate  float64 `envconfig:"SENTRY_SAMPLE_RATE" default:"1.0"`
	Environment string  `envconfig:"SENTRY_ENVIRONMENT" default:""`
}

// Load reads configuration from the environment, with .env as a convenience
// in development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process environment config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Crypto.EncryptionKey) != 32 {
		return errors.NewValidationError("ENCRYPTION_KEY", "must be exactly 32 bytes", len(c.Crypto.EncryptionKey))
	}
	if len(c.Networks.Agent) == 0 {
		return errors.NewValidationError("AGENT_NETWORKS", "must list at least one network", c.Networks.Agent)
	}
	found := false
	for _, n := range c.Networks.Agent {
		if n == c.Networks.Default {
			found = true
			break
		}
	}
	if !found {
		return errors.NewValidationError("DEFAULT_NETWORK",
			"must be one of AGENT_NETWORKS", c.Networks.Default)
	}
	if c.Trading.DefaultSlippageBps <= 0 || c.Trading.DefaultSlippageBps > 10000 {
		return errors.NewValidationError("DEFAULT_SLIPPAGE_BPS",
			"must be between 1 and 10000", c.Trading.DefaultSlippageBps)
	}
	return nil
}
