package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// It is loaded once by the entry point and passed down explicitly.
type Config struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	PayCooldown    int           `envconfig:"PAY_COOLDOWN_MINUTES" default:"0"`
	WalletFilePath string        `envconfig:"WALLET_FILE_PATH" default:"crypto_wallet.json"`
	WordListPath   string        `envconfig:"WORDLIST_PATH"`
	RPCURL         string        `envconfig:"ETH_RPC_URL"`
	RPCTimeout     time.Duration `envconfig:"RPC_TIMEOUT" default:"30s"`
	PriceCurrency  string        `envconfig:"PRICE_CURRENCY" default:"usd"`
	CoinGeckoURL   string        `envconfig:"COINGECKO_URL" default:"https://api.coingecko.com/api/v3"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty      bool          `envconfig:"LOG_PRETTY" default:"false"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return cfg, nil
}

// PayCooldownDuration returns the pay cooldown as a duration. Zero disables it.
func (c *Config) PayCooldownDuration() time.Duration {
	if c.PayCooldown <= 0 {
		return 0
	}
	return time.Duration(c.PayCooldown) * time.Minute
}

// RequireRPCURL returns the ledger endpoint or an error when it is unset.
func (c *Config) RequireRPCURL() (string, error) {
	if c.RPCURL == "" {
		return "", errors.New("ETH_RPC_URL not set")
	}
	return c.RPCURL, nil
}

// PromptForPhrase reads a recovery phrase from the terminal without echoing it.
func PromptForPhrase(prompt io.Writer) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("stdin is not a terminal: pass the phrase with --phrase")
	}
	fmt.Fprint(prompt, "Enter seed phrase: ")
	defer fmt.Fprintln(prompt)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read phrase: %w", err)
	}
	defer clear(raw)
	if len(raw) == 0 {
		return "", errors.New("phrase cannot be empty")
	}
	return string(raw), nil
}
