package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/AlexZinkM/eth-wallet/ethereum"
	"github.com/AlexZinkM/eth-wallet/internal/client"
	"github.com/AlexZinkM/eth-wallet/internal/config"
	"github.com/AlexZinkM/eth-wallet/internal/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ethwallet",
	Short: "Local Ethereum wallet",
	Long: `A single-account Ethereum wallet. Keys are derived from a 24-word seed phrase
and kept unencrypted in a local JSON file; balance and transfers go through one JSON-RPC node.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}

		c, err := config.Load()
		if err != nil {
			return err
		}
		if walletPath, _ := cmd.Flags().GetString("wallet"); walletPath != "" {
			c.WalletFilePath = walletPath
		}
		if c.WalletFilePath == "" {
			return errors.New("WALLET_FILE_PATH not set")
		}

		cfg = c
		log = logger.New(c.LogLevel, c.LogPretty)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "Environment file to load before reading configuration")
	rootCmd.PersistentFlags().StringP("wallet", "w", "", "Wallet file (overrides WALLET_FILE_PATH)")
}

// Execute runs the root command and exits on error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// offlineService builds a service without a ledger connection.
func offlineService() *ethereum.Service {
	return ethereum.NewService(cfg, nil, nil, log)
}

// connectedService dials ETH_RPC_URL and builds a service on top of it.
// The returned close func must be called when done.
func connectedService(ctx context.Context) (*ethereum.Service, func(), error) {
	rpcURL, err := cfg.RequireRPCURL()
	if err != nil {
		return nil, nil, err
	}

	ethClient, err := client.NewEthereumClient(ctx, rpcURL)
	if err != nil {
		return nil, nil, err
	}

	var rates ethereum.RateSource
	if cfg.PriceCurrency != "" {
		rates = client.NewCoinGeckoClient(cfg.CoinGeckoURL)
	}

	return ethereum.NewService(cfg, ethClient, rates, log), ethClient.Close, nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.RPCTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cfg.RPCTimeout)
}
