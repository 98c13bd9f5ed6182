package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/eth-wallet/ethereum"
	"github.com/AlexZinkM/eth-wallet/internal/api"
	"github.com/AlexZinkM/eth-wallet/internal/handler"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the wallet HTTP API with Swagger UI",
	Long: `Serves the wallet HTTP API on PORT. Balance and pay endpoints need ETH_RPC_URL;
without it the server still generates, recovers and shows the wallet.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc := offlineService()
		if cfg.RPCURL != "" {
			dialCtx, cancel := commandContext(cmd)
			connected, closeFn, err := connectedService(dialCtx)
			cancel()
			if err != nil {
				return err
			}
			defer closeFn()
			svc = connected
		} else {
			log.Warn().Msg("ETH_RPC_URL not set, balance and pay endpoints are disabled")
		}

		return serve(ctx, svc)
	},
}

func serve(ctx context.Context, svc *ethereum.Service) error {
	walletHandler, err := handler.NewWalletHandler(cfg, svc, log)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.SetupRouter(walletHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("wallet", cfg.WalletFilePath).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
