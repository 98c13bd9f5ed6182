package api

import (
	"net/http"

	_ "github.com/AlexZinkM/eth-wallet/docs"
	"github.com/AlexZinkM/eth-wallet/internal/handler"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter(walletHandler *handler.WalletHandler) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Wallet endpoints
	mux.HandleFunc("/wallet", walletHandler.GetWallet)
	mux.HandleFunc("/wallet/generate", walletHandler.Generate)
	mux.HandleFunc("/wallet/recover", walletHandler.Recover)
	mux.HandleFunc("/wallet/balance", walletHandler.GetBalance)
	mux.HandleFunc("/wallet/pay", walletHandler.Pay)
	mux.HandleFunc("/wallet/qr", walletHandler.GetQR)

	return mux
}
