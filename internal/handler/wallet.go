package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/AlexZinkM/eth-wallet/ethereum"
	"github.com/AlexZinkM/eth-wallet/internal/apperror"
	"github.com/AlexZinkM/eth-wallet/internal/config"
	"github.com/AlexZinkM/eth-wallet/internal/model"

	"github.com/rs/zerolog"
)

// WalletHandler serves wallet operations for the configured wallet file
type WalletHandler struct {
	svc        *ethereum.Service
	filePath   string
	rpcTimeout time.Duration
	log        zerolog.Logger
}

// NewWalletHandler creates a new WalletHandler with config values
func NewWalletHandler(cfg *config.Config, svc *ethereum.Service, log zerolog.Logger) (*WalletHandler, error) {
	if cfg.WalletFilePath == "" {
		return nil, errors.New("WALLET_FILE_PATH not set")
	}

	return &WalletHandler{
		svc:        svc,
		filePath:   cfg.WalletFilePath,
		rpcTimeout: cfg.RPCTimeout,
		log:        log,
	}, nil
}

// Generate handles POST /wallet/generate
// @Summary      Generate new wallet
// @Description  Generates a new wallet from a fresh 24-word seed phrase and saves it to the wallet file
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.GenerateRequest  false  "Generation options"
// @Success      200      {object}  model.GenerateResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /wallet/generate [post]
func (h *WalletHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.GenerateRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	rec, err := h.svc.GenerateWallet(h.filePath, req.Overwrite)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.GenerateResponse{
		Success:    true,
		Message:    "Wallet generated successfully. Write down the seed phrase, it is the only way to recover the wallet",
		Address:    rec.PublicAddress,
		PublicKey:  rec.PublicKey,
		SeedPhrase: rec.SeedPhrase,
	})
}

// Recover handles POST /wallet/recover
// @Summary      Recover wallet from seed phrase
// @Description  Re-derives the wallet from a seed phrase and saves it to the wallet file
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.RecoverRequest  true  "Seed phrase"
// @Success      200      {object}  model.GenerateResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /wallet/recover [post]
func (h *WalletHandler) Recover(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.RecoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	rec, err := h.svc.RecoverWallet(h.filePath, req.Phrase, req.Overwrite)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.GenerateResponse{
		Success:   true,
		Message:   "Wallet recovered successfully",
		Address:   rec.PublicAddress,
		PublicKey: rec.PublicKey,
	})
}

// GetWallet handles GET /wallet
// @Summary      Get wallet
// @Description  Gets the wallet address, public key and address QR code (base64 PNG)
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.WalletResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallet [get]
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	info, err := h.svc.GetWallet(h.filePath)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// GetQR handles GET /wallet/qr
// @Summary      Get address QR code
// @Description  Returns the wallet address as a PNG QR code
// @Tags         wallet
// @Produce      png
// @Success      200
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallet/qr [get]
func (h *WalletHandler) GetQR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	png, err := h.svc.AddressQR(h.filePath)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// GetBalance handles GET /wallet/balance
// @Summary      Get wallet balance
// @Description  Gets the ETH balance in wei and ether, valued in the configured currency when a rate is available
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.BalanceResponse
// @Failure      502  {object}  model.ErrorResponse
// @Router       /wallet/balance [get]
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	balance, err := h.svc.GetBalance(ctx, h.filePath)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, balance)
}

// Pay handles POST /wallet/pay
// @Summary      Send ETH
// @Description  Sends ETH to the specified address. The amount must be below the current balance
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.PayRequest  true  "Payment data"
// @Success      200      {object}  model.PayResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      402      {object}  model.ErrorResponse
// @Failure      429      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /wallet/pay [post]
func (h *WalletHandler) Pay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.PayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	payResp, err := h.svc.Pay(ctx, h.filePath, req.ToAddress, req.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, payResp)
}

func (h *WalletHandler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.rpcTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.rpcTimeout)
}

func (h *WalletHandler) writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus()
		if status >= http.StatusInternalServerError {
			h.log.Error().Err(err).Str("code", appErr.Code).Msg("request failed")
		}
		writeJSON(w, status, model.ErrorResponse{Error: err.Error(), Code: appErr.Code})
		return
	}

	h.log.Error().Err(err).Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeOptionalBody decodes a JSON body, leaving v untouched when the body is empty.
func decodeOptionalBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
