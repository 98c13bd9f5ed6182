package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/AlexZinkM/eth-wallet/internal/apperror"
	"github.com/AlexZinkM/eth-wallet/internal/common"
	"github.com/AlexZinkM/eth-wallet/internal/crypto"
	"github.com/AlexZinkM/eth-wallet/internal/model"
)

var errNoLedger = errors.New("ETH_RPC_URL not set")

// Balance returns the wallet's current balance in wei.
func (s *Service) Balance(ctx context.Context, rec *model.WalletRecord) (*big.Int, error) {
	if s.ledger == nil {
		return nil, apperror.ErrDial(errNoLedger)
	}

	addr, err := rec.Address()
	if err != nil {
		return nil, err
	}

	balance, err := s.ledger.BalanceOf(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to check balance: %w", err)
	}
	return balance, nil
}

// GetBalance gets wallet balance with an optional fiat valuation
func (s *Service) GetBalance(ctx context.Context, filePath string) (*model.BalanceResponse, error) {
	rec, err := crypto.LoadWallet(filePath)
	if err != nil {
		return nil, err
	}

	wei, err := s.Balance(ctx, rec)
	if err != nil {
		return nil, err
	}

	resp := &model.BalanceResponse{
		Address:  rec.PublicAddress,
		Wei:      wei.String(),
		ETH:      common.FormatWei(wei),
		ETHFloat: common.WeiToEther(wei),
	}

	if s.rates == nil || s.currency == "" {
		return resp, nil
	}

	rate, err := s.rates.GetETHRate(ctx, s.currency)
	if err != nil {
		s.log.Warn().Err(err).Str("currency", s.currency).Msg("rate unavailable, skipping valuation")
		return resp, nil
	}

	// float only for display, not for critical operations
	rateFloat, err := strconv.ParseFloat(rate, 64)
	if err != nil || math.IsNaN(rateFloat) || math.IsInf(rateFloat, 0) {
		s.log.Warn().Err(err).Str("currency", s.currency).Str("rate", rate).Msg("unusable rate, skipping valuation")
		return resp, nil
	}
	resp.Currency = s.currency
	resp.Rate = rate
	resp.Value = fmt.Sprintf("%.2f", resp.ETHFloat*rateFloat)
	return resp, nil
}
