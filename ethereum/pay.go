package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/AlexZinkM/eth-wallet/internal/apperror"
	"github.com/AlexZinkM/eth-wallet/internal/common"
	"github.com/AlexZinkM/eth-wallet/internal/crypto"
	"github.com/AlexZinkM/eth-wallet/internal/model"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// Pay sends amount ETH (decimal string, up to 18 places) from the wallet in
// filePath to toAddress. Only one payment per wallet file runs at a time.
func (s *Service) Pay(ctx context.Context, filePath, toAddress, amount string) (*model.PayResponse, error) {
	to, err := common.ParseAddress(toAddress)
	if err != nil {
		return nil, err
	}

	value, err := common.ParseEther(amount)
	if err != nil {
		return nil, err
	}

	l := s.lockFor(filePath)
	l.mu.Lock()
	defer l.mu.Unlock()

	if s.cooldown > 0 && !l.lastPayTime.IsZero() {
		if elapsed := time.Since(l.lastPayTime); elapsed < s.cooldown {
			return nil, apperror.ErrCooldown(s.cooldown - elapsed)
		}
	}

	rec, err := crypto.LoadWallet(filePath)
	if err != nil {
		return nil, err
	}

	transfer, err := s.Transfer(ctx, rec, to, value)
	if err != nil {
		return nil, err
	}

	l.lastPayTime = time.Now()

	return &model.PayResponse{
		TxID:      transfer.TxID,
		From:      common.FormatAddress(transfer.From),
		To:        common.FormatAddress(transfer.To),
		AmountWei: transfer.Value.String(),
		Amount:    common.FormatWei(transfer.Value),
	}, nil
}

// Transfer builds, signs and submits a transfer of value wei from rec to to.
// The value must be strictly below the current balance; otherwise nothing is
// signed or sent. A failed submit is not retried, and retrying it from the
// caller may broadcast the payment twice.
func (s *Service) Transfer(ctx context.Context, rec *model.WalletRecord, to ethcommon.Address, value *big.Int) (*model.Transfer, error) {
	if s.ledger == nil {
		return nil, apperror.ErrDial(errNoLedger)
	}
	if value == nil || value.Sign() < 0 {
		return nil, apperror.ErrInvalidAmount(errors.New("value must be non-negative"))
	}

	log := s.log.With().Str("flow_id", uuid.NewString()).Logger()

	from, err := rec.Address()
	if err != nil {
		return nil, err
	}

	t := &model.Transfer{
		From:  from,
		To:    to,
		Value: new(big.Int).Set(value),
		State: model.TransferBuilt,
	}
	log.Debug().
		Str("from", common.FormatAddress(from)).
		Str("to", common.FormatAddress(to)).
		Str("wei", value.String()).
		Str("state", string(t.State)).
		Msg("transfer built")

	if err := crypto.VerifyWalletRecord(rec); err != nil {
		return nil, fmt.Errorf("wallet record rejected: %w", err)
	}

	balance, err := s.ledger.BalanceOf(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to check balance: %w", err)
	}
	if t.Value.Cmp(balance) >= 0 {
		log.Info().Str("wei", value.String()).Str("balance", balance.String()).Msg("insufficient funds")
		return nil, apperror.ErrInsufficientFunds()
	}

	key, err := rec.PrivateKey()
	if err != nil {
		return nil, err
	}
	defer key.D.SetInt64(0)

	raw, err := s.ledger.Sign(ctx, t, key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	t.Raw = raw
	t.State = model.TransferSigned
	log.Debug().Str("state", string(t.State)).Msg("transfer signed")

	txID, err := s.ledger.Submit(ctx, raw)
	if err != nil {
		log.Error().Err(err).Msg("submit failed")
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}
	t.TxID = txID
	t.State = model.TransferSubmitted
	log.Info().Str("tx_id", txID).Str("state", string(t.State)).Msg("transfer submitted")

	return t, nil
}
