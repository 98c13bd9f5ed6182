package ethereum

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/AlexZinkM/eth-wallet/internal/apperror"
	"github.com/AlexZinkM/eth-wallet/internal/crypto"
	"github.com/AlexZinkM/eth-wallet/internal/model"

	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// GenerateWallet derives a wallet from a fresh seed phrase and saves it to filePath.
// A non-empty existing file is kept unless overwrite is set.
func (s *Service) GenerateWallet(filePath string, overwrite bool) (*model.WalletRecord, error) {
	l := s.lockFor(filePath)
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := checkWritable(filePath, overwrite); err != nil {
		return nil, err
	}

	kp, err := crypto.DeriveFresh(s.wordListPath, s.rng)
	if err != nil {
		return nil, fmt.Errorf("failed to derive wallet: %w", err)
	}

	rec, err := s.save(filePath, kp)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("address", rec.PublicAddress).Str("file", filePath).Msg("wallet generated")
	return rec, nil
}

// RecoverWallet re-derives the wallet for a seed phrase given as free-form text
// and saves it to filePath.
func (s *Service) RecoverWallet(filePath, phrase string, overwrite bool) (*model.WalletRecord, error) {
	kp, err := crypto.RecoverFromText(phrase)
	if err != nil {
		return nil, err
	}

	l := s.lockFor(filePath)
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := checkWritable(filePath, overwrite); err != nil {
		return nil, err
	}

	rec, err := s.save(filePath, kp)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("address", rec.PublicAddress).Int("words", len(kp.Phrase)).Msg("wallet recovered")
	return rec, nil
}

// GetWallet returns the public part of the stored wallet with its address QR code.
func (s *Service) GetWallet(filePath string) (*model.WalletResponse, error) {
	rec, err := crypto.LoadWallet(filePath)
	if err != nil {
		return nil, err
	}

	qrCode, err := generateQRCode(rec.PublicAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	return &model.WalletResponse{
		Address:   rec.PublicAddress,
		PublicKey: rec.PublicKey,
		QR:        qrCode,
	}, nil
}

// AddressQR returns the wallet address encoded as a PNG QR code.
func (s *Service) AddressQR(filePath string) ([]byte, error) {
	address, err := crypto.ReadWalletAddress(filePath)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(address, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}
	return png, nil
}

func (s *Service) save(filePath string, kp *crypto.Keypair) (*model.WalletRecord, error) {
	rec, err := crypto.NewWalletRecord(kp)
	if err != nil {
		return nil, err
	}
	if err := crypto.SaveWallet(filePath, rec); err != nil {
		return nil, fmt.Errorf("failed to save wallet: %w", err)
	}
	return rec, nil
}

// checkWritable refuses to replace a non-empty wallet file unless overwrite is set.
func checkWritable(filePath string, overwrite bool) error {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return apperror.ErrFileAccess("failed to stat wallet file", err)
	}
	if fileInfo.Size() > 0 && !overwrite {
		return apperror.ErrWalletExists()
	}
	return nil
}

// generateQRCode generates QR code of address in base64
func generateQRCode(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(qrSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
