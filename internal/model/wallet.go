package model

import (
	"crypto/ecdsa"
	"encoding/hex"

	"github.com/AlexZinkM/eth-wallet/internal/apperror"
	"github.com/AlexZinkM/eth-wallet/internal/common"

	ethcommon "github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// WalletRecord represents the wallet file structure.
// Fields are stored as produced at derivation time and never edited in place.
type WalletRecord struct {
	SeedPhrase    []string `json:"seed_phrase" validate:"required"`
	SecretKey     string   `json:"secret_key" validate:"required,len=64,hexadecimal"`
	PublicKey     string   `json:"public_key" validate:"required,len=66,hexadecimal"`
	PublicAddress string   `json:"public_address" validate:"required,eth_addr"`
}

// PrivateKey parses the stored secret key.
// Caller should not keep the key longer than one operation.
func (w *WalletRecord) PrivateKey() (*ecdsa.PrivateKey, error) {
	key, err := ethcrypto.HexToECDSA(w.SecretKey)
	if err != nil {
		return nil, apperror.ErrMalformedHex("secret_key", err)
	}
	return key, nil
}

// PublicKeyECDSA parses the stored compressed public key.
func (w *WalletRecord) PublicKeyECDSA() (*ecdsa.PublicKey, error) {
	raw, err := hex.DecodeString(w.PublicKey)
	if err != nil {
		return nil, apperror.ErrMalformedHex("public_key", err)
	}
	pub, err := ethcrypto.DecompressPubkey(raw)
	if err != nil {
		return nil, apperror.ErrMalformedHex("public_key", err)
	}
	return pub, nil
}

// Address parses the stored public address.
func (w *WalletRecord) Address() (ethcommon.Address, error) {
	return common.ParseAddress(w.PublicAddress)
}
