package crypto

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/AlexZinkM/eth-wallet/internal/apperror"
	"github.com/AlexZinkM/eth-wallet/internal/common"
	"github.com/AlexZinkM/eth-wallet/internal/model"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// NewWalletRecord builds the persisted record for a derived keypair.
func NewWalletRecord(kp *Keypair) (*model.WalletRecord, error) {
	addr, err := PublicKeyAddress(&kp.Key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to derive address: %w", err)
	}

	return &model.WalletRecord{
		SeedPhrase:    append([]string{}, kp.Phrase...),
		SecretKey:     kp.SecretKeyHex(),
		PublicKey:     kp.PublicKeyHex(),
		PublicAddress: common.FormatAddress(addr),
	}, nil
}

// VerifyWalletRecord checks that the public key and address of rec
// follow from its secret key.
func VerifyWalletRecord(rec *model.WalletRecord) error {
	key, err := rec.PrivateKey()
	if err != nil {
		return err
	}

	pub := hex.EncodeToString(ethcrypto.CompressPubkey(&key.PublicKey))
	if pub != strings.ToLower(rec.PublicKey) {
		return apperror.ErrKeyMismatch("public_key does not match secret_key")
	}

	addr, err := PublicKeyAddress(&key.PublicKey)
	if err != nil {
		return err
	}
	stored, err := rec.Address()
	if err != nil {
		return err
	}
	if addr != stored {
		return apperror.ErrKeyMismatch("public_address does not match public_key")
	}
	return nil
}

// SaveWallet writes rec as pretty-printed JSON, replacing any existing file.
// The document goes to a temporary file first and is renamed into place,
// so readers see either the old or the new record.
func SaveWallet(filePath string, rec *model.WalletRecord) error {
	if err := validate.Struct(rec); err != nil {
		return apperror.ErrMalformedRecord(err)
	}

	fileData, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return apperror.ErrMalformedRecord(err)
	}
	fileData = append(fileData, '\n')

	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, fileData, 0600); err != nil {
		os.Remove(tmp)
		return apperror.ErrFileAccess("failed to write wallet file", err)
	}
	if err := os.Rename(tmp, filePath); err != nil {
		os.Remove(tmp)
		return apperror.ErrFileAccess("failed to replace wallet file", err)
	}
	return nil
}

// LoadWallet reads and validates a wallet file.
func LoadWallet(filePath string) (*model.WalletRecord, error) {
	fileData, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperror.ErrFileNotFound(filePath)
		}
		return nil, apperror.ErrFileAccess("failed to read wallet file", err)
	}

	// Skip UTF-8 BOM if present
	fileData = bytes.TrimPrefix(fileData, utf8BOM)

	dec := json.NewDecoder(bytes.NewReader(fileData))
	dec.DisallowUnknownFields()

	var rec model.WalletRecord
	if err := dec.Decode(&rec); err != nil {
		return nil, apperror.ErrMalformedRecord(err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, apperror.ErrMalformedRecord(errors.New("trailing data after wallet record"))
	}
	if err := validate.Struct(&rec); err != nil {
		return nil, apperror.ErrMalformedRecord(err)
	}

	// Fields must parse back into key material, not merely look like hex.
	if _, err := rec.PrivateKey(); err != nil {
		return nil, err
	}
	if _, err := rec.PublicKeyECDSA(); err != nil {
		return nil, err
	}
	if _, err := rec.Address(); err != nil {
		return nil, err
	}

	return &rec, nil
}

// ReadWalletAddress reads only the address from the wallet file.
func ReadWalletAddress(filePath string) (string, error) {
	rec, err := LoadWallet(filePath)
	if err != nil {
		return "", err
	}
	return rec.PublicAddress, nil
}
