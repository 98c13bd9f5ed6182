package crypto

import (
	"crypto/ecdsa"

	"github.com/AlexZinkM/eth-wallet/internal/apperror"

	ethcommon "github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"
)

const (
	uncompressedMarker = 0x04
	uncompressedLen    = 65
)

// PublicKeyAddress derives the 20-byte address of a public key: the last
// 20 bytes of Keccak-256 over the 64-byte X||Y payload.
func PublicKeyAddress(pub *ecdsa.PublicKey) (ethcommon.Address, error) {
	if pub == nil || pub.X == nil || pub.Y == nil {
		return ethcommon.Address{}, apperror.ErrPublicKeyFormat(0)
	}
	return addressFromUncompressed(ethcrypto.FromECDSAPub(pub))
}

func addressFromUncompressed(raw []byte) (ethcommon.Address, error) {
	if len(raw) == 0 {
		return ethcommon.Address{}, apperror.ErrPublicKeyFormat(0)
	}
	if raw[0] != uncompressedMarker || len(raw) != uncompressedLen {
		return ethcommon.Address{}, apperror.ErrPublicKeyFormat(raw[0])
	}

	h := sha3.NewLegacyKeccak256()
	h.Write(raw[1:])
	sum := h.Sum(nil)

	return ethcommon.BytesToAddress(sum[12:]), nil
}
