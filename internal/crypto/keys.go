package crypto

import (
	"crypto/ecdsa"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/AlexZinkM/eth-wallet/internal/apperror"
	"github.com/AlexZinkM/eth-wallet/internal/seed"

	"github.com/cespare/xxhash/v2"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// maxDraws bounds the search for a valid scalar. A 32-byte draw is outside
// [1, n) with probability below 2^-127, so the bound is never reached in practice.
const maxDraws = 64

// Keypair is a secp256k1 key together with the phrase it was derived from.
type Keypair struct {
	Phrase []string
	Key    *ecdsa.PrivateKey
}

// SecretKeyHex returns the 32-byte secret scalar as 64 hex characters.
func (k *Keypair) SecretKeyHex() string {
	return hex.EncodeToString(ethcrypto.FromECDSA(k.Key))
}

// PublicKeyHex returns the 33-byte compressed public key as 66 hex characters.
func (k *Keypair) PublicKeyHex() string {
	return hex.EncodeToString(ethcrypto.CompressPubkey(&k.Key.PublicKey))
}

// PhraseSeed reduces an ordered word sequence to a 64-bit seed.
// Each word is length-prefixed so word boundaries change the result.
//
// The whole key space reachable from phrases is therefore 2^64 keys, far
// below the curve order. Changing this function changes every key derived
// from an existing phrase and breaks recovery.
func PhraseSeed(words []string) uint64 {
	d := xxhash.New()
	var n [8]byte
	for _, w := range words {
		binary.BigEndian.PutUint64(n[:], uint64(len(w)))
		d.Write(n[:])
		d.WriteString(w)
	}
	return d.Sum64()
}

// KeypairFromSeed draws a secp256k1 key from a ChaCha8 stream keyed by n.
// Equal seeds always give equal keys.
func KeypairFromSeed(n uint64) (*ecdsa.PrivateKey, error) {
	var chachaKey [32]byte
	binary.LittleEndian.PutUint64(chachaKey[:8], n)
	rng := rand.NewChaCha8(chachaKey)

	buf := make([]byte, 32)
	defer clear(buf)
	for i := 0; i < maxDraws; i++ {
		if _, err := rng.Read(buf); err != nil {
			return nil, fmt.Errorf("failed to draw key material: %w", err)
		}
		key, err := ethcrypto.ToECDSA(buf)
		if err == nil {
			return key, nil
		}
	}
	return nil, errors.New("no valid secp256k1 scalar drawn")
}

// DeriveFromPhrase derives the keypair for a caller-supplied phrase.
func DeriveFromPhrase(words []string) (*Keypair, error) {
	key, err := KeypairFromSeed(PhraseSeed(words))
	if err != nil {
		return nil, err
	}
	return &Keypair{
		Phrase: append([]string{}, words...),
		Key:    key,
	}, nil
}

// DeriveFresh samples a new phrase from the word list at wordListPath
// (built-in list when empty) and derives its keypair.
func DeriveFresh(wordListPath string, rng *rand.Rand) (*Keypair, error) {
	phrase, err := seed.NewPhrase(wordListPath, rng)
	if err != nil {
		return nil, err
	}
	return DeriveFromPhrase(phrase)
}

// RecoverFromText tokenises free-form recovery input and derives its keypair.
func RecoverFromText(text string) (*Keypair, error) {
	words := seed.ParsePhrase(text)
	if len(words) == 0 {
		return nil, apperror.ErrEmptyPhrase()
	}
	return DeriveFromPhrase(words)
}
