package crypto

import (
	"encoding/hex"
	"math/rand/v2"
	"testing"

	"github.com/AlexZinkM/eth-wallet/internal/apperror"
	"github.com/AlexZinkM/eth-wallet/internal/common"
	"github.com/AlexZinkM/eth-wallet/internal/seed"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveFromPhrase_Deterministic(t *testing.T) {
	words := []string{"orbit", "canvas", "shrimp", "lunar", "velvet", "cactus"}

	first, err := DeriveFromPhrase(words)
	require.NoError(t, err)
	second, err := DeriveFromPhrase(words)
	require.NoError(t, err)
	third, err := DeriveFromPhrase(append([]string{}, words...))
	require.NoError(t, err)

	assert.Equal(t, first.SecretKeyHex(), second.SecretKeyHex())
	assert.Equal(t, first.PublicKeyHex(), second.PublicKeyHex())
	assert.Equal(t, second.SecretKeyHex(), third.SecretKeyHex())
	assert.Equal(t, words, first.Phrase)
}

func TestDeriveFromPhrase_FixedDrawOfFourWords(t *testing.T) {
	words := []string{"alpha", "beta", "gamma", "delta"}

	phrase, err := seed.Sample(words, 4, rand.New(rand.NewPCG(3, 9)))
	require.NoError(t, err)

	a, err := DeriveFromPhrase(phrase)
	require.NoError(t, err)
	b, err := DeriveFromPhrase(append([]string{}, phrase...))
	require.NoError(t, err)

	assert.Equal(t, ethcrypto.FromECDSA(a.Key), ethcrypto.FromECDSA(b.Key))
}

func TestDeriveFromPhrase_OrderAndBoundariesMatter(t *testing.T) {
	ab, err := DeriveFromPhrase([]string{"alpha", "beta"})
	require.NoError(t, err)
	ba, err := DeriveFromPhrase([]string{"beta", "alpha"})
	require.NoError(t, err)
	assert.NotEqual(t, ab.SecretKeyHex(), ba.SecretKeyHex())

	assert.NotEqual(t, PhraseSeed([]string{"ab", "c"}), PhraseSeed([]string{"a", "bc"}))
	assert.NotEqual(t, PhraseSeed([]string{"Alpha"}), PhraseSeed([]string{"alpha"}))
}

func TestDeriveFromPhrase_EmptyPhrase(t *testing.T) {
	a, err := DeriveFromPhrase(nil)
	require.NoError(t, err)
	b, err := DeriveFromPhrase([]string{})
	require.NoError(t, err)

	assert.Equal(t, a.SecretKeyHex(), b.SecretKeyHex())
	assert.NotNil(t, a.Phrase)
}

// Existing wallets are recovered from their phrase alone, so these values
// must never change between releases.
func TestDeriveFromPhrase_PinnedVector(t *testing.T) {
	words := []string{"alpha", "beta", "gamma", "delta"}
	const (
		wantSeed    = uint64(17195356925754048380)
		wantSecret  = "774deb9d252621f4717728ae9e2ef6ed8ee64e40814c7154e796917ac7385773"
		wantAddress = "0xba6b1dc6547cabb920e5beb7398f75da0da1ff36"
	)

	assert.Equal(t, wantSeed, PhraseSeed(words))

	key, err := KeypairFromSeed(wantSeed)
	require.NoError(t, err)
	assert.Equal(t, wantSecret, hex.EncodeToString(ethcrypto.FromECDSA(key)))

	kp, err := DeriveFromPhrase(words)
	require.NoError(t, err)
	assert.Equal(t, wantSecret, kp.SecretKeyHex())

	rec, err := NewWalletRecord(kp)
	require.NoError(t, err)
	assert.Equal(t, wantAddress, rec.PublicAddress)

	addr, err := PublicKeyAddress(&kp.Key.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, wantAddress, common.FormatAddress(addr))
}

func TestKeypairFromSeed(t *testing.T) {
	k1, err := KeypairFromSeed(123)
	require.NoError(t, err)
	k2, err := KeypairFromSeed(123)
	require.NoError(t, err)
	k3, err := KeypairFromSeed(124)
	require.NoError(t, err)

	assert.Zero(t, k1.D.Cmp(k2.D))
	assert.NotZero(t, k1.D.Cmp(k3.D))
	assert.Zero(t, k1.PublicKey.X.Cmp(k2.PublicKey.X))
}

func TestDeriveFresh_Lengths(t *testing.T) {
	for i := 0; i < 10; i++ {
		kp, err := DeriveFresh("", nil)
		require.NoError(t, err)

		assert.Len(t, kp.Phrase, seed.PhraseLength)
		assert.Len(t, kp.SecretKeyHex(), 64)
		assert.Len(t, kp.PublicKeyHex(), 66)

		rec, err := NewWalletRecord(kp)
		require.NoError(t, err)
		assert.Len(t, rec.PublicAddress, 42)
	}
}

func TestDeriveFresh_RecoverRegeneratesKey(t *testing.T) {
	kp, err := DeriveFresh("", nil)
	require.NoError(t, err)

	recovered, err := RecoverFromText(seed.JoinPhrase(kp.Phrase))
	require.NoError(t, err)

	assert.Equal(t, kp.SecretKeyHex(), recovered.SecretKeyHex())
	assert.Equal(t, kp.Phrase, recovered.Phrase)
}

func TestRecoverFromText_Empty(t *testing.T) {
	_, err := RecoverFromText(" ,;  ")

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInput))
}

func TestPublicKeyEncodings(t *testing.T) {
	key, err := ethcrypto.HexToECDSA("0000000000000000000000000000000000000000000000000000000000000001")
	require.NoError(t, err)
	kp := &Keypair{Key: key}

	assert.Equal(t, "0000000000000000000000000000000000000000000000000000000000000001", kp.SecretKeyHex())
	assert.Equal(t, "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798", kp.PublicKeyHex())

	raw, err := hex.DecodeString(kp.PublicKeyHex())
	require.NoError(t, err)
	pub, err := ethcrypto.DecompressPubkey(raw)
	require.NoError(t, err)
	assert.True(t, pub.Equal(&key.PublicKey))
}

func TestPublicKeyAddress_KnownVector(t *testing.T) {
	key, err := ethcrypto.HexToECDSA("0000000000000000000000000000000000000000000000000000000000000001")
	require.NoError(t, err)

	addr, err := PublicKeyAddress(&key.PublicKey)
	require.NoError(t, err)

	assert.Equal(t, "0x7e5f4552091a69125d5dfcb7b8c2659029395bdf", common.FormatAddress(addr))
	assert.Equal(t, ethcrypto.PubkeyToAddress(key.PublicKey), addr)
}

func TestPublicKeyAddress_Stable(t *testing.T) {
	for i := uint64(0); i < 20; i++ {
		key, err := KeypairFromSeed(i)
		require.NoError(t, err)

		a1, err := PublicKeyAddress(&key.PublicKey)
		require.NoError(t, err)
		a2, err := PublicKeyAddress(&key.PublicKey)
		require.NoError(t, err)

		assert.Equal(t, a1, a2)
		assert.Len(t, a1.Bytes(), 20)
		assert.Equal(t, ethcrypto.PubkeyToAddress(key.PublicKey), a1)
	}
}

func TestAddressFromUncompressed_WrongMarker(t *testing.T) {
	key, err := KeypairFromSeed(1)
	require.NoError(t, err)

	compressed := ethcrypto.CompressPubkey(&key.PublicKey)
	_, err = addressFromUncompressed(compressed)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindCrypto))

	_, err = addressFromUncompressed(nil)
	assert.True(t, apperror.IsKind(err, apperror.KindCrypto))

	_, err = PublicKeyAddress(nil)
	assert.True(t, apperror.IsKind(err, apperror.KindCrypto))
}
