package ethereum

import (
	"context"
	"crypto/ecdsa"
	"encoding/base64"
	"errors"
	"math/big"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/AlexZinkM/eth-wallet/internal/apperror"
	"github.com/AlexZinkM/eth-wallet/internal/client/mocks"
	"github.com/AlexZinkM/eth-wallet/internal/common"
	"github.com/AlexZinkM/eth-wallet/internal/config"
	"github.com/AlexZinkM/eth-wallet/internal/crypto"
	"github.com/AlexZinkM/eth-wallet/internal/model"
	"github.com/AlexZinkM/eth-wallet/internal/seed"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const recipient = "0x00000000000000000000000000000000000000aa"

type fakeRates struct {
	rate string
	err  error
}

func (f *fakeRates) GetETHRate(_ context.Context, _ string) (string, error) {
	return f.rate, f.err
}

type serviceTestDeps struct {
	svc    *Service
	ledger *mocks.MockLedger
	path   string
	ctrl   *gomock.Controller
}

func setupService(t *testing.T, cfg *config.Config, rates RateSource) *serviceTestDeps {
	ctrl := gomock.NewController(t)
	if cfg == nil {
		cfg = &config.Config{PriceCurrency: "usd"}
	}
	d := &serviceTestDeps{
		ledger: mocks.NewMockLedger(ctrl),
		path:   filepath.Join(t.TempDir(), "crypto_wallet.json"),
		ctrl:   ctrl,
	}
	d.svc = NewService(cfg, d.ledger, rates, zerolog.Nop()).WithRand(rand.New(rand.NewPCG(1, 1)))
	return d
}

func mustWei(t *testing.T, eth string) *big.Int {
	t.Helper()
	v, err := common.ParseEther(eth)
	require.NoError(t, err)
	return v
}

// ==================== Generate / Recover ====================

func TestService_GenerateWallet(t *testing.T) {
	d := setupService(t, nil, nil)

	rec, err := d.svc.GenerateWallet(d.path, false)
	require.NoError(t, err)

	assert.Len(t, rec.SeedPhrase, seed.PhraseLength)
	assert.Len(t, rec.SecretKey, 64)
	assert.Len(t, rec.PublicKey, 66)
	assert.Len(t, rec.PublicAddress, 42)

	loaded, err := crypto.LoadWallet(d.path)
	require.NoError(t, err)
	assert.Equal(t, rec, loaded)
}

func TestService_GenerateWallet_RefusesNonEmptyFile(t *testing.T) {
	d := setupService(t, nil, nil)

	first, err := d.svc.GenerateWallet(d.path, false)
	require.NoError(t, err)

	_, err = d.svc.GenerateWallet(d.path, false)
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "IO_003", appErr.Code)

	loaded, err := crypto.LoadWallet(d.path)
	require.NoError(t, err)
	assert.Equal(t, first, loaded)

	second, err := d.svc.GenerateWallet(d.path, true)
	require.NoError(t, err)
	assert.NotEqual(t, first.SecretKey, second.SecretKey)
}

func TestService_GenerateWallet_EmptyFileIsReplaced(t *testing.T) {
	d := setupService(t, nil, nil)
	require.NoError(t, os.WriteFile(d.path, nil, 0600))

	_, err := d.svc.GenerateWallet(d.path, false)
	require.NoError(t, err)
}

func TestService_GenerateWallet_WordListTooSmall(t *testing.T) {
	dir := t.TempDir()
	words := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(words, []byte("alpha\nbeta\ngamma\ndelta\n"), 0644))

	d := setupService(t, &config.Config{WordListPath: words}, nil)

	_, err := d.svc.GenerateWallet(d.path, false)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInput))
	_, statErr := os.Stat(d.path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestService_RecoverWallet(t *testing.T) {
	d := setupService(t, nil, nil)

	generated, err := d.svc.GenerateWallet(d.path, false)
	require.NoError(t, err)

	other := filepath.Join(t.TempDir(), "recovered.json")
	recovered, err := d.svc.RecoverWallet(other, "  "+seed.JoinPhrase(generated.SeedPhrase)+"\n", false)
	require.NoError(t, err)
	assert.Equal(t, generated, recovered)

	generatedFile, err := os.ReadFile(d.path)
	require.NoError(t, err)
	restored, err := os.ReadFile(other)
	require.NoError(t, err)
	assert.Equal(t, string(generatedFile), string(restored))
}

func TestService_RecoverWallet_EmptyPhrase(t *testing.T) {
	d := setupService(t, nil, nil)

	_, err := d.svc.RecoverWallet(d.path, " ... ", false)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInput))
}

func TestService_GetWalletAndQR(t *testing.T) {
	d := setupService(t, nil, nil)
	rec, err := d.svc.GenerateWallet(d.path, false)
	require.NoError(t, err)

	info, err := d.svc.GetWallet(d.path)
	require.NoError(t, err)
	assert.Equal(t, rec.PublicAddress, info.Address)
	assert.Equal(t, rec.PublicKey, info.PublicKey)

	png, err := base64.StdEncoding.DecodeString(info.QR)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(png[:4]))

	raw, err := d.svc.AddressQR(d.path)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(raw[:4]))

	_, err = d.svc.GetWallet(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, apperror.IsKind(err, apperror.KindIO))
}

// ==================== Balance ====================

func TestService_GetBalance(t *testing.T) {
	d := setupService(t, nil, &fakeRates{rate: "2000.00"})
	rec, err := d.svc.GenerateWallet(d.path, false)
	require.NoError(t, err)
	addr, err := rec.Address()
	require.NoError(t, err)

	d.ledger.EXPECT().BalanceOf(gomock.Any(), addr).Return(mustWei(t, "1.5"), nil)

	resp, err := d.svc.GetBalance(context.Background(), d.path)
	require.NoError(t, err)
	assert.Equal(t, rec.PublicAddress, resp.Address)
	assert.Equal(t, "1500000000000000000", resp.Wei)
	assert.Equal(t, "1.500000000000000000", resp.ETH)
	assert.Equal(t, 1.5, resp.ETHFloat)
	assert.Equal(t, "usd", resp.Currency)
	assert.Equal(t, "2000.00", resp.Rate)
	assert.Equal(t, "3000.00", resp.Value)
}

func TestService_GetBalance_RateFailureIsNotFatal(t *testing.T) {
	d := setupService(t, nil, &fakeRates{err: errors.New("rate limited")})
	_, err := d.svc.GenerateWallet(d.path, false)
	require.NoError(t, err)

	d.ledger.EXPECT().BalanceOf(gomock.Any(), gomock.Any()).Return(big.NewInt(1), nil)

	resp, err := d.svc.GetBalance(context.Background(), d.path)
	require.NoError(t, err)
	assert.Equal(t, "1", resp.Wei)
	assert.Empty(t, resp.Rate)
	assert.Empty(t, resp.Value)
}

func TestService_GetBalance_UnparsableRateSkipsValuation(t *testing.T) {
	for _, rate := range []string{"n/a", "", "NaN", "Inf"} {
		t.Run(rate, func(t *testing.T) {
			d := setupService(t, nil, &fakeRates{rate: rate})
			_, err := d.svc.GenerateWallet(d.path, false)
			require.NoError(t, err)

			d.ledger.EXPECT().BalanceOf(gomock.Any(), gomock.Any()).Return(mustWei(t, "2"), nil)

			resp, err := d.svc.GetBalance(context.Background(), d.path)
			require.NoError(t, err)
			assert.Equal(t, "2.000000000000000000", resp.ETH)
			assert.Empty(t, resp.Currency)
			assert.Empty(t, resp.Rate)
			assert.Empty(t, resp.Value)
		})
	}
}

func TestService_GetBalance_LedgerError(t *testing.T) {
	d := setupService(t, nil, nil)
	_, err := d.svc.GenerateWallet(d.path, false)
	require.NoError(t, err)

	d.ledger.EXPECT().BalanceOf(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrRPC("eth_getBalance", errors.New("timeout")))

	_, err = d.svc.GetBalance(context.Background(), d.path)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNetwork))
}

func TestService_GetBalance_NoLedger(t *testing.T) {
	svc := NewService(&config.Config{}, nil, nil, zerolog.Nop())
	path := filepath.Join(t.TempDir(), "crypto_wallet.json")
	_, err := svc.GenerateWallet(path, false)
	require.NoError(t, err)

	_, err = svc.GetBalance(context.Background(), path)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNetwork))
}

// ==================== Pay ====================

func TestService_Pay_Success(t *testing.T) {
	d := setupService(t, nil, nil)
	rec, err := d.svc.GenerateWallet(d.path, false)
	require.NoError(t, err)
	from, err := rec.Address()
	require.NoError(t, err)

	raw := []byte{0xf8, 0x6b}
	gomock.InOrder(
		d.ledger.EXPECT().BalanceOf(gomock.Any(), from).Return(mustWei(t, "2"), nil),
		d.ledger.EXPECT().Sign(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tr *model.Transfer, key *ecdsa.PrivateKey) ([]byte, error) {
				assert.Equal(t, model.TransferBuilt, tr.State)
				assert.Equal(t, from, tr.From)
				assert.Equal(t, "500000000000000000", tr.Value.String())
				assert.Equal(t, rec.SecretKey, hexKey(key))
				return raw, nil
			}),
		d.ledger.EXPECT().Submit(gomock.Any(), raw).Return("0xabc123", nil),
	)

	resp, err := d.svc.Pay(context.Background(), d.path, recipient, "0.5")
	require.NoError(t, err)
	assert.Equal(t, "0xabc123", resp.TxID)
	assert.Equal(t, rec.PublicAddress, resp.From)
	assert.Equal(t, recipient, resp.To)
	assert.Equal(t, "500000000000000000", resp.AmountWei)
	assert.Equal(t, "0.500000000000000000", resp.Amount)
}

func TestService_Pay_InsufficientFunds(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		amount  string
	}{
		{"value equals balance", "1", "1"},
		{"value above balance", "1", "1.000000000000000001"},
		{"zero balance", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupService(t, nil, nil)
			_, err := d.svc.GenerateWallet(d.path, false)
			require.NoError(t, err)
			before, err := os.ReadFile(d.path)
			require.NoError(t, err)

			d.ledger.EXPECT().BalanceOf(gomock.Any(), gomock.Any()).Return(mustWei(t, tt.balance), nil)
			d.ledger.EXPECT().Sign(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			d.ledger.EXPECT().Submit(gomock.Any(), gomock.Any()).Times(0)

			_, err = d.svc.Pay(context.Background(), d.path, recipient, tt.amount)
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, apperror.KindPrecondition))

			after, err := os.ReadFile(d.path)
			require.NoError(t, err)
			assert.Equal(t, before, after)
		})
	}
}

func TestService_Pay_InvalidInput(t *testing.T) {
	d := setupService(t, nil, nil)
	_, err := d.svc.GenerateWallet(d.path, false)
	require.NoError(t, err)

	_, err = d.svc.Pay(context.Background(), d.path, "not-an-address", "1")
	assert.True(t, apperror.IsKind(err, apperror.KindParse))

	_, err = d.svc.Pay(context.Background(), d.path, recipient, "one")
	assert.True(t, apperror.IsKind(err, apperror.KindInput))

	_, err = d.svc.Pay(context.Background(), filepath.Join(t.TempDir(), "missing.json"), recipient, "1")
	assert.True(t, apperror.IsKind(err, apperror.KindIO))
}

func TestService_Pay_TamperedRecord(t *testing.T) {
	d := setupService(t, nil, nil)
	rec, err := d.svc.GenerateWallet(d.path, false)
	require.NoError(t, err)

	other, err := crypto.DeriveFromPhrase([]string{"someone", "else"})
	require.NoError(t, err)
	otherRec, err := crypto.NewWalletRecord(other)
	require.NoError(t, err)
	rec.PublicAddress = otherRec.PublicAddress
	require.NoError(t, crypto.SaveWallet(d.path, rec))

	_, err = d.svc.Pay(context.Background(), d.path, recipient, "0.1")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindCrypto))
}

func TestService_Pay_SubmitFailure(t *testing.T) {
	d := setupService(t, nil, nil)
	_, err := d.svc.GenerateWallet(d.path, false)
	require.NoError(t, err)

	d.ledger.EXPECT().BalanceOf(gomock.Any(), gomock.Any()).Return(mustWei(t, "5"), nil)
	d.ledger.EXPECT().Sign(gomock.Any(), gomock.Any(), gomock.Any()).Return([]byte{0x01}, nil)
	d.ledger.EXPECT().Submit(gomock.Any(), gomock.Any()).
		Return("", apperror.ErrRPC("eth_sendRawTransaction", errors.New("nonce too low")))

	_, err = d.svc.Pay(context.Background(), d.path, recipient, "1")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNetwork))
}

func TestService_Pay_Cooldown(t *testing.T) {
	d := setupService(t, &config.Config{PayCooldown: 5}, nil)
	_, err := d.svc.GenerateWallet(d.path, false)
	require.NoError(t, err)

	d.ledger.EXPECT().BalanceOf(gomock.Any(), gomock.Any()).Return(mustWei(t, "5"), nil).Times(1)
	d.ledger.EXPECT().Sign(gomock.Any(), gomock.Any(), gomock.Any()).Return([]byte{0x01}, nil).Times(1)
	d.ledger.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("0x01", nil).Times(1)

	_, err = d.svc.Pay(context.Background(), d.path, recipient, "1")
	require.NoError(t, err)

	_, err = d.svc.Pay(context.Background(), d.path, recipient, "1")
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PRE_002", appErr.Code)
}

func TestService_Pay_SerialisedPerWallet(t *testing.T) {
	d := setupService(t, &config.Config{PayCooldown: 5}, nil)
	_, err := d.svc.GenerateWallet(d.path, false)
	require.NoError(t, err)

	d.ledger.EXPECT().BalanceOf(gomock.Any(), gomock.Any()).Return(mustWei(t, "5"), nil).Times(1)
	d.ledger.EXPECT().Sign(gomock.Any(), gomock.Any(), gomock.Any()).Return([]byte{0x01}, nil).Times(1)
	d.ledger.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("0x01", nil).Times(1)

	const workers = 4
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = d.svc.Pay(context.Background(), d.path, recipient, "1")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, apperror.IsKind(err, apperror.KindPrecondition))
	}
	assert.Equal(t, 1, succeeded)
}

func hexKey(key *ecdsa.PrivateKey) string {
	return (&crypto.Keypair{Key: key}).SecretKeyHex()
}
