package ethereum

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/AlexZinkM/eth-wallet/internal/client"
	"github.com/AlexZinkM/eth-wallet/internal/config"

	"github.com/rs/zerolog"
)

// RateSource returns the ETH price in a fiat currency.
type RateSource interface {
	GetETHRate(ctx context.Context, currency string) (string, error)
}

// Service runs wallet operations against one ledger.
type Service struct {
	ledger       client.Ledger
	rates        RateSource
	currency     string
	wordListPath string
	cooldown     time.Duration
	rng          *rand.Rand
	log          zerolog.Logger

	mu    sync.Mutex
	locks map[string]*walletLock
}

// walletLock serialises mutating operations on one wallet file.
type walletLock struct {
	mu          sync.Mutex
	lastPayTime time.Time
}

// NewService creates a Service. ledger may be nil for hosts that only
// generate or recover wallets; rates may be nil to skip fiat valuation.
func NewService(cfg *config.Config, ledger client.Ledger, rates RateSource, log zerolog.Logger) *Service {
	return &Service{
		ledger:       ledger,
		rates:        rates,
		currency:     cfg.PriceCurrency,
		wordListPath: cfg.WordListPath,
		cooldown:     cfg.PayCooldownDuration(),
		log:          log,
		locks:        make(map[string]*walletLock),
	}
}

// WithRand makes phrase sampling use rng. Intended for tests.
func (s *Service) WithRand(rng *rand.Rand) *Service {
	s.rng = rng
	return s
}

func (s *Service) lockFor(filePath string) *walletLock {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[filePath]
	if !ok {
		l = &walletLock{}
		s.locks[filePath] = l
	}
	return l
}
