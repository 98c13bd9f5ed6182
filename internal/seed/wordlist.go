package seed

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/AlexZinkM/eth-wallet/internal/apperror"

	"github.com/tyler-smith/go-bip39/wordlists"
)

// PhraseLength is the number of words in a freshly generated phrase.
const PhraseLength = 24

// ReadWordList reads one candidate word per line. Blank lines are skipped.
func ReadWordList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperror.ErrFileNotFound(path)
		}
		return nil, apperror.ErrFileAccess("failed to open word list", err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, apperror.ErrFileAccess("failed to read word list", err)
	}
	return words, nil
}

// DefaultWordList returns a copy of the built-in English list.
func DefaultWordList() []string {
	return append([]string(nil), wordlists.English...)
}

// Sample draws n distinct words without replacement in random order.
// A nil rng uses the process-wide generator.
func Sample(words []string, n int, rng *rand.Rand) ([]string, error) {
	unique := dedupe(words)
	if len(unique) < n {
		return nil, apperror.ErrWordListTooSmall(len(unique), n)
	}

	perm := permutation(len(unique), rng)
	out := make([]string, n)
	for i := range out {
		out[i] = unique[perm[i]]
	}
	return out, nil
}

// NewPhrase samples a PhraseLength phrase from the list at path,
// or from the built-in list when path is empty.
func NewPhrase(path string, rng *rand.Rand) ([]string, error) {
	words := DefaultWordList()
	if path != "" {
		var err error
		words, err = ReadWordList(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load word list: %w", err)
		}
	}
	return Sample(words, PhraseLength, rng)
}

func dedupe(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

func permutation(n int, rng *rand.Rand) []int {
	if rng == nil {
		return rand.Perm(n)
	}
	return rng.Perm(n)
}
