// One-off: load a wallet file and check that public key and address follow from the secret key.
// Usage: go run ./cmd/verify_wallet [wallet.json]
package main

import (
	"fmt"
	"os"

	"github.com/AlexZinkM/eth-wallet/internal/crypto"
)

func main() {
	filePath := "crypto_wallet.json"
	if len(os.Args) > 1 {
		filePath = os.Args[1]
	} else if env := os.Getenv("WALLET_FILE_PATH"); env != "" {
		filePath = env
	}

	if err := verify(filePath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func verify(filePath string) error {
	rec, err := crypto.LoadWallet(filePath)
	if err != nil {
		return err
	}

	if err := crypto.VerifyWalletRecord(rec); err != nil {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	fmt.Printf("%s: ok (%s, %d-word phrase)\n", filePath, rec.PublicAddress, len(rec.SeedPhrase))
	return nil
}
