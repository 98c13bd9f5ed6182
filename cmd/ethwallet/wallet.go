package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlexZinkM/eth-wallet/internal/config"
	"github.com/AlexZinkM/eth-wallet/internal/seed"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new wallet from a fresh seed phrase",
	Example: `  ethwallet generate
  ethwallet generate --overwrite -w my_wallet.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		overwrite, _ := cmd.Flags().GetBool("overwrite")

		rec, err := offlineService().GenerateWallet(cfg.WalletFilePath, overwrite)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Address:    %s\n", rec.PublicAddress)
		fmt.Fprintf(out, "Public key: %s\n", rec.PublicKey)
		fmt.Fprintf(out, "Saved to:   %s\n\n", cfg.WalletFilePath)
		fmt.Fprintln(out, "Seed phrase (write it down, it is the only way to recover the wallet):")
		fmt.Fprintln(out, seed.JoinPhrase(rec.SeedPhrase))
		return nil
	},
}

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Recover a wallet from its seed phrase",
	Example: `  ethwallet recover
  ethwallet recover --phrase "word1 word2 ... word24" --overwrite`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		overwrite, _ := cmd.Flags().GetBool("overwrite")
		phrase, _ := cmd.Flags().GetString("phrase")

		if phrase == "" {
			var err error
			phrase, err = config.PromptForPhrase(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
		}

		rec, err := offlineService().RecoverWallet(cfg.WalletFilePath, phrase, overwrite)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Address:    %s\n", rec.PublicAddress)
		fmt.Fprintf(out, "Public key: %s\n", rec.PublicKey)
		fmt.Fprintf(out, "Saved to:   %s\n", cfg.WalletFilePath)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the wallet address and public key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := offlineService().GetWallet(cfg.WalletFilePath)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Address:    %s\n", info.Address)
		fmt.Fprintf(out, "Public key: %s\n", info.PublicKey)
		return nil
	},
}

var qrCmd = &cobra.Command{
	Use:     "qr",
	Short:   "Write the wallet address as a PNG QR code",
	Example: `  ethwallet qr --out address.png`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, _ := cmd.Flags().GetString("out")
		if !strings.HasSuffix(strings.ToLower(outPath), ".png") {
			return fmt.Errorf("output file must have .png extension")
		}

		png, err := offlineService().AddressQR(cfg.WalletFilePath)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outPath, png, 0644); err != nil {
			return fmt.Errorf("failed to write QR code: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "QR code written to %s\n", outPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd, recoverCmd, showCmd, qrCmd)

	generateCmd.Flags().Bool("overwrite", false, "Replace an existing non-empty wallet file")
	recoverCmd.Flags().Bool("overwrite", false, "Replace an existing non-empty wallet file")
	recoverCmd.Flags().String("phrase", "", "Seed phrase (prompted without echo when omitted)")
	qrCmd.Flags().String("out", "wallet_qr.png", "Output PNG file")
}
