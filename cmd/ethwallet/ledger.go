package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Query the wallet balance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		svc, closeFn, err := connectedService(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		balance, err := svc.GetBalance(ctx, cfg.WalletFilePath)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Address: %s\n", balance.Address)
		fmt.Fprintf(out, "Balance: %s ETH (%s wei)\n", balance.ETH, balance.Wei)
		if balance.Value != "" {
			fmt.Fprintf(out, "Value:   %s %s (rate %s)\n", balance.Value, balance.Currency, balance.Rate)
		}
		return nil
	},
}

var sendCmd = &cobra.Command{
	Use:     "send",
	Short:   "Send ETH to an address",
	Example: `  ethwallet send --to 0x7e5f4552091a69125d5dfcb7b8c2659029395bdf --amount 0.01`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		to, _ := cmd.Flags().GetString("to")
		amount, _ := cmd.Flags().GetString("amount")

		ctx, cancel := commandContext(cmd)
		defer cancel()

		svc, closeFn, err := connectedService(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		payResp, err := svc.Pay(ctx, cfg.WalletFilePath, to, amount)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Sent %s ETH to %s\nTransaction: %s\n", payResp.Amount, payResp.To, payResp.TxID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd, sendCmd)

	sendCmd.Flags().String("to", "", "Recipient address (0x...)")
	sendCmd.Flags().String("amount", "", "Amount in ETH, up to 18 decimals")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")
}
