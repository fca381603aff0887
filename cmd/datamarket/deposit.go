package main

import (
	"fmt"

	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
	"github.com/spf13/cobra"
)

type depositArguments struct {
	Url    string
	Nonce  uint64
	Skey   string
	Amount string
}

var depositArgs depositArguments

var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "Credit the sender's spendable balance",
	Long:  ``,
	Run:   depositRun,
}

func init() {
	urlFlag(depositCmd, &depositArgs.Url)
	skeyFlag(depositCmd, &depositArgs.Skey)
	depositCmd.Flags().Uint64VarP(&depositArgs.Nonce, "nonce", "n", 0, "account nonce")
	depositCmd.Flags().StringVarP(&depositArgs.Amount, "amount", "a", "0", "amount in base units")
}

func depositRun(cmd *cobra.Command, args []string) {
	amount, ok := types.ParseAmount(depositArgs.Amount)
	if !ok {
		fmt.Printf("invalid amount:%v\n", depositArgs.Amount)
		return
	}
	btx := &tx.Tx{
		Version: tx.TxVersion1,
		Type:    tx.TxTypeDeposit,
		Tx:      &tx.DepositTx{Amount: amount},
	}
	if err := signAndSend(depositArgs.Url, depositArgs.Skey, depositArgs.Nonce, btx); err != nil {
		fmt.Println(err)
	}
}

type claimArguments struct {
	Url   string
	Nonce uint64
	Skey  string
}

var claimArgs claimArguments

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Move withdrawable earnings to spendable balance",
	Long:  ``,
	Run:   claimRun,
}

func init() {
	urlFlag(claimCmd, &claimArgs.Url)
	skeyFlag(claimCmd, &claimArgs.Skey)
	claimCmd.Flags().Uint64VarP(&claimArgs.Nonce, "nonce", "n", 0, "account nonce")
}

func claimRun(cmd *cobra.Command, args []string) {
	btx := &tx.Tx{
		Version: tx.TxVersion1,
		Type:    tx.TxTypeClaim,
		Tx:      &tx.ClaimTx{},
	}
	if err := signAndSend(claimArgs.Url, claimArgs.Skey, claimArgs.Nonce, btx); err != nil {
		fmt.Println(err)
	}
}
