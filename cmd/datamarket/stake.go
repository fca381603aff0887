package main

import (
	"fmt"

	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
	"github.com/spf13/cobra"
)

type stakeArguments struct {
	Url    string
	Nonce  uint64
	Skey   string
	Amount string
}

var stakeArgs stakeArguments

var stakeCmd = &cobra.Command{
	Use:   "stake",
	Short: "Lock tokens toward the verifier minimum",
	Long:  ``,
	Run:   stakeRun,
}

func init() {
	urlFlag(stakeCmd, &stakeArgs.Url)
	skeyFlag(stakeCmd, &stakeArgs.Skey)
	stakeCmd.Flags().Uint64VarP(&stakeArgs.Nonce, "nonce", "n", 0, "account nonce")
	stakeCmd.Flags().StringVarP(&stakeArgs.Amount, "amount", "a", "0", "amount in base units")
}

func stakeRun(cmd *cobra.Command, args []string) {
	amount, ok := types.ParseAmount(stakeArgs.Amount)
	if !ok {
		fmt.Printf("invalid amount:%v\n", stakeArgs.Amount)
		return
	}
	btx := &tx.Tx{
		Version: tx.TxVersion1,
		Type:    tx.TxTypeStake,
		Tx:      &tx.StakeTx{Amount: amount},
	}
	if err := signAndSend(stakeArgs.Url, stakeArgs.Skey, stakeArgs.Nonce, btx); err != nil {
		fmt.Println(err)
	}
}

type unstakeArguments struct {
	Url   string
	Nonce uint64
	Skey  string
}

var unstakeArgs unstakeArguments

var unstakeCmd = &cobra.Command{
	Use:   "unstake",
	Short: "Return the entire stake to spendable balance",
	Long:  ``,
	Run:   unstakeRun,
}

func init() {
	urlFlag(unstakeCmd, &unstakeArgs.Url)
	skeyFlag(unstakeCmd, &unstakeArgs.Skey)
	unstakeCmd.Flags().Uint64VarP(&unstakeArgs.Nonce, "nonce", "n", 0, "account nonce")
}

func unstakeRun(cmd *cobra.Command, args []string) {
	btx := &tx.Tx{
		Version: tx.TxVersion1,
		Type:    tx.TxTypeUnstake,
		Tx:      &tx.UnstakeTx{},
	}
	if err := signAndSend(unstakeArgs.Url, unstakeArgs.Skey, unstakeArgs.Nonce, btx); err != nil {
		fmt.Println(err)
	}
}
