package main

import (
	"encoding/hex"
	"fmt"

	"github.com/curatenet/datamarket/crypto"
	"github.com/spf13/cobra"
)

type accountArguments struct {
	Url     string
	Address string
	Index   uint64
}

var accountArgs accountArguments

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Query an account by index or address",
	Long:  ``,
	Run:   accountRun,
}

func init() {
	urlFlag(accountCmd, &accountArgs.Url)
	accountCmd.Flags().StringVarP(&accountArgs.Address, "address", "a", "", "account address")
	accountCmd.Flags().Uint64VarP(&accountArgs.Index, "index", "i", 0, "account index")
	skeyFlag(showCmd, &showArgs.Skey)
	accountCmd.AddCommand(showCmd)
}

func accountRun(cmd *cobra.Command, args []string) {
	act, err := queryAccount(accountArgs.Url, accountArgs.Index, accountArgs.Address)
	if err != nil {
		fmt.Printf("query account err:%v\n", err)
		return
	}
	fmt.Printf("index:%v addr:%v nonce:%v balance:%v stake:%v withdrawable:%v openVotes:%v\n",
		act.Index, act.Address(), act.Nonce, act.Balance, act.Stake, act.Withdrawable, act.OpenVotes)
}

type showArguments struct {
	Skey string
}

var showArgs showArguments

var showCmd = &cobra.Command{
	Use:   "pk",
	Short: "Show the local signing key",
	Long:  ``,
	Run:   showRun,
}

func showRun(cmd *cobra.Command, args []string) {
	pv := crypto.LoadFilePV(showArgs.Skey)
	fmt.Printf("pk:%s\n", hex.EncodeToString(pv.PublicKey()))
	fmt.Printf("address:%s\n", pv.Address())
}
