package main

import (
	"fmt"

	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
	"github.com/spf13/cobra"
)

type proposeArguments struct {
	Url   string
	Nonce uint64
	Skey  string

	Dataset     uint64
	Locator     string
	Title       string
	Description string
	Type        string
}

var proposeArgs proposeArguments

var proposeCmd = &cobra.Command{
	Use:   "propose",
	Short: "Propose a contribution to a dataset",
	Long:  ``,
	Run:   proposeRun,
}

func init() {
	urlFlag(proposeCmd, &proposeArgs.Url)
	skeyFlag(proposeCmd, &proposeArgs.Skey)
	proposeCmd.Flags().Uint64VarP(&proposeArgs.Nonce, "nonce", "n", 0, "account nonce")
	proposeCmd.Flags().Uint64VarP(&proposeArgs.Dataset, "dataset", "", 0, "dataset id")
	proposeCmd.Flags().StringVarP(&proposeArgs.Locator, "locator", "l", "", "new content locator")
	proposeCmd.Flags().StringVarP(&proposeArgs.Title, "title", "t", "", "proposal title")
	proposeCmd.Flags().StringVarP(&proposeArgs.Description, "description", "", "", "proposal description")
	proposeCmd.Flags().StringVarP(&proposeArgs.Type, "type", "", "addition", "contribution type: cleaning, addition, annotation, validation, documentation")
}

func proposeRun(cmd *cobra.Command, args []string) {
	ct, err := types.ParseContributionType(proposeArgs.Type)
	if err != nil {
		fmt.Println(err)
		return
	}
	btx := &tx.Tx{
		Version: tx.TxVersion1,
		Type:    tx.TxTypePropose,
		Tx: &tx.ProposeContributionTx{
			Dataset:     proposeArgs.Dataset,
			Locator:     proposeArgs.Locator,
			Title:       proposeArgs.Title,
			Description: proposeArgs.Description,
			Type:        ct,
		},
	}
	if err := signAndSend(proposeArgs.Url, proposeArgs.Skey, proposeArgs.Nonce, btx); err != nil {
		fmt.Println(err)
	}
}

type voteArguments struct {
	Url      string
	Nonce    uint64
	Skey     string
	Proposal uint64
	Approve  bool
}

var voteArgs voteArguments

var voteCmd = &cobra.Command{
	Use:   "vote",
	Short: "Vote on an open contribution proposal",
	Long:  ``,
	Run:   voteRun,
}

func init() {
	urlFlag(voteCmd, &voteArgs.Url)
	skeyFlag(voteCmd, &voteArgs.Skey)
	voteCmd.Flags().Uint64VarP(&voteArgs.Nonce, "nonce", "n", 0, "account nonce")
	voteCmd.Flags().Uint64VarP(&voteArgs.Proposal, "proposal", "p", 0, "proposal id")
	voteCmd.Flags().BoolVarP(&voteArgs.Approve, "approve", "a", false, "approve the contribution")
}

func voteRun(cmd *cobra.Command, args []string) {
	btx := &tx.Tx{
		Version: tx.TxVersion1,
		Type:    tx.TxTypeVote,
		Tx:      &tx.VoteTx{Proposal: voteArgs.Proposal, Approve: voteArgs.Approve},
	}
	if err := signAndSend(voteArgs.Url, voteArgs.Skey, voteArgs.Nonce, btx); err != nil {
		fmt.Println(err)
	}
}

type resolveArguments struct {
	Url      string
	Nonce    uint64
	Skey     string
	Proposal uint64
}

var resolveArgs resolveArguments

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Settle a proposal whose voting window closed",
	Long:  ``,
	Run:   resolveRun,
}

func init() {
	urlFlag(resolveCmd, &resolveArgs.Url)
	skeyFlag(resolveCmd, &resolveArgs.Skey)
	resolveCmd.Flags().Uint64VarP(&resolveArgs.Nonce, "nonce", "n", 0, "account nonce")
	resolveCmd.Flags().Uint64VarP(&resolveArgs.Proposal, "proposal", "p", 0, "proposal id")
}

func resolveRun(cmd *cobra.Command, args []string) {
	btx := &tx.Tx{
		Version: tx.TxVersion1,
		Type:    tx.TxTypeResolve,
		Tx:      &tx.ResolveTx{Proposal: resolveArgs.Proposal},
	}
	if err := signAndSend(resolveArgs.Url, resolveArgs.Skey, resolveArgs.Nonce, btx); err != nil {
		fmt.Println(err)
	}
}
