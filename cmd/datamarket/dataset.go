package main

import (
	"fmt"

	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
	"github.com/spf13/cobra"
)

type uploadArguments struct {
	Url   string
	Nonce uint64
	Skey  string

	Locator            string
	Title              string
	Description        string
	MimeType           string
	Size               uint64
	Category           string
	Price              string
	ContributionReward string
	VerificationReward string
	RewardPool         string
}

var uploadArgs uploadArguments

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Register a dataset and fund its reward pool",
	Long:  ``,
	Run:   uploadRun,
}

func init() {
	urlFlag(uploadCmd, &uploadArgs.Url)
	skeyFlag(uploadCmd, &uploadArgs.Skey)
	uploadCmd.Flags().Uint64VarP(&uploadArgs.Nonce, "nonce", "n", 0, "account nonce")
	uploadCmd.Flags().StringVarP(&uploadArgs.Locator, "locator", "l", "", "content locator")
	uploadCmd.Flags().StringVarP(&uploadArgs.Title, "title", "t", "", "dataset title")
	uploadCmd.Flags().StringVarP(&uploadArgs.Description, "description", "", "", "dataset description")
	uploadCmd.Flags().StringVarP(&uploadArgs.MimeType, "mime", "", "", "mime type")
	uploadCmd.Flags().Uint64VarP(&uploadArgs.Size, "size", "", 0, "content size in bytes")
	uploadCmd.Flags().StringVarP(&uploadArgs.Category, "category", "c", "", "category")
	uploadCmd.Flags().StringVarP(&uploadArgs.Price, "price", "p", "0", "price in base units")
	uploadCmd.Flags().StringVarP(&uploadArgs.ContributionReward, "contributionReward", "", "0", "reward per approved contribution")
	uploadCmd.Flags().StringVarP(&uploadArgs.VerificationReward, "verificationReward", "", "0", "reward per correct vote")
	uploadCmd.Flags().StringVarP(&uploadArgs.RewardPool, "rewardPool", "", "0", "reward pool funded up front")
}

func uploadRun(cmd *cobra.Command, args []string) {
	price, ok := types.ParseAmount(uploadArgs.Price)
	if !ok {
		fmt.Printf("invalid price:%v\n", uploadArgs.Price)
		return
	}
	contribution, ok := types.ParseAmount(uploadArgs.ContributionReward)
	if !ok {
		fmt.Printf("invalid contribution reward:%v\n", uploadArgs.ContributionReward)
		return
	}
	verification, ok := types.ParseAmount(uploadArgs.VerificationReward)
	if !ok {
		fmt.Printf("invalid verification reward:%v\n", uploadArgs.VerificationReward)
		return
	}
	pool, ok := types.ParseAmount(uploadArgs.RewardPool)
	if !ok {
		fmt.Printf("invalid reward pool:%v\n", uploadArgs.RewardPool)
		return
	}
	btx := &tx.Tx{
		Version: tx.TxVersion1,
		Type:    tx.TxTypeUpload,
		Tx: &tx.UploadDatasetTx{
			Locator:            uploadArgs.Locator,
			Title:              uploadArgs.Title,
			Description:        uploadArgs.Description,
			MimeType:           uploadArgs.MimeType,
			Size:               uploadArgs.Size,
			Category:           uploadArgs.Category,
			Price:              price,
			ContributionReward: contribution,
			VerificationReward: verification,
			RewardPool:         pool,
		},
	}
	if err := signAndSend(uploadArgs.Url, uploadArgs.Skey, uploadArgs.Nonce, btx); err != nil {
		fmt.Println(err)
	}
}

type purchaseArguments struct {
	Url     string
	Nonce   uint64
	Skey    string
	Dataset uint64
}

var purchaseArgs purchaseArguments

var purchaseCmd = &cobra.Command{
	Use:   "purchase",
	Short: "Buy dataset access at the listed price",
	Long:  ``,
	Run:   purchaseRun,
}

func init() {
	urlFlag(purchaseCmd, &purchaseArgs.Url)
	skeyFlag(purchaseCmd, &purchaseArgs.Skey)
	purchaseCmd.Flags().Uint64VarP(&purchaseArgs.Nonce, "nonce", "n", 0, "account nonce")
	purchaseCmd.Flags().Uint64VarP(&purchaseArgs.Dataset, "dataset", "", 0, "dataset id")
}

func purchaseRun(cmd *cobra.Command, args []string) {
	btx := &tx.Tx{
		Version: tx.TxVersion1,
		Type:    tx.TxTypePurchase,
		Tx:      &tx.PurchaseTx{Dataset: purchaseArgs.Dataset},
	}
	if err := signAndSend(purchaseArgs.Url, purchaseArgs.Skey, purchaseArgs.Nonce, btx); err != nil {
		fmt.Println(err)
	}
}

type favoriteArguments struct {
	Url     string
	Nonce   uint64
	Skey    string
	Dataset uint64
}

var favoriteArgs favoriteArguments

var favoriteCmd = &cobra.Command{
	Use:   "favourite",
	Short: "Toggle a dataset bookmark",
	Long:  ``,
	Run:   favoriteRun,
}

func init() {
	urlFlag(favoriteCmd, &favoriteArgs.Url)
	skeyFlag(favoriteCmd, &favoriteArgs.Skey)
	favoriteCmd.Flags().Uint64VarP(&favoriteArgs.Nonce, "nonce", "n", 0, "account nonce")
	favoriteCmd.Flags().Uint64VarP(&favoriteArgs.Dataset, "dataset", "", 0, "dataset id")
}

func favoriteRun(cmd *cobra.Command, args []string) {
	btx := &tx.Tx{
		Version: tx.TxVersion1,
		Type:    tx.TxTypeFavorite,
		Tx:      &tx.FavoriteTx{Dataset: favoriteArgs.Dataset},
	}
	if err := signAndSend(favoriteArgs.Url, favoriteArgs.Skey, favoriteArgs.Nonce, btx); err != nil {
		fmt.Println(err)
	}
}
