package main

import (
	"fmt"
	"os"
)

func main() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(depositCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(proposeCmd)
	rootCmd.AddCommand(voteCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(stakeCmd)
	rootCmd.AddCommand(unstakeCmd)
	rootCmd.AddCommand(purchaseCmd)
	rootCmd.AddCommand(claimCmd)
	rootCmd.AddCommand(favoriteCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
