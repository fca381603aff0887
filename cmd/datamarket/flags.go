package main

import "github.com/spf13/cobra"

func urlFlag(cmd *cobra.Command, url *string) {
	cmd.Flags().StringVarP(url, "url", "u", "http://127.0.0.1:8547", "datamarket service url")
}

func skeyFlag(cmd *cobra.Command, skey *string) {
	cmd.Flags().StringVarP(skey, "skeyPath", "s", "./config/key.json", "private key path")
}
