package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	app_config "github.com/curatenet/datamarket/config"
	"github.com/curatenet/datamarket/crypto"
	"github.com/curatenet/datamarket/types"
	"github.com/spf13/cobra"
)

type printInfo struct {
	ChainID string          `json:"chain_id" yaml:"chain_id"`
	Address string          `json:"address" yaml:"address"`
	Genesis json.RawMessage `json:"genesis" yaml:"genesis"`
}

func displayInfo(info printInfo) error {
	out, err := json.MarshalIndent(info, "", " ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(os.Stderr, "%s\n", out)

	return err
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize key, genesis and application configuration files",
	Long:  `Initialize the home directory: signing key, genesis document and config.toml.`,
	Args:  cobra.ExactArgs(0),
	RunE:  initRun,
}

func init() {
	initCmd.Flags().BoolP(types.FlagOverwrite, "o", false, "overwrite the genesis.json file")
	initCmd.Flags().String(types.FlagChainID, "", "genesis file chain-id, if left blank will be randomly created")
	initCmd.Flags().String(types.FlagHome, "", "home directory")
}

func initRun(cmd *cobra.Command, args []string) error {
	home, _ := cmd.Flags().GetString(types.FlagHome)
	chainID, _ := cmd.Flags().GetString(types.FlagChainID)
	overwrite, _ := cmd.Flags().GetBool(types.FlagOverwrite)

	if chainID == "" {
		chainID = fmt.Sprintf("datamarket-%v", rand.Uint64())
	}

	cfg := app_config.DefaultConfig(home)
	cfg.ChainID = chainID
	if err := cfg.EnsureDirs(); err != nil {
		return err
	}

	pv, err := crypto.GenFilePV(cfg.KeyFile())
	if err != nil {
		return err
	}

	genFile := cfg.GenesisFile()
	if _, err := os.Stat(genFile); err == nil && !overwrite {
		return fmt.Errorf("genesis file already exists: %v", genFile)
	}
	genesis := &types.GenesisDoc{
		GenesisTime: time.Now(),
		ChainID:     chainID,
		Accounts: []types.GenesisAccount{
			{
				PubKey:  pv.PublicKey(),
				Name:    "genesis",
				Balance: types.Tokens(1_000_000),
				Stake:   types.MinimumStake(),
			},
		},
	}
	if err = types.ExportGenesisFile(genesis, genFile); err != nil {
		return fmt.Errorf("failed to export genesis file %v", err)
	}
	app_config.WriteConfigFile(cfg.ConfigFile(), cfg)

	genDat, _ := json.Marshal(genesis)
	return displayInfo(printInfo{ChainID: chainID, Address: pv.Address(), Genesis: genDat})
}
