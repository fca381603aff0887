package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"time"
)

const (
	FlagHome      = "home"
	FlagChainID   = "chain-id"
	FlagOverwrite = "overwrite"
)

const ModuleName = "datamarket"

// GenesisAccount seeds a ledger account before the first transaction. This
// replaces external token funding; stake above the verifier minimum makes
// the account a verifier from height zero.
type GenesisAccount struct {
	PubKey  HexBytes `json:"pub_key"`
	Name    string   `json:"name"`
	Balance *big.Int `json:"balance"`
	Stake   *big.Int `json:"stake"`
}

type GenesisDoc struct {
	GenesisTime time.Time        `json:"genesis_time"`
	ChainID     string           `json:"chain_id"`
	Accounts    []GenesisAccount `json:"accounts"`
}

func (genDoc *GenesisDoc) ValidateAndComplete() error {
	if genDoc.ChainID == "" {
		return errors.New("genesis doc must include non-empty chain_id")
	}
	if genDoc.GenesisTime.IsZero() {
		genDoc.GenesisTime = time.Now().Round(0).UTC()
	}
	for i, a := range genDoc.Accounts {
		if len(a.PubKey) == 0 {
			return fmt.Errorf("genesis account %d has no pubkey", i)
		}
		if a.Balance != nil && a.Balance.Sign() < 0 {
			return fmt.Errorf("genesis account %d has negative balance", i)
		}
		if a.Stake != nil && a.Stake.Sign() < 0 {
			return fmt.Errorf("genesis account %d has negative stake", i)
		}
	}
	return nil
}

// SaveAs is a utility method for saving GenesisDoc as a JSON file.
func (genDoc *GenesisDoc) SaveAs(file string) error {
	genDocBytes, err := json.MarshalIndent(genDoc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, genDocBytes, 0o600)
}

func ExportGenesisFile(genesis *GenesisDoc, genFile string) error {
	if err := genesis.ValidateAndComplete(); err != nil {
		return err
	}
	return genesis.SaveAs(genFile)
}

func LoadGenesisDoc(file string) (*GenesisDoc, error) {
	dat, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	genDoc := new(GenesisDoc)
	if err := json.Unmarshal(dat, genDoc); err != nil {
		return nil, err
	}
	if err := genDoc.ValidateAndComplete(); err != nil {
		return nil, err
	}
	return genDoc, nil
}
