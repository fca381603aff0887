package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/curatenet/datamarket/app"
	"github.com/curatenet/datamarket/crypto"
	"github.com/curatenet/datamarket/service"
	"github.com/curatenet/datamarket/state"
	"github.com/curatenet/datamarket/tx"
)

// Thin HTTP client shared by the transaction subcommands.

func postJSON(url string, path string, req any, res any) error {
	dat, err := json.Marshal(req)
	if err != nil {
		return err
	}
	resp, err := http.Post(url+path, "application/json", bytes.NewReader(dat))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %s", resp.Status, string(body))
	}
	if res == nil {
		return nil
	}
	return json.Unmarshal(body, res)
}

func queryHeader(url string) (*state.Header, error) {
	header := new(state.Header)
	if err := postJSON(url, "/getHeader", struct{}{}, header); err != nil {
		return nil, err
	}
	return header, nil
}

func queryAccount(url string, index uint64, address string) (*state.Account, error) {
	req := service.GetAccountReq{Index: index, Address: address}
	var res service.GetAccountResponse
	if err := postJSON(url, "/getAccount", req, &res); err != nil {
		return nil, err
	}
	return res.Account, nil
}

// signAndSend fills in the chain id, nonce and signature, then submits the
// transaction. A zero nonce is resolved from the sender's committed account.
func signAndSend(url string, skeyPath string, nonce uint64, btx *tx.Tx) error {
	header, err := queryHeader(url)
	if err != nil {
		return fmt.Errorf("get header err:%v", err)
	}
	pv := crypto.LoadFilePV(skeyPath)
	btx.Pubkey = pv.PublicKey()
	if nonce == 0 {
		act, err := queryAccount(url, 0, pv.Address())
		if err == nil && act != nil {
			nonce = act.Nonce
		}
	}
	btx.Nonce = nonce
	dat, err := btx.SigData([]byte(header.ChainId))
	if err != nil {
		return fmt.Errorf("tx sign data err:%v", err)
	}
	sig, err := pv.Sign(dat)
	if err != nil {
		return fmt.Errorf("sign tx err:%v", err)
	}
	btx.Sig = [][]byte{sig}
	dat, err = tx.MarshalTx(btx)
	if err != nil {
		return fmt.Errorf("encode tx err:%v", err)
	}
	var res app.ExecTxResult
	if err := postJSON(url, "/sendTx", json.RawMessage(dat), &res); err != nil {
		return fmt.Errorf("send tx err:%v", err)
	}
	out, _ := json.Marshal(res)
	fmt.Printf("%v\n", string(out))
	return nil
}
