// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/elysiumd/chain"
	"github.com/bitmark-inc/elysiumd/checkpoint"
	"github.com/bitmark-inc/elysiumd/logic"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/tally"
	"github.com/bitmark-inc/elysiumd/transaction"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
	"github.com/bitmark-inc/logger"
)

type previewInput struct {
	sender    string
	receiver  string
	reference *btcutil.Amount
	fee       btcutil.Amount
	block     int
	blockTime int64
	payload   []byte
}

type previewResult struct {
	Transaction *transaction.Transaction                                 `json:"transaction"`
	Result      int                                                      `json:"result"`
	Category    string                                                   `json:"category"`
	Balances    map[string]map[transactionrecord.PropertyId]tally.Tally `json:"balances"`
	Hash        checkpoint.Digest                                        `json:"hash"`
}

// execute one packet on a view of the ledger
func preview(log *logger.L, db *storage.Database, params *chain.Params, in *previewInput) (*previewResult, error) {
	view, err := db.NewView()
	if nil != err {
		return nil, err
	}
	defer view.Release()

	tx := transaction.New()
	err = tx.SetIdentity(chainhash.DoubleHashH(in.payload), in.block, 0, in.blockTime)
	if nil != err {
		return nil, err
	}
	err = tx.Set(in.sender, in.receiver, in.reference, in.payload, transaction.ClassC, in.fee)
	if nil != err {
		return nil, err
	}
	if err := tx.Interpret(); nil != err {
		log.Warnf("decode error: %s", err)
	}

	// changes stay in the view
	tx.Unlock()

	executor := logic.New(log, view, params, nil, nil)
	code := executor.Execute(tx)

	result := &previewResult{
		Transaction: tx,
		Result:      code,
		Category:    logic.CategoryOf(code).String(),
		Balances:    make(map[string]map[transactionrecord.PropertyId]tally.Tally),
		Hash:        checkpoint.Hash(view),
	}
	for _, a := range []string{in.sender, in.receiver} {
		if "" != a {
			result.Balances[a] = tally.Balances(view, a)
		}
	}
	return result, nil
}

func runPreview(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	database := c.String("database")
	if "" == database {
		return fmt.Errorf("database directory is required")
	}
	sender := c.String("sender")
	if !m.params.ValidAddress(sender) {
		return fmt.Errorf("sender: %q is not valid", sender)
	}
	receiver := c.String("receiver")
	if "" != receiver && !m.params.ValidAddress(receiver) {
		return fmt.Errorf("receiver: %q is not valid", receiver)
	}
	block := c.Int("block")
	if block <= 0 {
		return fmt.Errorf("block number is required")
	}
	payload, err := hex.DecodeString(c.String("payload"))
	if nil != err {
		return err
	}

	in := &previewInput{
		sender:    sender,
		receiver:  receiver,
		fee:       btcutil.Amount(c.Int64("fee")),
		block:     block,
		blockTime: c.Int64("time"),
		payload:   payload,
	}
	if r := c.Int64("reference"); r >= 0 {
		a := btcutil.Amount(r)
		in.reference = &a
	}

	dir, err := os.MkdirTemp("", "elysium-cli-")
	if nil != err {
		return err
	}
	defer os.RemoveAll(dir)

	level := "critical"
	if m.verbose {
		level = "debug"
	}
	err = logger.Initialise(logger.Configuration{
		Directory: dir,
		File:      "elysium-cli.log",
		Size:      1048576,
		Count:     1,
		Console:   m.verbose,
		Levels: map[string]string{
			logger.DefaultTag: level,
		},
	})
	if nil != err {
		return err
	}
	defer logger.Finalise()

	db, err := storage.Open(database, storage.ReadOnly)
	if nil != err {
		return err
	}
	defer db.Close()

	result, err := preview(logger.New("preview"), db, m.params, in)
	if nil != err {
		return err
	}
	return printJson(m.w, result)
}
