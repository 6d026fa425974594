// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/elysiumd/logic"
	"github.com/bitmark-inc/elysiumd/reorg"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/transaction"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
	"github.com/bitmark-inc/logger"
)

// longest feed line accepted
const maxLineSize = 1024 * 1024

// one line of the feed written by a base chain extractor
type feedItem struct {
	Txid            string                   `json:"txid"`
	Block           int                      `json:"block"`
	Index           uint32                   `json:"index"`
	BlockTime       int64                    `json:"blockTime"`
	FeePaid         int64                    `json:"feePaid"`
	PacketClass     transaction.PacketClass  `json:"packetClass"`
	Sender          string                   `json:"sender"`
	Receiver        string                   `json:"receiver"`
	ReferenceAmount *int64                   `json:"referenceAmount"`
	Payload         transactionrecord.Packed `json:"payload"`
}

func (f *feedItem) extracted() (*transaction.Extracted, error) {
	txid, err := chainhash.NewHashFromStr(f.Txid)
	if nil != err {
		return nil, err
	}
	e := &transaction.Extracted{
		Txid:        *txid,
		Block:       f.Block,
		Index:       f.Index,
		BlockTime:   f.BlockTime,
		FeePaid:     btcutil.Amount(f.FeePaid),
		PacketClass: f.PacketClass,
		Sender:      f.Sender,
		Receiver:    f.Receiver,
		Payload:     f.Payload,
	}
	if nil != f.ReferenceAmount {
		a := btcutil.Amount(*f.ReferenceAmount)
		e.ReferenceAmount = &a
	}
	return e, nil
}

// Summary - counts from one replay
type Summary struct {
	Executed   int            `json:"executed"`
	Skipped    int            `json:"skipped"`
	Undecoded  int            `json:"undecoded"`
	Blocks     int            `json:"blocks"`
	RolledBack int            `json:"rolledBack"`
	Results    map[string]int `json:"results"`
}

type replayer struct {
	log      *logger.L
	db       *storage.Database
	executor *logic.Executor

	block     int // -1 before the first item
	blockTime int64

	counts Summary
}

func newReplayer(log *logger.L, db *storage.Database, executor *logic.Executor) *replayer {
	return &replayer{
		log:      log,
		db:       db,
		executor: executor,
		block:    -1,
		counts: Summary{
			Results: make(map[string]int),
		},
	}
}

// run - execute every packet of a feed in order
//
// a block number lower than the current one is a reorganisation of
// the base chain: the ledger is rolled back to that block before
// continuing; packets already in the history are skipped so an
// interrupted feed can be replayed from the start
func (r *replayer) run(in io.Reader, stop <-chan struct{}) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	line := 0
	for scanner.Scan() {
		line += 1

		select {
		case <-stop:
			r.log.Warnf("stopped at line: %d", line)
			return nil
		default:
		}

		text := strings.TrimSpace(scanner.Text())
		if "" == text || strings.HasPrefix(text, "#") {
			continue
		}

		item := feedItem{}
		if err := json.Unmarshal([]byte(text), &item); nil != err {
			return fmt.Errorf("line: %d  error: %w", line, err)
		}
		if err := r.process(&item); nil != err {
			return fmt.Errorf("line: %d  error: %w", line, err)
		}
	}
	if err := scanner.Err(); nil != err {
		return err
	}

	if r.block >= 0 {
		return r.endBlock()
	}
	return nil
}

func (r *replayer) process(item *feedItem) error {
	e, err := item.extracted()
	if nil != err {
		return err
	}

	switch {
	case r.block < 0:
	case item.Block > r.block:
		if err := r.endBlock(); nil != err {
			return err
		}
	case item.Block < r.block:
		n, err := reorg.Rollback(r.log, r.db, item.Block)
		if nil != err {
			return err
		}
		r.counts.RolledBack += n
	}
	r.block = item.Block
	r.blockTime = item.BlockTime

	if nil != logic.History(r.db, e.Txid) {
		r.counts.Skipped += 1
		return nil
	}

	tx, err := transaction.ParseTransaction(e)
	if nil == tx {
		return err
	}
	if fault.IsDecodeError(err) {
		r.counts.Undecoded += 1
		r.log.Debugf("txid: %s  decode error: %s", e.Txid, err)
	} else if nil != err {
		r.log.Warnf("txid: %s  error: %s", e.Txid, err)
	}

	// feed packets come from confirmed blocks
	tx.Unlock()

	code := tx.InterpretPacket(r.executor)
	r.counts.Executed += 1
	r.counts.Results[logic.CategoryOf(code).String()] += 1
	if logic.ResultSuccess != code {
		r.log.Debugf("txid: %s  block: %d  result: %d", e.Txid, e.Block, code)
	}
	return nil
}

func (r *replayer) endBlock() error {
	r.counts.Blocks += 1
	return r.executor.ExpireBlock(r.block, r.blockTime)
}

func (r *replayer) summary() *Summary {
	s := r.counts
	return &s
}

// replayProcess - a replay run as a background process
type replayProcess struct {
	r   *replayer
	in  io.Reader
	err error
}

func (p *replayProcess) Run(args interface{}, shutdown <-chan struct{}) {
	p.err = p.r.run(p.in, shutdown)
}

func sortBalances(b []balance) {
	sort.Slice(b, func(i, j int) bool {
		return b[i].Property < b[j].Property
	})
}
