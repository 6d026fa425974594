// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/bitmark-inc/elysiumd/transactionrecord"
)

// Extracted - what a base chain extractor knows about one packet
type Extracted struct {
	Txid            chainhash.Hash           `json:"txid"`
	Block           int                      `json:"block"`
	Index           uint32                   `json:"index"`
	BlockTime       int64                    `json:"blockTime"`
	FeePaid         btcutil.Amount           `json:"feePaid"`
	PacketClass     PacketClass              `json:"packetClass"`
	Sender          string                   `json:"sender"`
	Receiver        string                   `json:"receiver"`
	ReferenceAmount *btcutil.Amount          `json:"referenceAmount"`
	Payload         transactionrecord.Packed `json:"payload"`
}

// ParseTransaction - build, identify and decode a record
//
// the record is returned even when decoding fails so the failure can
// be reported; it is always locked
func ParseTransaction(e *Extracted) (*Transaction, error) {
	t := New()
	err := t.SetIdentity(e.Txid, e.Block, e.Index, e.BlockTime)
	if nil != err {
		return nil, err
	}
	err = t.Set(e.Sender, e.Receiver, e.ReferenceAmount, e.Payload, e.PacketClass, e.FeePaid)
	if nil != err {
		return nil, err
	}
	return t, t.Interpret()
}
