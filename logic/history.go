// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package logic

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/transaction"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
	"github.com/bitmark-inc/elysiumd/util"
)

// Executed - the history record of an executed transaction
//
// rejections are kept too, with their result code, so a transaction
// is never executed twice against a later ledger state
type Executed struct {
	Txid   chainhash.Hash                    `json:"txid"`
	Block  int                               `json:"block"`
	Index  uint32                            `json:"index"`
	Type   transactionrecord.TransactionType `json:"type"`
	Name   string                            `json:"name"`
	Result int                               `json:"result"`
	Valid  bool                              `json:"valid"`
}

func executedAt(tx *transaction.Transaction, code int) *Executed {
	return &Executed{
		Txid:   tx.Txid(),
		Block:  tx.Block(),
		Index:  tx.Index(),
		Type:   tx.Payload().Head().Type,
		Result: code,
	}
}

func putHistory(h storage.Handle, e *Executed) {
	r := util.Record{}.
		AppendInt64(int64(e.Block)).
		AppendUint32(e.Index).
		AppendUint16(uint16(e.Type)).
		AppendInt64(int64(e.Result))
	h.Put(storage.Pool.History, e.Txid[:], r)
}

// History - look up an executed transaction, nil if it never reached
// the ledger
func History(r storage.Reader, txid chainhash.Hash) *Executed {
	buffer := r.Get(storage.Pool.History, txid[:])
	if nil == buffer {
		return nil
	}
	rr := util.NewRecordReader(buffer)
	e := &Executed{
		Txid:   txid,
		Block:  int(rr.Int64()),
		Index:  rr.Uint32(),
		Type:   transactionrecord.TransactionType(rr.Uint16()),
		Result: int(rr.Int64()),
	}
	if nil != rr.Err() {
		return nil
	}
	e.Name = e.Type.String()
	e.Valid = ResultSuccess == e.Result
	return e
}
