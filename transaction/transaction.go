// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"encoding/json"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
)

// PacketClass - the encoding family that carried the payload
type PacketClass uint8

// possible packet classes
const (
	ClassA = PacketClass(1)
	ClassB = PacketClass(2)
	ClassC = PacketClass(3)
)

// String - name of the packet class
func (c PacketClass) String() string {
	switch c {
	case ClassA:
		return "A"
	case ClassB:
		return "B"
	case ClassC:
		return "C"
	default:
		return "?"
	}
}

//go:generate mockgen -destination=mocks/executor.go -package=mocks github.com/bitmark-inc/elysiumd/transaction Executor

// Executor - applies a decoded record to the ledger
type Executor interface {
	Execute(tx *Transaction) int
}

// Transaction - one protocol packet and its base chain context
type Transaction struct {
	// identity
	txid       chainhash.Hash
	block      int
	index      uint32
	blockTime  int64
	feePaid    btcutil.Amount
	identified bool

	// extractor metadata
	packetClass     *PacketClass
	sender          string
	receiver        string
	referenceAmount *btcutil.Amount
	raw             transactionrecord.Packed
	set             bool

	// decode outcome
	interpreted bool
	payload     transactionrecord.Payload
	decodeError error

	rpcOnly  bool
	executed bool
}

// New - a record in the null state
func New() *Transaction {
	return &Transaction{
		block:   -1,
		rpcOnly: true,
	}
}

// SetIdentity - fix the base chain identity of the record
//
// may only be called once
func (t *Transaction) SetIdentity(txid chainhash.Hash, block int, index uint32, blockTime int64) error {
	if t.identified {
		return fault.ErrIdentityAlreadySet
	}
	t.txid = txid
	t.block = block
	t.index = index
	t.blockTime = blockTime
	t.identified = true
	return nil
}

// Set - attach the metadata and raw payload supplied by the extractor
func (t *Transaction) Set(sender string, receiver string, referenceAmount *btcutil.Amount, payload []byte, packetClass PacketClass, feePaid btcutil.Amount) error {
	if t.interpreted {
		return fault.ErrAlreadyInterpreted
	}
	if len(sender) > storage.MaxAddressLength || len(receiver) > storage.MaxAddressLength {
		return fault.ErrAddressTooLong
	}
	t.sender = sender
	t.receiver = receiver
	if nil != referenceAmount {
		amount := *referenceAmount
		t.referenceAmount = &amount
	} else {
		t.referenceAmount = nil
	}
	t.raw = make(transactionrecord.Packed, len(payload))
	copy(t.raw, payload)
	class := packetClass
	t.packetClass = &class
	t.feePaid = feePaid
	t.set = true
	return nil
}

// Interpret - decode the raw payload
//
// runs the decoder once; later calls return the same outcome
func (t *Transaction) Interpret() error {
	if t.interpreted {
		return t.decodeError
	}
	if !t.identified {
		return fault.ErrIdentityNotSet
	}
	if !t.set || 0 == len(t.raw) {
		return fault.ErrPayloadMissing
	}

	t.interpreted = true
	payload, _, err := t.raw.Unpack()
	if nil != err {
		t.decodeError = err
		return err
	}
	t.payload = payload
	return nil
}

// Unlock - allow the record to change ledger state
func (t *Transaction) Unlock() {
	t.rpcOnly = false
}

// InterpretPacket - decode if necessary then execute
//
// a record that failed to decode is still passed to the executor,
// which rejects it without touching the ledger
func (t *Transaction) InterpretPacket(e Executor) int {
	if !t.interpreted {
		_ = t.Interpret()
	}
	return e.Execute(t)
}

// Claim - mark the record as executed
//
// called by the executor, fails if the record was already executed
func (t *Transaction) Claim() error {
	if t.executed {
		return fault.ErrAlreadyExecuted
	}
	t.executed = true
	return nil
}

// Txid - base chain transaction hash
func (t *Transaction) Txid() chainhash.Hash {
	return t.txid
}

// Block - block height, -1 until identity is set
func (t *Transaction) Block() int {
	return t.block
}

// Index - position within the block
func (t *Transaction) Index() uint32 {
	return t.index
}

// BlockTime - timestamp of the block
func (t *Transaction) BlockTime() int64 {
	return t.blockTime
}

// FeePaid - base chain fee of the transaction
func (t *Transaction) FeePaid() btcutil.Amount {
	return t.feePaid
}

// PacketClass - encoding family, nil until set
func (t *Transaction) PacketClass() *PacketClass {
	return t.packetClass
}

// Sender - address that sent the packet
func (t *Transaction) Sender() string {
	return t.sender
}

// Receiver - reference address, empty if none
func (t *Transaction) Receiver() string {
	return t.receiver
}

// ReferenceAmount - base currency paid to the receiver, nil if none
func (t *Transaction) ReferenceAmount() *btcutil.Amount {
	return t.referenceAmount
}

// Raw - the undecoded payload bytes
func (t *Transaction) Raw() transactionrecord.Packed {
	return t.raw
}

// Payload - the decoded payload, nil unless Interpret succeeded
func (t *Transaction) Payload() transactionrecord.Payload {
	return t.payload
}

// Header - version and type of the raw payload
func (t *Transaction) Header() (transactionrecord.Header, bool) {
	if nil != t.payload {
		return t.payload.Head(), true
	}
	return t.raw.Head()
}

// Decoded - true if the payload decoded without error
func (t *Transaction) Decoded() bool {
	return t.interpreted && nil == t.decodeError && nil != t.payload
}

// DecodeError - reason the payload failed to decode
func (t *Transaction) DecodeError() error {
	return t.decodeError
}

// IsRpcOnly - true while the record may not change ledger state
func (t *Transaction) IsRpcOnly() bool {
	return t.rpcOnly
}

// Executed - true once the executor has claimed the record
func (t *Transaction) Executed() bool {
	return t.executed
}

// Position - block and index of the record
func (t *Transaction) Position() Position {
	return Position{Block: t.block, Index: t.index}
}

// Info - JSON form of a record
type Info struct {
	Txid            chainhash.Hash            `json:"txid"`
	Block           int                       `json:"block"`
	Index           uint32                    `json:"index"`
	BlockTime       int64                     `json:"blockTime"`
	FeePaid         btcutil.Amount            `json:"feePaid"`
	PacketClass     string                    `json:"packetClass,omitempty"`
	Sender          string                    `json:"sender"`
	Receiver        string                    `json:"receiver,omitempty"`
	ReferenceAmount *btcutil.Amount           `json:"referenceAmount,omitempty"`
	TypeName        string                    `json:"typeName"`
	Payload         transactionrecord.Payload `json:"payload,omitempty"`
	Raw             transactionrecord.Packed  `json:"raw"`
	DecodeError     string                    `json:"decodeError,omitempty"`
}

// MarshalJSON - convert a record to JSON
func (t *Transaction) MarshalJSON() ([]byte, error) {
	info := Info{
		Txid:            t.txid,
		Block:           t.block,
		Index:           t.index,
		BlockTime:       t.blockTime,
		FeePaid:         t.feePaid,
		Sender:          t.sender,
		Receiver:        t.receiver,
		ReferenceAmount: t.referenceAmount,
		Payload:         t.payload,
		Raw:             t.raw,
	}
	if nil != t.packetClass {
		info.PacketClass = t.packetClass.String()
	}
	if h, ok := t.Header(); ok {
		info.TypeName = h.Type.String()
	}
	if nil != t.decodeError {
		info.DecodeError = t.decodeError.Error()
	}
	return json.Marshal(info)
}
