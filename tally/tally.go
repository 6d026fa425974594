// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package tally - token balances of addresses
//
// each (property, address) pair holds four tallies: the available
// balance and three reserves that are held while tokens are committed
// to a DEx sell offer, a DEx accept or a MetaDEx order
package tally

import (
	"encoding/binary"
	"sort"

	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
	"github.com/bitmark-inc/logger"
)

// Kind - which of the tallies of an address
type Kind int

// the tally kinds
const (
	Available        Kind = iota // free to spend
	SellOfferReserve             // committed to a DEx sell offer
	AcceptReserve                // committed to an accepted DEx offer
	MetaDExReserve               // committed to MetaDEx orders

	kindCount
)

// String - name of a tally kind
func (k Kind) String() string {
	switch k {
	case Available:
		return "available"
	case SellOfferReserve:
		return "sell-offer-reserve"
	case AcceptReserve:
		return "accept-reserve"
	case MetaDExReserve:
		return "metadex-reserve"
	default:
		return "*unknown*"
	}
}

// Tally - all the tallies of one address for one property
type Tally [kindCount]int64

// Total - sum of all tallies
func (t Tally) Total() int64 {
	total := int64(0)
	for _, v := range t {
		total += v
	}
	return total
}

// Holding - the total tally of one address
type Holding struct {
	Address string
	Amount  int64
}

func key(property transactionrecord.PropertyId, address string) []byte {
	return storage.NewKey().Uint32(uint32(property)).Address(address)
}

func pack(t Tally) []byte {
	buffer := make([]byte, 0, 8*kindCount)
	for _, v := range t {
		buffer = binary.BigEndian.AppendUint64(buffer, uint64(v))
	}
	return buffer
}

func unpack(buffer []byte) Tally {
	t := Tally{}
	if nil == buffer {
		return t
	}
	if len(buffer) != 8*int(kindCount) {
		logger.Panicf("tally: corrupt record: %x", buffer)
	}
	for i := range t {
		t[i] = int64(binary.BigEndian.Uint64(buffer[8*i:]))
	}
	return t
}

// Get - all tallies of an address
func Get(r storage.Reader, address string, property transactionrecord.PropertyId) Tally {
	return unpack(r.Get(storage.Pool.Balances, key(property, address)))
}

// Balance - one tally of an address
func Balance(r storage.Reader, address string, property transactionrecord.PropertyId, kind Kind) int64 {
	return Get(r, address, property)[kind]
}

// Update - add a signed amount to one tally
//
// fails without writing if the tally would become negative or
// exceed the maximum token supply
func Update(h storage.Handle, address string, property transactionrecord.PropertyId, amount int64, kind Kind) error {
	if kind < 0 || kind >= kindCount {
		logger.Panicf("tally: invalid kind: %d", kind)
	}

	k := key(property, address)
	t := unpack(h.Get(storage.Pool.Balances, k))

	v := t[kind]
	if amount < 0 {
		if v+amount < 0 {
			return fault.ErrBalanceUnderflow
		}
	} else if uint64(v)+uint64(amount) > transactionrecord.MaxTokens {
		return fault.ErrSupplyOverflow
	}
	t[kind] = v + amount

	if (Tally{}) == t {
		h.Delete(storage.Pool.Balances, k)
	} else {
		h.Put(storage.Pool.Balances, k, pack(t))
	}
	return nil
}

// Move - transfer between two tallies
//
// either both sides change or neither does
func Move(h storage.Handle, property transactionrecord.PropertyId, fromAddress string, fromKind Kind, toAddress string, toKind Kind, amount int64) error {
	if amount < 0 {
		return fault.ErrInvalidAmount
	}
	if Balance(h, fromAddress, property, fromKind) < amount {
		return fault.ErrInsufficientBalance
	}
	if err := Update(h, fromAddress, property, -amount, fromKind); nil != err {
		return err
	}
	if err := Update(h, toAddress, property, amount, toKind); nil != err {
		// restore the source so the handle is unchanged
		logger.PanicIfError("tally.Move restore", Update(h, fromAddress, property, amount, fromKind))
		return err
	}
	return nil
}

// Owners - addresses holding a property, ordered by total holding
// descending then address descending
//
// addresses with a zero total are omitted
func Owners(r storage.Reader, property transactionrecord.PropertyId) []Holding {
	owners := make([]Holding, 0, 16)
	prefix := storage.NewKey().Uint32(uint32(property))

	_ = r.Map(storage.Pool.Balances, prefix, func(k []byte, value []byte) error {
		kr := storage.NewKeyReader(k)
		kr.Uint32()
		address := kr.Address()
		if nil != kr.Err() {
			logger.Panicf("tally: corrupt key: %x", k)
		}
		total := unpack(value).Total()
		if total > 0 {
			owners = append(owners, Holding{Address: address, Amount: total})
		}
		return nil
	})

	sort.Slice(owners, func(i, j int) bool {
		if owners[i].Amount != owners[j].Amount {
			return owners[i].Amount > owners[j].Amount
		}
		return owners[i].Address > owners[j].Address
	})
	return owners
}

// Total - sum of every tally of every address for a property
func Total(r storage.Reader, property transactionrecord.PropertyId) int64 {
	total := int64(0)
	for _, h := range Owners(r, property) {
		total += h.Amount
	}
	return total
}

// Balances - every property an address holds with its tallies
func Balances(r storage.Reader, address string) map[transactionrecord.PropertyId]Tally {
	result := make(map[transactionrecord.PropertyId]Tally)
	_ = r.Map(storage.Pool.Balances, nil, func(k []byte, value []byte) error {
		kr := storage.NewKeyReader(k)
		property := transactionrecord.PropertyId(kr.Uint32())
		if kr.Address() == address && nil == kr.Err() {
			result[property] = unpack(value)
		}
		return nil
	})
	return result
}
