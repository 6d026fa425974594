// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package sigma - the state of the privacy token pools
//
// a property with sigma enabled has a list of denominations.  a mint
// commits a public key for one denomination; keys are collected in
// groups of a fixed maximum size which form the anonymity sets of
// spends.  a spend reveals a serial which may only be used once.
package sigma

import (
	"encoding/binary"
	"sort"

	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
	"github.com/bitmark-inc/elysiumd/util"
	"github.com/bitmark-inc/logger"
)

// maximum denominations of a property
const maxDenominations = 255

//go:generate mockgen -destination=mocks/verifier.go -package=mocks github.com/bitmark-inc/elysiumd/sigma ProofVerifier

// ProofVerifier - checks the zero knowledge proof of a spend
type ProofVerifier interface {
	Verify(statement *Statement) bool
}

// Statement - what a spend proof must prove: knowledge of the secret
// behind one of the anonymity set's keys that yields the serial
type Statement struct {
	Property     transactionrecord.PropertyId
	Denomination uint8
	Value        int64
	Group        uint32
	Serial       [transactionrecord.SerialLength]byte
	Proof        []byte
	Anonymity    [][transactionrecord.PublicKeyLength]byte
}

// PublicKey - a committed mint key
type PublicKey = [transactionrecord.PublicKeyLength]byte

// Serial - a spend serial
type Serial = [transactionrecord.SerialLength]byte

func propertyKey(property transactionrecord.PropertyId) []byte {
	return storage.NewKey().Uint32(uint32(property))
}

func denominationKey(property transactionrecord.PropertyId, denomination uint8) []byte {
	return storage.NewKey().Uint32(uint32(property)).Uint8(denomination)
}

// Denominations - the values of a property's denominations, indexed
// by denomination number
func Denominations(r storage.Reader, property transactionrecord.PropertyId) []int64 {
	buffer := r.Get(storage.Pool.Denominations, propertyKey(property))
	if 0 == len(buffer) {
		return nil
	}
	if 0 != len(buffer)%8 {
		logger.Panicf("sigma: corrupt denominations: %x", buffer)
	}
	values := make([]int64, 0, len(buffer)/8)
	for i := 0; i < len(buffer); i += 8 {
		values = append(values, int64(binary.BigEndian.Uint64(buffer[i:])))
	}
	return values
}

// Denomination - the value of one denomination
func Denomination(r storage.Reader, property transactionrecord.PropertyId, denomination uint8) (int64, error) {
	values := Denominations(r, property)
	if int(denomination) >= len(values) {
		return 0, fault.ErrDenominationNotFound
	}
	return values[denomination], nil
}

// AddDenomination - append a new denomination value, returns its
// number
func AddDenomination(h storage.Handle, property transactionrecord.PropertyId, value int64) (uint8, error) {
	if value <= 0 || uint64(value) > transactionrecord.MaxTokens {
		return 0, fault.ErrInvalidDenomination
	}
	values := Denominations(h, property)
	if len(values) >= maxDenominations {
		return 0, fault.ErrTooManyDenominations
	}
	for _, v := range values {
		if v == value {
			return 0, fault.ErrDenominationExists
		}
	}

	buffer := make([]byte, 0, 8*(len(values)+1))
	for _, v := range append(values, value) {
		buffer = binary.BigEndian.AppendUint64(buffer, uint64(v))
	}
	h.Put(storage.Pool.Denominations, propertyKey(property), buffer)
	return uint8(len(values)), nil
}

// Group - the group currently receiving mints and its size
func Group(r storage.Reader, property transactionrecord.PropertyId, denomination uint8) (uint32, uint32) {
	buffer := r.Get(storage.Pool.MintGroups, denominationKey(property, denomination))
	if nil == buffer {
		return 0, 0
	}
	rr := util.NewRecordReader(buffer)
	group := rr.Uint32()
	count := rr.Uint32()
	if nil != rr.Err() {
		logger.Panicf("sigma: corrupt group: %x", buffer)
	}
	return group, count
}

// AddMint - commit a public key into the current group, starting a
// new group when the current one is full
func AddMint(h storage.Handle, property transactionrecord.PropertyId, denomination uint8, key PublicKey, maxGroupSize uint32) (uint32, uint32, error) {
	if _, err := Denomination(h, property, denomination); nil != err {
		return 0, 0, err
	}
	mintKey := storage.NewKey().Uint32(uint32(property)).Uint8(denomination).Bytes(key[:])
	if h.Has(storage.Pool.MintKeys, mintKey) {
		return 0, 0, fault.ErrMintPublicKeyExists
	}

	group, count := Group(h, property, denomination)
	if count >= maxGroupSize {
		group += 1
		count = 0
	}

	h.Put(storage.Pool.MintKeys, mintKey, util.Record{}.AppendUint32(group).AppendUint32(count))
	h.Put(storage.Pool.MintGroups, denominationKey(property, denomination), util.Record{}.AppendUint32(group).AppendUint32(count+1))
	return group, count, nil
}

// Mints - the keys of one group in mint order
func Mints(r storage.Reader, property transactionrecord.PropertyId, denomination uint8, group uint32) []PublicKey {
	type indexed struct {
		index uint32
		key   PublicKey
	}
	found := make([]indexed, 0, 16)
	prefix := denominationKey(property, denomination)
	_ = r.Map(storage.Pool.MintKeys, prefix, func(key []byte, value []byte) error {
		rr := util.NewRecordReader(value)
		g := rr.Uint32()
		i := rr.Uint32()
		if nil != rr.Err() || len(key) != len(prefix)+transactionrecord.PublicKeyLength {
			logger.Panicf("sigma: corrupt mint: %x", key)
		}
		if g == group {
			item := indexed{index: i}
			copy(item.key[:], key[len(prefix):])
			found = append(found, item)
		}
		return nil
	})
	sort.Slice(found, func(i, j int) bool {
		return found[i].index < found[j].index
	})

	keys := make([]PublicKey, len(found))
	for i, item := range found {
		keys[i] = item.key
	}
	return keys
}

func serialKey(property transactionrecord.PropertyId, denomination uint8, serial Serial) []byte {
	return storage.NewKey().Uint32(uint32(property)).Uint8(denomination).Bytes(serial[:])
}

// IsSpent - true if a serial has been used
func IsSpent(r storage.Reader, property transactionrecord.PropertyId, denomination uint8, serial Serial) bool {
	return r.Has(storage.Pool.Serials, serialKey(property, denomination, serial))
}

// Spend - consume a serial
func Spend(h storage.Handle, property transactionrecord.PropertyId, denomination uint8, serial Serial, block int) error {
	k := serialKey(property, denomination, serial)
	if h.Has(storage.Pool.Serials, k) {
		return fault.ErrSerialAlreadyUsed
	}
	h.PutN(storage.Pool.Serials, k, uint64(block))
	return nil
}
