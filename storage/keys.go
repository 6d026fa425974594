// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/bitmark-inc/elysiumd/fault"
)

// MaxAddressLength - longest address that fits a key; transactions
// with longer addresses are refused before they reach the ledger
const MaxAddressLength = 255

// Key - build a key from big endian integers, byte slices and
// length prefixed addresses
type Key []byte

// NewKey - an empty key with room for a typical compound key
func NewKey() Key {
	return make(Key, 0, 64)
}

// Uint8 - append a single byte
func (k Key) Uint8(value uint8) Key {
	return append(k, value)
}

// Uint16 - append 2 bytes big endian
func (k Key) Uint16(value uint16) Key {
	return binary.BigEndian.AppendUint16(k, value)
}

// Uint32 - append 4 bytes big endian
func (k Key) Uint32(value uint32) Key {
	return binary.BigEndian.AppendUint32(k, value)
}

// Block - append a block number as 8 bytes big endian
func (k Key) Block(block int) Key {
	return binary.BigEndian.AppendUint64(k, uint64(block))
}

// Bytes - append raw bytes
func (k Key) Bytes(value []byte) Key {
	return append(k, value...)
}

// Address - append a length byte followed by the address
//
// panics if the address is longer than MaxAddressLength, a shortened
// address would share the key of another
func (k Key) Address(address string) Key {
	if len(address) > MaxAddressLength {
		panic(fault.ErrAddressTooLong)
	}
	k = append(k, byte(len(address)))
	return append(k, address...)
}

// KeyReader - split a key built by Key back into its fields
type KeyReader struct {
	key []byte
	n   int
	err error
}

// NewKeyReader - start reading at the beginning of a key
func NewKeyReader(key []byte) *KeyReader {
	return &KeyReader{key: key}
}

// Err - fault.ErrCorruptRecord if any read ran past the key end
func (r *KeyReader) Err() error {
	return r.err
}

func (r *KeyReader) take(size int) []byte {
	if nil != r.err {
		return nil
	}
	if r.n+size > len(r.key) {
		r.err = fault.ErrCorruptRecord
		return nil
	}
	b := r.key[r.n : r.n+size]
	r.n += size
	return b
}

// Uint8 - read a single byte
func (r *KeyReader) Uint8() uint8 {
	b := r.take(1)
	if nil == b {
		return 0
	}
	return b[0]
}

// Uint16 - read 2 bytes big endian
func (r *KeyReader) Uint16() uint16 {
	b := r.take(2)
	if nil == b {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

// Uint32 - read 4 bytes big endian
func (r *KeyReader) Uint32() uint32 {
	b := r.take(4)
	if nil == b {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// Block - read an 8 byte block number
func (r *KeyReader) Block() int {
	b := r.take(8)
	if nil == b {
		return 0
	}
	return int(binary.BigEndian.Uint64(b))
}

// Bytes - read a fixed number of bytes
func (r *KeyReader) Bytes(size int) []byte {
	return r.take(size)
}

// Address - read a length prefixed address
func (r *KeyReader) Address() string {
	length := r.Uint8()
	return string(r.take(int(length)))
}
