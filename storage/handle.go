// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/logger"
)

// PoolHandle - a key range of the database
type PoolHandle struct {
	name   string
	prefix byte
	limit  []byte
}

// Element - a binary data item
type Element struct {
	Key   []byte
	Value []byte
}

// Name - the pool field name
func (p *PoolHandle) Name() string {
	return p.name
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// range of all keys in the pool that begin with the key prefix
func (p *PoolHandle) prefixRange(keyPrefix []byte) *ldb_util.Range {
	if 0 == len(keyPrefix) {
		return &ldb_util.Range{
			Start: []byte{p.prefix}, // Start of key range, included in the range
			Limit: p.limit,          // Limit of key range, excluded from the range
		}
	}
	return ldb_util.BytesPrefix(p.prefixKey(keyPrefix))
}

// Reader - read access to the pools
type Reader interface {
	Get(pool *PoolHandle, key []byte) []byte
	GetN(pool *PoolHandle, key []byte) (uint64, bool)
	Has(pool *PoolHandle, key []byte) bool
	Map(pool *PoolHandle, keyPrefix []byte, f func(key []byte, value []byte) error) error
}

// Handle - read and write access to the pools
type Handle interface {
	Reader
	Put(pool *PoolHandle, key []byte, value []byte)
	PutN(pool *PoolHandle, key []byte, value uint64)
	Delete(pool *PoolHandle, key []byte)
}

// Transaction - a handle whose writes are applied together
type Transaction interface {
	Handle
	Commit() error
	Abort()
}

// Ledger - something a transaction can be started on
type Ledger interface {
	Reader
	Begin(block int, index uint32) (Transaction, error)
}

// a layer of key/value data
type source interface {
	get(key []byte) ([]byte, bool)
	each(r *ldb_util.Range, f func(key []byte, value []byte) error) error
}

// the leveldb calls shared by a database and a snapshot
type reader interface {
	Get(key []byte, ro *ldb_opt.ReadOptions) ([]byte, error)
	NewIterator(slice *ldb_util.Range, ro *ldb_opt.ReadOptions) iterator.Iterator
}

type levelSource struct {
	r reader
}

func (s levelSource) get(key []byte) ([]byte, bool) {
	value, err := s.r.Get(key, nil)
	if leveldb.ErrNotFound == err {
		return nil, false
	}
	logger.PanicIfError("storage.get", err)
	return value, true
}

func (s levelSource) each(r *ldb_util.Range, f func(key []byte, value []byte) error) error {
	iter := s.r.NewIterator(r, nil)
	defer iter.Release()

	for iter.Next() {

		// contents of the returned slice must not be modified, and are
		// only valid until the next call to Next
		key := make([]byte, len(iter.Key()))
		copy(key, iter.Key())

		value := make([]byte, len(iter.Value()))
		copy(value, iter.Value())

		if err := f(key, value); nil != err {
			return err
		}
	}
	return iter.Error()
}

// read methods over a source
type access struct {
	source source
}

// Get - read a value for a given key
//
// nil if the key is not present
func (a access) Get(p *PoolHandle, key []byte) []byte {
	value, found := a.source.get(p.prefixKey(key))
	if !found {
		return nil
	}
	return value
}

// GetN - read a record and decode first 8 bytes as big endian uint64
//
// second parameter is false if record was not found
// panics if not 8 (or more) bytes in the record
func (a access) GetN(p *PoolHandle, key []byte) (uint64, bool) {
	buffer := a.Get(p, key)
	if nil == buffer {
		return 0, false
	}
	if len(buffer) < 8 {
		logger.Panicf("pool.GetN truncated record for: %x: %x", key, buffer)
	}
	return binary.BigEndian.Uint64(buffer[:8]), true
}

// Has - check if a key exists
func (a access) Has(p *PoolHandle, key []byte) bool {
	_, found := a.source.get(p.prefixKey(key))
	return found
}

// Map - run a function on all elements whose key begins with the key
// prefix, in ascending key order
//
// the key passed to f has the pool prefix removed
func (a access) Map(p *PoolHandle, keyPrefix []byte, f func(key []byte, value []byte) error) error {
	return a.source.each(p.prefixRange(keyPrefix), func(key []byte, value []byte) error {
		return f(key[1:], value)
	})
}

// Elements - fetch all elements whose key begins with the key prefix
func Elements(r Reader, p *PoolHandle, keyPrefix []byte) []Element {
	results := make([]Element, 0, 16)
	_ = r.Map(p, keyPrefix, func(key []byte, value []byte) error {
		results = append(results, Element{Key: key, Value: value})
		return nil
	})
	return results
}

// inside the range
func inRange(r *ldb_util.Range, key []byte) bool {
	if nil != r.Start && bytes.Compare(key, r.Start) < 0 {
		return false
	}
	if nil != r.Limit && bytes.Compare(key, r.Limit) >= 0 {
		return false
	}
	return true
}
