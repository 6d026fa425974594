// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package checkpoint - a digest of the consensus relevant ledger
//
// nodes that executed the same transactions have identical digests
package checkpoint

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/elysiumd/storage"
)

// Digest - SHA3-256 of the ledger
type Digest [32]byte

// String - hex form of a digest
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// MarshalText - hex JSON form of a digest
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// the pools that make up consensus state, in digest order; history
// and the undo journal are node local
func pools() []*storage.PoolHandle {
	return []*storage.PoolHandle{
		storage.Pool.Balances,
		storage.Pool.Properties,
		storage.Pool.NextProperty,
		storage.Pool.Contributions,
		storage.Pool.Crowdsales,
		storage.Pool.Offers,
		storage.Pool.Accepts,
		storage.Pool.Orders,
		storage.Pool.Features,
		storage.Pool.Alerts,
		storage.Pool.FreezeEnabled,
		storage.Pool.Frozen,
		storage.Pool.Denominations,
		storage.Pool.MintGroups,
		storage.Pool.MintKeys,
		storage.Pool.Serials,
	}
}

// Hash - digest every consensus pool
//
// each element contributes its pool name, its key and its value,
// every field prefixed by a 4 byte length
func Hash(r storage.Reader) Digest {
	h := sha3.New256()
	field := func(b []byte) {
		var length [4]byte
		binary.BigEndian.PutUint32(length[:], uint32(len(b)))
		h.Write(length[:])
		h.Write(b)
	}

	for _, p := range pools() {
		name := []byte(p.Name())
		_ = r.Map(p, nil, func(key []byte, value []byte) error {
			field(name)
			field(key)
			field(value)
			return nil
		})
	}

	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}
