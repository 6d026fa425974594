// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"sync"

	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/logger"
)

// a write transaction: reads see its own uncommitted writes
type transaction struct {
	access

	sync.Mutex
	overlay  *overlay
	commit   func(*overlay) error
	release  func()
	finished bool
}

func newTransaction(parent source) *transaction {
	o := newOverlay(parent)
	return &transaction{
		access:  access{source: o},
		overlay: o,
	}
}

// Put - store a key/value bytes pair
func (t *transaction) Put(p *PoolHandle, key []byte, value []byte) {
	t.Lock()
	defer t.Unlock()
	if t.finished {
		logger.Panicf("pool.Put: %s after transaction finished", p.name)
	}
	t.overlay.put(p.prefixKey(key), value)
}

// PutN - store a big endian uint64 value
func (t *transaction) PutN(p *PoolHandle, key []byte, value uint64) {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, value)
	t.Put(p, key, buffer)
}

// Delete - remove a key
func (t *transaction) Delete(p *PoolHandle, key []byte) {
	t.Lock()
	defer t.Unlock()
	if t.finished {
		logger.Panicf("pool.Delete: %s after transaction finished", p.name)
	}
	t.overlay.delete(p.prefixKey(key))
}

// Commit - apply all writes
//
// the transaction is finished even if the write fails
func (t *transaction) Commit() error {
	t.Lock()
	defer t.Unlock()
	if t.finished {
		return fault.ErrTransactionFinished
	}
	t.finished = true
	defer t.release()

	err := t.commit(t.overlay)
	t.overlay.clear()
	return err
}

// Abort - discard all writes
//
// safe to call after Commit
func (t *transaction) Abort() {
	t.Lock()
	defer t.Unlock()
	if t.finished {
		return
	}
	t.finished = true
	t.overlay.clear()
	t.release()
}
