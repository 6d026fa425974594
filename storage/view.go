// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/elysiumd/fault"
)

// View - an isolated copy of the ledger
//
// transactions committed on a view change only the view; the
// database and all other views are unaffected
type View struct {
	access

	writer   sync.Mutex
	snapshot *leveldb.Snapshot
	overlay  *overlay
}

// NewView - take a view of the current committed state
func (d *Database) NewView() (*View, error) {
	if nil == d.db {
		return nil, fault.ErrNotInitialised
	}
	snapshot, err := d.db.GetSnapshot()
	if nil != err {
		return nil, err
	}
	o := newOverlay(levelSource{snapshot})
	return &View{
		access:   access{source: o},
		snapshot: snapshot,
		overlay:  o,
	}, nil
}

// Begin - start a transaction against the view
func (v *View) Begin(block int, index uint32) (Transaction, error) {
	if !v.writer.TryLock() {
		return nil, fault.ErrTransactionInUse
	}

	t := newTransaction(v.overlay)
	t.commit = func(o *overlay) error {
		o.mergeInto(v.overlay)
		return nil
	}
	t.release = v.writer.Unlock
	return t, nil
}

// Release - discard the view
func (v *View) Release() {
	v.writer.Lock()
	defer v.writer.Unlock()
	if nil != v.snapshot {
		v.snapshot.Release()
		v.snapshot = nil
	}
	v.overlay.clear()
}
