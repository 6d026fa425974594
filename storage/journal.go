// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/elysiumd/util"
)

// prior state of one key
type undoRecord struct {
	key   []byte
	found bool
	value []byte
}

// JournalEntry - the undo data of all commits at one position
type JournalEntry struct {
	Block int
	Index uint32
	undo  []undoRecord
}

// Keys - number of keys the entry restores
func (e *JournalEntry) Keys() int {
	return len(e.undo)
}

func journalKey(block int, index uint32) []byte {
	key := make([]byte, 12)
	binary.BigEndian.PutUint64(key[:8], uint64(block))
	binary.BigEndian.PutUint32(key[8:], index)
	return key
}

func packUndo(undo []undoRecord) []byte {
	r := util.Record{}
	for _, u := range undo {
		r = r.AppendBytes(u.key).
			AppendBool(u.found).
			AppendBytes(u.value)
	}
	return r
}

func unpackUndo(buffer []byte) ([]undoRecord, error) {
	rr := util.NewRecordReader(buffer)
	undo := make([]undoRecord, 0, 8)
	for rr.Remaining() > 0 && nil == rr.Err() {
		u := undoRecord{
			key:   rr.Bytes(),
			found: rr.Bool(),
			value: rr.Bytes(),
		}
		undo = append(undo, u)
	}
	if nil != rr.Err() {
		return nil, rr.Err()
	}
	return undo, nil
}

// Journal - all undo entries at or above a block in ascending position
func (d *Database) Journal(fromBlock int) ([]*JournalEntry, error) {
	if fromBlock < 0 {
		fromBlock = 0
	}
	start := Pool.Journal.prefixKey(journalKey(fromBlock, 0))

	r := Pool.Journal.prefixRange(nil)
	r.Start = start

	entries := make([]*JournalEntry, 0, 16)
	err := levelSource{d.db}.each(r, func(key []byte, value []byte) error {
		if 13 != len(key) {
			return fault.ErrCorruptRecord
		}
		undo, err := unpackUndo(value)
		if nil != err {
			return err
		}
		entries = append(entries, &JournalEntry{
			Block: int(binary.BigEndian.Uint64(key[1:9])),
			Index: binary.BigEndian.Uint32(key[9:]),
			undo:  undo,
		})
		return nil
	})
	if nil != err {
		return nil, err
	}
	return entries, nil
}

// Undo - restore the state from before an entry and drop the entry
func (d *Database) Undo(e *JournalEntry) error {
	if d.readOnly {
		return fault.ErrDatabaseIsReadOnly
	}
	if !d.writer.TryLock() {
		return fault.ErrTransactionInUse
	}
	defer d.writer.Unlock()

	batch := new(leveldb.Batch)

	// later records in the list are older so they are applied last
	for _, u := range e.undo {
		if u.found {
			batch.Put(u.key, u.value)
		} else {
			batch.Delete(u.key)
		}
	}
	batch.Delete(Pool.Journal.prefixKey(journalKey(e.Block, e.Index)))

	err := d.db.Write(batch, nil)
	if nil != err {
		d.log.Errorf("undo block: %d  index: %d  error: %s", e.Block, e.Index, err)
		return err
	}
	d.log.Debugf("undo block: %d  index: %d  keys: %d", e.Block, e.Index, len(e.undo))
	return nil
}
