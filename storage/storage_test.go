// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/elysiumd/fixtures"
	"github.com/bitmark-inc/elysiumd/storage"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func openTestDatabase(t *testing.T) *storage.Database {
	db, err := storage.OpenMemory()
	if nil != err {
		t.Fatalf("open memory database error: %s", err)
	}
	return db
}

func put(t *testing.T, db *storage.Database, block int, index uint32, key string, value string) {
	trx, err := db.Begin(block, index)
	assert.Nil(t, err, "begin")
	trx.Put(storage.Pool.Balances, []byte(key), []byte(value))
	assert.Nil(t, trx.Commit(), "commit")
}

func TestCommitIsVisible(t *testing.T) {
	db := openTestDatabase(t)
	defer db.Close()

	trx, err := db.Begin(1, 0)
	assert.Nil(t, err, "begin")

	trx.Put(storage.Pool.Balances, []byte("key-one"), []byte("data-one"))
	trx.PutN(storage.Pool.NextProperty, []byte{1}, 3)

	assert.Equal(t, []byte("data-one"), trx.Get(storage.Pool.Balances, []byte("key-one")), "own write")
	assert.Nil(t, db.Get(storage.Pool.Balances, []byte("key-one")), "uncommitted write leaked")

	assert.Nil(t, trx.Commit(), "commit")

	assert.Equal(t, []byte("data-one"), db.Get(storage.Pool.Balances, []byte("key-one")))
	n, found := db.GetN(storage.Pool.NextProperty, []byte{1})
	assert.True(t, found)
	assert.Equal(t, uint64(3), n)

	assert.Equal(t, fault.ErrTransactionFinished, trx.Commit(), "second commit")
}

func TestAbortDiscards(t *testing.T) {
	db := openTestDatabase(t)
	defer db.Close()

	put(t, db, 1, 0, "key", "before")

	trx, err := db.Begin(2, 0)
	assert.Nil(t, err, "begin")
	trx.Put(storage.Pool.Balances, []byte("key"), []byte("after"))
	trx.Delete(storage.Pool.Balances, []byte("key"))
	assert.False(t, trx.Has(storage.Pool.Balances, []byte("key")), "delete hides value")
	trx.Abort()

	assert.Equal(t, []byte("before"), db.Get(storage.Pool.Balances, []byte("key")))

	// lock must be released
	trx, err = db.Begin(3, 0)
	assert.Nil(t, err, "begin after abort")
	trx.Abort()
}

func TestSingleWriter(t *testing.T) {
	db := openTestDatabase(t)
	defer db.Close()

	trx, err := db.Begin(1, 0)
	assert.Nil(t, err, "first begin")

	_, err = db.Begin(1, 1)
	assert.Equal(t, fault.ErrTransactionInUse, err, "second begin")

	assert.Nil(t, trx.Commit(), "commit")

	trx, err = db.Begin(1, 1)
	assert.Nil(t, err, "begin after commit")
	trx.Abort()
}

func TestMapMergesOverlay(t *testing.T) {
	db := openTestDatabase(t)
	defer db.Close()

	put(t, db, 1, 0, "a-1", "one")
	put(t, db, 1, 1, "a-3", "three")
	put(t, db, 1, 2, "a-5", "five")
	put(t, db, 1, 3, "b-1", "other")

	trx, err := db.Begin(2, 0)
	assert.Nil(t, err, "begin")
	defer trx.Abort()

	trx.Put(storage.Pool.Balances, []byte("a-2"), []byte("two"))
	trx.Put(storage.Pool.Balances, []byte("a-3"), []byte("THREE"))
	trx.Delete(storage.Pool.Balances, []byte("a-5"))
	trx.Put(storage.Pool.Balances, []byte("a-6"), []byte("six"))

	elements := storage.Elements(trx, storage.Pool.Balances, []byte("a-"))
	expected := []storage.Element{
		{Key: []byte("a-1"), Value: []byte("one")},
		{Key: []byte("a-2"), Value: []byte("two")},
		{Key: []byte("a-3"), Value: []byte("THREE")},
		{Key: []byte("a-6"), Value: []byte("six")},
	}
	assert.Equal(t, expected, elements)

	all := storage.Elements(trx, storage.Pool.Balances, nil)
	assert.Equal(t, 5, len(all), "whole pool")
}

func TestViewIsolation(t *testing.T) {
	db := openTestDatabase(t)
	defer db.Close()

	put(t, db, 1, 0, "key", "committed")

	view1, err := db.NewView()
	assert.Nil(t, err, "view 1")
	defer view1.Release()

	view2, err := db.NewView()
	assert.Nil(t, err, "view 2")
	defer view2.Release()

	trx, err := view1.Begin(2, 0)
	assert.Nil(t, err, "view begin")
	trx.Put(storage.Pool.Balances, []byte("key"), []byte("preview"))
	assert.Nil(t, trx.Commit(), "view commit")

	assert.Equal(t, []byte("preview"), view1.Get(storage.Pool.Balances, []byte("key")))
	assert.Equal(t, []byte("committed"), view2.Get(storage.Pool.Balances, []byte("key")))
	assert.Equal(t, []byte("committed"), db.Get(storage.Pool.Balances, []byte("key")))

	// later database writes are not seen by an existing view
	put(t, db, 3, 0, "key", "later")
	assert.Equal(t, []byte("committed"), view2.Get(storage.Pool.Balances, []byte("key")))

	entries, err := db.Journal(2)
	assert.Nil(t, err, "journal")
	assert.Equal(t, 1, len(entries), "view commits are not journaled")
}

func TestJournalUndo(t *testing.T) {
	db := openTestDatabase(t)
	defer db.Close()

	put(t, db, 1, 0, "key", "one")
	put(t, db, 2, 0, "key", "two")
	put(t, db, 2, 1, "new", "value")

	trx, err := db.Begin(2, 1)
	assert.Nil(t, err, "begin")
	trx.Put(storage.Pool.Balances, []byte("new"), []byte("changed"))
	assert.Nil(t, trx.Commit(), "commit")

	entries, err := db.Journal(2)
	assert.Nil(t, err, "journal")
	assert.Equal(t, 2, len(entries), "entries")
	assert.Equal(t, 2, entries[0].Block)
	assert.Equal(t, uint32(0), entries[0].Index)
	assert.Equal(t, uint32(1), entries[1].Index)
	assert.Equal(t, 2, entries[1].Keys(), "two commits at one position")

	assert.Nil(t, db.Undo(entries[1]), "undo 2/1")
	assert.False(t, db.Has(storage.Pool.Balances, []byte("new")), "restored to absent")

	assert.Nil(t, db.Undo(entries[0]), "undo 2/0")
	assert.Equal(t, []byte("one"), db.Get(storage.Pool.Balances, []byte("key")))

	entries, err = db.Journal(0)
	assert.Nil(t, err, "journal")
	assert.Equal(t, 1, len(entries), "only block 1 remains")
}

func TestNegativeBlockIsNotJournaled(t *testing.T) {
	db := openTestDatabase(t)
	defer db.Close()

	put(t, db, -1, 0, "genesis", "value")

	entries, err := db.Journal(0)
	assert.Nil(t, err, "journal")
	assert.Equal(t, 0, len(entries))
	assert.True(t, db.Has(storage.Pool.Balances, []byte("genesis")))
}

func TestPoolNames(t *testing.T) {
	assert.Equal(t, "Balances", storage.Pool.Balances.Name())
	assert.Equal(t, "Journal", storage.Pool.Journal.Name())
}

func TestKeyAddress(t *testing.T) {
	a := strings.Repeat("a", storage.MaxAddressLength)
	k := storage.NewKey().Uint32(3).Address(a).Address("b")

	kr := storage.NewKeyReader(k)
	assert.Equal(t, uint32(3), kr.Uint32(), "property")
	assert.Equal(t, a, kr.Address(), "longest address")
	assert.Equal(t, "b", kr.Address(), "next address")
	assert.Nil(t, kr.Err(), "reader error")

	assert.Panics(t, func() {
		storage.NewKey().Address(a + "a")
	}, "address too long for a key")
}
