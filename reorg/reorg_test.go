// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reorg_test

import (
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/elysiumd/checkpoint"
	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/elysiumd/fixtures"
	"github.com/bitmark-inc/elysiumd/reorg"
	"github.com/bitmark-inc/elysiumd/reorg/mocks"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/tally"
	"github.com/bitmark-inc/logger"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func credit(t *testing.T, db *storage.Database, block int, index uint32, n byte, amount int64) {
	trx, err := db.Begin(block, index)
	if nil != err {
		t.Fatalf("begin error: %s", err)
	}
	assert.Nil(t, tally.Update(trx, fixtures.Address(n), 3, amount, tally.Available), "credit")
	assert.Nil(t, trx.Commit(), "commit")
}

func TestRollbackRestoresState(t *testing.T) {
	db, err := storage.OpenMemory()
	if nil != err {
		t.Fatalf("open memory database error: %s", err)
	}
	defer db.Close()

	log := logger.New(fixtures.LogCategory)

	credit(t, db, 10, 0, 1, 100)
	credit(t, db, 10, 1, 2, 50)
	atTen := checkpoint.Hash(db)

	credit(t, db, 11, 0, 1, 25)
	credit(t, db, 11, 3, 3, 7)
	credit(t, db, 12, 0, 2, -50)
	assert.NotEqual(t, atTen, checkpoint.Hash(db), "state moved on")

	n, err := reorg.Rollback(log, db, 11)
	assert.Nil(t, err, "rollback")
	assert.Equal(t, 3, n, "positions undone")
	assert.Equal(t, atTen, checkpoint.Hash(db), "state of block 10")
	assert.Equal(t, int64(100), tally.Balance(db, fixtures.Address(1), 3, tally.Available), "address 1")
	assert.Equal(t, int64(50), tally.Balance(db, fixtures.Address(2), 3, tally.Available), "address 2")
	assert.Equal(t, int64(0), tally.Balance(db, fixtures.Address(3), 3, tally.Available), "address 3")

	n, err = reorg.Rollback(log, db, 11)
	assert.Nil(t, err, "second rollback")
	assert.Equal(t, 0, n, "nothing left to undo")
}

func TestRollbackIsMostRecentFirst(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	entries := []*storage.JournalEntry{
		{Block: 5, Index: 0},
		{Block: 5, Index: 2},
		{Block: 6, Index: 1},
		{Block: 7, Index: 0},
	}

	j := mocks.NewMockJournal(ctl)
	j.EXPECT().Journal(5).Return(entries, nil).Times(1)
	gomock.InOrder(
		j.EXPECT().Undo(entries[3]).Return(nil),
		j.EXPECT().Undo(entries[2]).Return(nil),
		j.EXPECT().Undo(entries[1]).Return(nil),
		j.EXPECT().Undo(entries[0]).Return(nil),
	)

	n, err := reorg.Rollback(logger.New(fixtures.LogCategory), j, 5)
	assert.Nil(t, err, "rollback")
	assert.Equal(t, 4, n, "undone")
}

func TestRollbackStopsOnError(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	entries := []*storage.JournalEntry{
		{Block: 5, Index: 0},
		{Block: 6, Index: 0},
	}

	j := mocks.NewMockJournal(ctl)
	j.EXPECT().Journal(5).Return(entries, nil).Times(1)
	gomock.InOrder(
		j.EXPECT().Undo(entries[1]).Return(nil),
		j.EXPECT().Undo(entries[0]).Return(fault.ErrTransactionInUse),
	)

	n, err := reorg.Rollback(logger.New(fixtures.LogCategory), j, 5)
	assert.Equal(t, fault.ErrTransactionInUse, err, "error")
	assert.Equal(t, 1, n, "undone before the error")
}
