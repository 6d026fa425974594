// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package checkpoint_test

import (
	"os"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/elysiumd/checkpoint"
	"github.com/bitmark-inc/elysiumd/fixtures"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/tally"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func credit(t *testing.T, db *storage.Database, n byte, amount int64) {
	trx, err := db.Begin(1, uint32(n))
	assert.Nil(t, err, "begin")
	assert.Nil(t, tally.Update(trx, fixtures.Address(n), 3, amount, tally.Available), "credit")
	assert.Nil(t, trx.Commit(), "commit")
}

func TestHashIsDeterministic(t *testing.T) {
	db1, err := storage.OpenMemory()
	assert.Nil(t, err, "open")
	defer db1.Close()
	db2, err := storage.OpenMemory()
	assert.Nil(t, err, "open")
	defer db2.Close()

	empty := checkpoint.Hash(db1)
	assert.Equal(t, empty, checkpoint.Hash(db2), "empty ledgers")

	credit(t, db1, 1, 10)
	credit(t, db1, 2, 20)

	// same state reached in a different order
	credit(t, db2, 2, 20)
	credit(t, db2, 1, 10)

	assert.NotEqual(t, empty, checkpoint.Hash(db1), "state changes the digest")
	assert.Equal(t, checkpoint.Hash(db1), checkpoint.Hash(db2), "same state")

	credit(t, db2, 1, 1)
	assert.NotEqual(t, checkpoint.Hash(db1), checkpoint.Hash(db2), "different state")
}

func TestHashIgnoresHistory(t *testing.T) {
	db, err := storage.OpenMemory()
	assert.Nil(t, err, "open")
	defer db.Close()

	before := checkpoint.Hash(db)

	trx, err := db.Begin(-1, 0)
	assert.Nil(t, err, "begin")
	txid := chainhash.Hash{1}
	trx.Put(storage.Pool.History, txid[:], []byte{1})
	assert.Nil(t, trx.Commit(), "commit")

	assert.Equal(t, before, checkpoint.Hash(db), "history not included")
	assert.Len(t, before.String(), 64, "hex digest")
}
