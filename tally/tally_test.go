// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tally_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/elysiumd/fixtures"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/tally"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
)

const property = transactionrecord.PropertyId(3)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func begin(t *testing.T) (*storage.Database, storage.Transaction) {
	db, err := storage.OpenMemory()
	if nil != err {
		t.Fatalf("open memory database error: %s", err)
	}
	trx, err := db.Begin(-1, 0)
	if nil != err {
		t.Fatalf("begin error: %s", err)
	}
	return db, trx
}

func TestUpdate(t *testing.T) {
	db, trx := begin(t)
	defer db.Close()
	defer trx.Abort()

	a := fixtures.Address(1)

	assert.Equal(t, int64(0), tally.Balance(trx, a, property, tally.Available), "initial")

	assert.Nil(t, tally.Update(trx, a, property, 100, tally.Available), "credit")
	assert.Nil(t, tally.Update(trx, a, property, 7, tally.MetaDExReserve), "reserve")
	assert.Equal(t, tally.Tally{100, 0, 0, 7}, tally.Get(trx, a, property), "tallies")
	assert.Equal(t, int64(107), tally.Get(trx, a, property).Total(), "total")

	err := tally.Update(trx, a, property, -101, tally.Available)
	assert.Equal(t, fault.ErrBalanceUnderflow, err, "underflow")
	assert.Equal(t, int64(100), tally.Balance(trx, a, property, tally.Available), "unchanged after underflow")

	err = tally.Update(trx, a, property, int64(transactionrecord.MaxTokens), tally.Available)
	assert.Equal(t, fault.ErrSupplyOverflow, err, "overflow")
	assert.Equal(t, int64(100), tally.Balance(trx, a, property, tally.Available), "unchanged after overflow")

	assert.Nil(t, tally.Update(trx, a, property, -100, tally.Available), "debit all")
	assert.Nil(t, tally.Update(trx, a, property, -7, tally.MetaDExReserve), "release reserve")
	assert.False(t, trx.Has(storage.Pool.Balances, storage.NewKey().Uint32(uint32(property)).Address(a)), "empty tally removed")
}

func TestMove(t *testing.T) {
	db, trx := begin(t)
	defer db.Close()
	defer trx.Abort()

	a := fixtures.Address(1)
	b := fixtures.Address(2)

	assert.Nil(t, tally.Update(trx, a, property, 50, tally.Available), "credit")

	assert.Nil(t, tally.Move(trx, property, a, tally.Available, b, tally.Available, 20), "move")
	assert.Equal(t, int64(30), tally.Balance(trx, a, property, tally.Available), "sender")
	assert.Equal(t, int64(20), tally.Balance(trx, b, property, tally.Available), "receiver")

	err := tally.Move(trx, property, a, tally.Available, b, tally.Available, 31)
	assert.Equal(t, fault.ErrInsufficientBalance, err, "too much")
	assert.Equal(t, int64(30), tally.Balance(trx, a, property, tally.Available), "sender unchanged")

	assert.Nil(t, tally.Move(trx, property, a, tally.Available, a, tally.SellOfferReserve, 10), "reserve")
	assert.Equal(t, tally.Tally{20, 10, 0, 0}, tally.Get(trx, a, property), "reserved")
}

func TestOwnersOrder(t *testing.T) {
	db, trx := begin(t)
	defer db.Close()
	defer trx.Abort()

	holdings := map[byte]int64{
		1: 20,
		2: 50,
		3: 30,
		4: 30,
	}
	for n, amount := range holdings {
		assert.Nil(t, tally.Update(trx, fixtures.Address(n), property, amount, tally.Available), "credit")
	}
	// reserves count towards the holding
	assert.Nil(t, tally.Update(trx, fixtures.Address(1), property, 5, tally.AcceptReserve), "reserve")
	// other properties are not included
	assert.Nil(t, tally.Update(trx, fixtures.Address(5), property+1, 999, tally.Available), "other")

	owners := tally.Owners(trx, property)
	if !assert.Len(t, owners, 4, "owners") {
		return
	}

	high, low := fixtures.Address(3), fixtures.Address(4)
	if high < low {
		high, low = low, high
	}
	expected := []tally.Holding{
		{Address: fixtures.Address(2), Amount: 50},
		{Address: high, Amount: 30},
		{Address: low, Amount: 30},
		{Address: fixtures.Address(1), Amount: 25},
	}
	assert.Equal(t, expected, owners, "ordering")
	assert.Equal(t, int64(135), tally.Total(trx, property), "total")
}

func TestBalances(t *testing.T) {
	db, trx := begin(t)
	defer db.Close()
	defer trx.Abort()

	a := fixtures.Address(1)
	assert.Nil(t, tally.Update(trx, a, 3, 10, tally.Available), "credit")
	assert.Nil(t, tally.Update(trx, a, 4, 20, tally.SellOfferReserve), "credit")
	assert.Nil(t, tally.Update(trx, fixtures.Address(2), 3, 30, tally.Available), "credit")

	balances := tally.Balances(trx, a)
	assert.Equal(t, map[transactionrecord.PropertyId]tally.Tally{
		3: {10, 0, 0, 0},
		4: {0, 20, 0, 0},
	}, balances, "balances")
}
