// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/elysiumd/checkpoint"
	"github.com/bitmark-inc/elysiumd/fixtures"
	"github.com/bitmark-inc/elysiumd/logic"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/tally"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
	"github.com/bitmark-inc/logger"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func packed(t *testing.T, p transactionrecord.Payload) []byte {
	b, err := p.Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}
	return b
}

func TestDecodePacket(t *testing.T) {
	send := &transactionrecord.SimpleSend{
		Header:   transactionrecord.NewHeader(transactionrecord.SimpleSendTag, 0),
		Property: 3,
		Amount:   1234,
	}
	d, err := decodePacket(hex.EncodeToString(packed(t, send)))
	if nil != err {
		t.Fatalf("decode error: %s", err)
	}
	assert.Equal(t, "Simple Send", d.TypeName, "type name")
	assert.Equal(t, uint16(0), d.Type, "type")
	assert.Equal(t, uint16(0), d.Version, "version")
	assert.Equal(t, 16, d.Length, "length")
	assert.Equal(t, send, d.Payload, "payload")

	_, err = decodePacket("zz")
	assert.NotNil(t, err, "not hex")

	_, err = decodePacket("0000")
	assert.NotNil(t, err, "too short")
}

func TestParseAmount(t *testing.T) {
	items := []struct {
		s         string
		divisible bool
		amount    uint64
		ok        bool
	}{
		{"1", false, 1, true},
		{"1.5", true, 150000000, true},
		{"0.00000001", true, 1, true},
		{"92233720368.54775807", true, 9223372036854775807, true},
		{"92233720368.54775808", true, 0, false},
		{"0.000000001", true, 0, false},
		{"1.5", false, 0, false},
		{"0", false, 0, false},
		{"-2", false, 0, false},
		{"two", false, 0, false},
	}

	for i, item := range items {
		amount, err := parseAmount(item.s, item.divisible)
		if item.ok {
			assert.Nil(t, err, "%d: error", i)
			assert.Equal(t, item.amount, amount, "%d: amount", i)
		} else {
			assert.NotNil(t, err, "%d: expected error for: %q", i, item.s)
		}
	}
}

func TestCheckAddress(t *testing.T) {
	params := fixtures.Params()

	info := checkAddress(params, fixtures.Address(1))
	assert.True(t, info.Valid, "valid")
	assert.False(t, info.FeatureAdmin, "not admin")
	assert.Equal(t, params.Name, info.Chain, "chain")

	info = checkAddress(params, params.FeatureAdmins[0])
	assert.True(t, info.FeatureAdmin, "admin")

	info = checkAddress(params, params.PropertyCreationFeeReceiver)
	assert.True(t, info.FeeReceiver, "fee receiver")

	assert.False(t, checkAddress(params, "not-an-address").Valid, "invalid")
}

func TestPreviewLeavesLedgerUnchanged(t *testing.T) {
	db, err := storage.OpenMemory()
	if nil != err {
		t.Fatalf("open memory database error: %s", err)
	}
	defer db.Close()

	a1, a2 := fixtures.Address(1), fixtures.Address(2)

	trx, err := db.Begin(-1, 0)
	if nil != err {
		t.Fatalf("begin error: %s", err)
	}
	assert.Nil(t, tally.Update(trx, a1, transactionrecord.ElysiumProperty, 500, tally.Available), "credit")
	assert.Nil(t, trx.Commit(), "commit")

	before := checkpoint.Hash(db)

	in := &previewInput{
		sender:    a1,
		receiver:  a2,
		block:     100,
		blockTime: 1600000000,
		payload: packed(t, &transactionrecord.SimpleSend{
			Header:   transactionrecord.NewHeader(transactionrecord.SimpleSendTag, 0),
			Property: transactionrecord.ElysiumProperty,
			Amount:   200,
		}),
	}

	log := logger.New(fixtures.LogCategory)
	result, err := preview(log, db, fixtures.Params(), in)
	if nil != err {
		t.Fatalf("preview error: %s", err)
	}
	assert.Equal(t, logic.ResultSuccess, result.Result, "result")
	assert.Equal(t, logic.CategorySuccess.String(), result.Category, "category")
	assert.Equal(t, int64(300), result.Balances[a1][transactionrecord.ElysiumProperty][tally.Available], "sender in view")
	assert.Equal(t, int64(200), result.Balances[a2][transactionrecord.ElysiumProperty][tally.Available], "receiver in view")
	assert.NotEqual(t, before, result.Hash, "view hash moved")

	assert.Equal(t, before, checkpoint.Hash(db), "ledger unchanged")
	assert.Equal(t, int64(500), tally.Balance(db, a1, transactionrecord.ElysiumProperty, tally.Available), "sender unchanged")

	// over spending is reported, not applied
	in.payload = packed(t, &transactionrecord.SimpleSend{
		Header:   transactionrecord.NewHeader(transactionrecord.SimpleSendTag, 0),
		Property: transactionrecord.ElysiumProperty,
		Amount:   900,
	})
	result, err = preview(log, db, fixtures.Params(), in)
	if nil != err {
		t.Fatalf("preview error: %s", err)
	}
	assert.Equal(t, logic.CategoryFunds.String(), result.Category, "insufficient funds")
}
