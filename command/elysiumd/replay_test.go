// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/elysiumd/background"
	"github.com/bitmark-inc/elysiumd/checkpoint"
	"github.com/bitmark-inc/elysiumd/fixtures"
	"github.com/bitmark-inc/elysiumd/logic"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/tally"
	"github.com/bitmark-inc/elysiumd/transaction"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
	"github.com/bitmark-inc/logger"
)

const (
	propertyId = transactionrecord.PropertyId(3)
	blockTime  = 1600000000
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func line(t *testing.T, n byte, block int, index uint32, sender string, receiver string, payload []byte) string {
	item := map[string]interface{}{
		"txid":        chainhash.Hash{n}.String(),
		"block":       block,
		"index":       index,
		"blockTime":   blockTime + int64(block),
		"packetClass": transaction.ClassC,
		"sender":      sender,
		"receiver":    receiver,
		"payload":     hex.EncodeToString(payload),
	}
	b, err := json.Marshal(item)
	if nil != err {
		t.Fatalf("marshal error: %s", err)
	}
	return string(b)
}

func pack(t *testing.T, p transactionrecord.Payload) []byte {
	packed, err := p.Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}
	return packed
}

func create(t *testing.T) []byte {
	return pack(t, &transactionrecord.CreatePropertyFixed{
		Header: transactionrecord.NewHeader(transactionrecord.CreatePropertyFixedTag, 0),
		PropertyInfo: transactionrecord.PropertyInfo{
			Ecosystem:    transactionrecord.MainEcosystem,
			PropertyType: transactionrecord.IndivisibleProperty,
			Name:         "replayed",
		},
		Amount: 1000,
	})
}

func send(t *testing.T, amount uint64) []byte {
	return pack(t, &transactionrecord.SimpleSend{
		Header:   transactionrecord.NewHeader(transactionrecord.SimpleSendTag, 0),
		Property: propertyId,
		Amount:   amount,
	})
}

func setup(t *testing.T) (*storage.Database, *replayer) {
	db, err := storage.OpenMemory()
	if nil != err {
		t.Fatalf("open memory database error: %s", err)
	}
	log := logger.New(fixtures.LogCategory)
	executor := logic.New(log, db, fixtures.Params(), nil, nil)
	return db, newReplayer(log, db, executor)
}

func TestReplay(t *testing.T) {
	a1, a2 := fixtures.Address(1), fixtures.Address(2)

	feed := strings.Join([]string{
		"# extracted packets",
		line(t, 1, 100, 1, a1, "", create(t)),
		line(t, 2, 100, 2, a1, a2, send(t, 100)),
		"",
		line(t, 3, 101, 1, a1, a2, send(t, 50)),
		line(t, 4, 101, 2, a1, a2, []byte{0x00}),
	}, "\n")

	db, r := setup(t)
	defer db.Close()

	err := r.run(strings.NewReader(feed), nil)
	assert.Nil(t, err, "replay")
	assert.Equal(t, int64(850), tally.Balance(db, a1, propertyId, tally.Available), "sender")
	assert.Equal(t, int64(150), tally.Balance(db, a2, propertyId, tally.Available), "receiver")

	s := r.summary()
	assert.Equal(t, 4, s.Executed, "executed")
	assert.Equal(t, 1, s.Undecoded, "undecoded")
	assert.Equal(t, 2, s.Blocks, "blocks")
	assert.Equal(t, 3, s.Results[logic.CategorySuccess.String()], "successes")

	h := logic.History(db, chainhash.Hash{3})
	if assert.NotNil(t, h, "history") {
		assert.Equal(t, 101, h.Block, "block")
		assert.Equal(t, uint32(1), h.Index, "index")
	}

	// a second pass over the same feed skips what was executed
	executor := logic.New(logger.New(fixtures.LogCategory), db, fixtures.Params(), nil, nil)
	r = newReplayer(logger.New(fixtures.LogCategory), db, executor)
	err = r.run(strings.NewReader(feed), nil)
	assert.Nil(t, err, "second replay")
	assert.Equal(t, 3, r.summary().Skipped, "skipped")
	assert.Equal(t, int64(850), tally.Balance(db, a1, propertyId, tally.Available), "sender unchanged")
}

func TestReplayTwiceGivesSameLedger(t *testing.T) {
	a1, a2 := fixtures.Address(1), fixtures.Address(2)

	feed := strings.Join([]string{
		line(t, 1, 100, 1, a1, "", create(t)),
		line(t, 2, 100, 2, a2, a1, send(t, 100)),
		line(t, 3, 101, 1, a1, a2, send(t, 500)),
	}, "\n")

	db, r := setup(t)
	defer db.Close()

	err := r.run(strings.NewReader(feed), nil)
	assert.Nil(t, err, "replay")
	assert.Equal(t, int64(500), tally.Balance(db, a1, propertyId, tally.Available), "a1")
	assert.Equal(t, int64(500), tally.Balance(db, a2, propertyId, tally.Available), "a2")
	assert.Equal(t, 1, r.summary().Results[logic.CategoryFunds.String()], "send without funds")
	first := checkpoint.Hash(db)

	rejected := logic.History(db, chainhash.Hash{2})
	if assert.NotNil(t, rejected, "rejection recorded") {
		assert.False(t, rejected.Valid, "not valid")
		assert.Equal(t, logic.CategoryFunds, logic.CategoryOf(rejected.Result), "result")
	}

	executor := logic.New(logger.New(fixtures.LogCategory), db, fixtures.Params(), nil, nil)
	r = newReplayer(logger.New(fixtures.LogCategory), db, executor)
	err = r.run(strings.NewReader(feed), nil)
	assert.Nil(t, err, "second replay")
	assert.Equal(t, 3, r.summary().Skipped, "skipped")
	assert.Equal(t, 0, r.summary().Executed, "executed")
	assert.Equal(t, int64(500), tally.Balance(db, a1, propertyId, tally.Available), "a1 unchanged")
	assert.Equal(t, int64(500), tally.Balance(db, a2, propertyId, tally.Available), "a2 unchanged")
	assert.Equal(t, first, checkpoint.Hash(db), "same ledger")
}

func TestReplayReorganisation(t *testing.T) {
	a1, a2, a3 := fixtures.Address(1), fixtures.Address(2), fixtures.Address(3)

	feed := strings.Join([]string{
		line(t, 1, 100, 1, a1, "", create(t)),
		line(t, 2, 100, 2, a1, a2, send(t, 100)),
		line(t, 3, 101, 1, a1, a2, send(t, 50)),
		line(t, 4, 102, 1, a1, a2, send(t, 5)),
		line(t, 5, 101, 1, a1, a3, send(t, 30)),
	}, "\n")

	db, r := setup(t)
	defer db.Close()

	err := r.run(strings.NewReader(feed), nil)
	assert.Nil(t, err, "replay")
	assert.Equal(t, 2, r.summary().RolledBack, "positions undone")
	assert.Equal(t, int64(870), tally.Balance(db, a1, propertyId, tally.Available), "a1")
	assert.Equal(t, int64(100), tally.Balance(db, a2, propertyId, tally.Available), "a2")
	assert.Equal(t, int64(30), tally.Balance(db, a3, propertyId, tally.Available), "a3")
	assert.Nil(t, logic.History(db, chainhash.Hash{3}), "abandoned block history removed")
}

func TestReplayStops(t *testing.T) {
	a1 := fixtures.Address(1)
	feed := line(t, 1, 100, 1, a1, "", create(t))

	db, r := setup(t)
	defer db.Close()

	stop := make(chan struct{})
	close(stop)
	err := r.run(strings.NewReader(feed), stop)
	assert.Nil(t, err, "stopped replay")
	assert.Equal(t, 0, r.summary().Executed, "nothing executed")
}

func TestReplayInBackground(t *testing.T) {
	a1, a2 := fixtures.Address(1), fixtures.Address(2)
	feed := strings.Join([]string{
		line(t, 1, 100, 1, a1, "", create(t)),
		line(t, 2, 100, 2, a1, a2, send(t, 10)),
	}, "\n")

	db, r := setup(t)
	defer db.Close()

	p := &replayProcess{r: r, in: strings.NewReader(feed)}
	bg := background.Start(background.Processes{p}, nil)
	<-bg.Done()
	bg.Stop()

	assert.Nil(t, p.err, "replay")
	assert.Equal(t, 2, r.summary().Executed, "executed")
	assert.Equal(t, int64(10), tally.Balance(db, a2, propertyId, tally.Available), "receiver")
}

func TestReplayBadLine(t *testing.T) {
	db, r := setup(t)
	defer db.Close()

	err := r.run(strings.NewReader(`{"txid": "zz"}`), nil)
	assert.NotNil(t, err, "bad txid")

	err = r.run(strings.NewReader(`not json`), nil)
	assert.NotNil(t, err, "not json")
}

func TestWriteMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "replayed_total", Help: "replayed packets"})
	registry.MustRegister(c)
	c.Add(3)

	fileName := filepath.Join(t.TempDir(), "metrics.prom")
	assert.Nil(t, writeMetrics(registry, fileName), "write")

	b, err := os.ReadFile(fileName)
	assert.Nil(t, err, "read")
	assert.Contains(t, string(b), "replayed_total 3", "counter value")
}
