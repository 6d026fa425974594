// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package feature

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/bitmark-inc/elysiumd/chain"
	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/util"
	"github.com/bitmark-inc/logger"
)

// AlertType - how the expiry of an alert is measured
type AlertType uint16

// alert expiry kinds
const (
	BlockExpiry         = AlertType(1) // expiry is a block height
	BlockTimeExpiry     = AlertType(2) // expiry is a block timestamp
	ClientVersionExpiry = AlertType(3) // expiry is a client version
)

// Valid - true for a known alert type
func (t AlertType) Valid() bool {
	return t >= BlockExpiry && t <= ClientVersionExpiry
}

// Alert - an advisory message from a feature administrator
type Alert struct {
	Txid   chainhash.Hash `json:"txid"`
	Sender string         `json:"sender"`
	Type   AlertType      `json:"type"`
	Expiry uint32         `json:"expiry"`
	Text   string         `json:"text"`
	Block  int            `json:"block"`
}

// Expired - true once the alert no longer applies
func (a *Alert) Expired(block int, blockTime int64) bool {
	switch a.Type {
	case BlockExpiry:
		return int64(block) >= int64(a.Expiry)
	case BlockTimeExpiry:
		return blockTime >= int64(a.Expiry)
	case ClientVersionExpiry:
		return chain.ClientVersion >= a.Expiry
	default:
		return true
	}
}

// AddAlert - store an alert
func AddAlert(h storage.Handle, a *Alert) error {
	if !a.Type.Valid() {
		return fault.ErrInvalidAlertType
	}
	r := util.Record{}.
		AppendString(a.Sender).
		AppendUint16(uint16(a.Type)).
		AppendUint32(a.Expiry).
		AppendString(a.Text).
		AppendInt64(int64(a.Block))
	h.Put(storage.Pool.Alerts, a.Txid[:], r)
	return nil
}

// Alerts - every stored alert in txid order
func Alerts(r storage.Reader) []*Alert {
	result := make([]*Alert, 0, 4)
	_ = r.Map(storage.Pool.Alerts, nil, func(key []byte, value []byte) error {
		a := &Alert{}
		copy(a.Txid[:], key)
		rr := util.NewRecordReader(value)
		a.Sender = rr.String()
		a.Type = AlertType(rr.Uint16())
		a.Expiry = rr.Uint32()
		a.Text = rr.String()
		a.Block = int(rr.Int64())
		if nil != rr.Err() {
			logger.Panicf("feature: corrupt alert: %x", key)
		}
		result = append(result, a)
		return nil
	})
	return result
}

// ExpireAlerts - remove alerts that no longer apply, returns the
// number removed
func ExpireAlerts(h storage.Handle, block int, blockTime int64) int {
	count := 0
	for _, a := range Alerts(h) {
		if a.Expired(block, blockTime) {
			h.Delete(storage.Pool.Alerts, a.Txid[:])
			count += 1
		}
	}
	return count
}
