// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package feature - protocol feature activations and alerts
//
// a feature is live from its activation block onwards.  features
// listed in the chain parameters are live from genesis unless they
// are deactivated.
package feature

import (
	"github.com/bitmark-inc/elysiumd/chain"
	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/util"
	"github.com/bitmark-inc/logger"
)

// Id - feature identifier
type Id uint16

// known features
const (
	ClassC        = Id(1)
	MetaDEx       = Id(2)
	SendToOwners  = Id(10) // cross property send to owners
	SendAll       = Id(13)
	Freezing      = Id(14)
	FreeDEx       = Id(15) // MetaDEx pairs without the native token
	Sigma         = Id(16)
	SigmaSpendV1  = Id(17) // signed spends
	firstReserved = Id(65000)
)

var names = map[Id]string{
	ClassC:       "Class C transaction encoding",
	MetaDEx:      "Distributed Meta Token Exchange",
	SendToOwners: "Cross-property Send To Owners",
	SendAll:      "Send All transactions",
	Freezing:     "Freeze tokens",
	FreeDEx:      "Trading of any property on the MetaDEx",
	Sigma:        "Sigma privacy",
	SigmaSpendV1: "Signed sigma spends",
}

// Known - true if the feature is implemented
func (id Id) Known() bool {
	_, ok := names[id]
	return ok
}

// String - name of the feature
func (id Id) String() string {
	if name, ok := names[id]; ok {
		return name
	}
	return "*unknown*"
}

// Activation - the state of a feature that has been activated or
// deactivated by a message
type Activation struct {
	Feature          Id     `json:"feature"`
	Active           bool   `json:"active"`
	Block            int    `json:"block"`
	MinClientVersion uint32 `json:"minClientVersion"`
}

func featureKey(id Id) []byte {
	return storage.NewKey().Uint16(uint16(id))
}

// Get - the stored activation of a feature, nil if none
func Get(r storage.Reader, id Id) *Activation {
	buffer := r.Get(storage.Pool.Features, featureKey(id))
	if nil == buffer {
		return nil
	}
	return unpack(id, buffer)
}

func unpack(id Id, buffer []byte) *Activation {
	rr := util.NewRecordReader(buffer)
	a := &Activation{
		Feature:          id,
		Active:           rr.Bool(),
		Block:            int(rr.Int64()),
		MinClientVersion: rr.Uint32(),
	}
	if nil != rr.Err() {
		logger.Panicf("feature: corrupt record: %x", buffer)
	}
	return a
}

func put(h storage.Handle, a *Activation) {
	r := util.Record{}.
		AppendBool(a.Active).
		AppendInt64(int64(a.Block)).
		AppendUint32(a.MinClientVersion)
	h.Put(storage.Pool.Features, featureKey(a.Feature), r)
}

// IsActivated - true if the feature is live at a block
func IsActivated(r storage.Reader, params *chain.Params, id Id, block int) bool {
	if a := Get(r, id); nil != a {
		return a.Active && block >= a.Block
	}
	for _, f := range params.GenesisFeatures {
		if Id(f) == id {
			return true
		}
	}
	return false
}

// Activate - schedule a feature to go live at a future block
//
// a feature that is live or pending cannot be activated again.  the
// activation block must be inside the chain's delay window
// relative to the block carrying the message; returns true if this
// client is too old for the feature
func Activate(h storage.Handle, params *chain.Params, id Id, activationBlock int, minClientVersion uint32, block int) (bool, error) {
	if !id.Known() || id >= firstReserved {
		return false, fault.ErrUnsupportedFeature
	}
	if activationBlock < block+params.MinActivationDelay || activationBlock > block+params.MaxActivationDelay {
		return false, fault.ErrInvalidActivation
	}
	if a := Get(h, id); (nil != a && a.Active) || IsActivated(h, params, id, block) {
		return false, fault.ErrFeatureAlreadyActivated
	}
	put(h, &Activation{
		Feature:          id,
		Active:           true,
		Block:            activationBlock,
		MinClientVersion: minClientVersion,
	})
	return minClientVersion > chain.ClientVersion, nil
}

// Deactivate - turn a live or pending feature off from a block
func Deactivate(h storage.Handle, params *chain.Params, id Id, block int) error {
	if !id.Known() {
		return fault.ErrUnsupportedFeature
	}
	a := Get(h, id)
	pending := nil != a && a.Active
	if !pending && !IsActivated(h, params, id, block) {
		return fault.ErrPendingNotFound
	}
	put(h, &Activation{
		Feature: id,
		Active:  false,
		Block:   block,
	})
	return nil
}

// Activations - every stored activation in feature order
func Activations(r storage.Reader) []*Activation {
	result := make([]*Activation, 0, 8)
	_ = r.Map(storage.Pool.Features, nil, func(key []byte, value []byte) error {
		id := Id(storage.NewKeyReader(key).Uint16())
		result = append(result, unpack(id, value))
		return nil
	})
	return result
}
