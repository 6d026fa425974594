// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package property - the registry of issued properties
package property

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/transaction"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
	"github.com/bitmark-inc/elysiumd/util"
)

// record layout version
const entryVersion = 1

// Entry - everything the registry knows about one property
type Entry struct {
	Issuer     string                         `json:"issuer"`
	Type       transactionrecord.PropertyType `json:"type"`
	PreviousId transactionrecord.PropertyId   `json:"previousId"`

	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Name        string `json:"name"`
	Url         string `json:"url"`
	Data        string `json:"data"`

	Fixed   bool  `json:"fixed"`
	Managed bool  `json:"managed"`
	Supply  int64 `json:"supply"`

	CreationTxid  chainhash.Hash `json:"creationTxid"`
	CreationBlock int            `json:"creationBlock"`

	// position of the last issuer change
	IssuerChanged transaction.Position `json:"issuerChanged"`

	// crowdsale terms, only for variable supply properties
	Desired          transactionrecord.PropertyId `json:"desired,omitempty"`
	TokensPerUnit    int64                        `json:"tokensPerUnit,omitempty"`
	Deadline         int64                        `json:"deadline,omitempty"`
	EarlyBird        uint8                        `json:"earlyBird,omitempty"`
	IssuerPercentage uint8                        `json:"issuerPercentage,omitempty"`
	ClosedEarly      bool                         `json:"closedEarly,omitempty"`
	MaxTokensReached bool                         `json:"maxTokensReached,omitempty"`

	SigmaStatus transactionrecord.SigmaStatus `json:"sigmaStatus"`
}

// Divisible - true if amounts have eight decimal places
func (e *Entry) Divisible() bool {
	return e.Type.Divisible()
}

// Crowdsale - true if created by a variable supply creation
func (e *Entry) Crowdsale() bool {
	return !e.Fixed && !e.Managed
}

// native ecosystem tokens are not in the registry
var native = map[transactionrecord.PropertyId]Entry{
	transactionrecord.ElysiumProperty: {
		Type:  transactionrecord.DivisibleProperty,
		Name:  "Elysium",
		Fixed: true,
	},
	transactionrecord.TestElysiumProperty: {
		Type:  transactionrecord.DivisibleProperty,
		Name:  "Test Elysium",
		Fixed: true,
	},
}

func propertyKey(id transactionrecord.PropertyId) []byte {
	return storage.NewKey().Uint32(uint32(id))
}

func ecosystemKey(ecosystem transactionrecord.Ecosystem) []byte {
	return storage.NewKey().Uint8(uint8(ecosystem))
}

// Create - register a new property in an ecosystem
//
// ids are allocated consecutively from the first id of the ecosystem
func Create(h storage.Handle, ecosystem transactionrecord.Ecosystem, entry *Entry) (transactionrecord.PropertyId, error) {
	if !ecosystem.Valid() {
		return 0, fault.ErrInvalidEcosystem
	}
	id := NextId(h, ecosystem)
	if id.Ecosystem() != ecosystem {
		return 0, fault.ErrSupplyOverflow
	}

	h.Put(storage.Pool.Properties, propertyKey(id), pack(entry))
	h.PutN(storage.Pool.NextProperty, ecosystemKey(ecosystem), uint64(id)+1)
	return id, nil
}

// NextId - the id the next created property will receive
func NextId(r storage.Reader, ecosystem transactionrecord.Ecosystem) transactionrecord.PropertyId {
	next, found := r.GetN(storage.Pool.NextProperty, ecosystemKey(ecosystem))
	if !found {
		return ecosystem.FirstProperty()
	}
	return transactionrecord.PropertyId(next)
}

// Has - check if a property exists
func Has(r storage.Reader, id transactionrecord.PropertyId) bool {
	if _, ok := native[id]; ok {
		return true
	}
	return r.Has(storage.Pool.Properties, propertyKey(id))
}

// Get - fetch a property entry
func Get(r storage.Reader, id transactionrecord.PropertyId) (*Entry, error) {
	if e, ok := native[id]; ok {
		return &e, nil
	}
	buffer := r.Get(storage.Pool.Properties, propertyKey(id))
	if nil == buffer {
		return nil, fault.ErrPropertyNotFound
	}
	return unpack(buffer)
}

// Update - replace an existing property entry
func Update(h storage.Handle, id transactionrecord.PropertyId, entry *Entry) error {
	if _, ok := native[id]; ok {
		return fault.ErrNotIssuer
	}
	if !h.Has(storage.Pool.Properties, propertyKey(id)) {
		return fault.ErrPropertyNotFound
	}
	h.Put(storage.Pool.Properties, propertyKey(id), pack(entry))
	return nil
}

// UpdateIssuer - change the issuer of a property
//
// the change only applies if it is more recent than the last change,
// so replaying changes in any order leaves the most recent issuer
func UpdateIssuer(h storage.Handle, id transactionrecord.PropertyId, issuer string, at transaction.Position) error {
	entry, err := Get(h, id)
	if nil != err {
		return err
	}
	if !at.Less(entry.IssuerChanged) {
		return fault.ErrIdentityChangeOutOfOrder
	}
	entry.Issuer = issuer
	entry.IssuerChanged = at
	return Update(h, id, entry)
}

// List - every registered property of an ecosystem in id order
func List(r storage.Reader, ecosystem transactionrecord.Ecosystem) []transactionrecord.PropertyId {
	ids := make([]transactionrecord.PropertyId, 0, 16)
	_ = r.Map(storage.Pool.Properties, nil, func(key []byte, value []byte) error {
		id := transactionrecord.PropertyId(storage.NewKeyReader(key).Uint32())
		if id.Ecosystem() == ecosystem {
			ids = append(ids, id)
		}
		return nil
	})
	return ids
}

func pack(e *Entry) []byte {
	r := util.Record{}.
		AppendUint8(entryVersion).
		AppendString(e.Issuer).
		AppendUint16(uint16(e.Type)).
		AppendUint32(uint32(e.PreviousId)).
		AppendString(e.Category).
		AppendString(e.Subcategory).
		AppendString(e.Name).
		AppendString(e.Url).
		AppendString(e.Data).
		AppendBool(e.Fixed).
		AppendBool(e.Managed).
		AppendInt64(e.Supply).
		AppendBytes(e.CreationTxid[:]).
		AppendInt64(int64(e.CreationBlock)).
		AppendInt64(int64(e.IssuerChanged.Block)).
		AppendUint32(e.IssuerChanged.Index).
		AppendUint32(uint32(e.Desired)).
		AppendInt64(e.TokensPerUnit).
		AppendInt64(e.Deadline).
		AppendUint8(e.EarlyBird).
		AppendUint8(e.IssuerPercentage).
		AppendBool(e.ClosedEarly).
		AppendBool(e.MaxTokensReached).
		AppendUint8(uint8(e.SigmaStatus))
	return r
}

func unpack(buffer []byte) (*Entry, error) {
	r := util.NewRecordReader(buffer)
	if entryVersion != r.Uint8() {
		return nil, fault.ErrCorruptRecord
	}
	e := &Entry{
		Issuer:      r.String(),
		Type:        transactionrecord.PropertyType(r.Uint16()),
		PreviousId:  transactionrecord.PropertyId(r.Uint32()),
		Category:    r.String(),
		Subcategory: r.String(),
		Name:        r.String(),
		Url:         r.String(),
		Data:        r.String(),
		Fixed:       r.Bool(),
		Managed:     r.Bool(),
		Supply:      r.Int64(),
	}
	copy(e.CreationTxid[:], r.Bytes())
	e.CreationBlock = int(r.Int64())
	e.IssuerChanged.Block = int(r.Int64())
	e.IssuerChanged.Index = r.Uint32()
	e.Desired = transactionrecord.PropertyId(r.Uint32())
	e.TokensPerUnit = r.Int64()
	e.Deadline = r.Int64()
	e.EarlyBird = r.Uint8()
	e.IssuerPercentage = r.Uint8()
	e.ClosedEarly = r.Bool()
	e.MaxTokensReached = r.Bool()
	e.SigmaStatus = transactionrecord.SigmaStatus(r.Uint8())

	if nil != r.Err() {
		return nil, r.Err()
	}
	return e, nil
}
