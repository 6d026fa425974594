// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package crowdsale - active crowdsales and their contributions
//
// an issuer has at most one active crowdsale; tokens sent to the
// issuer in the crowdsale's desired property buy newly created tokens
// of the crowdsale's property
package crowdsale

import (
	"math/big"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
	"github.com/bitmark-inc/elysiumd/util"
	"github.com/bitmark-inc/logger"
)

// seconds in the early bird bonus period
const secondsPerWeek = 7 * 24 * 60 * 60

// Crowdsale - an active crowdsale
type Crowdsale struct {
	Issuer           string                       `json:"issuer"`
	Property         transactionrecord.PropertyId `json:"property"`
	Desired          transactionrecord.PropertyId `json:"desired"`
	TokensPerUnit    int64                        `json:"tokensPerUnit"`
	Deadline         int64                        `json:"deadline"`
	EarlyBird        uint8                        `json:"earlyBird"`
	IssuerPercentage uint8                        `json:"issuerPercentage"`
	Created          int64                        `json:"created"`
	IssuerCreated    int64                        `json:"issuerCreated"`
	Block            int                          `json:"block"`
	Txid             chainhash.Hash               `json:"txid"`
}

// Contribution - one purchase of crowdsale tokens
type Contribution struct {
	Txid          chainhash.Hash `json:"txid"`
	Contributor   string         `json:"contributor"`
	Amount        int64          `json:"amount"`
	Tokens        int64          `json:"tokens"`
	IssuerTokens  int64          `json:"issuerTokens"`
	BlockTime     int64          `json:"blockTime"`
	MaxTokensUsed bool           `json:"maxTokensUsed"`
}

func crowdsaleKey(issuer string) []byte {
	return storage.NewKey().Address(issuer)
}

func contributionKey(property transactionrecord.PropertyId, txid chainhash.Hash) []byte {
	return storage.NewKey().Uint32(uint32(property)).Bytes(txid[:])
}

// Start - record a new active crowdsale
func Start(h storage.Handle, c *Crowdsale) error {
	if h.Has(storage.Pool.Crowdsales, crowdsaleKey(c.Issuer)) {
		return fault.ErrActiveCrowdsaleExists
	}
	put(h, c)
	return nil
}

// Get - the active crowdsale of an issuer
func Get(r storage.Reader, issuer string) (*Crowdsale, error) {
	buffer := r.Get(storage.Pool.Crowdsales, crowdsaleKey(issuer))
	if nil == buffer {
		return nil, fault.ErrCrowdsaleNotFound
	}
	return unpack(issuer, buffer)
}

// ForProperty - the active crowdsale selling a property
func ForProperty(r storage.Reader, property transactionrecord.PropertyId) (*Crowdsale, error) {
	for _, c := range Active(r) {
		if c.Property == property {
			return c, nil
		}
	}
	return nil, fault.ErrCrowdsaleNotFound
}

// Active - every active crowdsale in issuer order
func Active(r storage.Reader) []*Crowdsale {
	result := make([]*Crowdsale, 0, 8)
	_ = r.Map(storage.Pool.Crowdsales, nil, func(key []byte, value []byte) error {
		issuer := storage.NewKeyReader(key).Address()
		c, err := unpack(issuer, value)
		if nil != err {
			logger.Panicf("crowdsale: corrupt record: %x", key)
		}
		result = append(result, c)
		return nil
	})
	return result
}

// Close - end the active crowdsale of an issuer
func Close(h storage.Handle, issuer string) error {
	if !h.Has(storage.Pool.Crowdsales, crowdsaleKey(issuer)) {
		return fault.ErrCrowdsaleNotFound
	}
	h.Delete(storage.Pool.Crowdsales, crowdsaleKey(issuer))
	return nil
}

// Contribute - record a purchase and add its tokens to the totals
func Contribute(h storage.Handle, c *Crowdsale, contribution *Contribution) {
	c.Created += contribution.Tokens
	c.IssuerCreated += contribution.IssuerTokens
	put(h, c)

	r := util.Record{}.
		AppendString(contribution.Contributor).
		AppendInt64(contribution.Amount).
		AppendInt64(contribution.Tokens).
		AppendInt64(contribution.IssuerTokens).
		AppendInt64(contribution.BlockTime).
		AppendBool(contribution.MaxTokensUsed)
	h.Put(storage.Pool.Contributions, contributionKey(c.Property, contribution.Txid), r)
}

// Contributions - every purchase of a property's tokens in txid order
func Contributions(r storage.Reader, property transactionrecord.PropertyId) []*Contribution {
	result := make([]*Contribution, 0, 8)
	prefix := storage.NewKey().Uint32(uint32(property))
	_ = r.Map(storage.Pool.Contributions, prefix, func(key []byte, value []byte) error {
		c := &Contribution{}
		copy(c.Txid[:], key[4:])
		rr := util.NewRecordReader(value)
		c.Contributor = rr.String()
		c.Amount = rr.Int64()
		c.Tokens = rr.Int64()
		c.IssuerTokens = rr.Int64()
		c.BlockTime = rr.Int64()
		c.MaxTokensUsed = rr.Bool()
		if nil != rr.Err() {
			logger.Panicf("crowdsale: corrupt contribution: %x", key)
		}
		result = append(result, c)
		return nil
	})
	return result
}

// Purchase - tokens created by a contribution
//
// tokens = amount × tokens per unit × (100 + bonus) / 100 / unit,
// where unit is 10^8 if the desired property is divisible and bonus is
// whole weeks left before the deadline × the early bird percentage;
// issuer tokens = tokens × issuer percentage / 100.  both truncate.
// the results are limited so the property supply does not exceed the
// maximum, in which case limited is true.
func Purchase(c *Crowdsale, amount int64, desiredDivisible bool, blockTime int64, supply int64) (tokens int64, issuerTokens int64, limited bool) {
	bonus := int64(0)
	if c.Deadline > blockTime {
		bonus = ((c.Deadline - blockTime) / secondsPerWeek) * int64(c.EarlyBird)
	}

	t := new(big.Int).Mul(big.NewInt(amount), big.NewInt(c.TokensPerUnit))
	t.Mul(t, big.NewInt(100+bonus))
	t.Quo(t, big.NewInt(100))
	if desiredDivisible {
		t.Quo(t, big.NewInt(100000000))
	}

	i := new(big.Int).Mul(t, big.NewInt(int64(c.IssuerPercentage)))
	i.Quo(i, big.NewInt(100))

	room := new(big.Int).Sub(new(big.Int).SetUint64(transactionrecord.MaxTokens), big.NewInt(supply))
	total := new(big.Int).Add(t, i)
	if total.Cmp(room) <= 0 {
		return t.Int64(), i.Int64(), false
	}

	// split what is left in the same proportion
	i.Mul(room, big.NewInt(int64(c.IssuerPercentage)))
	i.Quo(i, big.NewInt(100+int64(c.IssuerPercentage)))
	t.Sub(room, i)
	return t.Int64(), i.Int64(), true
}

func put(h storage.Handle, c *Crowdsale) {
	r := util.Record{}.
		AppendUint32(uint32(c.Property)).
		AppendUint32(uint32(c.Desired)).
		AppendInt64(c.TokensPerUnit).
		AppendInt64(c.Deadline).
		AppendUint8(c.EarlyBird).
		AppendUint8(c.IssuerPercentage).
		AppendInt64(c.Created).
		AppendInt64(c.IssuerCreated).
		AppendInt64(int64(c.Block)).
		AppendBytes(c.Txid[:])
	h.Put(storage.Pool.Crowdsales, crowdsaleKey(c.Issuer), r)
}

func unpack(issuer string, buffer []byte) (*Crowdsale, error) {
	r := util.NewRecordReader(buffer)
	c := &Crowdsale{
		Issuer:           issuer,
		Property:         transactionrecord.PropertyId(r.Uint32()),
		Desired:          transactionrecord.PropertyId(r.Uint32()),
		TokensPerUnit:    r.Int64(),
		Deadline:         r.Int64(),
		EarlyBird:        r.Uint8(),
		IssuerPercentage: r.Uint8(),
		Created:          r.Int64(),
		IssuerCreated:    r.Int64(),
		Block:            int(r.Int64()),
	}
	copy(c.Txid[:], r.Bytes())
	if nil != r.Err() {
		return nil, r.Err()
	}
	return c, nil
}
