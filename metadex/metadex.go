// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package metadex - the order book of the token to token exchange
//
// an order offers an amount of one property for an amount of another;
// the unsold remainder is held in the owner's MetaDEx reserve.  the
// price of an order is fixed by its original amounts and never
// changes as it is partially filled.
package metadex

import (
	"math/big"
	"sort"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/shopspring/decimal"

	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/tally"
	"github.com/bitmark-inc/elysiumd/transaction"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
	"github.com/bitmark-inc/elysiumd/util"
	"github.com/bitmark-inc/logger"
)

// places shown for a unit price
const pricePlaces = 8

// Order - an open order
type Order struct {
	Address         string                       `json:"address"`
	Property        transactionrecord.PropertyId `json:"property"`
	Amount          int64                        `json:"amount"`
	Remaining       int64                        `json:"remaining"`
	DesiredProperty transactionrecord.PropertyId `json:"desiredProperty"`
	DesiredAmount   int64                        `json:"desiredAmount"`
	Position        transaction.Position         `json:"position"`
	Txid            chainhash.Hash               `json:"txid"`
}

// Fill - one trade between a new order and a resting order
type Fill struct {
	Maker    *Order `json:"maker"`
	Sold     int64  `json:"sold"`     // of the taker's property
	Received int64  `json:"received"` // of the taker's desired property
}

// price as desired units per offered unit
func (o *Order) price() *big.Rat {
	return new(big.Rat).SetFrac(big.NewInt(o.DesiredAmount), big.NewInt(o.Amount))
}

// UnitPrice - desired units per offered unit, for display
func (o *Order) UnitPrice() decimal.Decimal {
	if 0 == o.Amount {
		return decimal.Zero
	}
	return decimal.NewFromInt(o.DesiredAmount).DivRound(decimal.NewFromInt(o.Amount), pricePlaces)
}

// SamePrice - true if the order's price equals amount : desired
func (o *Order) SamePrice(amount int64, desired int64) bool {
	a := new(big.Int).Mul(big.NewInt(o.DesiredAmount), big.NewInt(amount))
	b := new(big.Int).Mul(big.NewInt(desired), big.NewInt(o.Amount))
	return 0 == a.Cmp(b)
}

// desiredFor - what the order still wants for a remaining amount,
// rounded down
func (o *Order) desiredFor(remaining int64) int64 {
	n := new(big.Int).Mul(big.NewInt(remaining), big.NewInt(o.DesiredAmount))
	return n.Quo(n, big.NewInt(o.Amount)).Int64()
}

func orderKey(o *Order) []byte {
	return storage.NewKey().
		Uint32(uint32(o.Property)).
		Uint32(uint32(o.DesiredProperty)).
		Block(o.Position.Block).
		Uint32(o.Position.Index)
}

func pairKey(property transactionrecord.PropertyId, desired transactionrecord.PropertyId) []byte {
	return storage.NewKey().Uint32(uint32(property)).Uint32(uint32(desired))
}

// Orders - the resting orders offering property for desired, best
// price first then oldest first
func Orders(r storage.Reader, property transactionrecord.PropertyId, desired transactionrecord.PropertyId) []*Order {
	orders := scan(r, pairKey(property, desired))
	sortByPriority(orders)
	return orders
}

// All - every resting order in key order
func All(r storage.Reader) []*Order {
	return scan(r, nil)
}

func scan(r storage.Reader, prefix []byte) []*Order {
	orders := make([]*Order, 0, 16)
	_ = r.Map(storage.Pool.Orders, prefix, func(key []byte, value []byte) error {
		o, err := unpack(key, value)
		if nil != err {
			logger.Panicf("metadex: corrupt order: %x", key)
		}
		orders = append(orders, o)
		return nil
	})
	return orders
}

// lowest price (desired per offered) first then oldest first
func sortByPriority(orders []*Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		c := orders[i].price().Cmp(orders[j].price())
		if 0 != c {
			return c < 0
		}
		// ascending chronology, the reverse of the record ordering
		return orders[j].Position.Less(orders[i].Position)
	})
}

// Insert - add an order without matching
//
// the remaining amount moves from the owner's available balance to
// the MetaDEx reserve
func Insert(h storage.Handle, o *Order) error {
	if o.Amount <= 0 || o.DesiredAmount <= 0 || o.Remaining <= 0 || o.Remaining > o.Amount {
		return fault.ErrInvalidAmount
	}
	if o.Property == o.DesiredProperty {
		return fault.ErrSameProperty
	}
	err := tally.Move(h, o.Property, o.Address, tally.Available, o.Address, tally.MetaDExReserve, o.Remaining)
	if nil != err {
		return err
	}
	put(h, o)
	return nil
}

// Remove - delete an order, returning its remainder to the owner
func Remove(h storage.Handle, o *Order) error {
	if !h.Has(storage.Pool.Orders, orderKey(o)) {
		return fault.ErrNoOrdersCancelled
	}
	err := tally.Move(h, o.Property, o.Address, tally.MetaDExReserve, o.Address, tally.Available, o.Remaining)
	if nil != err {
		return err
	}
	h.Delete(storage.Pool.Orders, orderKey(o))
	return nil
}

// Match - trade a new order against the book, then rest any remainder
//
// resting orders that offer the new order's desired property for its
// offered property are filled at their own price while that price is
// at least as good as the new order's.  a remainder too small to buy
// anything at the order's price is returned to the owner.
func Match(h storage.Handle, taker *Order) ([]Fill, error) {
	if taker.Amount <= 0 || taker.DesiredAmount <= 0 {
		return nil, fault.ErrInvalidAmount
	}
	if taker.Property == taker.DesiredProperty {
		return nil, fault.ErrSameProperty
	}
	taker.Remaining = taker.Amount
	if tally.Balance(h, taker.Address, taker.Property, tally.Available) < taker.Amount {
		return nil, fault.ErrInsufficientBalance
	}
	err := tally.Move(h, taker.Property, taker.Address, tally.Available, taker.Address, tally.MetaDExReserve, taker.Amount)
	if nil != err {
		return nil, err
	}

	// taker limit in taker property per desired unit
	limit := new(big.Rat).SetFrac(big.NewInt(taker.Amount), big.NewInt(taker.DesiredAmount))

	fills := make([]Fill, 0, 4)
	for _, maker := range Orders(h, taker.DesiredProperty, taker.Property) {
		if 0 == taker.Remaining {
			break
		}

		// maker price in taker property per desired unit
		if maker.price().Cmp(limit) > 0 {
			break
		}

		// desired units the taker's remainder buys at the maker's price
		canBuy := new(big.Int).Mul(big.NewInt(taker.Remaining), big.NewInt(maker.Amount))
		canBuy.Quo(canBuy, big.NewInt(maker.DesiredAmount))

		received := maker.Remaining
		if canBuy.IsInt64() && canBuy.Int64() < received {
			received = canBuy.Int64()
		}
		if 0 == received {
			break
		}

		// taker property paid, rounded up in the maker's favour
		paid := new(big.Int).Mul(big.NewInt(received), big.NewInt(maker.DesiredAmount))
		paid.Add(paid, big.NewInt(maker.Amount-1))
		paid.Quo(paid, big.NewInt(maker.Amount))
		sold := paid.Int64()
		if sold > taker.Remaining {
			sold = taker.Remaining
		}

		err := tally.Move(h, taker.Property, taker.Address, tally.MetaDExReserve, maker.Address, tally.Available, sold)
		if nil != err {
			return nil, err
		}
		err = tally.Move(h, maker.Property, maker.Address, tally.MetaDExReserve, taker.Address, tally.Available, received)
		if nil != err {
			return nil, err
		}

		taker.Remaining -= sold
		maker.Remaining -= received

		if 0 == maker.Remaining || 0 == maker.desiredFor(maker.Remaining) {
			if err := Remove(h, maker); nil != err {
				return nil, err
			}
		} else {
			put(h, maker)
		}

		fills = append(fills, Fill{Maker: maker, Sold: sold, Received: received})
	}

	if taker.Remaining > 0 && taker.desiredFor(taker.Remaining) > 0 {
		put(h, taker)
	} else if taker.Remaining > 0 {
		err := tally.Move(h, taker.Property, taker.Address, tally.MetaDExReserve, taker.Address, tally.Available, taker.Remaining)
		if nil != err {
			return nil, err
		}
	}
	return fills, nil
}

// CancelAtPrice - cancel an address's orders on a pair at one price
func CancelAtPrice(h storage.Handle, address string, property transactionrecord.PropertyId, amount int64, desired transactionrecord.PropertyId, desiredAmount int64) (int, error) {
	return cancel(h, pairKey(property, desired), func(o *Order) bool {
		return o.Address == address && o.SamePrice(amount, desiredAmount)
	})
}

// CancelPair - cancel all of an address's orders on a pair
func CancelPair(h storage.Handle, address string, property transactionrecord.PropertyId, desired transactionrecord.PropertyId) (int, error) {
	return cancel(h, pairKey(property, desired), func(o *Order) bool {
		return o.Address == address
	})
}

// CancelEcosystem - cancel all of an address's orders in an ecosystem
func CancelEcosystem(h storage.Handle, address string, ecosystem transactionrecord.Ecosystem) (int, error) {
	return cancel(h, nil, func(o *Order) bool {
		return o.Address == address && o.Property.Ecosystem() == ecosystem
	})
}

// remove the orders under a prefix accepted by the filter; fails if
// nothing matched
func cancel(h storage.Handle, prefix []byte, filter func(o *Order) bool) (int, error) {
	count := 0
	for _, o := range scan(h, prefix) {
		if !filter(o) {
			continue
		}
		if err := Remove(h, o); nil != err {
			return count, err
		}
		count += 1
	}
	if 0 == count {
		return 0, fault.ErrNoOrdersCancelled
	}
	return count, nil
}

func put(h storage.Handle, o *Order) {
	r := util.Record{}.
		AppendString(o.Address).
		AppendInt64(o.Amount).
		AppendInt64(o.Remaining).
		AppendInt64(o.DesiredAmount).
		AppendBytes(o.Txid[:])
	h.Put(storage.Pool.Orders, orderKey(o), r)
}

func unpack(key []byte, value []byte) (*Order, error) {
	kr := storage.NewKeyReader(key)
	o := &Order{
		Property:        transactionrecord.PropertyId(kr.Uint32()),
		DesiredProperty: transactionrecord.PropertyId(kr.Uint32()),
		Position: transaction.Position{
			Block: kr.Block(),
			Index: kr.Uint32(),
		},
	}
	if nil != kr.Err() {
		return nil, kr.Err()
	}

	r := util.NewRecordReader(value)
	o.Address = r.String()
	o.Amount = r.Int64()
	o.Remaining = r.Int64()
	o.DesiredAmount = r.Int64()
	copy(o.Txid[:], r.Bytes())
	if nil != r.Err() {
		return nil, r.Err()
	}
	return o, nil
}
