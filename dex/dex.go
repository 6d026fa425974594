// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package dex - sell offers and accepts of the distributed exchange
// against the base currency
//
// the tokens of an offer are held in the seller's sell offer reserve;
// an accept moves the accepted amount to the seller's accept reserve
// until it is paid for or expires
package dex

import (
	"math/big"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/tally"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
	"github.com/bitmark-inc/elysiumd/util"
	"github.com/bitmark-inc/logger"
)

// Offer - tokens offered for the base currency
type Offer struct {
	Seller         string                       `json:"seller"`
	Property       transactionrecord.PropertyId `json:"property"`
	Offered        int64                        `json:"offered"`
	Available      int64                        `json:"available"`
	Desired        btcutil.Amount               `json:"desired"`
	MinFee         btcutil.Amount               `json:"minFee"`
	BlockTimeLimit uint8                        `json:"blockTimeLimit"`
	Block          int                          `json:"block"`
	Txid           chainhash.Hash               `json:"txid"`
}

// Accept - a buyer's claim on part of an offer
type Accept struct {
	Seller         string                       `json:"seller"`
	Buyer          string                       `json:"buyer"`
	Property       transactionrecord.PropertyId `json:"property"`
	Amount         int64                        `json:"amount"`
	Desired        btcutil.Amount               `json:"desired"`
	Block          int                          `json:"block"`
	BlockTimeLimit uint8                        `json:"blockTimeLimit"`
	Txid           chainhash.Hash               `json:"txid"`
}

// Expired - true once the payment window of the accept has passed
func (a *Accept) Expired(height int) bool {
	return height > a.Block+int(a.BlockTimeLimit)
}

func offerKey(property transactionrecord.PropertyId, seller string) []byte {
	return storage.NewKey().Uint32(uint32(property)).Address(seller)
}

func acceptKey(property transactionrecord.PropertyId, seller string, buyer string) []byte {
	return storage.NewKey().Uint32(uint32(property)).Address(seller).Address(buyer)
}

// ScaleDesired - the base currency price of part of an offer
//
// desired × part / whole, rounded half up
func ScaleDesired(desired btcutil.Amount, part int64, whole int64) btcutil.Amount {
	if whole <= 0 || part >= whole {
		return desired
	}
	n := new(big.Int).Mul(big.NewInt(int64(desired)), big.NewInt(part))
	n.Mul(n, big.NewInt(2))
	n.Add(n, big.NewInt(whole))
	n.Quo(n, big.NewInt(2*whole))
	return btcutil.Amount(n.Int64())
}

// CreateOffer - reserve tokens and record a new offer
//
// an offer larger than the seller's balance is reduced to the balance
// and the desired amount scaled to match
func CreateOffer(h storage.Handle, o *Offer) error {
	if h.Has(storage.Pool.Offers, offerKey(o.Property, o.Seller)) {
		return fault.ErrOfferExists
	}
	if o.Offered <= 0 || o.Desired <= 0 {
		return fault.ErrInvalidAmount
	}

	balance := tally.Balance(h, o.Seller, o.Property, tally.Available)
	if 0 == balance {
		return fault.ErrInsufficientBalance
	}
	if o.Offered > balance {
		o.Desired = ScaleDesired(o.Desired, balance, o.Offered)
		o.Offered = balance
	}
	o.Available = o.Offered

	err := tally.Move(h, o.Property, o.Seller, tally.Available, o.Seller, tally.SellOfferReserve, o.Offered)
	if nil != err {
		return err
	}
	putOffer(h, o)
	return nil
}

// GetOffer - fetch the offer of a seller
func GetOffer(r storage.Reader, property transactionrecord.PropertyId, seller string) (*Offer, error) {
	buffer := r.Get(storage.Pool.Offers, offerKey(property, seller))
	if nil == buffer {
		return nil, fault.ErrOfferNotFound
	}
	return unpackOffer(property, seller, buffer)
}

// RemoveOffer - cancel an offer, returning the unaccepted tokens to
// the seller
//
// outstanding accepts are not affected
func RemoveOffer(h storage.Handle, property transactionrecord.PropertyId, seller string) error {
	o, err := GetOffer(h, property, seller)
	if nil != err {
		return err
	}
	err = tally.Move(h, property, seller, tally.SellOfferReserve, seller, tally.Available, o.Available)
	if nil != err {
		return err
	}
	h.Delete(storage.Pool.Offers, offerKey(property, seller))
	return nil
}

// Offers - every open offer, in property then seller order
func Offers(r storage.Reader) []*Offer {
	offers := make([]*Offer, 0, 16)
	_ = r.Map(storage.Pool.Offers, nil, func(key []byte, value []byte) error {
		kr := storage.NewKeyReader(key)
		property := transactionrecord.PropertyId(kr.Uint32())
		seller := kr.Address()
		o, err := unpackOffer(property, seller, value)
		if nil != err || nil != kr.Err() {
			logger.Panicf("dex: corrupt offer: %x", key)
		}
		offers = append(offers, o)
		return nil
	})
	return offers
}

// CreateAccept - claim part of an offer for a buyer
//
// the accepted amount is reduced to what the offer has left
func CreateAccept(h storage.Handle, a *Accept) error {
	if a.Buyer == a.Seller {
		return fault.ErrInvalidReceiver
	}
	if a.Amount <= 0 {
		return fault.ErrInvalidAmount
	}
	if h.Has(storage.Pool.Accepts, acceptKey(a.Property, a.Seller, a.Buyer)) {
		return fault.ErrAcceptExists
	}
	o, err := GetOffer(h, a.Property, a.Seller)
	if nil != err {
		return err
	}
	if 0 == o.Available {
		return fault.ErrOfferAmountMismatch
	}
	if a.Amount > o.Available {
		a.Amount = o.Available
	}
	a.Desired = ScaleDesired(o.Desired, a.Amount, o.Offered)
	a.BlockTimeLimit = o.BlockTimeLimit

	err = tally.Move(h, a.Property, a.Seller, tally.SellOfferReserve, a.Seller, tally.AcceptReserve, a.Amount)
	if nil != err {
		return err
	}
	o.Available -= a.Amount
	putOffer(h, o)
	putAccept(h, a)
	return nil
}

// GetAccept - fetch the accept of a buyer on a seller's offer
func GetAccept(r storage.Reader, property transactionrecord.PropertyId, seller string, buyer string) (*Accept, error) {
	buffer := r.Get(storage.Pool.Accepts, acceptKey(property, seller, buyer))
	if nil == buffer {
		return nil, fault.ErrAcceptNotFound
	}
	return unpackAccept(property, seller, buyer, buffer)
}

// Accepts - every open accept, in property, seller then buyer order
func Accepts(r storage.Reader) []*Accept {
	accepts := make([]*Accept, 0, 16)
	_ = r.Map(storage.Pool.Accepts, nil, func(key []byte, value []byte) error {
		kr := storage.NewKeyReader(key)
		property := transactionrecord.PropertyId(kr.Uint32())
		seller := kr.Address()
		buyer := kr.Address()
		a, err := unpackAccept(property, seller, buyer, value)
		if nil != err || nil != kr.Err() {
			logger.Panicf("dex: corrupt accept: %x", key)
		}
		accepts = append(accepts, a)
		return nil
	})
	return accepts
}

// Expire - release every accept whose payment window has passed
//
// the reserved tokens go back to the offer if it is still open,
// otherwise to the seller's available balance; returns the number of
// expired accepts
func Expire(h storage.Handle, height int) (int, error) {
	count := 0
	for _, a := range Accepts(h) {
		if !a.Expired(height) {
			continue
		}
		if err := release(h, a); nil != err {
			return count, err
		}
		count += 1
	}
	return count, nil
}

func release(h storage.Handle, a *Accept) error {
	o, err := GetOffer(h, a.Property, a.Seller)
	switch err {
	case nil:
		err = tally.Move(h, a.Property, a.Seller, tally.AcceptReserve, a.Seller, tally.SellOfferReserve, a.Amount)
		if nil != err {
			return err
		}
		o.Available += a.Amount
		putOffer(h, o)
	case fault.ErrOfferNotFound:
		err = tally.Move(h, a.Property, a.Seller, tally.AcceptReserve, a.Seller, tally.Available, a.Amount)
		if nil != err {
			return err
		}
	default:
		return err
	}
	h.Delete(storage.Pool.Accepts, acceptKey(a.Property, a.Seller, a.Buyer))
	return nil
}

func putOffer(h storage.Handle, o *Offer) {
	r := util.Record{}.
		AppendInt64(o.Offered).
		AppendInt64(o.Available).
		AppendInt64(int64(o.Desired)).
		AppendInt64(int64(o.MinFee)).
		AppendUint8(o.BlockTimeLimit).
		AppendInt64(int64(o.Block)).
		AppendBytes(o.Txid[:])
	h.Put(storage.Pool.Offers, offerKey(o.Property, o.Seller), r)
}

func unpackOffer(property transactionrecord.PropertyId, seller string, buffer []byte) (*Offer, error) {
	r := util.NewRecordReader(buffer)
	o := &Offer{
		Seller:         seller,
		Property:       property,
		Offered:        r.Int64(),
		Available:      r.Int64(),
		Desired:        btcutil.Amount(r.Int64()),
		MinFee:         btcutil.Amount(r.Int64()),
		BlockTimeLimit: r.Uint8(),
		Block:          int(r.Int64()),
	}
	copy(o.Txid[:], r.Bytes())
	if nil != r.Err() {
		return nil, r.Err()
	}
	return o, nil
}

func putAccept(h storage.Handle, a *Accept) {
	r := util.Record{}.
		AppendInt64(a.Amount).
		AppendInt64(int64(a.Desired)).
		AppendInt64(int64(a.Block)).
		AppendUint8(a.BlockTimeLimit).
		AppendBytes(a.Txid[:])
	h.Put(storage.Pool.Accepts, acceptKey(a.Property, a.Seller, a.Buyer), r)
}

func unpackAccept(property transactionrecord.PropertyId, seller string, buyer string, buffer []byte) (*Accept, error) {
	r := util.NewRecordReader(buffer)
	a := &Accept{
		Seller:         seller,
		Buyer:          buyer,
		Property:       property,
		Amount:         r.Int64(),
		Desired:        btcutil.Amount(r.Int64()),
		Block:          int(r.Int64()),
		BlockTimeLimit: r.Uint8(),
	}
	copy(a.Txid[:], r.Bytes())
	if nil != r.Err() {
		return nil, r.Err()
	}
	return a, nil
}
