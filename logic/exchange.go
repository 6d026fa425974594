// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package logic

import (
	"github.com/btcsuite/btcd/btcutil"

	"github.com/bitmark-inc/elysiumd/dex"
	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/elysiumd/feature"
	"github.com/bitmark-inc/elysiumd/metadex"
	"github.com/bitmark-inc/elysiumd/property"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/transaction"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
)

// only the native tokens trade against the base currency
func isNative(id transactionrecord.PropertyId) bool {
	return transactionrecord.ElysiumProperty == id || transactionrecord.TestElysiumProperty == id
}

func (e *Executor) tradeOffer(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.TradeOffer) error {
	if !isNative(p.Property) {
		return fault.ErrTradingNotAuthorised
	}
	sender := tx.Sender()

	offer := func() error {
		amount, err := toAmount(p.Amount)
		if nil != err {
			return err
		}
		desired, err := toAmount(p.AmountDesired)
		if nil != err {
			return err
		}
		if p.MinFee > transactionrecord.MaxTokens {
			return fault.ErrInvalidAmount
		}
		if err := checkNotFrozen(h, p.Property, sender); nil != err {
			return err
		}
		return dex.CreateOffer(h, &dex.Offer{
			Seller:         sender,
			Property:       p.Property,
			Offered:        amount,
			Desired:        btcutil.Amount(desired),
			MinFee:         btcutil.Amount(p.MinFee),
			BlockTimeLimit: p.BlockTimeLimit,
			Block:          tx.Block(),
			Txid:           tx.Txid(),
		})
	}

	switch p.SubAction {
	case transactionrecord.ActionNew:
		return offer()

	case transactionrecord.ActionUpdate:
		if err := dex.RemoveOffer(h, p.Property, sender); nil != err {
			return err
		}
		return offer()

	case transactionrecord.ActionCancel:
		return dex.RemoveOffer(h, p.Property, sender)

	default:
		return fault.ErrInvalidSubAction
	}
}

// the receiver of an accept is the seller
func (e *Executor) acceptOffer(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.AcceptOfferBTC) error {
	amount, err := toAmount(p.Amount)
	if nil != err {
		return err
	}
	seller, err := e.receiver(tx)
	if nil != err {
		return err
	}
	offer, err := dex.GetOffer(h, p.Property, seller)
	if nil != err {
		return err
	}
	if tx.FeePaid() < offer.MinFee {
		return fault.ErrInsufficientFee
	}
	return dex.CreateAccept(h, &dex.Accept{
		Seller:   seller,
		Buyer:    tx.Sender(),
		Property: p.Property,
		Amount:   amount,
		Block:    tx.Block(),
		Txid:     tx.Txid(),
	})
}

// both properties must exist in one ecosystem and, unless any pair may
// trade, one of them must be the native token
func (e *Executor) checkPair(r storage.Reader, block int, id transactionrecord.PropertyId, desired transactionrecord.PropertyId) error {
	if id == desired {
		return fault.ErrSameProperty
	}
	if !property.Has(r, id) || !property.Has(r, desired) {
		return fault.ErrPropertyNotFound
	}
	if id.Ecosystem() != desired.Ecosystem() {
		return fault.ErrCrossEcosystem
	}
	if isNative(id) || isNative(desired) {
		return nil
	}
	if transactionrecord.TestEcosystem == id.Ecosystem() || feature.IsActivated(r, e.params, feature.FreeDEx, block) {
		return nil
	}
	return fault.ErrTradingNotAuthorised
}

func (e *Executor) metaDExTrade(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.MetaDExTrade) error {
	amount, err := toAmount(p.Amount)
	if nil != err {
		return err
	}
	desiredAmount, err := toAmount(p.DesiredAmount)
	if nil != err {
		return err
	}
	if err := e.checkPair(h, tx.Block(), p.Property, p.DesiredProperty); nil != err {
		return err
	}
	sender := tx.Sender()
	if err := checkNotFrozen(h, p.Property, sender); nil != err {
		return err
	}

	fills, err := metadex.Match(h, &metadex.Order{
		Address:         sender,
		Property:        p.Property,
		Amount:          amount,
		DesiredProperty: p.DesiredProperty,
		DesiredAmount:   desiredAmount,
		Position:        tx.Position(),
		Txid:            tx.Txid(),
	})
	if nil != err {
		return err
	}
	for _, f := range fills {
		e.log.Debugf("metadex: %s sold: %d received: %d from: %s", tx.Txid(), f.Sold, f.Received, f.Maker.Txid)
	}
	return nil
}

func (e *Executor) metaDExCancelPrice(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.MetaDExCancelPrice) error {
	amount, err := toAmount(p.Amount)
	if nil != err {
		return err
	}
	desiredAmount, err := toAmount(p.DesiredAmount)
	if nil != err {
		return err
	}
	if err := e.checkPair(h, tx.Block(), p.Property, p.DesiredProperty); nil != err {
		return err
	}
	n, err := metadex.CancelAtPrice(h, tx.Sender(), p.Property, amount, p.DesiredProperty, desiredAmount)
	if nil != err {
		return err
	}
	e.log.Debugf("metadex: %s cancelled: %d at price", tx.Txid(), n)
	return nil
}

func (e *Executor) metaDExCancelPair(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.MetaDExCancelPair) error {
	if err := e.checkPair(h, tx.Block(), p.Property, p.DesiredProperty); nil != err {
		return err
	}
	n, err := metadex.CancelPair(h, tx.Sender(), p.Property, p.DesiredProperty)
	if nil != err {
		return err
	}
	e.log.Debugf("metadex: %s cancelled: %d for pair", tx.Txid(), n)
	return nil
}

func (e *Executor) metaDExCancelEcosystem(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.MetaDExCancelEcosystem) error {
	if !p.Ecosystem.Valid() {
		return fault.ErrInvalidEcosystem
	}
	n, err := metadex.CancelEcosystem(h, tx.Sender(), p.Ecosystem)
	if nil != err {
		return err
	}
	e.log.Debugf("metadex: %s cancelled: %d in ecosystem: %s", tx.Txid(), n, p.Ecosystem)
	return nil
}
