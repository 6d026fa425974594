// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package logic

import (
	"math/big"
	"sort"

	"github.com/bitmark-inc/elysiumd/crowdsale"
	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/elysiumd/property"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/tally"
	"github.com/bitmark-inc/elysiumd/transaction"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
)

func (e *Executor) simpleSend(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.SimpleSend) error {
	amount, err := toAmount(p.Amount)
	if nil != err {
		return err
	}
	if !property.Has(h, p.Property) {
		return fault.ErrPropertyNotFound
	}
	receiver, err := e.receiver(tx)
	if nil != err {
		return err
	}
	sender := tx.Sender()
	if err := checkNotFrozen(h, p.Property, sender); nil != err {
		return err
	}
	if tally.Balance(h, sender, p.Property, tally.Available) < amount {
		return fault.ErrInsufficientBalance
	}

	err = tally.Move(h, p.Property, sender, tally.Available, receiver, tally.Available, amount)
	if nil != err {
		return err
	}

	// a send to an issuer in the property its crowdsale accepts is a
	// purchase
	c, err := crowdsale.Get(h, receiver)
	if nil == err && c.Desired == p.Property && tx.BlockTime() <= c.Deadline {
		return e.crowdsaleParticipation(h, tx, c, amount)
	}
	return nil
}

// crowdsaleParticipation - create the tokens bought by a contribution
//
// reaching the maximum token supply closes the crowdsale
func (e *Executor) crowdsaleParticipation(h storage.Handle, tx *transaction.Transaction, c *crowdsale.Crowdsale, amount int64) error {
	entry, err := property.Get(h, c.Property)
	if nil != err {
		return err
	}
	desired, err := property.Get(h, c.Desired)
	if nil != err {
		return err
	}

	tokens, issuerTokens, limited := crowdsale.Purchase(c, amount, desired.Divisible(), tx.BlockTime(), entry.Supply)

	if tokens > 0 {
		if err := tally.Update(h, tx.Sender(), c.Property, tokens, tally.Available); nil != err {
			return err
		}
	}
	if issuerTokens > 0 {
		if err := tally.Update(h, c.Issuer, c.Property, issuerTokens, tally.Available); nil != err {
			return err
		}
	}

	crowdsale.Contribute(h, c, &crowdsale.Contribution{
		Txid:          tx.Txid(),
		Contributor:   tx.Sender(),
		Amount:        amount,
		Tokens:        tokens,
		IssuerTokens:  issuerTokens,
		BlockTime:     tx.BlockTime(),
		MaxTokensUsed: limited,
	})

	entry.Supply += tokens + issuerTokens
	if limited {
		entry.MaxTokensReached = true
		if err := crowdsale.Close(h, c.Issuer); nil != err {
			return err
		}
		e.log.Infof("crowdsale: %d reached maximum tokens", c.Property)
	}
	return property.Update(h, c.Property, entry)
}

// share - one owner's part of a distribution
type share struct {
	address string
	amount  int64
}

// distribute - split an amount over owners in proportion to their
// holdings
//
// owners must be sorted by holding descending; each receives the
// ceiling of its exact share until the amount is used up, so the
// shares always sum to the amount and the smallest holders absorb the
// rounding
func distribute(owners []tally.Holding, amount int64) []share {
	total := new(big.Int)
	for _, o := range owners {
		total.Add(total, big.NewInt(o.Amount))
	}
	if 0 == total.Sign() {
		return nil
	}

	shares := make([]share, 0, len(owners))
	remaining := amount
	for _, o := range owners {
		if 0 == remaining {
			break
		}
		n := new(big.Int).Mul(big.NewInt(o.Amount), big.NewInt(amount))
		n.Add(n, total)
		n.Sub(n, big.NewInt(1))
		n.Quo(n, total)

		part := n.Int64()
		if part > remaining {
			part = remaining
		}
		if 0 == part {
			continue
		}
		shares = append(shares, share{address: o.Address, amount: part})
		remaining -= part
	}
	return shares
}

func (e *Executor) sendToOwners(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.SendToOwners) error {
	amount, err := toAmount(p.Amount)
	if nil != err {
		return err
	}
	if !property.Has(h, p.Property) {
		return fault.ErrPropertyNotFound
	}
	distribution := p.Property
	if nil != p.DistributionProperty {
		distribution = *p.DistributionProperty
		if !property.Has(h, distribution) {
			return fault.ErrPropertyNotFound
		}
	}

	sender := tx.Sender()
	if err := checkNotFrozen(h, p.Property, sender); nil != err {
		return err
	}
	available := tally.Balance(h, sender, p.Property, tally.Available)
	if available < amount {
		return fault.ErrInsufficientBalance
	}

	owners := make([]tally.Holding, 0, 16)
	for _, o := range tally.Owners(h, distribution) {
		if o.Address != sender {
			owners = append(owners, o)
		}
	}
	if 0 == len(owners) {
		return fault.ErrNoOwners
	}

	// fee in the native token, burned
	native := p.Property.Ecosystem().NativeProperty()
	fee := e.params.StoFeePerOwner * int64(len(owners))
	feeBalance := tally.Balance(h, sender, native, tally.Available)
	if native == p.Property {
		feeBalance -= amount
	}
	if feeBalance < fee {
		return fault.ErrInsufficientStoFee
	}

	for _, s := range distribute(owners, amount) {
		err := tally.Move(h, p.Property, sender, tally.Available, s.address, tally.Available, s.amount)
		if nil != err {
			return err
		}
	}
	if fee > 0 {
		if err := tally.Update(h, sender, native, -fee, tally.Available); nil != err {
			return err
		}
	}
	e.log.Debugf("send to owners: %d owners: %d fee: %d", p.Property, len(owners), fee)
	return nil
}

func (e *Executor) sendAll(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.SendAll) error {
	if !p.Ecosystem.Valid() {
		return fault.ErrInvalidEcosystem
	}
	receiver, err := e.receiver(tx)
	if nil != err {
		return err
	}
	sender := tx.Sender()

	balances := tally.Balances(h, sender)
	ids := make([]transactionrecord.PropertyId, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	sent := 0
	for _, id := range ids {
		if id.Ecosystem() != p.Ecosystem {
			continue
		}
		available := balances[id][tally.Available]
		if 0 == available || freezeBlocks(h, id, sender) {
			continue
		}
		err := tally.Move(h, id, sender, tally.Available, receiver, tally.Available, available)
		if nil != err {
			return err
		}
		sent += 1
	}
	if 0 == sent {
		return fault.ErrNothingToSend
	}
	return nil
}

// frozen balances are skipped by send all
func freezeBlocks(r storage.Reader, id transactionrecord.PropertyId, address string) bool {
	return nil != checkNotFrozen(r, id, address)
}
