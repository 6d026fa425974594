// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package logic

import (
	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/elysiumd/property"
	"github.com/bitmark-inc/elysiumd/sigma"
	"github.com/bitmark-inc/elysiumd/signature"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/tally"
	"github.com/bitmark-inc/elysiumd/transaction"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
)

// the registry entry of a property that accepts mints
func sigmaProperty(r storage.Reader, id transactionrecord.PropertyId) (*property.Entry, error) {
	entry, err := property.Get(r, id)
	if nil != err {
		return nil, err
	}
	if !entry.SigmaStatus.Enabled() {
		return nil, fault.ErrSigmaNotEnabled
	}
	return entry, nil
}

func (e *Executor) createDenomination(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.CreateDenomination) error {
	entry, err := sigmaProperty(h, p.Property)
	if nil != err {
		return err
	}
	if entry.Issuer != tx.Sender() {
		return fault.ErrNotIssuer
	}
	if 0 == p.Value || p.Value > transactionrecord.MaxTokens {
		return fault.ErrInvalidDenomination
	}
	n, err := sigma.AddDenomination(h, p.Property, int64(p.Value))
	if nil != err {
		return err
	}
	e.log.Infof("property: %d denomination: %d value: %d", p.Property, n, p.Value)
	return nil
}

// the denominations are debited from the sender's balance and the
// keys join the groups of their denominations
func (e *Executor) simpleMint(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.SimpleMint) error {
	if _, err := sigmaProperty(h, p.Property); nil != err {
		return err
	}
	sender := tx.Sender()
	if err := checkNotFrozen(h, p.Property, sender); nil != err {
		return err
	}

	total := uint64(0)
	seen := make(map[sigma.PublicKey]struct{}, len(p.Mints))
	for _, m := range p.Mints {
		if _, err := signature.ParsePublicKey(m.PublicKey); nil != err {
			return err
		}
		if _, ok := seen[m.PublicKey]; ok {
			return fault.ErrMintPublicKeyExists
		}
		seen[m.PublicKey] = struct{}{}

		value, err := sigma.Denomination(h, p.Property, m.Denomination)
		if nil != err {
			return err
		}
		total += uint64(value)
		if total > transactionrecord.MaxTokens {
			return fault.ErrInsufficientBalance
		}
	}
	if tally.Balance(h, sender, p.Property, tally.Available) < int64(total) {
		return fault.ErrInsufficientBalance
	}
	if err := tally.Update(h, sender, p.Property, -int64(total), tally.Available); nil != err {
		return err
	}

	for _, m := range p.Mints {
		group, index, err := sigma.AddMint(h, p.Property, m.Denomination, m.PublicKey, e.params.MaxMintGroupSize)
		if nil != err {
			return err
		}
		e.log.Debugf("mint: property: %d denomination: %d group: %d index: %d", p.Property, m.Denomination, group, index)
	}
	return nil
}

// a spend credits the receiver with the denomination's value once
// its serial is shown to be unused and its proof verifies
func (e *Executor) simpleSpend(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.SimpleSpend) error {
	if _, err := sigmaProperty(h, p.Property); nil != err {
		return err
	}
	value, err := sigma.Denomination(h, p.Property, p.Denomination)
	if nil != err {
		return err
	}

	current, _ := sigma.Group(h, p.Property, p.Denomination)
	if p.Group > current {
		return fault.ErrGroupNotFound
	}
	anonymity := sigma.Mints(h, p.Property, p.Denomination, p.Group)
	if 0 == len(anonymity) {
		return fault.ErrGroupNotFound
	}
	if nil != p.GroupSize {
		size := int(*p.GroupSize)
		if size > len(anonymity) {
			return fault.ErrGroupSizeTooLarge
		}
		anonymity = anonymity[:size]
	}

	// replay is checked before the proof so a spent serial is always
	// rejected the same way
	if sigma.IsSpent(h, p.Property, p.Denomination, p.Serial) {
		return fault.ErrSerialAlreadyUsed
	}

	if nil == e.verifier {
		return fault.ErrNoProofVerifier
	}
	statement := &sigma.Statement{
		Property:     p.Property,
		Denomination: p.Denomination,
		Value:        value,
		Group:        p.Group,
		Serial:       p.Serial,
		Proof:        p.Proof,
		Anonymity:    anonymity,
	}
	if !e.verifier.Verify(statement) {
		return fault.ErrInvalidSpendProof
	}
	if p.Version >= 1 {
		if err := signature.VerifySpend(p); nil != err {
			return err
		}
	}

	receiver, err := e.receiver(tx)
	if nil != err {
		return err
	}
	if err := sigma.Spend(h, p.Property, p.Denomination, p.Serial, tx.Block()); nil != err {
		return err
	}
	return tally.Update(h, receiver, p.Property, value, tally.Available)
}
