// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package logic

import (
	"github.com/bitmark-inc/elysiumd/crowdsale"
	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/elysiumd/property"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/tally"
	"github.com/bitmark-inc/elysiumd/transaction"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
)

// checkPropertyCreationFee - every property creation after the fee
// block of its ecosystem must pay the creation fee to the fee receiver
// as its reference output
func (e *Executor) checkPropertyCreationFee(tx *transaction.Transaction, ecosystem transactionrecord.Ecosystem) error {
	if tx.Block() < e.params.FeeBlock(transactionrecord.TestEcosystem == ecosystem) {
		return nil
	}
	paid := tx.ReferenceAmount()
	if nil == paid || *paid < e.params.PropertyCreationFee {
		return fault.ErrCreationFeeNotPaid
	}
	if tx.Receiver() != e.params.PropertyCreationFeeReceiver {
		return fault.ErrCreationFeeNotPaid
	}
	return nil
}

func checkInfo(info *transactionrecord.PropertyInfo) error {
	if !info.Ecosystem.Valid() {
		return fault.ErrInvalidEcosystem
	}
	if !info.PropertyType.Valid() {
		return fault.ErrInvalidPropertyType
	}
	if "" == info.Name {
		return fault.ErrInvalidPropertyName
	}
	return nil
}

// version 0 creations carry no status
func sigmaStatus(status *transactionrecord.SigmaStatus) (transactionrecord.SigmaStatus, error) {
	if nil == status {
		return transactionrecord.SigmaSoftDisabled, nil
	}
	if !status.Valid() {
		return 0, fault.ErrInvalidTransaction
	}
	return *status, nil
}

// a registry entry with the fields common to every creation
func newEntry(tx *transaction.Transaction, info *transactionrecord.PropertyInfo, status transactionrecord.SigmaStatus) *property.Entry {
	return &property.Entry{
		Issuer:        tx.Sender(),
		Type:          info.PropertyType,
		PreviousId:    info.PreviousId,
		Category:      info.Category,
		Subcategory:   info.Subcategory,
		Name:          info.Name,
		Url:           info.Url,
		Data:          info.Data,
		CreationTxid:  tx.Txid(),
		CreationBlock: tx.Block(),
		IssuerChanged: tx.Position(),
		SigmaStatus:   status,
	}
}

func (e *Executor) createPropertyFixed(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.CreatePropertyFixed) error {
	if err := checkInfo(&p.PropertyInfo); nil != err {
		return err
	}
	amount, err := toAmount(p.Amount)
	if nil != err {
		return err
	}
	status, err := sigmaStatus(p.SigmaStatus)
	if nil != err {
		return err
	}
	if err := e.checkPropertyCreationFee(tx, p.Ecosystem); nil != err {
		return err
	}

	entry := newEntry(tx, &p.PropertyInfo, status)
	entry.Fixed = true
	entry.Supply = amount
	id, err := property.Create(h, p.Ecosystem, entry)
	if nil != err {
		return err
	}
	if err := tally.Update(h, tx.Sender(), id, amount, tally.Available); nil != err {
		return err
	}
	e.log.Infof("created fixed property: %d %q supply: %d", id, p.Name, amount)
	return nil
}

func (e *Executor) createPropertyVariable(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.CreatePropertyVariable) error {
	if err := checkInfo(&p.PropertyInfo); nil != err {
		return err
	}
	if !property.Has(h, p.DesiredProperty) {
		return fault.ErrPropertyNotFound
	}
	if p.DesiredProperty.Ecosystem() != p.Ecosystem {
		return fault.ErrCrossEcosystem
	}
	tokensPerUnit, err := toAmount(p.TokensPerUnit)
	if nil != err {
		return err
	}
	if p.Deadline > uint64(1<<63-1) || int64(p.Deadline) <= tx.BlockTime() {
		return fault.ErrInvalidDeadline
	}
	status, err := sigmaStatus(p.SigmaStatus)
	if nil != err {
		return err
	}
	sender := tx.Sender()
	if _, err := crowdsale.Get(h, sender); nil == err {
		return fault.ErrActiveCrowdsaleExists
	}
	if err := e.checkPropertyCreationFee(tx, p.Ecosystem); nil != err {
		return err
	}

	entry := newEntry(tx, &p.PropertyInfo, status)
	entry.Desired = p.DesiredProperty
	entry.TokensPerUnit = tokensPerUnit
	entry.Deadline = int64(p.Deadline)
	entry.EarlyBird = p.EarlyBird
	entry.IssuerPercentage = p.IssuerPercentage
	id, err := property.Create(h, p.Ecosystem, entry)
	if nil != err {
		return err
	}

	err = crowdsale.Start(h, &crowdsale.Crowdsale{
		Issuer:           sender,
		Property:         id,
		Desired:          p.DesiredProperty,
		TokensPerUnit:    tokensPerUnit,
		Deadline:         int64(p.Deadline),
		EarlyBird:        p.EarlyBird,
		IssuerPercentage: p.IssuerPercentage,
		Block:            tx.Block(),
		Txid:             tx.Txid(),
	})
	if nil != err {
		return err
	}
	e.log.Infof("created crowdsale property: %d %q desired: %d", id, p.Name, p.DesiredProperty)
	return nil
}

func (e *Executor) createPropertyManaged(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.CreatePropertyManaged) error {
	if err := checkInfo(&p.PropertyInfo); nil != err {
		return err
	}
	status, err := sigmaStatus(p.SigmaStatus)
	if nil != err {
		return err
	}
	if err := e.checkPropertyCreationFee(tx, p.Ecosystem); nil != err {
		return err
	}

	entry := newEntry(tx, &p.PropertyInfo, status)
	entry.Managed = true
	id, err := property.Create(h, p.Ecosystem, entry)
	if nil != err {
		return err
	}
	e.log.Infof("created managed property: %d %q", id, p.Name)
	return nil
}

func (e *Executor) closeCrowdsale(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.CloseCrowdsale) error {
	entry, err := property.Get(h, p.Property)
	if nil != err {
		return err
	}
	sender := tx.Sender()
	c, err := crowdsale.Get(h, sender)
	if nil != err {
		return err
	}
	if c.Property != p.Property {
		return fault.ErrCrowdsaleNotFound
	}
	if err := crowdsale.Close(h, sender); nil != err {
		return err
	}
	entry.ClosedEarly = true
	entry.Deadline = tx.BlockTime()
	return property.Update(h, p.Property, entry)
}

// granted tokens go to the receiver if there is one, otherwise to the
// issuer
func (e *Executor) grantTokens(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.GrantTokens) error {
	amount, err := toAmount(p.Amount)
	if nil != err {
		return err
	}
	sender := tx.Sender()
	entry, err := managedBySender(h, p.Property, sender)
	if nil != err {
		return err
	}
	if uint64(entry.Supply)+uint64(amount) > transactionrecord.MaxTokens {
		return fault.ErrSupplyOverflow
	}

	to := sender
	if "" != tx.Receiver() {
		to, err = e.receiver(tx)
		if nil != err {
			return err
		}
	}
	if err := tally.Update(h, to, p.Property, amount, tally.Available); nil != err {
		return err
	}
	entry.Supply += amount
	return property.Update(h, p.Property, entry)
}

func (e *Executor) revokeTokens(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.RevokeTokens) error {
	amount, err := toAmount(p.Amount)
	if nil != err {
		return err
	}
	sender := tx.Sender()
	entry, err := managedBySender(h, p.Property, sender)
	if nil != err {
		return err
	}
	if tally.Balance(h, sender, p.Property, tally.Available) < amount {
		return fault.ErrInsufficientBalance
	}
	if err := tally.Update(h, sender, p.Property, -amount, tally.Available); nil != err {
		return err
	}
	entry.Supply -= amount
	return property.Update(h, p.Property, entry)
}

func (e *Executor) changeIssuer(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.ChangeIssuer) error {
	entry, err := property.Get(h, p.Property)
	if nil != err {
		return err
	}
	if entry.Issuer != tx.Sender() {
		return fault.ErrNotIssuer
	}
	receiver, err := e.receiver(tx)
	if nil != err {
		return err
	}
	if _, err := crowdsale.ForProperty(h, p.Property); nil == err {
		return fault.ErrCrowdsaleIsActive
	}
	return property.UpdateIssuer(h, p.Property, receiver, tx.Position())
}
