// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package logic

import (
	"github.com/bitmark-inc/elysiumd/chain"
	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/elysiumd/feature"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/transaction"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
)

func (e *Executor) checkAdmin(tx *transaction.Transaction) error {
	if !e.params.IsFeatureAdmin(tx.Sender()) {
		return fault.ErrNotFeatureAdmin
	}
	return nil
}

func (e *Executor) activation(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.Activation) error {
	if err := e.checkAdmin(tx); nil != err {
		return err
	}
	id := feature.Id(p.FeatureId)
	tooOld, err := feature.Activate(h, e.params, id, int(p.ActivationBlock), p.MinClientVersion, tx.Block())
	if nil != err {
		return err
	}
	e.log.Infof("feature: %d %q activates at block: %d", id, id, p.ActivationBlock)
	if tooOld {
		e.log.Criticalf("feature: %d needs client version: %d this is: %d", id, p.MinClientVersion, chain.ClientVersion)
	}
	return nil
}

func (e *Executor) deactivation(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.Deactivation) error {
	if err := e.checkAdmin(tx); nil != err {
		return err
	}
	id := feature.Id(p.FeatureId)
	if err := feature.Deactivate(h, e.params, id, tx.Block()); nil != err {
		return err
	}
	e.log.Warnf("feature: %d %q deactivated at block: %d", id, id, tx.Block())
	return nil
}

func (e *Executor) alert(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.Alert) error {
	if err := e.checkAdmin(tx); nil != err {
		return err
	}
	a := &feature.Alert{
		Txid:   tx.Txid(),
		Sender: tx.Sender(),
		Type:   feature.AlertType(p.AlertType),
		Expiry: p.Expiry,
		Text:   p.Text,
		Block:  tx.Block(),
	}
	if err := feature.AddAlert(h, a); nil != err {
		return err
	}
	e.log.Warnf("alert: %s", p.Text)
	return nil
}
