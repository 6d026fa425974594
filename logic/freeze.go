// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package logic

import (
	"github.com/bitmark-inc/elysiumd/freeze"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/transaction"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
)

// freezing becomes live after the chain's waiting period
func (e *Executor) enableFreezing(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.EnableFreezing) error {
	if _, err := managedBySender(h, p.Property, tx.Sender()); nil != err {
		return err
	}
	live := tx.Block() + e.params.FreezingWaitPeriod
	if err := freeze.Enable(h, p.Property, live); nil != err {
		return err
	}
	e.log.Infof("freezing of: %d enabled from block: %d", p.Property, live)
	return nil
}

func (e *Executor) disableFreezing(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.DisableFreezing) error {
	if _, err := managedBySender(h, p.Property, tx.Sender()); nil != err {
		return err
	}
	return freeze.Disable(h, p.Property)
}

func (e *Executor) freezeTokens(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.FreezeTokens) error {
	if _, err := managedBySender(h, p.Property, tx.Sender()); nil != err {
		return err
	}
	return freeze.Freeze(h, p.Property, p.Address.String(), tx.Block())
}

func (e *Executor) unfreezeTokens(h storage.Handle, tx *transaction.Transaction, p *transactionrecord.UnfreezeTokens) error {
	if _, err := managedBySender(h, p.Property, tx.Sender()); nil != err {
		return err
	}
	return freeze.Unfreeze(h, p.Property, p.Address.String(), tx.Block())
}
