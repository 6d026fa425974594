// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package logic

import (
	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/elysiumd/freeze"
	"github.com/bitmark-inc/elysiumd/property"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/transaction"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
)

// a wire amount as a token count, zero is not allowed
func toAmount(value uint64) (int64, error) {
	if 0 == value || value > transactionrecord.MaxTokens {
		return 0, fault.ErrInvalidAmount
	}
	return int64(value), nil
}

// sender must not be frozen for the property
func checkNotFrozen(r storage.Reader, id transactionrecord.PropertyId, address string) error {
	if freeze.IsFrozen(r, id, address) {
		return fault.ErrSenderFrozen
	}
	return nil
}

// the registry entry of a managed property whose issuer is the sender
func managedBySender(r storage.Reader, id transactionrecord.PropertyId, sender string) (*property.Entry, error) {
	entry, err := property.Get(r, id)
	if nil != err {
		return nil, err
	}
	if !entry.Managed {
		return nil, fault.ErrPropertyNotManaged
	}
	if entry.Issuer != sender {
		return nil, fault.ErrNotIssuer
	}
	return entry, nil
}

// the reference address, which must be valid on the chain
func (e *Executor) receiver(tx *transaction.Transaction) (string, error) {
	r := tx.Receiver()
	if !e.params.ValidAddress(r) {
		return "", fault.ErrInvalidReceiver
	}
	return r, nil
}
