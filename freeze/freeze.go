// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package freeze - token freezing of managed properties
package freeze

import (
	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
)

func propertyKey(property transactionrecord.PropertyId) []byte {
	return storage.NewKey().Uint32(uint32(property))
}

func frozenKey(property transactionrecord.PropertyId, address string) []byte {
	return storage.NewKey().Uint32(uint32(property)).Address(address)
}

// Enable - allow freezing of a property from a block onwards
func Enable(h storage.Handle, property transactionrecord.PropertyId, liveBlock int) error {
	if h.Has(storage.Pool.FreezeEnabled, propertyKey(property)) {
		return fault.ErrFreezingAlreadyEnabled
	}
	h.PutN(storage.Pool.FreezeEnabled, propertyKey(property), uint64(liveBlock))
	return nil
}

// Disable - stop freezing a property and release every frozen address
func Disable(h storage.Handle, property transactionrecord.PropertyId) error {
	if !h.Has(storage.Pool.FreezeEnabled, propertyKey(property)) {
		return fault.ErrFreezingNotEnabled
	}
	h.Delete(storage.Pool.FreezeEnabled, propertyKey(property))
	for _, address := range Frozen(h, property) {
		h.Delete(storage.Pool.Frozen, frozenKey(property, address))
	}
	return nil
}

// IsEnabled - true if freezing of a property is live at a block
func IsEnabled(r storage.Reader, property transactionrecord.PropertyId, block int) bool {
	live, found := r.GetN(storage.Pool.FreezeEnabled, propertyKey(property))
	return found && block >= int(live)
}

// IsEnabling - true if freezing has been enabled, live or not
func IsEnabling(r storage.Reader, property transactionrecord.PropertyId) bool {
	return r.Has(storage.Pool.FreezeEnabled, propertyKey(property))
}

// Freeze - prevent an address from moving a property
func Freeze(h storage.Handle, property transactionrecord.PropertyId, address string, block int) error {
	if !IsEnabled(h, property, block) {
		return fault.ErrFreezingNotEnabled
	}
	if IsFrozen(h, property, address) {
		return fault.ErrAddressAlreadyFrozen
	}
	h.Put(storage.Pool.Frozen, frozenKey(property, address), []byte{})
	return nil
}

// Unfreeze - release a frozen address
func Unfreeze(h storage.Handle, property transactionrecord.PropertyId, address string, block int) error {
	if !IsEnabled(h, property, block) {
		return fault.ErrFreezingNotEnabled
	}
	if !IsFrozen(h, property, address) {
		return fault.ErrAddressNotFrozen
	}
	h.Delete(storage.Pool.Frozen, frozenKey(property, address))
	return nil
}

// IsFrozen - true if an address may not move a property
func IsFrozen(r storage.Reader, property transactionrecord.PropertyId, address string) bool {
	return r.Has(storage.Pool.Frozen, frozenKey(property, address))
}

// Frozen - every frozen address of a property in address order
func Frozen(r storage.Reader, property transactionrecord.PropertyId) []string {
	result := make([]string, 0, 4)
	_ = r.Map(storage.Pool.Frozen, propertyKey(property), func(key []byte, value []byte) error {
		kr := storage.NewKeyReader(key)
		kr.Uint32()
		result = append(result, kr.Address())
		return nil
	})
	return result
}
