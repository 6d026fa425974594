// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// PropertyId - numeric identifier of a property
type PropertyId uint32

// Ecosystem - property id namespace
type Ecosystem uint8

// PropertyType - unit of a property
type PropertyType uint16

// SigmaStatus - whether sigma mints are allowed for a property
type SigmaStatus uint8

// ecosystems
const (
	MainEcosystem = Ecosystem(1)
	TestEcosystem = Ecosystem(2)
)

// property types
const (
	IndivisibleProperty = PropertyType(1)
	DivisibleProperty   = PropertyType(2)
)

// sigma status values
const (
	SigmaSoftDisabled = SigmaStatus(0)
	SigmaSoftEnabled  = SigmaStatus(1)
	SigmaHardDisabled = SigmaStatus(2)
	SigmaHardEnabled  = SigmaStatus(3)
)

// well known property ids
const (
	ElysiumProperty     = PropertyId(1)
	TestElysiumProperty = PropertyId(2)
	FirstMainProperty   = PropertyId(3)
	FirstTestProperty   = PropertyId(2147483651)
)

// MaxTokens - largest number of tokens a property may have
const MaxTokens = uint64(9223372036854775807)

// smallest units per whole token of a divisible property
const divisibleExponent = 8

// Valid - check the ecosystem is known
func (e Ecosystem) Valid() bool {
	return MainEcosystem == e || TestEcosystem == e
}

// NativeProperty - the property that pays fees in an ecosystem
func (e Ecosystem) NativeProperty() PropertyId {
	if TestEcosystem == e {
		return TestElysiumProperty
	}
	return ElysiumProperty
}

// FirstProperty - the first id given to a created property
func (e Ecosystem) FirstProperty() PropertyId {
	if TestEcosystem == e {
		return FirstTestProperty
	}
	return FirstMainProperty
}

// String - name of the ecosystem
func (e Ecosystem) String() string {
	switch e {
	case MainEcosystem:
		return "main"
	case TestEcosystem:
		return "test"
	default:
		return "ecosystem-" + strconv.Itoa(int(e))
	}
}

// Ecosystem - the namespace a property id belongs to
func (p PropertyId) Ecosystem() Ecosystem {
	if TestElysiumProperty == p || p >= FirstTestProperty {
		return TestEcosystem
	}
	return MainEcosystem
}

// Valid - check the property type is known
func (t PropertyType) Valid() bool {
	return IndivisibleProperty == t || DivisibleProperty == t
}

// Divisible - true if amounts have eight decimal places
func (t PropertyType) Divisible() bool {
	return DivisibleProperty == t
}

// Enabled - true if mints are allowed
func (s SigmaStatus) Enabled() bool {
	return SigmaSoftEnabled == s || SigmaHardEnabled == s
}

// Valid - check the sigma status is known
func (s SigmaStatus) Valid() bool {
	return s <= SigmaHardEnabled
}

// FormatAmount - render a token amount for display
func FormatAmount(amount int64, divisible bool) string {
	if divisible {
		return decimal.New(amount, -divisibleExponent).StringFixed(divisibleExponent)
	}
	return strconv.FormatInt(amount, 10)
}

// ParseAmount - read a display amount back into token units
func ParseAmount(s string, divisible bool) (int64, error) {
	d, err := decimal.NewFromString(s)
	if nil != err {
		return 0, err
	}
	if divisible {
		d = d.Shift(divisibleExponent)
	}
	if !d.IsInteger() || d.IsNegative() {
		return 0, strconv.ErrSyntax
	}
	return d.IntPart(), nil
}
