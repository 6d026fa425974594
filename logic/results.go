// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package logic

import (
	"github.com/bitmark-inc/elysiumd/fault"
)

// Category - the class of an execution result
type Category int

// result categories, each owns a range of codes
const (
	CategorySuccess   Category = iota // 0
	CategoryGate                      // -1 .. -99
	CategoryMalformed                 // -100 .. -199
	CategoryAuthority                 // -200 .. -299
	CategoryFunds                     // -300 .. -399
	CategoryReplay                    // -400 .. -499
	CategoryMarket                    // -500 .. -599
	CategoryGeneric                   // -900 and below
)

// String - label of a category
func (c Category) String() string {
	switch c {
	case CategorySuccess:
		return "success"
	case CategoryGate:
		return "gate"
	case CategoryMalformed:
		return "malformed"
	case CategoryAuthority:
		return "authority"
	case CategoryFunds:
		return "funds"
	case CategoryReplay:
		return "replay"
	case CategoryMarket:
		return "market"
	default:
		return "generic"
	}
}

// result codes that are not derived from an error
const (
	ResultSuccess         = 0
	ResultLocked          = -1
	ResultNotDecoded      = -2
	ResultAlreadyExecuted = -3
	ResultUnsupported     = -4
	ResultTypeNotAllowed  = -5
	ResultLedgerBusy      = -6
	ResultCommitFailed    = -7
	ResultGeneric         = -900
)

// execution errors and their codes
var resultCodes = map[error]int{
	fault.ErrTypeNotAllowed: ResultTypeNotAllowed,
	fault.ErrUnexecutable:   ResultUnsupported,

	fault.ErrPropertyNotFound:     -101,
	fault.ErrInvalidEcosystem:     -102,
	fault.ErrInvalidPropertyType:  -103,
	fault.ErrInvalidPropertyName:  -104,
	fault.ErrInvalidAmount:        -105,
	fault.ErrInvalidReceiver:      -106,
	fault.ErrInvalidSubAction:     -107,
	fault.ErrPropertyNotManaged:   -108,
	fault.ErrSigmaNotEnabled:      -109,
	fault.ErrInvalidDenomination:  -110,
	fault.ErrDenominationNotFound: -111,
	fault.ErrInvalidGroup:         -112,
	fault.ErrGroupNotFound:        -113,
	fault.ErrGroupSizeTooLarge:    -114,
	fault.ErrInvalidPublicKey:     -115,
	fault.ErrInvalidSpendProof:    -116,
	fault.ErrNoProofVerifier:      -117,
	fault.ErrUnsupportedFeature:   -118,
	fault.ErrInvalidActivation:    -119,
	fault.ErrFeatureNotActive:     -120,
	fault.ErrPendingNotFound:      -121,
	fault.ErrInvalidAlertType:     -122,
	fault.ErrFreezingNotEnabled:   -123,
	fault.ErrAddressNotFrozen:     -124,
	fault.ErrNoOwners:             -125,
	fault.ErrInvalidTransaction:   -126,

	fault.ErrNotIssuer:           -201,
	fault.ErrNotFeatureAdmin:     -202,
	fault.ErrSenderFrozen:        -203,
	fault.ErrNotAuthorised:       -204,
	fault.ErrSpendNotSigned:      -205,
	fault.ErrSpendSerialNotBound: -206,

	fault.ErrInsufficientBalance: -301,
	fault.ErrInsufficientStoFee:  -302,
	fault.ErrInsufficientFee:     -303,
	fault.ErrCreationFeeNotPaid:  -304,
	fault.ErrNothingToSend:       -305,
	fault.ErrSupplyOverflow:      -306,
	fault.ErrBalanceUnderflow:    -307,

	fault.ErrSerialAlreadyUsed:        -401,
	fault.ErrMintPublicKeyExists:      -402,
	fault.ErrIdentityChangeOutOfOrder: -403,
	fault.ErrFeatureAlreadyActivated:  -404,
	fault.ErrFreezingAlreadyEnabled:   -405,
	fault.ErrAddressAlreadyFrozen:     -406,
	fault.ErrDenominationExists:       -407,
	fault.ErrTooManyDenominations:     -408,

	fault.ErrOfferExists:           -501,
	fault.ErrOfferNotFound:         -502,
	fault.ErrAcceptExists:          -503,
	fault.ErrAcceptNotFound:        -504,
	fault.ErrOfferAmountMismatch:   -505,
	fault.ErrNoOrdersCancelled:     -506,
	fault.ErrTradingNotAuthorised:  -507,
	fault.ErrSameProperty:          -508,
	fault.ErrCrossEcosystem:        -509,
	fault.ErrActiveCrowdsaleExists: -510,
	fault.ErrCrowdsaleNotFound:     -511,
	fault.ErrCrowdsaleIsActive:     -512,
	fault.ErrInvalidDeadline:       -513,
}

// ResultCode - the code reported for an execution error
func ResultCode(err error) int {
	if nil == err {
		return ResultSuccess
	}
	if code, ok := resultCodes[err]; ok {
		return code
	}
	return ResultGeneric
}

// CategoryOf - classify a result code
func CategoryOf(code int) Category {
	switch {
	case code >= 0:
		return CategorySuccess
	case code > -100:
		return CategoryGate
	case code > -200:
		return CategoryMalformed
	case code > -300:
		return CategoryAuthority
	case code > -400:
		return CategoryFunds
	case code > -500:
		return CategoryReplay
	case code > -600:
		return CategoryMarket
	default:
		return CategoryGeneric
	}
}
