// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type AuthorityError GenericError
type ExistsError GenericError
type FundsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError

// decode errors - a payload that produces one of these never reaches
// the executor
var (
	ErrInvalidCount           = RecordError("invalid element count")
	ErrInvalidStringEncoding  = RecordError("invalid string encoding")
	ErrNotTransactionPack     = RecordError("not a transaction pack")
	ErrPacketOverrun          = LengthError("packet overrun")
	ErrPacketTooShort         = LengthError("packet too short")
	ErrProofTooLong           = LengthError("spend proof too long")
	ErrStringTooLong          = LengthError("string too long")
	ErrUnknownTransactionType = RecordError("unknown transaction type")
)

// record lifecycle errors
var (
	ErrAddressTooLong     = InvalidError("address too long")
	ErrAlreadyExecuted    = ProcessError("transaction already executed")
	ErrAlreadyInterpreted = ProcessError("transaction already interpreted")
	ErrIdentityAlreadySet = ProcessError("transaction identity already set")
	ErrIdentityNotSet     = ProcessError("transaction identity not set")
	ErrLogicLocked        = ProcessError("transaction logic is locked")
	ErrNotDecoded         = ProcessError("transaction payload not decoded")
	ErrPayloadMissing     = InvalidError("transaction payload missing")
)

// execution errors - a record that fails with one of these leaves the
// ledger unchanged
var (
	ErrNotAuthorised        = AuthorityError("sender is not authorised")
	ErrNotFeatureAdmin      = AuthorityError("sender is not a feature administrator")
	ErrNotIssuer            = AuthorityError("sender is not the issuer")
	ErrSenderFrozen         = AuthorityError("sender address is frozen")
	ErrSpendNotSigned       = AuthorityError("spend signature does not verify")
	ErrSpendSerialNotBound  = AuthorityError("spend serial is not bound to the signing key")
	ErrTradingNotAuthorised = AuthorityError("trading pair not authorised")

	ErrAcceptExists             = ExistsError("accept already exists")
	ErrActiveCrowdsaleExists    = ExistsError("sender already has an active crowdsale")
	ErrAddressAlreadyFrozen     = ExistsError("address is already frozen")
	ErrDenominationExists       = ExistsError("denomination already exists")
	ErrFreezingAlreadyEnabled   = ExistsError("freezing is already enabled")
	ErrMintPublicKeyExists      = ExistsError("mint public key already used")
	ErrOfferExists              = ExistsError("sell offer already exists")
	ErrSerialAlreadyUsed        = ExistsError("serial number already spent")
	ErrTooManyDenominations     = ExistsError("too many denominations")
	ErrFeatureAlreadyActivated  = ExistsError("feature already activated")
	ErrIdentityChangeOutOfOrder = ExistsError("issuer change is older than the current one")

	ErrCreationFeeNotPaid   = FundsError("property creation fee not paid")
	ErrInsufficientBalance  = FundsError("insufficient balance")
	ErrInsufficientFee      = FundsError("insufficient transaction fee")
	ErrInsufficientStoFee   = FundsError("insufficient balance to pay send to owners fee")
	ErrNothingToSend        = FundsError("no tokens to send")
	ErrSupplyOverflow       = FundsError("token supply would overflow")
	ErrBalanceUnderflow     = FundsError("balance would become negative")
	ErrOfferAmountMismatch  = FundsError("offer amount exceeds reserve")
	ErrInvalidAmount        = InvalidError("amount out of range")
	ErrInvalidActivation    = InvalidError("activation block out of range")
	ErrInvalidAlertType     = InvalidError("invalid alert type")
	ErrInvalidDeadline      = InvalidError("crowdsale deadline already passed")
	ErrInvalidDenomination  = InvalidError("invalid denomination")
	ErrInvalidEcosystem     = InvalidError("invalid ecosystem")
	ErrInvalidGroup         = InvalidError("invalid mint group")
	ErrInvalidPropertyName  = InvalidError("property name is empty")
	ErrInvalidPropertyType  = InvalidError("invalid property type")
	ErrInvalidPublicKey     = InvalidError("invalid public key")
	ErrInvalidReceiver      = InvalidError("invalid receiver address")
	ErrInvalidSubAction     = InvalidError("invalid sub-action")
	ErrSameProperty         = InvalidError("properties must differ")
	ErrCrossEcosystem       = InvalidError("properties are in different ecosystems")
	ErrPropertyNotManaged   = InvalidError("property is not managed")
	ErrSigmaNotEnabled      = InvalidError("sigma is not enabled for property")
	ErrUnsupportedFeature   = InvalidError("unsupported feature")
	ErrTypeNotAllowed       = InvalidError("transaction type or version not allowed")
	ErrUnexecutable         = InvalidError("transaction type is not executable")
	ErrInvalidTransaction   = InvalidError("transaction is invalid")
	ErrFreezingNotEnabled   = InvalidError("freezing is not enabled")
	ErrCrowdsaleIsActive    = InvalidError("property has an active crowdsale")
	ErrInvalidSpendProof    = InvalidError("spend proof does not verify")
	ErrNoProofVerifier      = InvalidError("no spend proof verifier configured")
	ErrGroupSizeTooLarge    = InvalidError("anonymity set larger than group")
	ErrFeatureNotActive     = InvalidError("feature is not active")
	ErrPendingNotFound      = NotFoundError("pending activation not found")
	ErrAcceptNotFound       = NotFoundError("accept not found")
	ErrAddressNotFrozen     = NotFoundError("address is not frozen")
	ErrCrowdsaleNotFound    = NotFoundError("no active crowdsale")
	ErrDenominationNotFound = NotFoundError("denomination not found")
	ErrNoOrdersCancelled    = NotFoundError("no matching orders")
	ErrNoOwners             = NotFoundError("no other owners")
	ErrOfferNotFound        = NotFoundError("sell offer not found")
	ErrPropertyNotFound     = NotFoundError("property not found")
	ErrGroupNotFound        = NotFoundError("mint group not found")
)

// infrastructure errors
var (
	ErrAlreadyInitialised    = ProcessError("already initialised")
	ErrConfigurationNotTable = InvalidError("configuration did not return a table")
	ErrCorruptRecord         = ProcessError("corrupt storage record")
	ErrDataDirectory         = InvalidError("data directory is not valid")
	ErrDatabaseIsReadOnly    = ProcessError("database is read only")
	ErrInvalidChain          = InvalidError("invalid chain")
	ErrInvalidStructPointer  = InvalidError("invalid struct pointer")
	ErrNotInitialised        = ProcessError("not initialised")
	ErrNotPlainFileName      = InvalidError("file name must not contain a directory")
	ErrTransactionFinished   = ProcessError("ledger transaction already finished")
	ErrTransactionInUse      = ProcessError("ledger transaction already in use")
)

// Error - the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e AuthorityError) Error() string { return string(e) }
func (e ExistsError) Error() string    { return string(e) }
func (e FundsError) Error() string     { return string(e) }
func (e InvalidError) Error() string   { return string(e) }
func (e LengthError) Error() string    { return string(e) }
func (e NotFoundError) Error() string  { return string(e) }
func (e ProcessError) Error() string   { return string(e) }
func (e RecordError) Error() string    { return string(e) }

// determine the class of an error
func IsErrAuthority(e error) bool { _, ok := e.(AuthorityError); return ok }
func IsErrExists(e error) bool    { _, ok := e.(ExistsError); return ok }
func IsErrFunds(e error) bool     { _, ok := e.(FundsError); return ok }
func IsErrInvalid(e error) bool   { _, ok := e.(InvalidError); return ok }
func IsErrLength(e error) bool    { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool  { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool   { _, ok := e.(ProcessError); return ok }
func IsErrRecord(e error) bool    { _, ok := e.(RecordError); return ok }

// IsDecodeError - true for the errors a packet decoder can produce
func IsDecodeError(e error) bool {
	return IsErrLength(e) || IsErrRecord(e)
}
