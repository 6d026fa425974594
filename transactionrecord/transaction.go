// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// TransactionType - type code for packets
//
// values are wire stable and must never be renumbered
type TransactionType uint16

// enumerate the possible packet types
const (
	SimpleSendTag             = TransactionType(0)
	RestrictedSendTag         = TransactionType(2)
	SendToOwnersTag           = TransactionType(3)
	SendAllTag                = TransactionType(4)
	SavingsMarkTag            = TransactionType(10)
	SavingsCompromisedTag     = TransactionType(11)
	RateLimitedMarkTag        = TransactionType(12)
	AutomaticDispensaryTag    = TransactionType(15)
	TradeOfferTag             = TransactionType(20)
	AcceptOfferBTCTag         = TransactionType(22)
	MetaDExTradeTag           = TransactionType(25)
	MetaDExCancelPriceTag     = TransactionType(26)
	MetaDExCancelPairTag      = TransactionType(27)
	MetaDExCancelEcosystemTag = TransactionType(28)
	NotificationTag           = TransactionType(31)
	OfferAcceptABetTag        = TransactionType(40)
	CreatePropertyFixedTag    = TransactionType(50)
	CreatePropertyVariableTag = TransactionType(51)
	PromotePropertyTag        = TransactionType(52)
	CloseCrowdsaleTag         = TransactionType(53)
	CreatePropertyManagedTag  = TransactionType(54)
	GrantTokensTag            = TransactionType(55)
	RevokeTokensTag           = TransactionType(56)
	ChangeIssuerTag           = TransactionType(70)
	EnableFreezingTag         = TransactionType(71)
	DisableFreezingTag        = TransactionType(72)
	FreezeTokensTag           = TransactionType(185)
	UnfreezeTokensTag         = TransactionType(186)
	SimpleSpendTag            = TransactionType(1024)
	CreateDenominationTag     = TransactionType(1025)
	SimpleMintTag             = TransactionType(1026)
	DeactivationTag           = TransactionType(65533)
	ActivationTag             = TransactionType(65534)
	AlertTag                  = TransactionType(65535)
)

var typeNames = map[TransactionType]string{
	SimpleSendTag:             "Simple Send",
	RestrictedSendTag:         "Restricted Send",
	SendToOwnersTag:           "Send To Owners",
	SendAllTag:                "Send All",
	SavingsMarkTag:            "Savings",
	SavingsCompromisedTag:     "Savings COMPROMISED",
	RateLimitedMarkTag:        "Rate-Limiting",
	AutomaticDispensaryTag:    "Automatic Dispensary",
	TradeOfferTag:             "DEx Sell Offer",
	AcceptOfferBTCTag:         "DEx Accept Offer",
	MetaDExTradeTag:           "MetaDEx trade",
	MetaDExCancelPriceTag:     "MetaDEx cancel-price",
	MetaDExCancelPairTag:      "MetaDEx cancel-pair",
	MetaDExCancelEcosystemTag: "MetaDEx cancel-ecosystem",
	NotificationTag:           "Notification",
	OfferAcceptABetTag:        "Offer/Accept one Bet",
	CreatePropertyFixedTag:    "Create Property - Fixed",
	CreatePropertyVariableTag: "Create Property - Variable",
	PromotePropertyTag:        "Promote Property",
	CloseCrowdsaleTag:         "Close Crowdsale",
	CreatePropertyManagedTag:  "Create Property - Manual",
	GrantTokensTag:            "Grant Property Tokens",
	RevokeTokensTag:           "Revoke Property Tokens",
	ChangeIssuerTag:           "Change Issuer Address",
	EnableFreezingTag:         "Enable Freezing",
	DisableFreezingTag:        "Disable Freezing",
	FreezeTokensTag:           "Freeze Property Tokens",
	UnfreezeTokensTag:         "Unfreeze Property Tokens",
	SimpleSpendTag:            "Simple Spend",
	CreateDenominationTag:     "Create Denomination",
	SimpleMintTag:             "Simple Mint",
	DeactivationTag:           "Feature Deactivation",
	ActivationTag:             "Feature Activation",
	AlertTag:                  "ALERT",
}

// String - protocol name of a packet type
func (t TransactionType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "* unknown type *"
}

// Known - true if the type is part of the enumeration
func (t TransactionType) Known() bool {
	_, ok := typeNames[t]
	return ok
}

// ActionType - sub-action of DEx offers and MetaDEx cancels
//
// the values are shared, so they must be read in the context of the
// packet type
type ActionType uint8

// DEx offer actions
const (
	ActionInvalid = ActionType(0)
	ActionNew     = ActionType(1)
	ActionUpdate  = ActionType(2)
	ActionCancel  = ActionType(3)
)

// MetaDEx actions
const (
	ActionAdd              = ActionType(1)
	ActionCancelAtPrice    = ActionType(2)
	ActionCancelAllForPair = ActionType(3)
	ActionCancelEverything = ActionType(4)
)

// Packed - packed records are just a byte slice
type Packed []byte

// Header - the version and type at the start of every packet
type Header struct {
	Version uint16          `json:"version"`
	Type    TransactionType `json:"type"`
}

// NewHeader - header for a packet type and version
func NewHeader(t TransactionType, version uint16) Header {
	return Header{Version: version, Type: t}
}

// Head - the packet header
func (h Header) Head() Header {
	return h
}

func (h Header) isPayload() {}

// Payload - a decoded packet
//
// the set of implementations is closed; switch on the concrete type
//
// e.g.
//   switch tx := payload.(type) {
//   case *transactionrecord.SimpleSend:
type Payload interface {
	Head() Header
	Pack() (Packed, error)
	isPayload()
}

// byte sizes for various fields
const (
	maxStringLength    = 255
	maxProofLength     = 65535
	maxMints           = 255
	PublicKeyLength    = 33
	SignatureLength    = 64
	SerialLength       = 32
	AddressHashLength  = 20
	minimumPacketBytes = 4
)

// PropertyInfo - the descriptive fields shared by property creation
type PropertyInfo struct {
	Ecosystem    Ecosystem    `json:"ecosystem"`
	PropertyType PropertyType `json:"propertyType"`
	PreviousId   PropertyId   `json:"previousId"`
	Category     string       `json:"category"`
	Subcategory  string       `json:"subcategory"`
	Name         string       `json:"name"`
	Url          string       `json:"url"`
	Data         string       `json:"data"`
}

// SimpleSend - transfer tokens to the receiver
type SimpleSend struct {
	Header
	Property PropertyId `json:"property"`
	Amount   uint64     `json:"amount"`
}

// SendToOwners - distribute tokens to all holders of a property
//
// version 1 distributes to the holders of DistributionProperty
type SendToOwners struct {
	Header
	Property             PropertyId  `json:"property"`
	Amount               uint64      `json:"amount"`
	DistributionProperty *PropertyId `json:"distributionProperty,omitempty"`
}

// SendAll - transfer every available balance of an ecosystem
type SendAll struct {
	Header
	Ecosystem Ecosystem `json:"ecosystem"`
}

// TradeOffer - DEx sell offer of tokens for base currency
type TradeOffer struct {
	Header
	Property       PropertyId `json:"property"`
	Amount         uint64     `json:"amount"`
	AmountDesired  uint64     `json:"amountDesired"`
	BlockTimeLimit uint8      `json:"blockTimeLimit"`
	MinFee         uint64     `json:"minFee"`
	SubAction      ActionType `json:"subAction"`
}

// AcceptOfferBTC - accept a DEx sell offer
type AcceptOfferBTC struct {
	Header
	Property PropertyId `json:"property"`
	Amount   uint64     `json:"amount"`
}

// MetaDExTrade - offer one property for another
type MetaDExTrade struct {
	Header
	Property        PropertyId `json:"property"`
	Amount          uint64     `json:"amount"`
	DesiredProperty PropertyId `json:"desiredProperty"`
	DesiredAmount   uint64     `json:"desiredAmount"`
}

// MetaDExCancelPrice - cancel the sender's orders at one unit price
type MetaDExCancelPrice struct {
	Header
	Property        PropertyId `json:"property"`
	Amount          uint64     `json:"amount"`
	DesiredProperty PropertyId `json:"desiredProperty"`
	DesiredAmount   uint64     `json:"desiredAmount"`
}

// MetaDExCancelPair - cancel the sender's orders for a property pair
type MetaDExCancelPair struct {
	Header
	Property        PropertyId `json:"property"`
	DesiredProperty PropertyId `json:"desiredProperty"`
}

// MetaDExCancelEcosystem - cancel all of the sender's orders in an ecosystem
type MetaDExCancelEcosystem struct {
	Header
	Ecosystem Ecosystem `json:"ecosystem"`
}

// CreatePropertyFixed - create a property with a fixed supply
type CreatePropertyFixed struct {
	Header
	PropertyInfo
	Amount      uint64       `json:"amount"`
	SigmaStatus *SigmaStatus `json:"sigmaStatus,omitempty"`
}

// CreatePropertyVariable - create a property sold by crowdsale
type CreatePropertyVariable struct {
	Header
	PropertyInfo
	DesiredProperty  PropertyId   `json:"desiredProperty"`
	TokensPerUnit    uint64       `json:"tokensPerUnit"`
	Deadline         uint64       `json:"deadline"`
	EarlyBird        uint8        `json:"earlyBird"`
	IssuerPercentage uint8        `json:"issuerPercentage"`
	SigmaStatus      *SigmaStatus `json:"sigmaStatus,omitempty"`
}

// CloseCrowdsale - end a crowdsale before its deadline
type CloseCrowdsale struct {
	Header
	Property PropertyId `json:"property"`
}

// CreatePropertyManaged - create a property whose supply the issuer manages
type CreatePropertyManaged struct {
	Header
	PropertyInfo
	SigmaStatus *SigmaStatus `json:"sigmaStatus,omitempty"`
}

// GrantTokens - issuer creates new tokens of a managed property
type GrantTokens struct {
	Header
	Property PropertyId `json:"property"`
	Amount   uint64     `json:"amount"`
}

// RevokeTokens - holder destroys tokens of a managed property
type RevokeTokens struct {
	Header
	Property PropertyId `json:"property"`
	Amount   uint64     `json:"amount"`
}

// ChangeIssuer - pass issuer authority to the receiver
type ChangeIssuer struct {
	Header
	Property PropertyId `json:"property"`
}

// EnableFreezing - allow the issuer to freeze addresses
type EnableFreezing struct {
	Header
	Property PropertyId `json:"property"`
}

// DisableFreezing - stop freezing and unfreeze every address
type DisableFreezing struct {
	Header
	Property PropertyId `json:"property"`
}

// FrozenAddress - a base chain address as version byte and hash
type FrozenAddress struct {
	Version byte                    `json:"version"`
	Hash    [AddressHashLength]byte `json:"hash"`
}

// String - base58check form of the address
func (a FrozenAddress) String() string {
	return base58.CheckEncode(a.Hash[:], a.Version)
}

// FrozenAddressFromString - decode a base58check address
func FrozenAddressFromString(s string) (FrozenAddress, error) {
	a := FrozenAddress{}
	hash, version, err := base58.CheckDecode(s)
	if nil != err {
		return a, err
	}
	if AddressHashLength != len(hash) {
		return a, base58.ErrInvalidFormat
	}
	a.Version = version
	copy(a.Hash[:], hash)
	return a, nil
}

// FreezeTokens - issuer freezes an address
type FreezeTokens struct {
	Header
	Property PropertyId    `json:"property"`
	Amount   uint64        `json:"amount"` // unused
	Address  FrozenAddress `json:"address"`
}

// UnfreezeTokens - issuer unfreezes an address
type UnfreezeTokens struct {
	Header
	Property PropertyId    `json:"property"`
	Amount   uint64        `json:"amount"` // unused
	Address  FrozenAddress `json:"address"`
}

// SpendSignature - proof that the spender holds the key bound to the serial
type SpendSignature struct {
	PublicKey [PublicKeyLength]byte `json:"publicKey"`
	Signature [SignatureLength]byte `json:"signature"`
}

// SimpleSpend - consume a sigma mint
type SimpleSpend struct {
	Header
	Property     PropertyId         `json:"property"`
	Denomination uint8              `json:"denomination"`
	Group        uint32             `json:"group"`
	GroupSize    *uint16            `json:"groupSize,omitempty"`
	Serial       [SerialLength]byte `json:"serial"`
	Proof        []byte             `json:"proof"`
	Signed       *SpendSignature    `json:"signed,omitempty"`
}

// CreateDenomination - add a sigma denomination to a property
type CreateDenomination struct {
	Header
	Property PropertyId `json:"property"`
	Value    uint64     `json:"value"`
}

// Mint - one committed public key
type Mint struct {
	Denomination uint8                 `json:"denomination"`
	PublicKey    [PublicKeyLength]byte `json:"publicKey"`
}

// SimpleMint - convert tokens into sigma mints
type SimpleMint struct {
	Header
	Property PropertyId `json:"property"`
	Mints    []Mint     `json:"mints"`
}

// Deactivation - switch a feature off
type Deactivation struct {
	Header
	FeatureId uint16 `json:"featureId"`
}

// Activation - switch a feature on at a future block
type Activation struct {
	Header
	FeatureId        uint16 `json:"featureId"`
	ActivationBlock  uint32 `json:"activationBlock"`
	MinClientVersion uint32 `json:"minClientVersion"`
}

// Alert - an advisory message for node operators
type Alert struct {
	Header
	AlertType uint16 `json:"alertType"`
	Expiry    uint32 `json:"expiry"`
	Text      string `json:"text"`
}

// Unsupported - a well formed packet of a type that cannot be executed
type Unsupported struct {
	Header
	Body []byte `json:"body"`
}

// Head - header of a packed record
func (record Packed) Head() (Header, bool) {
	if len(record) < minimumPacketBytes {
		return Header{}, false
	}
	return Header{
		Version: binary.BigEndian.Uint16(record[0:2]),
		Type:    TransactionType(binary.BigEndian.Uint16(record[2:4])),
	}, true
}

// RecordName - returns the name of a transaction record as a string
func RecordName(record interface{}) (string, bool) {
	switch tx := record.(type) {
	case *SimpleSend, *SendToOwners, *SendAll,
		*TradeOffer, *AcceptOfferBTC,
		*MetaDExTrade, *MetaDExCancelPrice, *MetaDExCancelPair, *MetaDExCancelEcosystem,
		*CreatePropertyFixed, *CreatePropertyVariable, *CloseCrowdsale, *CreatePropertyManaged,
		*GrantTokens, *RevokeTokens, *ChangeIssuer,
		*EnableFreezing, *DisableFreezing, *FreezeTokens, *UnfreezeTokens,
		*SimpleSpend, *CreateDenomination, *SimpleMint,
		*Deactivation, *Activation, *Alert:
		return tx.(Payload).Head().Type.String(), true

	case *Unsupported:
		return tx.Type.String(), false

	default:
		return "*unknown*", false
	}
}

// MarshalText - convert a packed to its hex JSON form
func (record Packed) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(len(record))
	b := make([]byte, size)
	hex.Encode(b, record)
	return b, nil
}

// UnmarshalText - convert a packed from its hex JSON form
func (record *Packed) UnmarshalText(s []byte) error {
	size := hex.DecodedLen(len(s))
	*record = make([]byte, size)
	_, err := hex.Decode(*record, s)
	return err
}
