// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"encoding/binary"
	"strings"
	"unicode/utf8"

	"github.com/bitmark-inc/elysiumd/fault"
)

// packer accumulates a packet and keeps the first error
type packer struct {
	buffer Packed
	err    error
}

func newPacker(h Header, expected TransactionType) *packer {
	p := &packer{buffer: make(Packed, 0, 64)}
	if h.Type != expected {
		p.err = fault.ErrUnknownTransactionType
	}
	p.u16(h.Version)
	p.u16(uint16(h.Type))
	return p
}

func (p *packer) u8(value uint8) {
	p.buffer = append(p.buffer, value)
}

func (p *packer) u16(value uint16) {
	p.buffer = binary.BigEndian.AppendUint16(p.buffer, value)
}

func (p *packer) u32(value uint32) {
	p.buffer = binary.BigEndian.AppendUint32(p.buffer, value)
}

func (p *packer) u64(value uint64) {
	p.buffer = binary.BigEndian.AppendUint64(p.buffer, value)
}

func (p *packer) property(value PropertyId) {
	p.u32(uint32(value))
}

func (p *packer) bytes(value []byte) {
	p.buffer = append(p.buffer, value...)
}

// string followed by a NUL
func (p *packer) str(value string) {
	if nil == p.err {
		if len(value) > maxStringLength {
			p.err = fault.ErrStringTooLong
		} else if !utf8.ValidString(value) || strings.IndexByte(value, 0) >= 0 {
			p.err = fault.ErrInvalidStringEncoding
		}
	}
	p.buffer = append(p.buffer, value...)
	p.buffer = append(p.buffer, 0)
}

func (p *packer) info(info PropertyInfo) {
	p.u8(uint8(info.Ecosystem))
	p.u16(uint16(info.PropertyType))
	p.property(info.PreviousId)
	p.str(info.Category)
	p.str(info.Subcategory)
	p.str(info.Name)
	p.str(info.Url)
	p.str(info.Data)
}

// version 1 creations must carry a sigma status, version 0 must not
func (p *packer) sigmaStatus(version uint16, status *SigmaStatus) {
	if version < 1 {
		if nil != status && nil == p.err {
			p.err = fault.ErrInvalidCount
		}
		return
	}
	if nil == status {
		if nil == p.err {
			p.err = fault.ErrPayloadMissing
		}
		return
	}
	p.u8(uint8(*status))
}

func (p *packer) done() (Packed, error) {
	if nil != p.err {
		return nil, p.err
	}
	return p.buffer, nil
}

// Pack - SimpleSend
func (tx *SimpleSend) Pack() (Packed, error) {
	p := newPacker(tx.Header, SimpleSendTag)
	p.property(tx.Property)
	p.u64(tx.Amount)
	return p.done()
}

// Pack - SendToOwners
//
// the distribution property is present exactly when version >= 1
func (tx *SendToOwners) Pack() (Packed, error) {
	p := newPacker(tx.Header, SendToOwnersTag)
	p.property(tx.Property)
	p.u64(tx.Amount)
	if tx.Version >= 1 {
		if nil == tx.DistributionProperty {
			return nil, fault.ErrPayloadMissing
		}
		p.property(*tx.DistributionProperty)
	} else if nil != tx.DistributionProperty {
		return nil, fault.ErrInvalidCount
	}
	return p.done()
}

// Pack - SendAll
func (tx *SendAll) Pack() (Packed, error) {
	p := newPacker(tx.Header, SendAllTag)
	p.u8(uint8(tx.Ecosystem))
	return p.done()
}

// Pack - TradeOffer
func (tx *TradeOffer) Pack() (Packed, error) {
	p := newPacker(tx.Header, TradeOfferTag)
	p.property(tx.Property)
	p.u64(tx.Amount)
	p.u64(tx.AmountDesired)
	p.u8(tx.BlockTimeLimit)
	p.u64(tx.MinFee)
	p.u8(uint8(tx.SubAction))
	return p.done()
}

// Pack - AcceptOfferBTC
func (tx *AcceptOfferBTC) Pack() (Packed, error) {
	p := newPacker(tx.Header, AcceptOfferBTCTag)
	p.property(tx.Property)
	p.u64(tx.Amount)
	return p.done()
}

// Pack - MetaDExTrade
func (tx *MetaDExTrade) Pack() (Packed, error) {
	p := newPacker(tx.Header, MetaDExTradeTag)
	p.property(tx.Property)
	p.u64(tx.Amount)
	p.property(tx.DesiredProperty)
	p.u64(tx.DesiredAmount)
	return p.done()
}

// Pack - MetaDExCancelPrice
func (tx *MetaDExCancelPrice) Pack() (Packed, error) {
	p := newPacker(tx.Header, MetaDExCancelPriceTag)
	p.property(tx.Property)
	p.u64(tx.Amount)
	p.property(tx.DesiredProperty)
	p.u64(tx.DesiredAmount)
	return p.done()
}

// Pack - MetaDExCancelPair
func (tx *MetaDExCancelPair) Pack() (Packed, error) {
	p := newPacker(tx.Header, MetaDExCancelPairTag)
	p.property(tx.Property)
	p.property(tx.DesiredProperty)
	return p.done()
}

// Pack - MetaDExCancelEcosystem
func (tx *MetaDExCancelEcosystem) Pack() (Packed, error) {
	p := newPacker(tx.Header, MetaDExCancelEcosystemTag)
	p.u8(uint8(tx.Ecosystem))
	return p.done()
}

// Pack - CreatePropertyFixed
func (tx *CreatePropertyFixed) Pack() (Packed, error) {
	p := newPacker(tx.Header, CreatePropertyFixedTag)
	p.info(tx.PropertyInfo)
	p.u64(tx.Amount)
	p.sigmaStatus(tx.Version, tx.SigmaStatus)
	return p.done()
}

// Pack - CreatePropertyVariable
func (tx *CreatePropertyVariable) Pack() (Packed, error) {
	p := newPacker(tx.Header, CreatePropertyVariableTag)
	p.info(tx.PropertyInfo)
	p.property(tx.DesiredProperty)
	p.u64(tx.TokensPerUnit)
	p.u64(tx.Deadline)
	p.u8(tx.EarlyBird)
	p.u8(tx.IssuerPercentage)
	p.sigmaStatus(tx.Version, tx.SigmaStatus)
	return p.done()
}

// Pack - CloseCrowdsale
func (tx *CloseCrowdsale) Pack() (Packed, error) {
	p := newPacker(tx.Header, CloseCrowdsaleTag)
	p.property(tx.Property)
	return p.done()
}

// Pack - CreatePropertyManaged
func (tx *CreatePropertyManaged) Pack() (Packed, error) {
	p := newPacker(tx.Header, CreatePropertyManagedTag)
	p.info(tx.PropertyInfo)
	p.sigmaStatus(tx.Version, tx.SigmaStatus)
	return p.done()
}

// Pack - GrantTokens
func (tx *GrantTokens) Pack() (Packed, error) {
	p := newPacker(tx.Header, GrantTokensTag)
	p.property(tx.Property)
	p.u64(tx.Amount)
	return p.done()
}

// Pack - RevokeTokens
func (tx *RevokeTokens) Pack() (Packed, error) {
	p := newPacker(tx.Header, RevokeTokensTag)
	p.property(tx.Property)
	p.u64(tx.Amount)
	return p.done()
}

// Pack - ChangeIssuer
func (tx *ChangeIssuer) Pack() (Packed, error) {
	p := newPacker(tx.Header, ChangeIssuerTag)
	p.property(tx.Property)
	return p.done()
}

// Pack - EnableFreezing
func (tx *EnableFreezing) Pack() (Packed, error) {
	p := newPacker(tx.Header, EnableFreezingTag)
	p.property(tx.Property)
	return p.done()
}

// Pack - DisableFreezing
func (tx *DisableFreezing) Pack() (Packed, error) {
	p := newPacker(tx.Header, DisableFreezingTag)
	p.property(tx.Property)
	return p.done()
}

// Pack - FreezeTokens
func (tx *FreezeTokens) Pack() (Packed, error) {
	p := newPacker(tx.Header, FreezeTokensTag)
	p.property(tx.Property)
	p.u64(tx.Amount)
	p.u8(tx.Address.Version)
	p.bytes(tx.Address.Hash[:])
	return p.done()
}

// Pack - UnfreezeTokens
func (tx *UnfreezeTokens) Pack() (Packed, error) {
	p := newPacker(tx.Header, UnfreezeTokensTag)
	p.property(tx.Property)
	p.u64(tx.Amount)
	p.u8(tx.Address.Version)
	p.bytes(tx.Address.Hash[:])
	return p.done()
}

// Pack - SimpleSpend
//
// group size and signature are present exactly when version >= 1
func (tx *SimpleSpend) Pack() (Packed, error) {
	if len(tx.Proof) > maxProofLength {
		return nil, fault.ErrProofTooLong
	}
	v1 := tx.Version >= 1
	if v1 && (nil == tx.GroupSize || nil == tx.Signed) {
		return nil, fault.ErrPayloadMissing
	}
	if !v1 && (nil != tx.GroupSize || nil != tx.Signed) {
		return nil, fault.ErrInvalidCount
	}

	p := newPacker(tx.Header, SimpleSpendTag)
	p.property(tx.Property)
	p.u8(tx.Denomination)
	p.u32(tx.Group)
	if v1 {
		p.u16(*tx.GroupSize)
	}
	p.bytes(tx.Serial[:])
	p.u16(uint16(len(tx.Proof)))
	p.bytes(tx.Proof)
	if v1 {
		p.bytes(tx.Signed.PublicKey[:])
		p.bytes(tx.Signed.Signature[:])
	}
	return p.done()
}

// Pack - CreateDenomination
func (tx *CreateDenomination) Pack() (Packed, error) {
	p := newPacker(tx.Header, CreateDenominationTag)
	p.property(tx.Property)
	p.u64(tx.Value)
	return p.done()
}

// Pack - SimpleMint
func (tx *SimpleMint) Pack() (Packed, error) {
	if 0 == len(tx.Mints) || len(tx.Mints) > maxMints {
		return nil, fault.ErrInvalidCount
	}
	p := newPacker(tx.Header, SimpleMintTag)
	p.property(tx.Property)
	p.u8(uint8(len(tx.Mints)))
	for _, m := range tx.Mints {
		p.u8(m.Denomination)
		p.bytes(m.PublicKey[:])
	}
	return p.done()
}

// Pack - Deactivation
func (tx *Deactivation) Pack() (Packed, error) {
	p := newPacker(tx.Header, DeactivationTag)
	p.u16(tx.FeatureId)
	return p.done()
}

// Pack - Activation
func (tx *Activation) Pack() (Packed, error) {
	p := newPacker(tx.Header, ActivationTag)
	p.u16(tx.FeatureId)
	p.u32(tx.ActivationBlock)
	p.u32(tx.MinClientVersion)
	return p.done()
}

// Pack - Alert
func (tx *Alert) Pack() (Packed, error) {
	p := newPacker(tx.Header, AlertTag)
	p.u16(tx.AlertType)
	p.u32(tx.Expiry)
	p.str(tx.Text)
	return p.done()
}

// Pack - Unsupported reproduces the original bytes
func (tx *Unsupported) Pack() (Packed, error) {
	p := newPacker(tx.Header, tx.Type)
	p.bytes(tx.Body)
	return p.done()
}
