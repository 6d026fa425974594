// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"bytes"
	"encoding/binary"
	"unicode/utf8"

	"github.com/bitmark-inc/elysiumd/fault"
)

// bounds checked reader over a packet
//
// the first failure is kept and every later read returns zero
type cursor struct {
	buffer []byte
	n      int
	err    error
}

// every read passes through here
func (c *cursor) take(size int) []byte {
	if nil != c.err {
		return nil
	}
	if size < 0 || size > len(c.buffer)-c.n {
		c.err = fault.ErrPacketOverrun
		return nil
	}
	b := c.buffer[c.n : c.n+size]
	c.n += size
	return b
}

func (c *cursor) u8() uint8 {
	b := c.take(1)
	if nil == b {
		return 0
	}
	return b[0]
}

func (c *cursor) u16() uint16 {
	b := c.take(2)
	if nil == b {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (c *cursor) u32() uint32 {
	b := c.take(4)
	if nil == b {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (c *cursor) u64() uint64 {
	b := c.take(8)
	if nil == b {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

func (c *cursor) property() PropertyId {
	return PropertyId(c.u32())
}

func (c *cursor) fixed(dst []byte) {
	b := c.take(len(dst))
	if nil != b {
		copy(dst, b)
	}
}

// a NUL terminated string of at most maxStringLength bytes
func (c *cursor) str() string {
	if nil != c.err {
		return ""
	}
	end := bytes.IndexByte(c.buffer[c.n:], 0)
	if end < 0 {
		c.err = fault.ErrPacketOverrun
		return ""
	}
	if end > maxStringLength {
		c.err = fault.ErrStringTooLong
		return ""
	}
	b := c.take(end + 1)
	if nil == b {
		return ""
	}
	if !utf8.Valid(b[:end]) {
		c.err = fault.ErrInvalidStringEncoding
		return ""
	}
	return string(b[:end])
}

func (c *cursor) info() PropertyInfo {
	info := PropertyInfo{}
	info.Ecosystem = Ecosystem(c.u8())
	info.PropertyType = PropertyType(c.u16())
	info.PreviousId = c.property()
	info.Category = c.str()
	info.Subcategory = c.str()
	info.Name = c.str()
	info.Url = c.str()
	info.Data = c.str()
	return info
}

func (c *cursor) frozenAddress() FrozenAddress {
	a := FrozenAddress{}
	a.Version = c.u8()
	c.fixed(a.Hash[:])
	return a
}

// optional trailing sigma status of version 1 creations
func (c *cursor) sigmaStatus(version uint16) *SigmaStatus {
	if version < 1 {
		return nil
	}
	s := SigmaStatus(c.u8())
	return &s
}

// Unpack - turn a byte slice into a payload
//
// reads the version and type header then the body of that type;
// returns the payload and the number of bytes consumed, any bytes
// after a complete body are ignored
//
// a well formed packet of a type that cannot be executed unpacks to
// *Unsupported with a nil error
//
// must cast result to correct type
//
// e.g.
//   send, ok := result.(*transactionrecord.SimpleSend)
func (record Packed) Unpack() (p Payload, n int, e error) {

	defer func() {
		if r := recover(); nil != r {
			p, n, e = nil, 0, fault.ErrNotTransactionPack
		}
	}()

	if len(record) < minimumPacketBytes {
		return nil, 0, fault.ErrPacketTooShort
	}

	c := &cursor{buffer: record}
	h := Header{}
	h.Version = c.u16()
	h.Type = TransactionType(c.u16())

	switch h.Type {

	case SimpleSendTag:
		tx := &SimpleSend{Header: h}
		tx.Property = c.property()
		tx.Amount = c.u64()
		p = tx

	case SendToOwnersTag:
		tx := &SendToOwners{Header: h}
		tx.Property = c.property()
		tx.Amount = c.u64()
		if h.Version >= 1 {
			d := c.property()
			tx.DistributionProperty = &d
		}
		p = tx

	case SendAllTag:
		p = &SendAll{Header: h, Ecosystem: Ecosystem(c.u8())}

	case TradeOfferTag:
		tx := &TradeOffer{Header: h}
		tx.Property = c.property()
		tx.Amount = c.u64()
		tx.AmountDesired = c.u64()
		tx.BlockTimeLimit = c.u8()
		tx.MinFee = c.u64()
		tx.SubAction = ActionType(c.u8())
		p = tx

	case AcceptOfferBTCTag:
		tx := &AcceptOfferBTC{Header: h}
		tx.Property = c.property()
		tx.Amount = c.u64()
		p = tx

	case MetaDExTradeTag:
		tx := &MetaDExTrade{Header: h}
		tx.Property = c.property()
		tx.Amount = c.u64()
		tx.DesiredProperty = c.property()
		tx.DesiredAmount = c.u64()
		p = tx

	case MetaDExCancelPriceTag:
		tx := &MetaDExCancelPrice{Header: h}
		tx.Property = c.property()
		tx.Amount = c.u64()
		tx.DesiredProperty = c.property()
		tx.DesiredAmount = c.u64()
		p = tx

	case MetaDExCancelPairTag:
		tx := &MetaDExCancelPair{Header: h}
		tx.Property = c.property()
		tx.DesiredProperty = c.property()
		p = tx

	case MetaDExCancelEcosystemTag:
		p = &MetaDExCancelEcosystem{Header: h, Ecosystem: Ecosystem(c.u8())}

	case CreatePropertyFixedTag:
		tx := &CreatePropertyFixed{Header: h}
		tx.PropertyInfo = c.info()
		tx.Amount = c.u64()
		tx.SigmaStatus = c.sigmaStatus(h.Version)
		p = tx

	case CreatePropertyVariableTag:
		tx := &CreatePropertyVariable{Header: h}
		tx.PropertyInfo = c.info()
		tx.DesiredProperty = c.property()
		tx.TokensPerUnit = c.u64()
		tx.Deadline = c.u64()
		tx.EarlyBird = c.u8()
		tx.IssuerPercentage = c.u8()
		tx.SigmaStatus = c.sigmaStatus(h.Version)
		p = tx

	case CloseCrowdsaleTag:
		p = &CloseCrowdsale{Header: h, Property: c.property()}

	case CreatePropertyManagedTag:
		tx := &CreatePropertyManaged{Header: h}
		tx.PropertyInfo = c.info()
		tx.SigmaStatus = c.sigmaStatus(h.Version)
		p = tx

	case GrantTokensTag:
		tx := &GrantTokens{Header: h}
		tx.Property = c.property()
		tx.Amount = c.u64()
		p = tx

	case RevokeTokensTag:
		tx := &RevokeTokens{Header: h}
		tx.Property = c.property()
		tx.Amount = c.u64()
		p = tx

	case ChangeIssuerTag:
		p = &ChangeIssuer{Header: h, Property: c.property()}

	case EnableFreezingTag:
		p = &EnableFreezing{Header: h, Property: c.property()}

	case DisableFreezingTag:
		p = &DisableFreezing{Header: h, Property: c.property()}

	case FreezeTokensTag:
		tx := &FreezeTokens{Header: h}
		tx.Property = c.property()
		tx.Amount = c.u64()
		tx.Address = c.frozenAddress()
		p = tx

	case UnfreezeTokensTag:
		tx := &UnfreezeTokens{Header: h}
		tx.Property = c.property()
		tx.Amount = c.u64()
		tx.Address = c.frozenAddress()
		p = tx

	case SimpleSpendTag:
		tx := &SimpleSpend{Header: h}
		tx.Property = c.property()
		tx.Denomination = c.u8()
		tx.Group = c.u32()
		if h.Version >= 1 {
			size := c.u16()
			tx.GroupSize = &size
		}
		c.fixed(tx.Serial[:])
		proofLength := int(c.u16())
		proof := c.take(proofLength)
		if nil != proof {
			tx.Proof = make([]byte, proofLength)
			copy(tx.Proof, proof)
		}
		if h.Version >= 1 {
			s := &SpendSignature{}
			c.fixed(s.PublicKey[:])
			c.fixed(s.Signature[:])
			tx.Signed = s
		}
		p = tx

	case CreateDenominationTag:
		tx := &CreateDenomination{Header: h}
		tx.Property = c.property()
		tx.Value = c.u64()
		p = tx

	case SimpleMintTag:
		tx := &SimpleMint{Header: h}
		tx.Property = c.property()
		count := int(c.u8())
		if nil == c.err && 0 == count {
			return nil, 0, fault.ErrInvalidCount
		}

		// each mint is a denomination byte and a public key
		if nil == c.err && count*(1+PublicKeyLength) > len(record)-c.n {
			return nil, 0, fault.ErrPacketOverrun
		}
		tx.Mints = make([]Mint, 0, count)
		for i := 0; i < count && nil == c.err; i += 1 {
			m := Mint{Denomination: c.u8()}
			c.fixed(m.PublicKey[:])
			tx.Mints = append(tx.Mints, m)
		}
		p = tx

	case DeactivationTag:
		p = &Deactivation{Header: h, FeatureId: c.u16()}

	case ActivationTag:
		tx := &Activation{Header: h}
		tx.FeatureId = c.u16()
		tx.ActivationBlock = c.u32()
		tx.MinClientVersion = c.u32()
		p = tx

	case AlertTag:
		tx := &Alert{Header: h}
		tx.AlertType = c.u16()
		tx.Expiry = c.u32()
		tx.Text = c.str()
		p = tx

	default:
		// includes the enumerated types that have no effect routine
		body := make([]byte, len(record)-c.n)
		copy(body, record[c.n:])
		return &Unsupported{Header: h, Body: body}, len(record), nil
	}

	if nil != c.err {
		return nil, 0, c.err
	}
	return p, c.n, nil
}
