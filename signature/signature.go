// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package signature - ECDSA checks for sender authenticated payloads
//
// signatures are 64 bytes: r ++ s, each 32 bytes big endian, over a
// double SHA-256 digest; public keys are 33 byte compressed points
package signature

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
)

// ParsePublicKey - decode a compressed public key
func ParsePublicKey(key [transactionrecord.PublicKeyLength]byte) (*btcec.PublicKey, error) {
	if 0x02 != key[0] && 0x03 != key[0] {
		return nil, fault.ErrInvalidPublicKey
	}
	pub, err := btcec.ParsePubKey(key[:])
	if nil != err {
		return nil, fault.ErrInvalidPublicKey
	}
	return pub, nil
}

// Verify - check a signature over a digest
func Verify(key [transactionrecord.PublicKeyLength]byte, sig [transactionrecord.SignatureLength]byte, digest []byte) error {
	pub, err := ParsePublicKey(key)
	if nil != err {
		return err
	}

	var r, s btcec.ModNScalar
	if r.SetByteSlice(sig[:32]) || r.IsZero() {
		return fault.ErrSpendNotSigned
	}
	if s.SetByteSlice(sig[32:]) || s.IsZero() {
		return fault.ErrSpendNotSigned
	}

	if !ecdsa.NewSignature(&r, &s).Verify(digest, pub) {
		return fault.ErrSpendNotSigned
	}
	return nil
}

// Sign - produce a signature over a digest
func Sign(key *btcec.PrivateKey, digest []byte) ([transactionrecord.SignatureLength]byte, error) {
	var sig [transactionrecord.SignatureLength]byte

	// recovery byte followed by r ++ s
	compact, err := ecdsa.SignCompact(key, digest, true)
	if nil != err {
		return sig, err
	}
	copy(sig[:], compact[1:])
	return sig, nil
}

// SpendDigest - what the signature of a signed spend covers
//
// the double SHA-256 of the packed spend up to and including the
// public key
func SpendDigest(spend *transactionrecord.SimpleSpend) ([]byte, error) {
	if nil == spend.Signed {
		return nil, fault.ErrPayloadMissing
	}
	unsigned := *spend
	signed := *spend.Signed
	signed.Signature = [transactionrecord.SignatureLength]byte{}
	unsigned.Signed = &signed

	packed, err := unsigned.Pack()
	if nil != err {
		return nil, err
	}
	return chainhash.DoubleHashB(packed[:len(packed)-transactionrecord.SignatureLength]), nil
}

// SerialFor - the serial a signed spend must use for a public key
func SerialFor(key [transactionrecord.PublicKeyLength]byte) [transactionrecord.SerialLength]byte {
	return chainhash.HashH(key[:])
}

// VerifySpend - check a signed spend: the serial must be bound to the
// signing key and the signature must cover the spend
func VerifySpend(spend *transactionrecord.SimpleSpend) error {
	if nil == spend.Signed {
		return fault.ErrSpendNotSigned
	}
	if SerialFor(spend.Signed.PublicKey) != spend.Serial {
		return fault.ErrSpendSerialNotBound
	}
	digest, err := SpendDigest(spend)
	if nil != err {
		return err
	}
	return Verify(spend.Signed.PublicKey, spend.Signed.Signature, digest)
}
