// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/bitmark-inc/elysiumd/fault"
)

// names of all chains
const (
	Main    = "main"
	Testing = "testing"
	Local   = "local"
)

// ClientVersion - version of this implementation as compared against
// the minimum client version of an activation message
//
// encoded as major*1000000 + minor*1000 + patch
const ClientVersion = 1003000

// Params - consensus parameters that differ between chains
type Params struct {
	Name string

	// base chain address encoding
	Net *chaincfg.Params

	// property creation fee, paid in the base currency to the fee
	// receiver as the reference output of the creating transaction
	PropertyCreationFee         btcutil.Amount
	PropertyCreationFeeReceiver string
	MainEcosystemFeeBlock       int
	TestEcosystemFeeBlock       int

	// addresses that may send activation, deactivation and alert
	// messages
	FeatureAdmins []string

	// window for an activation block, relative to the block of the
	// activation message
	MinActivationDelay int
	MaxActivationDelay int

	// maximum number of mints in one sigma group
	MaxMintGroupSize uint32

	// fee paid in the ecosystem token per send to owners receiver
	StoFeePerOwner int64

	// blocks between enabling freezing and it taking effect
	FreezingWaitPeriod int

	// features active from genesis on this chain
	GenesisFeatures []uint16
}

// base chain address versions
var (
	mainNet = chaincfg.Params{
		Name:             "main",
		PubKeyHashAddrID: 0x52,
		ScriptHashAddrID: 0x07,
		PrivateKeyID:     0xd2,
	}
	testNet = chaincfg.Params{
		Name:             "test",
		PubKeyHashAddrID: 0x41,
		ScriptHashAddrID: 0xb2,
		PrivateKeyID:     0xb9,
	}
	regressionNet = chaincfg.Params{
		Name:             "regtest",
		PubKeyHashAddrID: 0x41,
		ScriptHashAddrID: 0xb2,
		PrivateKeyID:     0xef,
	}
)

var mainParams = Params{
	Name:                        Main,
	Net:                         &mainNet,
	PropertyCreationFee:         btcutil.Amount(10 * btcutil.SatoshiPerBitcoin),
	PropertyCreationFeeReceiver: "aHu897ivzmeFuLNB6956X6gyGeVNHUBRgD",
	MainEcosystemFeeBlock:       212000,
	TestEcosystemFeeBlock:       212000,
	FeatureAdmins: []string{
		"a1kCCGddf5pMXSipLVD9hBG2MGGVNaJ15U",
	},
	MinActivationDelay: 1000,
	MaxActivationDelay: 12288,
	MaxMintGroupSize:   16384,
	StoFeePerOwner:     1,
	FreezingWaitPeriod: 4096,
}

var testParams = Params{
	Name:                        Testing,
	Net:                         &testNet,
	PropertyCreationFee:         btcutil.Amount(10 * btcutil.SatoshiPerBitcoin),
	PropertyCreationFeeReceiver: "TR1FW48J6ozpRu25U8giSDdTrdXXUYau7U",
	MainEcosystemFeeBlock:       1000,
	TestEcosystemFeeBlock:       1000,
	FeatureAdmins: []string{
		"TTFL4sPFHP22Dzqbw9mPQJEjdvHB6yG4Eq",
	},
	MinActivationDelay: 0,
	MaxActivationDelay: 999999,
	MaxMintGroupSize:   16384,
	StoFeePerOwner:     1,
	FreezingWaitPeriod: 0,
}

var localParams = Params{
	Name:                        Local,
	Net:                         &regressionNet,
	PropertyCreationFee:         btcutil.Amount(10 * btcutil.SatoshiPerBitcoin),
	PropertyCreationFeeReceiver: "TSxEtVxmCtZDbFnkbYwoDDwEGY5vyjUxCK",
	MainEcosystemFeeBlock:       500,
	TestEcosystemFeeBlock:       500,
	FeatureAdmins: []string{
		"TEDN2sH9Hc6vJS3yy3sGKtqcmPDy8pBB3X",
	},
	MinActivationDelay: 0,
	MaxActivationDelay: 999999,
	MaxMintGroupSize:   16384,
	StoFeePerOwner:     1,
	FreezingWaitPeriod: 0,

	// every feature, see the feature package for the numbering
	GenesisFeatures: []uint16{1, 2, 10, 13, 14, 15, 16, 17},
}

// Valid - validate a chain name
func Valid(name string) bool {
	switch name {
	case Main, Testing, Local:
		return true
	default:
		return false
	}
}

// ParamsFor - consensus parameters for a named chain
//
// the result is a copy so callers may adjust it
func ParamsFor(name string) (*Params, error) {
	var p Params
	switch name {
	case Main:
		p = mainParams
	case Testing:
		p = testParams
	case Local:
		p = localParams
	default:
		return nil, fault.ErrInvalidChain
	}
	p.FeatureAdmins = append([]string(nil), p.FeatureAdmins...)
	p.GenesisFeatures = append([]uint16(nil), p.GenesisFeatures...)
	return &p, nil
}

// IsFeatureAdmin - check if an address may send governance messages
func (p *Params) IsFeatureAdmin(address string) bool {
	for _, a := range p.FeatureAdmins {
		if a == address {
			return true
		}
	}
	return false
}

// FeeBlock - first block at which property creation in an ecosystem
// requires the creation fee
func (p *Params) FeeBlock(testEcosystem bool) int {
	if testEcosystem {
		return p.TestEcosystemFeeBlock
	}
	return p.MainEcosystemFeeBlock
}

// ValidAddress - check that an address decodes on this chain's base
// network
func (p *Params) ValidAddress(address string) bool {
	if "" == address {
		return false
	}
	a, err := btcutil.DecodeAddress(address, p.Net)
	if nil != err {
		return false
	}
	return a.IsForNet(p.Net)
}
