// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain_test

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/elysiumd/chain"
	"github.com/bitmark-inc/elysiumd/fault"
)

func TestValid(t *testing.T) {
	for _, name := range []string{chain.Main, chain.Testing, chain.Local} {
		assert.True(t, chain.Valid(name), name)
		p, err := chain.ParamsFor(name)
		assert.Nil(t, err, name)
		assert.Equal(t, name, p.Name)
	}
	assert.False(t, chain.Valid("bitcoin"))

	_, err := chain.ParamsFor("bitcoin")
	assert.Equal(t, fault.ErrInvalidChain, err)
}

func TestParamsAreCopies(t *testing.T) {
	p1, _ := chain.ParamsFor(chain.Local)
	p1.FeatureAdmins[0] = "changed"
	p1.MaxMintGroupSize = 1

	p2, _ := chain.ParamsFor(chain.Local)
	assert.NotEqual(t, "changed", p2.FeatureAdmins[0])
	assert.Equal(t, uint32(16384), p2.MaxMintGroupSize)
}

func TestValidAddress(t *testing.T) {
	p, _ := chain.ParamsFor(chain.Local)

	hash := make([]byte, 20)
	hash[0] = 1
	a, err := btcutil.NewAddressPubKeyHash(hash, p.Net)
	assert.Nil(t, err)

	assert.True(t, p.ValidAddress(a.EncodeAddress()))
	assert.False(t, p.ValidAddress(""))
	assert.False(t, p.ValidAddress("not-an-address"))

	main, _ := chain.ParamsFor(chain.Main)
	assert.False(t, main.ValidAddress(a.EncodeAddress()))
}

func TestFeatureAdmin(t *testing.T) {
	p, _ := chain.ParamsFor(chain.Testing)
	assert.True(t, p.IsFeatureAdmin(p.FeatureAdmins[0]))
	assert.False(t, p.IsFeatureAdmin("someone"))
	assert.Equal(t, p.MainEcosystemFeeBlock, p.FeeBlock(false))
	assert.Equal(t, p.TestEcosystemFeeBlock, p.FeeBlock(true))
}
