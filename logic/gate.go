// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package logic

import (
	"github.com/bitmark-inc/elysiumd/feature"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
)

// no feature needed
const always = feature.Id(0)

// versions of each executable type, indexed by version, giving the
// feature that must be live for that version
var allowedVersions = map[transactionrecord.TransactionType][]feature.Id{
	transactionrecord.SimpleSendTag:             {always},
	transactionrecord.SendToOwnersTag:           {always, feature.SendToOwners},
	transactionrecord.SendAllTag:                {feature.SendAll},
	transactionrecord.TradeOfferTag:             {always, always},
	transactionrecord.AcceptOfferBTCTag:         {always},
	transactionrecord.MetaDExTradeTag:           {feature.MetaDEx},
	transactionrecord.MetaDExCancelPriceTag:     {feature.MetaDEx},
	transactionrecord.MetaDExCancelPairTag:      {feature.MetaDEx},
	transactionrecord.MetaDExCancelEcosystemTag: {feature.MetaDEx},
	transactionrecord.CreatePropertyFixedTag:    {always, feature.Sigma},
	transactionrecord.CreatePropertyVariableTag: {always, feature.Sigma},
	transactionrecord.CloseCrowdsaleTag:         {always},
	transactionrecord.CreatePropertyManagedTag:  {always, feature.Sigma},
	transactionrecord.GrantTokensTag:            {always},
	transactionrecord.RevokeTokensTag:           {always},
	transactionrecord.ChangeIssuerTag:           {always},
	transactionrecord.EnableFreezingTag:         {feature.Freezing},
	transactionrecord.DisableFreezingTag:        {feature.Freezing},
	transactionrecord.FreezeTokensTag:           {feature.Freezing},
	transactionrecord.UnfreezeTokensTag:         {feature.Freezing},
	transactionrecord.SimpleSpendTag:            {feature.Sigma, feature.SigmaSpendV1},
	transactionrecord.CreateDenominationTag:     {feature.Sigma},
	transactionrecord.SimpleMintTag:             {feature.Sigma},
}

// governance messages are accepted at any version
func isGovernance(t transactionrecord.TransactionType) bool {
	switch t {
	case transactionrecord.DeactivationTag, transactionrecord.ActivationTag, transactionrecord.AlertTag:
		return true
	default:
		return false
	}
}

// isTransactionTypeAllowed - check a type and version may execute at a
// block
//
// in the test ecosystem every implemented version is allowed without
// waiting for its feature
func (e *Executor) isTransactionTypeAllowed(r storage.Reader, block int, ecosystem transactionrecord.Ecosystem, t transactionrecord.TransactionType, version uint16) bool {
	if isGovernance(t) {
		return true
	}
	versions, ok := allowedVersions[t]
	if !ok || int(version) >= len(versions) {
		return false
	}
	required := versions[version]
	if always == required || transactionrecord.TestEcosystem == ecosystem {
		return true
	}
	return feature.IsActivated(r, e.params, required, block)
}

// the ecosystem a payload acts in, main if it has none
func payloadEcosystem(p transactionrecord.Payload) transactionrecord.Ecosystem {
	switch tx := p.(type) {
	case *transactionrecord.SimpleSend:
		return tx.Property.Ecosystem()
	case *transactionrecord.SendToOwners:
		return tx.Property.Ecosystem()
	case *transactionrecord.SendAll:
		return tx.Ecosystem
	case *transactionrecord.TradeOffer:
		return tx.Property.Ecosystem()
	case *transactionrecord.AcceptOfferBTC:
		return tx.Property.Ecosystem()
	case *transactionrecord.MetaDExTrade:
		return tx.Property.Ecosystem()
	case *transactionrecord.MetaDExCancelPrice:
		return tx.Property.Ecosystem()
	case *transactionrecord.MetaDExCancelPair:
		return tx.Property.Ecosystem()
	case *transactionrecord.MetaDExCancelEcosystem:
		return tx.Ecosystem
	case *transactionrecord.CreatePropertyFixed:
		return tx.Ecosystem
	case *transactionrecord.CreatePropertyVariable:
		return tx.Ecosystem
	case *transactionrecord.CreatePropertyManaged:
		return tx.Ecosystem
	case *transactionrecord.CloseCrowdsale:
		return tx.Property.Ecosystem()
	case *transactionrecord.GrantTokens:
		return tx.Property.Ecosystem()
	case *transactionrecord.RevokeTokens:
		return tx.Property.Ecosystem()
	case *transactionrecord.ChangeIssuer:
		return tx.Property.Ecosystem()
	case *transactionrecord.EnableFreezing:
		return tx.Property.Ecosystem()
	case *transactionrecord.DisableFreezing:
		return tx.Property.Ecosystem()
	case *transactionrecord.FreezeTokens:
		return tx.Property.Ecosystem()
	case *transactionrecord.UnfreezeTokens:
		return tx.Property.Ecosystem()
	case *transactionrecord.SimpleSpend:
		return tx.Property.Ecosystem()
	case *transactionrecord.CreateDenomination:
		return tx.Property.Ecosystem()
	case *transactionrecord.SimpleMint:
		return tx.Property.Ecosystem()
	default:
		return transactionrecord.MainEcosystem
	}
}
