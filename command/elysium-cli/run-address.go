// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/elysiumd/chain"
)

type addressInfo struct {
	Address      string `json:"address"`
	Chain        string `json:"chain"`
	Valid        bool   `json:"valid"`
	FeatureAdmin bool   `json:"featureAdmin"`
	FeeReceiver  bool   `json:"feeReceiver"`
}

func checkAddress(params *chain.Params, address string) *addressInfo {
	return &addressInfo{
		Address:      address,
		Chain:        params.Name,
		Valid:        params.ValidAddress(address),
		FeatureAdmin: params.IsFeatureAdmin(address),
		FeeReceiver:  address == params.PropertyCreationFeeReceiver,
	}
}

func runAddress(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	if 1 != c.NArg() {
		return fmt.Errorf("one ADDRESS argument is required")
	}
	return printJson(m.w, checkAddress(m.params, c.Args().Get(0)))
}
