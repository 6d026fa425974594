// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/elysiumd/transactionrecord"
)

// eight decimal places
var divisibleScale = decimal.New(1, 8)

// convert a display amount to base units
func parseAmount(s string, divisible bool) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if nil != err {
		return 0, err
	}
	if divisible {
		d = d.Mul(divisibleScale)
	}
	if !d.IsInteger() || !d.IsPositive() || d.GreaterThan(decimal.NewFromInt(int64(transactionrecord.MaxTokens))) {
		return 0, fmt.Errorf("amount: %q is out of range", s)
	}
	return uint64(d.IntPart()), nil
}

func propertyFlag(c *cli.Context, name string) (transactionrecord.PropertyId, error) {
	id := c.Uint(name)
	if 0 == id {
		return 0, fmt.Errorf("%s property is required", name)
	}
	return transactionrecord.PropertyId(id), nil
}

func printPacked(m *metadata, p transactionrecord.Payload) error {
	packed, err := p.Pack()
	if nil != err {
		return err
	}
	if m.verbose {
		fmt.Fprintf(m.e, "%s: %d bytes\n", p.Head().Type, len(packed))
	}
	fmt.Fprintf(m.w, "%x\n", []byte(packed))
	return nil
}

func runEncodeSend(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	id, err := propertyFlag(c, "property")
	if nil != err {
		return err
	}
	amount, err := parseAmount(c.String("amount"), c.Bool("divisible"))
	if nil != err {
		return err
	}

	return printPacked(m, &transactionrecord.SimpleSend{
		Header:   transactionrecord.NewHeader(transactionrecord.SimpleSendTag, 0),
		Property: id,
		Amount:   amount,
	})
}

func runEncodeSendToOwners(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	id, err := propertyFlag(c, "property")
	if nil != err {
		return err
	}
	amount, err := parseAmount(c.String("amount"), c.Bool("divisible"))
	if nil != err {
		return err
	}

	sto := &transactionrecord.SendToOwners{
		Header:   transactionrecord.NewHeader(transactionrecord.SendToOwnersTag, 0),
		Property: id,
		Amount:   amount,
	}
	if c.IsSet("distribution") {
		d, err := propertyFlag(c, "distribution")
		if nil != err {
			return err
		}
		sto.Header.Version = 1
		sto.DistributionProperty = &d
	}
	return printPacked(m, sto)
}

func runEncodeSendAll(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	ecosystem := transactionrecord.Ecosystem(c.Uint("ecosystem"))
	if !ecosystem.Valid() {
		return fmt.Errorf("ecosystem: %d is not valid", ecosystem)
	}

	return printPacked(m, &transactionrecord.SendAll{
		Header:    transactionrecord.NewHeader(transactionrecord.SendAllTag, 0),
		Ecosystem: ecosystem,
	})
}
