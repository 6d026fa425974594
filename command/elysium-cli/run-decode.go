// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/elysiumd/transactionrecord"
)

type decoded struct {
	TypeName string                    `json:"typeName"`
	Type     uint16                    `json:"type"`
	Version  uint16                    `json:"version"`
	Length   int                       `json:"length"`
	Payload  transactionrecord.Payload `json:"payload"`
}

func decodePacket(s string) (*decoded, error) {
	b, err := hex.DecodeString(s)
	if nil != err {
		return nil, err
	}

	payload, n, err := transactionrecord.Packed(b).Unpack()
	if nil != err {
		return nil, err
	}
	h := payload.Head()
	return &decoded{
		TypeName: h.Type.String(),
		Type:     uint16(h.Type),
		Version:  h.Version,
		Length:   n,
		Payload:  payload,
	}, nil
}

func runDecode(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	if 1 != c.NArg() {
		return fmt.Errorf("one HEX argument is required")
	}

	d, err := decodePacket(c.Args().Get(0))
	if nil != err {
		return err
	}
	if m.verbose {
		fmt.Fprintf(m.e, "decoded: %d bytes\n", d.Length)
	}
	return printJson(m.w, d)
}
