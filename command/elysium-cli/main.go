// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/elysiumd/chain"
)

type metadata struct {
	params  *chain.Params
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "elysium-cli"
	app.Usage = "offline tools for elysium packets"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "chain, c",
			Value: chain.Main,
			Usage: " chain parameters `NAME` [main|testing|local]",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "decode",
			Usage:     "decode a packet",
			ArgsUsage: "HEX",
			Action:    runDecode,
		},
		{
			Name:      "encode-send",
			Usage:     "encode a simple send packet",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.UintFlag{
					Name:  "property, p",
					Usage: "*property `ID`",
				},
				cli.StringFlag{
					Name:  "amount, a",
					Value: "",
					Usage: "*`AMOUNT` to send",
				},
				cli.BoolFlag{
					Name:  "divisible, d",
					Usage: " amount has eight decimal places",
				},
			},
			Action: runEncodeSend,
		},
		{
			Name:      "encode-sto",
			Usage:     "encode a send to owners packet",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.UintFlag{
					Name:  "property, p",
					Usage: "*property `ID`",
				},
				cli.StringFlag{
					Name:  "amount, a",
					Value: "",
					Usage: "*`AMOUNT` to distribute",
				},
				cli.BoolFlag{
					Name:  "divisible, d",
					Usage: " amount has eight decimal places",
				},
				cli.UintFlag{
					Name:  "distribution, o",
					Usage: " distribute to the holders of property `ID` (version 1)",
				},
			},
			Action: runEncodeSendToOwners,
		},
		{
			Name:      "encode-sendall",
			Usage:     "encode a send all packet",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.UintFlag{
					Name:  "ecosystem, e",
					Value: 1,
					Usage: "*`ECOSYSTEM` 1 = main, 2 = test",
				},
			},
			Action: runEncodeSendAll,
		},
		{
			Name:      "address",
			Usage:     "check an address against the chain parameters",
			ArgsUsage: "ADDRESS",
			Action:    runAddress,
		},
		{
			Name:      "preview",
			Usage:     "execute a packet against a copy of a ledger, nothing is saved",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "database, D",
					Value: "",
					Usage: "*ledger `DIRECTORY` (the daemon must not be running)",
				},
				cli.StringFlag{
					Name:  "sender, s",
					Value: "",
					Usage: "*sender `ADDRESS`",
				},
				cli.StringFlag{
					Name:  "receiver, r",
					Value: "",
					Usage: " receiver `ADDRESS`",
				},
				cli.Int64Flag{
					Name:  "reference, R",
					Value: -1,
					Usage: " reference output `SATOSHI`",
				},
				cli.Int64Flag{
					Name:  "fee, f",
					Value: 0,
					Usage: " fee paid `SATOSHI`",
				},
				cli.IntFlag{
					Name:  "block, b",
					Value: 0,
					Usage: "*block `NUMBER` to execute at",
				},
				cli.Int64Flag{
					Name:  "time, t",
					Value: 0,
					Usage: " block `SECONDS` since the epoch",
				},
				cli.StringFlag{
					Name:  "payload, P",
					Value: "",
					Usage: "*packet `HEX`",
				},
			},
			Action: runPreview,
		},
		{
			Name:   "version",
			Usage:  "display elysium-cli version",
			Action: runVersion,
		},
	}

	app.Before = func(c *cli.Context) error {

		params, err := chain.ParamsFor(c.GlobalString("chain"))
		if nil != err {
			return fmt.Errorf("chain: %q  error: %s", c.GlobalString("chain"), err)
		}

		c.App.Metadata["config"] = &metadata{
			params:  params,
			verbose: c.GlobalBool("verbose"),
			e:       c.App.ErrWriter,
			w:       c.App.Writer,
		}
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func runVersion(c *cli.Context) error {
	fmt.Fprintf(c.App.Writer, "%s\n", version)
	return nil
}
