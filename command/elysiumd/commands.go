// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bitmark-inc/elysiumd/background"
	"github.com/bitmark-inc/elysiumd/chain"
	"github.com/bitmark-inc/elysiumd/checkpoint"
	"github.com/bitmark-inc/elysiumd/configuration"
	"github.com/bitmark-inc/elysiumd/crowdsale"
	"github.com/bitmark-inc/elysiumd/dex"
	"github.com/bitmark-inc/elysiumd/feature"
	"github.com/bitmark-inc/elysiumd/logic"
	"github.com/bitmark-inc/elysiumd/metadex"
	"github.com/bitmark-inc/elysiumd/property"
	"github.com/bitmark-inc/elysiumd/reorg"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/tally"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"
)

// setup command handler
//
// commands that cannot access any internal database or states or the
// configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		return false // defer processing until configuration is read

	case "replay", "r", "rollback", "rb", "hash", "balance", "bal", "property", "prop",
		"properties", "orders", "crowdsales", "features", "history", "hist":
		return false // defer processing until database is loaded

	case "version", "v":
		fmt.Printf("%s\n", version)

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] [--define=NAME=VALUE...] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version sting\n\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  replay FILE                (r)      - execute a feed of extracted packets, one JSON object per line\n")
		fmt.Printf("                                        FILE of \"-\" reads stdin\n")
		fmt.Printf("\n")

		fmt.Printf("  rollback BLOCK             (rb)     - undo every transaction at or above BLOCK\n")
		fmt.Printf("\n")

		fmt.Printf("  hash                                - display the ledger consensus hash\n")
		fmt.Printf("\n")

		fmt.Printf("  balance ADDRESS            (bal)    - display the tallies of an address\n")
		fmt.Printf("  property ID                (prop)   - display a property and its crowdsale\n")
		fmt.Printf("  properties                          - list the properties of both ecosystems\n")
		fmt.Printf("  orders                              - display DEx offers, accepts and MetaDEx orders\n")
		fmt.Printf("  crowdsales                          - display the active crowdsales\n")
		fmt.Printf("  features                            - display feature activations and alerts\n")
		fmt.Printf("  history TXID               (hist)   - display where a transaction was executed\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *configuration.Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		printJson("configuration", options)
		return true

	default:
		return false
	}
}

// database commands
func processDataCommand(log *logger.L, arguments []string, options *configuration.Configuration, params *chain.Params, db *storage.Database, quiet bool) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "replay", "r":
		if len(arguments) < 1 {
			exitwithstatus.Message("missing replay file argument")
		}
		runReplay(log, arguments[0], options, params, db, quiet)

	case "rollback", "rb":
		if len(arguments) < 1 {
			exitwithstatus.Message("missing block number argument")
		}
		height, err := strconv.Atoi(arguments[0])
		if nil != err || height < 0 {
			exitwithstatus.Message("invalid block number: %q", arguments[0])
		}
		n, err := reorg.Rollback(log, db, height)
		if nil != err {
			exitwithstatus.Message("rollback after: %d positions  error: %s", n, err)
		}
		if !quiet {
			fmt.Printf("undone: %d positions\n", n)
		}

	case "hash":
		fmt.Printf("%s\n", checkpoint.Hash(db))

	case "balance", "bal":
		if len(arguments) < 1 {
			exitwithstatus.Message("missing address argument")
		}
		if !params.ValidAddress(arguments[0]) {
			exitwithstatus.Message("address: %q is not valid on chain: %s", arguments[0], params.Name)
		}
		printJson("balances", balances(db, arguments[0]))

	case "property", "prop":
		if len(arguments) < 1 {
			exitwithstatus.Message("missing property id argument")
		}
		id, err := strconv.ParseUint(arguments[0], 10, 32)
		if nil != err {
			exitwithstatus.Message("invalid property id: %q", arguments[0])
		}
		e, err := property.Get(db, transactionrecord.PropertyId(id))
		if nil != err {
			exitwithstatus.Message("property: %d  error: %s", id, err)
		}
		printJson("property", e)
		if c, err := crowdsale.ForProperty(db, transactionrecord.PropertyId(id)); nil == err {
			printJson("crowdsale", c)
			printJson("contributions", crowdsale.Contributions(db, transactionrecord.PropertyId(id)))
		}

	case "properties":
		printJson("main", property.List(db, transactionrecord.MainEcosystem))
		printJson("test", property.List(db, transactionrecord.TestEcosystem))

	case "orders":
		printJson("offers", dex.Offers(db))
		printJson("accepts", dex.Accepts(db))
		printJson("metadex", metadex.All(db))

	case "crowdsales":
		printJson("crowdsales", crowdsale.Active(db))

	case "features":
		printJson("activations", feature.Activations(db))
		printJson("alerts", feature.Alerts(db))

	case "history", "hist":
		if len(arguments) < 1 {
			exitwithstatus.Message("missing txid argument")
		}
		txid, err := chainhash.NewHashFromStr(arguments[0])
		if nil != err {
			exitwithstatus.Message("txid: %q  error: %s", arguments[0], err)
		}
		h := logic.History(db, *txid)
		if nil == h {
			exitwithstatus.Message("txid: %s was not executed", txid)
		}
		printJson("executed", h)

	default:
		return false
	}
	return true
}

type balance struct {
	Property transactionrecord.PropertyId `json:"property"`
	Balances map[string]int64             `json:"balances"`
}

func balances(r storage.Reader, address string) []balance {
	all := tally.Balances(r, address)
	result := make([]balance, 0, len(all))
	for id, t := range all {
		b := balance{
			Property: id,
			Balances: make(map[string]int64),
		}
		for k := tally.Available; k < tally.Kind(len(t)); k += 1 {
			if 0 != t[k] {
				b.Balances[k.String()] = t[k]
			}
		}
		result = append(result, b)
	}
	sortBalances(result)
	return result
}

// run a replay and stop at the next transaction boundary on a signal
func runReplay(log *logger.L, fileName string, options *configuration.Configuration, params *chain.Params, db *storage.Database, quiet bool) {

	var in io.Reader = os.Stdin
	if "-" != fileName {
		f, err := os.Open(fileName)
		if nil != err {
			exitwithstatus.Message("replay file: %q  error: %s", fileName, err)
		}
		defer f.Close()
		in = f
	}

	registry := prometheus.NewRegistry()
	executor := logic.New(logger.New("logic"), db, params, nil, registry)

	p := &replayProcess{
		r:  newReplayer(log, db, executor),
		in: in,
	}
	bg := background.Start(background.Processes{p}, nil)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ch)

	select {
	case sig := <-ch:
		log.Infof("received signal: %v", sig)
		bg.Stop()
	case <-bg.Done():
	}
	err := p.err
	r := p.r

	if options.Metrics.Enabled {
		if err := writeMetrics(registry, options.Metrics.File); nil != err {
			log.Errorf("metrics file: %q  error: %s", options.Metrics.File, err)
		}
	}

	if nil != err {
		exitwithstatus.Message("replay: %q  error: %s", fileName, err)
	}
	if !quiet {
		printJson("results", r.summary())
	}
}
