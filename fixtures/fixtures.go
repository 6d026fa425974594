// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - shared setup for package tests
package fixtures

import (
	"fmt"
	"os"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/bitmark-inc/elysiumd/chain"
	"github.com/bitmark-inc/logger"
)

const (
	dir         = "testing"
	LogCategory = "testing"
)

// SetupTestLogger - start logging into a throwaway directory
func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

// TeardownTestLogger - stop logging and remove the log files
func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}

// Params - local chain parameters
func Params() *chain.Params {
	p, err := chain.ParamsFor(chain.Local)
	if nil != err {
		panic(err)
	}
	return p
}

// Address - a deterministic pay to public key hash address on the
// local chain
func Address(n byte) string {
	hash := make([]byte, 20)
	for i := range hash {
		hash[i] = n
	}
	a, err := btcutil.NewAddressPubKeyHash(hash, Params().Net)
	if nil != err {
		panic(err)
	}
	return a.EncodeAddress()
}
