// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/elysiumd/chain"
	"github.com/bitmark-inc/elysiumd/configuration"
	"github.com/bitmark-inc/elysiumd/fault"
)

func writeConfig(t *testing.T, dir string, text string) string {
	fileName := filepath.Join(dir, "elysiumd.conf")
	if err := os.WriteFile(fileName, []byte(text), 0600); nil != err {
		t.Fatalf("write configuration error: %s", err)
	}
	return fileName
}

func TestDefaults(t *testing.T) {
	dir := t.TempDir()
	fileName := writeConfig(t, dir, `
local M = {}
M.data_directory = "."
M.chain = "LOCAL"
return M
`)

	c, err := configuration.GetConfiguration(fileName, nil)
	if nil != err {
		t.Fatalf("get configuration error: %s", err)
	}

	assert.Equal(t, chain.Local, c.Chain, "chain is lower cased")
	assert.Equal(t, filepath.Clean(dir)+string(filepath.Separator), c.DataDirectory, "data directory")
	assert.Equal(t, filepath.Join(dir, "data"), c.Database.Directory, "database directory")
	assert.Equal(t, filepath.Join(dir, "data", "local.leveldb"), c.Database.Name, "database name")
	assert.Equal(t, filepath.Join(dir, "log"), c.Logging.Directory, "log directory")
	assert.Equal(t, "elysiumd.log", c.Logging.File, "log file")
	assert.Equal(t, 10, c.Logging.Count, "log count")
	assert.Equal(t, "", c.PidFile, "no pid file")
	assert.False(t, c.Metrics.Enabled, "metrics")
	assert.Equal(t, filepath.Join(dir, "metrics.prom"), c.Metrics.File, "metrics file")

	info, err := os.Stat(c.Database.Directory)
	assert.Nil(t, err, "database directory created")
	assert.True(t, info.IsDir(), "is directory")
}

func TestSettings(t *testing.T) {
	dir := t.TempDir()
	fileName := writeConfig(t, dir, `
local M = {}
M.data_directory = arg[0]:match("(.*)/")
M.chain = "testing"
M.pidfile = pidname
M.database = { directory = "ledger", name = "mine.leveldb" }
M.metrics = { enabled = true, file = "/tmp/counters.prom" }
M.logging = {
    size = 4096,
    count = 3,
    levels = { DEFAULT = "info", logic = "debug" },
}
return M
`)

	c, err := configuration.GetConfiguration(fileName, map[string]string{"pidname": "run/elysiumd.pid"})
	if nil != err {
		t.Fatalf("get configuration error: %s", err)
	}

	assert.Equal(t, chain.Testing, c.Chain, "chain")
	assert.Equal(t, filepath.Join(dir, "run", "elysiumd.pid"), c.PidFile, "pid file from variable")
	assert.Equal(t, filepath.Join(dir, "ledger", "mine.leveldb"), c.Database.Name, "database name is kept")
	assert.True(t, c.Metrics.Enabled, "metrics")
	assert.Equal(t, "/tmp/counters.prom", c.Metrics.File, "absolute metrics file")
	assert.Equal(t, 4096, c.Logging.Size, "log size")
	assert.Equal(t, 3, c.Logging.Count, "log count")
	assert.Equal(t, "debug", c.Logging.Levels["logic"], "logic level")
}

func TestInvalidConfigurations(t *testing.T) {
	dir := t.TempDir()

	items := []struct {
		text string
		err  error
	}{
		{`return { data_directory = ".", chain = "bitcoin" }`, fault.ErrInvalidChain},
		{`return { chain = "local" }`, fault.ErrDataDirectory},
		{`return { data_directory = "~", chain = "local" }`, fault.ErrDataDirectory},
		{`return { data_directory = ".", database = { name = "a/b.leveldb" } }`, fault.ErrNotPlainFileName},
		{`return 42`, fault.ErrConfigurationNotTable},
	}

	for i, item := range items {
		fileName := writeConfig(t, dir, item.text)
		_, err := configuration.GetConfiguration(fileName, nil)
		assert.ErrorIs(t, err, item.err, "%d: error", i)
	}
}

func TestParseNeedsStructPointer(t *testing.T) {
	fileName := writeConfig(t, t.TempDir(), `return {}`)

	var s struct{}
	assert.Equal(t, fault.ErrInvalidStructPointer, configuration.ParseConfigurationFile(fileName, s, nil), "value")
	var n int
	assert.Equal(t, fault.ErrInvalidStructPointer, configuration.ParseConfigurationFile(fileName, &n, nil), "non struct")
}
