// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// write the gathered counters in the text exposition format
func writeMetrics(g prometheus.Gatherer, fileName string) error {
	families, err := g.Gather()
	if nil != err {
		return err
	}

	f, err := os.Create(fileName)
	if nil != err {
		return err
	}
	defer f.Close()

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(f, mf); nil != err {
			return err
		}
	}
	return nil
}
