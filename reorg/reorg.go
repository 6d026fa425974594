// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package reorg - unwind the ledger when base chain blocks are
// disconnected
//
// the effects of each executed position are undone most recent first
package reorg

import (
	"container/heap"

	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/transaction"
	"github.com/bitmark-inc/logger"
)

//go:generate mockgen -destination=mocks/journal.go -package=mocks github.com/bitmark-inc/elysiumd/reorg Journal

// Journal - the undo log of a ledger
type Journal interface {
	Journal(fromBlock int) ([]*storage.JournalEntry, error)
	Undo(e *storage.JournalEntry) error
}

// Rollback - undo every position at or above a block
//
// returns the number of positions undone; on error the positions
// already undone stay undone and a later call resumes from the most
// recent remaining one
func Rollback(log *logger.L, j Journal, height int) (int, error) {
	entries, err := j.Journal(height)
	if nil != err {
		return 0, err
	}

	byPosition := make(map[transaction.Position]*storage.JournalEntry, len(entries))
	queue := make(transaction.ByRecency, 0, len(entries))
	for _, e := range entries {
		p := transaction.Position{Block: e.Block, Index: e.Index}
		byPosition[p] = e
		queue = append(queue, p)
	}
	heap.Init(&queue)

	count := 0
	for queue.Len() > 0 {
		p := heap.Pop(&queue).(transaction.Position)
		e := byPosition[p]
		if err := j.Undo(e); nil != err {
			log.Errorf("undo: %s  error: %s", p, err)
			return count, err
		}
		log.Debugf("undo: %s  keys: %d", p, e.Keys())
		count += 1
	}
	if count > 0 {
		log.Infof("rolled back to block: %d  positions: %d", height, count)
	}
	return count, nil
}
