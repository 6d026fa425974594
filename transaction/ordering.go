// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"fmt"
)

// Position - where a record sits in the chain
type Position struct {
	Block int
	Index uint32
}

// Less - the ordering of records, most recent first
//
// a higher block sorts first, then a higher index within a block
func (p Position) Less(other Position) bool {
	if p.Block != other.Block {
		return p.Block > other.Block
	}
	return p.Index > other.Index
}

// String - block:index
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Block, p.Index)
}

// ByRecency - positions in most recent first order
//
// usable with both sort.Sort and container/heap, where Pop returns
// the most recent remaining position
type ByRecency []Position

func (b ByRecency) Len() int           { return len(b) }
func (b ByRecency) Less(i, j int) bool { return b[i].Less(b[j]) }
func (b ByRecency) Swap(i, j int)      { b[i], b[j] = b[j], b[i] }

// Push - for container/heap
func (b *ByRecency) Push(x interface{}) {
	*b = append(*b, x.(Position))
}

// Pop - for container/heap
func (b *ByRecency) Pop() interface{} {
	old := *b
	n := len(old)
	item := old[n-1]
	*b = old[:n-1]
	return item
}
