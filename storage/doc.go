// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk ledger
//
// This maintains a LevelDB database split into a series of pools.
// Each pool is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available pools.
//
// All writes go through a Transaction obtained from Begin.  Writes are
// held in memory until Commit, which applies them as a single LevelDB
// batch together with an undo journal entry.  Abort discards them.
// Only one write transaction may be open at a time.
//
// A View is a discardable copy of the ledger taken over a LevelDB
// snapshot; transactions begun on a view are committed into the view
// only and never reach the disk.
//
// Notes:
// 1. each separate pool has a single byte prefix
// 2. ++        = concatenation of byte data
// 3. property  = big endian uint32 (4 bytes)
// 4. block     = big endian uint64 (8 bytes)
// 5. index     = big endian uint32 (4 bytes)
// 6. address   = length byte ++ base chain address string
// 7. txid      = 32 byte transaction hash
//
// Balances:
//
//   B ++ property ++ address       - tally of an address
//                                    data: available ++ offer reserve ++ accept reserve ++ metadex reserve
//
// Properties:
//
//   P ++ property                  - property registry entry
//   N ++ ecosystem                 - next property id for ecosystem
//   Q ++ property ++ txid          - crowdsale contribution
//   C ++ address                   - active crowdsale of an issuer
//
// Exchange:
//
//   O ++ property ++ address       - DEx sell offer
//   A ++ property ++ seller ++ buyer
//                                  - DEx accept
//   M ++ property ++ desired ++ block ++ index
//                                  - MetaDEx order
//
// Governance:
//
//   F ++ feature id                - feature activation
//   L ++ txid                      - alert
//
// Freezing:
//
//   E ++ property                  - freezing enabled at block
//   R ++ property ++ address       - frozen address
//
// Sigma:
//
//   D ++ property                  - denominations
//   G ++ property ++ denomination  - current group ++ group size
//   K ++ property ++ denomination ++ public key
//                                  - mint position
//   S ++ property ++ denomination ++ serial
//                                  - spent serial
//
// Bookkeeping:
//
//   H ++ txid                      - execution result
//   J ++ block ++ index            - undo journal
package storage
