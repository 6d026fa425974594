// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package transaction - the record of one protocol packet
//
// a record passes through a fixed set of stages, each at most once:
//
//   New ──► SetIdentity ──► Set ──► Interpret ──► [Unlock] ──► execute
//
// a record is inert (rpc only) until Unlock is called, so records
// built for previews can never change the ledger.  a record whose
// payload did not decode is never executed and a record is executed
// at most once.
package transaction
