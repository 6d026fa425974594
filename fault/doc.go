// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - shared error values
//
// every rejection a transaction can receive is a distinct instance
// here so callers compare with errors.Is instead of matching text;
// each also carries a class so callers such as replay can tell a
// malformed payload from a rejected one
package fault
