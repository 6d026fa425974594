// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"testing"

	"github.com/bitmark-inc/elysiumd/fault"
)

var (
	ErrAuthorityOne = fault.AuthorityError("authority one")
	ErrExistsOne    = fault.ExistsError("exists one ")
	ErrFundsOne     = fault.FundsError("funds one")
	ErrInvalidOne   = fault.InvalidError("invalid one")
	ErrLengthOne    = fault.LengthError("length one")
	ErrNotFoundOne  = fault.NotFoundError("not found one")
	ErrProcessOne   = fault.ProcessError("process one")
	ErrRecordOne    = fault.RecordError("record one")
)

// test that the error classes are distinct
func TestClasses(t *testing.T) {
	errorList := []struct {
		err       error
		authority bool
		exists    bool
		funds     bool
		invalid   bool
		length    bool
		notFound  bool
		process   bool
		record    bool
	}{
		{ErrAuthorityOne, true, false, false, false, false, false, false, false},
		{ErrExistsOne, false, true, false, false, false, false, false, false},
		{ErrFundsOne, false, false, true, false, false, false, false, false},
		{ErrInvalidOne, false, false, false, true, false, false, false, false},
		{ErrLengthOne, false, false, false, false, true, false, false, false},
		{ErrNotFoundOne, false, false, false, false, false, true, false, false},
		{ErrProcessOne, false, false, false, false, false, false, true, false},
		{ErrRecordOne, false, false, false, false, false, false, false, true},
	}

	for i, e := range errorList {
		err := e.err
		if fault.IsErrAuthority(err) != e.authority {
			t.Errorf("%d: expected 'authority' == %v for err = %v", i, e.authority, err)
		}
		if fault.IsErrExists(err) != e.exists {
			t.Errorf("%d: expected 'exists' == %v for err = %v", i, e.exists, err)
		}
		if fault.IsErrFunds(err) != e.funds {
			t.Errorf("%d: expected 'funds' == %v for err = %v", i, e.funds, err)
		}
		if fault.IsErrInvalid(err) != e.invalid {
			t.Errorf("%d: expected 'invalid' == %v for err = %v", i, e.invalid, err)
		}
		if fault.IsErrLength(err) != e.length {
			t.Errorf("%d: expected 'length' == %v for err = %v", i, e.length, err)
		}
		if fault.IsErrNotFound(err) != e.notFound {
			t.Errorf("%d: expected 'not found' == %v for err = %v", i, e.notFound, err)
		}
		if fault.IsErrProcess(err) != e.process {
			t.Errorf("%d: expected 'process' == %v for err = %v", i, e.process, err)
		}
		if fault.IsErrRecord(err) != e.record {
			t.Errorf("%d: expected 'record' == %v for err = %v", i, e.record, err)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	decode := []error{
		fault.ErrPacketOverrun,
		fault.ErrStringTooLong,
		fault.ErrInvalidStringEncoding,
		fault.ErrInvalidCount,
	}
	for i, err := range decode {
		if !fault.IsDecodeError(err) {
			t.Errorf("%d: %v should be a decode error", i, err)
		}
	}

	execution := []error{
		fault.ErrInsufficientBalance,
		fault.ErrNotIssuer,
		fault.ErrSerialAlreadyUsed,
		fault.ErrPropertyNotFound,
		fault.ErrCorruptRecord,
	}
	for i, err := range execution {
		if fault.IsDecodeError(err) {
			t.Errorf("%d: %v should not be a decode error", i, err)
		}
	}
}
