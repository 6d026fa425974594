// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/elysiumd/util"
)

func TestRecordReadBack(t *testing.T) {
	r := util.Record(nil).
		AppendUint64(0x0102030405060708).
		AppendInt64(-5).
		AppendUint32(0xfeedbeef).
		AppendUint16(0x1234).
		AppendUint8(0x7f).
		AppendBool(true).
		AppendString("hello").
		AppendBytes([]byte{})

	reader := util.NewRecordReader(r)
	assert.Equal(t, uint64(0x0102030405060708), reader.Uint64(), "wrong uint64")
	assert.Equal(t, int64(-5), reader.Int64(), "wrong int64")
	assert.Equal(t, uint32(0xfeedbeef), reader.Uint32(), "wrong uint32")
	assert.Equal(t, uint16(0x1234), reader.Uint16(), "wrong uint16")
	assert.Equal(t, uint8(0x7f), reader.Uint8(), "wrong uint8")
	assert.True(t, reader.Bool(), "wrong bool")
	assert.Equal(t, "hello", reader.String(), "wrong string")
	assert.Equal(t, []byte{}, reader.Bytes(), "wrong bytes")
	assert.Nil(t, reader.Err(), "unexpected error")
	assert.Equal(t, 0, reader.Remaining(), "unread bytes")
}

func TestRecordTruncated(t *testing.T) {
	r := util.Record(nil).AppendUint32(7).AppendString("truncated")
	reader := util.NewRecordReader(r[:len(r)-2])

	assert.Equal(t, uint32(7), reader.Uint32(), "wrong uint32")
	assert.Equal(t, "", reader.String(), "string should not be read")
	assert.Equal(t, fault.ErrCorruptRecord, reader.Err(), "wrong error")

	// sticky
	assert.Equal(t, uint64(0), reader.Uint64(), "read after error")
	assert.Equal(t, fault.ErrCorruptRecord, reader.Err(), "error was cleared")
}
