// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"encoding/binary"

	"github.com/bitmark-inc/elysiumd/fault"
)

// limit on any length prefixed field inside a stored record
const maxRecordField = 1 << 20

// Record - a stored value built from big endian fixed width integers
// and Varint64 length prefixed byte fields
type Record []byte

// AppendUint64 - append 8 bytes big endian
func (r Record) AppendUint64(value uint64) Record {
	return binary.BigEndian.AppendUint64(r, value)
}

// AppendInt64 - append 8 bytes big endian two's complement
func (r Record) AppendInt64(value int64) Record {
	return r.AppendUint64(uint64(value))
}

// AppendUint32 - append 4 bytes big endian
func (r Record) AppendUint32(value uint32) Record {
	return binary.BigEndian.AppendUint32(r, value)
}

// AppendUint16 - append 2 bytes big endian
func (r Record) AppendUint16(value uint16) Record {
	return binary.BigEndian.AppendUint16(r, value)
}

// AppendUint8 - append a single byte
func (r Record) AppendUint8(value uint8) Record {
	return append(r, value)
}

// AppendBool - append a single 0/1 byte
func (r Record) AppendBool(value bool) Record {
	if value {
		return append(r, 1)
	}
	return append(r, 0)
}

// AppendBytes - append Varint64(length) followed by the bytes
func (r Record) AppendBytes(value []byte) Record {
	r = AppendVarint64(r, uint64(len(value)))
	return append(r, value...)
}

// AppendString - append Varint64(length) followed by the string
func (r Record) AppendString(value string) Record {
	return r.AppendBytes([]byte(value))
}

// RecordReader - sequential reader for a Record
//
// the first failure is sticky: all later reads return zero values and
// Err returns fault.ErrCorruptRecord
type RecordReader struct {
	buffer []byte
	n      int
	err    error
}

// NewRecordReader - start reading at the beginning of a buffer
func NewRecordReader(buffer []byte) *RecordReader {
	return &RecordReader{buffer: buffer}
}

// Err - first error encountered
func (r *RecordReader) Err() error {
	return r.err
}

// Remaining - count of unread bytes
func (r *RecordReader) Remaining() int {
	return len(r.buffer) - r.n
}

func (r *RecordReader) take(size int) []byte {
	if nil != r.err {
		return nil
	}
	if size < 0 || r.n+size > len(r.buffer) {
		r.err = fault.ErrCorruptRecord
		return nil
	}
	b := r.buffer[r.n : r.n+size]
	r.n += size
	return b
}

// Uint64 - read 8 bytes big endian
func (r *RecordReader) Uint64() uint64 {
	b := r.take(8)
	if nil == b {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

// Int64 - read 8 bytes big endian two's complement
func (r *RecordReader) Int64() int64 {
	return int64(r.Uint64())
}

// Uint32 - read 4 bytes big endian
func (r *RecordReader) Uint32() uint32 {
	b := r.take(4)
	if nil == b {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// Uint16 - read 2 bytes big endian
func (r *RecordReader) Uint16() uint16 {
	b := r.take(2)
	if nil == b {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

// Uint8 - read a single byte
func (r *RecordReader) Uint8() uint8 {
	b := r.take(1)
	if nil == b {
		return 0
	}
	return b[0]
}

// Bool - read a single 0/1 byte
func (r *RecordReader) Bool() bool {
	return 0 != r.Uint8()
}

// Bytes - read a Varint64 length prefixed field, the result is a copy
func (r *RecordReader) Bytes() []byte {
	if nil != r.err {
		return nil
	}
	length, count := clippedVarint64(r.buffer[r.n:], 0, maxRecordField)
	if 0 == count {
		r.err = fault.ErrCorruptRecord
		return nil
	}
	r.n += count
	b := r.take(length)
	if nil == b {
		return nil
	}
	result := make([]byte, length)
	copy(result, b)
	return result
}

// String - read a Varint64 length prefixed string
func (r *RecordReader) String() string {
	return string(r.Bytes())
}
