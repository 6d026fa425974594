// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

// Varint64MaximumBytes - maximum possible number of bytes in Varint64
const Varint64MaximumBytes = 9

// AppendVarint64 - append the Varint64 form of a value
//
// seven bits per byte, least significant group first, high bit set
// while more bytes follow; the ninth byte carries all eight remaining
// bits so no value needs more than Varint64MaximumBytes
func AppendVarint64(dst []byte, value uint64) []byte {
	for i := 1; i < Varint64MaximumBytes; i += 1 {
		if value < 0x80 {
			return append(dst, byte(value))
		}
		dst = append(dst, byte(value)|0x80)
		value >>= 7
	}
	return append(dst, byte(value))
}

// FromVarint64 - decode a Varint64 from the start of a buffer
//
// returns the value and the number of bytes used, or 0, 0 if the
// buffer ends before the value does
func FromVarint64(buffer []byte) (uint64, int) {
	value := uint64(0)
	for i, b := range buffer {
		if Varint64MaximumBytes-1 == i {
			return value | uint64(b)<<(7*i), i + 1
		}
		value |= uint64(b&0x7f) << (7 * i)
		if 0 == b&0x80 {
			return value, i + 1
		}
	}
	return 0, 0
}

// a Varint64 length in minimum..maximum, 0, 0 otherwise
func clippedVarint64(buffer []byte, minimum int, maximum int) (int, int) {
	value, count := FromVarint64(buffer)
	if 0 == count || value > uint64(maximum) || value < uint64(minimum) {
		return 0, 0
	}
	return int(value), count
}
