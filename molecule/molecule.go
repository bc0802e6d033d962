// Copyright 2025 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package molecule implements the offset-table binary layout used by every
// structured record on the Godwoken wire.
//
// A table (and a dynamic vector, which shares the layout) is encoded as
//
//	total_size(u32 LE) | offset_0(u32 LE) ... offset_{n-1}(u32 LE) | field_0 ... field_{n-1}
//
// where every offset is measured from the start of the record. A fixed vector
// is encoded as an item count followed by the concatenated fixed-size items.
// All integers are little-endian.
package molecule

import (
	"encoding/binary"
)

// HeaderSize is the width of the total-size header and of every offset slot.
const HeaderSize = 4

// PackTable serializes the given already-encoded fields into a table.
func PackTable(fields ...[]byte) []byte {
	headerLen := HeaderSize * (len(fields) + 1)
	total := headerLen
	for _, f := range fields {
		total += len(f)
	}
	out := make([]byte, headerLen, total)
	binary.LittleEndian.PutUint32(out, uint32(total))

	offset := headerLen
	for i, f := range fields {
		binary.LittleEndian.PutUint32(out[HeaderSize*(i+1):], uint32(offset))
		offset += len(f)
	}
	for _, f := range fields {
		out = append(out, f...)
	}
	return out
}

// PackDynVec serializes a vector of variable-size items. The layout is the
// same as a table with one field per item, so an empty vector is the bare
// four byte header.
func PackDynVec(items ...[]byte) []byte {
	return PackTable(items...)
}

// PackFixVec serializes a vector of fixed-size items. The caller guarantees
// that every item has the same length.
func PackFixVec(items ...[]byte) []byte {
	size := HeaderSize
	for _, item := range items {
		size += len(item)
	}
	out := make([]byte, HeaderSize, size)
	binary.LittleEndian.PutUint32(out, uint32(len(items)))
	for _, item := range items {
		out = append(out, item...)
	}
	return out
}

// PackBytes serializes a byte string as a fixed vector of single bytes.
func PackBytes(b []byte) []byte {
	out := make([]byte, HeaderSize+len(b))
	binary.LittleEndian.PutUint32(out, uint32(len(b)))
	copy(out[HeaderSize:], b)
	return out
}

// PackUint32 encodes v as a 4 byte little-endian integer.
func PackUint32(v uint32) []byte {
	var out [4]byte
	binary.LittleEndian.PutUint32(out[:], v)
	return out[:]
}

// PackUint64 encodes v as an 8 byte little-endian integer.
func PackUint64(v uint64) []byte {
	var out [8]byte
	binary.LittleEndian.PutUint64(out[:], v)
	return out[:]
}

// PackUint128 encodes a 128 bit integer given as two 64 bit limbs. The low
// limb is written first, both as little-endian words.
func PackUint128(lo, hi uint64) []byte {
	var out [16]byte
	binary.LittleEndian.PutUint64(out[:8], lo)
	binary.LittleEndian.PutUint64(out[8:], hi)
	return out[:]
}

// UnpackUint32 decodes a 4 byte little-endian integer.
func UnpackUint32(b []byte) (uint32, error) {
	if len(b) != 4 {
		return 0, &LengthError{Want: 4, Have: len(b)}
	}
	return binary.LittleEndian.Uint32(b), nil
}

// UnpackUint64 decodes an 8 byte little-endian integer.
func UnpackUint64(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, &LengthError{Want: 8, Have: len(b)}
	}
	return binary.LittleEndian.Uint64(b), nil
}

// UnpackUint128 decodes a 16 byte little-endian integer into its low and high
// 64 bit limbs.
func UnpackUint128(b []byte) (lo, hi uint64, err error) {
	if len(b) != 16 {
		return 0, 0, &LengthError{Want: 16, Have: len(b)}
	}
	return binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:]), nil
}
