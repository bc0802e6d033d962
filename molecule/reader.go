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

package molecule

import (
	"encoding/binary"
)

// readOffsets checks the header of a table-like record and returns the start
// positions of its fields followed by the total size, so field i spans
// offsets[i]:offsets[i+1]. A negative want accepts any field count.
func readOffsets(kind string, data []byte, want int, compatible bool) ([]int, error) {
	if len(data) < HeaderSize {
		return nil, structural(kind, errHeaderTooShort, "have %d bytes", len(data))
	}
	total := int(binary.LittleEndian.Uint32(data))
	if total != len(data) {
		return nil, structural(kind, errTotalSize, "header says %d, have %d", total, len(data))
	}
	if total == HeaderSize {
		if want > 0 {
			return nil, structural(kind, errFieldCount, "want %d fields, have 0", want)
		}
		return []int{total}, nil
	}
	if total < 2*HeaderSize {
		return nil, structural(kind, errHeaderTooShort, "have %d bytes", total)
	}
	first := int(binary.LittleEndian.Uint32(data[HeaderSize:]))
	if first%HeaderSize != 0 || first < 2*HeaderSize || first > total {
		return nil, structural(kind, errFirstOffset, "offset %d, total %d", first, total)
	}
	count := first/HeaderSize - 1
	if want >= 0 {
		if count < want || (!compatible && count > want) {
			return nil, structural(kind, errFieldCount, "want %d fields, have %d", want, count)
		}
	}
	offsets := make([]int, count+1)
	offsets[0] = first
	for i := 1; i < count; i++ {
		offsets[i] = int(binary.LittleEndian.Uint32(data[HeaderSize*(i+1):]))
		if offsets[i] < offsets[i-1] {
			return nil, structural(kind, errOffsetOrder, "offset %d (%d) precedes offset %d (%d)", i, offsets[i], i-1, offsets[i-1])
		}
	}
	if offsets[count-1] > total {
		return nil, structural(kind, errOffsetOrder, "offset %d (%d) beyond total size %d", count-1, offsets[count-1], total)
	}
	offsets[count] = total
	return offsets, nil
}

// Table is a read-only view over an encoded table. Field bytes are sliced out
// on access and nested records are only decoded when the caller asks for them.
type Table struct {
	data    []byte
	offsets []int
}

// NewTable checks the table header and returns a view over data. The table
// must carry at least fields entries; with compatible set, trailing fields
// added by a newer schema are tolerated.
func NewTable(data []byte, fields int, compatible bool) (*Table, error) {
	offsets, err := readOffsets("table", data, fields, compatible)
	if err != nil {
		return nil, err
	}
	return &Table{data: data, offsets: offsets}, nil
}

// FieldCount returns the number of fields the encoded table carries.
func (t *Table) FieldCount() int { return len(t.offsets) - 1 }

// Field returns the raw bytes of field i.
func (t *Table) Field(i int) ([]byte, error) {
	if i < 0 || i >= t.FieldCount() {
		return nil, structural("table", errIndexOutOfRange, "field %d of %d", i, t.FieldCount())
	}
	return t.data[t.offsets[i]:t.offsets[i+1]], nil
}

// Bytes returns the encoded table.
func (t *Table) Bytes() []byte { return t.data }

// DynVec is a read-only view over a vector of variable-size items.
type DynVec struct {
	data    []byte
	offsets []int
}

// NewDynVec checks the vector header and returns a view over data. The item
// count is inferred from the first offset.
func NewDynVec(data []byte) (*DynVec, error) {
	offsets, err := readOffsets("dynvec", data, -1, true)
	if err != nil {
		return nil, err
	}
	return &DynVec{data: data, offsets: offsets}, nil
}

// Len returns the number of items in the vector.
func (v *DynVec) Len() int { return len(v.offsets) - 1 }

// Get returns the raw bytes of item i.
func (v *DynVec) Get(i int) ([]byte, error) {
	if i < 0 || i >= v.Len() {
		return nil, structural("dynvec", errIndexOutOfRange, "item %d of %d", i, v.Len())
	}
	return v.data[v.offsets[i]:v.offsets[i+1]], nil
}

// FixVec is a read-only view over a vector of fixed-size items.
type FixVec struct {
	data     []byte
	itemSize int
}

// NewFixVec checks that data holds a whole number of itemSize items matching
// its count header.
func NewFixVec(data []byte, itemSize int) (*FixVec, error) {
	if len(data) < HeaderSize {
		return nil, structural("fixvec", errHeaderTooShort, "have %d bytes", len(data))
	}
	count := int(binary.LittleEndian.Uint32(data))
	if want := HeaderSize + count*itemSize; want != len(data) {
		return nil, structural("fixvec", errItemCount, "%d items of %d bytes need %d bytes, have %d", count, itemSize, want, len(data))
	}
	return &FixVec{data: data, itemSize: itemSize}, nil
}

// Len returns the number of items in the vector.
func (v *FixVec) Len() int { return int(binary.LittleEndian.Uint32(v.data)) }

// Get returns the raw bytes of item i.
func (v *FixVec) Get(i int) ([]byte, error) {
	if i < 0 || i >= v.Len() {
		return nil, structural("fixvec", errIndexOutOfRange, "item %d of %d", i, v.Len())
	}
	start := HeaderSize + i*v.itemSize
	return v.data[start : start+v.itemSize], nil
}

// RawData returns the concatenated items without the count header. For a
// byte vector this is the byte string itself.
func (v *FixVec) RawData() []byte { return v.data[HeaderSize:] }

// UnpackBytes decodes a byte vector. An empty vector decodes to nil.
func UnpackBytes(data []byte) ([]byte, error) {
	v, err := NewFixVec(data, 1)
	if err != nil {
		return nil, err
	}
	if v.Len() == 0 {
		return nil, nil
	}
	return append([]byte(nil), v.RawData()...), nil
}
