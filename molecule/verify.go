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

// Verifier checks that data is a well-formed encoding of one schema type.
// Compatible mode lets tables carry trailing fields unknown to the schema.
type Verifier func(data []byte, compatible bool) error

// Fixed returns a verifier for a fixed-size value of exactly size bytes.
func Fixed(size int) Verifier {
	return func(data []byte, _ bool) error {
		if len(data) != size {
			return &LengthError{Want: size, Have: len(data)}
		}
		return nil
	}
}

// Verifiers for the primitive types of the Godwoken schema.
var (
	Byte    = Fixed(1)
	Byte20  = Fixed(20)
	Byte32  = Fixed(32)
	Uint32  = Fixed(4)
	Uint64  = Fixed(8)
	Uint128 = Fixed(16)

	Bytes = FixVecOf(1)
)

// FixVecOf returns a verifier for a vector of itemSize byte items.
func FixVecOf(itemSize int) Verifier {
	return func(data []byte, _ bool) error {
		_, err := NewFixVec(data, itemSize)
		return err
	}
}

// TableOf returns a verifier for a table whose fields match the given
// verifiers in order. Nested failures are reported with the field index.
func TableOf(fields ...Verifier) Verifier {
	return func(data []byte, compatible bool) error {
		t, err := NewTable(data, len(fields), compatible)
		if err != nil {
			return err
		}
		for i, verify := range fields {
			field, _ := t.Field(i)
			if err := verify(field, compatible); err != nil {
				return &FieldError{Index: i, Err: err}
			}
		}
		return nil
	}
}

// DynVecOf returns a verifier for a vector of variable-size items.
func DynVecOf(item Verifier) Verifier {
	return func(data []byte, compatible bool) error {
		v, err := NewDynVec(data)
		if err != nil {
			return err
		}
		for i := 0; i < v.Len(); i++ {
			raw, _ := v.Get(i)
			if err := item(raw, compatible); err != nil {
				return &FieldError{Index: i, Err: err}
			}
		}
		return nil
	}
}
