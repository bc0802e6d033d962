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
	"errors"
	"fmt"
)

var (
	errHeaderTooShort  = errors.New("header too short")
	errTotalSize       = errors.New("total size mismatch")
	errFirstOffset     = errors.New("first offset out of range")
	errOffsetOrder     = errors.New("offsets not monotonic")
	errFieldCount      = errors.New("field count mismatch")
	errItemCount       = errors.New("item count mismatch")
	errIndexOutOfRange = errors.New("index out of range")
)

// StructuralError is returned when a record's offset table or length header
// does not describe the bytes it is attached to.
type StructuralError struct {
	Kind string // "table", "dynvec" or "fixvec"
	Err  error
	Msg  string
}

func (e *StructuralError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("molecule: invalid %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("molecule: invalid %s: %v: %s", e.Kind, e.Err, e.Msg)
}

func (e *StructuralError) Unwrap() error { return e.Err }

func structural(kind string, err error, format string, args ...interface{}) error {
	return &StructuralError{Kind: kind, Err: err, Msg: fmt.Sprintf(format, args...)}
}

// LengthError is returned when a fixed-size value (address, hash, integer)
// does not have its exact declared width.
type LengthError struct {
	Want int
	Have int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("molecule: invalid fixed-size value: want %d bytes, have %d", e.Want, e.Have)
}

// FieldError wraps the failure of a nested field or item.
type FieldError struct {
	Index int
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %d: %v", e.Index, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
