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

package types

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	errMappingLength = errors.New("address mapping length does not match item count")

	// ErrNotEthAccountLock is returned when a script is not locked by the
	// eth account lock of the rollup.
	ErrNotEthAccountLock = errors.New("script is not an eth account lock")

	// ErrForeignRollup is returned for eth account locks whose args name a
	// different rollup.
	ErrForeignRollup = errors.New("eth account lock belongs to another rollup")

	// ErrInvalidArgsHeader is returned when polyjuice args do not start with
	// the polyjuice magic.
	ErrInvalidArgsHeader = errors.New("invalid polyjuice args header")

	// ErrArgsTooShort is returned when polyjuice args are shorter than their
	// fixed-size prefix.
	ErrArgsTooShort = errors.New("polyjuice args too short")

	// ErrArgsInputLength is returned when the declared input length does not
	// match the bytes that follow it.
	ErrArgsInputLength = errors.New("polyjuice args input length mismatch")

	// ErrArgsInputTooLarge is returned when the input does not fit the
	// 32-bit length field of polyjuice args.
	ErrArgsInputTooLarge = errors.New("polyjuice args input too large")

	// ErrInvalidSig is returned for signatures that are not 65 bytes long or
	// carry an unknown recovery id.
	ErrInvalidSig = errors.New("invalid transaction signature")
)

// OverflowError is returned when an integer does not fit the bit width of
// the wire field it is encoded into.
type OverflowError struct {
	Field string
	Value *big.Int
	Bits  int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%s out of range: %v does not fit in %d unsigned bits", e.Field, e.Value, e.Bits)
}
