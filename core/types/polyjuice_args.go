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
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/polyjuice/go-polyjuice/molecule"
)

// CallKind distinguishes calls into an existing account from contract
// creation.
type CallKind uint8

const (
	CallKindCall   CallKind = 0
	CallKindCreate CallKind = 3
)

func (k CallKind) String() string {
	switch k {
	case CallKindCall:
		return "call"
	case CallKindCreate:
		return "create"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// CallKindFor returns the call kind implied by a destination address: a
// missing or zero destination creates a contract.
func CallKindFor(to *common.Address) CallKind {
	if to == nil || *to == (common.Address{}) {
		return CallKindCreate
	}
	return CallKindCall
}

// polyjuiceArgsHeader is the 3 byte sentinel followed by the protocol tag.
var polyjuiceArgsHeader = [7]byte{0xff, 0xff, 0xff, 'P', 'O', 'L', 'Y'}

const (
	offsetCallKind  = 7
	offsetGasLimit  = offsetCallKind + 1
	offsetGasPrice  = offsetGasLimit + 8
	offsetValue     = offsetGasPrice + 16
	offsetInputSize = offsetValue + 16

	// PolyjuiceArgsFixedLength is the size of the args before the input data.
	PolyjuiceArgsFixedLength = offsetInputSize + 4
)

// PolyjuiceArgs are the arguments of a polyjuice call, carried in the args
// field of a RawL2Transaction.
type PolyjuiceArgs struct {
	Kind     CallKind
	GasLimit uint64
	GasPrice *big.Int
	Value    *big.Int
	Input    []byte
}

// Encode serializes the args. Gas price and value must fit in 128 bits and
// the input length in 32 bits.
func (a *PolyjuiceArgs) Encode() ([]byte, error) {
	size, err := inputLength(len(a.Input))
	if err != nil {
		return nil, err
	}
	out := make([]byte, PolyjuiceArgsFixedLength+len(a.Input))
	copy(out, polyjuiceArgsHeader[:])
	out[offsetCallKind] = byte(a.Kind)
	binary.LittleEndian.PutUint64(out[offsetGasLimit:], a.GasLimit)
	if err := PutUint128(out[offsetGasPrice:offsetValue], a.GasPrice, "gas price"); err != nil {
		return nil, err
	}
	if err := PutUint128(out[offsetValue:offsetInputSize], a.Value, "value"); err != nil {
		return nil, err
	}
	binary.LittleEndian.PutUint32(out[offsetInputSize:], size)
	copy(out[PolyjuiceArgsFixedLength:], a.Input)
	return out, nil
}

func inputLength(n int) (uint32, error) {
	if uint64(n) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d bytes", ErrArgsInputTooLarge, n)
	}
	return uint32(n), nil
}

// DecodePolyjuiceArgs parses serialized polyjuice args. Empty input decodes
// to a nil slice.
func DecodePolyjuiceArgs(data []byte) (*PolyjuiceArgs, error) {
	if len(data) < PolyjuiceArgsFixedLength {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrArgsTooShort, len(data), PolyjuiceArgsFixedLength)
	}
	if !bytes.Equal(data[:offsetCallKind], polyjuiceArgsHeader[:]) {
		return nil, fmt.Errorf("%w: %x", ErrInvalidArgsHeader, data[:offsetCallKind])
	}
	size := binary.LittleEndian.Uint32(data[offsetInputSize:])
	if uint64(len(data)-PolyjuiceArgsFixedLength) != uint64(size) {
		return nil, fmt.Errorf("%w: declared %d, have %d", ErrArgsInputLength, size, len(data)-PolyjuiceArgsFixedLength)
	}
	args := &PolyjuiceArgs{
		Kind:     CallKind(data[offsetCallKind]),
		GasLimit: binary.LittleEndian.Uint64(data[offsetGasLimit:]),
		GasPrice: Uint128ToBig(data[offsetGasPrice:offsetValue]),
		Value:    Uint128ToBig(data[offsetValue:offsetInputSize]),
	}
	if size > 0 {
		args.Input = common.CopyBytes(data[PolyjuiceArgsFixedLength:])
	}
	return args, nil
}

// PutUint128 writes v into the 16 byte slice dst as a little-endian 128 bit
// integer. A nil v is written as zero. Negative values and values of 2^128
// or more fail with an OverflowError naming field.
func PutUint128(dst []byte, v *big.Int, field string) error {
	if v == nil {
		copy(dst, molecule.PackUint128(0, 0))
		return nil
	}
	if v.Sign() < 0 || v.BitLen() > 128 {
		return &OverflowError{Field: field, Value: new(big.Int).Set(v), Bits: 128}
	}
	u, _ := uint256.FromBig(v)
	copy(dst, molecule.PackUint128(u[0], u[1]))
	return nil
}

// Uint128ToBig decodes a 16 byte little-endian integer.
func Uint128ToBig(b []byte) *big.Int {
	lo, hi, err := molecule.UnpackUint128(b)
	if err != nil {
		return nil
	}
	u := uint256.Int{lo, hi, 0, 0}
	return u.ToBig()
}
