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
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ShortAddressLength is the expected length of a short address.
const ShortAddressLength = 20

var shortAddressT = reflect.TypeOf(ShortAddress{})

// ShortAddress is the 20 byte account identifier used inside the layer-2
// chain. For externally owned accounts it is the truncated hash of the
// account's lock script; for contracts it is assigned at creation time.
type ShortAddress [ShortAddressLength]byte

// BytesToShortAddress returns ShortAddress with value b.
// If b is larger than len(h), b will be cropped from the left.
func BytesToShortAddress(b []byte) ShortAddress {
	var a ShortAddress
	if len(b) > len(a) {
		b = b[len(b)-ShortAddressLength:]
	}
	copy(a[ShortAddressLength-len(b):], b)
	return a
}

// HexToShortAddress returns ShortAddress with byte values of s.
func HexToShortAddress(s string) ShortAddress { return BytesToShortAddress(common.FromHex(s)) }

// Bytes gets the byte representation of the short address.
func (a ShortAddress) Bytes() []byte { return a[:] }

// Hex returns the lower-case hex encoding of the short address.
func (a ShortAddress) Hex() string { return hexutil.Encode(a[:]) }

// String implements fmt.Stringer.
func (a ShortAddress) String() string { return a.Hex() }

// Address reinterprets the short address in the Ethereum address space.
func (a ShortAddress) Address() common.Address { return common.Address(a) }

// MarshalText returns the hex representation of a.
func (a ShortAddress) MarshalText() ([]byte, error) {
	return hexutil.Bytes(a[:]).MarshalText()
}

// UnmarshalText parses a short address in hex syntax.
func (a *ShortAddress) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("ShortAddress", input, a[:])
}

// UnmarshalJSON parses a short address in hex syntax.
func (a *ShortAddress) UnmarshalJSON(input []byte) error {
	return hexutil.UnmarshalFixedJSON(shortAddressT, input, a[:])
}
