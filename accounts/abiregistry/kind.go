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

package abiregistry

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Kind classifies an ABI argument by how the rewriter has to treat it.
type Kind uint8

const (
	// KindOpaque values are copied through untouched.
	KindOpaque Kind = iota

	// KindAddress is a single address.
	KindAddress

	// KindAddressList is a dynamic or fixed-size array of addresses.
	KindAddressList

	// KindInt is a signed or unsigned integer scalar of any width.
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindOpaque:
		return "opaque"
	case KindAddress:
		return "address"
	case KindAddressList:
		return "address-list"
	case KindInt:
		return "int"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// IsAddress reports whether values of this kind carry addresses.
func (k Kind) IsAddress() bool {
	return k == KindAddress || k == KindAddressList
}

func kindOf(t abi.Type) Kind {
	switch t.T {
	case abi.AddressTy:
		return KindAddress
	case abi.SliceTy, abi.ArrayTy:
		if t.Elem != nil && t.Elem.T == abi.AddressTy {
			return KindAddressList
		}
	case abi.IntTy, abi.UintTy:
		return KindInt
	}
	return KindOpaque
}

// nestsAddress reports whether t holds addresses below the top level, inside
// tuples or nested arrays. Such values are opaque and left unchanged.
func nestsAddress(t abi.Type) bool {
	switch t.T {
	case abi.SliceTy, abi.ArrayTy:
		return t.Elem != nil && (t.Elem.T == abi.AddressTy || nestsAddress(*t.Elem))
	case abi.TupleTy:
		for _, elem := range t.TupleElems {
			if elem.T == abi.AddressTy || nestsAddress(*elem) {
				return true
			}
		}
	}
	return false
}

func hasNestedAddress(ps []Param) bool {
	for _, p := range ps {
		if p.Kind == KindOpaque && nestsAddress(p.Type) {
			return true
		}
	}
	return false
}
