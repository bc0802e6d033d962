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

package addrmap

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/polyjuice/go-polyjuice/core/types"
)

// ResolutionError is returned when no tier could produce a binding for an
// address, or when a remote lookup failed for another reason than the
// address being unknown.
type ResolutionError struct {
	Address   common.Address
	Direction Direction
	Err       error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve %s %s: %v", e.Address.Hex(), e.Direction, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// ConsistencyError is returned when the mapping store reports an Ethereum
// address whose derived short address differs from the one it was queried
// with. The store is either corrupted or lying; the entry is never used.
type ConsistencyError struct {
	Short   types.ShortAddress
	Eth     common.Address
	Derived types.ShortAddress
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("mapping store returned %s for short address %s, but it derives to %s", e.Eth.Hex(), e.Short.Hex(), e.Derived.Hex())
}
