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
	"github.com/ethereum/go-ethereum/common"
	"github.com/polyjuice/go-polyjuice/molecule"
)

// decodeTable verifies data against schema and opens it as a table with the
// given number of fields. Field access on the result cannot fail.
func decodeTable(data []byte, schema molecule.Verifier, fields int) (*molecule.Table, error) {
	if err := schema(data, false); err != nil {
		return nil, err
	}
	return molecule.NewTable(data, fields, false)
}

func field(t *molecule.Table, i int) []byte {
	f, _ := t.Field(i)
	return f
}

func uint32Field(t *molecule.Table, i int) uint32 {
	v, _ := molecule.UnpackUint32(field(t, i))
	return v
}

func bytesField(t *molecule.Table, i int) []byte {
	v, _ := molecule.UnpackBytes(field(t, i))
	return v
}

func hashField(t *molecule.Table, i int) common.Hash {
	return common.BytesToHash(field(t, i))
}
