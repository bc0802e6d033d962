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

// Package ckbhash implements the content hash used by Godwoken: blake2b with
// a 32 byte digest, personalised with "ckb-default-hash".
package ckbhash

import (
	"hash"

	"github.com/ethereum/go-ethereum/common"
	"github.com/minio/blake2b-simd"
)

// Size is the digest length in bytes.
const Size = 32

var personalization = []byte("ckb-default-hash")

// New returns a hasher computing the personalised blake2b-256 digest.
func New() hash.Hash {
	h, err := blake2b.New(&blake2b.Config{Size: Size, Person: personalization})
	if err != nil {
		// Only reachable with an invalid static config.
		panic(err)
	}
	return h
}

// Sum hashes the concatenation of the given byte slices.
func Sum(data ...[]byte) common.Hash {
	h := New()
	for _, b := range data {
		h.Write(b)
	}
	return common.BytesToHash(h.Sum(nil))
}
