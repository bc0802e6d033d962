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
	"github.com/polyjuice/go-polyjuice/crypto/ckbhash"
	"github.com/polyjuice/go-polyjuice/molecule"
)

var (
	rawL2TransactionSchema = molecule.TableOf(molecule.Uint32, molecule.Uint32, molecule.Uint32, molecule.Bytes)
	l2TransactionSchema    = molecule.TableOf(rawL2TransactionSchema, molecule.Bytes)
)

// RawL2Transaction is an unsigned layer-2 transaction. For polyjuice calls
// Args holds the encoded PolyjuiceArgs.
type RawL2Transaction struct {
	FromID uint32
	ToID   uint32
	Nonce  uint32
	Args   []byte
}

// VerifyRawL2Transaction checks that data is a well-formed raw transaction.
func VerifyRawL2Transaction(data []byte, compatible bool) error {
	return rawL2TransactionSchema(data, compatible)
}

// Serialize encodes the transaction into its offset-table form.
func (tx *RawL2Transaction) Serialize() []byte {
	return molecule.PackTable(
		molecule.PackUint32(tx.FromID),
		molecule.PackUint32(tx.ToID),
		molecule.PackUint32(tx.Nonce),
		molecule.PackBytes(tx.Args),
	)
}

// DeserializeRawL2Transaction decodes a serialized raw transaction.
func DeserializeRawL2Transaction(data []byte) (*RawL2Transaction, error) {
	t, err := decodeTable(data, rawL2TransactionSchema, 4)
	if err != nil {
		return nil, err
	}
	return rawL2TransactionFromTable(t), nil
}

func rawL2TransactionFromTable(t *molecule.Table) *RawL2Transaction {
	return &RawL2Transaction{
		FromID: uint32Field(t, 0),
		ToID:   uint32Field(t, 1),
		Nonce:  uint32Field(t, 2),
		Args:   bytesField(t, 3),
	}
}

// Hash returns the transaction hash, which only covers the raw part.
func (tx *RawL2Transaction) Hash() common.Hash {
	return ckbhash.Sum(tx.Serialize())
}

// PolyjuiceArgs decodes the transaction arguments as a polyjuice call.
func (tx *RawL2Transaction) PolyjuiceArgs() (*PolyjuiceArgs, error) {
	return DecodePolyjuiceArgs(tx.Args)
}

// L2Transaction is a signed layer-2 transaction.
type L2Transaction struct {
	Raw       RawL2Transaction
	Signature []byte
}

// VerifyL2Transaction checks that data is a well-formed signed transaction.
func VerifyL2Transaction(data []byte, compatible bool) error {
	return l2TransactionSchema(data, compatible)
}

// Serialize encodes the transaction into its offset-table form.
func (tx *L2Transaction) Serialize() []byte {
	return molecule.PackTable(tx.Raw.Serialize(), molecule.PackBytes(tx.Signature))
}

// DeserializeL2Transaction decodes a serialized signed transaction.
func DeserializeL2Transaction(data []byte) (*L2Transaction, error) {
	t, err := decodeTable(data, l2TransactionSchema, 2)
	if err != nil {
		return nil, err
	}
	return l2TransactionFromTable(t)
}

func l2TransactionFromTable(t *molecule.Table) (*L2Transaction, error) {
	raw, err := molecule.NewTable(field(t, 0), 4, false)
	if err != nil {
		return nil, err
	}
	return &L2Transaction{
		Raw:       *rawL2TransactionFromTable(raw),
		Signature: bytesField(t, 1),
	}, nil
}

// Hash returns the transaction hash.
func (tx *L2Transaction) Hash() common.Hash {
	return tx.Raw.Hash()
}
