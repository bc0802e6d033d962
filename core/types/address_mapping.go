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

var (
	addressMappingItemSchema = molecule.TableOf(molecule.Byte20, molecule.Byte20)
	addressMappingSchema     = molecule.TableOf(molecule.Uint32, molecule.DynVecOf(addressMappingItemSchema))

	rawL2TransactionWithAddressMappingSchema = molecule.TableOf(rawL2TransactionSchema, addressMappingSchema, molecule.Bytes)
	l2TransactionWithAddressMappingSchema    = molecule.TableOf(l2TransactionSchema, addressMappingSchema, molecule.Bytes)
)

// AddressMappingItem pairs an Ethereum address with the short address that
// was derived for it locally, before the account exists on chain.
type AddressMappingItem struct {
	EthAddress   common.Address `json:"ethAddress"`
	ShortAddress ShortAddress   `json:"gwShortAddress"`
}

// Serialize encodes the item into its offset-table form.
func (item *AddressMappingItem) Serialize() []byte {
	return molecule.PackTable(item.EthAddress.Bytes(), item.ShortAddress.Bytes())
}

// DeserializeAddressMappingItem decodes a serialized mapping item.
func DeserializeAddressMappingItem(data []byte) (*AddressMappingItem, error) {
	t, err := decodeTable(data, addressMappingItemSchema, 2)
	if err != nil {
		return nil, err
	}
	return addressMappingItemFromTable(t), nil
}

func addressMappingItemFromTable(t *molecule.Table) *AddressMappingItem {
	return &AddressMappingItem{
		EthAddress:   common.BytesToAddress(field(t, 0)),
		ShortAddress: BytesToShortAddress(field(t, 1)),
	}
}

// AddressMapping is the list of mapping items attached to a transaction.
// On the wire it carries an explicit length next to the item vector.
type AddressMapping struct {
	Items []AddressMappingItem
}

// Serialize encodes the mapping into its offset-table form.
func (m *AddressMapping) Serialize() []byte {
	items := make([][]byte, len(m.Items))
	for i := range m.Items {
		items[i] = m.Items[i].Serialize()
	}
	return molecule.PackTable(
		molecule.PackUint32(uint32(len(m.Items))),
		molecule.PackDynVec(items...),
	)
}

// DeserializeAddressMapping decodes a serialized address mapping.
func DeserializeAddressMapping(data []byte) (*AddressMapping, error) {
	t, err := decodeTable(data, addressMappingSchema, 2)
	if err != nil {
		return nil, err
	}
	return addressMappingFromTable(t)
}

func addressMappingFromTable(t *molecule.Table) (*AddressMapping, error) {
	vec, err := molecule.NewDynVec(field(t, 1))
	if err != nil {
		return nil, err
	}
	if int(uint32Field(t, 0)) != vec.Len() {
		return nil, &molecule.StructuralError{Kind: "table", Err: errMappingLength}
	}
	m := new(AddressMapping)
	if vec.Len() == 0 {
		return m, nil
	}
	m.Items = make([]AddressMappingItem, vec.Len())
	for i := range m.Items {
		raw, _ := vec.Get(i)
		item, err := molecule.NewTable(raw, 2, false)
		if err != nil {
			return nil, err
		}
		m.Items[i] = *addressMappingItemFromTable(item)
	}
	return m, nil
}

// RawL2TransactionWithAddressMapping is an unsigned transaction together with
// the mapping items produced while rewriting its payload. Extra carries
// metadata, usually the ABI fragment of the rewritten method.
type RawL2TransactionWithAddressMapping struct {
	RawTx     RawL2Transaction
	Addresses AddressMapping
	Extra     []byte
}

// Serialize encodes the record into its offset-table form.
func (r *RawL2TransactionWithAddressMapping) Serialize() []byte {
	return molecule.PackTable(r.RawTx.Serialize(), r.Addresses.Serialize(), molecule.PackBytes(r.Extra))
}

// DeserializeRawL2TransactionWithAddressMapping decodes the record.
func DeserializeRawL2TransactionWithAddressMapping(data []byte) (*RawL2TransactionWithAddressMapping, error) {
	t, err := decodeTable(data, rawL2TransactionWithAddressMappingSchema, 3)
	if err != nil {
		return nil, err
	}
	raw, err := molecule.NewTable(field(t, 0), 4, false)
	if err != nil {
		return nil, err
	}
	mt, err := molecule.NewTable(field(t, 1), 2, false)
	if err != nil {
		return nil, err
	}
	mapping, err := addressMappingFromTable(mt)
	if err != nil {
		return nil, err
	}
	return &RawL2TransactionWithAddressMapping{
		RawTx:     *rawL2TransactionFromTable(raw),
		Addresses: *mapping,
		Extra:     bytesField(t, 2),
	}, nil
}

// L2TransactionWithAddressMapping is a signed transaction together with the
// mapping items produced while rewriting its payload.
type L2TransactionWithAddressMapping struct {
	Tx        L2Transaction
	Addresses AddressMapping
	Extra     []byte
}

// Serialize encodes the record into its offset-table form.
func (r *L2TransactionWithAddressMapping) Serialize() []byte {
	return molecule.PackTable(r.Tx.Serialize(), r.Addresses.Serialize(), molecule.PackBytes(r.Extra))
}

// DeserializeL2TransactionWithAddressMapping decodes the record.
func DeserializeL2TransactionWithAddressMapping(data []byte) (*L2TransactionWithAddressMapping, error) {
	t, err := decodeTable(data, l2TransactionWithAddressMappingSchema, 3)
	if err != nil {
		return nil, err
	}
	tt, err := molecule.NewTable(field(t, 0), 2, false)
	if err != nil {
		return nil, err
	}
	tx, err := l2TransactionFromTable(tt)
	if err != nil {
		return nil, err
	}
	mt, err := molecule.NewTable(field(t, 1), 2, false)
	if err != nil {
		return nil, err
	}
	mapping, err := addressMappingFromTable(mt)
	if err != nil {
		return nil, err
	}
	return &L2TransactionWithAddressMapping{
		Tx:        *tx,
		Addresses: *mapping,
		Extra:     bytesField(t, 2),
	}, nil
}
