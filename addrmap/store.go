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
	"bytes"
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	polyjuice "github.com/polyjuice/go-polyjuice"
	"github.com/polyjuice/go-polyjuice/core/types"
	"github.com/polyjuice/go-polyjuice/ethdb"
)

// NoopStore discards saved mappings and never finds one.
type NoopStore struct{}

func (NoopStore) SaveAddressMapping(context.Context, common.Address, types.ShortAddress) error {
	return nil
}

func (NoopStore) AddressByShortAddress(context.Context, types.ShortAddress) (common.Address, error) {
	return common.Address{}, polyjuice.NotFound
}

// shortAddressPrefix + short address -> eth address
var shortAddressPrefix = []byte("gw-short-")

func shortAddressKey(short types.ShortAddress) []byte {
	return append(append([]byte{}, shortAddressPrefix...), short.Bytes()...)
}

// DBStore keeps address mappings in a key-value database.
type DBStore struct {
	db ethdb.KeyValueStore
}

// NewDBStore wraps db as a mapping store.
func NewDBStore(db ethdb.KeyValueStore) *DBStore {
	return &DBStore{db: db}
}

// SaveAddressMapping records one pairing.
func (s *DBStore) SaveAddressMapping(_ context.Context, eth common.Address, short types.ShortAddress) error {
	return s.db.Put(shortAddressKey(short), eth.Bytes())
}

// SaveAddressMappings records a set of pairings atomically.
func (s *DBStore) SaveAddressMappings(items []types.AddressMappingItem) error {
	batch := s.db.NewBatch()
	for _, item := range items {
		if err := batch.Put(shortAddressKey(item.ShortAddress), item.EthAddress.Bytes()); err != nil {
			return err
		}
		if batch.ValueSize() >= ethdb.IdealBatchSize {
			if err := batch.Write(); err != nil {
				return err
			}
			batch.Reset()
		}
	}
	return batch.Write()
}

// AddressByShortAddress returns the recorded Ethereum address for short.
func (s *DBStore) AddressByShortAddress(_ context.Context, short types.ShortAddress) (common.Address, error) {
	key := shortAddressKey(short)
	has, err := s.db.Has(key)
	if err != nil {
		return common.Address{}, err
	}
	if !has {
		return common.Address{}, polyjuice.NotFound
	}
	enc, err := s.db.Get(key)
	if err != nil {
		return common.Address{}, err
	}
	if len(enc) != common.AddressLength {
		return common.Address{}, fmt.Errorf("corrupted mapping entry for %s: %d bytes", short.Hex(), len(enc))
	}
	return common.BytesToAddress(enc), nil
}

// Mappings returns every recorded pairing ordered by short address.
func (s *DBStore) Mappings() ([]types.AddressMappingItem, error) {
	it := s.db.NewIterator(shortAddressPrefix, nil)
	defer it.Release()

	var items []types.AddressMappingItem
	for it.Next() {
		key := it.Key()
		if len(key) != len(shortAddressPrefix)+types.ShortAddressLength || !bytes.HasPrefix(key, shortAddressPrefix) {
			continue
		}
		if len(it.Value()) != common.AddressLength {
			continue
		}
		items = append(items, types.AddressMappingItem{
			EthAddress:   common.BytesToAddress(it.Value()),
			ShortAddress: types.BytesToShortAddress(key[len(shortAddressPrefix):]),
		})
	}
	return items, it.Error()
}
