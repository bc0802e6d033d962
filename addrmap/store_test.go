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
	"context"
	"testing"

	polyjuice "github.com/polyjuice/go-polyjuice"
	"github.com/polyjuice/go-polyjuice/core/types"
	"github.com/polyjuice/go-polyjuice/ethdb/memorydb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopStore(t *testing.T) {
	var s NoopStore
	require.NoError(t, s.SaveAddressMapping(context.Background(), alice, types.ShortAddress{1}))
	_, err := s.AddressByShortAddress(context.Background(), types.ShortAddress{1})
	assert.ErrorIs(t, err, polyjuice.NotFound)
}

func TestDBStore(t *testing.T) {
	db := memorydb.New()
	s := NewDBStore(db)

	items := []types.AddressMappingItem{
		{EthAddress: bob, ShortAddress: types.HexToShortAddress("0x02")},
		{EthAddress: alice, ShortAddress: types.HexToShortAddress("0x01")},
	}
	require.NoError(t, s.SaveAddressMappings(items))

	got, err := s.AddressByShortAddress(context.Background(), types.HexToShortAddress("0x01"))
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	_, err = s.AddressByShortAddress(context.Background(), types.HexToShortAddress("0x03"))
	assert.ErrorIs(t, err, polyjuice.NotFound)

	// Unrelated keys are ignored when listing.
	require.NoError(t, db.Put([]byte("other"), []byte("value")))
	all, err := s.Mappings()
	require.NoError(t, err)
	assert.Equal(t, []types.AddressMappingItem{items[1], items[0]}, all)
}

func TestDBStoreCorruptEntry(t *testing.T) {
	db := memorydb.New()
	s := NewDBStore(db)
	short := types.HexToShortAddress("0x01")
	require.NoError(t, db.Put(shortAddressKey(short), []byte{1, 2, 3}))

	_, err := s.AddressByShortAddress(context.Background(), short)
	require.Error(t, err)
	assert.NotErrorIs(t, err, polyjuice.NotFound)

	all, err := s.Mappings()
	require.NoError(t, err)
	assert.Empty(t, all)
}
