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

// Package dbtest contains a conformance suite shared by the key-value store
// backends.
package dbtest

import (
	"bytes"
	"testing"

	"github.com/polyjuice/go-polyjuice/ethdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSuite runs a suite of tests against a KeyValueStore database
// implementation.
func TestDatabaseSuite(t *testing.T, New func() ethdb.KeyValueStore) {
	t.Run("Iterator", func(t *testing.T) {
		tests := []struct {
			content map[string]string
			prefix  string
			start   string
			order   []string
		}{
			// Empty databases should be iterable
			{map[string]string{}, "", "", nil},
			{map[string]string{}, "non-existent-prefix", "", nil},

			// Single-item databases should be iterable
			{map[string]string{"key": "val"}, "", "", []string{"key"}},
			{map[string]string{"key": "val"}, "k", "", []string{"key"}},
			{map[string]string{"key": "val"}, "l", "", nil},

			// Multi-item databases should be fully iterable
			{
				map[string]string{"k1": "v1", "k5": "v5", "k2": "v2", "k4": "v4", "k3": "v3"},
				"k", "",
				[]string{"k1", "k2", "k3", "k4", "k5"},
			},
			// Iteration with a start offset within the prefix
			{
				map[string]string{"ka1": "va1", "ka2": "va2", "kb1": "vb1", "kb2": "vb2"},
				"ka", "2",
				[]string{"ka2"},
			},
		}
		for i, tt := range tests {
			db := New()
			for key, val := range tt.content {
				require.NoError(t, db.Put([]byte(key), []byte(val)), "test %d", i)
			}
			it := db.NewIterator([]byte(tt.prefix), []byte(tt.start))
			var got []string
			for it.Next() {
				got = append(got, string(it.Key()))
				assert.Equal(t, tt.content[string(it.Key())], string(it.Value()), "test %d", i)
			}
			require.NoError(t, it.Error(), "test %d", i)
			it.Release()
			assert.Equal(t, tt.order, got, "test %d", i)
			db.Close()
		}
	})

	t.Run("KeyValueOperations", func(t *testing.T) {
		db := New()
		defer db.Close()

		key := []byte("gw-short-aa")
		value := []byte("value")

		has, err := db.Has(key)
		require.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, db.Put(key, value))
		has, err = db.Has(key)
		require.NoError(t, err)
		assert.True(t, has)

		got, err := db.Get(key)
		require.NoError(t, err)
		assert.Equal(t, value, got)

		require.NoError(t, db.Delete(key))
		has, err = db.Has(key)
		require.NoError(t, err)
		assert.False(t, has)

		_, err = db.Get(key)
		assert.Error(t, err)
	})

	t.Run("Batch", func(t *testing.T) {
		db := New()
		defer db.Close()

		b := db.NewBatch()
		for _, k := range []string{"1", "2", "3", "4"} {
			require.NoError(t, b.Put([]byte(k), nil))
		}
		require.NoError(t, b.Delete([]byte("2")))

		has, err := db.Has([]byte("1"))
		require.NoError(t, err)
		assert.False(t, has, "batch must not be visible before Write")

		require.NoError(t, b.Write())
		assert.Equal(t, []string{"1", "3", "4"}, iterateKeys(db.NewIterator(nil, nil)))

		b.Reset()
		assert.Zero(t, b.ValueSize())
	})

	t.Run("BatchReplay", func(t *testing.T) {
		db := New()
		defer db.Close()

		want := []string{"1", "2", "3", "4"}
		b := db.NewBatch()
		for _, k := range want {
			require.NoError(t, b.Put([]byte(k), nil))
		}

		b2 := db.NewBatch()
		require.NoError(t, b.Replay(b2))
		require.NoError(t, b2.Replay(db))
		assert.Equal(t, want, iterateKeys(db.NewIterator(nil, nil)))
	})

	t.Run("OperationsAfterClose", func(t *testing.T) {
		db := New()
		require.NoError(t, db.Put([]byte("key"), []byte("value")))
		db.Close()
		_, err := db.Get([]byte("key"))
		assert.Error(t, err)
		assert.Error(t, db.Put([]byte("key2"), []byte("value2")))
	})
}

func iterateKeys(it ethdb.Iterator) []string {
	keys := []string{}
	for it.Next() {
		keys = append(keys, string(bytes.Clone(it.Key())))
	}
	it.Release()
	return keys
}
