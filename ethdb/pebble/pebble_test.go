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

package pebble

import (
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/polyjuice/go-polyjuice/ethdb"
	"github.com/polyjuice/go-polyjuice/ethdb/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpperBound(t *testing.T) {
	assert.Equal(t, []byte{0x01, 0x03}, upperBound([]byte{0x01, 0x02}), "upper bound should increment last byte")
	assert.Equal(t, []byte{0x02}, upperBound([]byte{0x01, 0xff}), "upper bound should increment previous byte")
	assert.Nil(t, upperBound([]byte{0xff, 0xff}), "upper bound should be nil for all 0xff")
	assert.Nil(t, upperBound([]byte{}), "upper bound should be nil for empty prefix")
}

func TestPebbleDB(t *testing.T) {
	t.Run("DatabaseSuite", func(t *testing.T) {
		dbtest.TestDatabaseSuite(t, func() ethdb.KeyValueStore {
			db, err := NewWithOptions("", &pebble.Options{FS: vfs.NewMem()}, "test/pebble/")
			if err != nil {
				t.Fatal(err)
			}
			return db
		})
	})
}

func TestCloseTwice(t *testing.T) {
	db, err := NewWithOptions("", &pebble.Options{FS: vfs.NewMem()}, "test/pebble/")
	require.NoError(t, err)
	require.NoError(t, db.Close())
	require.NoError(t, db.Close())

	_, err = db.Has([]byte("k"))
	assert.ErrorIs(t, err, pebble.ErrClosed)
}
