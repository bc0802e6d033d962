// Copyright 2025 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDatabase(t *testing.T) {
	for _, engine := range []string{DBMemory, DBLeveldb, DBPebble} {
		t.Run(engine, func(t *testing.T) {
			db, err := OpenDatabase(DatabaseConfig{
				Engine:    engine,
				Directory: filepath.Join(t.TempDir(), "db"),
				Cache:     16,
				Handles:   16,
				Namespace: "test/",
			})
			require.NoError(t, err)
			defer db.Close()

			require.NoError(t, db.Put([]byte("k"), []byte("v")))
			v, err := db.Get([]byte("k"))
			require.NoError(t, err)
			assert.Equal(t, []byte("v"), v)
		})
	}
}

func TestOpenDatabaseErrors(t *testing.T) {
	_, err := OpenDatabase(DatabaseConfig{Engine: "rocksdb", Directory: t.TempDir()})
	assert.ErrorContains(t, err, "unknown database engine")

	_, err = OpenDatabase(DatabaseConfig{Engine: DBPebble})
	assert.ErrorContains(t, err, "requires a data directory")
}
