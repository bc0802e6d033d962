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
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/polyjuice/go-polyjuice/ethdb"
	"github.com/polyjuice/go-polyjuice/ethdb/leveldb"
	"github.com/polyjuice/go-polyjuice/ethdb/memorydb"
	"github.com/polyjuice/go-polyjuice/ethdb/pebble"
)

// Supported database engines.
const (
	DBMemory  = "memory"
	DBLeveldb = "leveldb"
	DBPebble  = "pebble"
)

// DatabaseConfig selects and tunes the mapping database.
type DatabaseConfig struct {
	Engine    string
	Directory string
	Cache     int
	Handles   int
	Namespace string
	ReadOnly  bool
}

// OpenDatabase opens the key-value store described by cfg.
func OpenDatabase(cfg DatabaseConfig) (ethdb.KeyValueStore, error) {
	switch cfg.Engine {
	case DBMemory:
		return memorydb.New(), nil
	case DBLeveldb, DBPebble:
		if cfg.Directory == "" {
			return nil, fmt.Errorf("database engine %q requires a data directory", cfg.Engine)
		}
	default:
		return nil, fmt.Errorf("unknown database engine %q", cfg.Engine)
	}
	log.Info("Opening mapping database", "engine", cfg.Engine, "dir", cfg.Directory, "cache", cfg.Cache, "readonly", cfg.ReadOnly)
	if cfg.Engine == DBPebble {
		return pebble.New(cfg.Directory, cfg.Cache, cfg.Handles, cfg.Namespace, cfg.ReadOnly)
	}
	return leveldb.New(cfg.Directory, cfg.Cache, cfg.Handles, cfg.Namespace, cfg.ReadOnly)
}
