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

// Package utils contains internal helper functions for go-polyjuice commands.
package utils

import (
	"github.com/polyjuice/go-polyjuice/internal/flags"
	"github.com/urfave/cli/v2"
)

// These are all the command line flags we support.
// If you add to this list, please remember to include the
// flag in the appropriate command definition.

var (
	// Rollup settings
	RollupTypeHashFlag = &cli.StringFlag{
		Name:     "rollup.typehash",
		Usage:    "Rollup type hash prefixing lock arguments and signing messages",
		Category: flags.RollupCategory,
	}
	EthLockCodeHashFlag = &cli.StringFlag{
		Name:     "rollup.ethlock",
		Usage:    "Code hash of the eth-account lock script",
		Category: flags.RollupCategory,
	}
	CreatorAccountFlag = &cli.UintFlag{
		Name:     "rollup.creator",
		Usage:    "Account id of the polyjuice creator (receiver of contract creations)",
		Category: flags.RollupCategory,
	}
	SigningModeFlag = &cli.StringFlag{
		Name:     "signing.mode",
		Usage:    "Signing message form (prefixed|unprefixed)",
		Category: flags.RollupCategory,
	}

	// Node RPC
	RPCFlag = &cli.StringFlag{
		Name:     "rpc",
		Usage:    "Godwoken JSON-RPC endpoint",
		Category: flags.RPCCategory,
	}
	ABIFlag = &cli.StringSliceFlag{
		Name:     "abi",
		Usage:    "Contract ABI JSON file whose methods get their address arguments rewritten (repeatable)",
		Category: flags.RPCCategory,
	}

	// Mapping database
	DataDirFlag = &flags.DirectoryFlag{
		Name:     "datadir",
		Usage:    "Data directory of the local address mapping database",
		Category: flags.DatabaseCategory,
	}
	DBEngineFlag = &cli.StringFlag{
		Name:     "db.engine",
		Usage:    "Backing database implementation to use ('memory', 'leveldb' or 'pebble')",
		Category: flags.DatabaseCategory,
	}
	MappingStoreFlag = &cli.StringFlag{
		Name:     "mapping.store",
		Usage:    "Where computed address mappings are recorded ('remote' node service or 'local' database)",
		Category: flags.DatabaseCategory,
	}
	CacheFlag = &cli.IntFlag{
		Name:     "cache",
		Usage:    "Megabytes of memory allocated to the database cache",
		Category: flags.DatabaseCategory,
	}

	// Transaction fields
	FromFlag = &cli.StringFlag{
		Name:     "from",
		Usage:    "Ethereum address of the sender",
		Category: flags.TxCategory,
	}
	ToFlag = &cli.StringFlag{
		Name:     "to",
		Usage:    "Ethereum address of the receiver (empty for contract creation)",
		Category: flags.TxCategory,
	}
	GasFlag = &cli.Uint64Flag{
		Name:     "gas",
		Usage:    "Gas limit",
		Category: flags.TxCategory,
	}
	GasPriceFlag = &flags.BigFlag{
		Name:     "gasprice",
		Usage:    "Gas price",
		Category: flags.TxCategory,
	}
	ValueFlag = &flags.BigFlag{
		Name:     "value",
		Usage:    "Value transferred with the call",
		Category: flags.TxCategory,
	}
	KeyFileFlag = &cli.StringFlag{
		Name:     "keyfile",
		Usage:    "File holding a hex encoded secp256k1 private key to sign with",
		Category: flags.TxCategory,
	}
	SenderHashFlag = &cli.StringFlag{
		Name:     "sender.hash",
		Usage:    "Script hash of the sender account",
		Category: flags.TxCategory,
	}
	ReceiverHashFlag = &cli.StringFlag{
		Name:     "receiver.hash",
		Usage:    "Script hash of the receiver account",
		Category: flags.TxCategory,
	}
)

// RollupFlags are the flags that override the rollup section of the config.
var RollupFlags = []cli.Flag{
	RollupTypeHashFlag,
	EthLockCodeHashFlag,
	CreatorAccountFlag,
	SigningModeFlag,
}

// NodeFlags are the flags that override the node section of the config.
var NodeFlags = []cli.Flag{
	RPCFlag,
	ABIFlag,
	DataDirFlag,
	DBEngineFlag,
	MappingStoreFlag,
	CacheFlag,
}

// TxFlags describe a call message.
var TxFlags = []cli.Flag{
	FromFlag,
	ToFlag,
	GasFlag,
	GasPriceFlag,
	ValueFlag,
}
