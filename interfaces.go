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

// Package polyjuice defines interfaces for interacting with a Godwoken rollup
// running the Polyjuice EVM.
package polyjuice

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/polyjuice/go-polyjuice/core/types"
)

// NotFound is returned by API methods if the requested item does not exist.
var NotFound = errors.New("not found")

// ChainReader provides keyed lookups of account scripts on the rollup.
//
// The returned error is NotFound if the requested item does not exist.
type ChainReader interface {
	// GetScriptHashByShortAddress returns the hash of the script whose short
	// address is short.
	GetScriptHashByShortAddress(ctx context.Context, short types.ShortAddress) (common.Hash, error)

	// GetScript returns the script with the given hash.
	GetScript(ctx context.Context, scriptHash common.Hash) (*types.Script, error)

	// GetAccountIDByScriptHash returns the id of the account owning the script.
	GetAccountIDByScriptHash(ctx context.Context, scriptHash common.Hash) (uint32, error)
}

// AccountReader provides access to per-account state.
type AccountReader interface {
	GetScriptHash(ctx context.Context, accountID uint32) (common.Hash, error)
	GetNonce(ctx context.Context, accountID uint32) (uint32, error)
}

// AddressMappingStore records pairings of Ethereum addresses with short
// addresses that were computed locally before the account existed on chain.
// Implementations may be local databases or remote services. Entries read
// back are never trusted by the resolver without re-deriving the pairing.
type AddressMappingStore interface {
	SaveAddressMapping(ctx context.Context, eth common.Address, short types.ShortAddress) error

	// AddressByShortAddress returns the Ethereum address recorded for short,
	// or NotFound.
	AddressByShortAddress(ctx context.Context, short types.ShortAddress) (common.Address, error)
}

// TransactionExecutor runs raw transactions without committing them and
// submits signed ones.
type TransactionExecutor interface {
	// ExecuteRawL2Transaction runs tx against the latest state and returns
	// its return data.
	ExecuteRawL2Transaction(ctx context.Context, tx *types.RawL2Transaction) ([]byte, error)

	// SubmitL2Transaction submits a signed transaction and returns its hash.
	SubmitL2Transaction(ctx context.Context, tx *types.L2Transaction) (common.Hash, error)
}

// CallMsg contains parameters for contract calls, in Ethereum address form.
type CallMsg struct {
	From     common.Address  // the sender of the 'transaction'
	To       *common.Address // the destination contract (nil for contract creation)
	Gas      uint64          // if 0, the call executes with near-infinite gas
	GasPrice *big.Int        // wei <-> gas exchange ratio
	Value    *big.Int        // amount of wei sent along with the call
	Data     []byte          // input data, usually an ABI-encoded contract method invocation
}
