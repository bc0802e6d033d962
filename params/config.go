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

package params

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var (
	errMissingRollupTypeHash = errors.New("rollup type hash not configured")
	errMissingLockCodeHash   = errors.New("eth account lock code hash not configured")
)

// RollupConfig is the set of rollup-wide constants every address derivation
// and signing message depends on.
type RollupConfig struct {
	// RollupTypeHash identifies the rollup and prefixes every eth-account
	// lock argument and every signing message.
	RollupTypeHash common.Hash

	// EthAccountLockCodeHash is the code hash (hash type "type") of the lock
	// script that binds an Ethereum address to a layer-2 account.
	EthAccountLockCodeHash common.Hash

	// CreatorAccountID is the polyjuice creator account, used as the
	// receiver of contract creation transactions.
	CreatorAccountID uint32 `toml:",omitempty"`
}

// DefaultRollupConfig contains no rollup constants; callers are expected to
// fill them from the node they talk to.
var DefaultRollupConfig = RollupConfig{
	CreatorAccountID: 3,
}

// Validate checks that the hashes required for address derivation are set.
func (c *RollupConfig) Validate() error {
	if c.RollupTypeHash == (common.Hash{}) {
		return errMissingRollupTypeHash
	}
	if c.EthAccountLockCodeHash == (common.Hash{}) {
		return errMissingLockCodeHash
	}
	return nil
}

// Description returns a human-readable summary of the configuration.
func (c *RollupConfig) Description() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rollup type hash:     %s\n", c.RollupTypeHash.Hex())
	fmt.Fprintf(&b, "Eth account lock:     %s\n", c.EthAccountLockCodeHash.Hex())
	fmt.Fprintf(&b, "Creator account id:   %d\n", c.CreatorAccountID)
	return b.String()
}
