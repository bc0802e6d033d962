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

// Package testchain provides an in-memory rollup used by tests to stand in
// for a Godwoken node.
package testchain

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	polyjuice "github.com/polyjuice/go-polyjuice"
	"github.com/polyjuice/go-polyjuice/core/types"
	"github.com/polyjuice/go-polyjuice/params"
)

// ContractCodeHash is the code hash used for contract account scripts.
var ContractCodeHash = common.HexToHash("0xc0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0")

// Chain is a fake rollup. Accounts are registered through AddScript and
// friends; lookups of unknown keys fail with polyjuice.NotFound.
type Chain struct {
	config *params.RollupConfig

	mu      sync.Mutex
	scripts map[common.Hash]*types.Script
	byShort map[types.ShortAddress]common.Hash
	ids     map[common.Hash]uint32
	hashes  map[uint32]common.Hash
	nonces  map[uint32]uint32
	err     error
	lookups int

	returnData []byte
	executed   []*types.RawL2Transaction
	submitted  []*types.L2Transaction
}

// New creates an empty chain for the given rollup.
func New(config *params.RollupConfig) *Chain {
	return &Chain{
		config:  config,
		scripts: make(map[common.Hash]*types.Script),
		byShort: make(map[types.ShortAddress]common.Hash),
		ids:     make(map[common.Hash]uint32),
		hashes:  make(map[uint32]common.Hash),
		nonces:  make(map[uint32]uint32),
	}
}

// AddScript registers an account with the given script and returns its id.
func (c *Chain) AddScript(s *types.Script) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	h := s.Hash()
	if id, ok := c.ids[h]; ok {
		return id
	}
	id := uint32(len(c.ids) + 1)
	c.scripts[h] = s
	c.byShort[s.ShortAddress()] = h
	c.ids[h] = id
	c.hashes[id] = h
	return id
}

// AddEthAccount registers the externally owned account of eth.
func (c *Chain) AddEthAccount(eth common.Address) uint32 {
	return c.AddScript(types.EthAccountLock(c.config, eth))
}

// AddContract registers a contract account derived from seed and returns
// its short address and id.
func (c *Chain) AddContract(seed []byte) (types.ShortAddress, uint32) {
	s := &types.Script{CodeHash: ContractCodeHash, HashType: types.HashTypeType, Args: common.CopyBytes(seed)}
	return s.ShortAddress(), c.AddScript(s)
}

// SetNonce sets the nonce of an account.
func (c *Chain) SetNonce(id, nonce uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nonces[id] = nonce
}

// SetError makes every lookup fail with err. A nil err restores normal
// operation.
func (c *Chain) SetError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// SetReturnData sets the return data of executed transactions.
func (c *Chain) SetReturnData(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.returnData = common.CopyBytes(data)
}

// Lookups returns the number of lookups served so far.
func (c *Chain) Lookups() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookups
}

// Executed returns the transactions passed to ExecuteRawL2Transaction.
func (c *Chain) Executed() []*types.RawL2Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*types.RawL2Transaction(nil), c.executed...)
}

// Submitted returns the transactions passed to SubmitL2Transaction.
func (c *Chain) Submitted() []*types.L2Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*types.L2Transaction(nil), c.submitted...)
}

// fault counts a lookup and returns the injected error. c.mu must be held.
func (c *Chain) fault() error {
	c.lookups++
	return c.err
}

func (c *Chain) GetScriptHashByShortAddress(ctx context.Context, short types.ShortAddress) (common.Hash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fault(); err != nil {
		return common.Hash{}, err
	}
	if h, ok := c.byShort[short]; ok {
		return h, nil
	}
	return common.Hash{}, polyjuice.NotFound
}

func (c *Chain) GetScript(ctx context.Context, hash common.Hash) (*types.Script, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fault(); err != nil {
		return nil, err
	}
	if s, ok := c.scripts[hash]; ok {
		cpy := *s
		return &cpy, nil
	}
	return nil, polyjuice.NotFound
}

func (c *Chain) GetAccountIDByScriptHash(ctx context.Context, hash common.Hash) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fault(); err != nil {
		return 0, err
	}
	if id, ok := c.ids[hash]; ok {
		return id, nil
	}
	return 0, polyjuice.NotFound
}

func (c *Chain) GetScriptHash(ctx context.Context, id uint32) (common.Hash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fault(); err != nil {
		return common.Hash{}, err
	}
	if h, ok := c.hashes[id]; ok {
		return h, nil
	}
	return common.Hash{}, polyjuice.NotFound
}

func (c *Chain) GetNonce(ctx context.Context, id uint32) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fault(); err != nil {
		return 0, err
	}
	return c.nonces[id], nil
}

func (c *Chain) ExecuteRawL2Transaction(ctx context.Context, tx *types.RawL2Transaction) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fault(); err != nil {
		return nil, err
	}
	c.executed = append(c.executed, tx)
	return common.CopyBytes(c.returnData), nil
}

func (c *Chain) SubmitL2Transaction(ctx context.Context, tx *types.L2Transaction) (common.Hash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fault(); err != nil {
		return common.Hash{}, err
	}
	c.submitted = append(c.submitted, tx)
	c.nonces[tx.Raw.FromID]++
	return tx.Hash(), nil
}
