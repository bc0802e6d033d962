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

// Package gwclient provides a client for the Godwoken JSON-RPC API.
package gwclient

import (
	"context"
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	polyjuice "github.com/polyjuice/go-polyjuice"
	"github.com/polyjuice/go-polyjuice/core/types"
)

// Client defines typed wrappers for the Godwoken RPC API.
type Client struct {
	c *rpc.Client
}

// Dial connects a client to the given URL.
func Dial(rawurl string) (*Client, error) {
	return DialContext(context.Background(), rawurl)
}

// DialContext connects a client to the given URL with context.
func DialContext(ctx context.Context, rawurl string) (*Client, error) {
	c, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, err
	}
	return NewClient(c), nil
}

// NewClient creates a client that uses the given RPC client.
func NewClient(c *rpc.Client) *Client {
	return &Client{c}
}

// Close closes the underlying RPC connection.
func (gc *Client) Close() {
	gc.c.Close()
}

// Client gets the underlying RPC client.
func (gc *Client) Client() *rpc.Client {
	return gc.c
}

// GetScriptHashByShortAddress returns the hash of the script whose short
// address is short.
func (gc *Client) GetScriptHashByShortAddress(ctx context.Context, short types.ShortAddress) (common.Hash, error) {
	var result *common.Hash
	if err := gc.c.CallContext(ctx, &result, "gw_get_script_hash_by_short_address", short); err != nil {
		return common.Hash{}, err
	}
	if result == nil {
		return common.Hash{}, polyjuice.NotFound
	}
	return *result, nil
}

// GetScript returns the script with the given hash.
func (gc *Client) GetScript(ctx context.Context, scriptHash common.Hash) (*types.Script, error) {
	var result *types.Script
	if err := gc.c.CallContext(ctx, &result, "gw_get_script", scriptHash); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, polyjuice.NotFound
	}
	return result, nil
}

// GetAccountIDByScriptHash returns the id of the account owning the script.
func (gc *Client) GetAccountIDByScriptHash(ctx context.Context, scriptHash common.Hash) (uint32, error) {
	var result *hexutil.Uint64
	if err := gc.c.CallContext(ctx, &result, "gw_get_account_id_by_script_hash", scriptHash); err != nil {
		return 0, err
	}
	if result == nil {
		return 0, polyjuice.NotFound
	}
	return toUint32("account id", *result)
}

// GetScriptHash returns the script hash of an account.
func (gc *Client) GetScriptHash(ctx context.Context, accountID uint32) (common.Hash, error) {
	var result *common.Hash
	if err := gc.c.CallContext(ctx, &result, "gw_get_script_hash", hexutil.Uint64(accountID)); err != nil {
		return common.Hash{}, err
	}
	if result == nil || *result == (common.Hash{}) {
		return common.Hash{}, polyjuice.NotFound
	}
	return *result, nil
}

// GetNonce returns the nonce of an account.
func (gc *Client) GetNonce(ctx context.Context, accountID uint32) (uint32, error) {
	var result hexutil.Uint64
	if err := gc.c.CallContext(ctx, &result, "gw_get_nonce", hexutil.Uint64(accountID)); err != nil {
		return 0, err
	}
	return toUint32("nonce", result)
}

// RunResult is the outcome of executing a transaction without committing it.
type RunResult struct {
	ReturnData hexutil.Bytes `json:"return_data"`
}

// ExecuteRawL2Transaction runs tx against the latest state and returns its
// return data.
func (gc *Client) ExecuteRawL2Transaction(ctx context.Context, tx *types.RawL2Transaction) ([]byte, error) {
	var result RunResult
	if err := gc.c.CallContext(ctx, &result, "gw_execute_raw_l2transaction", hexutil.Bytes(tx.Serialize())); err != nil {
		return nil, err
	}
	return result.ReturnData, nil
}

// SubmitL2Transaction submits a signed transaction and returns its hash.
func (gc *Client) SubmitL2Transaction(ctx context.Context, tx *types.L2Transaction) (common.Hash, error) {
	var result common.Hash
	if err := gc.c.CallContext(ctx, &result, "gw_submit_l2transaction", hexutil.Bytes(tx.Serialize())); err != nil {
		return common.Hash{}, err
	}
	return result, nil
}

// SaveAddressMapping records a locally computed short address with the
// node's mapping service.
func (gc *Client) SaveAddressMapping(ctx context.Context, eth common.Address, short types.ShortAddress) error {
	return gc.c.CallContext(ctx, nil, "poly_saveEthAddressGodwokenShortAddressMapping", eth, short)
}

// AddressByShortAddress queries the node's mapping service.
func (gc *Client) AddressByShortAddress(ctx context.Context, short types.ShortAddress) (common.Address, error) {
	var result *common.Address
	if err := gc.c.CallContext(ctx, &result, "poly_getEthAddressByGodwokenShortAddress", short); err != nil {
		return common.Address{}, err
	}
	if result == nil {
		return common.Address{}, polyjuice.NotFound
	}
	return *result, nil
}

func toUint32(what string, v hexutil.Uint64) (uint32, error) {
	if uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("%s %d exceeds 32 bits", what, uint64(v))
	}
	return uint32(v), nil
}

var (
	_ polyjuice.ChainReader         = (*Client)(nil)
	_ polyjuice.AccountReader       = (*Client)(nil)
	_ polyjuice.AddressMappingStore = (*Client)(nil)
	_ polyjuice.TransactionExecutor = (*Client)(nil)
)
