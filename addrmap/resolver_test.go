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
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	polyjuice "github.com/polyjuice/go-polyjuice"
	"github.com/polyjuice/go-polyjuice/core/types"
	"github.com/polyjuice/go-polyjuice/ethdb/memorydb"
	"github.com/polyjuice/go-polyjuice/internal/testchain"
	"github.com/polyjuice/go-polyjuice/molecule"
	"github.com/polyjuice/go-polyjuice/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testConfig = &params.RollupConfig{
		RollupTypeHash:         common.HexToHash("0x1111111111111111111111111111111111111111111111111111111111111111"),
		EthAccountLockCodeHash: common.HexToHash("0x2222222222222222222222222222222222222222222222222222222222222222"),
		CreatorAccountID:       3,
	}
	alice = common.HexToAddress("0x3333333333333333333333333333333333333333")
	bob   = common.HexToAddress("0x4444444444444444444444444444444444444444")

	errBoom = errors.New("boom")
)

// failingStore fails every operation.
type failingStore struct{}

func (failingStore) SaveAddressMapping(context.Context, common.Address, types.ShortAddress) error {
	return errBoom
}

func (failingStore) AddressByShortAddress(context.Context, types.ShortAddress) (common.Address, error) {
	return common.Address{}, errBoom
}

func newTestResolver() (*Resolver, *testchain.Chain, *DBStore) {
	chain := testchain.New(testConfig)
	store := NewDBStore(memorydb.New())
	return New(testConfig, chain, store), chain, store
}

func TestZeroAddressPassesThrough(t *testing.T) {
	r, chain, _ := newTestResolver()
	for _, dir := range []Direction{ToInternal, ToExternal} {
		res, err := r.Resolve(context.Background(), common.Address{}, dir)
		require.NoError(t, err)
		assert.Equal(t, common.Address{}, res.Address)
		assert.Equal(t, OutcomeUnchanged, res.Outcome)
	}
	assert.Zero(t, chain.Lookups(), "zero address must not hit the chain")
}

func TestToShortContract(t *testing.T) {
	r, chain, _ := newTestResolver()
	contract, _ := chain.AddContract([]byte("erc20"))

	res, err := r.ToShort(context.Background(), contract.Address())
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, res.Outcome)
	assert.Equal(t, contract.Address(), res.Address)

	// Resolving the result again is a no-op.
	again, err := r.ToShort(context.Background(), res.Address)
	require.NoError(t, err)
	assert.Equal(t, res.Address, again.Address)

	_, ok := res.MappingItem()
	assert.False(t, ok)
}

func TestToShortComputesEthAccount(t *testing.T) {
	r, _, store := newTestResolver()

	res, err := r.ToShort(context.Background(), alice)
	require.NoError(t, err)
	want := types.EthAccountShortAddress(testConfig, alice)
	assert.Equal(t, OutcomeComputed, res.Outcome)
	assert.Equal(t, want.Address(), res.Address)

	item, ok := res.MappingItem()
	require.True(t, ok)
	assert.Equal(t, types.AddressMappingItem{EthAddress: alice, ShortAddress: want}, item)

	saved, err := store.AddressByShortAddress(context.Background(), want)
	require.NoError(t, err)
	assert.Equal(t, alice, saved)
}

func TestToShortErrors(t *testing.T) {
	r, chain, _ := newTestResolver()
	chain.SetError(errBoom)
	_, err := r.ToShort(context.Background(), alice)
	var rerr *ResolutionError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, alice, rerr.Address)
	assert.Equal(t, ToInternal, rerr.Direction)
	assert.ErrorIs(t, err, errBoom)

	r = New(testConfig, testchain.New(testConfig), failingStore{})
	_, err = r.ToShort(context.Background(), alice)
	require.ErrorAs(t, err, &rerr)
	assert.ErrorIs(t, err, errBoom)
}

func TestToEthFromChain(t *testing.T) {
	r, chain, _ := newTestResolver()
	chain.AddEthAccount(alice)
	short := types.EthAccountShortAddress(testConfig, alice)

	res, err := r.ToEth(context.Background(), short)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFromChain, res.Outcome)
	assert.Equal(t, alice, res.Address)
	assert.Equal(t, short.Address(), res.Input)
}

func TestToEthOtherScripts(t *testing.T) {
	r, chain, _ := newTestResolver()
	contract, _ := chain.AddContract([]byte("pool"))

	res, err := r.ToEth(context.Background(), contract)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, res.Outcome)
	assert.Equal(t, contract.Address(), res.Address)

	// An eth-account lock of another rollup is not this rollup's account.
	foreign := *testConfig
	foreign.RollupTypeHash = common.HexToHash("0x99")
	lock := types.EthAccountLock(&foreign, alice)
	chain.AddScript(lock)

	res, err = r.ToEth(context.Background(), lock.ShortAddress())
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, res.Outcome)
	assert.Equal(t, lock.ShortAddress().Address(), res.Address)
}

func TestToEthMalformedEthLock(t *testing.T) {
	r, chain, _ := newTestResolver()
	lock := types.EthAccountLock(testConfig, alice)
	lock.Args = lock.Args[:40]
	chain.AddScript(lock)

	res, err := r.ToEth(context.Background(), lock.ShortAddress())
	assert.Nil(t, res)
	var rerr *ResolutionError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, ToExternal, rerr.Direction)
	assert.Equal(t, lock.ShortAddress().Address(), rerr.Address)
	assert.True(t, errors.As(err, new(*molecule.LengthError)))
}

func TestToEthFromStore(t *testing.T) {
	r, _, _ := newTestResolver()

	computed, err := r.ToShort(context.Background(), bob)
	require.NoError(t, err)

	res, err := r.ToEth(context.Background(), types.ShortAddress(computed.Address))
	require.NoError(t, err)
	assert.Equal(t, OutcomeFromStore, res.Outcome)
	assert.Equal(t, bob, res.Address)
}

func TestToEthForgedStoreEntry(t *testing.T) {
	r, _, store := newTestResolver()
	short := types.EthAccountShortAddress(testConfig, alice)
	require.NoError(t, store.SaveAddressMapping(context.Background(), bob, short))

	res, err := r.ToEth(context.Background(), short)
	assert.Nil(t, res)
	var cerr *ConsistencyError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, short, cerr.Short)
	assert.Equal(t, bob, cerr.Eth)
	assert.Equal(t, types.EthAccountShortAddress(testConfig, bob), cerr.Derived)
}

func TestToEthUnknown(t *testing.T) {
	r, _, _ := newTestResolver()
	short := types.HexToShortAddress("0x5555555555555555555555555555555555555555")

	_, err := r.ToEth(context.Background(), short)
	var rerr *ResolutionError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, ToExternal, rerr.Direction)
	assert.ErrorIs(t, err, polyjuice.NotFound)

	r = New(testConfig, testchain.New(testConfig), nil)
	_, err = r.ToEth(context.Background(), short)
	assert.ErrorIs(t, err, polyjuice.NotFound)
}

func TestInvalidDirection(t *testing.T) {
	r, _, _ := newTestResolver()
	_, err := r.Resolve(context.Background(), alice, Direction(7))
	assert.Error(t, err)
}
