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

package rewriter

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/polyjuice/go-polyjuice/accounts/abiregistry"
	"github.com/polyjuice/go-polyjuice/addrmap"
	"github.com/polyjuice/go-polyjuice/core/types"
	"github.com/polyjuice/go-polyjuice/ethdb/memorydb"
	"github.com/polyjuice/go-polyjuice/internal/testchain"
	"github.com/polyjuice/go-polyjuice/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testABI = `[
	{"type":"function","name":"transfer","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"totalSupply","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"owner","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"distribute","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address[]"},{"name":"memo","type":"string"}],"outputs":[]},
	{"type":"function","name":"pair","inputs":[{"name":"tokens","type":"address[2]"}],"outputs":[{"name":"","type":"address[2]"}]}
]`

var (
	addrA = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	addrB = common.HexToAddress("0x00000000000000000000000000000000000000bb")
	addrC = common.HexToAddress("0x00000000000000000000000000000000000000cc")
	addrD = common.HexToAddress("0x00000000000000000000000000000000000000dd")

	errUnknown = errors.New("unknown address")
)

// mapResolver resolves through a fixed table and reports every resolution
// as locally computed. Addresses missing from the table fail.
type mapResolver struct {
	mu    sync.Mutex
	table map[common.Address]common.Address
	calls []common.Address
}

func (r *mapResolver) Resolve(ctx context.Context, addr common.Address, dir addrmap.Direction) (*addrmap.Resolution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, addr)
	out, ok := r.table[addr]
	if !ok {
		return nil, errUnknown
	}
	return &addrmap.Resolution{Input: addr, Address: out, Outcome: addrmap.OutcomeComputed}, nil
}

func newTestRewriter(t *testing.T, table map[common.Address]common.Address) (*Rewriter, *mapResolver) {
	t.Helper()
	reg, err := abiregistry.FromJSON(strings.NewReader(testABI))
	require.NoError(t, err)
	res := &mapResolver{table: table}
	return New(reg, res), res
}

func method(t *testing.T, r *Rewriter, name string) *abiregistry.Method {
	t.Helper()
	for _, m := range r.Registry().Methods() {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("method %s not registered", name)
	return nil
}

func transfer(to common.Address, amount []byte) []byte {
	payload := common.FromHex("0xa9059cbb")
	payload = append(payload, common.LeftPadBytes(to.Bytes(), 32)...)
	return append(payload, common.LeftPadBytes(amount, 32)...)
}

func TestRewriteTransfer(t *testing.T) {
	r, _ := newTestRewriter(t, map[common.Address]common.Address{addrA: addrB})
	amount := common.FromHex("0x0de0b6b3a7640000")

	res, err := r.RewritePayload(context.Background(), transfer(addrA, amount), addrmap.ToInternal)
	require.NoError(t, err)
	assert.Equal(t, transfer(addrB, amount), res.Data)
	assert.Equal(t, "transfer", res.Method.Name)
	assert.Equal(t, []types.AddressMappingItem{{EthAddress: addrA, ShortAddress: types.ShortAddress(addrB)}}, res.Mappings)
}

func TestUnknownSelectorPassesThrough(t *testing.T) {
	r, res := newTestRewriter(t, nil)
	payloads := [][]byte{
		common.FromHex("0xdeadbeef0000000000000000000000000000000000000000000000000000000000000001"),
		common.FromHex("0x18160ddd"), // totalSupply
		common.FromHex("0xa905"),
		nil,
	}
	for _, payload := range payloads {
		out, err := r.RewritePayload(context.Background(), payload, addrmap.ToInternal)
		require.NoError(t, err)
		assert.Equal(t, payload, out.Data)
		assert.Empty(t, out.Mappings)
		assert.Nil(t, out.Method)
	}
	assert.Empty(t, res.calls)
}

func TestZeroAddressNeverRewritten(t *testing.T) {
	r, res := newTestRewriter(t, nil)
	payload := transfer(common.Address{}, []byte{1})

	out, err := r.RewritePayload(context.Background(), payload, addrmap.ToInternal)
	require.NoError(t, err)
	assert.Equal(t, payload, out.Data)
	assert.Empty(t, out.Mappings)
	assert.Empty(t, res.calls)
}

func TestRewriteAddressList(t *testing.T) {
	r, res := newTestRewriter(t, map[common.Address]common.Address{
		addrA: addrB,
		addrC: addrD,
	})
	m := method(t, r, "distribute")
	payload, err := m.Encode([]interface{}{addrA, []common.Address{addrC, {}, addrA, addrC}, "memo"})
	require.NoError(t, err)

	out, err := r.RewritePayload(context.Background(), payload, addrmap.ToInternal)
	require.NoError(t, err)

	want, err := m.Encode([]interface{}{addrB, []common.Address{addrD, {}, addrB, addrD}, "memo"})
	require.NoError(t, err)
	assert.Equal(t, want, out.Data)

	// One item per address, in field order.
	assert.Equal(t, []types.AddressMappingItem{
		{EthAddress: addrA, ShortAddress: types.ShortAddress(addrB)},
		{EthAddress: addrC, ShortAddress: types.ShortAddress(addrD)},
	}, out.Mappings)
	assert.Len(t, res.calls, 4, "zero element is not resolved")
}

func TestListFailureAbortsRewrite(t *testing.T) {
	r, res := newTestRewriter(t, map[common.Address]common.Address{addrA: addrB})
	m := method(t, r, "distribute")
	payload, err := m.Encode([]interface{}{addrA, []common.Address{addrA, addrC, addrA, addrD}, ""})
	require.NoError(t, err)

	out, err := r.RewritePayload(context.Background(), payload, addrmap.ToInternal)
	assert.Nil(t, out)
	var ferr *FieldError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 1, ferr.Index)
	assert.Equal(t, 1, ferr.Element)
	assert.Equal(t, addrC, ferr.Address)
	assert.ErrorIs(t, err, errUnknown)

	// Every sibling lookup ran to completion.
	assert.Len(t, res.calls, 5)
}

func TestScalarFailureAbortsRewrite(t *testing.T) {
	r, _ := newTestRewriter(t, nil)
	_, err := r.RewritePayload(context.Background(), transfer(addrC, nil), addrmap.ToInternal)
	var ferr *FieldError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 0, ferr.Index)
	assert.Equal(t, -1, ferr.Element)
	assert.Equal(t, addrC, ferr.Address)
}

func TestRewriteFixedArray(t *testing.T) {
	r, _ := newTestRewriter(t, map[common.Address]common.Address{addrA: addrB, addrC: addrD})
	m := method(t, r, "pair")
	payload, err := m.Encode([]interface{}{[2]common.Address{addrA, addrC}})
	require.NoError(t, err)

	out, err := r.RewritePayload(context.Background(), payload, addrmap.ToInternal)
	require.NoError(t, err)
	want, err := m.Encode([]interface{}{[2]common.Address{addrB, addrD}})
	require.NoError(t, err)
	assert.Equal(t, want, out.Data)

	ret, err := m.EncodeOutputs([]interface{}{[2]common.Address{addrA, {}}})
	require.NoError(t, err)
	back, err := r.RewriteReturn(context.Background(), payload, ret, addrmap.ToExternal)
	require.NoError(t, err)
	wantRet, err := m.EncodeOutputs([]interface{}{[2]common.Address{addrB, {}}})
	require.NoError(t, err)
	assert.Equal(t, wantRet, back.Data)
}

func TestRewriteReturn(t *testing.T) {
	r, _ := newTestRewriter(t, map[common.Address]common.Address{addrB: addrA})
	owner := method(t, r, "owner")
	ret, err := owner.EncodeOutputs([]interface{}{addrB})
	require.NoError(t, err)

	out, err := r.RewriteReturn(context.Background(), owner.ID[:], ret, addrmap.ToExternal)
	require.NoError(t, err)
	want, err := owner.EncodeOutputs([]interface{}{addrA})
	require.NoError(t, err)
	assert.Equal(t, want, out.Data)

	// Methods without address outputs return data untouched.
	transferRet := common.LeftPadBytes([]byte{1}, 32)
	out, err = r.RewriteReturn(context.Background(), transfer(addrA, nil), transferRet, addrmap.ToExternal)
	require.NoError(t, err)
	assert.Equal(t, transferRet, out.Data)

	// Call data for an input-only method is left alone as well.
	out, err = r.RewritePayload(context.Background(), owner.ID[:], addrmap.ToInternal)
	require.NoError(t, err)
	assert.Equal(t, owner.ID[:], out.Data)
}

func TestRewriteWithResolver(t *testing.T) {
	cfg := &params.RollupConfig{
		RollupTypeHash:         common.HexToHash("0x11"),
		EthAccountLockCodeHash: common.HexToHash("0x22"),
	}
	chain := testchain.New(cfg)
	contract, _ := chain.AddContract([]byte("token"))
	store := addrmap.NewDBStore(memorydb.New())

	reg, err := abiregistry.FromJSON(strings.NewReader(testABI))
	require.NoError(t, err)
	r := New(reg, addrmap.New(cfg, chain, store))
	m := method(t, r, "distribute")

	payload, err := m.Encode([]interface{}{contract.Address(), []common.Address{addrA}, ""})
	require.NoError(t, err)
	out, err := r.RewritePayload(context.Background(), payload, addrmap.ToInternal)
	require.NoError(t, err)

	shortA := types.EthAccountShortAddress(cfg, addrA)
	want, err := m.Encode([]interface{}{contract.Address(), []common.Address{shortA.Address()}, ""})
	require.NoError(t, err)
	assert.Equal(t, want, out.Data)
	assert.Equal(t, []types.AddressMappingItem{{EthAddress: addrA, ShortAddress: shortA}}, out.Mappings)

	// And back again through the mapping store.
	back, err := r.RewritePayload(context.Background(), out.Data, addrmap.ToExternal)
	require.NoError(t, err)
	assert.Equal(t, payload, back.Data)
	assert.Empty(t, back.Mappings)
}
