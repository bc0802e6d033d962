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

package main

import (
	"bytes"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/polyjuice/go-polyjuice/core/types"
	"github.com/polyjuice/go-polyjuice/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testRollup = params.RollupConfig{
		RollupTypeHash:         common.HexToHash("0x1111111111111111111111111111111111111111111111111111111111111111"),
		EthAccountLockCodeHash: common.HexToHash("0x2222222222222222222222222222222222222222222222222222222222222222"),
		CreatorAccountID:       3,
	}
	rollupArgs = []string{
		"--rollup.typehash", testRollup.RollupTypeHash.Hex(),
		"--rollup.ethlock", testRollup.EthAccountLockCodeHash.Hex(),
	}
	alice = common.HexToAddress("0x3333333333333333333333333333333333333333")
	bob   = common.HexToAddress("0x4444444444444444444444444444444444444444")
)

// runGwtool runs the app with the given arguments and returns what it
// printed.
func runGwtool(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := newApp()
	a.Writer = &out
	a.ErrWriter = &out
	err := a.Run(append([]string{"gwtool", "--verbosity", "0"}, args...))
	return out.String(), err
}

func withRollup(args ...string) []string {
	return append(append([]string{}, rollupArgs...), args...)
}

func TestShortAddress(t *testing.T) {
	out, err := runGwtool(t, withRollup("short-address", alice.Hex(), bob.Hex())...)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, alice.Hex()+" "+types.EthAccountShortAddress(&testRollup, alice).Hex(), lines[0])
	assert.Equal(t, bob.Hex()+" "+types.EthAccountShortAddress(&testRollup, bob).Hex(), lines[1])

	_, err = runGwtool(t, "short-address", alice.Hex())
	assert.Error(t, err, "rollup constants are required")

	_, err = runGwtool(t, withRollup("short-address", "0x1234")...)
	assert.Error(t, err)
}

func TestEncodeArgs(t *testing.T) {
	out, err := runGwtool(t, "encode-args", "--to", bob.Hex(), "--gas", "21000", "--gasprice", "1", "--value", "0x10", "0xabcd")
	require.NoError(t, err)

	want, err := (&types.PolyjuiceArgs{
		Kind:     types.CallKindCall,
		GasLimit: 21000,
		GasPrice: big.NewInt(1),
		Value:    big.NewInt(16),
		Input:    []byte{0xab, 0xcd},
	}).Encode()
	require.NoError(t, err)
	assert.Equal(t, hexutil.Encode(want), strings.TrimSpace(out))

	out, err = runGwtool(t, "encode-args", "0x")
	require.NoError(t, err)
	args, err := types.DecodePolyjuiceArgs(common.FromHex(strings.TrimSpace(out)))
	require.NoError(t, err)
	assert.Equal(t, types.CallKindCreate, args.Kind)

	_, err = runGwtool(t, "encode-args", "--value", "0x100000000000000000000000000000000", "0x")
	var oerr *types.OverflowError
	assert.ErrorAs(t, err, &oerr)
}

func TestDecodeTx(t *testing.T) {
	args, err := (&types.PolyjuiceArgs{Kind: types.CallKindCall, GasLimit: 7, Input: []byte{1}}).Encode()
	require.NoError(t, err)
	raw := types.RawL2Transaction{FromID: 2, ToID: 5, Nonce: 9, Args: args}
	signed := types.L2Transaction{Raw: raw, Signature: make([]byte, 65)}
	withMapping := types.L2TransactionWithAddressMapping{
		Tx:        signed,
		Addresses: types.AddressMapping{Items: []types.AddressMappingItem{{EthAddress: alice, ShortAddress: types.EthAccountShortAddress(&testRollup, alice)}}},
		Extra:     []byte(`{"name":"transfer"}`),
	}

	tests := []struct {
		data []byte
		typ  string
	}{
		{raw.Serialize(), "RawL2Transaction"},
		{signed.Serialize(), "L2Transaction"},
		{withMapping.Serialize(), "L2TransactionWithAddressMapping"},
	}
	for _, tt := range tests {
		out, err := runGwtool(t, "decode-tx", hexutil.Encode(tt.data))
		require.NoError(t, err, tt.typ)

		var desc struct {
			Type string `json:"type"`
			Raw  struct {
				FromID    uint32 `json:"fromId"`
				ToID      uint32 `json:"toId"`
				Nonce     uint32 `json:"nonce"`
				Polyjuice struct {
					Kind     string `json:"kind"`
					GasLimit uint64 `json:"gasLimit"`
				} `json:"polyjuice"`
			} `json:"raw"`
			Addresses []types.AddressMappingItem `json:"addresses"`
			Extra     map[string]string          `json:"extra"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &desc), out)
		assert.Equal(t, tt.typ, desc.Type)
		assert.Equal(t, uint32(2), desc.Raw.FromID)
		assert.Equal(t, uint32(5), desc.Raw.ToID)
		assert.Equal(t, uint32(9), desc.Raw.Nonce)
		assert.Equal(t, "call", desc.Raw.Polyjuice.Kind)
		assert.Equal(t, uint64(7), desc.Raw.Polyjuice.GasLimit)
		if tt.typ == "L2TransactionWithAddressMapping" {
			assert.Equal(t, withMapping.Addresses.Items, desc.Addresses)
			assert.Equal(t, "transfer", desc.Extra["name"])
		}
	}

	_, err = runGwtool(t, "decode-tx", "0x0102")
	assert.Error(t, err)
}

func TestSigningMessageCommand(t *testing.T) {
	raw := &types.RawL2Transaction{FromID: 1, ToID: 2, Nonce: 3, Args: []byte{4}}
	sender := common.HexToHash("0x44")
	receiver := common.HexToHash("0x55")

	for _, mode := range []types.SigningMode{types.ModePrefixed, types.ModeUnprefixed} {
		out, err := runGwtool(t, withRollup("--signing.mode", mode.String(), "signing-message",
			"--sender.hash", sender.Hex(), "--receiver.hash", receiver.Hex(), hexutil.Encode(raw.Serialize()))...)
		require.NoError(t, err)
		want := types.SigningMessage(testRollup.RollupTypeHash, sender, receiver, raw, mode)
		assert.Equal(t, want.Hex(), strings.TrimSpace(out), mode.String())
	}

	_, err := runGwtool(t, withRollup("signing-message", "--sender.hash", "0x44", "--receiver.hash", receiver.Hex(), hexutil.Encode(raw.Serialize()))...)
	assert.Error(t, err, "short hash is rejected")
}

func TestDumpConfig(t *testing.T) {
	dir := t.TempDir()
	out, err := runGwtool(t, withRollup("--rpc", "http://node:8119", "--db.engine", "pebble", "dumpconfig")...)
	require.NoError(t, err)
	assert.Contains(t, out, testRollup.RollupTypeHash.Hex())
	assert.Contains(t, out, "http://node:8119")
	assert.Contains(t, out, "pebble")

	file := filepath.Join(dir, "gwtool.toml")
	require.NoError(t, os.WriteFile(file, []byte(out), 0644))
	again, err := runGwtool(t, "--config", file, "dumpconfig")
	require.NoError(t, err)
	assert.Equal(t, out, again)

	// Flags override the file.
	overridden, err := runGwtool(t, "--config", file, "--rpc", "http://other:8119", "dumpconfig")
	require.NoError(t, err)
	assert.Contains(t, overridden, "http://other:8119")

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[Node]\nBogus = 1\n"), 0644))
	_, err = runGwtool(t, "--config", bad, "dumpconfig")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bogus")
}

func TestMappingsCommands(t *testing.T) {
	for _, engine := range []string{"leveldb", "pebble"} {
		t.Run(engine, func(t *testing.T) {
			dir := t.TempDir()
			db := []string{"--datadir", filepath.Join(dir, "db"), "--db.engine", engine}
			aliceShort := types.EthAccountShortAddress(&testRollup, alice)
			bobShort := types.EthAccountShortAddress(&testRollup, bob)

			file := filepath.Join(dir, "mappings.json")
			items := []types.AddressMappingItem{{EthAddress: alice, ShortAddress: aliceShort}, {EthAddress: bob, ShortAddress: bobShort}}
			data, err := json.Marshal(items)
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(file, data, 0644))

			out, err := runGwtool(t, append(withRollup(db...), "mappings", "import", file)...)
			require.NoError(t, err)
			assert.Contains(t, out, "imported 2 mappings")

			out, err = runGwtool(t, append(db, "mappings", "get", aliceShort.Hex())...)
			require.NoError(t, err)
			assert.Equal(t, aliceShort.Hex()+" "+alice.Hex(), strings.TrimSpace(out))

			out, err = runGwtool(t, append(db, "mappings", "list")...)
			require.NoError(t, err)
			assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)

			out, err = runGwtool(t, append(db, "mappings", "list", "--hex")...)
			require.NoError(t, err)
			m, err := types.DeserializeAddressMapping(common.FromHex(strings.TrimSpace(out)))
			require.NoError(t, err)
			assert.ElementsMatch(t, items, m.Items)

			// Forged entries are refused.
			forged := filepath.Join(dir, "forged.json")
			data, err = json.Marshal([]types.AddressMappingItem{{EthAddress: alice, ShortAddress: bobShort}})
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(forged, data, 0644))
			_, err = runGwtool(t, append(withRollup(db...), "mappings", "import", forged)...)
			assert.Error(t, err)
		})
	}
}

// nodeStub answers the few Godwoken RPC calls resolve needs: nothing is on
// chain and mapping saves succeed.
func nodeStub(t *testing.T, saved *[]string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage   `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Method == "poly_saveEthAddressGodwokenShortAddressMapping" {
			*saved = append(*saved, string(req.Params[0]))
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": nil})
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestResolveCommand(t *testing.T) {
	var saved []string
	url := nodeStub(t, &saved)

	out, err := runGwtool(t, withRollup("--rpc", url, "resolve", alice.Hex())...)
	require.NoError(t, err)
	short := types.EthAccountShortAddress(&testRollup, alice)
	assert.Equal(t, strings.ToLower(alice.Hex())+" "+short.Hex()+" computed", strings.TrimSpace(out))
	assert.Equal(t, []string{`"` + strings.ToLower(alice.Hex()) + `"`}, saved)

	// Nothing is known about the short address anywhere.
	_, err = runGwtool(t, withRollup("--rpc", url, "resolve", "--reverse", short.Hex())...)
	assert.Error(t, err)
}

func TestUnknownMappingStore(t *testing.T) {
	_, err := runGwtool(t, withRollup("--mapping.store", "cloud", "resolve", alice.Hex())...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cloud")
}
