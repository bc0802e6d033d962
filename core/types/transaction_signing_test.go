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

package types

import (
	"math"
	"math/big"
	"strconv"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSenderHash   = common.HexToHash("0x4444444444444444444444444444444444444444444444444444444444444444")
	testReceiverHash = common.HexToHash("0x5555555555555555555555555555555555555555555555555555555555555555")
)

func TestPolyjuiceArgsLayout(t *testing.T) {
	args := &PolyjuiceArgs{
		Kind:     CallKindCall,
		GasLimit: 0x0102,
		GasPrice: big.NewInt(0x03),
		Value:    big.NewInt(0x04),
		Input:    []byte{0xaa, 0xbb},
	}
	enc, err := args.Encode()
	require.NoError(t, err)

	want := common.FromHex("0xffffff504f4c59" + // magic + tag
		"00" + // call kind
		"0201000000000000" + // gas limit
		"03000000000000000000000000000000" + // gas price
		"04000000000000000000000000000000" + // value
		"02000000" + // input size
		"aabb")
	assert.Equal(t, want, enc)

	dec, err := DecodePolyjuiceArgs(enc)
	require.NoError(t, err)
	assert.Equal(t, args.Kind, dec.Kind)
	assert.Equal(t, args.GasLimit, dec.GasLimit)
	assert.Zero(t, args.GasPrice.Cmp(dec.GasPrice))
	assert.Zero(t, args.Value.Cmp(dec.Value))
	assert.Equal(t, args.Input, dec.Input)
}

func TestPolyjuiceArgsRoundTripThroughTransaction(t *testing.T) {
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	args := &PolyjuiceArgs{Kind: CallKindCreate, GasLimit: ^uint64(0), GasPrice: max, Value: new(big.Int).Lsh(big.NewInt(1), 64)}
	enc, err := args.Encode()
	require.NoError(t, err)

	raw := &RawL2Transaction{FromID: 2, ToID: 3, Nonce: 1, Args: enc}
	decTx, err := DeserializeRawL2Transaction(raw.Serialize())
	require.NoError(t, err)
	dec, err := decTx.PolyjuiceArgs()
	require.NoError(t, err)

	assert.Equal(t, CallKindCreate, dec.Kind)
	assert.Equal(t, ^uint64(0), dec.GasLimit)
	assert.Zero(t, max.Cmp(dec.GasPrice))
	assert.Zero(t, args.Value.Cmp(dec.Value))
	assert.Nil(t, dec.Input)
}

func TestInputLengthBounds(t *testing.T) {
	if strconv.IntSize == 32 {
		t.Skip("int cannot exceed 32 bits")
	}
	limit := uint64(math.MaxUint32)

	size, err := inputLength(int(limit))
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), size)

	_, err = inputLength(int(limit + 1))
	assert.ErrorIs(t, err, ErrArgsInputTooLarge)
}

func TestPutUint128Bounds(t *testing.T) {
	one := big.NewInt(1)
	limit := new(big.Int).Lsh(one, 128)
	max := new(big.Int).Sub(limit, one)

	buf := make([]byte, 16)
	require.NoError(t, PutUint128(buf, max, "value"))
	assert.Equal(t, common.FromHex("0xffffffffffffffffffffffffffffffff"), buf)

	for _, v := range []*big.Int{limit, big.NewInt(-1), new(big.Int).Lsh(one, 200)} {
		err := PutUint128(buf, v, "value")
		var oerr *OverflowError
		require.ErrorAs(t, err, &oerr, "value %v", v)
		assert.Equal(t, 128, oerr.Bits)
		assert.Equal(t, "value", oerr.Field)
	}

	_, err := (&PolyjuiceArgs{GasPrice: limit}).Encode()
	var oerr *OverflowError
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, "gas price", oerr.Field)

	// Low limb first, then high limb.
	require.NoError(t, PutUint128(buf, new(big.Int).Lsh(one, 64), "value"))
	assert.Equal(t, common.FromHex("0x00000000000000000100000000000000"), buf)

	require.NoError(t, PutUint128(buf, nil, "value"))
	assert.Equal(t, make([]byte, 16), buf)
}

func TestDecodePolyjuiceArgsErrors(t *testing.T) {
	enc, err := (&PolyjuiceArgs{Input: []byte{1, 2, 3}}).Encode()
	require.NoError(t, err)

	_, err = DecodePolyjuiceArgs(enc[:10])
	assert.ErrorIs(t, err, ErrArgsTooShort)

	bad := common.CopyBytes(enc)
	bad[3] = 'X'
	_, err = DecodePolyjuiceArgs(bad)
	assert.ErrorIs(t, err, ErrInvalidArgsHeader)

	_, err = DecodePolyjuiceArgs(enc[:len(enc)-1])
	assert.ErrorIs(t, err, ErrArgsInputLength)
}

func TestCallKindFor(t *testing.T) {
	to := common.HexToAddress("0x01")
	zero := common.Address{}
	assert.Equal(t, CallKindCall, CallKindFor(&to))
	assert.Equal(t, CallKindCreate, CallKindFor(&zero))
	assert.Equal(t, CallKindCreate, CallKindFor(nil))
}

func TestSigningMessageModes(t *testing.T) {
	tx := &RawL2Transaction{FromID: 1, ToID: 2, Nonce: 3, Args: []byte{0xde, 0xad}}

	digest := SigningMessage(testRollup.RollupTypeHash, testSenderHash, testReceiverHash, tx, ModeUnprefixed)
	assert.Equal(t, common.HexToHash("0xedd13b840c0235aa5147e1142fe7ebf4ff956d05b57752decd3d70bdcd9fc2a2"), digest)

	prefixed := SigningMessage(testRollup.RollupTypeHash, testSenderHash, testReceiverHash, tx, ModePrefixed)
	want := crypto.Keccak256Hash([]byte("\x19Ethereum Signed Message:\n32"), digest.Bytes())
	assert.Equal(t, want, prefixed)
	assert.NotEqual(t, digest, prefixed)

	// Deterministic for identical inputs.
	assert.Equal(t, prefixed, SigningMessage(testRollup.RollupTypeHash, testSenderHash, testReceiverHash, tx, ModePrefixed))
	assert.Equal(t, prefixed, NewSigner(testRollup, ModePrefixed).Hash(tx, testSenderHash, testReceiverHash))
	assert.Equal(t, digest, NewSigner(testRollup, ModeUnprefixed).Hash(tx, testSenderHash, testReceiverHash))

	// The default signing mode is the prefixed one.
	var s Signer
	assert.Equal(t, ModePrefixed, s.Mode())
}

func TestPackSignature(t *testing.T) {
	sig := make([]byte, 65)
	sig[64] = 28
	packed, err := PackSignature(sig)
	require.NoError(t, err)
	assert.Equal(t, byte(1), packed[64])
	assert.Equal(t, byte(28), sig[64], "input must not be modified")

	sig[64] = 1
	packed, err = PackSignature(sig)
	require.NoError(t, err)
	assert.Equal(t, byte(1), packed[64])

	_, err = PackSignature(sig[:64])
	assert.ErrorIs(t, err, ErrInvalidSig)

	sig[64] = 5
	_, err = PackSignature(sig)
	assert.ErrorIs(t, err, ErrInvalidSig)
}

func TestSignTxRecoversSender(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)

	raw := &RawL2Transaction{FromID: 7, ToID: 8, Nonce: 9, Args: []byte{1}}
	for _, mode := range []SigningMode{ModePrefixed, ModeUnprefixed} {
		signer := NewSigner(testRollup, mode)
		tx, err := SignTx(raw, signer, key, testSenderHash, testReceiverHash)
		require.NoError(t, err)
		require.Len(t, tx.Signature, 65)

		got, err := Sender(signer, tx, testSenderHash, testReceiverHash)
		require.NoError(t, err)
		assert.Equal(t, addr, got, "mode %v", mode)

		// Recovering under the other mode yields a different address.
		other := NewSigner(testRollup, 1-mode)
		wrong, err := Sender(other, tx, testSenderHash, testReceiverHash)
		if err == nil {
			assert.NotEqual(t, addr, wrong)
		}
	}
}

func TestParseSigningMode(t *testing.T) {
	for in, want := range map[string]SigningMode{"": ModePrefixed, "prefixed": ModePrefixed, "unprefixed": ModeUnprefixed} {
		got, err := ParseSigningMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseSigningMode("raw")
	assert.Error(t, err)
}
