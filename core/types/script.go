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
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/polyjuice/go-polyjuice/crypto/ckbhash"
	"github.com/polyjuice/go-polyjuice/molecule"
	"github.com/polyjuice/go-polyjuice/params"
)

// ScriptHashType tells how a script's code hash is matched against code.
type ScriptHashType byte

const (
	HashTypeData  ScriptHashType = 0
	HashTypeType  ScriptHashType = 1
	HashTypeData1 ScriptHashType = 2
)

func (t ScriptHashType) String() string {
	switch t {
	case HashTypeData:
		return "data"
	case HashTypeType:
		return "type"
	case HashTypeData1:
		return "data1"
	default:
		return fmt.Sprintf("unknown(%d)", byte(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t ScriptHashType) MarshalText() ([]byte, error) {
	switch t {
	case HashTypeData, HashTypeType, HashTypeData1:
		return []byte(t.String()), nil
	}
	return nil, fmt.Errorf("invalid script hash type %d", byte(t))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ScriptHashType) UnmarshalText(input []byte) error {
	switch string(input) {
	case "data":
		*t = HashTypeData
	case "type":
		*t = HashTypeType
	case "data1":
		*t = HashTypeData1
	default:
		return fmt.Errorf("invalid script hash type %q", input)
	}
	return nil
}

// ethAccountLockArgsLength is the length of an eth-account lock's arguments:
// the rollup type hash followed by the Ethereum address.
const ethAccountLockArgsLength = common.HashLength + common.AddressLength

var scriptSchema = molecule.TableOf(molecule.Byte32, molecule.Byte, molecule.Bytes)

// Script is a chain-native account descriptor. The hash of its serialized
// form identifies the account.
type Script struct {
	CodeHash common.Hash    `json:"code_hash"`
	HashType ScriptHashType `json:"hash_type"`
	Args     hexutil.Bytes  `json:"args"`
}

// VerifyScript checks that data is a well-formed serialized script.
func VerifyScript(data []byte, compatible bool) error {
	return scriptSchema(data, compatible)
}

// Serialize encodes the script into its offset-table form.
func (s *Script) Serialize() []byte {
	return molecule.PackTable(
		s.CodeHash.Bytes(),
		[]byte{byte(s.HashType)},
		molecule.PackBytes(s.Args),
	)
}

// DeserializeScript decodes a serialized script.
func DeserializeScript(data []byte) (*Script, error) {
	t, err := decodeTable(data, scriptSchema, 3)
	if err != nil {
		return nil, err
	}
	return &Script{
		CodeHash: hashField(t, 0),
		HashType: ScriptHashType(field(t, 1)[0]),
		Args:     bytesField(t, 2),
	}, nil
}

// Hash returns the script hash.
func (s *Script) Hash() common.Hash {
	return ckbhash.Sum(s.Serialize())
}

// ShortAddress returns the leading 20 bytes of the script hash.
func (s *Script) ShortAddress() ShortAddress {
	return ScriptHashToShortAddress(s.Hash())
}

// ScriptHashToShortAddress truncates a script hash to a short address.
func ScriptHashToShortAddress(h common.Hash) ShortAddress {
	var a ShortAddress
	copy(a[:], h[:ShortAddressLength])
	return a
}

// EthAccountLock returns the lock script binding addr to a layer-2 account
// on the rollup described by cfg.
func EthAccountLock(cfg *params.RollupConfig, addr common.Address) *Script {
	args := make([]byte, 0, ethAccountLockArgsLength)
	args = append(args, cfg.RollupTypeHash.Bytes()...)
	args = append(args, addr.Bytes()...)
	return &Script{
		CodeHash: cfg.EthAccountLockCodeHash,
		HashType: HashTypeType,
		Args:     args,
	}
}

// EthAccountShortAddress derives the short address of an externally owned
// account from its Ethereum address.
func EthAccountShortAddress(cfg *params.RollupConfig, addr common.Address) ShortAddress {
	return EthAccountLock(cfg, addr).ShortAddress()
}

// IsEthAccountLock reports whether the script is an eth-account lock of the
// rollup described by cfg.
func (s *Script) IsEthAccountLock(cfg *params.RollupConfig) bool {
	return s.CodeHash == cfg.EthAccountLockCodeHash && s.HashType == HashTypeType
}

// EthAddress extracts the Ethereum address embedded in an eth-account lock.
// It fails if the script is not such a lock or its arguments are malformed.
func (s *Script) EthAddress(cfg *params.RollupConfig) (common.Address, error) {
	if !s.IsEthAccountLock(cfg) {
		return common.Address{}, ErrNotEthAccountLock
	}
	if len(s.Args) != ethAccountLockArgsLength {
		return common.Address{}, &molecule.LengthError{Want: ethAccountLockArgsLength, Have: len(s.Args)}
	}
	if !bytes.Equal(s.Args[:common.HashLength], cfg.RollupTypeHash.Bytes()) {
		return common.Address{}, ErrForeignRollup
	}
	return common.BytesToAddress(s.Args[common.HashLength:]), nil
}
