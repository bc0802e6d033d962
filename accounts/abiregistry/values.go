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

package abiregistry

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var bigT = reflect.TypeOf((*big.Int)(nil))

// normalize widens every integer scalar to *big.Int so callers never deal
// with the machine word the ABI decoder picked for its width.
func normalize(ps []Param, values []interface{}) []interface{} {
	for i, v := range values {
		if i >= len(ps) || ps[i].Kind != KindInt {
			continue
		}
		values[i] = toBig(v)
	}
	return values
}

func toBig(v interface{}) interface{} {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return new(big.Int).SetUint64(rv.Uint())
	}
	return v
}

// denormalize converts integer values back into the Go type the ABI packer
// expects for their declared width.
func denormalize(ps []Param, values []interface{}) ([]interface{}, error) {
	if len(values) != len(ps) {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrValueCount, len(values), len(ps))
	}
	out := make([]interface{}, len(values))
	for i, v := range values {
		if ps[i].Kind != KindInt {
			out[i] = v
			continue
		}
		conv, err := fromBig(ps[i].Type, v)
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i, ps[i].Name, err)
		}
		out[i] = conv
	}
	return out, nil
}

func fromBig(t abi.Type, v interface{}) (interface{}, error) {
	b, ok := v.(*big.Int)
	if !ok {
		// Already a native value; the packer checks it.
		return v, nil
	}
	if err := checkRange(t, b); err != nil {
		return nil, err
	}
	target := t.GetType()
	if target == bigT {
		return b, nil
	}
	rv := reflect.New(target).Elem()
	switch target.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		rv.SetInt(b.Int64())
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		rv.SetUint(b.Uint64())
	default:
		return nil, fmt.Errorf("unsupported integer type %s", t)
	}
	return rv.Interface(), nil
}

func checkRange(t abi.Type, b *big.Int) error {
	var lo, hi *big.Int
	if t.T == abi.UintTy {
		lo = new(big.Int)
		hi = new(big.Int).Sub(new(big.Int).Lsh(common.Big1, uint(t.Size)), common.Big1)
	} else {
		hi = new(big.Int).Sub(new(big.Int).Lsh(common.Big1, uint(t.Size-1)), common.Big1)
		lo = new(big.Int).Neg(new(big.Int).Lsh(common.Big1, uint(t.Size-1)))
	}
	if b.Cmp(lo) < 0 || b.Cmp(hi) > 0 {
		return fmt.Errorf("%w: %v does not fit %s", ErrIntRange, b, t)
	}
	return nil
}

// FormatValue renders a decoded value for display. Addresses are rendered
// in lower-case hex.
func FormatValue(v interface{}) string {
	switch x := v.(type) {
	case common.Address:
		return hexutil.Encode(x[:])
	case []common.Address:
		parts := make([]string, len(x))
		for i := range x {
			parts[i] = hexutil.Encode(x[i][:])
		}
		return "[" + strings.Join(parts, ",") + "]"
	case *big.Int:
		return x.String()
	case []byte:
		return hexutil.Encode(x)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Array {
		if rv.Type().Elem() == reflect.TypeOf(common.Address{}) {
			return FormatValue(AddressList(v))
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return hexutil.Encode(b)
		}
	}
	return fmt.Sprint(v)
}

// AddressList returns the elements of an address slice or fixed-size
// address array, or nil if v is neither.
func AddressList(v interface{}) []common.Address {
	switch x := v.(type) {
	case []common.Address:
		return x
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Array || rv.Type().Elem() != reflect.TypeOf(common.Address{}) {
		return nil
	}
	out := make([]common.Address, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface().(common.Address)
	}
	return out
}

// WithAddresses returns a value of the same shape as v, a slice or array of
// addresses, holding addrs.
func WithAddresses(v interface{}, addrs []common.Address) (interface{}, error) {
	if _, ok := v.([]common.Address); ok {
		return addrs, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Array || rv.Type().Elem() != reflect.TypeOf(common.Address{}) {
		return nil, fmt.Errorf("not an address list: %T", v)
	}
	if rv.Len() != len(addrs) {
		return nil, fmt.Errorf("address array length %d, have %d elements", rv.Len(), len(addrs))
	}
	out := reflect.New(rv.Type()).Elem()
	for i, a := range addrs {
		out.Index(i).Set(reflect.ValueOf(a))
	}
	return out.Interface(), nil
}
