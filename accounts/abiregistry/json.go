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
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

type jsonArgument struct {
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Components []jsonArgument `json:"components,omitempty"`
}

type jsonMethod struct {
	Type            string         `json:"type"`
	Name            string         `json:"name"`
	Inputs          []jsonArgument `json:"inputs"`
	Outputs         []jsonArgument `json:"outputs"`
	StateMutability string         `json:"stateMutability,omitempty"`
}

// JSON renders the method as a single ABI JSON fragment. Transactions carry
// it as metadata next to their address mappings.
func (m *Method) JSON() ([]byte, error) {
	return json.Marshal(jsonMethod{
		Type:            "function",
		Name:            m.method.RawName,
		Inputs:          jsonArguments(m.method.Inputs),
		Outputs:         jsonArguments(m.method.Outputs),
		StateMutability: m.method.StateMutability,
	})
}

func jsonArguments(args abi.Arguments) []jsonArgument {
	out := make([]jsonArgument, len(args))
	for i, arg := range args {
		out[i] = jsonType(arg.Name, &arg.Type)
	}
	return out
}

func jsonType(name string, t *abi.Type) jsonArgument {
	// Tuples and arrays of tuples spell their fields out as components.
	base := t
	for base.T == abi.SliceTy || base.T == abi.ArrayTy {
		base = base.Elem
	}
	if base.T != abi.TupleTy {
		return jsonArgument{Name: name, Type: t.String()}
	}
	arg := jsonArgument{Name: name, Type: "tuple" + strings.TrimPrefix(t.String(), base.String())}
	for i, elem := range base.TupleElems {
		arg.Components = append(arg.Components, jsonType(base.TupleRawNames[i], elem))
	}
	return arg
}
