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

// Package abiregistry indexes contract ABIs by method id and keeps only the
// methods whose inputs or outputs carry addresses. It decodes and re-encodes
// the call data and return data of those methods.
package abiregistry

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
)

// MethodIDLength is the size of the method id prefixing call data.
const MethodIDLength = 4

var (
	// ErrConflictingMethod is returned when two ABIs declare the same method
	// id with different argument types.
	ErrConflictingMethod = errors.New("conflicting method id")

	// ErrShortPayload is returned when call data is too short to carry a
	// method id.
	ErrShortPayload = errors.New("payload shorter than method id")

	// ErrMethodMismatch is returned when call data does not start with the id
	// of the method used to decode it.
	ErrMethodMismatch = errors.New("payload does not match method id")

	// ErrValueCount is returned when the number of values to encode differs
	// from the number of arguments.
	ErrValueCount = errors.New("wrong number of values")

	// ErrIntRange is returned when an integer does not fit its ABI type.
	ErrIntRange = errors.New("integer out of range")
)

// Param is one input or output of a method.
type Param struct {
	Name string
	Kind Kind
	Type abi.Type
}

// Method describes an address-bearing contract method.
type Method struct {
	Name    string
	Sig     string
	ID      [MethodIDLength]byte
	Inputs  []Param
	Outputs []Param

	method abi.Method
}

func newMethod(m abi.Method) *Method {
	out := &Method{Name: m.Name, Sig: m.Sig, method: m}
	copy(out.ID[:], m.ID)
	out.Inputs = params(m.Inputs)
	out.Outputs = params(m.Outputs)
	return out
}

func params(args abi.Arguments) []Param {
	if len(args) == 0 {
		return nil
	}
	out := make([]Param, len(args))
	for i, arg := range args {
		out[i] = Param{Name: arg.Name, Kind: kindOf(arg.Type), Type: arg.Type}
	}
	return out
}

// HasAddressInputs reports whether any input carries addresses.
func (m *Method) HasAddressInputs() bool { return hasAddress(m.Inputs) }

// HasAddressOutputs reports whether any output carries addresses.
func (m *Method) HasAddressOutputs() bool { return hasAddress(m.Outputs) }

func hasAddress(ps []Param) bool {
	for _, p := range ps {
		if p.Kind.IsAddress() {
			return true
		}
	}
	return false
}

// String returns the canonical signature with the method id.
func (m *Method) String() string {
	return fmt.Sprintf("%s %s", hexutil.Encode(m.ID[:]), m.Sig)
}

// sameShape reports whether two declarations of one method id agree on all
// input and output types.
func sameShape(a, b *Method) bool {
	return a.Sig == b.Sig && typeList(a.Outputs) == typeList(b.Outputs)
}

func typeList(ps []Param) string {
	var buf bytes.Buffer
	for i, p := range ps {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(p.Type.String())
	}
	return buf.String()
}

// Registry maps method ids to address-bearing methods. It is immutable once
// built and safe for concurrent use.
type Registry struct {
	methods map[[MethodIDLength]byte]*Method
}

// New builds a registry from a set of ABIs. A method id declared more than
// once is kept once if every declaration has the same types, and rejected
// with ErrConflictingMethod otherwise.
func New(abis ...abi.ABI) (*Registry, error) {
	r := &Registry{methods: make(map[[MethodIDLength]byte]*Method)}
	for _, a := range abis {
		// Walk methods in a stable order so errors are deterministic.
		names := make([]string, 0, len(a.Methods))
		for name := range a.Methods {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			m := newMethod(a.Methods[name])
			if !m.HasAddressInputs() && !m.HasAddressOutputs() {
				if hasNestedAddress(m.Inputs) || hasNestedAddress(m.Outputs) {
					log.Trace("Skipping method with nested addresses only", "id", hexutil.Encode(m.ID[:]), "sig", m.Sig)
				}
				continue
			}
			if prev, ok := r.methods[m.ID]; ok {
				if !sameShape(prev, m) {
					return nil, fmt.Errorf("%w %s: %s vs %s", ErrConflictingMethod, hexutil.Encode(m.ID[:]), prev.Sig, m.Sig)
				}
				log.Trace("Skipping duplicate method", "id", hexutil.Encode(m.ID[:]), "sig", m.Sig)
				continue
			}
			r.methods[m.ID] = m
		}
	}
	log.Debug("Built ABI registry", "methods", len(r.methods))
	return r, nil
}

// FromJSON parses each reader as a JSON ABI and builds a registry of them.
func FromJSON(readers ...io.Reader) (*Registry, error) {
	abis := make([]abi.ABI, 0, len(readers))
	for i, rd := range readers {
		a, err := abi.JSON(rd)
		if err != nil {
			return nil, fmt.Errorf("abi %d: %w", i, err)
		}
		abis = append(abis, a)
	}
	return New(abis...)
}

// Len returns the number of indexed methods.
func (r *Registry) Len() int { return len(r.methods) }

// Methods returns the indexed methods ordered by signature.
func (r *Registry) Methods() []*Method {
	out := make([]*Method, 0, len(r.methods))
	for _, m := range r.methods {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sig < out[j].Sig })
	return out
}

// MethodFor returns the method selected by the call data, or nil if the
// selector is unknown or the payload is too short to carry one.
func (r *Registry) MethodFor(payload []byte) *Method {
	if r == nil || len(payload) < MethodIDLength {
		return nil
	}
	var id [MethodIDLength]byte
	copy(id[:], payload)
	return r.methods[id]
}

// Decode splits call data into its input values. Integers are returned as
// *big.Int and addresses as common.Address.
func (m *Method) Decode(payload []byte) ([]interface{}, error) {
	if len(payload) < MethodIDLength {
		return nil, ErrShortPayload
	}
	if !bytes.Equal(payload[:MethodIDLength], m.ID[:]) {
		return nil, fmt.Errorf("%w: have %x, want %x", ErrMethodMismatch, payload[:MethodIDLength], m.ID)
	}
	values, err := m.method.Inputs.Unpack(payload[MethodIDLength:])
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", m.Name, err)
	}
	return normalize(m.Inputs, values), nil
}

// Encode packs input values into call data, method id included.
func (m *Method) Encode(values []interface{}) ([]byte, error) {
	args, err := denormalize(m.Inputs, values)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", m.Name, err)
	}
	enc, err := m.method.Inputs.Pack(args...)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", m.Name, err)
	}
	return append(append(make([]byte, 0, MethodIDLength+len(enc)), m.ID[:]...), enc...), nil
}

// DecodeOutputs splits return data into its output values.
func (m *Method) DecodeOutputs(data []byte) ([]interface{}, error) {
	values, err := m.method.Outputs.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s outputs: %w", m.Name, err)
	}
	return normalize(m.Outputs, values), nil
}

// EncodeOutputs packs output values into return data.
func (m *Method) EncodeOutputs(values []interface{}) ([]byte, error) {
	args, err := denormalize(m.Outputs, values)
	if err != nil {
		return nil, fmt.Errorf("encode %s outputs: %w", m.Name, err)
	}
	enc, err := m.method.Outputs.Pack(args...)
	if err != nil {
		return nil, fmt.Errorf("encode %s outputs: %w", m.Name, err)
	}
	return enc, nil
}
