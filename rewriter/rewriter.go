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

// Package rewriter translates the addresses embedded in ABI encoded call data
// and return data between the Ethereum and the short address space.
package rewriter

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/polyjuice/go-polyjuice/accounts/abiregistry"
	"github.com/polyjuice/go-polyjuice/addrmap"
	"github.com/polyjuice/go-polyjuice/core/types"
	"golang.org/x/sync/errgroup"
)

// Resolver translates a single address.
type Resolver interface {
	Resolve(ctx context.Context, addr common.Address, dir addrmap.Direction) (*addrmap.Resolution, error)
}

// FieldError reports the address field whose translation aborted a rewrite.
// Element is the position inside an address list, or -1 for scalar fields.
type FieldError struct {
	Index   int
	Element int
	Address common.Address
	Err     error
}

func (e *FieldError) Error() string {
	if e.Element < 0 {
		return fmt.Sprintf("field %d (%s): %v", e.Index, e.Address.Hex(), e.Err)
	}
	return fmt.Sprintf("field %d element %d (%s): %v", e.Index, e.Element, e.Address.Hex(), e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Result is a rewritten payload together with the address mappings that
// were computed while rewriting it. Method is nil when the selector is not
// registered.
type Result struct {
	Data     []byte
	Mappings []types.AddressMappingItem
	Method   *abiregistry.Method
}

// Rewriter rewrites payloads of the methods known to its registry.
type Rewriter struct {
	registry *abiregistry.Registry
	resolver Resolver
}

// New creates a rewriter.
func New(registry *abiregistry.Registry, resolver Resolver) *Rewriter {
	return &Rewriter{registry: registry, resolver: resolver}
}

// Registry returns the method registry of the rewriter.
func (r *Rewriter) Registry() *abiregistry.Registry { return r.registry }

// RewritePayload translates the address inputs of call data. Payloads of
// unknown methods are returned as is. Any failed translation aborts the
// whole rewrite.
func (r *Rewriter) RewritePayload(ctx context.Context, payload []byte, dir addrmap.Direction) (*Result, error) {
	m := r.registry.MethodFor(payload)
	if m == nil || !m.HasAddressInputs() {
		return &Result{Data: payload, Method: m}, nil
	}
	values, err := m.Decode(payload)
	if err != nil {
		return nil, err
	}
	mappings, err := r.rewrite(ctx, m.Inputs, values, dir)
	if err != nil {
		return nil, err
	}
	data, err := m.Encode(values)
	if err != nil {
		return nil, err
	}
	log.Trace("Rewrote call data", "method", m.Sig, "dir", dir, "mappings", len(mappings))
	return &Result{Data: data, Mappings: mappings, Method: m}, nil
}

// RewriteReturn translates the address outputs in the return data of the
// method selected by callData.
func (r *Rewriter) RewriteReturn(ctx context.Context, callData, ret []byte, dir addrmap.Direction) (*Result, error) {
	m := r.registry.MethodFor(callData)
	if m == nil || !m.HasAddressOutputs() {
		return &Result{Data: ret, Method: m}, nil
	}
	values, err := m.DecodeOutputs(ret)
	if err != nil {
		return nil, err
	}
	mappings, err := r.rewrite(ctx, m.Outputs, values, dir)
	if err != nil {
		return nil, err
	}
	data, err := m.EncodeOutputs(values)
	if err != nil {
		return nil, err
	}
	log.Trace("Rewrote return data", "method", m.Sig, "dir", dir, "mappings", len(mappings))
	return &Result{Data: data, Mappings: mappings, Method: m}, nil
}

// rewrite replaces the address values in place. Scalars are resolved in
// field order, list elements concurrently.
func (r *Rewriter) rewrite(ctx context.Context, params []abiregistry.Param, values []interface{}, dir addrmap.Direction) ([]types.AddressMappingItem, error) {
	var c collector
	for i, p := range params {
		switch p.Kind {
		case abiregistry.KindAddress:
			addr, ok := values[i].(common.Address)
			if !ok {
				return nil, &FieldError{Index: i, Element: -1, Err: fmt.Errorf("unexpected value type %T", values[i])}
			}
			if addr == (common.Address{}) {
				continue
			}
			res, err := r.resolver.Resolve(ctx, addr, dir)
			if err != nil {
				return nil, &FieldError{Index: i, Element: -1, Address: addr, Err: err}
			}
			values[i] = res.Address
			c.add(res)

		case abiregistry.KindAddressList:
			addrs := abiregistry.AddressList(values[i])
			out, results, err := r.resolveList(ctx, i, addrs, dir)
			if err != nil {
				return nil, err
			}
			if values[i], err = abiregistry.WithAddresses(values[i], out); err != nil {
				return nil, &FieldError{Index: i, Element: -1, Err: err}
			}
			for _, res := range results {
				c.add(res)
			}
		}
	}
	return c.items, nil
}

// resolveList resolves every non-zero element of an address list in its own
// goroutine and waits for all of them. The failure with the lowest element
// index is reported.
func (r *Rewriter) resolveList(ctx context.Context, index int, addrs []common.Address, dir addrmap.Direction) ([]common.Address, []*addrmap.Resolution, error) {
	var (
		g       errgroup.Group
		out     = make([]common.Address, len(addrs))
		results = make([]*addrmap.Resolution, len(addrs))
		errs    = make([]error, len(addrs))
	)
	for j, addr := range addrs {
		if addr == (common.Address{}) {
			out[j] = addr
			continue
		}
		g.Go(func() error {
			res, err := r.resolver.Resolve(ctx, addr, dir)
			if err != nil {
				errs[j] = err
				return err
			}
			out[j], results[j] = res.Address, res
			return nil
		})
	}
	if g.Wait() != nil {
		for j, err := range errs {
			if err != nil {
				return nil, nil, &FieldError{Index: index, Element: j, Address: addrs[j], Err: err}
			}
		}
	}
	return out, results, nil
}

// collector gathers mapping items, one per Ethereum address, in the order
// they were first produced.
type collector struct {
	seen  map[common.Address]struct{}
	items []types.AddressMappingItem
}

func (c *collector) add(res *addrmap.Resolution) {
	if res == nil {
		return
	}
	item, ok := res.MappingItem()
	if !ok {
		return
	}
	if c.seen == nil {
		c.seen = make(map[common.Address]struct{})
	}
	if _, dup := c.seen[item.EthAddress]; dup {
		return
	}
	c.seen[item.EthAddress] = struct{}{}
	c.items = append(c.items, item)
}
