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

// Package addrmap translates account addresses between the Ethereum address
// space used by callers and the short address space used inside the rollup.
//
// Translation to the short form first assumes the address already names an
// on-chain account (usually a contract), then falls back to deriving the
// short address of an externally owned account and recording the pairing in
// a mapping store. Translation back consults the chain first and the mapping
// store last; an entry read from the store is always re-derived and checked
// before it is returned.
package addrmap

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	polyjuice "github.com/polyjuice/go-polyjuice"
	"github.com/polyjuice/go-polyjuice/core/types"
	"github.com/polyjuice/go-polyjuice/params"
)

// Direction selects which address space an address is translated into.
type Direction uint8

const (
	// ToInternal translates Ethereum addresses into short addresses.
	ToInternal Direction = iota

	// ToExternal translates short addresses into Ethereum addresses.
	ToExternal
)

func (d Direction) String() string {
	switch d {
	case ToInternal:
		return "to-internal"
	case ToExternal:
		return "to-external"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// Outcome tells how a Resolution was obtained.
type Outcome uint8

const (
	// OutcomeUnchanged means the address is valid in both spaces: the zero
	// address, or an account that is not an externally owned account.
	OutcomeUnchanged Outcome = iota

	// OutcomeComputed means the short address of an externally owned account
	// was derived locally because the account is not on chain yet.
	OutcomeComputed

	// OutcomeFromChain means the Ethereum address was read from the account's
	// on-chain lock script.
	OutcomeFromChain

	// OutcomeFromStore means the Ethereum address came from the mapping store
	// and passed re-derivation.
	OutcomeFromStore
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeComputed:
		return "computed"
	case OutcomeFromChain:
		return "chain"
	case OutcomeFromStore:
		return "store"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

// Resolution is the result of translating one address.
type Resolution struct {
	Input   common.Address
	Address common.Address
	Outcome Outcome
}

// MappingItem returns the pairing produced by a locally computed short
// address. The second result is false for every other outcome.
func (r *Resolution) MappingItem() (types.AddressMappingItem, bool) {
	if r.Outcome != OutcomeComputed {
		return types.AddressMappingItem{}, false
	}
	return types.AddressMappingItem{
		EthAddress:   r.Input,
		ShortAddress: types.ShortAddress(r.Address),
	}, true
}

// tier is the result of one on-chain lookup step.
type tier uint8

const (
	tierResolved tier = iota
	tierNeedsComputation
	tierNotFound
)

// Resolver translates addresses for one rollup. It holds no mutable state
// and is safe for concurrent use as long as its collaborators are.
type Resolver struct {
	config *params.RollupConfig
	chain  polyjuice.ChainReader
	store  polyjuice.AddressMappingStore
}

// New creates a resolver. A nil store is replaced by NoopStore.
func New(config *params.RollupConfig, chain polyjuice.ChainReader, store polyjuice.AddressMappingStore) *Resolver {
	if store == nil {
		store = NoopStore{}
	}
	return &Resolver{config: config, chain: chain, store: store}
}

// Resolve translates addr in the given direction.
func (r *Resolver) Resolve(ctx context.Context, addr common.Address, dir Direction) (*Resolution, error) {
	switch dir {
	case ToInternal:
		return r.ToShort(ctx, addr)
	case ToExternal:
		return r.ToEth(ctx, types.ShortAddress(addr))
	default:
		return nil, fmt.Errorf("invalid direction %d", dir)
	}
}

// ToShort translates an Ethereum address into a short address.
func (r *Resolver) ToShort(ctx context.Context, eth common.Address) (*Resolution, error) {
	if eth == (common.Address{}) {
		return r.done(eth, eth, OutcomeUnchanged, ToInternal), nil
	}
	_, err := r.chain.GetScriptHashByShortAddress(ctx, types.ShortAddress(eth))
	t, err := classify(err, tierNeedsComputation)
	if err != nil {
		return nil, r.fail(eth, ToInternal, err)
	}
	switch t {
	case tierResolved:
		return r.done(eth, eth, OutcomeUnchanged, ToInternal), nil

	case tierNeedsComputation:
		short := types.EthAccountShortAddress(r.config, eth)
		if err := r.store.SaveAddressMapping(ctx, eth, short); err != nil {
			return nil, r.fail(eth, ToInternal, err)
		}
		return r.done(eth, short.Address(), OutcomeComputed, ToInternal), nil
	}
	return nil, r.fail(eth, ToInternal, fmt.Errorf("unexpected lookup tier %d", t))
}

// ToEth translates a short address into an Ethereum address.
func (r *Resolver) ToEth(ctx context.Context, short types.ShortAddress) (*Resolution, error) {
	in := short.Address()
	if in == (common.Address{}) {
		return r.done(in, in, OutcomeUnchanged, ToExternal), nil
	}
	hash, err := r.chain.GetScriptHashByShortAddress(ctx, short)
	t, err := classify(err, tierNotFound)
	if err != nil {
		return nil, r.fail(in, ToExternal, err)
	}
	switch t {
	case tierResolved:
		script, err := r.chain.GetScript(ctx, hash)
		if err != nil {
			return nil, r.fail(in, ToExternal, err)
		}
		eth, err := script.EthAddress(r.config)
		switch {
		case errors.Is(err, types.ErrNotEthAccountLock), errors.Is(err, types.ErrForeignRollup):
			log.Trace("Short address is not an eth account", "short", short, "script", hash, "reason", err)
			return r.done(in, in, OutcomeUnchanged, ToExternal), nil
		case err != nil:
			return nil, r.fail(in, ToExternal, err)
		}
		return r.done(in, eth, OutcomeFromChain, ToExternal), nil

	case tierNotFound:
		eth, err := r.store.AddressByShortAddress(ctx, short)
		if err != nil {
			return nil, r.fail(in, ToExternal, err)
		}
		if derived := types.EthAccountShortAddress(r.config, eth); derived != short {
			inconsistentCounter.Inc(1)
			log.Warn("Mapping store returned inconsistent entry", "short", short, "eth", eth, "derived", derived)
			return nil, &ConsistencyError{Short: short, Eth: eth, Derived: derived}
		}
		return r.done(in, eth, OutcomeFromStore, ToExternal), nil
	}
	return nil, r.fail(in, ToExternal, fmt.Errorf("unexpected lookup tier %d", t))
}

// classify maps the error of an on-chain lookup to a tier. A NotFound error
// selects onMissing; other errors are returned as is.
func classify(err error, onMissing tier) (tier, error) {
	switch {
	case err == nil:
		return tierResolved, nil
	case errors.Is(err, polyjuice.NotFound):
		return onMissing, nil
	default:
		return 0, err
	}
}

func (r *Resolver) done(in, out common.Address, outcome Outcome, dir Direction) *Resolution {
	markOutcome(outcome)
	log.Debug("Resolved address", "dir", dir, "input", in, "output", out, "outcome", outcome)
	return &Resolution{Input: in, Address: out, Outcome: outcome}
}

func (r *Resolver) fail(addr common.Address, dir Direction, err error) error {
	failureCounter.Inc(1)
	log.Debug("Failed to resolve address", "dir", dir, "input", addr, "err", err)
	return &ResolutionError{Address: addr, Direction: dir, Err: err}
}
