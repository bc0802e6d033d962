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

// Package provider assembles Polyjuice transactions from Ethereum style call
// messages. It rewrites the call data into the short address space, looks up
// the accounts involved, encodes the polyjuice arguments and builds the
// message to sign.
package provider

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	polyjuice "github.com/polyjuice/go-polyjuice"
	"github.com/polyjuice/go-polyjuice/accounts/abiregistry"
	"github.com/polyjuice/go-polyjuice/addrmap"
	"github.com/polyjuice/go-polyjuice/core/types"
	"github.com/polyjuice/go-polyjuice/params"
	"github.com/polyjuice/go-polyjuice/rewriter"
)

// DefaultCallGas is the gas limit used by Call when the message sets none.
const DefaultCallGas = 50_000_000

var (
	errUnknownSender   = errors.New("sender account not found on chain")
	errUnknownReceiver = errors.New("receiver account not found on chain")
)

// Backend is the chain access a provider needs.
type Backend interface {
	polyjuice.ChainReader
	polyjuice.AccountReader
	polyjuice.TransactionExecutor
}

// PreparedTx is an unsigned transaction together with everything needed to
// sign it and to publish the address mappings it relies on.
type PreparedTx struct {
	Raw              *types.RawL2Transaction
	SenderScriptHash common.Hash
	ReceiverScript   common.Hash
	Mappings         []types.AddressMappingItem
	Method           *abiregistry.Method
}

// Provider builds, signs and submits transactions for one rollup.
type Provider struct {
	config   *params.RollupConfig
	backend  Backend
	resolver *addrmap.Resolver
	rewriter *rewriter.Rewriter
	signer   types.Signer
}

// New creates a provider. When store is nil and the backend can record
// address mappings itself, the backend is used as the mapping store. A nil
// registry disables payload rewriting.
func New(config *params.RollupConfig, backend Backend, registry *abiregistry.Registry, store polyjuice.AddressMappingStore, mode types.SigningMode) *Provider {
	if store == nil {
		if s, ok := backend.(polyjuice.AddressMappingStore); ok {
			store = s
		}
	}
	resolver := addrmap.New(config, backend, store)
	return &Provider{
		config:   config,
		backend:  backend,
		resolver: resolver,
		rewriter: rewriter.New(registry, resolver),
		signer:   types.NewSigner(config, mode),
	}
}

// Resolver returns the address resolver of the provider.
func (p *Provider) Resolver() *addrmap.Resolver { return p.resolver }

// Rewriter returns the payload rewriter of the provider.
func (p *Provider) Rewriter() *rewriter.Rewriter { return p.rewriter }

// Signer returns the signer used for signing messages.
func (p *Provider) Signer() types.Signer { return p.signer }

// BuildRawTransaction converts msg into an unsigned transaction.
func (p *Provider) BuildRawTransaction(ctx context.Context, msg polyjuice.CallMsg) (*PreparedTx, error) {
	res, err := p.rewriter.RewritePayload(ctx, msg.Data, addrmap.ToInternal)
	if err != nil {
		return nil, fmt.Errorf("rewrite call data: %w", err)
	}
	mappings := res.Mappings

	sender := types.EthAccountLock(p.config, msg.From).Hash()
	fromID, err := p.backend.GetAccountIDByScriptHash(ctx, sender)
	if err != nil {
		if errors.Is(err, polyjuice.NotFound) {
			return nil, fmt.Errorf("%w: %s", errUnknownSender, msg.From.Hex())
		}
		return nil, err
	}

	kind := types.CallKindFor(msg.To)
	var (
		toID     uint32
		receiver common.Hash
	)
	switch kind {
	case types.CallKindCreate:
		toID = p.config.CreatorAccountID
		if receiver, err = p.backend.GetScriptHash(ctx, toID); err != nil {
			return nil, fmt.Errorf("creator account %d: %w", toID, err)
		}
	default:
		to, err := p.resolver.ToShort(ctx, *msg.To)
		if err != nil {
			return nil, err
		}
		if item, ok := to.MappingItem(); ok {
			mappings = appendMapping(mappings, item)
		}
		if receiver, err = p.backend.GetScriptHashByShortAddress(ctx, types.ShortAddress(to.Address)); err != nil {
			if errors.Is(err, polyjuice.NotFound) {
				return nil, fmt.Errorf("%w: %s", errUnknownReceiver, msg.To.Hex())
			}
			return nil, err
		}
		if toID, err = p.backend.GetAccountIDByScriptHash(ctx, receiver); err != nil {
			return nil, err
		}
	}

	nonce, err := p.backend.GetNonce(ctx, fromID)
	if err != nil {
		return nil, err
	}
	args, err := (&types.PolyjuiceArgs{
		Kind:     kind,
		GasLimit: msg.Gas,
		GasPrice: msg.GasPrice,
		Value:    msg.Value,
		Input:    res.Data,
	}).Encode()
	if err != nil {
		return nil, err
	}
	raw := &types.RawL2Transaction{FromID: fromID, ToID: toID, Nonce: nonce, Args: args}
	log.Debug("Built transaction", "from", fromID, "to", toID, "nonce", nonce, "kind", kind, "mappings", len(mappings))

	return &PreparedTx{
		Raw:              raw,
		SenderScriptHash: sender,
		ReceiverScript:   receiver,
		Mappings:         mappings,
		Method:           res.Method,
	}, nil
}

func appendMapping(items []types.AddressMappingItem, item types.AddressMappingItem) []types.AddressMappingItem {
	for _, have := range items {
		if have.EthAddress == item.EthAddress {
			return items
		}
	}
	return append(items, item)
}

// SigningMessage returns the message the sender has to sign.
func (p *Provider) SigningMessage(ptx *PreparedTx) common.Hash {
	return p.signer.Hash(ptx.Raw, ptx.SenderScriptHash, ptx.ReceiverScript)
}

// SignTransaction signs a prepared transaction with key.
func (p *Provider) SignTransaction(ptx *PreparedTx, key *ecdsa.PrivateKey) (*types.L2Transaction, error) {
	return types.SignTx(ptx.Raw, p.signer, key, ptx.SenderScriptHash, ptx.ReceiverScript)
}

// SendTransaction submits a signed transaction.
func (p *Provider) SendTransaction(ctx context.Context, tx *types.L2Transaction) (common.Hash, error) {
	hash, err := p.backend.SubmitL2Transaction(ctx, tx)
	if err != nil {
		return common.Hash{}, err
	}
	log.Info("Submitted transaction", "hash", hash, "from", tx.Raw.FromID, "to", tx.Raw.ToID, "nonce", tx.Raw.Nonce)
	return hash, nil
}

// Call executes msg without committing it and returns its return data with
// addresses translated back into Ethereum form.
func (p *Provider) Call(ctx context.Context, msg polyjuice.CallMsg) ([]byte, error) {
	if msg.Gas == 0 {
		msg.Gas = DefaultCallGas
	}
	ptx, err := p.BuildRawTransaction(ctx, msg)
	if err != nil {
		return nil, err
	}
	ret, err := p.backend.ExecuteRawL2Transaction(ctx, ptx.Raw)
	if err != nil {
		return nil, err
	}
	res, err := p.rewriter.RewriteReturn(ctx, msg.Data, ret, addrmap.ToExternal)
	if err != nil {
		return nil, fmt.Errorf("rewrite return data: %w", err)
	}
	return res.Data, nil
}

// extra returns the metadata attached to transactions with mappings: the
// ABI fragment of the rewritten method, if any.
func (ptx *PreparedTx) extra() ([]byte, error) {
	if ptx.Method == nil {
		return nil, nil
	}
	return ptx.Method.JSON()
}

// WithAddressMapping attaches the mappings of ptx to its raw transaction.
func (ptx *PreparedTx) WithAddressMapping() (*types.RawL2TransactionWithAddressMapping, error) {
	extra, err := ptx.extra()
	if err != nil {
		return nil, err
	}
	return &types.RawL2TransactionWithAddressMapping{
		RawTx:     *ptx.Raw,
		Addresses: types.AddressMapping{Items: ptx.Mappings},
		Extra:     extra,
	}, nil
}

// SignedWithAddressMapping attaches the mappings of ptx to its signed form.
func (ptx *PreparedTx) SignedWithAddressMapping(tx *types.L2Transaction) (*types.L2TransactionWithAddressMapping, error) {
	extra, err := ptx.extra()
	if err != nil {
		return nil, err
	}
	return &types.L2TransactionWithAddressMapping{
		Tx:        *tx,
		Addresses: types.AddressMapping{Items: ptx.Mappings},
		Extra:     extra,
	}, nil
}
