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
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/polyjuice/go-polyjuice/cmd/utils"
	"github.com/polyjuice/go-polyjuice/core/types"
	"github.com/polyjuice/go-polyjuice/internal/flags"
	"github.com/urfave/cli/v2"
)

var (
	shortAddressCommand = &cli.Command{
		Action:    shortAddress,
		Name:      "short-address",
		Usage:     "Derive the short address of Ethereum accounts",
		ArgsUsage: "<address> [<address>...]",
		Description: `
Computes the short address of the eth-account lock of every given address
without contacting the node. Contract addresses are already short addresses
and must not be passed here.`,
	}
	encodeArgsCommand = &cli.Command{
		Action:    encodeArgs,
		Name:      "encode-args",
		Usage:     "Encode polyjuice call arguments",
		ArgsUsage: "<input hex>",
		Flags:     []cli.Flag{utils.ToFlag, utils.GasFlag, utils.GasPriceFlag, utils.ValueFlag},
		Description: `
Encodes the args field of a polyjuice transaction. Without --to the call
kind is contract creation.`,
	}
	decodeTxCommand = &cli.Command{
		Action:    decodeTx,
		Name:      "decode-tx",
		Usage:     "Decode a serialized layer-2 transaction",
		ArgsUsage: "<hex>",
		Description: `
Accepts raw and signed transactions, with or without address mappings, and
prints them as JSON.`,
	}
	signingMessageCommand = &cli.Command{
		Action:    signingMessage,
		Name:      "signing-message",
		Usage:     "Compute the message to sign for a raw transaction",
		ArgsUsage: "<raw tx hex>",
		Flags:     []cli.Flag{utils.SenderHashFlag, utils.ReceiverHashFlag},
	}
)

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func hexArg(ctx *cli.Context) ([]byte, error) {
	if ctx.NArg() != 1 {
		return nil, errors.New("expected exactly one hex argument")
	}
	b, err := hexutil.Decode(ctx.Args().First())
	if err != nil {
		return nil, fmt.Errorf("invalid hex argument: %v", err)
	}
	return b, nil
}

func shortAddress(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("no address given")
	}
	cfg, err := loadBaseConfig(ctx)
	if err != nil {
		return err
	}
	if err := cfg.Rollup.Validate(); err != nil {
		return err
	}
	for _, arg := range ctx.Args().Slice() {
		addr, err := parseAddress(arg)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "%s %s\n", addr.Hex(), types.EthAccountShortAddress(&cfg.Rollup, addr).Hex())
	}
	return nil
}

func encodeArgs(ctx *cli.Context) error {
	input, err := hexArg(ctx)
	if err != nil {
		return err
	}
	var to *common.Address
	if s := ctx.String(utils.ToFlag.Name); s != "" {
		addr, err := parseAddress(s)
		if err != nil {
			return err
		}
		to = &addr
	}
	args := &types.PolyjuiceArgs{
		Kind:     types.CallKindFor(to),
		GasLimit: ctx.Uint64(utils.GasFlag.Name),
		GasPrice: flags.GlobalBig(ctx, utils.GasPriceFlag.Name),
		Value:    flags.GlobalBig(ctx, utils.ValueFlag.Name),
		Input:    input,
	}
	enc, err := args.Encode()
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, hexutil.Encode(enc))
	return nil
}

type argsJSON struct {
	Kind     string        `json:"kind"`
	GasLimit uint64        `json:"gasLimit"`
	GasPrice *hexutil.Big  `json:"gasPrice"`
	Value    *hexutil.Big  `json:"value"`
	Input    hexutil.Bytes `json:"input"`
}

type rawTxJSON struct {
	Hash   common.Hash   `json:"hash"`
	FromID uint32        `json:"fromId"`
	ToID   uint32        `json:"toId"`
	Nonce  uint32        `json:"nonce"`
	Args   hexutil.Bytes `json:"args"`
	Call   *argsJSON     `json:"polyjuice,omitempty"`
}

type txJSON struct {
	Type      string                     `json:"type"`
	Raw       rawTxJSON                  `json:"raw"`
	Hash      *common.Hash               `json:"txHash,omitempty"`
	Signature hexutil.Bytes              `json:"signature,omitempty"`
	Addresses []types.AddressMappingItem `json:"addresses,omitempty"`
	Extra     json.RawMessage            `json:"extra,omitempty"`
}

func newRawTxJSON(tx *types.RawL2Transaction) rawTxJSON {
	out := rawTxJSON{Hash: tx.Hash(), FromID: tx.FromID, ToID: tx.ToID, Nonce: tx.Nonce, Args: tx.Args}
	if args, err := tx.PolyjuiceArgs(); err == nil {
		out.Call = &argsJSON{
			Kind:     args.Kind.String(),
			GasLimit: args.GasLimit,
			GasPrice: (*hexutil.Big)(args.GasPrice),
			Value:    (*hexutil.Big)(args.Value),
			Input:    args.Input,
		}
	}
	return out
}

func extraJSON(extra []byte) json.RawMessage {
	if len(extra) == 0 {
		return nil
	}
	if json.Valid(extra) {
		return extra
	}
	enc, _ := json.Marshal(hexutil.Bytes(extra))
	return enc
}

// describeTx decodes data as any of the transaction records.
func describeTx(data []byte) (*txJSON, error) {
	if tx, err := types.DeserializeL2TransactionWithAddressMapping(data); err == nil {
		h := tx.Tx.Hash()
		return &txJSON{
			Type:      "L2TransactionWithAddressMapping",
			Raw:       newRawTxJSON(&tx.Tx.Raw),
			Hash:      &h,
			Signature: tx.Tx.Signature,
			Addresses: tx.Addresses.Items,
			Extra:     extraJSON(tx.Extra),
		}, nil
	}
	if tx, err := types.DeserializeRawL2TransactionWithAddressMapping(data); err == nil {
		return &txJSON{
			Type:      "RawL2TransactionWithAddressMapping",
			Raw:       newRawTxJSON(&tx.RawTx),
			Addresses: tx.Addresses.Items,
			Extra:     extraJSON(tx.Extra),
		}, nil
	}
	if tx, err := types.DeserializeL2Transaction(data); err == nil {
		h := tx.Hash()
		return &txJSON{Type: "L2Transaction", Raw: newRawTxJSON(&tx.Raw), Hash: &h, Signature: tx.Signature}, nil
	}
	tx, err := types.DeserializeRawL2Transaction(data)
	if err != nil {
		return nil, fmt.Errorf("not a layer-2 transaction: %w", err)
	}
	return &txJSON{Type: "RawL2Transaction", Raw: newRawTxJSON(tx)}, nil
}

func decodeTx(ctx *cli.Context) error {
	data, err := hexArg(ctx)
	if err != nil {
		return err
	}
	desc, err := describeTx(data)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, string(out))
	return nil
}

func signingMessage(ctx *cli.Context) error {
	data, err := hexArg(ctx)
	if err != nil {
		return err
	}
	cfg, err := loadBaseConfig(ctx)
	if err != nil {
		return err
	}
	mode, err := types.ParseSigningMode(cfg.Node.SigningMode)
	if err != nil {
		return err
	}
	tx, err := types.DeserializeRawL2Transaction(data)
	if err != nil {
		return err
	}
	sender, err := parseHash(ctx.String(utils.SenderHashFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid --%s: %v", utils.SenderHashFlag.Name, err)
	}
	receiver, err := parseHash(ctx.String(utils.ReceiverHashFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid --%s: %v", utils.ReceiverHashFlag.Name, err)
	}
	msg := types.NewSigner(&cfg.Rollup, mode).Hash(tx, sender, receiver)
	fmt.Fprintln(ctx.App.Writer, msg.Hex())
	return nil
}

// callMsgValue reads a big integer flag, treating an unset flag as nil.
func callMsgValue(ctx *cli.Context, name string) *big.Int {
	if !ctx.IsSet(name) {
		return nil
	}
	return flags.GlobalBig(ctx, name)
}
