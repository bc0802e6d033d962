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
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	polyjuice "github.com/polyjuice/go-polyjuice"
	"github.com/polyjuice/go-polyjuice/accounts/abiregistry"
	"github.com/polyjuice/go-polyjuice/addrmap"
	"github.com/polyjuice/go-polyjuice/cmd/utils"
	"github.com/polyjuice/go-polyjuice/core/types"
	"github.com/polyjuice/go-polyjuice/ethdb"
	"github.com/polyjuice/go-polyjuice/gwclient"
	"github.com/polyjuice/go-polyjuice/provider"
	"github.com/urfave/cli/v2"
)

var (
	reverseFlag = &cli.BoolFlag{
		Name:  "reverse",
		Usage: "Translate from short addresses back to Ethereum addresses",
	}
	sendFlag = &cli.BoolFlag{
		Name:  "send",
		Usage: "Submit the signed transaction to the node",
	}

	resolveCommand = &cli.Command{
		Action:    resolve,
		Name:      "resolve",
		Usage:     "Translate addresses through the node",
		ArgsUsage: "<address> [<address>...]",
		Flags:     []cli.Flag{reverseFlag},
	}
	rewriteCommand = &cli.Command{
		Action:    rewrite,
		Name:      "rewrite",
		Usage:     "Rewrite the address arguments of ABI call data",
		ArgsUsage: "<call data hex>",
		Flags:     []cli.Flag{reverseFlag},
		Description: `
Translates every address argument of a call to a method listed in the --abi
files. Call data of unknown methods is printed unchanged.`,
	}
	buildTxCommand = &cli.Command{
		Action:    buildTx,
		Name:      "build-tx",
		Usage:     "Build, and optionally sign and submit, a polyjuice transaction",
		ArgsUsage: "[<call data hex>]",
		Flags:     append(append([]cli.Flag{}, utils.TxFlags...), utils.KeyFileFlag, sendFlag),
	}
	callCommand = &cli.Command{
		Action:    call,
		Name:      "call",
		Usage:     "Execute a call against the latest state without committing it",
		ArgsUsage: "[<call data hex>]",
		Flags:     utils.TxFlags,
	}
)

// environment bundles what the chain commands need.
type environment struct {
	cfg      gwtoolConfig
	mode     types.SigningMode
	client   *gwclient.Client
	db       ethdb.KeyValueStore
	store    polyjuice.AddressMappingStore
	registry *abiregistry.Registry
}

func openEnvironment(ctx *cli.Context) (*environment, error) {
	cfg, err := loadBaseConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := cfg.Rollup.Validate(); err != nil {
		return nil, err
	}
	mode, err := types.ParseSigningMode(cfg.Node.SigningMode)
	if err != nil {
		return nil, err
	}
	registry, err := loadRegistry(cfg.Node.ABIFiles)
	if err != nil {
		return nil, err
	}
	env := &environment{cfg: cfg, mode: mode, registry: registry}

	switch cfg.Node.MappingStore {
	case "remote":
	case "local":
		if env.db, err = utils.OpenDatabase(cfg.Node.databaseConfig(false)); err != nil {
			return nil, err
		}
		env.store = addrmap.NewDBStore(env.db)
	default:
		return nil, fmt.Errorf("unknown mapping store %q", cfg.Node.MappingStore)
	}

	if env.client, err = gwclient.DialContext(ctx.Context, cfg.Node.RPC); err != nil {
		env.Close()
		return nil, err
	}
	log.Debug("Connected to node", "rpc", cfg.Node.RPC, "store", cfg.Node.MappingStore, "methods", registry.Len())
	return env, nil
}

func (env *environment) Close() {
	if env.client != nil {
		env.client.Close()
	}
	if env.db != nil {
		env.db.Close()
	}
}

func (env *environment) provider() *provider.Provider {
	return provider.New(&env.cfg.Rollup, env.client, env.registry, env.store, env.mode)
}

func loadRegistry(files []string) (*abiregistry.Registry, error) {
	readers := make([]io.Reader, 0, len(files))
	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		readers = append(readers, f)
	}
	return abiregistry.FromJSON(readers...)
}

func resolve(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("no address given")
	}
	env, err := openEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	dir := addrmap.ToInternal
	if ctx.Bool(reverseFlag.Name) {
		dir = addrmap.ToExternal
	}
	resolver := env.provider().Resolver()
	for _, arg := range ctx.Args().Slice() {
		addr, err := parseAddress(arg)
		if err != nil {
			return err
		}
		res, err := resolver.Resolve(ctx.Context, addr, dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "%s %s %s\n", hexutil.Encode(res.Input.Bytes()), hexutil.Encode(res.Address.Bytes()), res.Outcome)
	}
	return nil
}

type rewriteJSON struct {
	Data     hexutil.Bytes              `json:"data"`
	Method   string                     `json:"method,omitempty"`
	Mappings []types.AddressMappingItem `json:"mappings,omitempty"`
}

func rewrite(ctx *cli.Context) error {
	payload, err := hexArg(ctx)
	if err != nil {
		return err
	}
	env, err := openEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	dir := addrmap.ToInternal
	if ctx.Bool(reverseFlag.Name) {
		dir = addrmap.ToExternal
	}
	res, err := env.provider().Rewriter().RewritePayload(ctx.Context, payload, dir)
	if err != nil {
		return err
	}
	out := rewriteJSON{Data: res.Data, Mappings: res.Mappings}
	if res.Method != nil {
		out.Method = res.Method.Sig
	}
	return printJSON(ctx.App.Writer, out)
}

// callMsg assembles a call message from the transaction flags.
func callMsg(ctx *cli.Context) (polyjuice.CallMsg, error) {
	var msg polyjuice.CallMsg
	from, err := parseAddress(ctx.String(utils.FromFlag.Name))
	if err != nil {
		return msg, fmt.Errorf("invalid --%s: %v", utils.FromFlag.Name, err)
	}
	msg.From = from
	if s := ctx.String(utils.ToFlag.Name); s != "" {
		to, err := parseAddress(s)
		if err != nil {
			return msg, fmt.Errorf("invalid --%s: %v", utils.ToFlag.Name, err)
		}
		msg.To = &to
	}
	msg.Gas = ctx.Uint64(utils.GasFlag.Name)
	msg.GasPrice = callMsgValue(ctx, utils.GasPriceFlag.Name)
	msg.Value = callMsgValue(ctx, utils.ValueFlag.Name)
	if ctx.NArg() > 0 {
		if msg.Data, err = hexArg(ctx); err != nil {
			return msg, err
		}
	}
	return msg, nil
}

type builtTxJSON struct {
	Raw            hexutil.Bytes              `json:"raw"`
	SigningMessage common.Hash                `json:"signingMessage"`
	Mappings       []types.AddressMappingItem `json:"mappings,omitempty"`
	Signed         hexutil.Bytes              `json:"signed,omitempty"`
	Hash           *common.Hash               `json:"hash,omitempty"`
}

func buildTx(ctx *cli.Context) error {
	msg, err := callMsg(ctx)
	if err != nil {
		return err
	}
	if ctx.Bool(sendFlag.Name) && !ctx.IsSet(utils.KeyFileFlag.Name) {
		return fmt.Errorf("--%s requires --%s", sendFlag.Name, utils.KeyFileFlag.Name)
	}
	env, err := openEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	p := env.provider()
	ptx, err := p.BuildRawTransaction(ctx.Context, msg)
	if err != nil {
		return err
	}
	withMapping, err := ptx.WithAddressMapping()
	if err != nil {
		return err
	}
	out := builtTxJSON{
		Raw:            withMapping.Serialize(),
		SigningMessage: p.SigningMessage(ptx),
		Mappings:       ptx.Mappings,
	}
	if file := ctx.String(utils.KeyFileFlag.Name); file != "" {
		key, err := crypto.LoadECDSA(file)
		if err != nil {
			return err
		}
		tx, err := p.SignTransaction(ptx, key)
		if err != nil {
			return err
		}
		signed, err := ptx.SignedWithAddressMapping(tx)
		if err != nil {
			return err
		}
		out.Signed = signed.Serialize()
		if ctx.Bool(sendFlag.Name) {
			hash, err := p.SendTransaction(ctx.Context, tx)
			if err != nil {
				return err
			}
			out.Hash = &hash
		}
	}
	return printJSON(ctx.App.Writer, out)
}

func call(ctx *cli.Context) error {
	msg, err := callMsg(ctx)
	if err != nil {
		return err
	}
	env, err := openEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	ret, err := env.provider().Call(ctx.Context, msg)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, hexutil.Encode(ret))
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
