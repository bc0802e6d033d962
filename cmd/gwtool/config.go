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
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"unicode"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/naoina/toml"
	"github.com/polyjuice/go-polyjuice/cmd/utils"
	"github.com/polyjuice/go-polyjuice/core/types"
	"github.com/polyjuice/go-polyjuice/internal/flags"
	"github.com/polyjuice/go-polyjuice/params"
	"github.com/urfave/cli/v2"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: flags.MiscCategory,
	}

	dumpConfigCommand = &cli.Command{
		Action:      dumpConfig,
		Name:        "dumpconfig",
		Usage:       "Export configuration values in a TOML format",
		ArgsUsage:   "<dumpfile (optional)>",
		Description: "Export configuration values in TOML format (to stdout by default).",
	}
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// nodeConfig describes how gwtool reaches the chain and where it keeps
// address mappings.
type nodeConfig struct {
	RPC          string
	ABIFiles     []string `toml:",omitempty"`
	SigningMode  string
	MappingStore string

	DataDir         string `toml:",omitempty"`
	DBEngine        string
	DatabaseCache   int
	DatabaseHandles int
}

type gwtoolConfig struct {
	Rollup params.RollupConfig
	Node   nodeConfig
}

var defaultNodeConfig = nodeConfig{
	RPC:             "http://127.0.0.1:8119",
	SigningMode:     types.ModePrefixed.String(),
	MappingStore:    "remote",
	DBEngine:        utils.DBLeveldb,
	DatabaseCache:   16,
	DatabaseHandles: 16,
}

func loadConfig(file string, cfg *gwtoolConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// loadBaseConfig loads the defaults, then the config file, then applies
// flags on top.
func loadBaseConfig(ctx *cli.Context) (gwtoolConfig, error) {
	cfg := gwtoolConfig{
		Rollup: params.DefaultRollupConfig,
		Node:   defaultNodeConfig,
	}
	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := setRollupConfig(ctx, &cfg.Rollup); err != nil {
		return cfg, err
	}
	setNodeConfig(ctx, &cfg.Node)
	return cfg, nil
}

func setRollupConfig(ctx *cli.Context, cfg *params.RollupConfig) error {
	if ctx.IsSet(utils.RollupTypeHashFlag.Name) {
		h, err := parseHash(ctx.String(utils.RollupTypeHashFlag.Name))
		if err != nil {
			return fmt.Errorf("invalid --%s: %v", utils.RollupTypeHashFlag.Name, err)
		}
		cfg.RollupTypeHash = h
	}
	if ctx.IsSet(utils.EthLockCodeHashFlag.Name) {
		h, err := parseHash(ctx.String(utils.EthLockCodeHashFlag.Name))
		if err != nil {
			return fmt.Errorf("invalid --%s: %v", utils.EthLockCodeHashFlag.Name, err)
		}
		cfg.EthAccountLockCodeHash = h
	}
	if ctx.IsSet(utils.CreatorAccountFlag.Name) {
		cfg.CreatorAccountID = uint32(ctx.Uint(utils.CreatorAccountFlag.Name))
	}
	return nil
}

func setNodeConfig(ctx *cli.Context, cfg *nodeConfig) {
	if ctx.IsSet(utils.RPCFlag.Name) {
		cfg.RPC = ctx.String(utils.RPCFlag.Name)
	}
	if ctx.IsSet(utils.ABIFlag.Name) {
		cfg.ABIFiles = ctx.StringSlice(utils.ABIFlag.Name)
	}
	if ctx.IsSet(utils.SigningModeFlag.Name) {
		cfg.SigningMode = ctx.String(utils.SigningModeFlag.Name)
	}
	if ctx.IsSet(utils.MappingStoreFlag.Name) {
		cfg.MappingStore = ctx.String(utils.MappingStoreFlag.Name)
	}
	if ctx.IsSet(utils.DataDirFlag.Name) {
		cfg.DataDir = ctx.String(utils.DataDirFlag.Name)
	}
	if ctx.IsSet(utils.DBEngineFlag.Name) {
		cfg.DBEngine = ctx.String(utils.DBEngineFlag.Name)
	}
	if ctx.IsSet(utils.CacheFlag.Name) {
		cfg.DatabaseCache = ctx.Int(utils.CacheFlag.Name)
	}
}

func (c *nodeConfig) databaseConfig(readonly bool) utils.DatabaseConfig {
	return utils.DatabaseConfig{
		Engine:    c.DBEngine,
		Directory: c.DataDir,
		Cache:     c.DatabaseCache,
		Handles:   c.DatabaseHandles,
		Namespace: "gwtool/",
		ReadOnly:  readonly,
	}
}

func parseHash(s string) (common.Hash, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return common.Hash{}, err
	}
	if len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("want %d bytes, have %d", common.HashLength, len(b))
	}
	return common.BytesToHash(b), nil
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg, err := loadBaseConfig(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}

	dump := ctx.App.Writer
	if ctx.NArg() > 0 {
		f, err := os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		dump = f
	}
	_, err = io.WriteString(dump, string(out))
	return err
}
