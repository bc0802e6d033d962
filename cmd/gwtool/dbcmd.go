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
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/polyjuice/go-polyjuice/addrmap"
	"github.com/polyjuice/go-polyjuice/cmd/utils"
	"github.com/polyjuice/go-polyjuice/core/types"
	"github.com/polyjuice/go-polyjuice/ethdb"
	"github.com/urfave/cli/v2"
)

var (
	mappingHexFlag = &cli.BoolFlag{
		Name:  "hex",
		Usage: "Print the mappings as one serialized AddressMapping record",
	}

	mappingsCommand = &cli.Command{
		Name:  "mappings",
		Usage: "Inspect and maintain the local address mapping database",
		Subcommands: []*cli.Command{
			{
				Action: listMappings,
				Name:   "list",
				Usage:  "Print every stored mapping",
				Flags:  []cli.Flag{mappingHexFlag},
			},
			{
				Action:    getMapping,
				Name:      "get",
				Usage:     "Look up the Ethereum address of short addresses",
				ArgsUsage: "<short address> [<short address>...]",
			},
			{
				Action:    importMappings,
				Name:      "import",
				Usage:     "Import mappings from a JSON file",
				ArgsUsage: "<file>",
				Description: `
The file holds a JSON array of {"ethAddress": ..., "gwShortAddress": ...}
objects. Each entry is checked against the configured rollup before it is
stored.`,
			},
		},
	}
)

func openMappingStore(ctx *cli.Context, readonly bool) (ethdb.KeyValueStore, *addrmap.DBStore, gwtoolConfig, error) {
	cfg, err := loadBaseConfig(ctx)
	if err != nil {
		return nil, nil, cfg, err
	}
	db, err := utils.OpenDatabase(cfg.Node.databaseConfig(readonly))
	if err != nil {
		return nil, nil, cfg, err
	}
	return db, addrmap.NewDBStore(db), cfg, nil
}

func listMappings(ctx *cli.Context) error {
	db, store, _, err := openMappingStore(ctx, true)
	if err != nil {
		return err
	}
	defer db.Close()

	items, err := store.Mappings()
	if err != nil {
		return err
	}
	if ctx.Bool(mappingHexFlag.Name) {
		m := types.AddressMapping{Items: items}
		fmt.Fprintln(ctx.App.Writer, hexutil.Encode(m.Serialize()))
		return nil
	}
	for _, item := range items {
		fmt.Fprintf(ctx.App.Writer, "%s %s\n", item.EthAddress.Hex(), item.ShortAddress.Hex())
	}
	return nil
}

func getMapping(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("no short address given")
	}
	db, store, _, err := openMappingStore(ctx, true)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, arg := range ctx.Args().Slice() {
		var short types.ShortAddress
		if err := short.UnmarshalText([]byte(arg)); err != nil {
			return fmt.Errorf("invalid short address %q: %v", arg, err)
		}
		eth, err := store.AddressByShortAddress(ctx.Context, short)
		if err != nil {
			return fmt.Errorf("%s: %w", short, err)
		}
		fmt.Fprintf(ctx.App.Writer, "%s %s\n", short.Hex(), eth.Hex())
	}
	return nil
}

func importMappings(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("expected the file to import")
	}
	data, err := os.ReadFile(ctx.Args().First())
	if err != nil {
		return err
	}
	var items []types.AddressMappingItem
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}

	db, store, cfg, err := openMappingStore(ctx, false)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := cfg.Rollup.Validate(); err != nil {
		return err
	}
	for i, item := range items {
		if derived := types.EthAccountShortAddress(&cfg.Rollup, item.EthAddress); derived != item.ShortAddress {
			return fmt.Errorf("entry %d: %w", i, &addrmap.ConsistencyError{Short: item.ShortAddress, Eth: item.EthAddress, Derived: derived})
		}
	}
	if err := store.SaveAddressMappings(items); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "imported %d mappings\n", len(items))
	return nil
}
