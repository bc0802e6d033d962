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

// gwtool is a command line companion for Polyjuice on Godwoken. It derives
// short addresses, rewrites ABI payloads between the Ethereum and the short
// address space, and builds, signs and decodes layer-2 transactions.
package main

import (
	"os"

	"github.com/polyjuice/go-polyjuice/cmd/utils"
	"github.com/polyjuice/go-polyjuice/internal/debug"
	"github.com/polyjuice/go-polyjuice/internal/flags"
	"github.com/urfave/cli/v2"
)

const clientIdentifier = "gwtool"

var app = newApp()

func newApp() *cli.App {
	app := flags.NewApp("the polyjuice address and transaction tool")
	app.Name = clientIdentifier
	app.Flags = flags.Merge(
		[]cli.Flag{configFileFlag},
		utils.RollupFlags,
		utils.NodeFlags,
		debug.Flags,
	)
	app.Commands = []*cli.Command{
		dumpConfigCommand,
		shortAddressCommand,
		encodeArgsCommand,
		decodeTxCommand,
		signingMessageCommand,
		resolveCommand,
		rewriteCommand,
		buildTxCommand,
		callCommand,
		mappingsCommand,
	}
	app.Before = func(ctx *cli.Context) error {
		return debug.Setup(ctx)
	}
	app.After = func(ctx *cli.Context) error {
		debug.Exit()
		return nil
	}
	return app
}

func main() {
	if err := app.Run(os.Args); err != nil {
		utils.Fatalf("%v", err)
	}
}
