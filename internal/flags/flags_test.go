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

package flags

import (
	"math/big"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestPathExpansion(t *testing.T) {
	home := HomeDir()
	tests := map[string]string{
		"/home/someuser/tmp": "/home/someuser/tmp",
		"~/tmp":              home + "/tmp",
		"~thisOtherUser/b/":  "~thisOtherUser/b",
		"$DDDXXX/a/b":        "/tmp/a/b",
		"/a/b/":              "/a/b",
	}
	os.Setenv("DDDXXX", "/tmp")
	defer os.Unsetenv("DDDXXX")
	for test, expected := range tests {
		assert.Equal(t, expected, expandPath(test), test)
	}
}

func runFlags(t *testing.T, fl []cli.Flag, args []string, action cli.ActionFunc) {
	t.Helper()
	app := NewApp("test")
	app.Flags = fl
	app.Action = action
	require.NoError(t, app.Run(append([]string{"app"}, args...)))
}

func TestBigFlag(t *testing.T) {
	price := &BigFlag{Name: "price", Value: big.NewInt(7)}

	var got *big.Int
	runFlags(t, []cli.Flag{price}, nil, func(ctx *cli.Context) error {
		got = GlobalBig(ctx, "price")
		return nil
	})
	assert.Equal(t, int64(7), got.Int64(), "default is kept")

	runFlags(t, []cli.Flag{price}, []string{"--price", "0x100"}, func(ctx *cli.Context) error {
		got = GlobalBig(ctx, "price")
		return nil
	})
	assert.Equal(t, int64(256), got.Int64())
	assert.Equal(t, "7", price.GetDefaultText())

	app := NewApp("test")
	app.Flags = []cli.Flag{price}
	app.Action = func(*cli.Context) error { return nil }
	assert.Error(t, app.Run([]string{"app", "--price", "seven"}))
}

func TestDirectoryFlag(t *testing.T) {
	dir := &DirectoryFlag{Name: "datadir"}
	var got string
	runFlags(t, []cli.Flag{dir}, []string{"--datadir", "/a/b/../c/"}, func(ctx *cli.Context) error {
		got = ctx.String("datadir")
		return nil
	})
	assert.Equal(t, "/a/c", got)
}

func TestMerge(t *testing.T) {
	a := &cli.BoolFlag{Name: "a"}
	b := &cli.BoolFlag{Name: "b"}
	assert.Equal(t, []cli.Flag{a, b, a}, Merge([]cli.Flag{a, b}, nil, []cli.Flag{a}))
}
