// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/bettingd/bettingd/chain"
)

type metadata struct {
	stateDirectory string
	verbose        bool
	e              io.Writer
	w              io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	app := newApp()
	err := app.Run(os.Args)
	if loggerInitialised {
		logger.Finalise()
	}
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "betting-cli"
	app.Usage = "inspect and maintain bettingd state"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "data-directory, d",
			Value: ".",
			Usage: " bettingd data `DIRECTORY`",
		},
		cli.StringFlag{
			Name:  "chain, n",
			Value: chain.Live,
			Usage: " state of `CHAIN` [live|testing|local]",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "odds",
			Usage:     "price a field event without touching any state",
			ArgsUsage: "ODDS...\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "group, g",
					Value: "other",
					Usage: " field group `TYPE` [animal|other]",
				},
				cli.UintFlag{
					Name:  "margin, m",
					Value: 100,
					Usage: " margin `PERCENT` 0..100",
				},
				cli.BoolFlag{
					Name:  "json, j",
					Usage: " output JSON instead of a table",
				},
			},
			Action: runOdds,
		},
		{
			Name:      "event",
			Usage:     "display a stored field event",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.UintFlag{
					Name:  "id, i",
					Usage: "*field event `ID`",
				},
				cli.BoolFlag{
					Name:  "json, j",
					Usage: " output JSON instead of a table",
				},
			},
			Action: runEvent,
		},
		{
			Name:      "dump",
			Usage:     "list the records of one table",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "table, t",
					Value: "",
					Usage: "*table `NAME`",
				},
				cli.IntFlag{
					Name:  "count, c",
					Value: 20,
					Usage: " maximum records to output `COUNT`",
				},
			},
			Action: runDump,
		},
		{
			Name:   "height",
			Usage:  "display the last connected block height",
			Action: runHeight,
		},
		{
			Name:      "prune",
			Usage:     "erase undo records made below a height",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.UintFlag{
					Name:  "below, b",
					Usage: "*block `HEIGHT`",
				},
			},
			Action: runPrune,
		},
		{
			Name:  "version",
			Usage: "display betting-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {
		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		name := c.GlobalString("chain")
		if !chain.Valid(name) {
			return fmt.Errorf("chain: %q can only be live/testing/local", name)
		}

		dataDirectory, err := filepath.Abs(c.GlobalString("data-directory"))
		if nil != err {
			return err
		}
		stateDirectory := chain.DataDirectory(dataDirectory, name)

		if verbose {
			fmt.Fprintf(e, "state directory: %q\n", stateDirectory)
		}

		err = initialiseLogger(verbose)
		if nil != err {
			return err
		}

		c.App.Metadata = map[string]interface{}{
			"config": &metadata{
				stateDirectory: stateDirectory,
				verbose:        verbose,
				e:              e,
				w:              w,
			},
		}
		return nil
	}

	return app
}

var loggerInitialised = false

// the tables log through the logger, which writes to a file in the
// temporary directory
func initialiseLogger(verbose bool) error {
	level := "critical"
	if verbose {
		level = "info"
	}
	err := logger.Initialise(logger.Configuration{
		Directory: os.TempDir(),
		File:      "betting-cli.log",
		Size:      1048576,
		Count:     2,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: level,
		},
	})
	if nil != err {
		return err
	}
	loggerInitialised = true
	return nil
}
