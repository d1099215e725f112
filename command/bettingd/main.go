// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bettingd/bettingd/background"
	"github.com/bettingd/bettingd/betting"
	"github.com/bettingd/bettingd/metrics"
	"github.com/bettingd/bettingd/mode"
	"github.com/bettingd/bettingd/storage"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// --verbose copies the log to the console
	if len(options["verbose"]) > 0 {
		theConfiguration.Logging.Console = true
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0o600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// set the initial system mode - before any background tasks are started
	err = mode.Initialise(theConfiguration.Chain)
	if nil != err {
		log.Criticalf("mode initialise error: %s", err)
		exitwithstatus.Message("mode initialise error: %s", err)
	}
	defer mode.Finalise()

	log.Infof("test mode: %v", mode.IsTesting())
	log.Infof("state directory: %q", theConfiguration.StateDirectory())

	// start the betting state
	log.Info("open betting state")
	view, err := betting.Open(theConfiguration.StateDirectory(), theConfiguration.Database.CacheSize, storage.ReadWrite)
	if nil != err {
		log.Criticalf("betting open error: %s", err)
		exitwithstatus.Message("betting open error: %s", err)
	}
	defer view.Close()

	connector := betting.NewConnector(view, theConfiguration.Betting.UndoRetention, theConfiguration.Betting.FlushThreshold)

	// pending writes are only in memory until flushed
	defer func() {
		err := connector.Flush()
		if nil != err {
			log.Criticalf("final flush error: %s", err)
		}
	}()

	// these commands are allowed to access the betting state
	if len(arguments) > 0 && processDataCommand(log, arguments, connector) {
		return
	}

	height, err := connector.LastHeight()
	if nil != err {
		log.Criticalf("last height error: %s", err)
		exitwithstatus.Message("last height error: %s", err)
	}
	log.Infof("last height: %d", height)
	view.UpdateMetrics()

	srv := metrics.Serve(theConfiguration.Metrics.Listen, health(connector))

	watcher, err := newConfigWatcher(configurationFile, reloadLevels)
	if nil != err {
		log.Criticalf("config watcher error: %s", err)
		exitwithstatus.Message("config watcher error: %s", err)
	}

	processes := background.Processes{
		newSpooler(theConfiguration.SpoolDirectory, connector),
		watcher,
	}
	bg := background.Start(processes, nil)

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
	mode.Set(mode.Stopped)

	bg.Stop()

	if nil != srv {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(ctx)
		cancel()
	}
}

// healthy while blocks are being followed and the state is readable
func health(connector *betting.Connector) metrics.HealthFunc {
	return func(ctx context.Context) error {
		if mode.IsNot(mode.Normal) {
			return fmt.Errorf("mode: %s", mode.String())
		}

		result := make(chan error, 1)
		go func() {
			_, err := connector.LastHeight()
			result <- err
		}()

		select {
		case err := <-result:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
