// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bettingd/bettingd/betting"
	"github.com/bettingd/bettingd/chain"
	"github.com/bettingd/bettingd/configuration"
	"github.com/bettingd/bettingd/fault"
	"github.com/bettingd/bettingd/storage"
	"github.com/bettingd/bettingd/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultSpoolDirectory = "spool"

	defaultLogDirectory = "log"
	defaultLogFile      = "bettingd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		"main":            "info",
		logger.DefaultTag: "critical",
	}
)

// the parser merges into an existing map, so each read starts from a copy
func (m LoglevelMap) clone() map[string]string {
	levels := make(map[string]string, len(m))
	for tag, level := range m {
		levels[tag] = level
	}
	return levels
}

// DatabaseType - table settings
type DatabaseType struct {
	CacheSize int `gluamapper:"cache_size" json:"cache_size"`
}

// BettingType - connector limits
type BettingType struct {
	UndoRetention  uint32 `gluamapper:"undo_retention" json:"undo_retention"`
	FlushThreshold int    `gluamapper:"flush_threshold" json:"flush_threshold"`
}

// MetricsType - prometheus listener, blank to disable
type MetricsType struct {
	Listen string `gluamapper:"listen" json:"listen"`
}

// Configuration - the daemon configuration file
type Configuration struct {
	DataDirectory  string               `gluamapper:"data_directory" json:"data_directory"`
	PidFile        string               `gluamapper:"pidfile" json:"pidfile"`
	Chain          string               `gluamapper:"chain" json:"chain"`
	SpoolDirectory string               `gluamapper:"spool_directory" json:"spool_directory"`
	Database       DatabaseType         `gluamapper:"database" json:"database"`
	Betting        BettingType          `gluamapper:"betting" json:"betting"`
	Metrics        MetricsType          `gluamapper:"metrics" json:"metrics"`
	Logging        logger.Configuration `gluamapper:"logging" json:"logging"`
}

// StateDirectory - the betting state of the configured chain
func (c *Configuration) StateDirectory() string {
	return chain.DataDirectory(c.DataDirectory, c.Chain)
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {
	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory:  defaultDataDirectory,
		PidFile:        "", // no PidFile by default
		Chain:          chain.Live,
		SpoolDirectory: defaultSpoolDirectory,

		Database: DatabaseType{
			CacheSize: storage.DefaultCacheSize,
		},

		Betting: BettingType{
			UndoRetention:  betting.DefaultUndoRetention,
			FlushThreshold: betting.DefaultFlushThreshold,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels.clone(),
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	// abort if the chain name is not recognised
	options.Chain = strings.ToLower(options.Chain)
	if !chain.Valid(options.Chain) {
		return nil, fmt.Errorf("chain: %q is not supported: %w", options.Chain, fault.ErrInvalidChain)
	}

	if options.Database.CacheSize <= 0 {
		return nil, fmt.Errorf("database cache_size: %d: %w", options.Database.CacheSize, fault.ErrInvalidConfiguration)
	}
	if 0 == options.Betting.UndoRetention {
		return nil, fmt.Errorf("betting undo_retention must be positive: %w", fault.ErrInvalidConfiguration)
	}
	if options.Betting.FlushThreshold <= 0 {
		return nil, fmt.Errorf("betting flush_threshold: %d: %w", options.Betting.FlushThreshold, fault.ErrInvalidConfiguration)
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("path: %q: %w", options.DataDirectory, fault.ErrInvalidDataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	}
	options.DataDirectory = filepath.Clean(options.DataDirectory)

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("path: %q is not a directory: %w", options.DataDirectory, fault.ErrInvalidDataDirectory)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// fail if any of these are not simple file names
	mustNotBePaths := []*string{
		&options.Logging.File,
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f) {
		case "", ".":
		default:
			return nil, fmt.Errorf("files: %q is not plain name: %w", *f, fault.ErrInvalidConfiguration)
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.SpoolDirectory,
		&options.Logging.Directory,
	} {
		*d = util.EnsureAbsolute(options.DataDirectory, *d)
		if err := util.EnsureDirectory(*d); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}
