// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"

	"github.com/bettingd/bettingd/betting"
	"github.com/bettingd/bettingd/fault"
	"github.com/bettingd/bettingd/mode"
)

// block files are <height>.json, after processing they are renamed
// with a suffix so the spool directory keeps a record
//
// writers must create the file under another name and rename it into
// place, a partially written block fails to parse
const (
	spoolSuffix    = ".json"
	importedSuffix = ".imported"
	failedSuffix   = ".failed"

	rescanInterval = time.Minute
)

type spoolFile struct {
	height uint32
	name   string
}

type spooler struct {
	log       *logger.L
	directory string
	connector *betting.Connector
}

func newSpooler(directory string, connector *betting.Connector) *spooler {
	return &spooler{
		log:       logger.New("spool"),
		directory: directory,
		connector: connector,
	}
}

// height of a spooled block file name, false if not a block file
func spoolHeight(name string) (uint32, bool) {
	base := filepath.Base(name)
	if !strings.HasSuffix(base, spoolSuffix) {
		return 0, false
	}
	height, err := strconv.ParseUint(strings.TrimSuffix(base, spoolSuffix), 10, 32)
	if nil != err {
		return 0, false
	}
	return uint32(height), true
}

// block files waiting to be imported, lowest height first
func (s *spooler) pending() ([]spoolFile, error) {
	entries, err := os.ReadDir(s.directory)
	if nil != err {
		return nil, err
	}

	files := []spoolFile{}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		height, ok := spoolHeight(entry.Name())
		if !ok {
			continue
		}
		files = append(files, spoolFile{
			height: height,
			name:   filepath.Join(s.directory, entry.Name()),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].height < files[j].height
	})
	return files, nil
}

// import every pending block file
//
// a block that cannot be applied is renamed as failed and the import
// continues, a storage error stops the import so the block is retried
// on the next scan
func (s *spooler) importAll() int {
	files, err := s.pending()
	if nil != err {
		s.log.Errorf("scan: %q  error: %s", s.directory, err)
		return 0
	}

	imported := 0
	for _, file := range files {
		err := s.importFile(file)
		switch {
		case nil == err:
			imported += 1
			s.finish(file.name, importedSuffix)

		case fault.IsErrInvalid(err) || fault.IsErrRecord(err) || isSyntaxError(err):
			s.log.Errorf("block file: %q  rejected: %s", file.name, err)
			s.finish(file.name, failedSuffix)

		default:
			s.log.Criticalf("block file: %q  error: %s", file.name, err)
			return imported
		}
	}
	return imported
}

func (s *spooler) importFile(file spoolFile) error {
	block, err := readBlockFile(file.name)
	if nil != err {
		return err
	}
	if block.Height != file.height {
		s.log.Warnf("block file: %q  contains height: %d", file.name, block.Height)
		return fault.ErrBlockOutOfSequence
	}
	return applyBlock(s.connector, block)
}

// read and decode a block file
func readBlockFile(fileName string) (*betting.Block, error) {
	data, err := os.ReadFile(fileName)
	if nil != err {
		return nil, err
	}

	block, err := betting.ParseBlock(data)
	if nil != err {
		return nil, &syntaxError{err: err}
	}
	return block, nil
}

// connect or disconnect a block
func applyBlock(connector *betting.Connector, block *betting.Block) error {
	if block.Disconnect {
		return connector.DisconnectBlock(block)
	}
	return connector.ConnectBlock(block)
}

// rename a processed block file
func (s *spooler) finish(name string, suffix string) {
	err := os.Rename(name, name+suffix)
	if nil != err {
		s.log.Errorf("rename: %q  error: %s", name, err)
	}
}

// Run - background process importing blocks as they arrive
func (s *spooler) Run(args interface{}, shutdown <-chan struct{}) {
	s.log.Infof("starting… directory: %q", s.directory)

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		s.log.Criticalf("new watcher error: %s", err)
		logger.Panicf("spool: new watcher error: %s", err)
	}
	defer watcher.Close()

	err = watcher.Add(s.directory)
	if nil != err {
		s.log.Criticalf("watch: %q  error: %s", s.directory, err)
		logger.Panicf("spool: watch: %q  error: %s", s.directory, err)
	}

	// backlog first
	n := s.importAll()
	s.log.Infof("backlog: %d blocks imported", n)
	mode.Set(mode.Normal)

	ticker := time.NewTicker(rescanInterval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event := <-watcher.Events:
			if _, ok := spoolHeight(event.Name); !ok {
				continue loop
			}
			// files moved into the directory arrive as Create
			if fsnotify.Create != event.Op&fsnotify.Create {
				continue loop
			}
			s.log.Debugf("event: %s", event)
			s.importAll()

		case err := <-watcher.Errors:
			s.log.Errorf("watcher error: %s", err)

		case <-ticker.C:
			s.importAll()
		}
	}

	s.log.Info("stopped")
}

// a block file that is not valid JSON
type syntaxError struct {
	err error
}

func (e *syntaxError) Error() string {
	return "block syntax: " + e.err.Error()
}

func isSyntaxError(err error) bool {
	_, ok := err.(*syntaxError)
	return ok
}
