// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"
)

// editors often write a file several times in quick succession
const reloadDelay = 2 * time.Second

// reloads the configuration file when it changes, only the log levels
// take effect without a restart
type configWatcher struct {
	log      *logger.L
	fileName string
	apply    func(*Configuration)
}

func newConfigWatcher(fileName string, apply func(*Configuration)) (*configWatcher, error) {
	fileName, err := filepath.Abs(filepath.Clean(fileName))
	if nil != err {
		return nil, err
	}
	return &configWatcher{
		log:      logger.New("config"),
		fileName: fileName,
		apply:    apply,
	}, nil
}

// apply the new log levels
func reloadLevels(c *Configuration) {
	logger.LoadLevels(c.Logging.Levels)
}

// is the event a change to the watched file
func (w *configWatcher) isChange(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.fileName {
		return false
	}
	return 0 != event.Op&(fsnotify.Write|fsnotify.Create)
}

func (w *configWatcher) reload() {
	c, err := getConfiguration(w.fileName)
	if nil != err {
		w.log.Errorf("reload: %q  error: %s", w.fileName, err)
		return
	}
	w.apply(c)
	w.log.Infof("reloaded: %q", w.fileName)
}

// Run - background process watching the configuration file
func (w *configWatcher) Run(args interface{}, shutdown <-chan struct{}) {
	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		w.log.Errorf("new watcher error: %s", err)
		<-shutdown
		return
	}
	defer watcher.Close()

	// watch the directory so a file replaced by an editor is still seen
	err = watcher.Add(filepath.Dir(w.fileName))
	if nil != err {
		w.log.Errorf("watch: %q  error: %s", w.fileName, err)
		<-shutdown
		return
	}

	timer := time.NewTimer(reloadDelay)
	timer.Stop()
	defer timer.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event := <-watcher.Events:
			if w.isChange(event) {
				w.log.Debugf("event: %s", event)
				timer.Reset(reloadDelay)
			}

		case err := <-watcher.Errors:
			w.log.Errorf("watcher error: %s", err)

		case <-timer.C:
			w.reload()
		}
	}
}
