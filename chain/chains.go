// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chain - names of the block chains a node can follow
//
// each chain keeps its betting state below its own subdirectory of the
// data directory so a testing node never reads live state
package chain

import (
	"path/filepath"
)

// names of all chains
const (
	Live    = "live"
	Testing = "testing"
	Local   = "local"
)

// Valid - validate a chain name
func Valid(name string) bool {
	switch name {
	case Live, Testing, Local:
		return true
	default:
		return false
	}
}

// IsTesting - chains whose state can be discarded
func IsTesting(name string) bool {
	return Testing == name || Local == name
}

// DataDirectory - state directory of a chain below the data directory
func DataDirectory(dataDirectory string, name string) string {
	return filepath.Join(dataDirectory, name)
}
