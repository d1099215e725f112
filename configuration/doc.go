// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - parse a Lua configuration file
//
// the file is executed as a Lua chunk and must return a table, which
// is mapped onto a Go structure using gluamapper tags.  Most of base
// Lua is available such as reading files to set key data and getenv
// to extract environment supplied items.
//
// a minimal configuration:
//
//   local M = {}
//   M.data_directory = "."
//   M.chain = "testing"
//   return M
package configuration
