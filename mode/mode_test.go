// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mode_test

import (
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bettingd/bettingd/chain"
	"github.com/bettingd/bettingd/fault"
	"github.com/bettingd/bettingd/mode"
)

const (
	testingDirName = "testing"
)

func TestMain(m *testing.M) {
	_ = os.RemoveAll(testingDirName)
	_ = os.Mkdir(testingDirName, 0o700)
	_ = logger.Initialise(logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	})

	result := m.Run()

	logger.Finalise()
	_ = os.RemoveAll(testingDirName)
	os.Exit(result)
}

func TestModeLifecycle(t *testing.T) {
	assert.Equal(t, fault.ErrNotInitialised, mode.Finalise(), "finalise before initialise")
	assert.Equal(t, fault.ErrInvalidChain, mode.Initialise("bitmark"), "invalid chain")

	assert.Nil(t, mode.Initialise(chain.Local), "initialise")
	assert.Equal(t, fault.ErrAlreadyInitialised, mode.Initialise(chain.Local), "initialise twice")

	assert.True(t, mode.Is(mode.Importing), "starts importing")
	assert.True(t, mode.IsTesting(), "local is testing")
	assert.Equal(t, chain.Local, mode.ChainName(), "chain name")

	mode.Set(mode.Normal)
	assert.True(t, mode.Is(mode.Normal), "normal")
	assert.True(t, mode.IsNot(mode.Importing), "not importing")
	assert.Equal(t, "Normal", mode.String(), "string")

	// out of range is ignored
	mode.Set(mode.Mode(99))
	assert.True(t, mode.Is(mode.Normal), "still normal")

	assert.Nil(t, mode.Finalise(), "finalise")
	assert.True(t, mode.Is(mode.Stopped), "stopped")
}
