// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package betting

import (
	"github.com/bettingd/bettingd/bettingrecord"
	"github.com/bettingd/bettingd/fault"
)

// SaveMapping - store the display name of a sport, tournament, round,
// contender or other mapped id
func (view *View) SaveMapping(key bettingrecord.MappingKey, name string) error {
	if "" == key.Type.ToTypeName() {
		return fault.ErrInvalidTransaction
	}
	return view.Mappings.Upsert(key, bettingrecord.MappingName(name))
}

// ReadMapping - display name of a mapped id
func (view *View) ReadMapping(key bettingrecord.MappingKey) (string, bool, error) {
	var name bettingrecord.MappingName
	found, err := view.Mappings.Read(key, &name)
	if nil != err || !found {
		return "", false, err
	}
	return string(name), true, nil
}
