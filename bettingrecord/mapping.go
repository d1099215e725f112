// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bettingrecord

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/bettingd/bettingd/fault"
)

// MappingType - discriminates the entries of the mappings table
type MappingType int32

// possible mapping types
const (
	SportMapping MappingType = iota + 1
	RoundMapping
	TeamMapping
	TournamentMapping
	IndividualSportMapping
	ContenderMapping

	// InvalidMapping - result for an unknown name
	InvalidMapping MappingType = -1
)

var mappingNames = []struct {
	mappingType MappingType
	name        string
}{
	{SportMapping, "sports"},
	{RoundMapping, "rounds"},
	{TeamMapping, "teamnames"},
	{TournamentMapping, "tournaments"},
	{IndividualSportMapping, "individualSports"},
	{ContenderMapping, "contenders"},
}

// ToTypeName - name of a mapping type, empty if unknown
func (m MappingType) ToTypeName() string {
	for _, n := range mappingNames {
		if n.mappingType == m {
			return n.name
		}
	}
	return ""
}

func (m MappingType) String() string {
	return m.ToTypeName()
}

// FromTypeName - mapping type of a name, InvalidMapping if unknown
func FromTypeName(name string) MappingType {
	for _, n := range mappingNames {
		if n.name == name {
			return n.mappingType
		}
	}
	return InvalidMapping
}

// MappingKey - key of the mappings table
type MappingKey struct {
	Type MappingType
	ID   uint32
}

// MarshalBinary - type ++ id
func (k MappingKey) MarshalBinary() ([]byte, error) {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint32(buffer, uint32(k.Type))
	binary.BigEndian.PutUint32(buffer[4:], k.ID)
	return buffer, nil
}

// UnmarshalBinary - inverse of MarshalBinary
func (k *MappingKey) UnmarshalBinary(data []byte) error {
	if 8 != len(data) {
		return fault.ErrWrongKeyLength
	}
	k.Type = MappingType(binary.BigEndian.Uint32(data))
	k.ID = binary.BigEndian.Uint32(data[4:])
	return nil
}

// MappingName - value of the mappings table
type MappingName string

// MarshalBinary - length ++ bytes
func (m MappingName) MarshalBinary() ([]byte, error) {
	return Packed{}.appendBytes([]byte(m)), nil
}

// UnmarshalBinary - inverse of MarshalBinary
func (m *MappingName) UnmarshalBinary(data []byte) error {
	u := unpacker{record: data}
	name := u.bytes()
	if err := u.finish(); nil != err {
		return err
	}
	if !utf8.Valid(name) {
		return fault.ErrWrongRecordType
	}
	*m = MappingName(name)
	return nil
}
