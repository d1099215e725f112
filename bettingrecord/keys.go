// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bettingrecord

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/bettingd/bettingd/fault"
)

// DigestLength - number of bytes in a transaction digest
const DigestLength = 32

// Digest - SHA3-256 of a packed transaction, identifies the transaction
type Digest [DigestLength]byte

// NewDigest - digest of packed transaction bytes
func NewDigest(packedTransaction []byte) Digest {
	return Digest(sha3.Sum256(packedTransaction))
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// BettingUndoKey - addresses the undo record of one transaction output
type BettingUndoKey struct {
	TxID   Digest
	Output uint32
}

const bettingUndoKeyLength = DigestLength + 4

// NewBettingUndoKey - undo key of a packed transaction output
func NewBettingUndoKey(packedTransaction []byte, output uint32) BettingUndoKey {
	return BettingUndoKey{
		TxID:   NewDigest(packedTransaction),
		Output: output,
	}
}

// MarshalBinary - txId ++ output
func (k BettingUndoKey) MarshalBinary() ([]byte, error) {
	buffer := make([]byte, bettingUndoKeyLength)
	copy(buffer, k.TxID[:])
	binary.BigEndian.PutUint32(buffer[DigestLength:], k.Output)
	return buffer, nil
}

// UnmarshalBinary - inverse of MarshalBinary
func (k *BettingUndoKey) UnmarshalBinary(data []byte) error {
	if bettingUndoKeyLength != len(data) {
		return fault.ErrWrongKeyLength
	}
	copy(k.TxID[:], data[:DigestLength])
	k.Output = binary.BigEndian.Uint32(data[DigestLength:])
	return nil
}

// FailedTxKey - marks a transaction known to fail validation
type FailedTxKey struct {
	TxID Digest
}

// NewFailedTxKey - failed transaction key of a packed transaction
func NewFailedTxKey(packedTransaction []byte) FailedTxKey {
	return FailedTxKey{TxID: NewDigest(packedTransaction)}
}

// MarshalBinary - txId
func (k FailedTxKey) MarshalBinary() ([]byte, error) {
	buffer := make([]byte, DigestLength)
	copy(buffer, k.TxID[:])
	return buffer, nil
}

// UnmarshalBinary - inverse of MarshalBinary
func (k *FailedTxKey) UnmarshalBinary(data []byte) error {
	if DigestLength != len(data) {
		return fault.ErrWrongKeyLength
	}
	copy(k.TxID[:], data)
	return nil
}

// EventKey - key of the event tables
type EventKey uint32

// MarshalBinary - big endian id
func (k EventKey) MarshalBinary() ([]byte, error) {
	buffer := make([]byte, 4)
	binary.BigEndian.PutUint32(buffer, uint32(k))
	return buffer, nil
}

// UnmarshalBinary - inverse of MarshalBinary
func (k *EventKey) UnmarshalBinary(data []byte) error {
	if 4 != len(data) {
		return fault.ErrWrongKeyLength
	}
	*k = EventKey(binary.BigEndian.Uint32(data))
	return nil
}

// StringKey - a named singleton entry
type StringKey string

// LastHeightKey - undo table entry holding the last processed height
const LastHeightKey = StringKey("LastHeight")

// MarshalBinary - raw bytes
func (k StringKey) MarshalBinary() ([]byte, error) {
	return []byte(k), nil
}

// UnmarshalBinary - inverse of MarshalBinary
func (k *StringKey) UnmarshalBinary(data []byte) error {
	*k = StringKey(data)
	return nil
}
