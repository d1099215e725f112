// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised      = ExistsError("already initialised")
	ErrBlockOutOfSequence      = InvalidError("block is out of sequence")
	ErrCorruptUndoRecord       = RecordError("corrupt undo record")
	ErrDatabaseIsReadOnly      = ProcessError("database is read only")
	ErrDuplicateTransaction    = InvalidError("transaction already applied")
	ErrEmptyUndoRecord         = RecordError("undo record has no fragments")
	ErrFieldEventExists        = InvalidError("field event already exists")
	ErrFieldEventNotFound      = InvalidError("field event not found")
	ErrFlushFailed             = ProcessError("flush failed")
	ErrHeightDecrease          = InvalidError("height must not decrease")
	ErrInvalidChain            = InvalidError("invalid chain")
	ErrInvalidConfiguration    = InvalidError("invalid configuration")
	ErrInvalidDataDirectory    = InvalidError("invalid data directory")
	ErrInvalidGroupType        = InvalidError("invalid field event group type")
	ErrInvalidMargin           = InvalidError("margin percent must be in range 0..100")
	ErrInvalidStructPointer    = InvalidError("invalid struct pointer")
	ErrInvalidTable            = InvalidError("invalid table definition")
	ErrInvalidTransaction      = InvalidError("invalid transaction")
	ErrKeyExists               = ExistsError("key already exists")
	ErrKeyNotFound             = NotFoundError("key not found")
	ErrMissingParameters       = InvalidError("missing parameters")
	ErrNilDatabase             = ProcessError("database is not open")
	ErrNoContenders            = InvalidError("field event has no contenders")
	ErrNotInitialised          = NotFoundError("not initialised")
	ErrTruncatedRecord         = LengthError("record is truncated")
	ErrTrailingData            = LengthError("record has trailing data")
	ErrUnknownUndoKind         = RecordError("unknown undo kind")
	ErrUnknownTransactionType  = InvalidError("unknown transaction type")
	ErrWrongKeyLength          = LengthError("key length is invalid")
	ErrWrongRecordType         = RecordError("wrong record type")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RecordError) Error() string   { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrLength(e error) bool   { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
func IsErrRecord(e error) bool   { _, ok := e.(RecordError); return ok }
