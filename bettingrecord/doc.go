// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bettingrecord - betting state records and their binary form
//
// Every key and value stored in a betting table implements
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler.
//
// Notes:
// 1. fixed width integers in keys are big endian so that LevelDB key
//    order is numeric order
// 2. integers in values are Varint64 (see util.ToVarint64)
// 3. maps are packed in ascending key order, so packing the same
//    record gives identical bytes on every node
//
// Keys:
//
//   EventKey          - event id (4 bytes)
//   BettingUndoKey    - txId (32 bytes) ++ output (4 bytes)
//   FailedTxKey       - txId (32 bytes)
//   MappingKey        - mapping type (4 bytes) ++ id (4 bytes)
//   StringKey         - raw bytes, only used for "LastHeight"
//
// Values:
//
//   FieldEvent        - id ++ start time ++ sport ++ tournament ++ stage ++
//                       group type ++ margin ++ count ++ [ contender id ++ ContenderInfo ]
//   UndoRecord        - count ++ [ UndoFragment ]
//   UndoFragment      - kind ++ height ++ event id ++ present(0|1) [ ++ length ++ FieldEvent ]
//   Height            - height
//   Marker            - single zero byte
//   MappingName       - length ++ utf-8 bytes
package bettingrecord
