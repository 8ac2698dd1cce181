// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parquet

import (
	"strings"
	"unsafe"
)

// Type is the physical type of a column as stored on disk. The numeric
// values match the thrift Type enum of the parquet format so they can be
// written into footer structures directly.
type Type int

// Types provides namespaced enum values for the physical types
var Types = struct {
	Boolean           Type
	Int32             Type
	Int64             Type
	Int96             Type
	Float             Type
	Double            Type
	ByteArray         Type
	FixedLenByteArray Type
}{
	Boolean:           Type(0),
	Int32:             Type(1),
	Int64:             Type(2),
	Int96:             Type(3),
	Float:             Type(4),
	Double:            Type(5),
	ByteArray:         Type(6),
	FixedLenByteArray: Type(7),
}

func (t Type) String() string {
	switch t {
	case Types.Boolean:
		return "BOOLEAN"
	case Types.Int32:
		return "INT32"
	case Types.Int64:
		return "INT64"
	case Types.Int96:
		return "INT96"
	case Types.Float:
		return "FLOAT"
	case Types.Double:
		return "DOUBLE"
	case Types.ByteArray:
		return "BYTE_ARRAY"
	case Types.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	}
	return "UNKNOWN"
}

// ByteSize returns the fixed width in bytes for the type, or -1 for the
// variable length types.
func (t Type) ByteSize() int {
	switch t {
	case Types.Boolean:
		return 1
	case Types.Int32, Types.Float:
		return 4
	case Types.Int64, Types.Double:
		return 8
	case Types.Int96:
		return 12
	}
	return -1
}

// Repetition is the underlying thrift FieldRepetitionType for schema nodes
type Repetition int

// Repetitions provides the namespaced enum values for field repetition
var Repetitions = struct {
	Required Repetition
	Optional Repetition
	Repeated Repetition
}{
	Required: Repetition(0),
	Optional: Repetition(1),
	Repeated: Repetition(2),
}

func (r Repetition) String() string {
	return [...]string{"REQUIRED", "OPTIONAL", "REPEATED"}[r]
}

// Encoding is the thrift encoding enum for column data. Only the encodings
// produced by the writers in this module are enumerated; the values match
// the format spec so other encodings can be represented when reading
// foreign metadata.
type Encoding int

// Encodings provides the namespaced enum values for data encodings
var Encodings = struct {
	Plain     Encoding
	PlainDict Encoding
	RLE       Encoding
	RLEDict   Encoding
}{
	Plain:     Encoding(0),
	PlainDict: Encoding(2),
	RLE:       Encoding(3),
	RLEDict:   Encoding(8),
}

func (e Encoding) String() string {
	switch e {
	case Encodings.Plain:
		return "PLAIN"
	case Encodings.PlainDict:
		return "PLAIN_DICTIONARY"
	case Encodings.RLE:
		return "RLE"
	case Encodings.RLEDict:
		return "RLE_DICTIONARY"
	}
	return "UNKNOWN"
}

// Version is the parquet format version to stamp into the footer
type Version int8

// Constants for the parquet format versions
const (
	V1_0 Version = iota
	V2_4
	V2_6
	V2_LATEST = V2_6
)

// FormatVersion returns the integer written into the footer's version field.
func (v Version) FormatVersion() int32 {
	if v == V1_0 {
		return 1
	}
	return 2
}

// ColumnPath is the path from the root of the schema to a leaf column,
// represented as the list of intermediate node names.
type ColumnPath []string

func (c ColumnPath) String() string { return strings.Join(c, ".") }

// ColumnPathFromString constructs a ColumnPath from a dotted path string
func ColumnPathFromString(s string) ColumnPath { return strings.Split(s, ".") }

// Extend returns a new path with the given node name appended; the receiver
// is not modified.
func (c ColumnPath) Extend(s string) ColumnPath {
	p := make([]string, len(c), len(c)+1)
	copy(p, c)
	return append(p, s)
}

// ByteArray represents the BYTE_ARRAY physical type, a variable length
// byte string.
type ByteArray []byte

// Len returns the current length of the ByteArray, equivalent to len(bytearray)
func (b ByteArray) Len() int { return len(b) }

// String returns a string representation of the ByteArray
func (b ByteArray) String() string { return *(*string)(unsafe.Pointer(&b)) }

// FixedLenByteArray represents the FIXED_LEN_BYTE_ARRAY physical type as a
// byte slice whose length is fixed by the column descriptor.
type FixedLenByteArray []byte

// Len returns the current length of this FixedLenByteArray
func (b FixedLenByteArray) Len() int { return len(b) }

// String returns a string representation of the FixedLenByteArray
func (b FixedLenByteArray) String() string { return *(*string)(unsafe.Pointer(&b)) }
