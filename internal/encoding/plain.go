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

package encoding

import (
	"encoding/binary"
	"math"

	"github.com/zdblabs/parquet"
)

// PlainInt32 appends the little endian plain encoding of values to buf
func PlainInt32(buf []byte, values []int32) []byte {
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
	}
	return buf
}

// PlainInt64 appends the little endian plain encoding of values to buf
func PlainInt64(buf []byte, values []int64) []byte {
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(v))
	}
	return buf
}

// PlainFloat32 appends the little endian plain encoding of values to buf
func PlainFloat32(buf []byte, values []float32) []byte {
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}

// PlainFloat64 appends the little endian plain encoding of values to buf
func PlainFloat64(buf []byte, values []float64) []byte {
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}
	return buf
}

// PlainBoolean appends the bit packed plain encoding of values to buf,
// least significant bit first as the format requires. The packing always
// starts on a fresh byte; callers encode a column's values in one call.
func PlainBoolean(buf []byte, values []bool) []byte {
	var (
		current byte
		bit     uint
	)
	for _, v := range values {
		if v {
			current |= 1 << bit
		}
		bit++
		if bit == 8 {
			buf = append(buf, current)
			current, bit = 0, 0
		}
	}
	if bit > 0 {
		buf = append(buf, current)
	}
	return buf
}

// PlainByteArray appends the plain encoding of values to buf: a 4 byte
// little endian length prefix followed by the raw bytes for each value.
func PlainByteArray(buf []byte, values []parquet.ByteArray) []byte {
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(v)))
		buf = append(buf, v...)
	}
	return buf
}

// PlainFixedLenByteArray appends the raw bytes of each value to buf; the
// width is fixed by the column descriptor so no prefix is written.
func PlainFixedLenByteArray(buf []byte, values []parquet.FixedLenByteArray) []byte {
	for _, v := range values {
		buf = append(buf, v...)
	}
	return buf
}
