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
	"testing"

	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zdblabs/parquet"
)

func TestPlainFixedWidth(t *testing.T) {
	buf := PlainInt32(nil, []int32{1, -1})
	require.Len(t, buf, 8)
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf))
	assert.Equal(t, uint32(math.MaxUint32), binary.LittleEndian.Uint32(buf[4:]))

	buf = PlainInt64(nil, []int64{math.MinInt64})
	require.Len(t, buf, 8)
	assert.Equal(t, uint64(1)<<63, binary.LittleEndian.Uint64(buf))

	buf = PlainFloat32(nil, []float32{1.5})
	require.Len(t, buf, 4)
	assert.Equal(t, math.Float32bits(1.5), binary.LittleEndian.Uint32(buf))

	buf = PlainFloat64(nil, []float64{-2.25})
	require.Len(t, buf, 8)
	assert.Equal(t, math.Float64bits(-2.25), binary.LittleEndian.Uint64(buf))
}

func TestPlainBooleanBitPacking(t *testing.T) {
	// LSB first within each byte
	buf := PlainBoolean(nil, []bool{true, false, true, true})
	require.Len(t, buf, 1)
	assert.Equal(t, byte(0b1101), buf[0])

	buf = PlainBoolean(nil, make([]bool, 9))
	assert.Len(t, buf, 2)

	assert.Empty(t, PlainBoolean(nil, nil))
}

func TestPlainByteArray(t *testing.T) {
	buf := PlainByteArray(nil, []parquet.ByteArray{[]byte("hi"), {}, []byte("x")})
	expected := []byte{2, 0, 0, 0, 'h', 'i', 0, 0, 0, 0, 1, 0, 0, 0, 'x'}
	assert.Equal(t, expected, buf)

	buf = PlainFixedLenByteArray(nil, []parquet.FixedLenByteArray{{1, 2}, {3, 4}})
	assert.Equal(t, []byte{1, 2, 3, 4}, buf)
}

func TestPlainAppendsToExisting(t *testing.T) {
	buf := PlainInt32([]byte{0xff}, []int32{1})
	require.Len(t, buf, 5)
	assert.Equal(t, byte(0xff), buf[0])
}

func TestBufferWriter(t *testing.T) {
	w := NewBufferWriter(16, memory.DefaultAllocator)
	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.EqualValues(t, 5, w.Tell())
	assert.Equal(t, []byte("hello"), w.Bytes())

	_, err = w.Write([]byte(" world"))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), w.Bytes())

	buf := w.Finish()
	defer buf.Release()
	assert.Equal(t, []byte("hello world"), buf.Bytes())
	assert.Zero(t, w.Tell())
}
