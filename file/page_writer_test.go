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

package file

import (
	"testing"

	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zdblabs/parquet"
	"github.com/zdblabs/parquet/compress"
	enc "github.com/zdblabs/parquet/internal/encoding"
	"github.com/zdblabs/parquet/internal/format"
	"github.com/zdblabs/parquet/internal/thrift"
	"github.com/zdblabs/parquet/metadata"
	"github.com/zdblabs/parquet/schema"
)

func testChunkBuilder(t *testing.T) *metadata.ColumnChunkMetaDataBuilder {
	t.Helper()
	props := parquet.NewWriterProperties()
	root, err := schema.NewGroupNode("schema", parquet.Repetitions.Repeated,
		schema.FieldList{schema.NewInt64Node("a", parquet.Repetitions.Required)})
	require.NoError(t, err)
	sc := schema.NewSchema(root)
	return metadata.NewColumnChunkMetaDataBuilder(props, sc.Column(0))
}

func TestPageWriterHeaderAndPayload(t *testing.T) {
	sink := enc.NewBufferWriter(0, memory.DefaultAllocator)
	bldr := testChunkBuilder(t)

	pw, err := newSerializedPageWriter(sink, compress.Codecs.Uncompressed,
		compress.DefaultCompressionLevel, bldr)
	require.NoError(t, err)

	payload := enc.PlainInt64(nil, []int64{10, 20, 30})
	written, err := pw.WriteDataPage(dataPage{numValues: 3, encoding: parquet.Encodings.Plain, buf: payload})
	require.NoError(t, err)

	data := sink.Bytes()
	assert.EqualValues(t, len(data), written)

	var hdr format.PageHeader
	remain, err := thrift.DeserializeThrift(&hdr, data)
	require.NoError(t, err)

	assert.Equal(t, format.PageTypeDataPage, hdr.Type)
	assert.EqualValues(t, len(payload), hdr.UncompressedPageSize)
	assert.EqualValues(t, len(payload), hdr.CompressedPageSize)
	require.NotNil(t, hdr.DataPageHeader)
	assert.EqualValues(t, 3, hdr.DataPageHeader.NumValues)
	assert.EqualValues(t, parquet.Encodings.Plain, hdr.DataPageHeader.Encoding)

	// whatever follows the header is the plain encoded payload
	assert.Equal(t, payload, data[len(data)-int(remain):])
	assert.Equal(t, payload, data[len(data)-len(payload):])

	assert.EqualValues(t, 3, pw.NumValues())
	assert.Equal(t, written, pw.TotalCompressed())
	assert.Equal(t, written, pw.TotalUncompressed())
}

func TestPageWriterCompressesPayload(t *testing.T) {
	sink := enc.NewBufferWriter(0, memory.DefaultAllocator)
	bldr := testChunkBuilder(t)

	pw, err := newSerializedPageWriter(sink, compress.Codecs.Gzip,
		compress.DefaultCompressionLevel, bldr)
	require.NoError(t, err)

	values := make([]int64, 4096)
	payload := enc.PlainInt64(nil, values)
	_, err = pw.WriteDataPage(dataPage{numValues: int32(len(values)), encoding: parquet.Encodings.Plain, buf: payload})
	require.NoError(t, err)

	var hdr format.PageHeader
	_, err = thrift.DeserializeThrift(&hdr, sink.Bytes())
	require.NoError(t, err)
	assert.EqualValues(t, len(payload), hdr.UncompressedPageSize)
	assert.Less(t, hdr.CompressedPageSize, hdr.UncompressedPageSize)
	assert.Less(t, pw.TotalCompressed(), pw.TotalUncompressed())
}

func TestPageWriterRecordsFirstPageOffset(t *testing.T) {
	sink := enc.NewBufferWriter(0, memory.DefaultAllocator)
	// simulate data already on the sink
	_, err := sink.Write(make([]byte, 100))
	require.NoError(t, err)

	bldr := testChunkBuilder(t)
	pw, err := newSerializedPageWriter(sink, compress.Codecs.Uncompressed,
		compress.DefaultCompressionLevel, bldr)
	require.NoError(t, err)

	first := enc.PlainInt64(nil, []int64{1})
	_, err = pw.WriteDataPage(dataPage{numValues: 1, encoding: parquet.Encodings.Plain, buf: first})
	require.NoError(t, err)
	_, err = pw.WriteDataPage(dataPage{numValues: 1, encoding: parquet.Encodings.Plain, buf: first})
	require.NoError(t, err)

	require.NoError(t, pw.Close(parquet.Encodings.Plain))

	chunk := metadata.NewColumnChunkMetaData(bldr.Contents(), bldr.Descr())
	// only the first page sets the chunk's data page offset
	assert.EqualValues(t, 100, chunk.DataPageOffset())
	assert.EqualValues(t, 2, chunk.NumValues())
	assert.Equal(t, pw.TotalCompressed(), chunk.TotalCompressedSize())
}
