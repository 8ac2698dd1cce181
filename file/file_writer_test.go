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

package file_test

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/zdblabs/parquet"
	"github.com/zdblabs/parquet/compress"
	"github.com/zdblabs/parquet/file"
	"github.com/zdblabs/parquet/internal/encoding"
	"github.com/zdblabs/parquet/metadata"
	"github.com/zdblabs/parquet/schema"
)

func int64Schema(t *testing.T, numCols int) *schema.GroupNode {
	t.Helper()
	fields := make(schema.FieldList, numCols)
	for i := range fields {
		fields[i] = schema.NewInt64Node(fmt.Sprintf("col%d", i), parquet.Repetitions.Required)
	}
	root, err := schema.NewGroupNode("schema", parquet.Repetitions.Repeated, fields)
	require.NoError(t, err)
	return root
}

func colValues(rg, col, nrows int) []int64 {
	vals := make([]int64, nrows)
	for i := range vals {
		vals[i] = int64(rg*1000000 + col*1000 + i)
	}
	return vals
}

type SerializeSuite struct {
	suite.Suite

	numCols      int
	numRowGroups int
	rowsPerRG    int

	sink *encoding.BufferWriter
	root *schema.GroupNode
}

func (s *SerializeSuite) SetupTest() {
	s.numCols = 4
	s.numRowGroups = 4
	s.rowsPerRG = 50
	s.sink = encoding.NewBufferWriter(0, memory.DefaultAllocator)
	s.root = int64Schema(s.T(), s.numCols)
}

func (s *SerializeSuite) serialize(codec compress.Compression) []byte {
	props := parquet.NewWriterProperties(parquet.WithCompression(codec))
	writer, err := file.NewWriter(s.sink, s.root, file.WithWriterProps(props))
	s.Require().NoError(err)

	for rg := 0; rg < s.numRowGroups; rg++ {
		rgw, err := writer.AppendRowGroup()
		s.Require().NoError(err)
		for col := 0; col < s.numCols; col++ {
			cw, err := rgw.NextColumn()
			s.Require().NoError(err)
			s.Require().NoError(cw.(*file.Int64ColumnChunkWriter).WriteBatch(colValues(rg, col, s.rowsPerRG)))
		}
		s.Require().NoError(rgw.Close())
	}
	s.Require().NoError(writer.Close())
	return s.sink.Bytes()
}

func (s *SerializeSuite) verify(data []byte, codec compress.Compression) {
	s.Equal("PAR1", string(data[:4]))
	s.Equal("PAR1", string(data[len(data)-4:]))

	fileMetadata, err := file.ReadFileMetaData(data)
	s.Require().NoError(err)

	s.Equal(s.numCols, fileMetadata.NumColumns())
	s.Equal(s.numRowGroups, fileMetadata.NumRowGroups())
	s.EqualValues(s.numRowGroups*s.rowsPerRG, fileMetadata.NumRows())

	for rg := 0; rg < s.numRowGroups; rg++ {
		rgMeta := fileMetadata.RowGroup(rg)
		s.Equal(s.numCols, rgMeta.NumColumns())
		s.EqualValues(s.rowsPerRG, rgMeta.NumRows())
		s.EqualValues(rg, rgMeta.Ordinal())

		for col := 0; col < s.numCols; col++ {
			chunk, err := rgMeta.ColumnChunk(col)
			s.Require().NoError(err)
			s.Equal(codec, chunk.Compression())
			s.EqualValues(s.rowsPerRG, chunk.NumValues())
			s.False(chunk.HasDictionaryPage())
			s.Greater(chunk.DataPageOffset(), int64(0))
			s.Less(chunk.DataPageOffset(), int64(len(data)))
			s.Equal([]parquet.Encoding{parquet.Encodings.Plain}, chunk.Encodings())
		}
	}
}

func (s *SerializeSuite) TestUncompressed() {
	s.verify(s.serialize(compress.Codecs.Uncompressed), compress.Codecs.Uncompressed)
}

func (s *SerializeSuite) TestSnappy() {
	s.verify(s.serialize(compress.Codecs.Snappy), compress.Codecs.Snappy)
}

func (s *SerializeSuite) TestGzip() {
	s.verify(s.serialize(compress.Codecs.Gzip), compress.Codecs.Gzip)
}

func (s *SerializeSuite) TestZstd() {
	s.verify(s.serialize(compress.Codecs.Zstd), compress.Codecs.Zstd)
}

func (s *SerializeSuite) TestBrotli() {
	s.verify(s.serialize(compress.Codecs.Brotli), compress.Codecs.Brotli)
}

func (s *SerializeSuite) TestLz4() {
	s.verify(s.serialize(compress.Codecs.Lz4), compress.Codecs.Lz4)
}

func TestSerialize(t *testing.T) {
	suite.Run(t, new(SerializeSuite))
}

func TestFooterLengthField(t *testing.T) {
	sink := encoding.NewBufferWriter(0, memory.DefaultAllocator)
	writer, err := file.NewWriter(sink, int64Schema(t, 1))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	data := sink.Bytes()
	metaLen := binary.LittleEndian.Uint32(data[len(data)-8 : len(data)-4])
	// leading magic + metadata + length field + trailing magic
	assert.EqualValues(t, len(data), 4+int(metaLen)+8)
}

func TestCloseIdempotent(t *testing.T) {
	sink := encoding.NewBufferWriter(0, memory.DefaultAllocator)
	writer, err := file.NewWriter(sink, int64Schema(t, 1))
	require.NoError(t, err)

	require.NoError(t, writer.Close())
	size := len(sink.Bytes())
	require.NoError(t, writer.Close())
	assert.Equal(t, size, len(sink.Bytes()))

	_, err = writer.AppendRowGroup()
	assert.ErrorIs(t, err, parquet.ErrState)
}

func TestEmptyFileMetadata(t *testing.T) {
	sink := encoding.NewBufferWriter(0, memory.DefaultAllocator)
	writer, err := file.NewWriter(sink, int64Schema(t, 2))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	fileMetadata, err := file.ReadFileMetaData(sink.Bytes())
	require.NoError(t, err)
	assert.Zero(t, fileMetadata.NumRows())
	assert.Zero(t, fileMetadata.NumRowGroups())
	assert.Equal(t, 2, fileMetadata.NumColumns())
	assert.Equal(t, parquet.DefaultCreatedBy, fileMetadata.CreatedBy())
}

func TestEmptyRowGroup(t *testing.T) {
	sink := encoding.NewBufferWriter(0, memory.DefaultAllocator)
	writer, err := file.NewWriter(sink, int64Schema(t, 2))
	require.NoError(t, err)

	rgw, err := writer.AppendRowGroup()
	require.NoError(t, err)
	for col := 0; col < 2; col++ {
		_, err := rgw.NextColumn()
		require.NoError(t, err)
	}
	require.NoError(t, rgw.Close())
	require.NoError(t, writer.Close())

	fileMetadata, err := file.ReadFileMetaData(sink.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 1, fileMetadata.NumRowGroups())
	assert.Zero(t, fileMetadata.NumRows())

	// even an empty chunk carries a page
	chunk, err := fileMetadata.RowGroup(0).ColumnChunk(0)
	require.NoError(t, err)
	assert.Zero(t, chunk.NumValues())
	assert.Greater(t, chunk.TotalCompressedSize(), int64(0))
}

func TestUnequalRowCounts(t *testing.T) {
	writer, err := file.NewWriter(encoding.NewBufferWriter(0, memory.DefaultAllocator), int64Schema(t, 2))
	require.NoError(t, err)

	rgw, err := writer.AppendRowGroup()
	require.NoError(t, err)

	cw, err := rgw.NextColumn()
	require.NoError(t, err)
	require.NoError(t, cw.(*file.Int64ColumnChunkWriter).WriteBatch([]int64{1, 2, 3}))

	cw, err = rgw.NextColumn()
	require.NoError(t, err)
	require.NoError(t, cw.(*file.Int64ColumnChunkWriter).WriteBatch([]int64{1, 2}))

	err = rgw.Close()
	assert.ErrorIs(t, err, parquet.ErrDataConsistency)
	assert.Contains(t, err.Error(), "column 1")
}

func TestTooManyColumns(t *testing.T) {
	writer, err := file.NewWriter(encoding.NewBufferWriter(0, memory.DefaultAllocator), int64Schema(t, 1))
	require.NoError(t, err)

	rgw, err := writer.AppendRowGroup()
	require.NoError(t, err)
	_, err = rgw.NextColumn()
	require.NoError(t, err)

	_, err = rgw.NextColumn()
	assert.ErrorIs(t, err, parquet.ErrSequence)
	// the sequencing error must not have finalized the current column
	assert.Equal(t, 0, rgw.CurrentColumn())
}

func TestRowGroupRowsVisibleAfterFirstChunk(t *testing.T) {
	writer, err := file.NewWriter(encoding.NewBufferWriter(0, memory.DefaultAllocator), int64Schema(t, 2))
	require.NoError(t, err)

	rgw, err := writer.AppendRowGroup()
	require.NoError(t, err)
	assert.Zero(t, rgw.NumRows())

	cw, err := rgw.NextColumn()
	require.NoError(t, err)
	require.NoError(t, cw.(*file.Int64ColumnChunkWriter).WriteBatch([]int64{1, 2, 3}))
	// the count is established when the first chunk finalizes
	assert.Zero(t, rgw.NumRows())

	_, err = rgw.NextColumn()
	require.NoError(t, err)
	assert.EqualValues(t, 3, rgw.NumRows())
}

func TestKeyValueMetadata(t *testing.T) {
	sink := encoding.NewBufferWriter(0, memory.DefaultAllocator)
	kv := metadata.KeyValueMetadataFrom("origin", "unit-test")
	writer, err := file.NewWriter(sink, int64Schema(t, 1), file.WithWriteMetadata(kv))
	require.NoError(t, err)
	require.NoError(t, writer.AppendKeyValueMetadata("stage", "final"))
	require.NoError(t, writer.Close())

	fileMetadata, err := file.ReadFileMetaData(sink.Bytes())
	require.NoError(t, err)
	got := fileMetadata.KeyValueMetadata()
	assert.Equal(t, 2, got.Len())
	require.NotNil(t, got.FindValue("origin"))
	assert.Equal(t, "unit-test", *got.FindValue("origin"))
	require.NotNil(t, got.FindValue("stage"))
	assert.Equal(t, "final", *got.FindValue("stage"))
}

// writeSimpleFile writes a single row group file over the given values
// with the provided key/value pairs and returns the raw bytes.
func writeSimpleFile(t *testing.T, root *schema.GroupNode, values []int64, kvs ...string) []byte {
	t.Helper()
	sink := encoding.NewBufferWriter(0, memory.DefaultAllocator)
	writer, err := file.NewWriter(sink, root)
	require.NoError(t, err)
	for i := 0; i < len(kvs); i += 2 {
		require.NoError(t, writer.AppendKeyValueMetadata(kvs[i], kvs[i+1]))
	}
	rgw, err := writer.AppendRowGroup()
	require.NoError(t, err)
	cw, err := rgw.NextColumn()
	require.NoError(t, err)
	require.NoError(t, cw.(*file.Int64ColumnChunkWriter).WriteBatch(values))
	require.NoError(t, writer.Close())
	return sink.Bytes()
}

func TestAppendMergesFooter(t *testing.T) {
	root := int64Schema(t, 1)
	first := writeSimpleFile(t, root, []int64{1, 2}, "origin", "first", "shared", "old")

	prior, err := file.ReadFileMetaData(first)
	require.NoError(t, err)

	// continue on a sink seeded with the first file stripped of its footer
	metaLen := binary.LittleEndian.Uint32(first[len(first)-8 : len(first)-4])
	dataRegion := first[:len(first)-8-int(metaLen)]

	sink := encoding.NewBufferWriter(0, memory.DefaultAllocator)
	_, err = sink.Write(dataRegion)
	require.NoError(t, err)

	writer, err := file.NewAppendingWriter(sink, root, prior)
	require.NoError(t, err)
	require.NoError(t, writer.AppendKeyValueMetadata("shared", "new"))
	require.NoError(t, writer.AppendKeyValueMetadata("extra", "x"))

	rgw, err := writer.AppendRowGroup()
	require.NoError(t, err)
	cw, err := rgw.NextColumn()
	require.NoError(t, err)
	require.NoError(t, cw.(*file.Int64ColumnChunkWriter).WriteBatch([]int64{3, 4, 5}))
	require.NoError(t, writer.Close())

	combined := sink.Bytes()
	assert.Equal(t, "PAR1", string(combined[:4]))
	assert.Equal(t, "PAR1", string(combined[len(combined)-4:]))

	merged, err := file.ReadFileMetaData(combined)
	require.NoError(t, err)

	assert.Equal(t, 2, merged.NumRowGroups())
	assert.EqualValues(t, 5, merged.NumRows())

	// the prior row group record is carried over untouched
	priorRG, mergedRG := prior.RowGroup(0), merged.RowGroup(0)
	assert.Equal(t, priorRG.NumRows(), mergedRG.NumRows())
	assert.Equal(t, priorRG.FileOffset(), mergedRG.FileOffset())
	assert.Equal(t, priorRG.TotalByteSize(), mergedRG.TotalByteSize())

	// the new group's pages live past the seeded region
	newRG := merged.RowGroup(1)
	assert.EqualValues(t, 3, newRG.NumRows())
	assert.GreaterOrEqual(t, newRG.FileOffset(), int64(len(dataRegion)))
	assert.EqualValues(t, 1, newRG.Ordinal())

	// merged pairs come out in sorted key order with the new value winning
	kv := merged.KeyValueMetadata()
	assert.Equal(t, []string{"extra", "origin", "shared"}, kv.Keys())
	assert.Equal(t, []string{"x", "first", "new"}, kv.Values())
}

func TestAppendWithoutPriorIsFreshFile(t *testing.T) {
	sink := encoding.NewBufferWriter(0, memory.DefaultAllocator)
	writer, err := file.NewAppendingWriter(sink, int64Schema(t, 1), nil)
	require.NoError(t, err)
	// no prior metadata degrades to a standard fresh file
	assert.Equal(t, "PAR1", string(sink.Bytes()[:4]))
	require.NoError(t, writer.Close())

	_, err = file.ReadFileMetaData(sink.Bytes())
	assert.NoError(t, err)
}

func TestAppendRowGroupClosesOpenGroup(t *testing.T) {
	sink := encoding.NewBufferWriter(0, memory.DefaultAllocator)
	writer, err := file.NewWriter(sink, int64Schema(t, 1))
	require.NoError(t, err)

	rgw, err := writer.AppendRowGroup()
	require.NoError(t, err)
	cw, err := rgw.NextColumn()
	require.NoError(t, err)
	require.NoError(t, cw.(*file.Int64ColumnChunkWriter).WriteBatch([]int64{1, 2}))

	// starting the next group finalizes the previous one
	_, err = writer.AppendRowGroup()
	require.NoError(t, err)
	assert.EqualValues(t, 2, writer.NumRows())
	assert.EqualValues(t, 2, writer.NumRowGroups())

	_, err = rgw.NextColumn()
	assert.ErrorIs(t, err, parquet.ErrState)
}
