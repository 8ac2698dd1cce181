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

package metadata_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zdblabs/parquet"
	"github.com/zdblabs/parquet/metadata"
	"github.com/zdblabs/parquet/schema"
)

func twoColSchema(t *testing.T) *schema.Schema {
	t.Helper()
	root, err := schema.NewGroupNode("schema", parquet.Repetitions.Repeated, schema.FieldList{
		schema.NewInt64Node("a", parquet.Repetitions.Required),
		schema.NewByteArrayNode("b", parquet.Repetitions.Required),
	})
	require.NoError(t, err)
	return schema.NewSchema(root)
}

func finishChunk(t *testing.T, bldr *metadata.ColumnChunkMetaDataBuilder, numValues, offset int64) {
	t.Helper()
	bldr.SetDataPageOffset(offset)
	require.NoError(t, bldr.Finish(numValues, 64, 128, parquet.Encodings.Plain))
}

func TestRowGroupBuilderSequence(t *testing.T) {
	sc := twoColSchema(t)
	props := parquet.NewWriterProperties()

	fileBldr := metadata.NewFileMetaDataBuilder(sc, props, metadata.KeyValueMetadata{})
	rgBldr := fileBldr.AppendRowGroup()
	assert.Equal(t, 2, rgBldr.NumColumns())
	assert.Equal(t, -1, rgBldr.CurrentColumn())
	assert.EqualValues(t, -1, rgBldr.NumRows())

	// finishing before all columns are initialized is a state error
	assert.ErrorIs(t, rgBldr.Finish(0, 0), parquet.ErrState)

	col0, err := rgBldr.NextColumnChunk(nil)
	require.NoError(t, err)
	finishChunk(t, col0, 10, 4)

	col1, err := rgBldr.NextColumnChunk(nil)
	require.NoError(t, err)
	finishChunk(t, col1, 10, 68)

	_, err = rgBldr.NextColumnChunk(nil)
	assert.ErrorIs(t, err, parquet.ErrSequence)

	rgBldr.SetNumRows(10)
	require.NoError(t, rgBldr.Finish(256, 3))
}

func TestFileBuilderFinishOnce(t *testing.T) {
	sc := twoColSchema(t)
	bldr := metadata.NewFileMetaDataBuilder(sc, parquet.NewWriterProperties(), metadata.KeyValueMetadata{})

	fileMeta, err := bldr.Finish()
	require.NoError(t, err)
	assert.Zero(t, fileMeta.NumRows())
	assert.EqualValues(t, 2, fileMeta.Version())
	assert.Equal(t, parquet.DefaultCreatedBy, fileMeta.CreatedBy())

	_, err = bldr.Finish()
	assert.ErrorIs(t, err, parquet.ErrState)
	assert.ErrorIs(t, bldr.AppendKeyValueMetadata("k", "v"), parquet.ErrState)
}

func TestFileMetaDataRoundTrip(t *testing.T) {
	sc := twoColSchema(t)
	bldr := metadata.NewFileMetaDataBuilder(sc, parquet.NewWriterProperties(),
		metadata.KeyValueMetadataFrom("who", "me"))

	rgBldr := bldr.AppendRowGroup()
	col0, err := rgBldr.NextColumnChunk(map[string]string{"note": "chunky"})
	require.NoError(t, err)
	finishChunk(t, col0, 5, 4)
	col1, err := rgBldr.NextColumnChunk(nil)
	require.NoError(t, err)
	finishChunk(t, col1, 5, 68)
	rgBldr.SetNumRows(5)
	require.NoError(t, rgBldr.Finish(256, 0))

	fileMeta, err := bldr.Finish()
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = fileMeta.WriteTo(&buf)
	require.NoError(t, err)

	decoded, err := metadata.NewFileMetaData(buf.Bytes())
	require.NoError(t, err)
	assert.EqualValues(t, 5, decoded.NumRows())
	assert.Equal(t, 1, decoded.NumRowGroups())
	assert.Equal(t, 2, decoded.NumColumns())
	assert.Equal(t, "a", decoded.Schema.Column(0).Name())
	assert.Equal(t, parquet.Types.ByteArray, decoded.Schema.Column(1).PhysicalType())

	rg := decoded.RowGroup(0)
	assert.EqualValues(t, 5, rg.NumRows())
	assert.EqualValues(t, 256, rg.TotalByteSize())
	assert.EqualValues(t, 128, rg.TotalCompressedSize())
	assert.EqualValues(t, 4, rg.FileOffset())

	chunk, err := rg.ColumnChunk(0)
	require.NoError(t, err)
	require.NotNil(t, chunk.KeyValueMetadata().FindValue("note"))
	assert.Equal(t, "chunky", *chunk.KeyValueMetadata().FindValue("note"))

	require.NotNil(t, decoded.KeyValueMetadata().FindValue("who"))
	assert.Equal(t, "me", *decoded.KeyValueMetadata().FindValue("who"))
}

func TestAppendRowGroupsMerge(t *testing.T) {
	sc := twoColSchema(t)
	props := parquet.NewWriterProperties()

	build := func(nrows int64, kvs ...string) *metadata.FileMetaData {
		kv := metadata.KeyValueMetadata{}
		for i := 0; i < len(kvs); i += 2 {
			kv.Append(kvs[i], kvs[i+1])
		}
		bldr := metadata.NewFileMetaDataBuilder(sc, props, kv)
		rgBldr := bldr.AppendRowGroup()
		col0, err := rgBldr.NextColumnChunk(nil)
		require.NoError(t, err)
		finishChunk(t, col0, nrows, 4)
		col1, err := rgBldr.NextColumnChunk(nil)
		require.NoError(t, err)
		finishChunk(t, col1, nrows, 68)
		rgBldr.SetNumRows(nrows)
		require.NoError(t, rgBldr.Finish(256, 0))
		meta, err := bldr.Finish()
		require.NoError(t, err)
		return meta
	}

	prior := build(2, "zeta", "1", "shared", "old")
	recent := build(3, "alpha", "2", "shared", "new")

	require.NoError(t, recent.AppendRowGroups(prior))
	assert.EqualValues(t, 5, recent.NumRows())
	assert.Equal(t, 2, recent.NumRowGroups())
	// prior groups come first
	assert.EqualValues(t, 2, recent.RowGroup(0).NumRows())
	assert.EqualValues(t, 3, recent.RowGroup(1).NumRows())

	kv := recent.KeyValueMetadata()
	assert.Equal(t, []string{"alpha", "shared", "zeta"}, kv.Keys())
	assert.Equal(t, []string{"2", "new", "1"}, kv.Values())
}

func TestKeyValueMetadata(t *testing.T) {
	kv := metadata.KeyValueMetadataFrom("a", "1", "b", "2")
	kv.Append("a", "3")

	assert.Equal(t, 3, kv.Len())
	// the most recent value for a repeated key wins
	require.NotNil(t, kv.FindValue("a"))
	assert.Equal(t, "3", *kv.FindValue("a"))
	assert.Nil(t, kv.FindValue("missing"))

	data, err := kv.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"key":"a","value":"1"},{"key":"b","value":"2"},{"key":"a","value":"3"}]`, string(data))
}
