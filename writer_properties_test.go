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

package parquet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zdblabs/parquet"
	"github.com/zdblabs/parquet/compress"
)

func TestWriterPropBasics(t *testing.T) {
	props := parquet.NewWriterProperties()

	assert.Equal(t, parquet.DefaultDataPageSize, props.DataPageSize())
	assert.Equal(t, parquet.DefaultMaxRowGroupLen, props.MaxRowGroupLength())
	assert.Equal(t, parquet.V2_LATEST, props.Version())
	assert.Equal(t, parquet.DefaultCreatedBy, props.CreatedBy())
	assert.Equal(t, compress.Codecs.Uncompressed, props.Compression())
	assert.Equal(t, parquet.Encodings.Plain, props.Encoding())
}

func TestWriterPropAdvanced(t *testing.T) {
	props := parquet.NewWriterProperties(
		parquet.WithCompressionFor("gzip", compress.Codecs.Gzip),
		parquet.WithCompressionFor("zstd", compress.Codecs.Zstd),
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithCompressionLevelFor("gzip", 9),
		parquet.WithCreatedBy("props-test"),
		parquet.WithRootName("test2"),
		parquet.WithRootRepetition(parquet.Repetitions.Required))

	assert.Equal(t, compress.Codecs.Gzip, props.CompressionPath(parquet.ColumnPathFromString("gzip")))
	assert.Equal(t, compress.Codecs.Zstd, props.CompressionFor("zstd"))
	assert.Equal(t, compress.Codecs.Snappy, props.CompressionFor("other"))
	assert.Equal(t, 9, props.CompressionLevelFor("gzip"))
	assert.Equal(t, compress.DefaultCompressionLevel, props.CompressionLevelFor("zstd"))
	assert.Equal(t, "props-test", props.CreatedBy())
	assert.Equal(t, "test2", props.RootName())
	assert.Equal(t, parquet.Repetitions.Required, props.RootRepetition())
}

func TestVersionFormatVersion(t *testing.T) {
	assert.EqualValues(t, 1, parquet.V1_0.FormatVersion())
	assert.EqualValues(t, 2, parquet.V2_4.FormatVersion())
	assert.EqualValues(t, 2, parquet.V2_6.FormatVersion())
	assert.EqualValues(t, 2, parquet.V2_LATEST.FormatVersion())
}

func TestColumnPath(t *testing.T) {
	p := parquet.ColumnPathFromString("a.b.c")
	assert.Equal(t, parquet.ColumnPath{"a", "b", "c"}, p)
	assert.Equal(t, "a.b.c.d", p.Extend("d").String())
	// Extend must not alias the original path
	assert.Equal(t, "a.b.c", p.String())
}
