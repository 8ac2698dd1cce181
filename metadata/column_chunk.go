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

package metadata

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/zdblabs/parquet"
	"github.com/zdblabs/parquet/compress"
	"github.com/zdblabs/parquet/internal/format"
	"github.com/zdblabs/parquet/schema"
)

// ColumnChunkMetaData is a read-only proxy around one column chunk record
// of the footer.
type ColumnChunkMetaData struct {
	chunk  *format.ColumnChunk
	column *schema.Column
}

// NewColumnChunkMetaData constructs the proxy from the underlying footer
// record and the column descriptor it belongs to.
func NewColumnChunkMetaData(chunk *format.ColumnChunk, column *schema.Column) *ColumnChunkMetaData {
	return &ColumnChunkMetaData{chunk: chunk, column: column}
}

func (c *ColumnChunkMetaData) Descr() *schema.Column { return c.column }

// Type is the physical type recorded for the chunk
func (c *ColumnChunkMetaData) Type() parquet.Type {
	return parquet.Type(c.chunk.MetaData.Type)
}

// Compression is the codec the chunk's pages were written with
func (c *ColumnChunkMetaData) Compression() compress.Compression {
	return compress.Compression(c.chunk.MetaData.Codec)
}

// Encodings lists the encodings used by pages of the chunk
func (c *ColumnChunkMetaData) Encodings() []parquet.Encoding {
	out := make([]parquet.Encoding, len(c.chunk.MetaData.Encodings))
	for i, e := range c.chunk.MetaData.Encodings {
		out[i] = parquet.Encoding(e)
	}
	return out
}

// PathInSchema returns the dotted path of the column within the schema
func (c *ColumnChunkMetaData) PathInSchema() parquet.ColumnPath {
	return parquet.ColumnPath(c.chunk.MetaData.PathInSchema)
}

func (c *ColumnChunkMetaData) NumValues() int64      { return c.chunk.MetaData.NumValues }
func (c *ColumnChunkMetaData) DataPageOffset() int64 { return c.chunk.MetaData.DataPageOffset }
func (c *ColumnChunkMetaData) TotalCompressedSize() int64 {
	return c.chunk.MetaData.TotalCompressedSize
}
func (c *ColumnChunkMetaData) TotalUncompressedSize() int64 {
	return c.chunk.MetaData.TotalUncompressedSize
}

// HasDictionaryPage reports whether a dictionary page offset was recorded
func (c *ColumnChunkMetaData) HasDictionaryPage() bool {
	return c.chunk.MetaData.IsSetDictionaryPageOffset()
}

// KeyValueMetadata returns the chunk level extra metadata
func (c *ColumnChunkMetaData) KeyValueMetadata() KeyValueMetadata {
	return keyValueFromFormat(c.chunk.MetaData.KeyValueMetadata)
}

// ColumnChunkMetaDataBuilder accumulates the facts about one column chunk
// while it is written and freezes them into the footer record when the
// column writer closes.
type ColumnChunkMetaDataBuilder struct {
	chunk  *format.ColumnChunk
	props  *parquet.WriterProperties
	column *schema.Column

	compressedSize int64
}

// NewColumnChunkMetaDataBuilder creates a builder writing into a fresh
// footer record.
func NewColumnChunkMetaDataBuilder(props *parquet.WriterProperties, column *schema.Column) *ColumnChunkMetaDataBuilder {
	return NewColumnChunkMetaDataBuilderWithContents(props, column, &format.ColumnChunk{MetaData: &format.ColumnMetaData{}})
}

// NewColumnChunkMetaDataBuilderWithContents creates a builder writing into
// the provided footer record, used by the row group builder which owns the
// record slots.
func NewColumnChunkMetaDataBuilderWithContents(props *parquet.WriterProperties, column *schema.Column, chunk *format.ColumnChunk) *ColumnChunkMetaDataBuilder {
	b := &ColumnChunkMetaDataBuilder{
		chunk:  chunk,
		props:  props,
		column: column,
	}
	if b.chunk.MetaData == nil {
		b.chunk.MetaData = &format.ColumnMetaData{}
	}
	b.chunk.FileOffset = -1
	return b
}

func (c *ColumnChunkMetaDataBuilder) Descr() *schema.Column { return c.column }

// Contents returns the underlying footer record being built
func (c *ColumnChunkMetaDataBuilder) Contents() *format.ColumnChunk { return c.chunk }

// SetExtraMetadata records chunk level key/value annotations. The map is
// folded in sorted key order so footers are deterministic.
func (c *ColumnChunkMetaDataBuilder) SetExtraMetadata(extra map[string]string) {
	if len(extra) == 0 {
		return
	}
	keys := maps.Keys(extra)
	slices.Sort(keys)
	kvs := make([]*format.KeyValue, len(keys))
	for i, k := range keys {
		v := extra[k]
		kvs[i] = &format.KeyValue{Key: k, Value: &v}
	}
	c.chunk.MetaData.KeyValueMetadata = kvs
}

// SetDataPageOffset records the position of the chunk's first data page
func (c *ColumnChunkMetaDataBuilder) SetDataPageOffset(offset int64) {
	c.chunk.MetaData.DataPageOffset = offset
}

// SetDictionaryPageOffset records the position of the dictionary page when
// one was written.
func (c *ColumnChunkMetaDataBuilder) SetDictionaryPageOffset(offset int64) {
	c.chunk.MetaData.DictionaryPageOffset = &offset
}

// TotalCompressedSize returns the compressed size recorded by Finish, or
// the running value before that.
func (c *ColumnChunkMetaDataBuilder) TotalCompressedSize() int64 {
	if c.chunk.FileOffset < 0 {
		return c.compressedSize
	}
	return c.chunk.MetaData.TotalCompressedSize
}

// Finish freezes the chunk record with the totals accumulated by the page
// writer. It is called exactly once, when the column writer closes.
func (c *ColumnChunkMetaDataBuilder) Finish(numValues, compressed, uncompressed int64, encoding parquet.Encoding) error {
	m := c.chunk.MetaData
	m.Type = int32(c.column.PhysicalType())
	m.PathInSchema = c.column.ColumnPath()
	m.Codec = int32(c.props.CompressionFor(c.column.Path()))
	m.NumValues = numValues
	m.TotalCompressedSize = compressed
	m.TotalUncompressedSize = uncompressed
	if !slices.Contains(m.Encodings, int32(encoding)) {
		m.Encodings = append(m.Encodings, int32(encoding))
	}
	c.compressedSize = compressed
	// chunk ends right after its last page
	c.chunk.FileOffset = m.DataPageOffset + compressed
	return nil
}
