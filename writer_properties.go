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
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/zdblabs/parquet/compress"
)

// Constants for the default property values used when none are specified.
const (
	// Default data page size limit. It is not a guarantee, pages are cut
	// off at this size where possible.
	DefaultDataPageSize int64 = 1024 * 1024
	// Default maximum number of rows for a single row group
	DefaultMaxRowGroupLen int64 = 64 * 1024 * 1024
	// DefaultCreatedBy is stamped into the footer's created_by field unless
	// overridden with WithCreatedBy.
	DefaultCreatedBy = "zdblabs-parquet version 1.0.0"
	// DefaultRootName is the name given to the root schema node when one is
	// not provided.
	DefaultRootName = "schema"
)

// ColumnProperties defines the encoding and codec for a given column.
type ColumnProperties struct {
	Encoding         Encoding
	Codec            compress.Compression
	CompressionLevel int
}

// DefaultColumnProperties returns the properties used for columns without
// a specific override: plain encoding, no compression, default level.
func DefaultColumnProperties() ColumnProperties {
	return ColumnProperties{
		Encoding:         Encodings.Plain,
		Codec:            compress.Codecs.Uncompressed,
		CompressionLevel: compress.DefaultCompressionLevel,
	}
}

type writerPropConfig struct {
	wr            *WriterProperties
	encodings     map[string]Encoding
	codecs        map[string]compress.Compression
	compressLevel map[string]int
}

// WriterProperty is used as the options for building a writer properties instance
type WriterProperty func(*writerPropConfig)

// WithAllocator specifies the writer to use the given allocator
func WithAllocator(mem memory.Allocator) WriterProperty {
	return func(cfg *writerPropConfig) {
		cfg.wr.mem = mem
	}
}

// WithDataPageSize specifies the size used for cutting data pages when
// writing columns.
func WithDataPageSize(pgsize int64) WriterProperty {
	return func(cfg *writerPropConfig) {
		cfg.wr.pageSize = pgsize
	}
}

// WithMaxRowGroupLength specifies the maximum number of rows for a given row group in the writer.
func WithMaxRowGroupLength(nrows int64) WriterProperty {
	return func(cfg *writerPropConfig) {
		cfg.wr.maxRowGroupLen = nrows
	}
}

// WithVersion specifies which parquet format version to stamp into the footer.
func WithVersion(version Version) WriterProperty {
	return func(cfg *writerPropConfig) {
		cfg.wr.parquetVersion = version
	}
}

// WithCreatedBy specifies the "created by" string to use for the writer
func WithCreatedBy(createdby string) WriterProperty {
	return func(cfg *writerPropConfig) {
		cfg.wr.createdBy = createdby
	}
}

// WithRootName enables customization of the name used for the root schema node.
// This is required to maintain compatibility with other tools.
func WithRootName(name string) WriterProperty {
	return func(cfg *writerPropConfig) {
		cfg.wr.rootName = name
	}
}

// WithRootRepetition enables customization of the repetition used for the
// root schema node. This is required to maintain compatibility with other tools.
func WithRootRepetition(repetition Repetition) WriterProperty {
	return func(cfg *writerPropConfig) {
		cfg.wr.rootRepetition = repetition
	}
}

// WithEncoding defines the encoding used for columns that don't have a
// specific encoding set.
func WithEncoding(encoding Encoding) WriterProperty {
	return func(cfg *writerPropConfig) {
		cfg.wr.defColumnProps.Encoding = encoding
	}
}

// WithEncodingFor defines the encoding only for the given column path.
func WithEncodingFor(path string, encoding Encoding) WriterProperty {
	return func(cfg *writerPropConfig) {
		cfg.encodings[path] = encoding
	}
}

// WithCompression specifies the default compression type to use for column writing.
func WithCompression(codec compress.Compression) WriterProperty {
	return func(cfg *writerPropConfig) {
		cfg.wr.defColumnProps.Codec = codec
	}
}

// WithCompressionFor specifies the compression type for the given column.
func WithCompressionFor(path string, codec compress.Compression) WriterProperty {
	return func(cfg *writerPropConfig) {
		cfg.codecs[path] = codec
	}
}

// WithCompressionPath is the same as WithCompressionFor but takes a ColumnPath directly.
func WithCompressionPath(path ColumnPath, codec compress.Compression) WriterProperty {
	return WithCompressionFor(path.String(), codec)
}

// WithCompressionLevel specifies the default compression level for the
// compressor in every column.
//
// The provided compression level is compressor specific; it is handed to the
// codec without validation. compress.DefaultCompressionLevel lets the codec
// pick.
func WithCompressionLevel(level int) WriterProperty {
	return func(cfg *writerPropConfig) {
		cfg.wr.defColumnProps.CompressionLevel = level
	}
}

// WithCompressionLevelFor is like WithCompressionLevel but only for the given column path.
func WithCompressionLevelFor(path string, level int) WriterProperty {
	return func(cfg *writerPropConfig) {
		cfg.compressLevel[path] = level
	}
}

// WriterProperties is the collection of properties to use for writing a
// parquet file. The values are read only once it has been constructed.
type WriterProperties struct {
	mem            memory.Allocator
	maxRowGroupLen int64
	pageSize       int64
	parquetVersion Version
	createdBy      string
	rootName       string
	rootRepetition Repetition

	defColumnProps ColumnProperties
	columnProps    map[string]*ColumnProperties
}

func defaultWriterProperties() *WriterProperties {
	return &WriterProperties{
		mem:            memory.DefaultAllocator,
		maxRowGroupLen: DefaultMaxRowGroupLen,
		pageSize:       DefaultDataPageSize,
		parquetVersion: V2_LATEST,
		createdBy:      DefaultCreatedBy,
		rootName:       DefaultRootName,
		rootRepetition: Repetitions.Repeated,
		defColumnProps: DefaultColumnProperties(),
	}
}

// NewWriterProperties takes a list of options for building the properties.
// If multiple conflicting options are used then the last one takes effect.
// With no options the default properties are returned.
func NewWriterProperties(opts ...WriterProperty) *WriterProperties {
	cfg := writerPropConfig{
		wr:            defaultWriterProperties(),
		encodings:     make(map[string]Encoding),
		codecs:        make(map[string]compress.Compression),
		compressLevel: make(map[string]int),
	}
	for _, o := range opts {
		o(&cfg)
	}

	cfg.wr.columnProps = make(map[string]*ColumnProperties)
	get := func(key string) *ColumnProperties {
		if p, ok := cfg.wr.columnProps[key]; ok {
			return p
		}
		props := cfg.wr.defColumnProps
		cfg.wr.columnProps[key] = &props
		return cfg.wr.columnProps[key]
	}

	for key, value := range cfg.encodings {
		get(key).Encoding = value
	}
	for key, value := range cfg.codecs {
		get(key).Codec = value
	}
	for key, value := range cfg.compressLevel {
		get(key).CompressionLevel = value
	}
	return cfg.wr
}

func (w *WriterProperties) Allocator() memory.Allocator { return w.mem }
func (w *WriterProperties) CreatedBy() string           { return w.createdBy }
func (w *WriterProperties) RootName() string            { return w.rootName }
func (w *WriterProperties) RootRepetition() Repetition  { return w.rootRepetition }
func (w *WriterProperties) DataPageSize() int64         { return w.pageSize }
func (w *WriterProperties) Version() Version            { return w.parquetVersion }
func (w *WriterProperties) MaxRowGroupLength() int64    { return w.maxRowGroupLen }

// Compression returns the default compression type used for columns without
// a specific codec defined.
func (w *WriterProperties) Compression() compress.Compression { return w.defColumnProps.Codec }

// CompressionFor will return the compression type that is specified for the
// given column path, or the default codec if there isn't one specific to it.
func (w *WriterProperties) CompressionFor(path string) compress.Compression {
	if p, ok := w.columnProps[path]; ok {
		return p.Codec
	}
	return w.defColumnProps.Codec
}

// CompressionPath is the same as CompressionFor but takes a ColumnPath
func (w *WriterProperties) CompressionPath(path ColumnPath) compress.Compression {
	return w.CompressionFor(path.String())
}

// CompressionLevel returns the default compression level used for columns
// without a specific level set.
func (w *WriterProperties) CompressionLevel() int { return w.defColumnProps.CompressionLevel }

// CompressionLevelFor returns the compression level utilized for the given
// column, or the default level if none was specified for it.
func (w *WriterProperties) CompressionLevelFor(path string) int {
	if p, ok := w.columnProps[path]; ok {
		return p.CompressionLevel
	}
	return w.defColumnProps.CompressionLevel
}

// Encoding returns the default encoding utilized for columns without a
// specific encoding set.
func (w *WriterProperties) Encoding() Encoding { return w.defColumnProps.Encoding }

// EncodingFor returns the encoding for the given column path, or the default
// encoding if there isn't one specified for it.
func (w *WriterProperties) EncodingFor(path string) Encoding {
	if p, ok := w.columnProps[path]; ok {
		return p.Encoding
	}
	return w.defColumnProps.Encoding
}
