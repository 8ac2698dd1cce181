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

// Package file provides the columnar file writer: the file level state
// machine, row group and column chunk writers, and the footer protocol.
package file

import (
	"fmt"
	"io"

	"github.com/zdblabs/parquet"
	"github.com/zdblabs/parquet/internal/utils"
	"github.com/zdblabs/parquet/metadata"
	"github.com/zdblabs/parquet/schema"
)

// WriteOption configures a Writer at creation
type WriteOption func(*writerConfig)

type writerConfig struct {
	props  *parquet.WriterProperties
	kvmeta metadata.KeyValueMetadata
}

// WithWriterProps sets the writer properties, replacing the defaults
func WithWriterProps(props *parquet.WriterProperties) WriteOption {
	return func(c *writerConfig) {
		c.props = props
	}
}

// WithWriteMetadata seeds the footer's key/value metadata
func WithWriteMetadata(kv metadata.KeyValueMetadata) WriteOption {
	return func(c *writerConfig) {
		c.kvmeta = kv
	}
}

// Writer is the file level writer. It emits the leading magic, hands out
// row group writers one at a time, and serializes the footer on Close.
//
// A Writer created by NewAppendingWriter additionally merges a prior
// file's footer metadata into its own, producing a footer that describes
// the prior row groups followed by the new ones.
type Writer struct {
	sink   utils.WriteCloserTell
	props  *parquet.WriterProperties
	closed bool

	rowGroups      int
	nrows          int64
	rowGroupWriter *rowGroupWriter

	metadata      *metadata.FileMetaDataBuilder
	fileMetadata  *metadata.FileMetaData
	prior         *metadata.FileMetaData
	priorOrdinals int16

	// Schema is the descriptor all row groups of this file write against
	Schema *schema.Schema
}

// NewWriter starts a new file on w with the given root schema group. The
// leading magic is written immediately; creation fails if the sink
// rejects it.
func NewWriter(w io.Writer, root *schema.GroupNode, opts ...WriteOption) (*Writer, error) {
	return newWriter(w, root, nil, opts...)
}

// NewAppendingWriter starts a file on w whose footer will describe the
// row groups of a previously written file followed by the ones written
// here. prior is the deserialized footer of that previous file; passing
// nil degrades to NewWriter's behavior and starts a fresh file.
//
// With a prior footer the leading magic is not written: w is expected
// to be positioned after the prior file's column data, with the prior
// footer to be overwritten by the new row groups. Neither that
// positioning nor the compatibility of root with the prior file's
// schema is validated here; both are the caller's contract, and a
// mismatch produces a structurally valid but semantically corrupt file.
func NewAppendingWriter(w io.Writer, root *schema.GroupNode, prior *metadata.FileMetaData, opts ...WriteOption) (*Writer, error) {
	return newWriter(w, root, prior, opts...)
}

func newWriter(w io.Writer, root *schema.GroupNode, prior *metadata.FileMetaData, opts ...WriteOption) (*Writer, error) {
	cfg := writerConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.props == nil {
		cfg.props = parquet.NewWriterProperties()
	}

	sc := schema.NewSchema(root)
	fw := &Writer{
		sink:     utils.NewTellWrapper(w),
		props:    cfg.props,
		metadata: metadata.NewFileMetaDataBuilder(sc, cfg.props, cfg.kvmeta),
		prior:    prior,
		Schema:   sc,
	}
	if prior != nil {
		fw.priorOrdinals = int16(prior.NumRowGroups())
		return fw, nil
	}
	if _, err := fw.sink.Write(magicBytes); err != nil {
		return nil, fmt.Errorf("%w: writing leading magic: %s", parquet.ErrIO, err)
	}
	return fw, nil
}

// Properties returns the writer properties this file was created with
func (fw *Writer) Properties() *parquet.WriterProperties { return fw.props }

// NumColumns returns the number of leaf columns in the schema
func (fw *Writer) NumColumns() int { return fw.Schema.NumColumns() }

// NumRowGroups returns the number of row groups started by this writer,
// not counting any prior file's groups.
func (fw *Writer) NumRowGroups() int { return fw.rowGroups }

// NumRows returns the number of rows written by this writer so far,
// including the row group currently in progress and not counting any
// prior file's rows.
func (fw *Writer) NumRows() int64 {
	if fw.rowGroupWriter != nil {
		return fw.nrows + fw.rowGroupWriter.NumRows()
	}
	return fw.nrows
}

// AppendKeyValueMetadata adds a key/value pair to the footer. In append
// mode the pair participates in the merge with the prior footer's
// metadata, with this file's value winning on key collisions.
func (fw *Writer) AppendKeyValueMetadata(key, value string) error {
	return fw.metadata.AppendKeyValueMetadata(key, value)
}

// AppendRowGroup closes the row group in progress, if any, and starts
// the next one.
func (fw *Writer) AppendRowGroup() (RowGroupWriter, error) {
	if fw.closed {
		return nil, fmt.Errorf("%w: the file is already closed", parquet.ErrState)
	}
	if err := fw.closeRowGroup(); err != nil {
		return nil, err
	}

	ordinal := fw.priorOrdinals + int16(fw.rowGroups)
	fw.rowGroupWriter = newRowGroupWriter(fw.sink, fw.metadata.AppendRowGroup(), ordinal, fw.props)
	fw.rowGroups++
	return fw.rowGroupWriter, nil
}

func (fw *Writer) closeRowGroup() error {
	if fw.rowGroupWriter == nil {
		return nil
	}
	if err := fw.rowGroupWriter.Close(); err != nil {
		return err
	}
	fw.nrows += fw.rowGroupWriter.NumRows()
	fw.rowGroupWriter = nil
	return nil
}

// FileMetadata returns the finalized footer metadata, available once the
// writer has been closed.
func (fw *Writer) FileMetadata() *metadata.FileMetaData { return fw.fileMetadata }

// Close finalizes the file: the open row group is closed, the footer
// metadata is frozen (merged with the prior footer in append mode) and
// serialized, and the sink is closed if it implements io.Closer. Close
// is idempotent.
func (fw *Writer) Close() (err error) {
	if fw.closed {
		return nil
	}
	fw.closed = true

	defer func() {
		cerr := fw.sink.Close()
		if err == nil && cerr != nil {
			err = fmt.Errorf("%w: closing sink: %s", parquet.ErrIO, cerr)
		}
	}()

	if err = fw.closeRowGroup(); err != nil {
		return err
	}

	fileMetadata, err := fw.metadata.Finish()
	if err != nil {
		return err
	}
	if fw.prior != nil {
		if err = fileMetadata.AppendRowGroups(fw.prior); err != nil {
			return err
		}
	}
	fw.fileMetadata = fileMetadata

	return writeFileMetadata(fileMetadata, fw.sink)
}
