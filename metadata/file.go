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

// Package metadata provides the builders that accumulate per chunk facts
// into a finalized footer, the read-only proxies over finalized footer
// structures, and the append mode footer merge.
package metadata

import (
	"fmt"
	"io"

	"github.com/JohnCGriffin/overflow"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/zdblabs/parquet"
	"github.com/zdblabs/parquet/internal/format"
	"github.com/zdblabs/parquet/internal/thrift"
	"github.com/zdblabs/parquet/schema"
)

// FileMetaData is the finalized, file wide footer structure: schema, row
// group records, total row count, merged key/value metadata and format
// version. Instances come from FileMetaDataBuilder.Finish on the write
// side or NewFileMetaData when loading a prior footer for appending.
type FileMetaData struct {
	metadata *format.FileMetaData

	// Schema is the reconstructed schema descriptor
	Schema *schema.Schema
}

// NewFileMetaData deserializes a footer metadata block (the bytes between
// the column data and the footer length field) and rebuilds the schema
// descriptor from it.
func NewFileMetaData(data []byte) (*FileMetaData, error) {
	meta := &format.FileMetaData{}
	if _, err := thrift.DeserializeThrift(meta, data); err != nil {
		return nil, fmt.Errorf("%w: %s", parquet.ErrSerialization, err)
	}
	sc, err := schema.FromFormat(meta.Schema)
	if err != nil {
		return nil, err
	}
	return &FileMetaData{metadata: meta, Schema: sc}, nil
}

// NumRows returns the total row count across all row groups
func (f *FileMetaData) NumRows() int64 { return f.metadata.NumRows }

// NumRowGroups returns the number of row group records in the footer
func (f *FileMetaData) NumRowGroups() int { return len(f.metadata.RowGroups) }

// NumColumns returns the number of leaf columns in the schema
func (f *FileMetaData) NumColumns() int { return f.Schema.NumColumns() }

// Version returns the format version recorded in the footer
func (f *FileMetaData) Version() int32 { return f.metadata.Version }

// CreatedBy returns the application string recorded in the footer
func (f *FileMetaData) CreatedBy() string { return f.metadata.GetCreatedBy() }

// RowGroup returns the metadata proxy for the i-th row group
func (f *FileMetaData) RowGroup(i int) *RowGroupMetaData {
	return NewRowGroupMetaData(f.metadata.RowGroups[i], f.Schema)
}

// KeyValueMetadata returns the footer's key/value metadata
func (f *FileMetaData) KeyValueMetadata() KeyValueMetadata {
	return keyValueFromFormat(f.metadata.KeyValueMetadata)
}

// WriteTo serializes the metadata block to w and returns the number of
// bytes written.
func (f *FileMetaData) WriteTo(w io.Writer) (int64, error) {
	n, err := thrift.NewSerializer().Serialize(f.metadata, w)
	if err != nil {
		return int64(n), fmt.Errorf("%w: %s", parquet.ErrSerialization, err)
	}
	return int64(n), nil
}

// AppendRowGroups merges a prior file's finalized metadata into this one,
// implementing the footer side of append mode:
//
//   - the prior row group records are prepended, unchanged and in order;
//   - the total row count becomes prior rows + new rows;
//   - key/value metadata is merged with the new value winning when a key
//     appears in both files. An empty merged mapping is omitted from the
//     footer entirely.
//
// The prior schema is not revalidated against this one; appending with an
// incompatible schema produces a structurally valid but semantically
// corrupt file, and guarding against that is the caller's contract.
func (f *FileMetaData) AppendRowGroups(prior *FileMetaData) error {
	combined := make([]*format.RowGroup, 0, len(prior.metadata.RowGroups)+len(f.metadata.RowGroups))
	combined = append(combined, prior.metadata.RowGroups...)
	combined = append(combined, f.metadata.RowGroups...)
	f.metadata.RowGroups = combined

	total, ok := overflow.Add64(f.metadata.NumRows, prior.metadata.NumRows)
	if !ok {
		return fmt.Errorf("%w: merged row count overflows int64", parquet.ErrState)
	}
	f.metadata.NumRows = total

	f.metadata.KeyValueMetadata = mergeKeyValues(prior.metadata.KeyValueMetadata, f.metadata.KeyValueMetadata)
	return nil
}

// mergeKeyValues folds both pair lists into a single mapping with recent
// values overriding prior ones, emitted in sorted key order so merged
// footers are deterministic.
func mergeKeyValues(prior, recent []*format.KeyValue) []*format.KeyValue {
	if len(prior) == 0 && len(recent) == 0 {
		return nil
	}
	merged := make(map[string]*string, len(prior)+len(recent))
	for _, kv := range prior {
		merged[kv.Key] = kv.Value
	}
	for _, kv := range recent {
		merged[kv.Key] = kv.Value
	}
	keys := maps.Keys(merged)
	slices.Sort(keys)
	out := make([]*format.KeyValue, len(keys))
	for i, k := range keys {
		out[i] = &format.KeyValue{Key: k, Value: merged[k]}
	}
	return out
}

// FileMetaDataBuilder incrementally assembles the footer across the
// file's lifetime and freezes it exactly once at file close.
type FileMetaDataBuilder struct {
	metadata      *format.FileMetaData
	props         *parquet.WriterProperties
	schema        *schema.Schema
	rowGroups     []*format.RowGroup
	currentRgBldr *RowGroupMetaDataBuilder
	kvmeta        KeyValueMetadata
	finished      bool
}

// NewFileMetaDataBuilder creates a builder for the given schema and
// properties. kvmeta holds the caller supplied footer annotations.
func NewFileMetaDataBuilder(sc *schema.Schema, props *parquet.WriterProperties, kvmeta KeyValueMetadata) *FileMetaDataBuilder {
	return &FileMetaDataBuilder{
		metadata: &format.FileMetaData{},
		props:    props,
		schema:   sc,
		kvmeta:   kvmeta,
	}
}

// AppendRowGroup allocates the footer record for the next row group and
// returns its builder.
func (f *FileMetaDataBuilder) AppendRowGroup() *RowGroupMetaDataBuilder {
	rg := &format.RowGroup{}
	f.rowGroups = append(f.rowGroups, rg)
	f.currentRgBldr = NewRowGroupMetaDataBuilder(f.props, f.schema, rg)
	return f.currentRgBldr
}

// AppendKeyValueMetadata adds a key/value pair to the footer annotations
func (f *FileMetaDataBuilder) AppendKeyValueMetadata(key, value string) error {
	if f.finished {
		return fmt.Errorf("%w: metadata is already finalized", parquet.ErrState)
	}
	f.kvmeta.Append(key, value)
	return nil
}

// Finish freezes the complete FileMetaData snapshot used for
// serialization. It may be called exactly once per file close; subsequent
// calls fail.
func (f *FileMetaDataBuilder) Finish() (*FileMetaData, error) {
	if f.finished {
		return nil, fmt.Errorf("%w: file metadata was already finalized", parquet.ErrState)
	}
	f.finished = true

	var (
		totalRows int64
		ok        bool
	)
	for _, rg := range f.rowGroups {
		if totalRows, ok = overflow.Add64(totalRows, rg.NumRows); !ok {
			return nil, fmt.Errorf("%w: total row count overflows int64", parquet.ErrState)
		}
	}

	createdBy := f.props.CreatedBy()
	f.metadata.Version = f.props.Version().FormatVersion()
	f.metadata.Schema = f.schema.ToFormat()
	f.metadata.NumRows = totalRows
	f.metadata.RowGroups = f.rowGroups
	f.metadata.KeyValueMetadata = f.kvmeta.toFormat()
	f.metadata.CreatedBy = &createdBy

	return &FileMetaData{metadata: f.metadata, Schema: f.schema}, nil
}
