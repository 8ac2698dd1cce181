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
	"fmt"

	"github.com/JohnCGriffin/overflow"

	"github.com/zdblabs/parquet"
	"github.com/zdblabs/parquet/internal/format"
	"github.com/zdblabs/parquet/schema"
)

// RowGroupMetaData is a read-only proxy around one row group record of
// the footer.
type RowGroupMetaData struct {
	rowGroup *format.RowGroup
	Schema   *schema.Schema
}

// NewRowGroupMetaData constructs the proxy from the underlying footer
// record and schema. This is primarily used internally; consumers should
// go through FileMetaData.RowGroup.
func NewRowGroupMetaData(rg *format.RowGroup, sc *schema.Schema) *RowGroupMetaData {
	return &RowGroupMetaData{rowGroup: rg, Schema: sc}
}

// NumColumns returns the number of column chunk records in this row group
func (r *RowGroupMetaData) NumColumns() int {
	return len(r.rowGroup.Columns)
}

// NumRows is the number of rows in this row group. All columns have the
// same number of rows for a row group.
func (r *RowGroupMetaData) NumRows() int64 { return r.rowGroup.NumRows }

// TotalByteSize is the total size of this row group's data on disk
func (r *RowGroupMetaData) TotalByteSize() int64 { return r.rowGroup.TotalByteSize }

// FileOffset is the location in the file where the row group's data begins
func (r *RowGroupMetaData) FileOffset() int64 { return r.rowGroup.GetFileOffset() }

func (r *RowGroupMetaData) TotalCompressedSize() int64 { return r.rowGroup.GetTotalCompressedSize() }

// Ordinal is the row group's position in the file
func (r *RowGroupMetaData) Ordinal() int16 { return r.rowGroup.GetOrdinal() }

// ColumnChunk returns the metadata for the requested (0-based) chunk index
func (r *RowGroupMetaData) ColumnChunk(i int) (*ColumnChunkMetaData, error) {
	if i >= r.NumColumns() {
		return nil, fmt.Errorf("%w: row group only has %d columns, requested metadata for column %d",
			parquet.ErrSequence, r.NumColumns(), i)
	}
	return NewColumnChunkMetaData(r.rowGroup.Columns[i], r.Schema.Column(i)), nil
}

// RowGroupMetaDataBuilder accumulates the column chunk records of one row
// group in schema order and freezes the group's totals on Finish. Instances
// are obtained from FileMetaDataBuilder.AppendRowGroup.
type RowGroupMetaDataBuilder struct {
	rg          *format.RowGroup
	props       *parquet.WriterProperties
	schema      *schema.Schema
	colBuilders []*ColumnChunkMetaDataBuilder
	nextCol     int
}

// NewRowGroupMetaDataBuilder returns a builder writing into the given
// footer record.
func NewRowGroupMetaDataBuilder(props *parquet.WriterProperties, sc *schema.Schema, rg *format.RowGroup) *RowGroupMetaDataBuilder {
	r := &RowGroupMetaDataBuilder{
		rg:          rg,
		props:       props,
		schema:      sc,
		colBuilders: make([]*ColumnChunkMetaDataBuilder, 0, sc.NumColumns()),
	}
	r.rg.Columns = make([]*format.ColumnChunk, sc.NumColumns())
	r.rg.NumRows = -1
	return r
}

// NumColumns returns the number of column slots in this row group, which
// always equals the schema's column count.
func (r *RowGroupMetaDataBuilder) NumColumns() int {
	return len(r.rg.Columns)
}

// NumRows returns the established row count, or -1 while it has not been
// set yet.
func (r *RowGroupMetaDataBuilder) NumRows() int64 {
	return r.rg.NumRows
}

// SetNumRows establishes the row group's row count
func (r *RowGroupMetaDataBuilder) SetNumRows(nrows int64) {
	r.rg.NumRows = nrows
}

// CurrentColumn returns the 0-based index of the column chunk currently
// being built, or -1 until the first NextColumnChunk call.
func (r *RowGroupMetaDataBuilder) CurrentColumn() int { return r.nextCol - 1 }

// NextColumnChunk allocates the next column chunk slot in schema order and
// returns a builder for it. extra, if non-empty, is embedded as chunk level
// key/value metadata.
func (r *RowGroupMetaDataBuilder) NextColumnChunk(extra map[string]string) (*ColumnChunkMetaDataBuilder, error) {
	if r.nextCol >= r.NumColumns() {
		return nil, fmt.Errorf("%w: the schema only has %d columns, requested metadata for column %d",
			parquet.ErrSequence, r.NumColumns(), r.nextCol)
	}

	col := r.schema.Column(r.nextCol)
	if r.rg.Columns[r.nextCol] == nil {
		r.rg.Columns[r.nextCol] = &format.ColumnChunk{MetaData: &format.ColumnMetaData{}}
	}
	colBldr := NewColumnChunkMetaDataBuilderWithContents(r.props, col, r.rg.Columns[r.nextCol])
	colBldr.SetExtraMetadata(extra)
	r.nextCol++
	r.colBuilders = append(r.colBuilders, colBldr)
	return colBldr, nil
}

// Finish freezes the row group record with the final file offset and
// compressed totals. totalBytesWritten is recorded as the group's
// TotalByteSize and ordinal is the group's position in the file.
func (r *RowGroupMetaDataBuilder) Finish(totalBytesWritten int64, ordinal int16) error {
	if r.nextCol != r.NumColumns() {
		return fmt.Errorf("%w: only %d out of %d columns are initialized",
			parquet.ErrState, r.nextCol, r.NumColumns())
	}

	var (
		fileOffset      int64
		totalCompressed int64
		ok              bool
	)

	for idx, col := range r.rg.Columns {
		if col.FileOffset < 0 {
			return fmt.Errorf("%w: column %d is not complete", parquet.ErrState, idx)
		}
		if idx == 0 {
			if col.MetaData.IsSetDictionaryPageOffset() && col.MetaData.GetDictionaryPageOffset() > 0 {
				fileOffset = col.MetaData.GetDictionaryPageOffset()
			} else {
				fileOffset = col.MetaData.DataPageOffset
			}
		}
		if totalCompressed, ok = overflow.Add64(totalCompressed, r.colBuilders[idx].TotalCompressedSize()); !ok {
			return fmt.Errorf("%w: total compressed size overflows int64", parquet.ErrState)
		}
	}

	if r.rg.NumRows < 0 {
		r.rg.NumRows = 0
	}
	r.rg.FileOffset = &fileOffset
	r.rg.TotalCompressedSize = &totalCompressed
	r.rg.TotalByteSize = totalBytesWritten
	r.rg.Ordinal = &ordinal
	return nil
}
