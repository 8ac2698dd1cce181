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
	"fmt"

	"github.com/zdblabs/parquet"
	"github.com/zdblabs/parquet/internal/utils"
	"github.com/zdblabs/parquet/metadata"
)

// RowGroupWriter writes the column chunks of a single row group, one
// column at a time in schema order. Columns are written serially against
// the file sink, so the previous column chunk is finalized when the next
// one is requested. All chunks of a group must receive the same number of
// rows; the first chunk to finalize establishes the count and every later
// chunk is checked against it.
type RowGroupWriter interface {
	// NumColumns returns the number of column chunks in this row group,
	// which always equals the schema's leaf count.
	NumColumns() int
	// NumRows returns the row count established by the first finalized
	// column chunk, or 0 while no chunk has been finalized yet.
	NumRows() int64
	// CurrentColumn returns the 0-based index of the column currently
	// being written, or -1 before the first NextColumn call.
	CurrentColumn() int
	// NextColumn finalizes the current column chunk and returns the
	// writer for the next one in schema order.
	NextColumn() (ColumnChunkWriter, error)
	// NextColumnWithMetadata is NextColumn with extra key/value pairs
	// embedded into the new chunk's metadata.
	NextColumnWithMetadata(extra map[string]string) (ColumnChunkWriter, error)
	// TotalBytesWritten returns the number of bytes this row group has
	// put on the sink so far, including finalized chunks.
	TotalBytesWritten() int64
	// TotalCompressedBytes returns the compressed size of the data
	// flushed by this row group so far.
	TotalCompressedBytes() int64
	// Close finalizes the last column chunk and freezes the row group's
	// footer record. Close is idempotent.
	Close() error
}

type rowGroupWriter struct {
	sink     utils.WriterTell
	metadata *metadata.RowGroupMetaDataBuilder
	props    *parquet.WriterProperties
	ordinal  int16

	bytesWritten    int64
	compressedBytes int64
	nrows           int64
	closed          bool
	current         ColumnChunkWriter
}

func newRowGroupWriter(sink utils.WriterTell, rgMeta *metadata.RowGroupMetaDataBuilder,
	ordinal int16, props *parquet.WriterProperties) *rowGroupWriter {
	return &rowGroupWriter{
		sink:     sink,
		metadata: rgMeta,
		props:    props,
		ordinal:  ordinal,
		nrows:    -1,
	}
}

func (rg *rowGroupWriter) NumColumns() int { return rg.metadata.NumColumns() }

func (rg *rowGroupWriter) NumRows() int64 {
	if rg.nrows < 0 {
		return 0
	}
	return rg.nrows
}

func (rg *rowGroupWriter) CurrentColumn() int { return rg.metadata.CurrentColumn() }

func (rg *rowGroupWriter) TotalBytesWritten() int64 {
	total := rg.bytesWritten
	if rg.current != nil {
		total += rg.current.TotalBytesWritten()
	}
	return total
}

func (rg *rowGroupWriter) TotalCompressedBytes() int64 {
	total := rg.compressedBytes
	if rg.current != nil {
		total += rg.current.TotalCompressedBytes()
	}
	return total
}

// checkRowsWritten verifies the finishing chunk against the group's
// established row count, or establishes it if this is the first chunk to
// finish.
func (rg *rowGroupWriter) checkRowsWritten() error {
	if rg.current == nil {
		return nil
	}
	written := rg.current.RowsWritten()
	if rg.nrows < 0 {
		rg.nrows = written
		rg.metadata.SetNumRows(written)
		return nil
	}
	if rg.nrows != written {
		return fmt.Errorf("%w: column %d has %d rows written, expected %d to match the rest of the row group",
			parquet.ErrDataConsistency, rg.metadata.CurrentColumn(), written, rg.nrows)
	}
	return nil
}

// closeCurrent finalizes the chunk in progress and folds its totals into
// the group's.
func (rg *rowGroupWriter) closeCurrent() error {
	if rg.current == nil {
		return nil
	}
	if err := rg.current.Close(); err != nil {
		return err
	}
	rg.bytesWritten += rg.current.TotalBytesWritten()
	rg.compressedBytes += rg.current.TotalCompressedBytes()
	rg.current = nil
	return nil
}

func (rg *rowGroupWriter) NextColumn() (ColumnChunkWriter, error) {
	return rg.NextColumnWithMetadata(nil)
}

func (rg *rowGroupWriter) NextColumnWithMetadata(extra map[string]string) (ColumnChunkWriter, error) {
	if rg.closed {
		return nil, fmt.Errorf("%w: the row group is already closed", parquet.ErrState)
	}
	if err := rg.checkRowsWritten(); err != nil {
		return nil, err
	}

	// request the chunk slot before touching the current writer so a
	// sequencing error leaves the group untouched
	colMeta, err := rg.metadata.NextColumnChunk(extra)
	if err != nil {
		return nil, err
	}
	if err := rg.closeCurrent(); err != nil {
		return nil, err
	}

	path := colMeta.Descr().Path()
	pager, err := newSerializedPageWriter(rg.sink, rg.props.CompressionFor(path),
		rg.props.CompressionLevelFor(path), colMeta)
	if err != nil {
		return nil, err
	}
	rg.current, err = newColumnChunkWriter(colMeta, pager, rg.props)
	if err != nil {
		return nil, err
	}
	return rg.current, nil
}

func (rg *rowGroupWriter) Close() error {
	if rg.closed {
		return nil
	}
	rg.closed = true

	if err := rg.checkRowsWritten(); err != nil {
		return err
	}
	if err := rg.closeCurrent(); err != nil {
		return err
	}
	return rg.metadata.Finish(rg.bytesWritten, rg.ordinal)
}
