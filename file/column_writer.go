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
	"github.com/zdblabs/parquet/internal/encoding"
	"github.com/zdblabs/parquet/metadata"
	"github.com/zdblabs/parquet/schema"
)

// ColumnChunkWriter is the base interface for the typed column chunk
// writers. Value writing happens through the WriteBatch method of the
// concrete type, obtained by asserting against the column's physical
// type:
//
//	w, err := rgw.NextColumn()
//	w.(*file.Int64ColumnChunkWriter).WriteBatch(vals)
type ColumnChunkWriter interface {
	// Descr returns the schema leaf this writer populates
	Descr() *schema.Column
	// RowsWritten returns the number of rows written to the chunk so far
	RowsWritten() int64
	// TotalCompressedBytes returns the compressed size of the pages
	// flushed so far, including their headers
	TotalCompressedBytes() int64
	// TotalBytesWritten returns the number of bytes the chunk has put on
	// the sink so far
	TotalBytesWritten() int64
	// Close flushes any buffered values as a final page and finalizes
	// the chunk metadata. A chunk always carries at least one page, even
	// when no values were written.
	Close() error
}

type columnWriter struct {
	descr    *schema.Column
	pager    *serializedPageWriter
	props    *parquet.WriterProperties
	encoding parquet.Encoding
	pageSize int64

	rowsWritten       int64
	totalBytesWritten int64
	pagesWritten      int
	closed            bool

	// set by the typed writer wrapping this base
	flushValues func() error
	numBuffered func() int
}

func (w *columnWriter) Descr() *schema.Column       { return w.descr }
func (w *columnWriter) RowsWritten() int64          { return w.rowsWritten }
func (w *columnWriter) TotalCompressedBytes() int64 { return w.pager.TotalCompressed() }
func (w *columnWriter) TotalBytesWritten() int64    { return w.totalBytesWritten }

func (w *columnWriter) checkOpen() error {
	if w.closed {
		return fmt.Errorf("%w: cannot write to a closed column chunk for %s",
			parquet.ErrState, w.descr.Path())
	}
	return nil
}

// flushPage hands one encoded page to the page writer
func (w *columnWriter) flushPage(buf []byte, numValues int) error {
	n, err := w.pager.WriteDataPage(dataPage{
		numValues: int32(numValues),
		encoding:  w.encoding,
		buf:       buf,
	})
	if err != nil {
		return err
	}
	w.totalBytesWritten += n
	w.pagesWritten++
	return nil
}

func (w *columnWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.numBuffered() > 0 || w.pagesWritten == 0 {
		if err := w.flushValues(); err != nil {
			return err
		}
	}
	return w.pager.Close(w.encoding)
}

// newColumnChunkWriter creates the typed writer for the chunk's leaf
// column. Only required leaves and plain encoding are supported.
func newColumnChunkWriter(metaData *metadata.ColumnChunkMetaDataBuilder, pager *serializedPageWriter,
	props *parquet.WriterProperties) (ColumnChunkWriter, error) {
	descr := metaData.Descr()
	if descr.RepetitionType() != parquet.Repetitions.Required {
		return nil, fmt.Errorf("%w: column %s is %s, only required leaves can be written",
			parquet.ErrState, descr.Path(), descr.RepetitionType())
	}
	enc := props.EncodingFor(descr.Path())
	if enc != parquet.Encodings.Plain {
		return nil, fmt.Errorf("%w: encoding %s is not implemented for column %s",
			parquet.ErrState, enc, descr.Path())
	}

	base := columnWriter{
		descr:    descr,
		pager:    pager,
		props:    props,
		encoding: enc,
		pageSize: props.DataPageSize(),
	}
	switch descr.PhysicalType() {
	case parquet.Types.Boolean:
		w := &BooleanColumnChunkWriter{columnWriter: base}
		w.bind(&w.columnWriter)
		return w, nil
	case parquet.Types.Int32:
		w := &Int32ColumnChunkWriter{columnWriter: base}
		w.bind(&w.columnWriter)
		return w, nil
	case parquet.Types.Int64:
		w := &Int64ColumnChunkWriter{columnWriter: base}
		w.bind(&w.columnWriter)
		return w, nil
	case parquet.Types.Float:
		w := &Float32ColumnChunkWriter{columnWriter: base}
		w.bind(&w.columnWriter)
		return w, nil
	case parquet.Types.Double:
		w := &Float64ColumnChunkWriter{columnWriter: base}
		w.bind(&w.columnWriter)
		return w, nil
	case parquet.Types.ByteArray:
		w := &ByteArrayColumnChunkWriter{columnWriter: base}
		w.bind(&w.columnWriter)
		return w, nil
	case parquet.Types.FixedLenByteArray:
		w := &FixedLenByteArrayColumnChunkWriter{columnWriter: base}
		w.bind(&w.columnWriter)
		return w, nil
	default:
		return nil, fmt.Errorf("%w: no writer for physical type %s",
			parquet.ErrState, descr.PhysicalType())
	}
}

// BooleanColumnChunkWriter writes bit-packed boolean values
type BooleanColumnChunkWriter struct {
	columnWriter
	values []bool
}

func (w *BooleanColumnChunkWriter) bind(base *columnWriter) {
	base.flushValues = w.flush
	base.numBuffered = func() int { return len(w.values) }
}

func (w *BooleanColumnChunkWriter) flush() error {
	buf := encoding.PlainBoolean(nil, w.values)
	n := len(w.values)
	w.values = w.values[:0]
	return w.flushPage(buf, n)
}

// WriteBatch appends values to the chunk, one row per value
func (w *BooleanColumnChunkWriter) WriteBatch(values []bool) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	w.values = append(w.values, values...)
	w.rowsWritten += int64(len(values))
	if int64(len(w.values))/8 >= w.pageSize {
		return w.flush()
	}
	return nil
}

// Int32ColumnChunkWriter writes little endian int32 values
type Int32ColumnChunkWriter struct {
	columnWriter
	values []int32
}

func (w *Int32ColumnChunkWriter) bind(base *columnWriter) {
	base.flushValues = w.flush
	base.numBuffered = func() int { return len(w.values) }
}

func (w *Int32ColumnChunkWriter) flush() error {
	buf := encoding.PlainInt32(nil, w.values)
	n := len(w.values)
	w.values = w.values[:0]
	return w.flushPage(buf, n)
}

// WriteBatch appends values to the chunk, one row per value
func (w *Int32ColumnChunkWriter) WriteBatch(values []int32) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	w.values = append(w.values, values...)
	w.rowsWritten += int64(len(values))
	if int64(len(w.values))*4 >= w.pageSize {
		return w.flush()
	}
	return nil
}

// Int64ColumnChunkWriter writes little endian int64 values
type Int64ColumnChunkWriter struct {
	columnWriter
	values []int64
}

func (w *Int64ColumnChunkWriter) bind(base *columnWriter) {
	base.flushValues = w.flush
	base.numBuffered = func() int { return len(w.values) }
}

func (w *Int64ColumnChunkWriter) flush() error {
	buf := encoding.PlainInt64(nil, w.values)
	n := len(w.values)
	w.values = w.values[:0]
	return w.flushPage(buf, n)
}

// WriteBatch appends values to the chunk, one row per value
func (w *Int64ColumnChunkWriter) WriteBatch(values []int64) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	w.values = append(w.values, values...)
	w.rowsWritten += int64(len(values))
	if int64(len(w.values))*8 >= w.pageSize {
		return w.flush()
	}
	return nil
}

// Float32ColumnChunkWriter writes IEEE 754 single precision values
type Float32ColumnChunkWriter struct {
	columnWriter
	values []float32
}

func (w *Float32ColumnChunkWriter) bind(base *columnWriter) {
	base.flushValues = w.flush
	base.numBuffered = func() int { return len(w.values) }
}

func (w *Float32ColumnChunkWriter) flush() error {
	buf := encoding.PlainFloat32(nil, w.values)
	n := len(w.values)
	w.values = w.values[:0]
	return w.flushPage(buf, n)
}

// WriteBatch appends values to the chunk, one row per value
func (w *Float32ColumnChunkWriter) WriteBatch(values []float32) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	w.values = append(w.values, values...)
	w.rowsWritten += int64(len(values))
	if int64(len(w.values))*4 >= w.pageSize {
		return w.flush()
	}
	return nil
}

// Float64ColumnChunkWriter writes IEEE 754 double precision values
type Float64ColumnChunkWriter struct {
	columnWriter
	values []float64
}

func (w *Float64ColumnChunkWriter) bind(base *columnWriter) {
	base.flushValues = w.flush
	base.numBuffered = func() int { return len(w.values) }
}

func (w *Float64ColumnChunkWriter) flush() error {
	buf := encoding.PlainFloat64(nil, w.values)
	n := len(w.values)
	w.values = w.values[:0]
	return w.flushPage(buf, n)
}

// WriteBatch appends values to the chunk, one row per value
func (w *Float64ColumnChunkWriter) WriteBatch(values []float64) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	w.values = append(w.values, values...)
	w.rowsWritten += int64(len(values))
	if int64(len(w.values))*8 >= w.pageSize {
		return w.flush()
	}
	return nil
}

// ByteArrayColumnChunkWriter writes length prefixed variable size values
type ByteArrayColumnChunkWriter struct {
	columnWriter
	values        []parquet.ByteArray
	bufferedBytes int64
}

func (w *ByteArrayColumnChunkWriter) bind(base *columnWriter) {
	base.flushValues = w.flush
	base.numBuffered = func() int { return len(w.values) }
}

func (w *ByteArrayColumnChunkWriter) flush() error {
	buf := encoding.PlainByteArray(nil, w.values)
	n := len(w.values)
	w.values = w.values[:0]
	w.bufferedBytes = 0
	return w.flushPage(buf, n)
}

// WriteBatch appends values to the chunk, one row per value. The writer
// keeps references to the passed slices until the page is flushed.
func (w *ByteArrayColumnChunkWriter) WriteBatch(values []parquet.ByteArray) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	w.values = append(w.values, values...)
	w.rowsWritten += int64(len(values))
	for _, v := range values {
		w.bufferedBytes += 4 + int64(len(v))
	}
	if w.bufferedBytes >= w.pageSize {
		return w.flush()
	}
	return nil
}

// FixedLenByteArrayColumnChunkWriter writes fixed size binary values.
// Every value must be exactly the schema declared length.
type FixedLenByteArrayColumnChunkWriter struct {
	columnWriter
	values []parquet.FixedLenByteArray
}

func (w *FixedLenByteArrayColumnChunkWriter) bind(base *columnWriter) {
	base.flushValues = w.flush
	base.numBuffered = func() int { return len(w.values) }
}

func (w *FixedLenByteArrayColumnChunkWriter) flush() error {
	buf := encoding.PlainFixedLenByteArray(nil, w.values)
	n := len(w.values)
	w.values = w.values[:0]
	return w.flushPage(buf, n)
}

// WriteBatch appends values to the chunk, one row per value. The writer
// keeps references to the passed slices until the page is flushed.
func (w *FixedLenByteArrayColumnChunkWriter) WriteBatch(values []parquet.FixedLenByteArray) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	typeLen := int64(w.descr.TypeLength())
	for _, v := range values {
		if int64(len(v)) != typeLen {
			return fmt.Errorf("%w: column %s expects %d byte values, got %d",
				parquet.ErrDataConsistency, w.descr.Path(), typeLen, len(v))
		}
	}
	w.values = append(w.values, values...)
	w.rowsWritten += int64(len(values))
	if int64(len(w.values))*typeLen >= w.pageSize {
		return w.flush()
	}
	return nil
}
