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
	"math"

	"github.com/zdblabs/parquet"
	"github.com/zdblabs/parquet/compress"
	"github.com/zdblabs/parquet/internal/format"
	"github.com/zdblabs/parquet/internal/thrift"
	"github.com/zdblabs/parquet/internal/utils"
	"github.com/zdblabs/parquet/metadata"
)

// dataPage is a fully encoded, uncompressed page ready to be flushed
type dataPage struct {
	numValues int32
	encoding  parquet.Encoding
	buf       []byte
}

// serializedPageWriter compresses pages and writes them to the file sink
// preceded by their thrift page headers, accumulating chunk totals into
// the column chunk metadata builder.
type serializedPageWriter struct {
	sink             utils.WriterTell
	codec            compress.Codec
	compressionLevel int
	metaData         *metadata.ColumnChunkMetaDataBuilder
	serializer       *thrift.Serializer

	numValues         int64
	totalUncompressed int64
	totalCompressed   int64
	compressBuf       []byte
}

func newSerializedPageWriter(sink utils.WriterTell, codecType compress.Compression, compressionLevel int,
	metaData *metadata.ColumnChunkMetaDataBuilder) (*serializedPageWriter, error) {
	codec, err := compress.GetCodec(codecType)
	if err != nil {
		return nil, err
	}
	return &serializedPageWriter{
		sink:             sink,
		codec:            codec,
		compressionLevel: compressionLevel,
		metaData:         metaData,
		serializer:       thrift.NewSerializer(),
	}, nil
}

func (pw *serializedPageWriter) compress(src []byte) []byte {
	pw.compressBuf = pw.compressBuf[:0]
	if cap(pw.compressBuf) < int(pw.codec.CompressBound(int64(len(src)))) {
		pw.compressBuf = make([]byte, 0, pw.codec.CompressBound(int64(len(src))))
	}
	if pw.compressionLevel != compress.DefaultCompressionLevel {
		return pw.codec.EncodeLevel(pw.compressBuf, src, pw.compressionLevel)
	}
	return pw.codec.Encode(pw.compressBuf, src)
}

// WriteDataPage compresses the page, records the chunk's first data page
// offset, and writes the header followed by the page body. The returned
// count includes the header bytes.
func (pw *serializedPageWriter) WriteDataPage(page dataPage) (int64, error) {
	compressed := pw.compress(page.buf)
	if int64(len(page.buf)) > math.MaxInt32 || int64(len(compressed)) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: page of %d bytes exceeds the page size field", parquet.ErrSerialization, len(page.buf))
	}

	hdr := &format.PageHeader{
		Type:                 format.PageTypeDataPage,
		UncompressedPageSize: int32(len(page.buf)),
		CompressedPageSize:   int32(len(compressed)),
		DataPageHeader: &format.DataPageHeader{
			NumValues:               page.numValues,
			Encoding:                int32(page.encoding),
			DefinitionLevelEncoding: int32(parquet.Encodings.RLE),
			RepetitionLevelEncoding: int32(parquet.Encodings.RLE),
		},
	}

	startPos := pw.sink.Tell()
	if pw.numValues == 0 {
		pw.metaData.SetDataPageOffset(startPos)
	}

	headerLen, err := pw.serializer.Serialize(hdr, pw.sink)
	if err != nil {
		return 0, fmt.Errorf("%w: serializing page header: %s", parquet.ErrSerialization, err)
	}
	if _, err = pw.sink.Write(compressed); err != nil {
		return 0, fmt.Errorf("%w: writing page data: %s", parquet.ErrIO, err)
	}

	written := int64(headerLen) + int64(len(compressed))
	pw.numValues += int64(page.numValues)
	pw.totalUncompressed += int64(headerLen) + int64(len(page.buf))
	pw.totalCompressed += written
	return written, nil
}

func (pw *serializedPageWriter) NumValues() int64         { return pw.numValues }
func (pw *serializedPageWriter) TotalCompressed() int64   { return pw.totalCompressed }
func (pw *serializedPageWriter) TotalUncompressed() int64 { return pw.totalUncompressed }

// Close finalizes the chunk metadata with the accumulated totals
func (pw *serializedPageWriter) Close(encoding parquet.Encoding) error {
	return pw.metaData.Finish(pw.numValues, pw.totalCompressed, pw.totalUncompressed, encoding)
}
