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

package format

import (
	"context"

	"github.com/apache/thrift/lib/go/thrift"
)

// PageType enum values from the format definition
const (
	PageTypeDataPage       int32 = 0
	PageTypeIndexPage      int32 = 1
	PageTypeDictionaryPage int32 = 2
	PageTypeDataPageV2     int32 = 3
)

// DataPageHeader describes a v1 data page.
type DataPageHeader struct {
	NumValues               int32
	Encoding                int32
	DefinitionLevelEncoding int32
	RepetitionLevelEncoding int32
}

func (h *DataPageHeader) Write(ctx context.Context, p thrift.TProtocol) error {
	w := &protoWriter{ctx: ctx, p: p}
	w.structBegin("DataPageHeader")
	w.field("num_values", thrift.I32, 1, func() { w.i32(h.NumValues) })
	w.field("encoding", thrift.I32, 2, func() { w.i32(h.Encoding) })
	w.field("definition_level_encoding", thrift.I32, 3, func() { w.i32(h.DefinitionLevelEncoding) })
	w.field("repetition_level_encoding", thrift.I32, 4, func() { w.i32(h.RepetitionLevelEncoding) })
	w.structEnd()
	return w.err
}

func (h *DataPageHeader) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, func(id int16, typ thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typ == thrift.I32:
			h.NumValues, err = p.ReadI32(ctx)
		case id == 2 && typ == thrift.I32:
			h.Encoding, err = p.ReadI32(ctx)
		case id == 3 && typ == thrift.I32:
			h.DefinitionLevelEncoding, err = p.ReadI32(ctx)
		case id == 4 && typ == thrift.I32:
			h.RepetitionLevelEncoding, err = p.ReadI32(ctx)
		default:
			return false, nil
		}
		return true, err
	})
}

// PageHeader precedes every page of a column chunk on disk.
type PageHeader struct {
	Type                 int32
	UncompressedPageSize int32
	CompressedPageSize   int32
	DataPageHeader       *DataPageHeader
}

func (h *PageHeader) Write(ctx context.Context, p thrift.TProtocol) error {
	w := &protoWriter{ctx: ctx, p: p}
	w.structBegin("PageHeader")
	w.field("type", thrift.I32, 1, func() { w.i32(h.Type) })
	w.field("uncompressed_page_size", thrift.I32, 2, func() { w.i32(h.UncompressedPageSize) })
	w.field("compressed_page_size", thrift.I32, 3, func() { w.i32(h.CompressedPageSize) })
	if h.DataPageHeader != nil {
		w.field("data_page_header", thrift.STRUCT, 5, func() { w.tstruct(h.DataPageHeader) })
	}
	w.structEnd()
	return w.err
}

func (h *PageHeader) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, func(id int16, typ thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typ == thrift.I32:
			h.Type, err = p.ReadI32(ctx)
		case id == 2 && typ == thrift.I32:
			h.UncompressedPageSize, err = p.ReadI32(ctx)
		case id == 3 && typ == thrift.I32:
			h.CompressedPageSize, err = p.ReadI32(ctx)
		case id == 5 && typ == thrift.STRUCT:
			h.DataPageHeader = &DataPageHeader{}
			err = h.DataPageHeader.Read(ctx, p)
		default:
			return false, nil
		}
		return true, err
	})
}
