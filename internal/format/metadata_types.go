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

// KeyValue is a single entry of the ordered key/value metadata embedded in
// the footer and in column chunk metadata.
type KeyValue struct {
	Key   string
	Value *string
}

func (kv *KeyValue) GetValue() string {
	if kv.Value == nil {
		return ""
	}
	return *kv.Value
}

func (kv *KeyValue) Write(ctx context.Context, p thrift.TProtocol) error {
	w := &protoWriter{ctx: ctx, p: p}
	w.structBegin("KeyValue")
	w.field("key", thrift.STRING, 1, func() { w.str(kv.Key) })
	if kv.Value != nil {
		w.field("value", thrift.STRING, 2, func() { w.str(*kv.Value) })
	}
	w.structEnd()
	return w.err
}

func (kv *KeyValue) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, func(id int16, typ thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typ == thrift.STRING:
			kv.Key, err = p.ReadString(ctx)
		case id == 2 && typ == thrift.STRING:
			var v string
			if v, err = p.ReadString(ctx); err == nil {
				kv.Value = &v
			}
		default:
			return false, nil
		}
		return true, err
	})
}

// SchemaElement is one node of the depth first flattened schema tree.
type SchemaElement struct {
	Type           *int32
	TypeLength     *int32
	RepetitionType *int32
	Name           string
	NumChildren    *int32
	ConvertedType  *int32
}

func (se *SchemaElement) IsSetNumChildren() bool { return se.NumChildren != nil }

func (se *SchemaElement) GetNumChildren() int32 {
	if se.NumChildren == nil {
		return 0
	}
	return *se.NumChildren
}

func (se *SchemaElement) Write(ctx context.Context, p thrift.TProtocol) error {
	w := &protoWriter{ctx: ctx, p: p}
	w.structBegin("SchemaElement")
	if se.Type != nil {
		w.field("type", thrift.I32, 1, func() { w.i32(*se.Type) })
	}
	if se.TypeLength != nil {
		w.field("type_length", thrift.I32, 2, func() { w.i32(*se.TypeLength) })
	}
	if se.RepetitionType != nil {
		w.field("repetition_type", thrift.I32, 3, func() { w.i32(*se.RepetitionType) })
	}
	w.field("name", thrift.STRING, 4, func() { w.str(se.Name) })
	if se.NumChildren != nil {
		w.field("num_children", thrift.I32, 5, func() { w.i32(*se.NumChildren) })
	}
	if se.ConvertedType != nil {
		w.field("converted_type", thrift.I32, 6, func() { w.i32(*se.ConvertedType) })
	}
	w.structEnd()
	return w.err
}

func (se *SchemaElement) Read(ctx context.Context, p thrift.TProtocol) error {
	readI32 := func(dst **int32) error {
		v, err := p.ReadI32(ctx)
		if err == nil {
			*dst = &v
		}
		return err
	}
	return readStruct(ctx, p, func(id int16, typ thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typ == thrift.I32:
			err = readI32(&se.Type)
		case id == 2 && typ == thrift.I32:
			err = readI32(&se.TypeLength)
		case id == 3 && typ == thrift.I32:
			err = readI32(&se.RepetitionType)
		case id == 4 && typ == thrift.STRING:
			se.Name, err = p.ReadString(ctx)
		case id == 5 && typ == thrift.I32:
			err = readI32(&se.NumChildren)
		case id == 6 && typ == thrift.I32:
			err = readI32(&se.ConvertedType)
		default:
			return false, nil
		}
		return true, err
	})
}

// ColumnMetaData carries the per chunk facts accumulated while one column
// of one row group is written.
type ColumnMetaData struct {
	Type                  int32
	Encodings             []int32
	PathInSchema          []string
	Codec                 int32
	NumValues             int64
	TotalUncompressedSize int64
	TotalCompressedSize   int64
	KeyValueMetadata      []*KeyValue
	DataPageOffset        int64
	IndexPageOffset       *int64
	DictionaryPageOffset  *int64
}

func (cm *ColumnMetaData) IsSetDictionaryPageOffset() bool { return cm.DictionaryPageOffset != nil }

func (cm *ColumnMetaData) GetDictionaryPageOffset() int64 {
	if cm.DictionaryPageOffset == nil {
		return 0
	}
	return *cm.DictionaryPageOffset
}

func (cm *ColumnMetaData) Write(ctx context.Context, p thrift.TProtocol) error {
	w := &protoWriter{ctx: ctx, p: p}
	w.structBegin("ColumnMetaData")
	w.field("type", thrift.I32, 1, func() { w.i32(cm.Type) })
	w.field("encodings", thrift.LIST, 2, func() {
		w.listBegin(thrift.I32, len(cm.Encodings))
		for _, e := range cm.Encodings {
			w.i32(e)
		}
		w.listEnd()
	})
	w.field("path_in_schema", thrift.LIST, 3, func() {
		w.listBegin(thrift.STRING, len(cm.PathInSchema))
		for _, s := range cm.PathInSchema {
			w.str(s)
		}
		w.listEnd()
	})
	w.field("codec", thrift.I32, 4, func() { w.i32(cm.Codec) })
	w.field("num_values", thrift.I64, 5, func() { w.i64(cm.NumValues) })
	w.field("total_uncompressed_size", thrift.I64, 6, func() { w.i64(cm.TotalUncompressedSize) })
	w.field("total_compressed_size", thrift.I64, 7, func() { w.i64(cm.TotalCompressedSize) })
	if len(cm.KeyValueMetadata) > 0 {
		w.field("key_value_metadata", thrift.LIST, 8, func() {
			w.listBegin(thrift.STRUCT, len(cm.KeyValueMetadata))
			for _, kv := range cm.KeyValueMetadata {
				w.tstruct(kv)
			}
			w.listEnd()
		})
	}
	w.field("data_page_offset", thrift.I64, 9, func() { w.i64(cm.DataPageOffset) })
	if cm.IndexPageOffset != nil {
		w.field("index_page_offset", thrift.I64, 10, func() { w.i64(*cm.IndexPageOffset) })
	}
	if cm.DictionaryPageOffset != nil {
		w.field("dictionary_page_offset", thrift.I64, 11, func() { w.i64(*cm.DictionaryPageOffset) })
	}
	w.structEnd()
	return w.err
}

func (cm *ColumnMetaData) Read(ctx context.Context, p thrift.TProtocol) error {
	readI64 := func(dst **int64) error {
		v, err := p.ReadI64(ctx)
		if err == nil {
			*dst = &v
		}
		return err
	}
	return readStruct(ctx, p, func(id int16, typ thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typ == thrift.I32:
			cm.Type, err = p.ReadI32(ctx)
		case id == 2 && typ == thrift.LIST:
			cm.Encodings, err = readI32List(ctx, p)
		case id == 3 && typ == thrift.LIST:
			cm.PathInSchema, err = readStringList(ctx, p)
		case id == 4 && typ == thrift.I32:
			cm.Codec, err = p.ReadI32(ctx)
		case id == 5 && typ == thrift.I64:
			cm.NumValues, err = p.ReadI64(ctx)
		case id == 6 && typ == thrift.I64:
			cm.TotalUncompressedSize, err = p.ReadI64(ctx)
		case id == 7 && typ == thrift.I64:
			cm.TotalCompressedSize, err = p.ReadI64(ctx)
		case id == 8 && typ == thrift.LIST:
			cm.KeyValueMetadata, err = readKeyValueList(ctx, p)
		case id == 9 && typ == thrift.I64:
			cm.DataPageOffset, err = p.ReadI64(ctx)
		case id == 10 && typ == thrift.I64:
			err = readI64(&cm.IndexPageOffset)
		case id == 11 && typ == thrift.I64:
			err = readI64(&cm.DictionaryPageOffset)
		default:
			return false, nil
		}
		return true, err
	})
}

// ColumnChunk ties ColumnMetaData to its location within the file.
type ColumnChunk struct {
	FilePath   *string
	FileOffset int64
	MetaData   *ColumnMetaData
}

func (cc *ColumnChunk) Write(ctx context.Context, p thrift.TProtocol) error {
	w := &protoWriter{ctx: ctx, p: p}
	w.structBegin("ColumnChunk")
	if cc.FilePath != nil {
		w.field("file_path", thrift.STRING, 1, func() { w.str(*cc.FilePath) })
	}
	w.field("file_offset", thrift.I64, 2, func() { w.i64(cc.FileOffset) })
	if cc.MetaData != nil {
		w.field("meta_data", thrift.STRUCT, 3, func() { w.tstruct(cc.MetaData) })
	}
	w.structEnd()
	return w.err
}

func (cc *ColumnChunk) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, func(id int16, typ thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typ == thrift.STRING:
			var v string
			if v, err = p.ReadString(ctx); err == nil {
				cc.FilePath = &v
			}
		case id == 2 && typ == thrift.I64:
			cc.FileOffset, err = p.ReadI64(ctx)
		case id == 3 && typ == thrift.STRUCT:
			cc.MetaData = &ColumnMetaData{}
			err = cc.MetaData.Read(ctx, p)
		default:
			return false, nil
		}
		return true, err
	})
}

// RowGroup is the footer record of one horizontal partition: the ordered
// column chunks plus the group's size and row count.
type RowGroup struct {
	Columns             []*ColumnChunk
	TotalByteSize       int64
	NumRows             int64
	FileOffset          *int64
	TotalCompressedSize *int64
	Ordinal             *int16
}

func (rg *RowGroup) GetFileOffset() int64 {
	if rg.FileOffset == nil {
		return 0
	}
	return *rg.FileOffset
}

func (rg *RowGroup) GetTotalCompressedSize() int64 {
	if rg.TotalCompressedSize == nil {
		return 0
	}
	return *rg.TotalCompressedSize
}

func (rg *RowGroup) GetOrdinal() int16 {
	if rg.Ordinal == nil {
		return 0
	}
	return *rg.Ordinal
}

func (rg *RowGroup) Write(ctx context.Context, p thrift.TProtocol) error {
	w := &protoWriter{ctx: ctx, p: p}
	w.structBegin("RowGroup")
	w.field("columns", thrift.LIST, 1, func() {
		w.listBegin(thrift.STRUCT, len(rg.Columns))
		for _, c := range rg.Columns {
			w.tstruct(c)
		}
		w.listEnd()
	})
	w.field("total_byte_size", thrift.I64, 2, func() { w.i64(rg.TotalByteSize) })
	w.field("num_rows", thrift.I64, 3, func() { w.i64(rg.NumRows) })
	if rg.FileOffset != nil {
		w.field("file_offset", thrift.I64, 5, func() { w.i64(*rg.FileOffset) })
	}
	if rg.TotalCompressedSize != nil {
		w.field("total_compressed_size", thrift.I64, 6, func() { w.i64(*rg.TotalCompressedSize) })
	}
	if rg.Ordinal != nil {
		w.field("ordinal", thrift.I16, 7, func() { w.i16(*rg.Ordinal) })
	}
	w.structEnd()
	return w.err
}

func (rg *RowGroup) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, func(id int16, typ thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typ == thrift.LIST:
			var size int
			if _, size, err = p.ReadListBegin(ctx); err != nil {
				return true, err
			}
			rg.Columns = make([]*ColumnChunk, size)
			for i := range rg.Columns {
				rg.Columns[i] = &ColumnChunk{}
				if err = rg.Columns[i].Read(ctx, p); err != nil {
					return true, err
				}
			}
			err = p.ReadListEnd(ctx)
		case id == 2 && typ == thrift.I64:
			rg.TotalByteSize, err = p.ReadI64(ctx)
		case id == 3 && typ == thrift.I64:
			rg.NumRows, err = p.ReadI64(ctx)
		case id == 5 && typ == thrift.I64:
			var v int64
			if v, err = p.ReadI64(ctx); err == nil {
				rg.FileOffset = &v
			}
		case id == 6 && typ == thrift.I64:
			var v int64
			if v, err = p.ReadI64(ctx); err == nil {
				rg.TotalCompressedSize = &v
			}
		case id == 7 && typ == thrift.I16:
			var v int16
			if v, err = p.ReadI16(ctx); err == nil {
				rg.Ordinal = &v
			}
		default:
			return false, nil
		}
		return true, err
	})
}

// FileMetaData is the root footer structure.
type FileMetaData struct {
	Version          int32
	Schema           []*SchemaElement
	NumRows          int64
	RowGroups        []*RowGroup
	KeyValueMetadata []*KeyValue
	CreatedBy        *string
}

func (fm *FileMetaData) GetCreatedBy() string {
	if fm.CreatedBy == nil {
		return ""
	}
	return *fm.CreatedBy
}

func (fm *FileMetaData) Write(ctx context.Context, p thrift.TProtocol) error {
	w := &protoWriter{ctx: ctx, p: p}
	w.structBegin("FileMetaData")
	w.field("version", thrift.I32, 1, func() { w.i32(fm.Version) })
	w.field("schema", thrift.LIST, 2, func() {
		w.listBegin(thrift.STRUCT, len(fm.Schema))
		for _, se := range fm.Schema {
			w.tstruct(se)
		}
		w.listEnd()
	})
	w.field("num_rows", thrift.I64, 3, func() { w.i64(fm.NumRows) })
	w.field("row_groups", thrift.LIST, 4, func() {
		w.listBegin(thrift.STRUCT, len(fm.RowGroups))
		for _, rg := range fm.RowGroups {
			w.tstruct(rg)
		}
		w.listEnd()
	})
	// an empty merged mapping omits the field entirely
	if len(fm.KeyValueMetadata) > 0 {
		w.field("key_value_metadata", thrift.LIST, 5, func() {
			w.listBegin(thrift.STRUCT, len(fm.KeyValueMetadata))
			for _, kv := range fm.KeyValueMetadata {
				w.tstruct(kv)
			}
			w.listEnd()
		})
	}
	if fm.CreatedBy != nil {
		w.field("created_by", thrift.STRING, 6, func() { w.str(*fm.CreatedBy) })
	}
	w.structEnd()
	return w.err
}

func (fm *FileMetaData) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, func(id int16, typ thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typ == thrift.I32:
			fm.Version, err = p.ReadI32(ctx)
		case id == 2 && typ == thrift.LIST:
			var size int
			if _, size, err = p.ReadListBegin(ctx); err != nil {
				return true, err
			}
			fm.Schema = make([]*SchemaElement, size)
			for i := range fm.Schema {
				fm.Schema[i] = &SchemaElement{}
				if err = fm.Schema[i].Read(ctx, p); err != nil {
					return true, err
				}
			}
			err = p.ReadListEnd(ctx)
		case id == 3 && typ == thrift.I64:
			fm.NumRows, err = p.ReadI64(ctx)
		case id == 4 && typ == thrift.LIST:
			var size int
			if _, size, err = p.ReadListBegin(ctx); err != nil {
				return true, err
			}
			fm.RowGroups = make([]*RowGroup, size)
			for i := range fm.RowGroups {
				fm.RowGroups[i] = &RowGroup{}
				if err = fm.RowGroups[i].Read(ctx, p); err != nil {
					return true, err
				}
			}
			err = p.ReadListEnd(ctx)
		case id == 5 && typ == thrift.LIST:
			fm.KeyValueMetadata, err = readKeyValueList(ctx, p)
		case id == 6 && typ == thrift.STRING:
			var v string
			if v, err = p.ReadString(ctx); err == nil {
				fm.CreatedBy = &v
			}
		default:
			return false, nil
		}
		return true, err
	})
}

func readI32List(ctx context.Context, p thrift.TProtocol) ([]int32, error) {
	_, size, err := p.ReadListBegin(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]int32, size)
	for i := range out {
		if out[i], err = p.ReadI32(ctx); err != nil {
			return nil, err
		}
	}
	return out, p.ReadListEnd(ctx)
}

func readStringList(ctx context.Context, p thrift.TProtocol) ([]string, error) {
	_, size, err := p.ReadListBegin(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, size)
	for i := range out {
		if out[i], err = p.ReadString(ctx); err != nil {
			return nil, err
		}
	}
	return out, p.ReadListEnd(ctx)
}

func readKeyValueList(ctx context.Context, p thrift.TProtocol) ([]*KeyValue, error) {
	_, size, err := p.ReadListBegin(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*KeyValue, size)
	for i := range out {
		out[i] = &KeyValue{}
		if err = out[i].Read(ctx, p); err != nil {
			return nil, err
		}
	}
	return out, p.ReadListEnd(ctx)
}
