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

package main

import (
	"fmt"
	"os"

	"github.com/docopt/docopt-go"
	"github.com/goccy/go-json"

	"github.com/zdblabs/parquet/file"
	"github.com/zdblabs/parquet/metadata"
	"github.com/zdblabs/parquet/schema"
)

const usage = `Parquet Footer Dumper.
Usage:
  parquet-footer -h | --help
  parquet-footer [--json] [--print-key-value-metadata] [--print-schema] <file>
Options:
  -h --help                     Show this screen.
  --json                        Format output as JSON instead of text.
  --print-key-value-metadata    Print out the key-value metadata [default: false]
  --print-schema                Print out the schema tree [default: false]`

type rowGroupInfo struct {
	Ordinal             int16        `json:"ordinal"`
	NumRows             int64        `json:"num_rows"`
	TotalByteSize       int64        `json:"total_byte_size"`
	TotalCompressedSize int64        `json:"total_compressed_size"`
	FileOffset          int64        `json:"file_offset"`
	NumColumns          int          `json:"num_columns"`
	Columns             []columnInfo `json:"columns"`
}

type columnInfo struct {
	Path             string `json:"path"`
	Type             string `json:"type"`
	Codec            string `json:"codec"`
	NumValues        int64  `json:"num_values"`
	CompressedSize   int64  `json:"compressed_size"`
	UncompressedSize int64  `json:"uncompressed_size"`
	DataPageOffset   int64  `json:"data_page_offset"`
}

type footerInfo struct {
	File         string                    `json:"file"`
	Version      int32                     `json:"version"`
	CreatedBy    string                    `json:"created_by"`
	NumRows      int64                     `json:"num_rows"`
	NumColumns   int                       `json:"num_columns"`
	RowGroups    []rowGroupInfo            `json:"row_groups"`
	KeyValueMeta metadata.KeyValueMetadata `json:"key_value_metadata,omitempty"`
}

func main() {
	opts, _ := docopt.ParseDoc(usage)
	var config struct {
		JSON                  bool `docopt:"--json"`
		PrintKeyValueMetadata bool
		PrintSchema           bool
		File                  string
	}
	opts.Bind(&config)

	data, err := os.ReadFile(config.File)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error reading file:", err)
		os.Exit(1)
	}
	fileMetadata, err := file.ReadFileMetaData(data)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error decoding footer:", err)
		os.Exit(1)
	}

	info := footerInfo{
		File:       config.File,
		Version:    fileMetadata.Version(),
		CreatedBy:  fileMetadata.CreatedBy(),
		NumRows:    fileMetadata.NumRows(),
		NumColumns: fileMetadata.NumColumns(),
	}
	if config.PrintKeyValueMetadata {
		info.KeyValueMeta = fileMetadata.KeyValueMetadata()
	}
	for i := 0; i < fileMetadata.NumRowGroups(); i++ {
		rg := fileMetadata.RowGroup(i)
		rgInfo := rowGroupInfo{
			Ordinal:             rg.Ordinal(),
			NumRows:             rg.NumRows(),
			TotalByteSize:       rg.TotalByteSize(),
			TotalCompressedSize: rg.TotalCompressedSize(),
			FileOffset:          rg.FileOffset(),
			NumColumns:          rg.NumColumns(),
		}
		for c := 0; c < rg.NumColumns(); c++ {
			chunk, err := rg.ColumnChunk(c)
			if err != nil {
				fmt.Fprintln(os.Stderr, "error reading column chunk metadata:", err)
				os.Exit(1)
			}
			rgInfo.Columns = append(rgInfo.Columns, columnInfo{
				Path:             chunk.PathInSchema().String(),
				Type:             chunk.Type().String(),
				Codec:            chunk.Compression().String(),
				NumValues:        chunk.NumValues(),
				CompressedSize:   chunk.TotalCompressedSize(),
				UncompressedSize: chunk.TotalUncompressedSize(),
				DataPageOffset:   chunk.DataPageOffset(),
			})
		}
		info.RowGroups = append(info.RowGroups, rgInfo)
	}

	if config.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(info); err != nil {
			fmt.Fprintln(os.Stderr, "error encoding output:", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("File name:", info.File)
	fmt.Println("Version:", info.Version)
	fmt.Println("Created By:", info.CreatedBy)
	fmt.Println("Num Rows:", info.NumRows)
	fmt.Println("Number of RowGroups:", len(info.RowGroups))
	fmt.Println("Number of Columns:", info.NumColumns)

	if config.PrintKeyValueMetadata {
		kv := fileMetadata.KeyValueMetadata()
		fmt.Println("Key Value File Metadata:", kv.Len(), "entries")
		keys := kv.Keys()
		values := kv.Values()
		for i := 0; i < kv.Len(); i++ {
			fmt.Printf("Key nr %d %s: %s\n", i, keys[i], values[i])
		}
	}
	if config.PrintSchema {
		schema.PrintSchema(fileMetadata.Schema.Root(), os.Stdout, 2)
	}

	for _, rg := range info.RowGroups {
		fmt.Printf("--- Row Group: %d ---\n", rg.Ordinal)
		fmt.Printf("--- Total Bytes: %d ---\n", rg.TotalByteSize)
		fmt.Printf("--- Total Compressed Bytes: %d ---\n", rg.TotalCompressedSize)
		fmt.Printf("--- Rows: %d ---\n", rg.NumRows)
		for i, col := range rg.Columns {
			fmt.Printf("Column %d: %s (%s)\n", i, col.Path, col.Type)
			fmt.Printf("  Values: %d, Compression: %s\n", col.NumValues, col.Codec)
			fmt.Printf("  Compressed: %d bytes, Uncompressed: %d bytes, Data Page Offset: %d\n",
				col.CompressedSize, col.UncompressedSize, col.DataPageOffset)
		}
	}
}
