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
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/zdblabs/parquet"
	"github.com/zdblabs/parquet/metadata"
)

var magicBytes = []byte("PAR1")

const footerSize = 8 // metadata length field plus trailing magic

// writeFileMetadata serializes the footer: the metadata block, its length
// as a 4 byte little endian integer, and the trailing magic.
func writeFileMetadata(fileMetadata *metadata.FileMetaData, w io.Writer) error {
	n, err := fileMetadata.WriteTo(w)
	if err != nil {
		return err
	}
	if n > math.MaxUint32 {
		return fmt.Errorf("%w: footer metadata of %d bytes exceeds the length field", parquet.ErrSerialization, n)
	}

	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(n))
	if _, err = w.Write(buf[:]); err != nil {
		return fmt.Errorf("%w: writing footer length: %s", parquet.ErrIO, err)
	}
	if _, err = w.Write(magicBytes); err != nil {
		return fmt.Errorf("%w: writing trailing magic: %s", parquet.ErrIO, err)
	}
	return nil
}

// ReadFileMetaData decodes the footer metadata from the tail of a
// serialized file. data must hold at least the final metadata block, the
// length field and the trailing magic, i.e. the last
// len(metadata)+footerSize bytes of the file.
func ReadFileMetaData(data []byte) (*metadata.FileMetaData, error) {
	if len(data) < footerSize {
		return nil, fmt.Errorf("%w: footer requires at least %d bytes, got %d", parquet.ErrSerialization, footerSize, len(data))
	}
	tail := data[len(data)-footerSize:]
	if string(tail[4:]) != string(magicBytes) {
		return nil, fmt.Errorf("%w: invalid trailing magic %q", parquet.ErrSerialization, tail[4:])
	}
	metaLen := int(binary.LittleEndian.Uint32(tail[:4]))
	if metaLen > len(data)-footerSize {
		return nil, fmt.Errorf("%w: footer reports %d metadata bytes but only %d are present", parquet.ErrSerialization, metaLen, len(data)-footerSize)
	}
	start := len(data) - footerSize - metaLen
	return metadata.NewFileMetaData(data[start : len(data)-footerSize])
}
