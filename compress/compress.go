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

// Package compress contains the interfaces and implementations for the
// block compression codecs that can be chosen per column when writing a
// file. The enum values match the thrift CompressionCodec enum of the
// format so they can be written into footer structures directly.
package compress

import (
	"compress/flate"
	"io"

	"golang.org/x/xerrors"
)

// Compression is the codec enum stored in the column chunk metadata
type Compression int32

// Codecs is a useful struct to provide namespaced enum values to use for
// specifying the compression type to use. The values match the thrift enum
// so they convert directly.
var Codecs = struct {
	Uncompressed Compression
	Snappy       Compression
	Gzip         Compression
	// LZO is part of the format enum, but has no implementation here
	Lzo    Compression
	Brotli Compression
	Lz4    Compression
	Zstd   Compression
}{
	Uncompressed: Compression(0),
	Snappy:       Compression(1),
	Gzip:         Compression(2),
	Lzo:          Compression(3),
	Brotli:       Compression(4),
	Lz4:          Compression(5),
	Zstd:         Compression(6),
}

func (c Compression) String() string {
	switch c {
	case Codecs.Uncompressed:
		return "UNCOMPRESSED"
	case Codecs.Snappy:
		return "SNAPPY"
	case Codecs.Gzip:
		return "GZIP"
	case Codecs.Lzo:
		return "LZO"
	case Codecs.Brotli:
		return "BROTLI"
	case Codecs.Lz4:
		return "LZ4"
	case Codecs.Zstd:
		return "ZSTD"
	}
	return "UNKNOWN"
}

// DefaultCompressionLevel will use flate.DefaultCompression since many of the
// compression libraries use that to denote "use the default".
const DefaultCompressionLevel = flate.DefaultCompression

// Codec is an interface implemented for each compression type to make
// interactions consistent. Most consumers get one via GetCodec rather than
// constructing them directly.
type Codec interface {
	// NewReader provides a reader that wraps a stream with compressed data to stream the uncompressed data
	NewReader(io.Reader) io.ReadCloser
	// NewWriter provides a wrapper around a write stream to compress data before writing it.
	NewWriter(io.Writer) io.WriteCloser
	// NewWriterLevel is like NewWriter but allows specifying the compression level
	NewWriterLevel(io.Writer, int) (io.WriteCloser, error)
	// Encode encodes a block of data given by src and returns the compressed block.
	// dst needs to be either nil or sized large enough to fit the compressed
	// block (use CompressBound to allocate). dst and src should not overlap.
	//
	// The returned slice *might* be a slice of dst.
	Encode(dst, src []byte) []byte
	// EncodeLevel is like Encode, but with a particular compression level
	// rather than the default.
	EncodeLevel(dst, src []byte, level int) []byte
	// CompressBound returns the maximum possible size of compressed data
	// for the given input length under this codec.
	CompressBound(int64) int64
	// Decode decodes a single block rather than a stream. Like Encode, dst
	// must be either nil or sized large enough to accommodate the
	// uncompressed data and should not overlap with src.
	//
	// The returned slice *might* be a slice of dst.
	Decode(dst, src []byte) []byte
}

var codecs = map[Compression]Codec{}

// RegisterCodec adds or overrides a codec implementation for the given
// compression type. Used by the per-codec files in this package during init.
func RegisterCodec(typ Compression, codec Codec) {
	codecs[typ] = codec
}

// GetCodec returns a Codec interface for the requested Compression type
func GetCodec(typ Compression) (Codec, error) {
	ret, ok := codecs[typ]
	if !ok {
		return nil, xerrors.Errorf("compress: codec for %s not implemented", typ)
	}
	return ret, nil
}

type nocodec struct{}

func (nocodec) NewReader(r io.Reader) io.ReadCloser {
	if rc, ok := r.(io.ReadCloser); ok {
		return rc
	}
	return io.NopCloser(r)
}

func (nocodec) Decode(dst, src []byte) []byte {
	if dst != nil {
		copy(dst, src)
		return dst[:len(src)]
	}
	return src
}

type writerNopCloser struct {
	io.Writer
}

func (writerNopCloser) Close() error { return nil }

func (nocodec) Encode(dst, src []byte) []byte {
	copy(dst[:cap(dst)], src)
	return dst[:len(src)]
}

func (nc nocodec) EncodeLevel(dst, src []byte, _ int) []byte {
	return nc.Encode(dst, src)
}

func (nocodec) NewWriter(w io.Writer) io.WriteCloser {
	if wc, ok := w.(io.WriteCloser); ok {
		return wc
	}
	return writerNopCloser{w}
}

func (n nocodec) NewWriterLevel(w io.Writer, _ int) (io.WriteCloser, error) {
	return n.NewWriter(w), nil
}

func (nocodec) CompressBound(len int64) int64 { return len }

func init() {
	RegisterCodec(Codecs.Uncompressed, nocodec{})
}
