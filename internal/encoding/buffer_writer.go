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

// Package encoding holds the in-memory byte sink and the plain value
// encoders used by the basic column chunk writers.
package encoding

import (
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// BufferWriter is an in-memory byte sink over an allocator-backed buffer.
// It satisfies the writer's sink contract (Write/Tell/Close) and exposes
// the accumulated bytes, which makes it the sink of choice in tests and
// for buffered rewrites.
type BufferWriter struct {
	buffer *memory.Buffer
	pos    int
	mem    memory.Allocator
}

// NewBufferWriter returns a BufferWriter with an initial reservation
func NewBufferWriter(initial int, mem memory.Allocator) *BufferWriter {
	buf := memory.NewResizableBuffer(mem)
	buf.Reserve(initial)
	return &BufferWriter{buffer: buf, mem: mem}
}

func (b *BufferWriter) Write(buf []byte) (int, error) {
	if b.buffer.Len() < b.pos+len(buf) {
		b.buffer.ResizeNoShrink(b.pos + len(buf))
	}
	copy(b.buffer.Bytes()[b.pos:], buf)
	b.pos += len(buf)
	return len(buf), nil
}

// Tell returns the current write position
func (b *BufferWriter) Tell() int64 { return int64(b.pos) }

// Bytes returns the written bytes without transferring ownership
func (b *BufferWriter) Bytes() []byte { return b.buffer.Bytes()[:b.pos] }

// Finish transfers ownership of the underlying buffer to the caller, who
// is responsible for releasing it. The writer is reset to empty.
func (b *BufferWriter) Finish() *memory.Buffer {
	b.buffer.Resize(b.pos)
	buf := b.buffer
	b.buffer = memory.NewResizableBuffer(b.mem)
	b.pos = 0
	return buf
}

// Close is a no-op: the bytes stay readable so callers can inspect what
// was written. Releasing the buffer is the job of whoever takes it via
// Finish.
func (b *BufferWriter) Close() error { return nil }
