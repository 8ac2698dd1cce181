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

package utils

import "io"

// WriterTell is an io.Writer that can also report the current write
// position. All writes through this module are append only, so Tell is
// simply the count of bytes written so far.
type WriterTell interface {
	io.Writer
	Tell() int64
}

// WriteCloserTell is a WriterTell that can also be closed
type WriteCloserTell interface {
	WriterTell
	io.Closer
}

// TellWrapper wraps any io.Writer to track the number of bytes written.
// When the wrapped writer is seekable the caller must hand it over already
// positioned; Tell reports offsets relative to that position.
type TellWrapper struct {
	io.Writer
	offset int64
}

// NewTellWrapper wraps w, starting from w's own position when w can
// already report one. That keeps offsets absolute when writing continues
// on a sink that holds earlier data.
func NewTellWrapper(w io.Writer) *TellWrapper {
	tw := &TellWrapper{Writer: w}
	if wt, ok := w.(WriterTell); ok {
		tw.offset = wt.Tell()
	}
	return tw
}

func (w *TellWrapper) Tell() int64 { return w.offset }

func (w *TellWrapper) Write(p []byte) (n int, err error) {
	n, err = w.Writer.Write(p)
	w.offset += int64(n)
	return
}

// Close closes the wrapped writer if it exposes a Close method, otherwise
// it is a no-op.
func (w *TellWrapper) Close() error {
	if c, ok := w.Writer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
