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

// Package format contains the thrift structures that make up the file
// footer, hand written against the field ids of the parquet format
// definition. Only the fields produced or consumed by the write path are
// materialized; unknown fields are skipped when reading a foreign footer.
package format

import (
	"context"

	"github.com/apache/thrift/lib/go/thrift"
)

// protoWriter wraps a TProtocol and latches the first error so struct
// writers can emit fields without per-call error plumbing.
type protoWriter struct {
	ctx context.Context
	p   thrift.TProtocol
	err error
}

func (w *protoWriter) structBegin(name string) {
	if w.err == nil {
		w.err = w.p.WriteStructBegin(w.ctx, name)
	}
}

func (w *protoWriter) structEnd() {
	if w.err == nil {
		w.err = w.p.WriteFieldStop(w.ctx)
	}
	if w.err == nil {
		w.err = w.p.WriteStructEnd(w.ctx)
	}
}

func (w *protoWriter) field(name string, typ thrift.TType, id int16, write func()) {
	if w.err != nil {
		return
	}
	if w.err = w.p.WriteFieldBegin(w.ctx, name, typ, id); w.err != nil {
		return
	}
	write()
	if w.err == nil {
		w.err = w.p.WriteFieldEnd(w.ctx)
	}
}

func (w *protoWriter) i16(v int16) {
	if w.err == nil {
		w.err = w.p.WriteI16(w.ctx, v)
	}
}

func (w *protoWriter) i32(v int32) {
	if w.err == nil {
		w.err = w.p.WriteI32(w.ctx, v)
	}
}

func (w *protoWriter) i64(v int64) {
	if w.err == nil {
		w.err = w.p.WriteI64(w.ctx, v)
	}
}

func (w *protoWriter) str(v string) {
	if w.err == nil {
		w.err = w.p.WriteString(w.ctx, v)
	}
}

func (w *protoWriter) listBegin(elem thrift.TType, size int) {
	if w.err == nil {
		w.err = w.p.WriteListBegin(w.ctx, elem, size)
	}
}

func (w *protoWriter) listEnd() {
	if w.err == nil {
		w.err = w.p.WriteListEnd(w.ctx)
	}
}

func (w *protoWriter) tstruct(v thrift.TStruct) {
	if w.err == nil {
		w.err = v.Write(w.ctx, w.p)
	}
}

// readStruct drives the standard field loop for a struct reader: fields is
// called per recognized field id and returns false to have the field
// skipped instead.
func readStruct(ctx context.Context, p thrift.TProtocol, fields func(id int16, typ thrift.TType) (bool, error)) error {
	if _, err := p.ReadStructBegin(ctx); err != nil {
		return err
	}
	for {
		_, typ, id, err := p.ReadFieldBegin(ctx)
		if err != nil {
			return err
		}
		if typ == thrift.STOP {
			break
		}
		handled, err := fields(id, typ)
		if err != nil {
			return err
		}
		if !handled {
			if err := thrift.SkipDefaultDepth(ctx, p, typ); err != nil {
				return err
			}
		}
		if err := p.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	return p.ReadStructEnd(ctx)
}
