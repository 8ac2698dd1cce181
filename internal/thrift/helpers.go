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

// Package thrift contains helpers for serializing and deserializing the
// footer structures with the thrift compact protocol, sparing the rest of
// the module from dealing with transports and protocol factories.
package thrift

import (
	"bytes"
	"context"
	"io"

	"github.com/apache/thrift/lib/go/thrift"
)

var protocolFactory = thrift.NewTCompactProtocolFactoryConf(nil)

// DeserializeThrift populates msg from the compact protocol encoded bytes
// in buf, returning the number of bytes of buf that were not consumed.
func DeserializeThrift(msg thrift.TStruct, buf []byte) (remain uint64, err error) {
	tbuf := &thrift.TMemoryBuffer{Buffer: bytes.NewBuffer(buf)}
	err = msg.Read(context.TODO(), protocolFactory.GetProtocol(tbuf))
	remain = tbuf.RemainingBytes()
	return
}

// DeserializeThriftStream reads a single msg from the stream r.
func DeserializeThriftStream(msg thrift.TStruct, r io.Reader) error {
	return msg.Read(context.TODO(), protocolFactory.GetProtocol(thrift.NewStreamTransportR(r)))
}

// Serializer is a reusable writer of TStructs to io.Writers which reports
// the serialized size of each struct written.
type Serializer struct {
	thrift.TSerializer
}

// NewSerializer returns a serializer with a pre-allocated memory buffer
// transport.
func NewSerializer() *Serializer {
	tbuf := thrift.NewTMemoryBufferLen(1024)
	return &Serializer{thrift.TSerializer{
		Transport: tbuf,
		Protocol:  protocolFactory.GetProtocol(tbuf),
	}}
}

// Serialize writes msg to w and returns the number of bytes written.
func (t *Serializer) Serialize(msg thrift.TStruct, w io.Writer) (int, error) {
	b, err := t.Write(context.Background(), msg)
	if err != nil {
		return 0, err
	}
	return w.Write(b)
}
