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

package metadata

import (
	"github.com/goccy/go-json"

	"github.com/zdblabs/parquet/internal/format"
)

// KeyValueMetadata is the ordered mapping of application supplied string
// pairs embedded verbatim into the footer.
type KeyValueMetadata struct {
	keys   []string
	values []string
}

// NewKeyValueMetadata returns an empty mapping
func NewKeyValueMetadata() KeyValueMetadata { return KeyValueMetadata{} }

// KeyValueMetadataFrom builds a mapping from alternating key/value pairs
func KeyValueMetadataFrom(pairs ...string) KeyValueMetadata {
	if len(pairs)%2 != 0 {
		panic("metadata: odd number of key/value strings")
	}
	kv := KeyValueMetadata{}
	for i := 0; i < len(pairs); i += 2 {
		kv.Append(pairs[i], pairs[i+1])
	}
	return kv
}

// Append adds a pair at the end of the mapping. Duplicate keys are kept;
// merging resolves them with last-wins semantics.
func (k *KeyValueMetadata) Append(key, value string) {
	k.keys = append(k.keys, key)
	k.values = append(k.values, value)
}

// Len returns the number of pairs
func (k KeyValueMetadata) Len() int { return len(k.keys) }

// Keys returns the keys in insertion order
func (k KeyValueMetadata) Keys() []string { return k.keys }

// Values returns the values in insertion order
func (k KeyValueMetadata) Values() []string { return k.values }

// FindValue returns the value for key, or nil when the key is absent. With
// duplicate keys the last inserted value wins.
func (k KeyValueMetadata) FindValue(key string) *string {
	for i := len(k.keys) - 1; i >= 0; i-- {
		if k.keys[i] == key {
			return &k.values[i]
		}
	}
	return nil
}

type keyValuePair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// MarshalJSON renders the mapping as an array of pairs, preserving order.
func (k KeyValueMetadata) MarshalJSON() ([]byte, error) {
	pairs := make([]keyValuePair, len(k.keys))
	for i := range k.keys {
		pairs[i] = keyValuePair{Key: k.keys[i], Value: k.values[i]}
	}
	return json.Marshal(pairs)
}

func (k KeyValueMetadata) toFormat() []*format.KeyValue {
	if k.Len() == 0 {
		return nil
	}
	out := make([]*format.KeyValue, k.Len())
	for i := range k.keys {
		v := k.values[i]
		out[i] = &format.KeyValue{Key: k.keys[i], Value: &v}
	}
	return out
}

func keyValueFromFormat(kvs []*format.KeyValue) KeyValueMetadata {
	out := KeyValueMetadata{}
	for _, kv := range kvs {
		out.Append(kv.Key, kv.GetValue())
	}
	return out
}
