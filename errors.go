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

package parquet

import "golang.org/x/xerrors"

// Error kinds surfaced by the write path. Callers classify failures with
// errors.Is; the wrapped message carries the detail.
var (
	// ErrState is returned when an operation is invoked in a state that
	// forbids it, such as appending a row group to a closed file.
	ErrState = xerrors.New("parquet: invalid writer state")
	// ErrSequence is returned when more columns or row groups are requested
	// than the schema or the single pass write protocol allows.
	ErrSequence = xerrors.New("parquet: write sequence violation")
	// ErrDataConsistency is returned when columns within one row group
	// disagree on the number of rows written.
	ErrDataConsistency = xerrors.New("parquet: inconsistent row counts")
	// ErrIO wraps failures from the underlying byte sink.
	ErrIO = xerrors.New("parquet: sink i/o failure")
	// ErrSerialization wraps failures encoding the footer metadata block.
	ErrSerialization = xerrors.New("parquet: metadata serialization failure")
)
