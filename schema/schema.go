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

// Package schema provides the ordered, immutable tree of columns that a
// file is written against, and its flattening into the footer's depth
// first schema element list.
package schema

import (
	"fmt"
	"io"

	"golang.org/x/xerrors"

	"github.com/zdblabs/parquet"
	"github.com/zdblabs/parquet/internal/format"
)

// Node is a node in the schema tree, either a group or a primitive leaf.
// Nodes are immutable once constructed.
type Node interface {
	Name() string
	RepetitionType() parquet.Repetition
	toFormat(out []*format.SchemaElement) []*format.SchemaElement
}

// FieldList is an ordered list of child nodes for constructing a GroupNode
type FieldList []Node

type node struct {
	name       string
	repetition parquet.Repetition
}

func (n *node) Name() string                       { return n.name }
func (n *node) RepetitionType() parquet.Repetition { return n.repetition }

// PrimitiveNode is a leaf of the schema tree: one named column with a
// physical storage type.
type PrimitiveNode struct {
	node

	physicalType parquet.Type
	typeLength   int
}

// NewPrimitiveNode constructs a leaf node with the given physical type.
// typeLength is only meaningful for FixedLenByteArray columns and must be
// positive there.
func NewPrimitiveNode(name string, repetition parquet.Repetition, typ parquet.Type, typeLength int) (*PrimitiveNode, error) {
	if typ == parquet.Types.FixedLenByteArray && typeLength <= 0 {
		return nil, xerrors.Errorf("schema: invalid FIXED_LEN_BYTE_ARRAY length: %d", typeLength)
	}
	return &PrimitiveNode{node: node{name: name, repetition: repetition}, physicalType: typ, typeLength: typeLength}, nil
}

func mustPrimitive(n *PrimitiveNode, err error) *PrimitiveNode {
	if err != nil {
		panic(err)
	}
	return n
}

// NewBooleanNode creates a BOOLEAN leaf
func NewBooleanNode(name string, rep parquet.Repetition) *PrimitiveNode {
	return mustPrimitive(NewPrimitiveNode(name, rep, parquet.Types.Boolean, -1))
}

// NewInt32Node creates an INT32 leaf
func NewInt32Node(name string, rep parquet.Repetition) *PrimitiveNode {
	return mustPrimitive(NewPrimitiveNode(name, rep, parquet.Types.Int32, -1))
}

// NewInt64Node creates an INT64 leaf
func NewInt64Node(name string, rep parquet.Repetition) *PrimitiveNode {
	return mustPrimitive(NewPrimitiveNode(name, rep, parquet.Types.Int64, -1))
}

// NewFloat32Node creates a FLOAT leaf
func NewFloat32Node(name string, rep parquet.Repetition) *PrimitiveNode {
	return mustPrimitive(NewPrimitiveNode(name, rep, parquet.Types.Float, -1))
}

// NewFloat64Node creates a DOUBLE leaf
func NewFloat64Node(name string, rep parquet.Repetition) *PrimitiveNode {
	return mustPrimitive(NewPrimitiveNode(name, rep, parquet.Types.Double, -1))
}

// NewByteArrayNode creates a BYTE_ARRAY leaf
func NewByteArrayNode(name string, rep parquet.Repetition) *PrimitiveNode {
	return mustPrimitive(NewPrimitiveNode(name, rep, parquet.Types.ByteArray, -1))
}

// NewFixedLenByteArrayNode creates a FIXED_LEN_BYTE_ARRAY leaf of the given width
func NewFixedLenByteArrayNode(name string, rep parquet.Repetition, length int) (*PrimitiveNode, error) {
	return NewPrimitiveNode(name, rep, parquet.Types.FixedLenByteArray, length)
}

// PhysicalType returns the on disk storage type of this leaf
func (p *PrimitiveNode) PhysicalType() parquet.Type { return p.physicalType }

// TypeLength returns the fixed width for FixedLenByteArray leaves, -1 otherwise
func (p *PrimitiveNode) TypeLength() int { return p.typeLength }

func (p *PrimitiveNode) toFormat(out []*format.SchemaElement) []*format.SchemaElement {
	typ := int32(p.physicalType)
	rep := int32(p.repetition)
	elem := &format.SchemaElement{Name: p.name, Type: &typ, RepetitionType: &rep}
	if p.physicalType == parquet.Types.FixedLenByteArray {
		length := int32(p.typeLength)
		elem.TypeLength = &length
	}
	return append(out, elem)
}

// GroupNode is an interior node of the schema tree with an ordered list of
// named children.
type GroupNode struct {
	node

	fields FieldList
}

// NewGroupNode constructs a group from the given ordered fields. Field
// names must be unique within the group.
func NewGroupNode(name string, repetition parquet.Repetition, fields FieldList) (*GroupNode, error) {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := seen[f.Name()]; ok {
			return nil, xerrors.Errorf("schema: duplicate field name %q in group %q", f.Name(), name)
		}
		seen[f.Name()] = struct{}{}
	}
	return &GroupNode{node: node{name: name, repetition: repetition}, fields: fields}, nil
}

// MustGroup panics if err is non-nil, for static schema construction
func MustGroup(g *GroupNode, err error) *GroupNode {
	if err != nil {
		panic(err)
	}
	return g
}

// NumFields returns the number of direct children of this group
func (g *GroupNode) NumFields() int { return len(g.fields) }

// Field returns the i-th direct child
func (g *GroupNode) Field(i int) Node { return g.fields[i] }

func (g *GroupNode) toFormat(out []*format.SchemaElement) []*format.SchemaElement {
	rep := int32(g.repetition)
	nchildren := int32(len(g.fields))
	out = append(out, &format.SchemaElement{Name: g.name, RepetitionType: &rep, NumChildren: &nchildren})
	for _, f := range g.fields {
		out = f.toFormat(out)
	}
	return out
}

// Column is the descriptor of one leaf column: the primitive node plus its
// full dotted path from the root.
type Column struct {
	pnode *PrimitiveNode
	path  parquet.ColumnPath
}

// Name returns the leaf's own name
func (c *Column) Name() string { return c.pnode.Name() }

// Path returns the dotted path from the schema root to this column
func (c *Column) Path() string { return c.path.String() }

// ColumnPath returns the path as its component list
func (c *Column) ColumnPath() parquet.ColumnPath { return c.path }

// PhysicalType returns the on disk storage type for the column
func (c *Column) PhysicalType() parquet.Type { return c.pnode.PhysicalType() }

// TypeLength returns the fixed width for FixedLenByteArray columns
func (c *Column) TypeLength() int { return c.pnode.TypeLength() }

// RepetitionType returns the column's repetition
func (c *Column) RepetitionType() parquet.Repetition { return c.pnode.RepetitionType() }

// Schema is the flattened view over a root group node: the ordered list of
// leaf column descriptors. It is shared read-only between the writer and
// every metadata builder.
type Schema struct {
	root   *GroupNode
	leaves []*Column
}

// NewSchema flattens the tree under root into leaf column descriptors,
// depth first, so that Column(i) enumerates columns in schema order.
func NewSchema(root *GroupNode) *Schema {
	s := &Schema{root: root}
	s.flatten(root, parquet.ColumnPath{})
	return s
}

func (s *Schema) flatten(n Node, path parquet.ColumnPath) {
	switch t := n.(type) {
	case *GroupNode:
		if t != s.root {
			path = path.Extend(t.Name())
		}
		for _, f := range t.fields {
			s.flatten(f, path)
		}
	case *PrimitiveNode:
		s.leaves = append(s.leaves, &Column{pnode: t, path: path.Extend(t.Name())})
	}
}

// Root returns the root group node the schema was built from
func (s *Schema) Root() *GroupNode { return s.root }

// NumColumns returns the number of leaf columns
func (s *Schema) NumColumns() int { return len(s.leaves) }

// Column returns the descriptor for the i-th leaf in schema order
func (s *Schema) Column(i int) *Column { return s.leaves[i] }

// ToFormat returns the footer representation of the schema: the depth
// first element list, root first.
func (s *Schema) ToFormat() []*format.SchemaElement {
	return s.root.toFormat(make([]*format.SchemaElement, 0, len(s.leaves)+1))
}

// FromFormat reconstructs the schema tree from a footer element list.
func FromFormat(elements []*format.SchemaElement) (*Schema, error) {
	if len(elements) == 0 {
		return nil, xerrors.New("schema: empty element list")
	}
	pos := 0
	root, err := groupFromFormat(elements, &pos)
	if err != nil {
		return nil, err
	}
	if pos != len(elements) {
		return nil, xerrors.Errorf("schema: %d trailing elements after root group", len(elements)-pos)
	}
	return NewSchema(root), nil
}

func nodeFromFormat(elements []*format.SchemaElement, pos *int) (Node, error) {
	if *pos >= len(elements) {
		return nil, xerrors.New("schema: truncated element list")
	}
	elem := elements[*pos]
	if elem.IsSetNumChildren() && elem.GetNumChildren() > 0 {
		return groupFromFormat(elements, pos)
	}
	*pos++
	if elem.Type == nil {
		return nil, xerrors.Errorf("schema: leaf element %q missing physical type", elem.Name)
	}
	length := -1
	if elem.TypeLength != nil {
		length = int(*elem.TypeLength)
	}
	rep := parquet.Repetitions.Required
	if elem.RepetitionType != nil {
		rep = parquet.Repetition(*elem.RepetitionType)
	}
	return NewPrimitiveNode(elem.Name, rep, parquet.Type(*elem.Type), length)
}

func groupFromFormat(elements []*format.SchemaElement, pos *int) (*GroupNode, error) {
	elem := elements[*pos]
	*pos++
	fields := make(FieldList, 0, elem.GetNumChildren())
	for i := int32(0); i < elem.GetNumChildren(); i++ {
		f, err := nodeFromFormat(elements, pos)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	rep := parquet.Repetitions.Repeated
	if elem.RepetitionType != nil {
		rep = parquet.Repetition(*elem.RepetitionType)
	}
	return NewGroupNode(elem.Name, rep, fields)
}

// PrintSchema writes a debug rendering of the tree under node to w.
func PrintSchema(node Node, w io.Writer, indent int) {
	printNode(node, w, 0, indent)
}

func printNode(n Node, w io.Writer, depth, indent int) {
	pad := make([]byte, depth*indent)
	for i := range pad {
		pad[i] = ' '
	}
	switch t := n.(type) {
	case *GroupNode:
		fmt.Fprintf(w, "%s%s group %s {\n", pad, t.RepetitionType(), t.Name())
		for i := 0; i < t.NumFields(); i++ {
			printNode(t.Field(i), w, depth+1, indent)
		}
		fmt.Fprintf(w, "%s}\n", pad)
	case *PrimitiveNode:
		fmt.Fprintf(w, "%s%s %s %s;\n", pad, t.RepetitionType(), t.PhysicalType(), t.Name())
	}
}
