// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package model defines the resolved, render-ready view of a .proto file.
//
// A model is produced by the compiler from the descriptor tree in
// internal/schema. Every field carries exactly one resolved [Type]; message
// and enum references point directly at the declaring schema node, so a
// generator never has to look a name up again.
package model

import (
	"fmt"

	"github.com/albertocavalcante/protoc-gen-pydantic/internal/protobase"
	"github.com/albertocavalcante/protoc-gen-pydantic/internal/schema"
)

// Kind selects which fields of a [Type] are meaningful.
type Kind int

// Type kinds.
const (
	KindInvalid Kind = iota
	KindScalar
	KindMessage
	KindEnum
	KindMap
)

// String returns a lower-case name for the kind.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMessage:
		return "message"
	case KindEnum:
		return "enum"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// Type is a resolved field type.
//
// The Kind field determines which other fields are set:
//   - KindScalar: Scalar
//   - KindMessage: Message
//   - KindEnum: Enum
//   - KindMap: Key and Value
type Type struct {
	Kind    Kind
	Scalar  protobase.Scalar
	Message *schema.Message
	Enum    *schema.Enum
	Key     *Type
	Value   *Type
}

// ScalarType returns a scalar type.
func ScalarType(s protobase.Scalar) *Type {
	return &Type{Kind: KindScalar, Scalar: s}
}

// MessageType returns a reference to m.
func MessageType(m *schema.Message) *Type {
	return &Type{Kind: KindMessage, Message: m}
}

// EnumType returns a reference to e.
func EnumType(e *schema.Enum) *Type {
	return &Type{Kind: KindEnum, Enum: e}
}

// MapType returns map(key, value).
func MapType(key, value *Type) *Type {
	return &Type{Kind: KindMap, Key: key, Value: value}
}

// Named returns the referenced message or enum, or nil for scalars and maps.
func (t *Type) Named() schema.Type {
	switch t.Kind {
	case KindMessage:
		return t.Message
	case KindEnum:
		return t.Enum
	}
	return nil
}

// String renders the type in protobuf notation, e.g. "map<string, acme.v1.Person>".
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindScalar:
		return t.Scalar.String()
	case KindMessage:
		return t.Message.FullName()
	case KindEnum:
		return t.Enum.FullName()
	case KindMap:
		return fmt.Sprintf("map<%s, %s>", t.Key, t.Value)
	default:
		return "invalid"
	}
}

// Cardinality is singular or repeated.
type Cardinality int

// Cardinalities.
const (
	Singular Cardinality = iota
	Repeated
)

// Presence tells whether an unset singular field is distinguishable from
// its zero value.
type Presence int

// Presence modes.
const (
	// Implicit fields are non-null and default to their zero value.
	Implicit Presence = iota

	// Explicit fields are nullable and default to null.
	Explicit
)

// Field is a resolved field.
type Field struct {
	Name     string
	JSONName string
	Number   int32

	Type        *Type
	Cardinality Cardinality
	Presence    Presence

	// Oneof is the name of the containing oneof. Synthetic oneofs of proto3
	// optional fields are not reported.
	Oneof string

	Documentation string

	Source *schema.Field
}

// IsMap reports whether the field is a map field.
func (f *Field) IsMap() bool { return f.Type.Kind == KindMap }

// IsList reports whether the field is a repeated, non-map field.
func (f *Field) IsList() bool { return f.Cardinality == Repeated && !f.IsMap() }

// Nullable reports whether the field is singular with explicit presence.
func (f *Field) Nullable() bool {
	return f.Cardinality == Singular && !f.IsMap() && f.Presence == Explicit
}

// Class is a non map-entry message.
type Class struct {
	Name     string
	FullName string

	// Fields, Classes and Enums keep declaration order.
	Fields  []*Field
	Classes []*Class
	Enums   []*Enum

	Documentation string

	Source *schema.Message
}

// Enum is an enum with its values exactly as declared.
type Enum struct {
	Name     string
	FullName string

	Values []*EnumValue

	Documentation string

	Source *schema.Enum
}

// EnumValue is one enum constant.
type EnumValue struct {
	Name          string
	Number        int32
	Documentation string
}

// File is the model of one generated .proto file.
type File struct {
	// Path is the .proto path.
	Path string

	// Package is the dotted protobuf package.
	Package string

	// Classes and Enums are the top-level declarations in order.
	Classes []*Class
	Enums   []*Enum

	Source *schema.File
}

// Walk calls fn for every class in f, depth-first in declaration order.
func (f *File) Walk(fn func(*Class)) {
	for _, c := range f.Classes {
		c.walk(fn)
	}
}

func (c *Class) walk(fn func(*Class)) {
	fn(c)
	for _, nested := range c.Classes {
		nested.walk(fn)
	}
}

// AllEnums returns the top-level enums of f followed by the nested ones in
// class walk order.
func (f *File) AllEnums() []*Enum {
	enums := append([]*Enum(nil), f.Enums...)
	f.Walk(func(c *Class) {
		enums = append(enums, c.Enums...)
	})
	return enums
}
