// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package schema holds the descriptor tree of a code generation request.
//
// Each node owns its children. Parent and file links are lookup-only
// back-references used to compute fully-qualified names. The tree is built
// once from descriptorpb values and never modified afterwards.
package schema

import (
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/albertocavalcante/protoc-gen-pydantic/internal/protobase"
)

// Syntax is the syntax level a file was written in.
type Syntax int

// Syntax levels.
const (
	SyntaxProto2 Syntax = iota
	SyntaxProto3
	SyntaxEditions
)

// String returns the value of the syntax statement.
func (s Syntax) String() string {
	switch s {
	case SyntaxProto3:
		return "proto3"
	case SyntaxEditions:
		return "editions"
	default:
		return "proto2"
	}
}

// Type is a named type: a *Message or an *Enum.
type Type interface {
	// FullName is the dotted fully-qualified name without a leading dot.
	FullName() string

	// ParentFile is the file declaring the type.
	ParentFile() *File

	isType()
}

// File is one input .proto file.
type File struct {
	// Path is the file name as given to protoc (e.g. "acme/v1/person.proto").
	Path string

	// Package is the dotted protobuf package, possibly empty.
	Package string

	// Dependencies lists imported file paths.
	Dependencies []string

	Syntax Syntax

	// Messages and Enums are the top-level declarations in order.
	Messages []*Message
	Enums    []*Enum

	presence descriptorpb.FeatureSet_FieldPresence
	comments map[string]string
}

// Message is a message declaration.
type Message struct {
	Name string

	// Parent is the enclosing message, nil at top level.
	Parent *Message

	File *File

	Fields   []*Field
	Messages []*Message
	Enums    []*Enum
	Oneofs   []*Oneof

	// MapEntry marks the synthetic entry message of a map field.
	MapEntry bool

	presence descriptorpb.FeatureSet_FieldPresence
	path     []int32
}

// Oneof is a oneof declaration.
type Oneof struct {
	Name string

	// Synthetic marks the oneof generated for a proto3 optional field.
	Synthetic bool
}

// Field is a field declaration.
type Field struct {
	Name     string
	JSONName string
	Number   int32

	// Type is the declared kind. It is zero when the descriptor left it
	// unset and only TypeName is known.
	Type  descriptorpb.FieldDescriptorProto_Type
	Label descriptorpb.FieldDescriptorProto_Label

	// TypeName is the unresolved reference for message and enum fields.
	TypeName string

	Proto3Optional bool

	// Oneof is the containing oneof, nil when the field is not part of one.
	Oneof *Oneof

	// Message is the enclosing message.
	Message *Message

	presence descriptorpb.FeatureSet_FieldPresence
	path     []int32
}

// Enum is an enum declaration.
type Enum struct {
	Name string

	// Parent is the enclosing message, nil at top level.
	Parent *Message

	File *File

	// Values keeps declaration order. Aliases (equal numbers) are kept.
	Values []*EnumValue

	path []int32
}

// EnumValue is one enum constant.
type EnumValue struct {
	Name   string
	Number int32

	enum *Enum
	path []int32
}

func (*Message) isType() {}
func (*Enum) isType()    {}

// FullName returns the fully-qualified name of the message.
func (m *Message) FullName() string {
	return protobase.JoinName(scopeOf(m.File, m.Parent), m.Name)
}

// ParentFile returns the declaring file.
func (m *Message) ParentFile() *File { return m.File }

// Path returns the enclosing message names and the message's own name,
// outermost first.
func (m *Message) Path() []string {
	if m.Parent == nil {
		return []string{m.Name}
	}
	return append(m.Parent.Path(), m.Name)
}

// Comment returns the leading comment of the message.
func (m *Message) Comment() string { return m.File.comment(m.path) }

// FullName returns the fully-qualified name of the enum.
func (e *Enum) FullName() string {
	return protobase.JoinName(scopeOf(e.File, e.Parent), e.Name)
}

// ParentFile returns the declaring file.
func (e *Enum) ParentFile() *File { return e.File }

// Path returns the enclosing message names and the enum's own name,
// outermost first.
func (e *Enum) Path() []string {
	if e.Parent == nil {
		return []string{e.Name}
	}
	return append(e.Parent.Path(), e.Name)
}

// Comment returns the leading comment of the enum.
func (e *Enum) Comment() string { return e.File.comment(e.path) }

// Comment returns the leading comment of the value.
func (v *EnumValue) Comment() string { return v.enum.File.comment(v.path) }

// FullName returns the fully-qualified name of the field.
func (f *Field) FullName() string {
	return protobase.JoinName(f.Message.FullName(), f.Name)
}

// Comment returns the leading comment of the field.
func (f *Field) Comment() string { return f.Message.File.comment(f.path) }

// Repeated reports whether the field has the repeated label.
func (f *Field) Repeated() bool {
	return f.Label == descriptorpb.FieldDescriptorProto_LABEL_REPEATED
}

// HasPresence reports whether a singular field tracks presence explicitly.
//
// Members of oneofs (including proto3 optional fields) always do, and so do
// declared message fields. Otherwise proto2 uses the optional label, proto3
// uses the optional keyword and editions use the field_presence feature
// inherited from the field, its messages and its file.
func (f *Field) HasPresence() bool {
	if f.Repeated() {
		return false
	}
	if f.Oneof != nil || f.Proto3Optional {
		return true
	}
	if f.Type == descriptorpb.FieldDescriptorProto_TYPE_MESSAGE {
		return true
	}
	switch f.Message.File.Syntax {
	case SyntaxProto3:
		return false
	case SyntaxEditions:
		return f.fieldPresence() == descriptorpb.FeatureSet_EXPLICIT
	default:
		return f.Label == descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
	}
}

// fieldPresence returns the nearest field_presence feature, defaulting to
// EXPLICIT as in edition 2023.
func (f *Field) fieldPresence() descriptorpb.FeatureSet_FieldPresence {
	if f.presence != descriptorpb.FeatureSet_FIELD_PRESENCE_UNKNOWN {
		return f.presence
	}
	for m := f.Message; m != nil; m = m.Parent {
		if m.presence != descriptorpb.FeatureSet_FIELD_PRESENCE_UNKNOWN {
			return m.presence
		}
	}
	if p := f.Message.File.presence; p != descriptorpb.FeatureSet_FIELD_PRESENCE_UNKNOWN {
		return p
	}
	return descriptorpb.FeatureSet_EXPLICIT
}

// Walk calls fn for every message and enum in f, depth-first in
// declaration order. Walking stops at the first error.
func (f *File) Walk(fn func(Type) error) error {
	for _, m := range f.Messages {
		if err := m.walk(fn); err != nil {
			return err
		}
	}
	for _, e := range f.Enums {
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

func (m *Message) walk(fn func(Type) error) error {
	if err := fn(m); err != nil {
		return err
	}
	for _, nested := range m.Messages {
		if err := nested.walk(fn); err != nil {
			return err
		}
	}
	for _, e := range m.Enums {
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

func scopeOf(f *File, parent *Message) string {
	if parent != nil {
		return parent.FullName()
	}
	return f.Package
}
