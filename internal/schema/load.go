// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package schema

import (
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"
)

// Source code info path components, from descriptor.proto.
const (
	fileMessageTag   = 4
	fileEnumTag      = 5
	messageFieldTag  = 2
	messageNestedTag = 3
	messageEnumTag   = 4
	enumValueTag     = 2
)

const (
	syntaxUnspecified = ""
	syntaxProto2      = "proto2"
	syntaxProto3      = "proto3"
	syntaxEditions    = "editions"
)

// NewFiles builds the tree for every descriptor of a request.
// File paths must be unique and non-empty.
func NewFiles(fdps []*descriptorpb.FileDescriptorProto) ([]*File, error) {
	files := make([]*File, 0, len(fdps))
	seen := make(map[string]bool, len(fdps))
	for i, fdp := range fdps {
		if fdp == nil {
			return nil, fmt.Errorf("proto_file[%d] is nil", i)
		}
		f, err := NewFile(fdp)
		if err != nil {
			return nil, err
		}
		if seen[f.Path] {
			return nil, fmt.Errorf("%s: file appears more than once in the request", f.Path)
		}
		seen[f.Path] = true
		files = append(files, f)
	}
	return files, nil
}

// NewFile builds the tree for a single file descriptor.
func NewFile(fdp *descriptorpb.FileDescriptorProto) (*File, error) {
	if fdp.GetName() == "" {
		return nil, fmt.Errorf("file descriptor has no name")
	}
	f := &File{
		Path:         fdp.GetName(),
		Package:      fdp.GetPackage(),
		Dependencies: fdp.GetDependency(),
		presence:     fdp.GetOptions().GetFeatures().GetFieldPresence(),
		comments:     make(map[string]string),
	}

	switch fdp.GetSyntax() {
	case syntaxProto2, syntaxUnspecified:
		f.Syntax = SyntaxProto2
	case syntaxProto3:
		f.Syntax = SyntaxProto3
	case syntaxEditions:
		f.Syntax = SyntaxEditions
	default:
		return nil, fmt.Errorf("%s: unknown syntax %q", f.Path, fdp.GetSyntax())
	}

	for _, loc := range fdp.GetSourceCodeInfo().GetLocation() {
		if c := loc.GetLeadingComments(); c != "" {
			f.comments[pathKey(loc.GetPath())] = c
		}
	}

	for i, mdp := range fdp.GetMessageType() {
		m, err := newMessage(f, nil, mdp, []int32{fileMessageTag, int32(i)})
		if err != nil {
			return nil, err
		}
		f.Messages = append(f.Messages, m)
	}
	for i, edp := range fdp.GetEnumType() {
		f.Enums = append(f.Enums, newEnum(f, nil, edp, []int32{fileEnumTag, int32(i)}))
	}
	return f, nil
}

func newMessage(f *File, parent *Message, mdp *descriptorpb.DescriptorProto, path []int32) (*Message, error) {
	if mdp.GetName() == "" {
		return nil, fmt.Errorf("%s: message without a name", f.Path)
	}
	m := &Message{
		Name:     mdp.GetName(),
		Parent:   parent,
		File:     f,
		MapEntry: mdp.GetOptions().GetMapEntry(),
		presence: mdp.GetOptions().GetFeatures().GetFieldPresence(),
		path:     path,
	}

	for _, odp := range mdp.GetOneofDecl() {
		m.Oneofs = append(m.Oneofs, &Oneof{Name: odp.GetName()})
	}

	for i, fdp := range mdp.GetField() {
		fld := &Field{
			Name:           fdp.GetName(),
			JSONName:       fdp.GetJsonName(),
			Number:         fdp.GetNumber(),
			Label:          fdp.GetLabel(),
			TypeName:       fdp.GetTypeName(),
			Proto3Optional: fdp.GetProto3Optional(),
			Message:        m,
			presence:       fdp.GetOptions().GetFeatures().GetFieldPresence(),
			path:           appendPath(path, messageFieldTag, i),
		}
		if fld.Name == "" {
			return nil, fmt.Errorf("%s: field %d of %s has no name", f.Path, i, m.FullName())
		}
		// GetType reports TYPE_DOUBLE for an absent type.
		if fdp.Type != nil {
			fld.Type = fdp.GetType()
		}
		if fdp.OneofIndex != nil {
			idx := int(fdp.GetOneofIndex())
			if idx < 0 || idx >= len(m.Oneofs) {
				return nil, fmt.Errorf("%s: field %s has oneof index %d out of range", f.Path, fld.FullName(), idx)
			}
			fld.Oneof = m.Oneofs[idx]
			if fld.Proto3Optional {
				fld.Oneof.Synthetic = true
			}
		}
		m.Fields = append(m.Fields, fld)
	}

	for i, nested := range mdp.GetNestedType() {
		nm, err := newMessage(f, m, nested, appendPath(path, messageNestedTag, i))
		if err != nil {
			return nil, err
		}
		m.Messages = append(m.Messages, nm)
	}
	for i, edp := range mdp.GetEnumType() {
		m.Enums = append(m.Enums, newEnum(f, m, edp, appendPath(path, messageEnumTag, i)))
	}
	return m, nil
}

func newEnum(f *File, parent *Message, edp *descriptorpb.EnumDescriptorProto, path []int32) *Enum {
	e := &Enum{
		Name:   edp.GetName(),
		Parent: parent,
		File:   f,
		path:   path,
	}
	for i, vdp := range edp.GetValue() {
		e.Values = append(e.Values, &EnumValue{
			Name:   vdp.GetName(),
			Number: vdp.GetNumber(),
			enum:   e,
			path:   appendPath(path, enumValueTag, i),
		})
	}
	return e
}

func (f *File) comment(path []int32) string {
	return f.comments[pathKey(path)]
}

// appendPath returns a new path; the parent path is shared by siblings.
func appendPath(path []int32, tag int32, index int) []int32 {
	out := make([]int32, len(path), len(path)+2)
	copy(out, path)
	return append(out, tag, int32(index))
}

func pathKey(path []int32) string {
	var b strings.Builder
	for i, p := range path {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(int(p)))
	}
	return b.String()
}
