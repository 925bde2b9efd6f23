// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package compiler

import (
	"strings"

	"github.com/albertocavalcante/protoc-gen-pydantic/internal/schema"
	"github.com/albertocavalcante/protoc-gen-pydantic/model"
)

// builder produces the model of one requested file.
type builder struct {
	resolver
}

func (b *builder) file(f *schema.File) (*model.File, error) {
	out := &model.File{
		Path:    f.Path,
		Package: f.Package,
		Source:  f,
	}
	for _, m := range f.Messages {
		if m.MapEntry {
			continue
		}
		c, err := b.class(m)
		if err != nil {
			return nil, err
		}
		out.Classes = append(out.Classes, c)
	}
	for _, e := range f.Enums {
		out.Enums = append(out.Enums, b.enum(e))
	}
	return out, nil
}

// class builds fields first, then nested messages, then nested enums.
func (b *builder) class(m *schema.Message) (*model.Class, error) {
	c := &model.Class{
		Name:          m.Name,
		FullName:      m.FullName(),
		Documentation: documentation(m.Comment()),
		Source:        m,
	}
	for _, f := range m.Fields {
		fld, err := b.field(f)
		if err != nil {
			return nil, err
		}
		c.Fields = append(c.Fields, fld)
	}
	for _, nested := range m.Messages {
		if nested.MapEntry {
			continue
		}
		nc, err := b.class(nested)
		if err != nil {
			return nil, err
		}
		c.Classes = append(c.Classes, nc)
	}
	for _, e := range m.Enums {
		c.Enums = append(c.Enums, b.enum(e))
	}
	return c, nil
}

func (b *builder) field(f *schema.Field) (*model.Field, error) {
	typ, err := b.fieldType(f)
	if err != nil {
		return nil, err
	}

	fld := &model.Field{
		Name:          f.Name,
		JSONName:      f.JSONName,
		Number:        f.Number,
		Type:          typ,
		Documentation: documentation(f.Comment()),
		Source:        f,
	}
	if f.Repeated() {
		fld.Cardinality = model.Repeated
	} else if f.HasPresence() || typ.Kind == model.KindMessage {
		// A field typed only by name has no declared kind for HasPresence
		// to look at, so resolved message fields are checked here too.
		fld.Presence = model.Explicit
	}
	if f.Oneof != nil && !f.Oneof.Synthetic {
		fld.Oneof = f.Oneof.Name
	}
	return fld, nil
}

func (b *builder) enum(e *schema.Enum) *model.Enum {
	out := &model.Enum{
		Name:          e.Name,
		FullName:      e.FullName(),
		Documentation: documentation(e.Comment()),
		Source:        e,
	}
	for _, v := range e.Values {
		out.Values = append(out.Values, &model.EnumValue{
			Name:          v.Name,
			Number:        v.Number,
			Documentation: documentation(v.Comment()),
		})
	}
	return out
}

// documentation normalizes a leading comment: the single space protoc keeps
// after "//" is dropped from every line and surrounding blank lines are
// removed.
func documentation(comment string) string {
	if strings.TrimSpace(comment) == "" {
		return ""
	}
	lines := strings.Split(strings.Trim(comment, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(strings.TrimPrefix(line, " "), " \t")
	}
	return strings.Join(lines, "\n")
}
