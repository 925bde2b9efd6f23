// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package compiler

import (
	"errors"

	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/albertocavalcante/protoc-gen-pydantic/internal/protobase"
	"github.com/albertocavalcante/protoc-gen-pydantic/internal/schema"
	"github.com/albertocavalcante/protoc-gen-pydantic/model"
)

// resolver turns declared field types into model types.
// entries is nil while the map entry table itself is being built.
type resolver struct {
	symbols *SymbolTable
	entries MapEntries
}

// fieldType resolves the type of a single field. Errors carry the file
// path and the field's full name.
func (r *resolver) fieldType(f *schema.Field) (*model.Type, error) {
	file := f.Message.File.Path

	if f.Type != 0 && !protobase.IsNamed(f.Type) {
		// Group and out-of-range types both end up here.
		s, err := protobase.ScalarOf(f.Type)
		if err != nil {
			return nil, errUnsupported(file, f.FullName(), "%v", err)
		}
		return model.ScalarType(s), nil
	}

	if f.TypeName == "" {
		return nil, errMalformed(file, f.FullName(), "field has neither a type nor a type name")
	}
	named, err := r.symbols.Resolve(f.TypeName, f.Message.FullName())
	if err != nil {
		return nil, locate(err, file, f.FullName())
	}

	switch t := named.(type) {
	case *schema.Enum:
		if f.Type == descriptorpb.FieldDescriptorProto_TYPE_MESSAGE {
			return nil, errUnresolved(file, f.FullName(), "%s is an enum, field declares a message", t.FullName())
		}
		return model.EnumType(t), nil
	case *schema.Message:
		if f.Type == descriptorpb.FieldDescriptorProto_TYPE_ENUM {
			return nil, errUnresolved(file, f.FullName(), "%s is a message, field declares an enum", t.FullName())
		}
		if !t.MapEntry {
			return model.MessageType(t), nil
		}
		if r.entries == nil {
			return nil, errMalformed(file, f.FullName(), "map entry %s used inside another map entry", t.FullName())
		}
		mt, ok := r.entries.Lookup(t.FullName())
		if !ok {
			return nil, errMalformed(file, f.FullName(), "map entry %s was not registered", t.FullName())
		}
		if !f.Repeated() {
			return nil, errMalformed(file, f.FullName(), "map field must be repeated")
		}
		return mt, nil
	default:
		return nil, errUnresolved(file, f.FullName(), "%s is not a message or enum", named.FullName())
	}
}

// locate fills in the position of an error returned by the symbol table.
func locate(err error, file, element string) error {
	var cerr *Error
	if errors.As(err, &cerr) {
		out := *cerr
		out.File, out.Element = file, element
		return &out
	}
	return err
}
