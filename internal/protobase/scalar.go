// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package protobase provides the protobuf scalar classification and name
// utilities shared by the compiler and the generators.
package protobase

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/types/descriptorpb"
)

// Scalar is a protobuf scalar kind with its wire encoding folded away.
// int32, sint32 and sfixed32 are all Int32, and so on.
type Scalar int

// Scalar kinds.
const (
	ScalarInvalid Scalar = iota
	ScalarInt32
	ScalarInt64
	ScalarUint32
	ScalarUint64
	ScalarFloat
	ScalarDouble
	ScalarBool
	ScalarString
	ScalarBytes
)

var (
	// ErrNotScalar is returned for message and enum fields, whose types
	// are resolved by name rather than by kind.
	ErrNotScalar = errors.New("not a scalar type")

	// ErrGroup is returned for group fields.
	ErrGroup = errors.New("group fields are not supported")
)

// scalars maps every scalar field type to its kind.
var scalars = map[descriptorpb.FieldDescriptorProto_Type]Scalar{
	descriptorpb.FieldDescriptorProto_TYPE_INT32:    ScalarInt32,
	descriptorpb.FieldDescriptorProto_TYPE_SINT32:   ScalarInt32,
	descriptorpb.FieldDescriptorProto_TYPE_SFIXED32: ScalarInt32,
	descriptorpb.FieldDescriptorProto_TYPE_INT64:    ScalarInt64,
	descriptorpb.FieldDescriptorProto_TYPE_SINT64:   ScalarInt64,
	descriptorpb.FieldDescriptorProto_TYPE_SFIXED64: ScalarInt64,
	descriptorpb.FieldDescriptorProto_TYPE_UINT32:   ScalarUint32,
	descriptorpb.FieldDescriptorProto_TYPE_FIXED32:  ScalarUint32,
	descriptorpb.FieldDescriptorProto_TYPE_UINT64:   ScalarUint64,
	descriptorpb.FieldDescriptorProto_TYPE_FIXED64:  ScalarUint64,
	descriptorpb.FieldDescriptorProto_TYPE_FLOAT:    ScalarFloat,
	descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:   ScalarDouble,
	descriptorpb.FieldDescriptorProto_TYPE_BOOL:     ScalarBool,
	descriptorpb.FieldDescriptorProto_TYPE_STRING:   ScalarString,
	descriptorpb.FieldDescriptorProto_TYPE_BYTES:    ScalarBytes,
}

// ScalarOf returns the scalar kind for a declared field type.
//
// Message and enum types return ErrNotScalar. Group returns ErrGroup.
// Values outside the descriptor enum return an error wrapping ErrNotScalar.
func ScalarOf(t descriptorpb.FieldDescriptorProto_Type) (Scalar, error) {
	if s, ok := scalars[t]; ok {
		return s, nil
	}
	switch t {
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		return ScalarInvalid, ErrNotScalar
	case descriptorpb.FieldDescriptorProto_TYPE_GROUP:
		return ScalarInvalid, ErrGroup
	default:
		return ScalarInvalid, fmt.Errorf("unknown field type %d: %w", int32(t), ErrNotScalar)
	}
}

// IsNamed reports whether t is resolved through a type name.
func IsNamed(t descriptorpb.FieldDescriptorProto_Type) bool {
	return t == descriptorpb.FieldDescriptorProto_TYPE_MESSAGE ||
		t == descriptorpb.FieldDescriptorProto_TYPE_ENUM
}

// String returns the canonical protobuf spelling of the kind.
func (s Scalar) String() string {
	switch s {
	case ScalarInt32:
		return "int32"
	case ScalarInt64:
		return "int64"
	case ScalarUint32:
		return "uint32"
	case ScalarUint64:
		return "uint64"
	case ScalarFloat:
		return "float"
	case ScalarDouble:
		return "double"
	case ScalarBool:
		return "bool"
	case ScalarString:
		return "string"
	case ScalarBytes:
		return "bytes"
	default:
		return "invalid"
	}
}

// IsInteger reports whether the kind is one of the integer kinds.
func (s Scalar) IsInteger() bool {
	switch s {
	case ScalarInt32, ScalarInt64, ScalarUint32, ScalarUint64:
		return true
	}
	return false
}

// IsFloat reports whether the kind is float or double.
func (s Scalar) IsFloat() bool {
	return s == ScalarFloat || s == ScalarDouble
}

// IsValidMapKey reports whether the kind may be used as a map key.
// Protobuf allows integral kinds, bool and string.
func (s Scalar) IsValidMapKey() bool {
	return s.IsInteger() || s == ScalarBool || s == ScalarString
}
