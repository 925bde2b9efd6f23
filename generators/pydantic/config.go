// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package pydantic

// Config holds configuration for Python generation.
type Config struct {
	// ModulePrefix is prepended to the module path of cross-file imports.
	ModulePrefix string

	// BaseClass is the dotted base class of generated models.
	BaseClass string

	// TypeOverrides maps fully-qualified message names to Python
	// annotations. Entries override DefaultMappings.
	TypeOverrides map[string]string
}

// DefaultBaseClass is the base class used when none is configured.
const DefaultBaseClass = "pydantic.BaseModel"

// DefaultMappings maps well-known protobuf messages to native Python types.
// Modules named in an annotation (e.g. "datetime") are imported as needed.
var DefaultMappings = map[string]string{
	"google.protobuf.Timestamp": "datetime.datetime",
	"google.protobuf.Duration":  "datetime.timedelta",

	// Wrappers become their scalar; presence already makes them nullable.
	"google.protobuf.DoubleValue": "float",
	"google.protobuf.FloatValue":  "float",
	"google.protobuf.Int64Value":  "int",
	"google.protobuf.UInt64Value": "int",
	"google.protobuf.Int32Value":  "int",
	"google.protobuf.UInt32Value": "int",
	"google.protobuf.BoolValue":   "bool",
	"google.protobuf.StringValue": "str",
	"google.protobuf.BytesValue":  "bytes",

	// Dynamic values
	"google.protobuf.Struct":    "dict[str, typing.Any]",
	"google.protobuf.Value":     "typing.Any",
	"google.protobuf.ListValue": "list[typing.Any]",
	"google.protobuf.Any":       "dict[str, typing.Any]",
	"google.protobuf.Empty":     "dict[str, typing.Any]",

	"google.protobuf.FieldMask": "list[str]",
	"google.protobuf.NullValue": "None",
}
