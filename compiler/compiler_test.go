// SPDX-License-Identifier: MIT

package compiler

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/albertocavalcante/protoc-gen-pydantic/internal/testutil"
	"github.com/albertocavalcante/protoc-gen-pydantic/model"
)

const personProto = `syntax = "proto3";
package acme.v1;

// A person.
message Person {
  string name = 1;
  int32 age = 2;
  map<string, string> tags = 3;
}
`

const outerProto = `syntax = "proto3";
package acme.v1;

message Outer {
  message Inner {
    bool flag = 1;
  }
  Inner inner = 1;
}

enum Color {
  option allow_alias = true;
  RED = 0;
  GREEN = 2;
  BLUE = 2;
}
`

// summarize renders a model as one line per declaration.
func summarize(f *model.File) string {
	var b strings.Builder
	var class func(c *model.Class, indent string)
	enum := func(e *model.Enum, indent string) {
		fmt.Fprintf(&b, "%senum %s\n", indent, e.FullName)
		for _, v := range e.Values {
			fmt.Fprintf(&b, "%s  %s = %d\n", indent, v.Name, v.Number)
		}
	}
	class = func(c *model.Class, indent string) {
		fmt.Fprintf(&b, "%sclass %s\n", indent, c.FullName)
		for _, fld := range c.Fields {
			card := "singular"
			if fld.Cardinality == model.Repeated {
				card = "repeated"
			}
			pres := "implicit"
			if fld.Presence == model.Explicit {
				pres = "explicit"
			}
			fmt.Fprintf(&b, "%s  %s %s %s %s", indent, fld.Name, fld.Type, card, pres)
			if fld.Oneof != "" {
				fmt.Fprintf(&b, " oneof=%s", fld.Oneof)
			}
			b.WriteByte('\n')
		}
		for _, nested := range c.Classes {
			class(nested, indent+"  ")
		}
		for _, e := range c.Enums {
			enum(e, indent+"  ")
		}
	}
	for _, c := range f.Classes {
		class(c, "")
	}
	for _, e := range f.Enums {
		enum(e, "")
	}
	return b.String()
}

func TestCompilePerson(t *testing.T) {
	req := testutil.Request(t, map[string]string{"acme/v1/person.proto": personProto})

	files, err := Compile(req)
	require.NoError(t, err)
	require.Len(t, files, 1)

	want := `class acme.v1.Person
  name string singular implicit
  age int32 singular implicit
  tags map<string, string> repeated implicit
`
	assert.Equal(t, want, summarize(files[0]))

	person := files[0].Classes[0]
	assert.Equal(t, "A person.", person.Documentation)
	assert.Empty(t, person.Classes, "map entry must not be emitted as a class")
	assert.True(t, person.Fields[2].IsMap())
}

func TestCompileNestedAndEnums(t *testing.T) {
	req := testutil.Request(t, map[string]string{"acme/v1/outer.proto": outerProto})

	files, err := Compile(req)
	require.NoError(t, err)
	require.Len(t, files, 1)

	want := `class acme.v1.Outer
  inner acme.v1.Outer.Inner singular explicit
  class acme.v1.Outer.Inner
    flag bool singular implicit
enum acme.v1.Color
  RED = 0
  GREEN = 2
  BLUE = 2
`
	assert.Equal(t, want, summarize(files[0]))

	outer := files[0].Classes[0]
	inner := outer.Classes[0]
	require.Equal(t, model.KindMessage, outer.Fields[0].Type.Kind)
	assert.Same(t, inner.Source, outer.Fields[0].Type.Message)
}

func TestCompilePresence(t *testing.T) {
	src := `syntax = "proto3";
package acme.v1;

enum Kind {
  KIND_UNSPECIFIED = 0;
}

message Event {
  optional string note = 1;
  oneof payload {
    int64 count = 2;
    Kind kind = 3;
  }
  repeated double samples = 4;
  bytes raw = 5;
}
`
	req := testutil.Request(t, map[string]string{"acme/v1/event.proto": src})

	files, err := Compile(req)
	require.NoError(t, err)

	want := `class acme.v1.Event
  note string singular explicit
  count int64 singular explicit oneof=payload
  kind acme.v1.Kind singular explicit oneof=payload
  samples double repeated implicit
  raw bytes singular implicit
enum acme.v1.Kind
  KIND_UNSPECIFIED = 0
`
	assert.Equal(t, want, summarize(files[0]))
}

func TestCompileProto2(t *testing.T) {
	src := `syntax = "proto2";
package legacy;

message Record {
  optional int32 id = 1;
  required string key = 2;
  map<int64, Record> children = 3;
}
`
	req := testutil.Request(t, map[string]string{"legacy/record.proto": src})

	files, err := Compile(req)
	require.NoError(t, err)

	want := `class legacy.Record
  id int32 singular explicit
  key string singular implicit
  children map<int64, legacy.Record> repeated implicit
`
	assert.Equal(t, want, summarize(files[0]))
}

func TestCompileCrossFile(t *testing.T) {
	sources := map[string]string{
		"acme/v1/person.proto": personProto,
		"acme/v1/team.proto": `syntax = "proto3";
package acme.v1;

import "acme/v1/person.proto";
import "google/protobuf/timestamp.proto";

message Team {
  repeated Person members = 1;
  google.protobuf.Timestamp created = 2;
}
`,
	}
	req := testutil.Request(t, sources, "acme/v1/team.proto")

	files, err := Compile(req)
	require.NoError(t, err)
	require.Len(t, files, 1)

	want := `class acme.v1.Team
  members acme.v1.Person repeated implicit
  created google.protobuf.Timestamp singular explicit
`
	assert.Equal(t, want, summarize(files[0]))
	assert.Equal(t, "acme/v1/person.proto", files[0].Classes[0].Fields[0].Type.Message.File.Path)
}

func TestCompileMissingDependency(t *testing.T) {
	sources := map[string]string{
		"acme/v1/person.proto": personProto,
		"acme/v1/team.proto": `syntax = "proto3";
package acme.v1;

import "acme/v1/person.proto";

message Team {
  Person lead = 1;
}
`,
	}
	req := testutil.WithoutFile(testutil.Request(t, sources, "acme/v1/team.proto"), "acme/v1/person.proto")

	files, err := Compile(req)
	require.ErrorIs(t, err, ErrUnresolvedReference)
	assert.Nil(t, files)

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "acme/v1/team.proto", cerr.File)
	assert.Equal(t, "acme.v1.Team.lead", cerr.Element)
}

func TestCompileGroup(t *testing.T) {
	src := `syntax = "proto2";
package legacy;

message Search {
  repeated group Result = 1 {
    optional string url = 2;
  }
}
`
	req := testutil.Request(t, map[string]string{"legacy/search.proto": src})

	_, err := Compile(req)
	require.ErrorIs(t, err, ErrUnsupportedFeature)
	assert.Contains(t, err.Error(), "legacy.Search.result")
}

func TestCompileEmptyRequest(t *testing.T) {
	_, err := Compile(&pluginpb.CodeGeneratorRequest{})
	require.ErrorIs(t, err, ErrEmptyRequest)
	assert.Equal(t, "no input files to generate", err.Error())
}

func TestCompileNothingToGenerate(t *testing.T) {
	req := testutil.Request(t, map[string]string{"acme/v1/person.proto": personProto})
	req.FileToGenerate = nil

	files, err := Compile(req)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestCompileUnknownFileToGenerate(t *testing.T) {
	req := testutil.Request(t, map[string]string{"acme/v1/person.proto": personProto})
	req.FileToGenerate = append(req.FileToGenerate, "acme/v1/missing.proto")

	_, err := Compile(req)
	require.ErrorIs(t, err, ErrMalformedInput)
}

func TestCompileDeterministic(t *testing.T) {
	sources := map[string]string{
		"acme/v1/person.proto": personProto,
		"acme/v1/outer.proto":  outerProto,
	}

	var runs []string
	for i := 0; i < 2; i++ {
		files, err := Compile(testutil.Request(t, sources))
		require.NoError(t, err)
		var b strings.Builder
		for _, f := range files {
			b.WriteString(f.Path + "\n" + summarize(f))
		}
		runs = append(runs, b.String())
	}
	assert.Equal(t, runs[0], runs[1])
}

// Hand-built descriptors cover inputs protoc itself never produces.

func message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

func typedField(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type, typeName string) *descriptorpb.FieldDescriptorProto {
	f := &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
	}
	if typ != 0 {
		f.Type = typ.Enum()
	}
	if typeName != "" {
		f.TypeName = proto.String(typeName)
	}
	return f
}

func request(files ...*descriptorpb.FileDescriptorProto) *pluginpb.CodeGeneratorRequest {
	req := &pluginpb.CodeGeneratorRequest{ProtoFile: files}
	for _, f := range files {
		req.FileToGenerate = append(req.FileToGenerate, f.GetName())
	}
	return req
}

func TestCompileRelativeReferences(t *testing.T) {
	msg := descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
	enum := descriptorpb.FieldDescriptorProto_TYPE_ENUM

	holder := message("Holder",
		typedField("sibling", 1, msg, "Sibling"),
		typedField("nested", 2, msg, "Holder.Nested"),
		typedField("inferred", 3, 0, "Nested"),
		typedField("state", 4, enum, "State"),
		typedField("absolute", 5, msg, ".acme.v1.Sibling"),
	)
	holder.NestedType = []*descriptorpb.DescriptorProto{message("Nested")}
	holder.EnumType = []*descriptorpb.EnumDescriptorProto{{
		Name:  proto.String("State"),
		Value: []*descriptorpb.EnumValueDescriptorProto{{Name: proto.String("STATE_UNKNOWN"), Number: proto.Int32(0)}},
	}}

	files, err := Compile(request(&descriptorpb.FileDescriptorProto{
		Name:        proto.String("acme/v1/holder.proto"),
		Package:     proto.String("acme.v1"),
		Syntax:      proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{holder, message("Sibling")},
	}))
	require.NoError(t, err)

	want := `class acme.v1.Holder
  sibling acme.v1.Sibling singular explicit
  nested acme.v1.Holder.Nested singular explicit
  inferred acme.v1.Holder.Nested singular explicit
  state acme.v1.Holder.State singular implicit
  absolute acme.v1.Sibling singular explicit
  class acme.v1.Holder.Nested
  enum acme.v1.Holder.State
    STATE_UNKNOWN = 0
class acme.v1.Sibling
`
	assert.Equal(t, want, summarize(files[0]))
}

func TestCompileResolutionErrors(t *testing.T) {
	msg := descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
	enum := descriptorpb.FieldDescriptorProto_TYPE_ENUM

	colorEnum := &descriptorpb.EnumDescriptorProto{
		Name:  proto.String("Color"),
		Value: []*descriptorpb.EnumValueDescriptorProto{{Name: proto.String("RED"), Number: proto.Int32(0)}},
	}

	tests := []struct {
		name  string
		files []*descriptorpb.FileDescriptorProto
		kind  error
		text  string
	}{
		{
			name: "ambiguous relative name",
			files: []*descriptorpb.FileDescriptorProto{
				{Name: proto.String("root.proto"), MessageType: []*descriptorpb.DescriptorProto{message("Target")}},
				{
					Name:    proto.String("acme/v1/a.proto"),
					Package: proto.String("acme.v1"),
					MessageType: []*descriptorpb.DescriptorProto{
						message("Target"),
						message("User", typedField("t", 1, msg, "Target")),
					},
				},
			},
			kind: ErrUnresolvedReference,
			text: "ambiguous",
		},
		{
			name: "undefined name",
			files: []*descriptorpb.FileDescriptorProto{{
				Name:        proto.String("a.proto"),
				MessageType: []*descriptorpb.DescriptorProto{message("User", typedField("t", 1, msg, "Nowhere"))},
			}},
			kind: ErrUnresolvedReference,
			text: "Nowhere",
		},
		{
			name: "message field names an enum",
			files: []*descriptorpb.FileDescriptorProto{{
				Name:        proto.String("a.proto"),
				MessageType: []*descriptorpb.DescriptorProto{message("User", typedField("c", 1, msg, ".Color"))},
				EnumType:    []*descriptorpb.EnumDescriptorProto{colorEnum},
			}},
			kind: ErrUnresolvedReference,
			text: "is an enum",
		},
		{
			name: "enum field names a message",
			files: []*descriptorpb.FileDescriptorProto{{
				Name: proto.String("a.proto"),
				MessageType: []*descriptorpb.DescriptorProto{
					message("Other"),
					message("User", typedField("c", 1, enum, ".Other")),
				},
			}},
			kind: ErrUnresolvedReference,
			text: "is a message",
		},
		{
			name: "duplicate symbol",
			files: []*descriptorpb.FileDescriptorProto{
				{Name: proto.String("a.proto"), MessageType: []*descriptorpb.DescriptorProto{message("User")}},
				{Name: proto.String("b.proto"), MessageType: []*descriptorpb.DescriptorProto{message("User")}},
			},
			kind: ErrMalformedInput,
			text: "duplicate symbol",
		},
		{
			name: "no type at all",
			files: []*descriptorpb.FileDescriptorProto{{
				Name:        proto.String("a.proto"),
				MessageType: []*descriptorpb.DescriptorProto{message("User", typedField("x", 1, 0, ""))},
			}},
			kind: ErrMalformedInput,
		},
		{
			name: "out of range type",
			files: []*descriptorpb.FileDescriptorProto{{
				Name:        proto.String("a.proto"),
				MessageType: []*descriptorpb.DescriptorProto{message("User", typedField("x", 1, 99, ""))},
			}},
			kind: ErrUnsupportedFeature,
		},
		{
			name:  "nameless file",
			files: []*descriptorpb.FileDescriptorProto{{}},
			kind:  ErrMalformedInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := Compile(request(tt.files...))
			require.ErrorIs(t, err, tt.kind)
			assert.Nil(t, files)
			if tt.text != "" {
				assert.Contains(t, err.Error(), tt.text)
			}
		})
	}
}

func mapEntry(name string, key, value *descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	m := message(name, key, value)
	m.Options = &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)}
	return m
}

func TestMapEntries(t *testing.T) {
	str := descriptorpb.FieldDescriptorProto_TYPE_STRING
	float := descriptorpb.FieldDescriptorProto_TYPE_FLOAT
	msg := descriptorpb.FieldDescriptorProto_TYPE_MESSAGE

	build := func(entry *descriptorpb.DescriptorProto) *pluginpb.CodeGeneratorRequest {
		field := typedField("values", 1, msg, ".Holder."+entry.GetName())
		field.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
		holder := message("Holder", field)
		holder.NestedType = []*descriptorpb.DescriptorProto{entry}
		return request(&descriptorpb.FileDescriptorProto{
			Name:        proto.String("holder.proto"),
			Syntax:      proto.String("proto3"),
			MessageType: []*descriptorpb.DescriptorProto{holder},
		})
	}

	t.Run("valid", func(t *testing.T) {
		files, err := Compile(build(mapEntry("ValuesEntry", typedField("key", 1, str, ""), typedField("value", 2, float, ""))))
		require.NoError(t, err)
		holder := files[0].Classes[0]
		assert.Empty(t, holder.Classes)
		assert.Equal(t, "map<string, float>", holder.Fields[0].Type.String())
	})

	t.Run("entry not named Entry", func(t *testing.T) {
		files, err := Compile(build(mapEntry("Pairs", typedField("key", 1, str, ""), typedField("value", 2, str, ""))))
		require.NoError(t, err)
		assert.Equal(t, "map<string, string>", files[0].Classes[0].Fields[0].Type.String())
	})

	invalid := []struct {
		name  string
		entry *descriptorpb.DescriptorProto
	}{
		{name: "float key", entry: mapEntry("ValuesEntry", typedField("key", 1, float, ""), typedField("value", 2, str, ""))},
		{name: "wrong numbers", entry: mapEntry("ValuesEntry", typedField("key", 2, str, ""), typedField("value", 3, str, ""))},
		{name: "wrong names", entry: mapEntry("ValuesEntry", typedField("k", 1, str, ""), typedField("v", 2, str, ""))},
		{name: "one field", entry: func() *descriptorpb.DescriptorProto {
			m := message("ValuesEntry", typedField("key", 1, str, ""))
			m.Options = &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)}
			return m
		}()},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(build(tt.entry))
			require.ErrorIs(t, err, ErrMalformedInput)
		})
	}
}

func TestErrorFormat(t *testing.T) {
	err := errUnresolved("a.proto", "pkg.M.f", "type %s is not defined", "X")
	assert.Equal(t, "a.proto: pkg.M.f: unresolved reference: type X is not defined", err.Error())
	assert.True(t, errors.Is(err, ErrUnresolvedReference))
	assert.False(t, errors.Is(err, ErrMalformedInput))

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "type X is not defined", cerr.Message())
}
