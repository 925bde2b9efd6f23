// SPDX-License-Identifier: MIT

package testutil

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/bufbuild/protocompile"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"
)

// CompileRequest compiles in-memory .proto sources and returns the request
// protoc would send to a plugin for the files in generate.
//
// ProtoFile holds every generated file and its transitive imports with
// dependencies first, as protoc orders them. The google/protobuf well-known
// types are always importable. When generate is empty every source is
// generated, in sorted path order.
func CompileRequest(ctx context.Context, sources map[string]string, parameter string, generate ...string) (*pluginpb.CodeGeneratorRequest, error) {
	if len(generate) == 0 {
		for path := range sources {
			generate = append(generate, path)
		}
		sort.Strings(generate)
	}

	c := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			Accessor: protocompile.SourceAccessorFromMap(sources),
		}),
		SourceInfoMode: protocompile.SourceInfoStandard,
	}
	files, err := c.Compile(ctx, generate...)
	if err != nil {
		return nil, fmt.Errorf("compile protos: %w", err)
	}

	req := &pluginpb.CodeGeneratorRequest{FileToGenerate: generate}
	if parameter != "" {
		req.Parameter = proto.String(parameter)
	}
	seen := make(map[string]bool)
	for _, fd := range files {
		req.ProtoFile = appendFile(req.ProtoFile, fd, seen)
	}
	return req, nil
}

// Request is CompileRequest for tests; it fails t on error.
func Request(t *testing.T, sources map[string]string, generate ...string) *pluginpb.CodeGeneratorRequest {
	t.Helper()
	req, err := CompileRequest(context.Background(), sources, "", generate...)
	if err != nil {
		t.Fatal(err)
	}
	return req
}

// appendFile appends fd after its imports, each file once.
func appendFile(out []*descriptorpb.FileDescriptorProto, fd protoreflect.FileDescriptor, seen map[string]bool) []*descriptorpb.FileDescriptorProto {
	if seen[fd.Path()] {
		return out
	}
	seen[fd.Path()] = true
	imports := fd.Imports()
	for i := 0; i < imports.Len(); i++ {
		out = appendFile(out, imports.Get(i).FileDescriptor, seen)
	}
	return append(out, protodesc.ToFileDescriptorProto(fd))
}

// WithoutFile returns a copy of req whose descriptors omit path.
func WithoutFile(req *pluginpb.CodeGeneratorRequest, path string) *pluginpb.CodeGeneratorRequest {
	out := proto.Clone(req).(*pluginpb.CodeGeneratorRequest)
	out.ProtoFile = nil
	for _, fdp := range req.GetProtoFile() {
		if fdp.GetName() != path {
			out.ProtoFile = append(out.ProtoFile, proto.Clone(fdp).(*descriptorpb.FileDescriptorProto))
		}
	}
	return out
}
