// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package pydantic

import (
	"context"
	"path"
	"unicode/utf8"

	"github.com/albertocavalcante/protoc-gen-pydantic/compiler"
	"github.com/albertocavalcante/protoc-gen-pydantic/generator"
	"github.com/albertocavalcante/protoc-gen-pydantic/internal/protobase"
	"github.com/albertocavalcante/protoc-gen-pydantic/model"
)

// initHeader is the content of generated __init__.py files.
const initHeader = "# Code generated by protoc-gen-pydantic. DO NOT EDIT.\n"

// Generator implements [generator.Generator] for pydantic generation.
type Generator struct{}

// NewGenerator creates a new pydantic generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Metadata returns information about this generator.
func (g *Generator) Metadata() generator.Metadata {
	return generator.Metadata{
		Name:           "pydantic",
		Version:        "1.0.0",
		Description:    "Generate pydantic v2 models from protobuf descriptors",
		FileExtensions: []string{".py"},
		URL:            "https://github.com/albertocavalcante/protoc-gen-pydantic",
	}
}

// Generate produces one Python module per file. Two files mapping to the
// same module path, or generated text that is not UTF-8, fail the whole
// call with compiler.ErrMalformedInput.
func (g *Generator) Generate(ctx context.Context, files []*model.File, cfg generator.Config) (*generator.Output, error) {
	internalCfg := Config{
		ModulePrefix:  cfg.ModulePrefix,
		BaseClass:     cfg.Option("base_class", DefaultBaseClass),
		TypeOverrides: cfg.TypeOverrides,
	}

	result := generator.NewOutput()
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, err := New(f, internalCfg).Generate()
		if err != nil {
			return nil, compiler.Malformed(f.Path, "generate code: %v", err)
		}
		if !utf8.Valid(out.Python) {
			return nil, compiler.Malformed(f.Path, "generated text is not valid UTF-8")
		}
		if err := result.AddNew(OutputPath(f), out.Python); err != nil {
			return nil, compiler.Malformed(f.Path, "%v", err)
		}
	}

	if cfg.PackageInit {
		for _, name := range result.Names() {
			for dir := path.Dir(name); dir != "."; dir = path.Dir(dir) {
				initFile := dir + "/__init__.py"
				if _, ok := result.Files[initFile]; !ok {
					result.Add(initFile, []byte(initHeader))
				}
			}
		}
	}
	return result, nil
}

// OutputPath returns the module path generated for f: the package as
// directories and the file stem as module name.
//
//	package acme.v1, file x/person.proto -> acme/v1/person.py
func OutputPath(f *model.File) string {
	name := toModuleName(protobase.FileStem(f.Path)) + ".py"
	if dir := protobase.ModulePath(f.Package); dir != "" {
		return dir + "/" + name
	}
	return name
}
