// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package compiler turns a code generation request into resolved models.
//
// Compilation runs in two phases. The first indexes every file of the
// request: it builds the [SymbolTable] and registers every map entry in
// [MapEntries]. The second builds a [model.File] for each file to generate,
// reading those tables without modifying them. Any error aborts the whole
// request.
package compiler

import (
	"io"
	"log/slog"

	"google.golang.org/protobuf/types/pluginpb"

	"github.com/albertocavalcante/protoc-gen-pydantic/internal/schema"
	"github.com/albertocavalcante/protoc-gen-pydantic/model"
)

// Compiler compiles requests. The zero value is ready to use.
type Compiler struct {
	// Logger receives phase boundaries at debug level. Nil discards them.
	Logger *slog.Logger
}

// Compile compiles req with a zero [Compiler].
func Compile(req *pluginpb.CodeGeneratorRequest) ([]*model.File, error) {
	var c Compiler
	return c.Compile(req)
}

// Compile returns one model per entry of req.FileToGenerate, in that order.
//
// A request with neither files to generate nor descriptors fails with
// ErrEmptyRequest. A request naming files to generate that are missing from
// its descriptors is MalformedInput.
func (c *Compiler) Compile(req *pluginpb.CodeGeneratorRequest) ([]*model.File, error) {
	log := c.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if len(req.GetFileToGenerate()) == 0 && len(req.GetProtoFile()) == 0 {
		return nil, &Error{Kind: ErrEmptyRequest}
	}

	files, err := schema.NewFiles(req.GetProtoFile())
	if err != nil {
		return nil, &Error{Kind: ErrMalformedInput, msg: err.Error()}
	}
	byPath := make(map[string]*schema.File, len(files))
	for _, f := range files {
		byPath[f.Path] = f
	}

	symbols, err := NewSymbolTable(files)
	if err != nil {
		return nil, err
	}
	entries, err := NewMapEntries(files, symbols)
	if err != nil {
		return nil, err
	}
	log.Debug("indexed request",
		slog.Int("files", len(files)),
		slog.Int("symbols", symbols.Len()),
		slog.Int("map_entries", len(entries)))

	b := &builder{resolver: resolver{symbols: symbols, entries: entries}}
	out := make([]*model.File, 0, len(req.GetFileToGenerate()))
	for _, path := range req.GetFileToGenerate() {
		f, ok := byPath[path]
		if !ok {
			return nil, errMalformed(path, "", "file to generate has no descriptor in the request")
		}
		mf, err := b.file(f)
		if err != nil {
			return nil, err
		}
		log.Debug("built model",
			slog.String("file", path),
			slog.Int("classes", len(mf.Classes)),
			slog.Int("enums", len(mf.Enums)))
		out = append(out, mf)
	}
	return out, nil
}
