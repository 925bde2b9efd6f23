// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package plugin drives one code generation request through the compiler
// and a generator.
package plugin

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/albertocavalcante/protoc-gen-pydantic/compiler"
	"github.com/albertocavalcante/protoc-gen-pydantic/generator"
	"github.com/albertocavalcante/protoc-gen-pydantic/internal/logging"
)

// NoInputFiles is reported when a request carries nothing at all.
const NoInputFiles = "No input files to generate"

// errorPrefix starts every other error reported in a response.
const errorPrefix = "Plugin error: "

// Handler answers code generation requests.
type Handler struct {
	Generator generator.Generator

	// Logger receives progress records. Nil discards them.
	Logger *slog.Logger

	// Level is raised or lowered by the log_level parameter when set.
	Level *slog.LevelVar
}

// Handle returns the response to req. Failures are reported in the
// response's error field, never as a Go error, and produce no files.
func (h *Handler) Handle(ctx context.Context, req *pluginpb.CodeGeneratorRequest) *pluginpb.CodeGeneratorResponse {
	resp := &pluginpb.CodeGeneratorResponse{
		SupportedFeatures: proto.Uint64(uint64(pluginpb.CodeGeneratorResponse_FEATURE_PROTO3_OPTIONAL)),
	}
	files, err := h.generate(ctx, req)
	if err != nil {
		resp.Error = proto.String(errorText(err))
		h.logger().Warn("generation failed", slog.Any("error", err))
		return resp
	}
	resp.File = files
	return resp
}

func (h *Handler) generate(ctx context.Context, req *pluginpb.CodeGeneratorRequest) ([]*pluginpb.CodeGeneratorResponse_File, error) {
	cfg, err := generator.ParseParameter(req.GetParameter())
	if err != nil {
		return nil, compiler.Malformed("", "parameter: %v", err)
	}
	if cfg.LogLevel != "" {
		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, compiler.Malformed("", "parameter: %v", err)
		}
		if h.Level != nil {
			h.Level.Set(level)
		}
	}
	log := h.logger()

	req = filterExcluded(req, cfg)
	log.Debug("request received",
		slog.Int("files_to_generate", len(req.GetFileToGenerate())),
		slog.Int("proto_files", len(req.GetProtoFile())),
		slog.String("generator", h.Generator.Metadata().Name))

	c := compiler.Compiler{Logger: log}
	models, err := c.Compile(req)
	if err != nil {
		return nil, err
	}
	out, err := h.Generator.Generate(ctx, models, cfg)
	if err != nil {
		return nil, err
	}

	files := make([]*pluginpb.CodeGeneratorResponse_File, 0, len(out.Files))
	for _, name := range out.Names() {
		files = append(files, &pluginpb.CodeGeneratorResponse_File{
			Name:    proto.String(name),
			Content: proto.String(string(out.Files[name])),
		})
	}
	log.Info("generated files", slog.Int("count", len(files)))
	return files, nil
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return h.Logger
}

// filterExcluded drops the files to generate matched by an exclude pattern.
// Their descriptors stay in the request so other files can still use them.
func filterExcluded(req *pluginpb.CodeGeneratorRequest, cfg generator.Config) *pluginpb.CodeGeneratorRequest {
	if len(cfg.Exclude) == 0 {
		return req
	}
	kept := make([]string, 0, len(req.GetFileToGenerate()))
	for _, path := range req.GetFileToGenerate() {
		if !cfg.Excluded(path) {
			kept = append(kept, path)
		}
	}
	filtered := proto.Clone(req).(*pluginpb.CodeGeneratorRequest)
	filtered.FileToGenerate = kept
	return filtered
}

func errorText(err error) string {
	if errors.Is(err, compiler.ErrEmptyRequest) {
		return NoInputFiles
	}
	return errorPrefix + err.Error()
}
