// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package plugin

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/bufbuild/protoplugin"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/pluginpb"
)

// Env is the process environment of one plugin invocation.
type Env struct {
	Args    []string
	Environ []string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// Run reads one request from env.Stdin and writes the response to
// env.Stdout.
//
// protoplugin refuses a request without descriptors before any handler
// runs, so such a request is answered here; every other request goes
// through protoplugin's validation and framing.
func Run(ctx context.Context, env Env, h *Handler) error {
	data, err := io.ReadAll(env.Stdin)
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	req := &pluginpb.CodeGeneratorRequest{}
	if err := proto.Unmarshal(data, req); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}

	if len(req.GetFileToGenerate()) == 0 && len(req.GetProtoFile()) == 0 {
		out, err := proto.Marshal(h.Handle(ctx, req))
		if err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
		_, err = env.Stdout.Write(out)
		return err
	}

	handler := protoplugin.HandlerFunc(func(
		ctx context.Context,
		_ protoplugin.PluginEnv,
		w protoplugin.ResponseWriter,
		_ protoplugin.Request,
	) error {
		resp := h.Handle(ctx, req)
		w.SetFeatureProto3Optional()
		w.AddCodeGeneratorResponseFiles(resp.GetFile()...)
		if msg := resp.GetError(); msg != "" {
			w.SetError(msg)
		}
		return nil
	})
	return protoplugin.Run(ctx, protoplugin.Env{
		Args:    env.Args,
		Environ: env.Environ,
		Stdin:   bytes.NewReader(data),
		Stdout:  env.Stdout,
		Stderr:  env.Stderr,
	}, handler)
}
