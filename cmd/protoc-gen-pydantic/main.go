// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Command protoc-gen-pydantic is a protoc plugin that generates pydantic v2
// models from .proto files.
//
// Usage:
//
//	protoc --pydantic_out=OUT_DIR [--pydantic_opt=PARAMS] FILES...
//
// Parameters (comma-separated key=value pairs):
//
//	module_prefix   Python package prepended to generated imports
//	package_init    Emit __init__.py files for every package directory
//	config          Path to a YAML options file
//	exclude         ';'-separated glob patterns of files to skip
//	log_level       debug, info, warn or error (logs go to stderr)
//
// Setting PROTOC_GEN_PYDANTIC_DEBUG=1 enables debug logs from the start.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/albertocavalcante/protoc-gen-pydantic/generator"
	"github.com/albertocavalcante/protoc-gen-pydantic/internal/logging"
	"github.com/albertocavalcante/protoc-gen-pydantic/plugin"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `protoc-gen-pydantic - pydantic model generator for protoc

This program is run by protoc; it reads a CodeGeneratorRequest on stdin
and writes a CodeGeneratorResponse on stdout.

Usage:
  protoc --pydantic_out=OUT_DIR [--pydantic_opt=PARAMS] FILES...
  protoc-gen-pydantic --version

`)
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("protoc-gen-pydantic %s (commit: %s, built: %s)\n", version, commit, date)
		return nil
	}
	if flag.NArg() > 0 {
		flag.Usage()
		return fmt.Errorf("unexpected arguments: %v", flag.Args())
	}

	gen, err := generator.Lookup(defaultGenerator)
	if err != nil {
		return err
	}

	level := new(slog.LevelVar)
	level.Set(logging.LevelFromEnv())
	h := &plugin.Handler{
		Generator: gen,
		Logger:    logging.New(os.Stderr, level),
		Level:     level,
	}
	h.Logger.Debug("starting", slog.String("version", version))

	return plugin.Run(context.Background(), plugin.Env{
		Args:    flag.Args(),
		Environ: os.Environ(),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}, h)
}
