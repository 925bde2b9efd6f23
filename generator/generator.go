// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package generator defines the contract between resolved models and the
// code generators that render them.
package generator

import (
	"context"

	"github.com/albertocavalcante/protoc-gen-pydantic/model"
)

// Generator renders resolved models into output files.
type Generator interface {
	// Metadata returns information about this generator.
	Metadata() Metadata

	// Generate produces one or more output files for the given models.
	// Every file of a request is passed in a single call so that output
	// path collisions can be detected.
	Generate(ctx context.Context, files []*model.File, cfg Config) (*Output, error)
}

// Metadata describes a generator.
type Metadata struct {
	// Name is the short identifier (e.g., "pydantic").
	Name string

	// Version is the generator version (semver).
	Version string

	// Description is a human-readable description.
	Description string

	// FileExtensions lists typical output extensions (e.g., [".py"]).
	FileExtensions []string

	// URL is the homepage/documentation URL (optional).
	URL string
}
