// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package generator

import (
	"slices"
	"strings"

	"github.com/albertocavalcante/protoc-gen-pydantic/internal/schema"
	"github.com/albertocavalcante/protoc-gen-pydantic/model"
)

// ResolveDeps returns every message and enum referenced by the fields of f
// that is declared in another file, sorted by full name. Map keys and values
// are followed.
func ResolveDeps(f *model.File) []schema.Type {
	visited := make(map[string]schema.Type)
	f.Walk(func(c *model.Class) {
		for _, fld := range c.Fields {
			collectTypeRefs(f, fld.Type, visited)
		}
	})

	deps := make([]schema.Type, 0, len(visited))
	for _, t := range visited {
		deps = append(deps, t)
	}
	slices.SortFunc(deps, func(a, b schema.Type) int {
		return strings.Compare(a.FullName(), b.FullName())
	})
	return deps
}

// DepFiles returns the distinct files declaring deps, sorted by path.
func DepFiles(deps []schema.Type) []*schema.File {
	var files []*schema.File
	for _, t := range deps {
		if pf := t.ParentFile(); !slices.Contains(files, pf) {
			files = append(files, pf)
		}
	}
	slices.SortFunc(files, func(a, b *schema.File) int {
		return strings.Compare(a.Path, b.Path)
	})
	return files
}

// collectTypeRefs records the foreign named types reachable from t.
func collectTypeRefs(f *model.File, t *model.Type, visited map[string]schema.Type) {
	if t == nil {
		return
	}
	switch t.Kind {
	case model.KindMessage, model.KindEnum:
		named := t.Named()
		if named.ParentFile().Path != f.Path {
			visited[named.FullName()] = named
		}
	case model.KindMap:
		collectTypeRefs(f, t.Key, visited)
		collectTypeRefs(f, t.Value, visited)
	}
}
