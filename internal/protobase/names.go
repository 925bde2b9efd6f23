// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package protobase

import (
	"path"
	"strings"
)

// JoinName joins a scope and a simple name with a dot.
// An empty scope yields name unchanged.
func JoinName(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + "." + name
}

// TrimLeadingDot strips the leading dot of a fully-qualified reference.
// The second result reports whether the dot was present.
func TrimLeadingDot(ref string) (string, bool) {
	return strings.CutPrefix(ref, ".")
}

// ScopePrefixes returns the scopes visible from scope, innermost first,
// ending with the empty scope.
//
//	ScopePrefixes("a.b.C") = ["a.b.C", "a.b", "a", ""]
func ScopePrefixes(scope string) []string {
	var prefixes []string
	for scope != "" {
		prefixes = append(prefixes, scope)
		i := strings.LastIndexByte(scope, '.')
		if i < 0 {
			break
		}
		scope = scope[:i]
	}
	return append(prefixes, "")
}

// ModulePath converts a dotted package name into a slash-separated path.
// The empty package maps to the empty path.
//
//	ModulePath("a.b") = "a/b"
func ModulePath(pkg string) string {
	return strings.ReplaceAll(pkg, ".", "/")
}

// FileStem returns the base name of a .proto path without its extension.
//
//	FileStem("x/y/person.proto") = "person"
func FileStem(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}
