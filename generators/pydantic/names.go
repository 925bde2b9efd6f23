// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package pydantic

import (
	"strings"
	"unicode"
)

// keywords are the reserved words of Python 3.
var keywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// shadowed are names a field must not take because generated annotations
// and class bodies refer to them.
var shadowed = map[string]bool{
	"bool": true, "bytes": true, "dict": true, "float": true, "int": true,
	"list": true, "str": true, "datetime": true, "enum": true, "typing": true,
	"pydantic": true, "model_config": true,
}

// toPythonName escapes a declared class, enum or enum member name.
func toPythonName(name string) string {
	if keywords[name] {
		return name + "_"
	}
	return name
}

// toFieldName returns the attribute name for a proto field and whether it
// differs from the proto name, in which case the proto name becomes the
// pydantic alias.
//
// Leading underscores would make pydantic treat the attribute as private,
// so "_x" becomes "field_x".
func toFieldName(name string) (string, bool) {
	switch {
	case strings.HasPrefix(name, "_"):
		return "field" + name, true
	case keywords[name] || shadowed[name]:
		return name + "_", true
	}
	return name, false
}

// toModuleName turns a file stem into a Python module name by replacing
// every character that is not valid in an identifier with '_'.
func toModuleName(stem string) string {
	var b strings.Builder
	for i, r := range stem {
		switch {
		case r == '_' || unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name := b.String()
	if keywords[name] {
		name += "_"
	}
	return name
}

// quote returns s as a double-quoted Python string literal.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\', '"':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
