// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package compiler

import (
	"slices"
	"strings"

	"github.com/albertocavalcante/protoc-gen-pydantic/internal/protobase"
	"github.com/albertocavalcante/protoc-gen-pydantic/internal/schema"
)

// SymbolTable maps fully-qualified names (no leading dot) to the messages
// and enums of every file in a request. It is read-only once built.
type SymbolTable struct {
	types map[string]schema.Type
}

// NewSymbolTable indexes every message and enum of files, nested ones
// included. Two declarations with the same full name are MalformedInput.
func NewSymbolTable(files []*schema.File) (*SymbolTable, error) {
	st := &SymbolTable{types: make(map[string]schema.Type)}
	for _, f := range files {
		err := f.Walk(func(t schema.Type) error {
			name := t.FullName()
			if prev, ok := st.types[name]; ok {
				return errMalformed(f.Path, name, "duplicate symbol, already defined in %s", prev.ParentFile().Path)
			}
			st.types[name] = t
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return st, nil
}

// Len returns the number of symbols.
func (st *SymbolTable) Len() int {
	return len(st.types)
}

// Lookup returns the type with the exact full name.
func (st *SymbolTable) Lookup(fullName string) (schema.Type, bool) {
	t, ok := st.types[fullName]
	return t, ok
}

// Names returns every full name in sorted order.
func (st *SymbolTable) Names() []string {
	names := make([]string, 0, len(st.types))
	for name := range st.types {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Resolve finds the type named by ref as seen from scope, the full name of
// the message declaring the reference.
//
// A reference with a leading dot is looked up exactly. A relative reference
// is tried against scope, each enclosing message, each package prefix and
// the root, innermost first. Every match is a candidate; the reference
// resolves only if there is exactly one.
func (st *SymbolTable) Resolve(ref, scope string) (schema.Type, error) {
	if ref == "" {
		return nil, &Error{Kind: ErrUnresolvedReference, msg: "empty type name"}
	}
	if name, abs := protobase.TrimLeadingDot(ref); abs {
		if t, ok := st.types[name]; ok {
			return t, nil
		}
		return nil, &Error{Kind: ErrUnresolvedReference, msg: "type " + ref + " is not defined in the request"}
	}

	var candidates []schema.Type
	for _, s := range protobase.ScopePrefixes(scope) {
		t, ok := st.types[protobase.JoinName(s, ref)]
		if ok && !slices.Contains(candidates, t) {
			candidates = append(candidates, t)
		}
	}

	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return nil, &Error{Kind: ErrUnresolvedReference, msg: "type " + ref + " is not defined in the request"}
	default:
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c.FullName()
		}
		return nil, &Error{
			Kind: ErrUnresolvedReference,
			msg:  "type " + ref + " is ambiguous: " + strings.Join(names, ", "),
		}
	}
}
