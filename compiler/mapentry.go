// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package compiler

import (
	"github.com/albertocavalcante/protoc-gen-pydantic/internal/schema"
	"github.com/albertocavalcante/protoc-gen-pydantic/model"
)

// Field numbers of the synthetic key and value fields.
const (
	mapKeyNumber   = 1
	mapValueNumber = 2
)

// MapEntries maps the full name of every map entry message in a request to
// its map(key, value) type. It is read-only once built.
type MapEntries map[string]*model.Type

// NewMapEntries registers every message flagged as a map entry, at any
// depth, in any file of the request.
//
// An entry must have exactly a key field numbered 1 and a value field
// numbered 2, and the key must be an integral, bool or string scalar.
// Key and value types are resolved against symbols from the entry's scope.
func NewMapEntries(files []*schema.File, symbols *SymbolTable) (MapEntries, error) {
	entries := make(MapEntries)
	r := &resolver{symbols: symbols}
	for _, f := range files {
		err := f.Walk(func(t schema.Type) error {
			m, ok := t.(*schema.Message)
			if !ok || !m.MapEntry {
				return nil
			}
			typ, err := r.mapEntry(m)
			if err != nil {
				return err
			}
			entries[m.FullName()] = typ
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// Lookup returns the map type registered for the entry message fullName.
func (me MapEntries) Lookup(fullName string) (*model.Type, bool) {
	t, ok := me[fullName]
	return t, ok
}

func (r *resolver) mapEntry(m *schema.Message) (*model.Type, error) {
	file := m.File.Path
	if len(m.Fields) != 2 {
		return nil, errMalformed(file, m.FullName(), "map entry has %d fields, want key and value", len(m.Fields))
	}
	key, value := m.Fields[0], m.Fields[1]
	if key.Number == mapValueNumber {
		key, value = value, key
	}
	if key.Name != "key" || key.Number != mapKeyNumber || value.Name != "value" || value.Number != mapValueNumber {
		return nil, errMalformed(file, m.FullName(), "map entry fields must be key = %d and value = %d", mapKeyNumber, mapValueNumber)
	}
	if key.Repeated() || value.Repeated() {
		return nil, errMalformed(file, m.FullName(), "map entry fields must be singular")
	}

	keyType, err := r.fieldType(key)
	if err != nil {
		return nil, err
	}
	if keyType.Kind != model.KindScalar || !keyType.Scalar.IsValidMapKey() {
		return nil, errMalformed(file, key.FullName(), "%s is not a valid map key type", keyType)
	}
	valueType, err := r.fieldType(value)
	if err != nil {
		return nil, err
	}
	return model.MapType(keyType, valueType), nil
}
