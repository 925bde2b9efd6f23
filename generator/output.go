// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package generator

import (
	"fmt"
	"slices"
)

// Output contains generated files.
type Output struct {
	// Files maps filename to content.
	Files map[string][]byte
}

// NewOutput creates a new Output.
func NewOutput() *Output {
	return &Output{Files: make(map[string][]byte)}
}

// Add adds a file to the output, replacing any earlier content.
func (o *Output) Add(name string, content []byte) {
	o.Files[name] = content
}

// AddNew adds a file to the output and fails if name is already taken.
func (o *Output) AddNew(name string, content []byte) error {
	if _, ok := o.Files[name]; ok {
		return fmt.Errorf("output file %s generated twice", name)
	}
	o.Files[name] = content
	return nil
}

// Names returns the file names in sorted order.
func (o *Output) Names() []string {
	names := make([]string, 0, len(o.Files))
	for name := range o.Files {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
