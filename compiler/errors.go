// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by this package wraps exactly one of them.
var (
	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrUnsupportedFeature  = errors.New("unsupported feature")
	ErrMalformedInput      = errors.New("malformed input")
	ErrEmptyRequest        = errors.New("no input files to generate")
)

// Error locates a compilation failure.
type Error struct {
	// Kind is one of the Err* sentinels.
	Kind error

	// File is the .proto path, empty for request-level failures.
	File string

	// Element is the full name of the message, enum or field at fault.
	Element string

	msg string
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	var b strings.Builder
	if err.File != "" {
		b.WriteString(err.File)
		b.WriteString(": ")
	}
	if err.Element != "" {
		b.WriteString(err.Element)
		b.WriteString(": ")
	}
	b.WriteString(err.Kind.Error())
	if err.msg != "" {
		b.WriteString(": ")
		b.WriteString(err.msg)
	}
	return b.String()
}

// Unwrap returns the error kind.
func (err *Error) Unwrap() error {
	return err.Kind
}

// Message returns the detail text without location or kind.
func (err *Error) Message() string {
	return err.msg
}

func errUnresolved(file, element, format string, args ...any) error {
	return &Error{
		Kind:    ErrUnresolvedReference,
		File:    file,
		Element: element,
		msg:     fmt.Sprintf(format, args...),
	}
}

func errUnsupported(file, element, format string, args ...any) error {
	return &Error{
		Kind:    ErrUnsupportedFeature,
		File:    file,
		Element: element,
		msg:     fmt.Sprintf(format, args...),
	}
}

func errMalformed(file, element, format string, args ...any) error {
	return &Error{
		Kind:    ErrMalformedInput,
		File:    file,
		Element: element,
		msg:     fmt.Sprintf(format, args...),
	}
}

// Malformed reports a MalformedInput failure found outside the compiler,
// such as a bad plugin parameter or non UTF-8 generated text.
func Malformed(file, format string, args ...any) error {
	return errMalformed(file, "", format, args...)
}
