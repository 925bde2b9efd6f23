// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package logging builds the structured logger of the plugin process.
//
// A protoc plugin owns stdout for its response, so logs always go to
// stderr in slog's text format.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// EnvDebug enables debug logging when set to a true boolean value.
const EnvDebug = "PROTOC_GEN_PYDANTIC_DEBUG"

// New returns a text logger writing to w whose level is read from level
// on every record, so it can be raised after construction.
func New(w io.Writer, level *slog.LevelVar) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: level.Level() <= slog.LevelDebug,
	})
	return slog.New(handler)
}

// LevelFromEnv returns the level selected by EnvDebug: debug when it
// parses as true, warn otherwise.
func LevelFromEnv() slog.Level {
	if v := os.Getenv(EnvDebug); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil && debug {
			return slog.LevelDebug
		}
	}
	return slog.LevelWarn
}

// ParseLevel parses a level name: debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
