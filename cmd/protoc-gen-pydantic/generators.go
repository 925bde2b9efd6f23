// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package main

import (
	"github.com/albertocavalcante/protoc-gen-pydantic/generator"
	"github.com/albertocavalcante/protoc-gen-pydantic/generators/pydantic"
)

// defaultGenerator is the generator a plain invocation runs.
const defaultGenerator = "pydantic"

func init() {
	generator.Register(pydantic.NewGenerator())
}
