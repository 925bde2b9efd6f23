// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package pydantic generates Python pydantic models from resolved protobuf
// models.
//
// Each .proto file becomes one Python module. Messages become
// pydantic.BaseModel subclasses, enums become enum.IntEnum subclasses, and
// nested declarations are nested classes.
package pydantic

import (
	"fmt"
	"strings"

	"github.com/albertocavalcante/protoc-gen-pydantic/internal/schema"
	"github.com/albertocavalcante/protoc-gen-pydantic/model"
)

const indentUnit = "    "

// stdlibModules are grouped before third-party imports.
var stdlibModules = map[string]bool{
	"collections": true, "datetime": true, "decimal": true, "enum": true,
	"ipaddress": true, "pathlib": true, "typing": true, "uuid": true,
}

// Codegen generates one Python module from a resolved file model.
type Codegen struct {
	file     *model.File
	config   Config
	resolver *TypeResolver
}

// New creates a new pydantic Codegen.
func New(f *model.File, cfg Config) *Codegen {
	if cfg.BaseClass == "" {
		cfg.BaseClass = DefaultBaseClass
	}
	return &Codegen{
		file:     f,
		config:   cfg,
		resolver: NewTypeResolver(f, cfg),
	}
}

// Output contains the generated Python source.
type Output struct {
	Python []byte
}

// Generate produces the Python module.
func (g *Codegen) Generate() (*Output, error) {
	// Declarations are rendered first so the resolver knows every import.
	var decls []string
	for _, e := range g.file.Enums {
		decls = append(decls, g.generateEnum(e, ""))
	}
	for _, c := range g.file.Classes {
		s, err := g.generateClass(c, "")
		if err != nil {
			return nil, err
		}
		decls = append(decls, s)
	}

	var b strings.Builder
	b.WriteString(g.generateHeader())
	b.WriteString("\n")
	b.WriteString(g.generateImports())

	for _, d := range decls {
		b.WriteString("\n\n")
		b.WriteString(d)
	}

	if aliases := g.resolver.Aliases(); len(aliases) > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.Join(aliases, "\n"))
		b.WriteString("\n")
	}

	if len(g.file.Classes) > 0 {
		b.WriteString("\n\n")
		for _, c := range g.file.Classes {
			g.generateRebuild(&b, c)
		}
	}

	return &Output{Python: []byte(b.String())}, nil
}

// generateHeader produces the module header comment.
func (g *Codegen) generateHeader() string {
	var b strings.Builder
	b.WriteString("# Code generated by protoc-gen-pydantic. DO NOT EDIT.\n")
	b.WriteString(fmt.Sprintf("# source: %s\n", g.file.Path))
	return b.String()
}

// generateImports produces the import blocks: __future__, standard library,
// third party, then the modules generated for other .proto files.
func (g *Codegen) generateImports() string {
	var stdlib, thirdParty []string
	for _, m := range g.resolver.Modules() {
		if stdlibModules[strings.SplitN(m, ".", 2)[0]] {
			stdlib = append(stdlib, "import "+m)
		} else {
			thirdParty = append(thirdParty, "import "+m)
		}
	}

	blocks := [][]string{{"from __future__ import annotations"}, stdlib, thirdParty, g.resolver.LocalImports()}
	var parts []string
	for _, block := range blocks {
		if len(block) > 0 {
			parts = append(parts, strings.Join(block, "\n")+"\n")
		}
	}
	return strings.Join(parts, "\n")
}

func (g *Codegen) generateEnum(e *model.Enum, indent string) string {
	var b strings.Builder
	inner := indent + indentUnit

	b.WriteString(fmt.Sprintf("%sclass %s(%s):\n", indent, toPythonName(e.Name), g.resolver.Use("enum.IntEnum")))

	var sections []string
	if e.Documentation != "" {
		sections = append(sections, docstring(e.Documentation, inner))
	}
	if len(e.Values) > 0 {
		var vb strings.Builder
		for _, v := range e.Values {
			vb.WriteString(comment(v.Documentation, inner))
			vb.WriteString(fmt.Sprintf("%s%s = %d\n", inner, toPythonName(v.Name), v.Number))
		}
		sections = append(sections, vb.String())
	}
	if len(sections) == 0 {
		sections = append(sections, inner+"pass\n")
	}
	b.WriteString(strings.Join(sections, "\n"))
	return b.String()
}

func (g *Codegen) generateClass(c *model.Class, indent string) (string, error) {
	var b strings.Builder
	inner := indent + indentUnit

	b.WriteString(fmt.Sprintf("%sclass %s(%s):\n", indent, toPythonName(c.Name), g.resolver.Use(g.config.BaseClass)))

	fields, aliased, err := g.generateFields(c, inner)
	if err != nil {
		return "", err
	}

	var sections []string
	if c.Documentation != "" {
		sections = append(sections, docstring(c.Documentation, inner))
	}
	if aliased {
		sections = append(sections, fmt.Sprintf("%smodel_config = %s(populate_by_name=True)\n", inner, g.resolver.Use("pydantic.ConfigDict")))
	}
	for _, e := range c.Enums {
		sections = append(sections, g.generateEnum(e, inner))
	}
	for _, nested := range c.Classes {
		s, err := g.generateClass(nested, inner)
		if err != nil {
			return "", err
		}
		sections = append(sections, s)
	}
	if fields != "" {
		sections = append(sections, fields)
	}
	if len(sections) == 0 {
		sections = append(sections, inner+"pass\n")
	}
	b.WriteString(strings.Join(sections, "\n"))
	return b.String(), nil
}

// generateFields renders the field block of c and reports whether any
// field needed an alias.
func (g *Codegen) generateFields(c *model.Class, indent string) (string, bool, error) {
	var b strings.Builder
	aliased := false
	taken := make(map[string]bool, len(c.Fields))
	for _, f := range c.Fields {
		taken[f.Name] = true
	}

	for _, f := range c.Fields {
		name, escaped := toFieldName(f.Name)
		if escaped {
			for taken[name] {
				name += "_"
			}
			taken[name] = true
			aliased = true
		}

		ann, err := g.resolver.Annotation(f.Type, c.Source)
		if err != nil {
			return "", false, fmt.Errorf("field %s: %w", f.Source.FullName(), err)
		}
		switch {
		case f.IsList():
			ann = "list[" + ann + "]"
		case f.Nullable():
			ann += " | None"
		}

		value, factory, err := g.fieldDefault(f)
		if err != nil {
			return "", false, fmt.Errorf("field %s: %w", f.Source.FullName(), err)
		}

		b.WriteString(comment(f.Documentation, indent))
		b.WriteString(fmt.Sprintf("%s%s: %s = ", indent, name, ann))
		if !escaped && factory == "" {
			b.WriteString(value)
			b.WriteString("\n")
			continue
		}
		var args []string
		if factory != "" {
			args = append(args, "default_factory="+factory)
		} else {
			args = append(args, "default="+value)
		}
		if escaped {
			args = append(args, "alias="+quote(f.Name))
		}
		b.WriteString(fmt.Sprintf("%s(%s)\n", g.resolver.Use("pydantic.Field"), strings.Join(args, ", ")))
	}
	return b.String(), aliased, nil
}

// fieldDefault returns either a default value expression or a default
// factory expression for f.
func (g *Codegen) fieldDefault(f *model.Field) (value, factory string, err error) {
	switch {
	case f.IsMap():
		return "", "dict", nil
	case f.IsList():
		return "", "list", nil
	case f.Nullable():
		return "None", "", nil
	}

	switch f.Type.Kind {
	case model.KindScalar:
		v, err := scalarZero(f.Type.Scalar)
		return v, "", err
	case model.KindEnum:
		return g.enumDefault(f.Type.Enum)
	default:
		// Only mapped types reach here; they have no known zero value.
		return "None", "", nil
	}
}

// enumDefault returns the first declared value of e. Enums of this module
// are produced lazily: nested ones are not bound until their outermost class
// is, and a lambda body skips class namespaces, so the module-level name is
// the one found.
func (g *Codegen) enumDefault(e *schema.Enum) (value, factory string, err error) {
	if _, ok := g.resolver.Mapped(e); ok {
		return "None", "", nil
	}
	if len(e.Values) == 0 {
		return "", "", fmt.Errorf("enum %s has no values", e.FullName())
	}
	expr := g.resolver.Reference(e, nil) + "." + toPythonName(e.Values[0].Name)
	if e.File.Path == g.file.Path {
		return "", "lambda: " + expr, nil
	}
	return expr, "", nil
}

// generateRebuild resolves the deferred annotations of c and its nested
// classes, innermost first.
func (g *Codegen) generateRebuild(b *strings.Builder, c *model.Class) {
	for _, nested := range c.Classes {
		g.generateRebuild(b, nested)
	}
	b.WriteString(fmt.Sprintf("%s.model_rebuild()\n", strings.Join(pythonPath(c.Source), ".")))
}

// docstring renders doc as a triple-quoted string.
func docstring(doc, indent string) string {
	doc = strings.ReplaceAll(doc, `\`, `\\`)
	doc = strings.ReplaceAll(doc, `"""`, `\"\"\"`)
	// A final unescaped quote would merge into the closing delimiter.
	if strings.HasSuffix(doc, `"`) {
		n := 0
		for i := len(doc) - 2; i >= 0 && doc[i] == '\\'; i-- {
			n++
		}
		if n%2 == 0 {
			doc = doc[:len(doc)-1] + `\"`
		}
	}

	lines := strings.Split(doc, "\n")
	if len(lines) == 1 {
		return fmt.Sprintf("%s\"\"\"%s\"\"\"\n", indent, doc)
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s\"\"\"%s\n", indent, lines[0]))
	for _, line := range lines[1:] {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(indent + line + "\n")
	}
	b.WriteString(indent + `"""` + "\n")
	return b.String()
}

// comment renders doc as # comment lines.
func comment(doc, indent string) string {
	if doc == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(doc, "\n") {
		if line == "" {
			b.WriteString(indent + "#\n")
			continue
		}
		b.WriteString(indent + "# " + line + "\n")
	}
	return b.String()
}
