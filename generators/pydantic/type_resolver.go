// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package pydantic

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/albertocavalcante/protoc-gen-pydantic/generator"
	"github.com/albertocavalcante/protoc-gen-pydantic/internal/protobase"
	"github.com/albertocavalcante/protoc-gen-pydantic/internal/schema"
	"github.com/albertocavalcante/protoc-gen-pydantic/model"
)

// dottedName matches qualified Python names such as "datetime.datetime".
var dottedName = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)+`)

// localImport imports the module generated for another .proto file.
type localImport struct {
	// From is the parent package, empty for a top-level module.
	From   string
	Module string
	Alias  string
}

func (l localImport) String() string {
	switch {
	case l.From == "":
		return "import " + l.Module
	case l.Alias == l.Module:
		return fmt.Sprintf("from %s import %s", l.From, l.Module)
	default:
		return fmt.Sprintf("from %s import %s as %s", l.From, l.Module, l.Alias)
	}
}

// TypeResolver renders Python annotations for the fields of one file and
// records the imports they need.
type TypeResolver struct {
	file *model.File

	modulePrefix string

	// Maps fully-qualified message and enum names to Python annotations
	typeMap map[string]string

	// Dotted modules referenced so far ("datetime", "pydantic")
	modules map[string]bool

	// Module-level aliases of top-level names hidden inside some class
	// body, by the name they stand for
	aliases map[string]string
}

// NewTypeResolver creates a TypeResolver for f.
func NewTypeResolver(f *model.File, cfg Config) *TypeResolver {
	r := &TypeResolver{
		file:         f,
		modulePrefix: strings.Trim(cfg.ModulePrefix, "."),
		typeMap:      make(map[string]string),
		modules:      make(map[string]bool),
		aliases:      make(map[string]string),
	}
	for k, v := range DefaultMappings {
		r.typeMap[k] = v
	}
	for k, v := range cfg.TypeOverrides {
		r.typeMap[k] = v
	}
	return r
}

// Use records the modules of every qualified name in expr and returns expr.
func (r *TypeResolver) Use(expr string) string {
	for _, name := range dottedName.FindAllString(expr, -1) {
		r.modules[name[:strings.LastIndexByte(name, '.')]] = true
	}
	return expr
}

// Mapped returns the annotation configured for t. Types declared in the
// file being generated are never mapped.
func (r *TypeResolver) Mapped(t schema.Type) (string, bool) {
	if t.ParentFile().Path == r.file.Path {
		return "", false
	}
	ann, ok := r.typeMap[t.FullName()]
	return ann, ok
}

// Annotation returns the Python annotation of t without nullability, as
// written in the body of the class generated for scope. A nil scope is the
// module level.
func (r *TypeResolver) Annotation(t *model.Type, scope *schema.Message) (string, error) {
	switch t.Kind {
	case model.KindScalar:
		return scalarAnnotation(t.Scalar)
	case model.KindMessage, model.KindEnum:
		if ann, ok := r.Mapped(t.Named()); ok {
			return r.Use(ann), nil
		}
		return r.Reference(t.Named(), scope), nil
	case model.KindMap:
		key, err := r.Annotation(t.Key, scope)
		if err != nil {
			return "", err
		}
		value, err := r.Annotation(t.Value, scope)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("dict[%s, %s]", key, value), nil
	default:
		return "", fmt.Errorf("cannot annotate %s type", t.Kind)
	}
}

// Reference returns the expression naming the class generated for t from
// the body of the class generated for scope.
//
// Same-file types use their path from the module root. When the first
// segment of that path is also declared inside scope or one of its
// enclosing classes, the class namespace would win, so a module-level alias
// is used instead. Foreign types are qualified with the alias of their
// module.
func (r *TypeResolver) Reference(t schema.Type, scope *schema.Message) string {
	names := pythonPath(t)
	f := t.ParentFile()
	if f.Path != r.file.Path {
		return r.importFor(f).Alias + "." + strings.Join(names, ".")
	}
	if shadowedIn(names[0], scope) {
		names[0] = r.alias(names[0])
	}
	return strings.Join(names, ".")
}

// alias returns the module-level alias of the top-level name, recording it.
func (r *TypeResolver) alias(name string) string {
	if a, ok := r.aliases[name]; ok {
		return a
	}
	taken := make(map[string]bool)
	for _, c := range r.file.Classes {
		taken[toPythonName(c.Name)] = true
	}
	for _, e := range r.file.Enums {
		taken[toPythonName(e.Name)] = true
	}
	for _, a := range r.aliases {
		taken[a] = true
	}
	a := "_" + name
	for taken[a] {
		a = "_" + a
	}
	r.aliases[name] = a
	return a
}

// Aliases returns the recorded alias assignments sorted by alias.
func (r *TypeResolver) Aliases() []string {
	lines := make([]string, 0, len(r.aliases))
	for name, a := range r.aliases {
		lines = append(lines, a+" = "+name)
	}
	slices.Sort(lines)
	return lines
}

// shadowedIn reports whether name is declared in the body of scope or of a
// class enclosing it. Map entries are not generated and shadow nothing.
func shadowedIn(name string, scope *schema.Message) bool {
	for m := scope; m != nil; m = m.Parent {
		for _, nested := range m.Messages {
			if !nested.MapEntry && toPythonName(nested.Name) == name {
				return true
			}
		}
		for _, e := range m.Enums {
			if toPythonName(e.Name) == name {
				return true
			}
		}
	}
	return false
}

// importFor computes how the module generated for f is imported.
func (r *TypeResolver) importFor(f *schema.File) localImport {
	module := toModuleName(protobase.FileStem(f.Path))
	from := r.modulePrefix
	if f.Package != "" {
		from = protobase.JoinName(from, f.Package)
	}
	alias := module
	if f.Package != "" {
		alias = strings.ReplaceAll(f.Package, ".", "_") + "_" + module
	}
	return localImport{From: from, Module: module, Alias: alias}
}

// Modules returns the recorded dotted modules in sorted order.
func (r *TypeResolver) Modules() []string {
	mods := make([]string, 0, len(r.modules))
	for m := range r.modules {
		mods = append(mods, m)
	}
	slices.Sort(mods)
	return mods
}

// LocalImports returns the imports of the modules generated for the other
// files the fields of this file reference, sorted by statement text. Files
// whose types are all mapped are not imported.
func (r *TypeResolver) LocalImports() []string {
	var deps []schema.Type
	for _, t := range generator.ResolveDeps(r.file) {
		if _, ok := r.Mapped(t); !ok {
			deps = append(deps, t)
		}
	}
	files := generator.DepFiles(deps)
	imports := make([]string, 0, len(files))
	for _, f := range files {
		imports = append(imports, r.importFor(f).String())
	}
	slices.Sort(imports)
	return slices.Compact(imports)
}

// pythonPath returns the escaped class names leading to t from its module.
func pythonPath(t schema.Type) []string {
	var names []string
	switch t := t.(type) {
	case *schema.Message:
		names = t.Path()
	case *schema.Enum:
		names = t.Path()
	}
	for i, n := range names {
		names[i] = toPythonName(n)
	}
	return names
}

// scalarAnnotation returns the Python type of a scalar.
func scalarAnnotation(s protobase.Scalar) (string, error) {
	switch {
	case s.IsInteger():
		return "int", nil
	case s.IsFloat():
		return "float", nil
	case s == protobase.ScalarBool:
		return "bool", nil
	case s == protobase.ScalarString:
		return "str", nil
	case s == protobase.ScalarBytes:
		return "bytes", nil
	default:
		return "", fmt.Errorf("unknown scalar %s", s)
	}
}

// scalarZero returns the Python literal of the zero value of a scalar.
func scalarZero(s protobase.Scalar) (string, error) {
	switch {
	case s.IsInteger():
		return "0", nil
	case s.IsFloat():
		return "0.0", nil
	case s == protobase.ScalarBool:
		return "False", nil
	case s == protobase.ScalarString:
		return `""`, nil
	case s == protobase.ScalarBytes:
		return `b""`, nil
	default:
		return "", fmt.Errorf("unknown scalar %s", s)
	}
}
