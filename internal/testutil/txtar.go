// SPDX-License-Identifier: MIT

// Package testutil provides testing utilities for protoc-gen-pydantic.
package testutil

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"
)

// wantError is the archive file holding an expected error substring.
const wantError = "want/error"

// Case represents a parsed test case from a txtar archive.
type Case struct {
	// Name is the test case name (typically the filename without extension).
	Name string

	// Description is the first comment block before any files.
	Description string

	// Parameter is the plugin parameter from a "Parameter: ..." line.
	Parameter string

	// Generate lists the files to generate from a "Generate: a.proto, b.proto"
	// line. Empty means every input.
	Generate []string

	// Inputs maps .proto paths to their source.
	Inputs map[string]string

	// Want maps relative paths (e.g., "acme/v1/person.py") to expected content.
	Want map[string][]byte

	// WantErr is a substring of the expected error, from "want/error".
	WantErr string
}

// ParseCase parses a txtar archive into a test Case.
// The archive should contain:
//   - A description comment (text before first file)
//   - One or more ".proto" files
//   - Either "want/<filename>" files with expected output or a single
//     "want/error" file with a substring of the expected error
//
// The description may contain "Parameter: ..." and "Generate: ..." lines.
func ParseCase(name string, ar *txtar.Archive) (*Case, error) {
	c := &Case{
		Name:        name,
		Description: string(ar.Comment),
		Inputs:      make(map[string]string),
		Want:        make(map[string][]byte),
	}

	c.parseDirectives()

	for _, f := range ar.Files {
		switch {
		case f.Name == wantError:
			c.WantErr = strings.TrimSpace(string(f.Data))
		case strings.HasPrefix(f.Name, "want/"):
			relPath := strings.TrimPrefix(f.Name, "want/")
			c.Want[relPath] = f.Data
		case strings.HasSuffix(f.Name, ".proto"):
			c.Inputs[f.Name] = string(f.Data)
		default:
			return nil, fmt.Errorf("unexpected file in archive: %q (expected *.proto or want/*)", f.Name)
		}
	}

	if len(c.Inputs) == 0 {
		return nil, fmt.Errorf("missing .proto inputs in archive")
	}
	if len(c.Want) == 0 && c.WantErr == "" {
		return nil, fmt.Errorf("missing want/* files in archive")
	}
	if len(c.Want) > 0 && c.WantErr != "" {
		return nil, fmt.Errorf("archive has both %s and want/* files", wantError)
	}
	return c, nil
}

// parseDirectives extracts "Parameter:" and "Generate:" lines from the
// description.
func (c *Case) parseDirectives() {
	for _, line := range strings.Split(c.Description, "\n") {
		line = strings.TrimSpace(line)
		if v, ok := strings.CutPrefix(line, "Parameter:"); ok {
			c.Parameter = strings.TrimSpace(v)
		}
		if v, ok := strings.CutPrefix(line, "Generate:"); ok {
			for _, f := range strings.Split(v, ",") {
				if f = strings.TrimSpace(f); f != "" {
					c.Generate = append(c.Generate, f)
				}
			}
		}
	}
}

// GenerateFunc generates output for a test case.
// It returns a map of filename to content.
type GenerateFunc func(c *Case) (map[string][]byte, error)

// Run executes the test case using the provided generate function.
// It compares generated output against expected output and reports differences.
func (c *Case) Run(t *testing.T, generate GenerateFunc) {
	t.Helper()

	got, err := generate(c)
	if c.WantErr != "" {
		if err == nil {
			t.Fatalf("generate succeeded, want error containing %q", c.WantErr)
		}
		if !strings.Contains(err.Error(), c.WantErr) {
			t.Fatalf("generate error = %q, want it to contain %q", err, c.WantErr)
		}
		return
	}
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	// Check for missing expected files
	for wantFile := range c.Want {
		if _, ok := got[wantFile]; !ok {
			t.Errorf("missing output file: %q", wantFile)
		}
	}

	// Check for unexpected files
	for gotFile := range got {
		if _, ok := c.Want[gotFile]; !ok {
			t.Errorf("unexpected output file: %q", gotFile)
		}
	}

	// Compare contents
	for wantFile, wantContent := range c.Want {
		gotContent, ok := got[wantFile]
		if !ok {
			continue // Already reported as missing
		}

		wantNorm := normalizeContent(wantContent)
		gotNorm := normalizeContent(gotContent)

		if diff := cmp.Diff(wantNorm, gotNorm); diff != "" {
			t.Errorf("file %q mismatch (-want +got):\n%s", wantFile, diff)
		}
	}
}

// normalizeContent normalizes content for comparison:
// - Trims trailing whitespace from each line
// - Ensures consistent line endings
// - Trims trailing newlines
func normalizeContent(content []byte) string {
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	result := strings.Join(lines, "\n")
	return strings.TrimRight(result, "\n")
}

// UpdateArchive updates a txtar archive with new generated content.
// Used for golden file updates with -update flag. Cases expecting an error
// are returned unchanged.
func UpdateArchive(ar *txtar.Archive, got map[string][]byte) *txtar.Archive {
	result := &txtar.Archive{
		Comment: ar.Comment,
	}

	for _, f := range ar.Files {
		if f.Name == wantError {
			return ar
		}
		if !strings.HasPrefix(f.Name, "want/") {
			result.Files = append(result.Files, f)
		}
	}

	// Add want/* files in sorted order for determinism
	var wantFiles []string
	for name := range got {
		wantFiles = append(wantFiles, name)
	}
	sort.Strings(wantFiles)

	for _, name := range wantFiles {
		content := got[name]
		// Ensure trailing newline
		if len(content) > 0 && content[len(content)-1] != '\n' {
			content = append(content, '\n')
		}
		result.Files = append(result.Files, txtar.File{
			Name: "want/" + name,
			Data: content,
		})
	}

	return result
}

// FormatArchive formats an archive to bytes.
func FormatArchive(ar *txtar.Archive) []byte {
	return txtar.Format(ar)
}

// LoadTestCases loads all txtar test cases from a directory.
func LoadTestCases(t *testing.T, dir string) []*Case {
	t.Helper()

	pattern := filepath.Join(dir, "*.txtar")
	files, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatalf("glob %q: %v", pattern, err)
	}

	if len(files) == 0 {
		t.Fatalf("no txtar files found in %q", dir)
	}

	var cases []*Case
	for _, file := range files {
		ar, err := txtar.ParseFile(file)
		if err != nil {
			t.Fatalf("parse %q: %v", file, err)
		}

		name := strings.TrimSuffix(filepath.Base(file), ".txtar")
		c, err := ParseCase(name, ar)
		if err != nil {
			t.Fatalf("parse case %q: %v", name, err)
		}

		cases = append(cases, c)
	}

	// Sort by name for determinism
	sort.Slice(cases, func(i, j int) bool {
		return cases[i].Name < cases[j].Name
	})

	return cases
}
