// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidSegment is wrapped by every path-validation failure, so callers
// can map it to a client error instead of a storage failure.
var ErrInvalidSegment = errors.New("catalog: invalid path segment")

const (
	// recordExt is the canonical suffix of a recipe record file.
	recordExt = ".json"

	// manifestFile is the per-leaf index listing which recipe ids live in
	// that directory.
	manifestFile = "manifest" + recordExt
)

// Paths maps (category, subcategory, id) triples to deterministic locations
// in the catalog file tree. Pure — no I/O.
type Paths struct {
	base string
}

// NewPaths returns a resolver rooted at base.
func NewPaths(base string) Paths {
	return Paths{base: base}
}

// Base returns the root directory of the catalog tree.
func (p Paths) Base() string {
	return p.base
}

// Folder returns base/category[/subcategory], omitting the subcategory
// segment when empty.
func (p Paths) Folder(category, subcategory string) (string, error) {
	if err := ValidateSegment(category); err != nil {
		return "", fmt.Errorf("category: %w", err)
	}
	if subcategory == "" {
		return filepath.Join(p.base, category), nil
	}
	if err := ValidateSegment(subcategory); err != nil {
		return "", fmt.Errorf("subcategory: %w", err)
	}
	return filepath.Join(p.base, category, subcategory), nil
}

// RecipeFile returns the record-file path for id under the resolved folder,
// appending the canonical suffix when id doesn't already carry it.
func (p Paths) RecipeFile(category, subcategory, id string) (string, error) {
	folder, err := p.Folder(category, subcategory)
	if err != nil {
		return "", err
	}
	if err := ValidateSegment(id); err != nil {
		return "", fmt.Errorf("id: %w", err)
	}
	if !strings.HasSuffix(id, recordExt) {
		id += recordExt
	}
	if id == manifestFile {
		return "", fmt.Errorf("id: %w: %q is reserved for the index", ErrInvalidSegment, id)
	}
	return filepath.Join(folder, id), nil
}

// Manifest returns the manifest-file path for the resolved folder.
func (p Paths) Manifest(category, subcategory string) (string, error) {
	folder, err := p.Folder(category, subcategory)
	if err != nil {
		return "", err
	}
	return filepath.Join(folder, manifestFile), nil
}

// ValidateSegment rejects values that cannot be used verbatim as a single
// path segment. Category and subcategory names come from stored taxonomy
// data, but the same rule is applied at category creation so the two can
// never diverge — and traversal sequences from any caller are refused
// rather than sanitized away.
func ValidateSegment(s string) error {
	switch {
	case s == "":
		return fmt.Errorf("%w: empty value", ErrInvalidSegment)
	case strings.ContainsAny(s, `/\`):
		return fmt.Errorf("%w: %q contains a separator", ErrInvalidSegment, s)
	case strings.HasPrefix(s, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidSegment, s)
	case strings.ContainsRune(s, 0):
		return fmt.Errorf("%w: NUL byte in value", ErrInvalidSegment)
	}
	return nil
}
