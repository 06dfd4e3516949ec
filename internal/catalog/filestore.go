// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"recettes/internal/models"
	"recettes/internal/slug"
)

// manifestEntry is one index entry in a leaf directory's manifest.
type manifestEntry struct {
	ID string `json:"id"`
}

// manifest mirrors which record files exist in a leaf directory. It is the
// index used for listing without scanning record contents.
type manifest struct {
	Recipes []manifestEntry `json:"recipes"`
}

// leaf identifies one directory holding record files and a manifest.
type leaf struct {
	category    string
	subcategory string
}

// FileStore persists recipes as a category/subcategory directory tree with
// one JSON file per recipe and a manifest index per leaf directory.
//
// Record and manifest writes are not atomic with each other. Create
// compensates a failed manifest append by removing the record; other
// divergences are logged as recognized partial failures and repaired by the
// listing path, which skips index entries whose record is gone.
type FileStore struct {
	paths Paths
	now   func() time.Time
}

// NewFileStore creates a file-tree catalog rooted at base, creating the
// directory if needed.
func NewFileStore(base string) (*FileStore, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("catalog mkdir %s: %w", base, err)
	}
	return &FileStore{paths: NewPaths(base), now: time.Now}, nil
}

// ListAll walks every leaf manifest and loads each referenced record,
// newest first. Manifest entries whose record file is missing are skipped
// and logged, never surfaced as an error.
func (s *FileStore) ListAll(ctx context.Context) ([]models.Recipe, error) {
	leaves, err := s.leaves()
	if err != nil {
		return nil, err
	}

	var all []models.Recipe
	for _, l := range leaves {
		recs, err := s.loadLeaf(l)
		if err != nil {
			return nil, err
		}
		all = append(all, recs...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

// Get returns the recipe with the given id, or nil if no manifest
// references it.
func (s *FileStore) Get(_ context.Context, id string) (*models.Recipe, error) {
	rec, _, err := s.find(id)
	return rec, err
}

// Create writes the record file and then appends the id to the leaf
// manifest. If the manifest write fails the record file is removed again,
// so no record exists without an index entry. The id is always assigned
// here; a client-chosen id could collide with existing records or with
// reserved filenames in the leaf directory.
func (s *FileStore) Create(_ context.Context, rec *models.Recipe) (*models.Recipe, error) {
	stored := *rec
	stored.ID = slug.WithSuffix(stored.Title)
	now := s.now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	folder, err := s.paths.Folder(stored.Category, stored.Subcategory)
	if err != nil {
		return nil, err
	}
	recordPath, err := s.paths.RecipeFile(stored.Category, stored.Subcategory, stored.ID)
	if err != nil {
		return nil, err
	}
	manifestPath, err := s.paths.Manifest(stored.Category, stored.Subcategory)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, fmt.Errorf("catalog mkdir %s: %w", folder, err)
	}
	if err := writeJSON(recordPath, &stored); err != nil {
		return nil, err
	}

	m, err := readManifest(manifestPath)
	if err == nil {
		if !m.contains(stored.ID) {
			m.Recipes = append(m.Recipes, manifestEntry{ID: stored.ID})
		}
		err = writeJSON(manifestPath, m)
	}
	if err != nil {
		// Best-effort compensation: a record without an index entry would
		// be invisible to listings, so remove it again.
		if rmErr := os.Remove(recordPath); rmErr != nil {
			slog.Error("create compensation failed, orphaned record left behind",
				"id", stored.ID, "path", recordPath, "error", rmErr)
		} else {
			slog.Warn("manifest write failed, record removed", "id", stored.ID, "error", err)
		}
		return nil, fmt.Errorf("catalog manifest %s: %w", manifestPath, err)
	}

	return &stored, nil
}

// Update merges the supplied fields over the stored record and rewrites the
// record file: a key the client never sent keeps its stored value instead of
// being zeroed. The record's location is immutable: a differing category or
// subcategory yields ErrLocationChanged instead of silently leaving the
// manifest out of sync.
func (s *FileStore) Update(_ context.Context, id string, rec *models.Recipe) (*models.Recipe, error) {
	existing, loc, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	merged := models.MergeRecipe(existing, rec)
	if merged.Category != loc.category || merged.Subcategory != loc.subcategory {
		return nil, ErrLocationChanged
	}

	updated := *merged
	updated.ID = id
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now().UTC()

	recordPath, err := s.paths.RecipeFile(loc.category, loc.subcategory, id)
	if err != nil {
		return nil, err
	}
	if err := writeJSON(recordPath, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the record file and its manifest entry, returning the
// deleted record. An already-absent manifest entry is logged, not an error,
// so deletes stay idempotent from the index's perspective.
func (s *FileStore) Delete(_ context.Context, id string) (*models.Recipe, error) {
	rec, loc, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}

	recordPath, err := s.paths.RecipeFile(loc.category, loc.subcategory, id)
	if err != nil {
		return nil, err
	}
	if err := os.Remove(recordPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("catalog remove %s: %w", recordPath, err)
	}

	manifestPath, err := s.paths.Manifest(loc.category, loc.subcategory)
	if err != nil {
		return nil, err
	}
	m, err := readManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	kept := m.Recipes[:0]
	removed := false
	for _, e := range m.Recipes {
		if e.ID == id {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	m.Recipes = kept

	if !removed {
		// Only reachable when another writer pruned the entry between find
		// and this read; the record file is gone either way.
		slog.Warn("manifest entry already absent on delete", "id", id, "manifest", manifestPath)
		return rec, nil
	}
	if err := writeJSON(manifestPath, m); err != nil {
		// The record itself is gone; a stale index entry is repaired by
		// the listing path, so the delete still counts as done.
		slog.Error("manifest write failed after delete, stale entry left",
			"id", id, "manifest", manifestPath, "error", err)
	}
	return rec, nil
}

// AnyInCategory reports whether at least one loadable record exists under
// the category (or its subcategory when given). Stale manifest entries
// don't count — only records that actually load.
func (s *FileStore) AnyInCategory(_ context.Context, category, subcategory string) (bool, error) {
	if err := ValidateSegment(category); err != nil {
		return false, fmt.Errorf("category: %w", err)
	}

	var targets []leaf
	if subcategory != "" {
		if err := ValidateSegment(subcategory); err != nil {
			return false, fmt.Errorf("subcategory: %w", err)
		}
		targets = []leaf{{category: category, subcategory: subcategory}}
	} else {
		leaves, err := s.leaves()
		if err != nil {
			return false, err
		}
		for _, l := range leaves {
			if l.category == category {
				targets = append(targets, l)
			}
		}
	}

	for _, l := range targets {
		recs, err := s.loadLeaf(l)
		if err != nil {
			return false, err
		}
		if len(recs) > 0 {
			return true, nil
		}
	}
	return false, nil
}

// leaves enumerates every directory that can hold records. Nesting is
// resolved per category directory: each subdirectory is a leaf, and the
// category directory itself is one too when it carries its own manifest, so
// records created before a category grew subcategories stay visible.
func (s *FileStore) leaves() ([]leaf, error) {
	entries, err := os.ReadDir(s.paths.Base())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("catalog read %s: %w", s.paths.Base(), err)
	}

	var leaves []leaf
	for _, cat := range entries {
		if !cat.IsDir() {
			continue
		}
		folder, err := s.paths.Folder(cat.Name(), "")
		if err != nil {
			slog.Warn("skipping unresolvable category directory", "dir", cat.Name(), "error", err)
			continue
		}
		sub, err := os.ReadDir(folder)
		if err != nil {
			return nil, fmt.Errorf("catalog read %s: %w", folder, err)
		}

		hasOwnManifest := false
		hasSubdirs := false
		for _, e := range sub {
			switch {
			case e.IsDir():
				hasSubdirs = true
				leaves = append(leaves, leaf{category: cat.Name(), subcategory: e.Name()})
			case e.Name() == manifestFile:
				hasOwnManifest = true
			}
		}
		if hasOwnManifest || !hasSubdirs {
			leaves = append(leaves, leaf{category: cat.Name(), subcategory: ""})
		}
	}
	return leaves, nil
}

// loadLeaf loads every record the leaf's manifest references, skipping and
// logging entries whose record file no longer exists.
func (s *FileStore) loadLeaf(l leaf) ([]models.Recipe, error) {
	manifestPath, err := s.paths.Manifest(l.category, l.subcategory)
	if err != nil {
		slog.Warn("skipping unresolvable leaf", "category", l.category, "subcategory", l.subcategory, "error", err)
		return nil, nil
	}
	m, err := readManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	var recs []models.Recipe
	for _, e := range m.Recipes {
		recordPath, err := s.paths.RecipeFile(l.category, l.subcategory, e.ID)
		if err != nil {
			slog.Warn("manifest entry with invalid id", "id", e.ID, "manifest", manifestPath)
			continue
		}
		rec, err := readRecipe(recordPath)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			slog.Warn("manifest entry without record file, skipping", "id", e.ID, "path", recordPath)
			continue
		}
		recs = append(recs, *rec)
	}
	return recs, nil
}

// find locates a record by id across all leaves.
func (s *FileStore) find(id string) (*models.Recipe, leaf, error) {
	leaves, err := s.leaves()
	if err != nil {
		return nil, leaf{}, err
	}
	for _, l := range leaves {
		manifestPath, err := s.paths.Manifest(l.category, l.subcategory)
		if err != nil {
			continue
		}
		m, err := readManifest(manifestPath)
		if err != nil {
			return nil, leaf{}, err
		}
		if !m.contains(id) {
			continue
		}
		recordPath, err := s.paths.RecipeFile(l.category, l.subcategory, id)
		if err != nil {
			return nil, leaf{}, err
		}
		rec, err := readRecipe(recordPath)
		if err != nil {
			return nil, leaf{}, err
		}
		if rec == nil {
			slog.Warn("manifest entry without record file", "id", id, "path", recordPath)
			continue
		}
		return rec, l, nil
	}
	return nil, leaf{}, nil
}

func (m *manifest) contains(id string) bool {
	for _, e := range m.Recipes {
		if e.ID == id {
			return true
		}
	}
	return false
}

// readRecipe loads one record file. A missing file is an absent-record
// signal (nil, nil); any other failure propagates.
func readRecipe(path string) (*models.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("catalog read %s: %w", path, err)
	}
	var rec models.Recipe
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("catalog decode %s: %w", path, err)
	}
	return &rec, nil
}

// readManifest loads a manifest file, treating a missing file as empty.
func readManifest(path string) (*manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &manifest{}, nil
		}
		return nil, fmt.Errorf("catalog read %s: %w", path, err)
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("catalog decode %s: %w", path, err)
	}
	return &m, nil
}

// writeJSON marshals v with indentation (records stay hand-inspectable)
// and writes it with owner read-write permissions.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("catalog encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("catalog write %s: %w", path, err)
	}
	return nil
}
