// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"recettes/internal/catalog"
	"recettes/internal/models"
)

// categoriesFile is the single JSON document holding the whole taxonomy in
// the file-backed variant. The tree is small (tens of entries), so
// read-modify-write of one file keeps it trivially consistent with itself.
const categoriesFile = "categories.json"

// FileStore persists the category tree as one JSON file in the data
// directory, next to the catalog's category folders.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed taxonomy store under dir, creating the
// directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("taxonomy mkdir %s: %w", dir, err)
	}
	return &FileStore{path: filepath.Join(dir, categoriesFile)}, nil
}

// List returns all categories in display order.
func (s *FileStore) List(_ context.Context) ([]models.Category, error) {
	cats, err := s.load()
	if err != nil {
		return nil, err
	}
	models.SortCategories(cats)
	for i := range cats {
		cats[i].SortSubcategories()
	}
	return cats, nil
}

// FindByID returns the category with the given id, or nil if absent.
func (s *FileStore) FindByID(_ context.Context, id string) (*models.Category, error) {
	cats, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range cats {
		if cats[i].ID == id {
			return &cats[i], nil
		}
	}
	return nil, nil
}

// Create adds a category with the default sortOrder. The name must be
// usable verbatim as a directory name, so the catalog path rules apply here
// too.
func (s *FileStore) Create(_ context.Context, name string) (*models.Category, error) {
	if err := catalog.ValidateSegment(name); err != nil {
		return nil, fmt.Errorf("taxonomy: %w", err)
	}

	cats, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, c := range cats {
		if c.Name == name {
			return nil, ErrDuplicate
		}
	}

	created := models.Category{
		ID:            uuid.NewString(),
		Name:          name,
		Subcategories: []models.Subcategory{},
		SortOrder:     models.DefaultSortOrder,
	}
	cats = append(cats, created)
	if err := s.save(cats); err != nil {
		return nil, err
	}
	return &created, nil
}

// Delete removes a category by id.
func (s *FileStore) Delete(_ context.Context, id string) error {
	cats, err := s.load()
	if err != nil {
		return err
	}
	kept := cats[:0]
	found := false
	for _, c := range cats {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return ErrNotFound
	}
	return s.save(kept)
}

// AddSubcategory appends a subcategory to the category's set.
func (s *FileStore) AddSubcategory(_ context.Context, id, name string) error {
	if err := catalog.ValidateSegment(name); err != nil {
		return fmt.Errorf("taxonomy: %w", err)
	}

	cats, err := s.load()
	if err != nil {
		return err
	}
	for i := range cats {
		if cats[i].ID != id {
			continue
		}
		if cats[i].HasSubcategory(name) {
			return ErrDuplicate
		}
		cats[i].Subcategories = append(cats[i].Subcategories, models.Subcategory{Name: name})
		return s.save(cats)
	}
	return ErrNotFound
}

// RemoveSubcategory removes a subcategory by name.
func (s *FileStore) RemoveSubcategory(_ context.Context, id, name string) error {
	cats, err := s.load()
	if err != nil {
		return err
	}
	for i := range cats {
		if cats[i].ID != id {
			continue
		}
		if !cats[i].HasSubcategory(name) {
			return ErrNotFound
		}
		kept := cats[i].Subcategories[:0]
		for _, sub := range cats[i].Subcategories {
			if sub.Name != name {
				kept = append(kept, sub)
			}
		}
		cats[i].Subcategories = kept
		return s.save(cats)
	}
	return ErrNotFound
}

// load reads the taxonomy document, treating a missing file as empty.
func (s *FileStore) load() ([]models.Category, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("taxonomy read %s: %w", s.path, err)
	}
	var cats []models.Category
	if err := json.Unmarshal(data, &cats); err != nil {
		return nil, fmt.Errorf("taxonomy decode %s: %w", s.path, err)
	}
	return cats, nil
}

func (s *FileStore) save(cats []models.Category) error {
	if cats == nil {
		cats = []models.Category{}
	}
	data, err := json.MarshalIndent(cats, "", "  ")
	if err != nil {
		return fmt.Errorf("taxonomy encode: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("taxonomy write %s: %w", s.path, err)
	}
	return nil
}
