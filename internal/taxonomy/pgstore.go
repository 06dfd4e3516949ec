// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"recettes/internal/catalog"
	"recettes/internal/models"
)

// PGStore is the PostgreSQL taxonomy backend. Subcategories are embedded as
// a jsonb array, mirroring the document shape the original revisions used —
// the set is tiny and always read and written with its parent.
type PGStore struct {
	db *sql.DB
}

// NewPGStore returns a PostgreSQL-backed taxonomy store.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

// scanCategory scans a row into a Category, decoding the subcategory jsonb.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var (
		c    models.Category
		subs []byte
	)
	if err := scanner.Scan(&c.ID, &c.Name, &subs, &c.SortOrder); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(subs, &c.Subcategories); err != nil {
		return nil, fmt.Errorf("decode subcategories: %w", err)
	}
	return &c, nil
}

// List returns all categories ordered by sort_order then name, with each
// subcategory list ordered by name.
func (s *PGStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, subcategories, sort_order
		FROM categories
		ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.SortSubcategories()
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by id. Returns nil if not found.
func (s *PGStore) FindByID(ctx context.Context, id string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, subcategories, sort_order FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category with the default sortOrder.
func (s *PGStore) Create(ctx context.Context, name string) (*models.Category, error) {
	if err := catalog.ValidateSegment(name); err != nil {
		return nil, fmt.Errorf("taxonomy: %w", err)
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1)`, name).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check category name: %w", err)
	}
	if exists {
		return nil, ErrDuplicate
	}

	created := models.Category{
		ID:            uuid.NewString(),
		Name:          name,
		Subcategories: []models.Subcategory{},
		SortOrder:     models.DefaultSortOrder,
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, subcategories, sort_order)
		VALUES ($1, $2, '[]', $3)`,
		created.ID, created.Name, created.SortOrder,
	); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &created, nil
}

// Delete removes a category by id.
func (s *PGStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddSubcategory appends a subcategory to the category's jsonb set.
func (s *PGStore) AddSubcategory(ctx context.Context, id, name string) error {
	if err := catalog.ValidateSegment(name); err != nil {
		return fmt.Errorf("taxonomy: %w", err)
	}

	c, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrNotFound
	}
	if c.HasSubcategory(name) {
		return ErrDuplicate
	}

	c.Subcategories = append(c.Subcategories, models.Subcategory{Name: name})
	return s.saveSubcategories(ctx, id, c.Subcategories)
}

// RemoveSubcategory removes a subcategory by name.
func (s *PGStore) RemoveSubcategory(ctx context.Context, id, name string) error {
	c, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil || !c.HasSubcategory(name) {
		return ErrNotFound
	}

	kept := c.Subcategories[:0]
	for _, sub := range c.Subcategories {
		if sub.Name != name {
			kept = append(kept, sub)
		}
	}
	return s.saveSubcategories(ctx, id, kept)
}

func (s *PGStore) saveSubcategories(ctx context.Context, id string, subs []models.Subcategory) error {
	if subs == nil {
		subs = []models.Subcategory{}
	}
	encoded, err := json.Marshal(subs)
	if err != nil {
		return fmt.Errorf("encode subcategories: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `
		UPDATE categories SET subcategories = $1, updated_at = NOW() WHERE id = $2`,
		encoded, id,
	); err != nil {
		return fmt.Errorf("update subcategories: %w", err)
	}
	return nil
}
