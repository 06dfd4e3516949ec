// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"recettes/internal/models"
	"recettes/internal/slug"
)

// PGStore is the PostgreSQL catalog backend, the successor of the managed
// document-database revision. Records keep the same shape as the file
// backend; open extension fields land in a jsonb column.
type PGStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewPGStore returns a PostgreSQL-backed catalog store.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db, now: time.Now}
}

const recipeColumns = `id, title, category, subcategory, description, tags, ingredients, image_url, extra, created_at, updated_at`

// scanRecipe scans a row into a Recipe, decoding the jsonb columns.
func scanRecipe(scanner interface{ Scan(...any) error }) (*models.Recipe, error) {
	var (
		rec         models.Recipe
		tags        []byte
		ingredients []byte
		extra       []byte
	)
	err := scanner.Scan(
		&rec.ID, &rec.Title, &rec.Category, &rec.Subcategory, &rec.Description,
		&tags, &ingredients, &rec.ImageURL, &extra, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tags, &rec.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if err := json.Unmarshal(ingredients, &rec.Ingredients); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	if len(extra) > 0 {
		if err := json.Unmarshal(extra, &rec.Extra); err != nil {
			return nil, fmt.Errorf("decode extra: %w", err)
		}
	}
	return &rec, nil
}

// encodeJSONB marshals the slice/map columns, mapping nil to their empty
// jsonb representation.
func encodeRecipe(rec *models.Recipe) (tags, ingredients, extra []byte, err error) {
	if tags, err = json.Marshal(emptySlice(rec.Tags)); err != nil {
		return nil, nil, nil, fmt.Errorf("encode tags: %w", err)
	}
	if ingredients, err = json.Marshal(emptySlice(rec.Ingredients)); err != nil {
		return nil, nil, nil, fmt.Errorf("encode ingredients: %w", err)
	}
	if rec.Extra != nil {
		if extra, err = json.Marshal(rec.Extra); err != nil {
			return nil, nil, nil, fmt.Errorf("encode extra: %w", err)
		}
	}
	return tags, ingredients, extra, nil
}

func emptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ListAll returns every recipe, newest first.
func (s *PGStore) ListAll(ctx context.Context) ([]models.Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var items []models.Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		items = append(items, *rec)
	}
	return items, rows.Err()
}

// Get retrieves a recipe by id. Returns nil if not found.
func (s *PGStore) Get(ctx context.Context, id string) (*models.Recipe, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = $1`, id)
	rec, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find recipe by id: %w", err)
	}
	return rec, nil
}

// Create inserts a new recipe. Ids are always assigned server-side, same as
// the file backend.
func (s *PGStore) Create(ctx context.Context, rec *models.Recipe) (*models.Recipe, error) {
	stored := *rec
	stored.ID = slug.WithSuffix(stored.Title)
	now := s.now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	tags, ingredients, extra, err := encodeRecipe(&stored)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recipes (id, title, category, subcategory, description,
			tags, ingredients, image_url, extra, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		stored.ID, stored.Title, stored.Category, stored.Subcategory,
		stored.Description, tags, ingredients, stored.ImageURL, extra,
		stored.CreatedAt, stored.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	return &stored, nil
}

// Update merges the supplied fields over the stored row: a key the client
// never sent keeps its stored value. The id, createdAt, and location are
// immutable; a differing category/subcategory yields ErrLocationChanged.
func (s *PGStore) Update(ctx context.Context, id string, rec *models.Recipe) (*models.Recipe, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	merged := models.MergeRecipe(existing, rec)
	if merged.Category != existing.Category || merged.Subcategory != existing.Subcategory {
		return nil, ErrLocationChanged
	}

	updated := *merged
	updated.ID = id
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now().UTC()

	tags, ingredients, extra, err := encodeRecipe(&updated)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE recipes SET
			title = $1, description = $2, tags = $3, ingredients = $4,
			image_url = $5, extra = $6, updated_at = $7
		WHERE id = $8`,
		updated.Title, updated.Description, tags, ingredients,
		updated.ImageURL, extra, updated.UpdatedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	return &updated, nil
}

// Delete removes the record and returns it, or nil when the id is unknown.
func (s *PGStore) Delete(ctx context.Context, id string) (*models.Recipe, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("delete recipe: %w", err)
	}
	return existing, nil
}

// AnyInCategory reports whether at least one recipe references the category
// (and subcategory when given).
func (s *PGStore) AnyInCategory(ctx context.Context, category, subcategory string) (bool, error) {
	var exists bool
	var err error
	if subcategory == "" {
		err = s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM recipes WHERE category = $1)`, category).Scan(&exists)
	} else {
		err = s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM recipes WHERE category = $1 AND subcategory = $2)`,
			category, subcategory).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("check category usage: %w", err)
	}
	return exists, nil
}
