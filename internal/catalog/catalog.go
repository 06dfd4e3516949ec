// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog stores recipe records. Two interchangeable backends exist:
// a file tree of per-recipe JSON files indexed by manifest files, and a
// PostgreSQL table. The request-handling layer only sees the Store interface.
package catalog

import (
	"context"
	"errors"

	"recettes/internal/models"
)

// ErrLocationChanged is returned by Update when the supplied category or
// subcategory differs from the stored record's location. Moving a recipe
// between categories through update is unsupported: delete and recreate.
var ErrLocationChanged = errors.New("catalog: category/subcategory cannot change through update")

// Store is the recipe catalog. Reads return (nil, nil) for unknown ids;
// errors are reserved for storage failures.
type Store interface {
	// ListAll returns every recipe, newest first.
	ListAll(ctx context.Context) ([]models.Recipe, error)

	// Get returns the recipe with the given id, or nil if absent.
	Get(ctx context.Context, id string) (*models.Recipe, error)

	// Create persists a new recipe, always assigning a fresh id (any
	// client-supplied id is ignored) and stamping createdAt/updatedAt.
	// Returns the stored record.
	Create(ctx context.Context, rec *models.Recipe) (*models.Recipe, error)

	// Update merges the supplied fields over the stored record: keys the
	// decoded body omitted keep their stored values, while a record built
	// in code replaces wholesale. The id and createdAt are immutable;
	// updatedAt is refreshed. Returns (nil, nil) for unknown ids and
	// ErrLocationChanged when the resulting category/subcategory differ.
	Update(ctx context.Context, id string, rec *models.Recipe) (*models.Recipe, error)

	// Delete removes the record and returns it (for asset cascade by the
	// caller), or (nil, nil) when the id is unknown.
	Delete(ctx context.Context, id string) (*models.Recipe, error)

	// AnyInCategory reports whether at least one recipe references the
	// category (and, when non-empty, the subcategory). Used for the
	// referential checks guarding taxonomy deletions.
	AnyInCategory(ctx context.Context, category, subcategory string) (bool, error)
}
