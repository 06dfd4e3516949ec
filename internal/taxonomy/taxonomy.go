// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package taxonomy maintains the category/subcategory tree recipes are
// filed under. Like the catalog, it has a file-backed and a PostgreSQL
// implementation behind one interface.
//
// Referential checks against recipes (a category in use cannot be deleted)
// live in the HTTP handlers, which hold both stores — existence checks here
// are race-prone under concurrent requests, a stated boundary condition at
// this scale rather than a defect.
package taxonomy

import (
	"context"
	"errors"

	"recettes/internal/models"
)

var (
	// ErrNotFound signals an unknown category id or subcategory name.
	ErrNotFound = errors.New("taxonomy: not found")

	// ErrDuplicate signals a name collision (exact match).
	ErrDuplicate = errors.New("taxonomy: name already exists")
)

// Store manages the two-level category tree.
type Store interface {
	// List returns all categories ordered by sortOrder ascending, ties by
	// name ascending, each with its subcategories ordered by name.
	List(ctx context.Context) ([]models.Category, error)

	// FindByID returns the category with the given id, or nil if absent.
	FindByID(ctx context.Context, id string) (*models.Category, error)

	// Create adds a category with the default (lowest-priority) sortOrder.
	// Returns ErrDuplicate when the name is already taken.
	Create(ctx context.Context, name string) (*models.Category, error)

	// Delete removes a category. Returns ErrNotFound for unknown ids.
	Delete(ctx context.Context, id string) error

	// AddSubcategory appends a subcategory. Returns ErrNotFound for an
	// unknown category and ErrDuplicate for an existing name.
	AddSubcategory(ctx context.Context, id, name string) error

	// RemoveSubcategory removes a subcategory by name. Returns ErrNotFound
	// when the category or the subcategory does not exist.
	RemoveSubcategory(ctx context.Context, id, name string) error
}
