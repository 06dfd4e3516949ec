// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "sort"

// DefaultSortOrder places new categories at the bottom of the listing until
// an operator promotes them manually.
const DefaultSortOrder = 999

// Subcategory is a named entry nested under a category. Kept as a struct
// rather than a bare string to leave room for per-subcategory metadata.
type Subcategory struct {
	Name string `json:"name"`
}

// Category groups recipes. Subcategories form the second (and last) level of
// the taxonomy tree.
type Category struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Subcategories []Subcategory `json:"subcategories"`
	SortOrder     int           `json:"sortOrder"`
}

// HasSubcategory reports whether the category contains a subcategory with
// the exact given name.
func (c *Category) HasSubcategory(name string) bool {
	for _, s := range c.Subcategories {
		if s.Name == name {
			return true
		}
	}
	return false
}

// SortSubcategories orders the subcategory list by name ascending.
func (c *Category) SortSubcategories() {
	sort.Slice(c.Subcategories, func(i, j int) bool {
		return c.Subcategories[i].Name < c.Subcategories[j].Name
	})
}

// SortCategories orders categories by sortOrder ascending, ties broken by
// name ascending.
func SortCategories(cats []Category) {
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].SortOrder != cats[j].SortOrder {
			return cats[i].SortOrder < cats[j].SortOrder
		}
		return cats[i].Name < cats[j].Name
	})
}
