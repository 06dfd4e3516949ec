// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the recipe and category data structures shared by
// the storage backends and the HTTP layer.
package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Recipe is one catalog record. Beyond the declared fields the record is an
// open document: unknown JSON keys sent by clients survive the round trip
// through Extra instead of being dropped.
type Recipe struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory,omitempty"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Ingredients []string  `json:"ingredients,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Extra holds client-supplied fields outside the declared schema. It is
	// merged back into the top-level object on marshal.
	Extra map[string]json.RawMessage `json:"-"`

	// supplied records which declared keys the decoded body carried, so an
	// update can tell an omitted field from an explicit zero value.
	supplied map[string]bool
}

// knownRecipeFields are the JSON keys claimed by the declared struct fields.
// Everything else lands in Extra.
var knownRecipeFields = map[string]bool{
	"id":          true,
	"title":       true,
	"category":    true,
	"subcategory": true,
	"description": true,
	"tags":        true,
	"ingredients": true,
	"imageUrl":    true,
	"createdAt":   true,
	"updatedAt":   true,
}

// recipeAlias breaks the MarshalJSON/UnmarshalJSON recursion.
type recipeAlias Recipe

// UnmarshalJSON decodes the declared fields and collects every unknown key
// into Extra.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	var alias recipeAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	supplied := make(map[string]bool, len(raw))
	for key := range raw {
		if knownRecipeFields[key] {
			supplied[key] = true
			delete(raw, key)
		}
	}
	if len(raw) > 0 {
		alias.Extra = raw
	}

	*r = Recipe(alias)
	r.supplied = supplied
	return nil
}

// Supplied reports whether the named declared key was present in the JSON
// body this record was decoded from. Always false for records built in code.
func (r *Recipe) Supplied(key string) bool {
	return r.supplied[key]
}

// MergeRecipe lays update over existing: only the keys the update body
// actually carried replace the stored values, everything else is kept, and
// unknown keys merge into Extra. An update built in code (never decoded from
// JSON) replaces the record wholesale. Identity and timestamps are the
// store's business and are not touched here.
func MergeRecipe(existing, update *Recipe) *Recipe {
	if update.supplied == nil {
		merged := *update
		return &merged
	}

	merged := *existing
	if update.Supplied("title") {
		merged.Title = update.Title
	}
	if update.Supplied("category") {
		merged.Category = update.Category
	}
	if update.Supplied("subcategory") {
		merged.Subcategory = update.Subcategory
	}
	if update.Supplied("description") {
		merged.Description = update.Description
	}
	if update.Supplied("tags") {
		merged.Tags = update.Tags
	}
	if update.Supplied("ingredients") {
		merged.Ingredients = update.Ingredients
	}
	if update.Supplied("imageUrl") {
		merged.ImageURL = update.ImageURL
	}
	if len(update.Extra) > 0 {
		combined := make(map[string]json.RawMessage, len(merged.Extra)+len(update.Extra))
		for key, value := range merged.Extra {
			combined[key] = value
		}
		for key, value := range update.Extra {
			combined[key] = value
		}
		merged.Extra = combined
	}
	return &merged
}

// MarshalJSON encodes the declared fields and merges Extra back into the
// top-level object. Declared fields win on key collision.
func (r Recipe) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(recipeAlias(r))
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return base, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for key, value := range r.Extra {
		if _, taken := merged[key]; !taken {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}

// Matches reports whether the recipe's title, description, or any tag
// contains term. The term must already be lowercased.
func (r *Recipe) Matches(term string) bool {
	if strings.Contains(strings.ToLower(r.Title), term) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Description), term) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}
