// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"strings"
	"testing"
)

// TestRecipeUnmarshal_ExtraFields verifies that unknown JSON keys survive
// decoding instead of being dropped.
func TestRecipeUnmarshal_ExtraFields(t *testing.T) {
	input := `{
		"id": "choco-cake-abc12345",
		"title": "Choco Cake",
		"category": "Desserts",
		"subcategory": "Cakes",
		"tags": ["chocolate", "baking"],
		"servings": 8,
		"difficulty": "easy",
		"nutrition": {"calories": 450}
	}`

	var rec Recipe
	if err := json.Unmarshal([]byte(input), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if rec.Title != "Choco Cake" || rec.Category != "Desserts" {
		t.Errorf("declared fields not decoded: %+v", rec)
	}
	if len(rec.Tags) != 2 {
		t.Errorf("tags = %v, want 2 entries", rec.Tags)
	}
	if len(rec.Extra) != 3 {
		t.Fatalf("extra = %v, want servings, difficulty, nutrition", rec.Extra)
	}
	if string(rec.Extra["servings"]) != "8" {
		t.Errorf("extra servings = %s, want 8", rec.Extra["servings"])
	}
	if _, ok := rec.Extra["title"]; ok {
		t.Error("declared field leaked into Extra")
	}
}

// TestRecipeMarshal_MergesExtra verifies that Extra fields reappear at the
// top level of the encoded object.
func TestRecipeMarshal_MergesExtra(t *testing.T) {
	rec := Recipe{
		ID:       "soup-1",
		Title:    "Tomato Soup",
		Category: "Starters",
		Extra: map[string]json.RawMessage{
			"servings": json.RawMessage("4"),
		},
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if string(out["servings"]) != "4" {
		t.Errorf("servings = %s, want 4 at top level", out["servings"])
	}
	if string(out["title"]) != `"Tomato Soup"` {
		t.Errorf("title = %s", out["title"])
	}
	if strings.Contains(string(data), `"Extra"`) {
		t.Errorf("Extra field leaked into output: %s", data)
	}
}

// TestRecipeMarshal_DeclaredFieldWins verifies that an Extra key colliding
// with a declared field does not overwrite it.
func TestRecipeMarshal_DeclaredFieldWins(t *testing.T) {
	rec := Recipe{
		ID:       "r1",
		Title:    "Real Title",
		Category: "Mains",
		Extra: map[string]json.RawMessage{
			"title": json.RawMessage(`"Spoofed"`),
		},
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if string(out["title"]) != `"Real Title"` {
		t.Errorf("title = %s, want declared value", out["title"])
	}
}

// TestRecipeRoundTrip verifies that a record with open fields decodes back
// to the same document.
func TestRecipeRoundTrip(t *testing.T) {
	input := `{"id":"r1","title":"Bread","category":"Bakery","origin":"rustic"}`

	var rec Recipe
	if err := json.Unmarshal([]byte(input), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if string(out["origin"]) != `"rustic"` {
		t.Errorf("origin = %s, want to survive the round trip", out["origin"])
	}
}

// TestMergeRecipe_KeepsOmittedFields verifies that laying a decoded partial
// body over a stored record changes only the keys the body carried.
func TestMergeRecipe_KeepsOmittedFields(t *testing.T) {
	existing := Recipe{
		ID:          "choco-cake-abc12345",
		Title:       "Choco Cake",
		Category:    "Desserts",
		Subcategory: "Cakes",
		Description: "Rich and moist",
		Tags:        []string{"chocolate"},
		Ingredients: []string{"flour", "cocoa"},
		ImageURL:    "https://cdn.example.com/cake.jpg",
		Extra: map[string]json.RawMessage{
			"servings": json.RawMessage("8"),
		},
	}

	var patch Recipe
	if err := json.Unmarshal(
		[]byte(`{"title":"Double Choco Cake","category":"Desserts","difficulty":"easy"}`), &patch,
	); err != nil {
		t.Fatalf("unmarshal patch: %v", err)
	}

	merged := MergeRecipe(&existing, &patch)
	if merged.Title != "Double Choco Cake" {
		t.Errorf("title = %q, want the patched value", merged.Title)
	}
	if merged.Description != "Rich and moist" || merged.ImageURL != "https://cdn.example.com/cake.jpg" {
		t.Errorf("omitted fields lost: %+v", merged)
	}
	if len(merged.Tags) != 1 || len(merged.Ingredients) != 2 {
		t.Errorf("omitted slices lost: tags=%v ingredients=%v", merged.Tags, merged.Ingredients)
	}
	if merged.Subcategory != "Cakes" {
		t.Errorf("subcategory = %q, want kept", merged.Subcategory)
	}
	if string(merged.Extra["servings"]) != "8" || string(merged.Extra["difficulty"]) != `"easy"` {
		t.Errorf("extra = %v, want servings kept and difficulty added", merged.Extra)
	}
	if _, ok := existing.Extra["difficulty"]; ok {
		t.Error("merge mutated the stored record's Extra map")
	}
}

// TestMergeRecipe_SuppliedZeroValuesWin verifies that an explicitly supplied
// empty value clears the stored one instead of being mistaken for absence.
func TestMergeRecipe_SuppliedZeroValuesWin(t *testing.T) {
	existing := Recipe{
		Title:       "Bread",
		Category:    "Bakery",
		Description: "Crusty",
		Tags:        []string{"baking"},
	}

	var patch Recipe
	if err := json.Unmarshal(
		[]byte(`{"title":"Bread","category":"Bakery","description":"","tags":[]}`), &patch,
	); err != nil {
		t.Fatalf("unmarshal patch: %v", err)
	}

	merged := MergeRecipe(&existing, &patch)
	if merged.Description != "" {
		t.Errorf("description = %q, want cleared", merged.Description)
	}
	if len(merged.Tags) != 0 {
		t.Errorf("tags = %v, want cleared", merged.Tags)
	}
}

// TestMergeRecipe_CodeBuiltUpdateReplaces verifies that a record assembled in
// code (never decoded from a body) replaces the stored one wholesale.
func TestMergeRecipe_CodeBuiltUpdateReplaces(t *testing.T) {
	existing := Recipe{Title: "Old", Category: "Mains", Description: "keep me?"}
	update := Recipe{Title: "New", Category: "Mains"}

	merged := MergeRecipe(&existing, &update)
	if merged.Title != "New" || merged.Description != "" {
		t.Errorf("merged = %+v, want a full replacement", merged)
	}
}

// TestRecipeMatches exercises the search predicate over title, description,
// and tags.
func TestRecipeMatches(t *testing.T) {
	rec := Recipe{
		Title:       "Tomato Soup",
		Description: "A warming classic for cold evenings",
		Tags:        []string{"vegetarian", "Quick"},
	}

	tests := []struct {
		term string
		want bool
	}{
		{"tomato", true},
		{"soup", true},
		{"warming", true},
		{"vegetarian", true},
		{"quick", true}, // tag casing is normalized
		{"beef", false},
		{"", true}, // blank term matches everything; handlers filter it out first
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			if got := rec.Matches(tt.term); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.term, got, tt.want)
			}
		})
	}
}
