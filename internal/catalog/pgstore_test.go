// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Integration tests for the PostgreSQL catalog backend. Tests are skipped
// when PostgreSQL is unavailable.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"recettes/internal/database"
	"recettes/internal/models"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "recettes")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "recettes")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() {
		db.Exec(`DELETE FROM recipes`)
		db.Close()
	})
	return db
}

func TestPGStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := NewPGStore(testDB(t))

	created, err := s.Create(ctx, &models.Recipe{
		Title:       "Choco Cake",
		Category:    "Desserts",
		Subcategory: "Cakes",
		Tags:        []string{"chocolate"},
		Ingredients: []string{"flour", "cocoa"},
		Extra: map[string]json.RawMessage{
			"servings": json.RawMessage("8"),
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("create assigned no id")
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("get returned nil for a created record")
	}
	if got.Title != "Choco Cake" || len(got.Tags) != 1 {
		t.Errorf("got = %+v", got)
	}
	if string(got.Extra["servings"]) != "8" {
		t.Errorf("extra servings = %s, want 8", got.Extra["servings"])
	}

	updated, err := s.Update(ctx, created.ID, &models.Recipe{
		Title: "Dark Choco Cake", Category: "Desserts", Subcategory: "Cakes",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Dark Choco Cake" {
		t.Errorf("title = %q", updated.Title)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("createdAt changed on update")
	}

	if _, err := s.Update(ctx, created.ID, &models.Recipe{
		Title: "Moved", Category: "Mains",
	}); !errors.Is(err, ErrLocationChanged) {
		t.Errorf("location change = %v, want ErrLocationChanged", err)
	}

	inUse, err := s.AnyInCategory(ctx, "Desserts", "Cakes")
	if err != nil {
		t.Fatalf("AnyInCategory: %v", err)
	}
	if !inUse {
		t.Error("AnyInCategory = false for a populated pair")
	}

	deleted, err := s.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted == nil || deleted.Title != "Dark Choco Cake" {
		t.Errorf("deleted = %+v", deleted)
	}
	if got, _ := s.Get(ctx, created.ID); got != nil {
		t.Error("record still retrievable after delete")
	}
}

// TestPGStore_UpdatePartialBody mirrors the file backend's merge contract:
// keys the decoded body omits keep their stored values.
func TestPGStore_UpdatePartialBody(t *testing.T) {
	ctx := context.Background()
	s := NewPGStore(testDB(t))

	var full models.Recipe
	if err := json.Unmarshal([]byte(`{
		"title": "Tomato Soup",
		"category": "Starters",
		"description": "A warming classic",
		"tags": ["vegetarian"],
		"servings": 4
	}`), &full); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	created, err := s.Create(ctx, &full)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var patch models.Recipe
	if err := json.Unmarshal(
		[]byte(`{"title":"Roasted Tomato Soup","category":"Starters"}`), &patch,
	); err != nil {
		t.Fatalf("unmarshal patch: %v", err)
	}
	if _, err := s.Update(ctx, created.ID, &patch); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Roasted Tomato Soup" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Description != "A warming classic" || len(got.Tags) != 1 {
		t.Errorf("omitted fields lost: %+v", got)
	}
	if string(got.Extra["servings"]) != "4" {
		t.Errorf("extra servings = %s, want kept", got.Extra["servings"])
	}
}

func TestPGStore_ListAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	s := NewPGStore(db)

	for _, title := range []string{"Oldest", "Newest"} {
		if _, err := s.Create(ctx, &models.Recipe{Title: title, Category: "Mains"}); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}

	all, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) < 2 {
		t.Fatalf("list returned %d records, want at least 2", len(all))
	}
	if !all[0].CreatedAt.After(all[len(all)-1].CreatedAt) &&
		!all[0].CreatedAt.Equal(all[len(all)-1].CreatedAt) {
		t.Error("listing is not newest first")
	}
}
