// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handlers_test.go provides shared test infrastructure for the HTTP API
// tests. The environment runs entirely on the file-backed stores in a
// temporary directory and the in-memory token store, so the full request
// surface is exercised without external services.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"recettes/internal/auth"
	"recettes/internal/catalog"
	"recettes/internal/config"
	"recettes/internal/middleware"
	"recettes/internal/taxonomy"
	"recettes/internal/uploader"
)

// fakeUploader implements uploader.Uploader for upload handler tests.
type fakeUploader struct {
	uploaded []string
	deleted  []string
	err      error
}

func (f *fakeUploader) Upload(_ context.Context, filename, _ string, _ []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	url := "https://assets.test/recipes/" + filename
	f.uploaded = append(f.uploaded, url)
	return url, nil
}

func (f *fakeUploader) Delete(_ context.Context, rawURL string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, rawURL)
	return nil
}

func (f *fakeUploader) Owns(rawURL string) bool {
	return strings.HasPrefix(rawURL, "https://assets.test/")
}

// testEnv holds the wired application under test.
type testEnv struct {
	router chi.Router
	tokens auth.TokenStore
	assets *fakeUploader
}

// newTestEnv builds the full API on file stores in a temp directory.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	catalogStore, err := catalog.NewFileStore(dir)
	if err != nil {
		t.Fatalf("catalog store: %v", err)
	}
	taxonomyStore, err := taxonomy.NewFileStore(dir)
	if err != nil {
		t.Fatalf("taxonomy store: %v", err)
	}

	tokens := auth.NewMemoryStore(0)
	checker := auth.NewChecker([]config.Admin{
		{Username: "admin1", Password: "first-secret"},
		{Username: "admin2", Password: "second-secret"},
	})
	assets := &fakeUploader{}

	env := &testEnv{tokens: tokens, assets: assets}
	env.router = buildRouter(tokens, checker, catalogStore, taxonomyStore, assets)
	return env
}

// buildRouter mirrors the production route layout.
func buildRouter(tokens auth.TokenStore, checker *auth.Checker, cat catalog.Store, tax taxonomy.Store, assets uploader.Uploader) chi.Router {
	authH := NewAuth(checker, tokens)
	recipes := NewRecipes(cat, assets)
	categories := NewCategories(tax, cat)
	upload := NewUpload(assets)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authH.Login)
		r.Post("/auth/logout", authH.Logout)
		r.Get("/auth/status", authH.Status)

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", recipes.List)
			r.Get("/search", recipes.Search)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(tokens))
				r.Post("/", recipes.Create)
				r.Put("/{id}", recipes.Update)
				r.Delete("/{id}", recipes.Delete)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categories.List)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(tokens))
				r.Post("/", categories.Create)
				r.Delete("/{id}", categories.Delete)
				r.Post("/{id}/subcategories", categories.AddSubcategory)
				r.Delete("/{id}/subcategories/{name}", categories.RemoveSubcategory)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(tokens))
			r.Post("/upload/image", upload.Image)
		})
	})
	return r
}

// login authenticates as admin1 and returns the session token.
func (e *testEnv) login(t *testing.T) string {
	t.Helper()

	rec := e.doJSON(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": "admin1", "password": "first-secret"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body)
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if body.Token == "" {
		t.Fatal("login returned no token")
	}
	return body.Token
}

// doJSON performs a request with an optional admin token and JSON body.
func (e *testEnv) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(auth.HeaderName, token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals a recorder's JSON body into v.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %s: %v", rec.Body, err)
	}
}
