package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"recettes/internal/auth"
	"recettes/internal/catalog"
	"recettes/internal/config"
	"recettes/internal/handlers"
	"recettes/internal/taxonomy"
)

func testRouter(t *testing.T) http.Handler {
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
	checker := auth.NewChecker([]config.Admin{{Username: "admin1", Password: "secret"}})

	return New(
		tokens,
		handlers.NewAuth(checker, tokens),
		handlers.NewRecipes(catalogStore, nil),
		handlers.NewCategories(taxonomyStore, catalogStore),
		handlers.NewUpload(nil),
	)
}

func TestHealthEndpoint(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != `{"status":"ok"}` {
		t.Errorf("body = %q", rec.Body.String())
	}
}

// TestRouteRegistration sweeps the API surface: public reads respond 200,
// admin writes respond 401 without a token, unknown paths 404.
func TestRouteRegistration(t *testing.T) {
	r := testRouter(t)

	tests := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{http.MethodGet, "/api/recipes", http.StatusOK},
		{http.MethodGet, "/api/recipes/search", http.StatusOK},
		{http.MethodGet, "/api/categories", http.StatusOK},
		{http.MethodGet, "/api/auth/status", http.StatusOK},

		{http.MethodPost, "/api/recipes", http.StatusUnauthorized},
		{http.MethodPut, "/api/recipes/id", http.StatusUnauthorized},
		{http.MethodDelete, "/api/recipes/id", http.StatusUnauthorized},
		{http.MethodPost, "/api/categories", http.StatusUnauthorized},
		{http.MethodDelete, "/api/categories/id", http.StatusUnauthorized},
		{http.MethodPost, "/api/categories/id/subcategories", http.StatusUnauthorized},
		{http.MethodDelete, "/api/categories/id/subcategories/name", http.StatusUnauthorized},
		{http.MethodPost, "/api/upload/image", http.StatusUnauthorized},

		{http.MethodGet, "/api/unknown", http.StatusNotFound},
		{http.MethodGet, "/", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

// TestSecurityHeaders verifies the global middleware stack is applied.
func TestSecurityHeaders(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got == "" {
		t.Error("X-Frame-Options header missing")
	}
}
