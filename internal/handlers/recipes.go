package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"recettes/internal/catalog"
	"recettes/internal/models"
	"recettes/internal/uploader"
)

// Recipes groups the recipe CRUD and search handlers.
type Recipes struct {
	catalog catalog.Store
	assets  uploader.Uploader // nil when no upload backend is configured
}

// NewRecipes creates a new Recipes handler group.
func NewRecipes(cat catalog.Store, assets uploader.Uploader) *Recipes {
	return &Recipes{catalog: cat, assets: assets}
}

// List returns all recipes, newest first. Public.
func (h *Recipes) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.catalog.ListAll(r.Context())
	if err != nil {
		slog.Error("recipe listing failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch recipes.")
		return
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	writeJSON(w, http.StatusOK, recipes)
}

// Search returns recipes whose title, description, or tags contain the
// query, case-insensitively. A blank query yields an empty result set,
// never an error. Loading everything to filter in memory is fine at this
// catalog's scale; revisit with a real index if it ever isn't.
func (h *Recipes) Search(w http.ResponseWriter, r *http.Request) {
	term := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	if term == "" {
		writeJSON(w, http.StatusOK, []models.Recipe{})
		return
	}

	recipes, err := h.catalog.ListAll(r.Context())
	if err != nil {
		slog.Error("recipe search failed", "error", err, "query", term)
		writeMessage(w, http.StatusInternalServerError, "Failed to search recipes.")
		return
	}

	matched := []models.Recipe{}
	for _, rec := range recipes {
		if rec.Matches(term) {
			matched = append(matched, rec)
		}
	}
	writeJSON(w, http.StatusOK, matched)
}

// Create adds a new recipe. Requires title and category. Auth required.
func (h *Recipes) Create(w http.ResponseWriter, r *http.Request) {
	var rec models.Recipe
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid recipe data.")
		return
	}
	if strings.TrimSpace(rec.Title) == "" || strings.TrimSpace(rec.Category) == "" {
		writeMessage(w, http.StatusBadRequest, "Invalid recipe data (title and category are required).")
		return
	}

	// An image URL outside the managed upload area is kept as-is, but worth
	// a trace: delete won't cascade to it.
	if rec.ImageURL != "" && h.assets != nil && !h.assets.Owns(rec.ImageURL) {
		slog.Warn("recipe image URL is outside the managed upload area", "imageUrl", rec.ImageURL)
	}

	created, err := h.catalog.Create(r.Context(), &rec)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidSegment) {
			writeMessage(w, http.StatusBadRequest, "Invalid category or subcategory name.")
			return
		}
		slog.Error("recipe create failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to create the recipe.")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Update merges the supplied fields over the stored recipe; fields the body
// omits keep their stored values. Requires category; changing the recipe's
// category or subcategory is rejected — delete and recreate to move a
// recipe. Auth required.
func (h *Recipes) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var rec models.Recipe
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid or missing recipe data.")
		return
	}
	if strings.TrimSpace(rec.Category) == "" {
		writeMessage(w, http.StatusBadRequest, "Invalid or missing recipe data.")
		return
	}

	updated, err := h.catalog.Update(r.Context(), id, &rec)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrLocationChanged):
			writeMessage(w, http.StatusBadRequest, "Changing a recipe's category is not supported; delete and recreate it instead.")
		case errors.Is(err, catalog.ErrInvalidSegment):
			writeMessage(w, http.StatusBadRequest, "Invalid category or subcategory name.")
		default:
			slog.Error("recipe update failed", "error", err, "id", id)
			writeMessage(w, http.StatusInternalServerError, "Failed to update the recipe.")
		}
		return
	}
	if updated == nil {
		writeMessage(w, http.StatusNotFound, "Recipe not found (ID: "+id+")")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a recipe and, best-effort, its managed image asset.
// Auth required.
func (h *Recipes) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.catalog.Delete(r.Context(), id)
	if err != nil {
		slog.Error("recipe delete failed", "error", err, "id", id)
		writeMessage(w, http.StatusInternalServerError, "Failed to delete the recipe.")
		return
	}
	if deleted == nil {
		writeMessage(w, http.StatusNotFound, "Recipe not found (ID: "+id+")")
		return
	}

	// The record is gone; a failed asset cleanup is logged, not surfaced.
	if deleted.ImageURL != "" && h.assets != nil && h.assets.Owns(deleted.ImageURL) {
		if err := h.assets.Delete(r.Context(), deleted.ImageURL); err != nil {
			slog.Error("image asset delete failed (non-fatal)",
				"error", err, "id", id, "imageUrl", deleted.ImageURL)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
