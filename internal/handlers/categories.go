package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"recettes/internal/catalog"
	"recettes/internal/models"
	"recettes/internal/taxonomy"
)

// Categories groups the taxonomy HTTP handlers. The referential checks
// against recipes happen here, where both stores are in reach; they are
// check-then-act without locking, an accepted boundary condition at this
// request volume.
type Categories struct {
	taxonomy taxonomy.Store
	catalog  catalog.Store
}

// NewCategories creates a new Categories handler group.
func NewCategories(tax taxonomy.Store, cat catalog.Store) *Categories {
	return &Categories{taxonomy: tax, catalog: cat}
}

// List returns all categories, sorted for display. Public.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.taxonomy.List(r.Context())
	if err != nil {
		slog.Error("category listing failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch categories.")
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	writeJSON(w, http.StatusOK, cats)
}

type nameRequest struct {
	Name string `json:"name"`
}

// Create adds a category. Auth required.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "A category name is required.")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeMessage(w, http.StatusBadRequest, "A category name is required.")
		return
	}

	created, err := h.taxonomy.Create(r.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, taxonomy.ErrDuplicate):
			writeMessage(w, http.StatusConflict, "Category '"+name+"' already exists.")
		case errors.Is(err, catalog.ErrInvalidSegment):
			writeMessage(w, http.StatusBadRequest, "Invalid category name.")
		default:
			slog.Error("category create failed", "error", err, "name", name)
			writeMessage(w, http.StatusInternalServerError, "Failed to create the category.")
		}
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Delete removes a category, unless any recipe still references it by name.
// Auth required.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	cat, err := h.taxonomy.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("category lookup failed", "error", err, "id", id)
		writeMessage(w, http.StatusInternalServerError, "Failed to delete the category.")
		return
	}
	if cat == nil {
		writeMessage(w, http.StatusNotFound, "Category not found (ID: "+id+")")
		return
	}

	inUse, err := h.catalog.AnyInCategory(r.Context(), cat.Name, "")
	if err != nil {
		slog.Error("category usage check failed", "error", err, "name", cat.Name)
		writeMessage(w, http.StatusInternalServerError, "Failed to delete the category.")
		return
	}
	if inUse {
		writeMessage(w, http.StatusConflict,
			"Category '"+cat.Name+"' cannot be deleted because recipes still use it.")
		return
	}

	if err := h.taxonomy.Delete(r.Context(), id); err != nil {
		if errors.Is(err, taxonomy.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Category not found (ID: "+id+")")
			return
		}
		slog.Error("category delete failed", "error", err, "id", id)
		writeMessage(w, http.StatusInternalServerError, "Failed to delete the category.")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddSubcategory appends a subcategory to a category. Auth required.
func (h *Categories) AddSubcategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "A subcategory name is required.")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeMessage(w, http.StatusBadRequest, "A subcategory name is required.")
		return
	}

	err := h.taxonomy.AddSubcategory(r.Context(), id, name)
	if err != nil {
		switch {
		case errors.Is(err, taxonomy.ErrNotFound):
			writeMessage(w, http.StatusNotFound, "Parent category not found (ID: "+id+")")
		case errors.Is(err, taxonomy.ErrDuplicate):
			writeMessage(w, http.StatusConflict, "Subcategory '"+name+"' already exists.")
		case errors.Is(err, catalog.ErrInvalidSegment):
			writeMessage(w, http.StatusBadRequest, "Invalid subcategory name.")
		default:
			slog.Error("subcategory add failed", "error", err, "id", id, "name", name)
			writeMessage(w, http.StatusInternalServerError, "Failed to add the subcategory.")
		}
		return
	}

	writeMessage(w, http.StatusCreated, "Subcategory '"+name+"' added.")
}

// RemoveSubcategory removes a subcategory, unless any recipe still
// references the (category, subcategory) pair. Auth required.
func (h *Categories) RemoveSubcategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// The name arrives as a path segment and may be percent-encoded.
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	name = strings.TrimSpace(name)
	if name == "" {
		writeMessage(w, http.StatusBadRequest, "A subcategory name is required.")
		return
	}

	cat, err := h.taxonomy.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("category lookup failed", "error", err, "id", id)
		writeMessage(w, http.StatusInternalServerError, "Failed to remove the subcategory.")
		return
	}
	if cat == nil {
		writeMessage(w, http.StatusNotFound, "Parent category not found (ID: "+id+")")
		return
	}

	inUse, err := h.catalog.AnyInCategory(r.Context(), cat.Name, name)
	if err != nil {
		slog.Error("subcategory usage check failed", "error", err, "category", cat.Name, "name", name)
		writeMessage(w, http.StatusInternalServerError, "Failed to remove the subcategory.")
		return
	}
	if inUse {
		writeMessage(w, http.StatusConflict,
			"Subcategory '"+name+"' cannot be deleted because recipes still use it.")
		return
	}

	if err := h.taxonomy.RemoveSubcategory(r.Context(), id, name); err != nil {
		if errors.Is(err, taxonomy.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Subcategory '"+name+"' not found in this category.")
			return
		}
		slog.Error("subcategory remove failed", "error", err, "id", id, "name", name)
		writeMessage(w, http.StatusInternalServerError, "Failed to remove the subcategory.")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
