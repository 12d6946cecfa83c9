package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"stashmate/internal/model"
	"stashmate/internal/store"
)

// CollectionsHandler handles collection CRUD endpoints.
type CollectionsHandler struct {
	DB *sql.DB
}

type collectionRequest struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	AcquiredDate string `json:"acquired_date"`
}

// List handles GET /api/collections.
func (h *CollectionsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	collections, err := store.ListCollections(r.Context(), h.DB, claims.UserID, nil)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list collections")
		return
	}
	if collections == nil {
		collections = []model.Collection{}
	}
	jsonResponse(w, http.StatusOK, collections)
}

// Create handles POST /api/collections.
func (h *CollectionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req collectionRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	collection, err := store.CreateCollection(r.Context(), h.DB, claims.UserID, req.Name, req.Category, req.AcquiredDate)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create collection")
		return
	}
	jsonResponse(w, http.StatusCreated, collection)
}

// Get handles GET /api/collections/{id}.
func (h *CollectionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid collection id")
		return
	}

	collection, err := store.GetCollection(r.Context(), h.DB, claims.UserID, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get collection")
		return
	}
	if collection == nil {
		jsonError(w, http.StatusNotFound, "collection not found")
		return
	}

	items, err := store.ListCollectionItems(r.Context(), h.DB, collection.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get collection items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"collection": collection,
		"items":      items,
	})
}

// Update handles PUT /api/collections/{id}.
func (h *CollectionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid collection id")
		return
	}

	var req collectionRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	existing, err := store.GetCollection(r.Context(), h.DB, claims.UserID, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get collection")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "collection not found")
		return
	}

	if err := store.UpdateCollection(r.Context(), h.DB, claims.UserID, id, req.Name, req.Category, req.AcquiredDate); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update collection")
		return
	}

	collection, _ := store.GetCollection(r.Context(), h.DB, claims.UserID, id)
	jsonResponse(w, http.StatusOK, collection)
}

// Delete handles DELETE /api/collections/{id}.
func (h *CollectionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid collection id")
		return
	}

	existing, err := store.GetCollection(r.Context(), h.DB, claims.UserID, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get collection")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "collection not found")
		return
	}

	if err := store.DeleteCollection(r.Context(), h.DB, claims.UserID, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete collection")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "collection deleted"})
}
