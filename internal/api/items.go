package api

import (
	"database/sql"
	"io"
	"net/http"
	"strconv"
	"time"

	"stashmate/internal/imaging"
	"stashmate/internal/model"
	"stashmate/internal/store"
)

// ItemsHandler handles item CRUD endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type itemRequest struct {
	Name      string  `json:"name"`
	Condition string  `json:"condition"`
	Cost      float64 `json:"cost"`
	Price     float64 `json:"price"`
	Source    string  `json:"source"`
	Status    int     `json:"status"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url"`
}

// today returns the current calendar date used to stamp item creation.
func today() string {
	return time.Now().Format("2006-01-02")
}

// ownedItem loads an item and verifies the caller owns its collection.
// Writes a JSON error and returns nil when it doesn't resolve.
func (h *ItemsHandler) ownedItem(w http.ResponseWriter, r *http.Request) *model.Item {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return nil
	}

	ownerID, err := store.ItemOwner(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to check item")
		return nil
	}
	if ownerID == nil || *ownerID != claims.UserID {
		jsonError(w, http.StatusNotFound, "item not found")
		return nil
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil || item == nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return nil
	}
	return item
}

// Create handles POST /api/collections/{id}/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	collectionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid collection id")
		return
	}

	collection, err := store.GetCollection(r.Context(), h.DB, claims.UserID, collectionID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get collection")
		return
	}
	if collection == nil {
		jsonError(w, http.StatusNotFound, "collection not found")
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}
	status := model.Status(req.Status)
	if !status.Valid() {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	item, err := store.CreateItem(r.Context(), h.DB, &model.Item{
		CollectionID: collectionID,
		Name:         req.Name,
		Condition:    req.Condition,
		Cost:         req.Cost,
		Price:        req.Price,
		Source:       req.Source,
		Status:       status,
		Quantity:     req.Quantity,
		ImageURL:     req.ImageURL,
		CreatedAt:    today(),
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}
	jsonResponse(w, http.StatusCreated, item)
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	item := h.ownedItem(w, r)
	if item == nil {
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}
	status := model.Status(req.Status)
	if !status.Valid() {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	item.Name = req.Name
	item.Condition = req.Condition
	item.Cost = req.Cost
	item.Price = req.Price
	item.Source = req.Source
	item.Status = status
	item.Quantity = req.Quantity
	item.ImageURL = req.ImageURL

	if err := store.UpdateItem(r.Context(), h.DB, item); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	updated, _ := store.GetItem(r.Context(), h.DB, item.ID)
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	item := h.ownedItem(w, r)
	if item == nil {
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, item.ID); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// UploadImage handles PUT /api/items/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	item := h.ownedItem(w, r)
	if item == nil {
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to read image")
		return
	}

	normalized, mime, err := imaging.Normalize(data)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetItemImage(r.Context(), h.DB, item.ID, normalized, mime); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	item := h.ownedItem(w, r)
	if item == nil {
		return
	}

	data, mime, err := store.GetItemImage(r.Context(), h.DB, item.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
