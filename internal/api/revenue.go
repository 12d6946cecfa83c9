package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"stashmate/internal/revenue"
	"stashmate/internal/store"
)

// RevenueHandler handles the revenue series endpoint.
type RevenueHandler struct {
	DB *sql.DB
}

// Series handles GET /api/collections/{id}/revenue. The granularity query
// parameter selects the bucket width (day, week or month; default day).
func (h *RevenueHandler) Series(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid collection id")
		return
	}

	granularity := revenue.Day
	if raw := r.URL.Query().Get("granularity"); raw != "" {
		granularity, err = revenue.ParseGranularity(raw)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	// Access check: the collection must belong to the caller.
	collection, err := store.GetCollection(r.Context(), h.DB, claims.UserID, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get collection")
		return
	}
	if collection == nil {
		jsonError(w, http.StatusNotFound, "collection not found")
		return
	}

	series, err := revenue.Series(r.Context(), h.DB, collection.ID, granularity)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to compute revenue series")
		return
	}
	if series == nil {
		series = []revenue.Point{}
	}
	jsonResponse(w, http.StatusOK, series)
}
