package api

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"stashmate/internal/impexp"
	"stashmate/internal/tabular"
)

// ImpExpHandler handles CSV export and import endpoints.
type ImpExpHandler struct {
	DB *sql.DB
}

// Export handles GET /api/export. An optional ids query parameter
// (comma-separated collection IDs) restricts the export.
func (h *ImpExpHandler) Export(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var ids []int64
	if raw := r.URL.Query().Get("ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				jsonError(w, http.StatusBadRequest, "invalid collection id in ids")
				return
			}
			ids = append(ids, id)
		}
	}

	result, err := impexp.Export(r.Context(), h.DB, claims.UserID, ids)
	if errors.Is(err, impexp.ErrNoCollections) {
		jsonError(w, http.StatusNotFound, "no collections to export")
		return
	}
	if err != nil {
		slog.Error("export failed", "user", claims.UserID, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to export collections")
		return
	}

	slog.Info("collections exported", "user", claims.UserID, "rows", result.RowCount)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="collections.csv"`)
	w.Header().Set("X-Row-Count", strconv.Itoa(result.RowCount))
	io.WriteString(w, result.Document)
}

// Import handles POST /api/import. The request body is the CSV document.
func (h *ImpExpHandler) Import(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	// Limit to 10 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "failed to read document")
		return
	}
	defer r.Body.Close()

	summary, err := impexp.Import(r.Context(), h.DB, claims.UserID, string(body))
	var formatErr *tabular.FormatError
	switch {
	case errors.Is(err, impexp.ErrEmptyDocument):
		jsonError(w, http.StatusBadRequest, "no data found in document")
		return
	case errors.As(err, &formatErr):
		jsonError(w, http.StatusBadRequest, formatErr.Error())
		return
	case err != nil:
		slog.Error("import failed", "user", claims.UserID,
			"created", summary.Created, "updated", summary.Updated, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to import collections")
		return
	}

	slog.Info("collections imported", "user", claims.UserID,
		"created", summary.Created, "updated", summary.Updated)
	jsonResponse(w, http.StatusOK, summary)
}
