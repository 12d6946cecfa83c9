package api

import (
	"database/sql"
	"net/http"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	collectionsHandler := &CollectionsHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}
	impexpHandler := &ImpExpHandler{DB: db}
	revenueHandler := &RevenueHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret)

	// Public: account creation and login.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Collections.
	mux.Handle("GET /api/collections", authMW(http.HandlerFunc(collectionsHandler.List)))
	mux.Handle("POST /api/collections", authMW(http.HandlerFunc(collectionsHandler.Create)))
	mux.Handle("GET /api/collections/{id}", authMW(http.HandlerFunc(collectionsHandler.Get)))
	mux.Handle("PUT /api/collections/{id}", authMW(http.HandlerFunc(collectionsHandler.Update)))
	mux.Handle("DELETE /api/collections/{id}", authMW(http.HandlerFunc(collectionsHandler.Delete)))
	mux.Handle("GET /api/collections/{id}/revenue", authMW(http.HandlerFunc(revenueHandler.Series)))

	// Items.
	mux.Handle("POST /api/collections/{id}/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("PUT /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("PUT /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.UploadImage)))
	mux.Handle("GET /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.GetImage)))

	// CSV export/import.
	mux.Handle("GET /api/export", authMW(http.HandlerFunc(impexpHandler.Export)))
	mux.Handle("POST /api/import", authMW(http.HandlerFunc(impexpHandler.Import)))

	return mux
}
