package server

import (
	"net/http"

	"github.com/matst80/slask-catalog/pkg/catalog"
	"github.com/matst80/slask-catalog/pkg/filterstate"
	"github.com/matst80/slask-catalog/pkg/storage"
	"github.com/matst80/slask-catalog/pkg/tracking"
)

type WebServer struct {
	Catalog  *catalog.Catalog
	Sessions *filterstate.Store
	Db       *storage.DiskStorage
	Cache    *Cache
	Tracking tracking.Tracking
	Auth     AuthHandler
}

// ClientHandler serves the public catalog api, mounted under /api.
func (ws *WebServer) ClientHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/products", ws.HandleProducts)
	mux.HandleFunc("/product", ws.HandleProductDetail)
	mux.HandleFunc("/categories", ws.HandleCategories)
	mux.HandleFunc("/categories/sub", ws.HandleSubCategories)
	mux.HandleFunc("/suggest", ws.HandleSuggest)
	mux.HandleFunc("/filters", ws.HandleFilters)
	return mux
}

// AdminHandler serves the write api, mounted under /admin behind auth.
func (ws *WebServer) AdminHandler() http.Handler {
	mux := http.NewServeMux()
	auth := ws.Auth
	if auth == nil {
		auth = &MockAuth{}
	}
	mux.HandleFunc("/login", auth.Login)
	mux.HandleFunc("/logout", auth.Logout)
	mux.HandleFunc("/callback", auth.AuthCallback)
	mux.HandleFunc("/user", auth.User)
	mux.HandleFunc("/products", auth.Middleware(ws.HandleAdminProducts))
	mux.HandleFunc("/save", auth.Middleware(ws.HandleSave))
	mux.HandleFunc("/settings", auth.Middleware(ws.HandleSettings))
	return mux
}
