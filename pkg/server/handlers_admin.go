package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/matst80/slask-catalog/pkg/types"
)

var (
	errInvalidSubCategory = errors.New("subcategory not in current option set")
	errUnknownProduct     = errors.New("unknown product")
	errUnknownAction      = errors.New("unknown filter action")
)

func (ws *WebServer) HandleAdminProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost, http.MethodPut:
		items := []*types.Product{}
		if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ws.Catalog.Upsert(items...)
		log.Printf("upserted %d products", len(items))
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		sku := r.URL.Query().Get("sku")
		if sku == "" {
			http.Error(w, "missing sku", http.StatusBadRequest)
			return
		}
		ws.Catalog.Delete(sku)
		w.WriteHeader(http.StatusOK)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (ws *WebServer) HandleSave(w http.ResponseWriter, r *http.Request) {
	items := make([]*types.Product, 0, ws.Catalog.Len())
	ws.Catalog.All(func(p *types.Product) {
		items = append(items, p)
	})
	if err := ws.Db.SaveProducts(items); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := ws.Db.SaveSettings(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (ws *WebServer) HandleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		types.CurrentSettings.Lock()
		err := json.NewDecoder(r.Body).Decode(types.CurrentSettings)
		types.CurrentSettings.Unlock()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
		return
	}
	types.CurrentSettings.RLock()
	defer types.CurrentSettings.RUnlock()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(types.CurrentSettings); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
