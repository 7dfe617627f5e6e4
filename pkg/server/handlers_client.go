package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/matst80/slask-catalog/pkg/common"
	"github.com/matst80/slask-catalog/pkg/filterstate"
	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	noSearches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskcatalog_searches_total",
		Help: "The total number of processed product listings",
	})
	noSuggests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskcatalog_suggest_total",
		Help: "The total number of processed suggestions",
	})
	noFilterUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskcatalog_filter_updates_total",
		Help: "The total number of session filter mutations",
	})
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskcatalog_cache_hits_total",
		Help: "The total number of listing responses served from cache",
	})
)

type ListResponse struct {
	Items     []*types.Product `json:"items"`
	Page      int              `json:"page"`
	PageSize  int              `json:"pageSize"`
	TotalHits int              `json:"totalHits"`
}

func cacheTtl() time.Duration {
	types.CurrentSettings.RLock()
	defer types.CurrentSettings.RUnlock()
	return time.Duration(types.CurrentSettings.CacheTtlSeconds) * time.Second
}

func (ws *WebServer) HandleProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method == "OPTIONS" {
		common.RespondToOptions(w, r)
		return
	}
	sessionId := common.HandleSessionCookie(ws.Tracking, w, r)
	sr, err := types.ListRequestFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	go noSearches.Inc()
	if ws.Tracking != nil && sr.Query != "" {
		go ws.Tracking.TrackSearch(sessionId, sr.Query)
	}

	common.DefaultHeaders(w, r, true, "120")

	if ws.Cache != nil && r.Method == http.MethodGet {
		if data, ok := ws.Cache.Get(r.Context(), sr.CacheKey()); ok {
			go cacheHits.Inc()
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(data)
			return
		}
	}

	matching := ws.Catalog.Match(sr.Query, sr.Category, sr.SubCategory)
	sorted := SortProducts(matching, sr.Sort)
	data, err := sonic.Marshal(ListResponse{
		Items:     Page(sorted, sr.Page, sr.PageSize),
		Page:      sr.Page,
		PageSize:  sr.PageSize,
		TotalHits: len(matching),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if ws.Cache != nil && r.Method == http.MethodGet {
		go func(key string, body []byte) {
			_ = ws.Cache.Set(context.Background(), key, body, cacheTtl())
		}(sr.CacheKey(), data)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (ws *WebServer) HandleProductDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method == "OPTIONS" {
		common.RespondToOptions(w, r)
		return
	}
	sessionId := common.HandleSessionCookie(ws.Tracking, w, r)
	sku := r.URL.Query().Get("sku")
	if sku == "" {
		http.Error(w, "missing sku", http.StatusBadRequest)
		return
	}
	item, ok := ws.Catalog.Get(sku)
	if !ok {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	if ws.Tracking != nil {
		go ws.Tracking.TrackClick(sessionId, sku)
	}
	common.DefaultHeaders(w, r, true, "120")
	data, err := sonic.Marshal(item)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (ws *WebServer) HandleCategories(w http.ResponseWriter, r *http.Request) {
	common.DefaultHeaders(w, r, true, "600")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ws.Catalog.Categories()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HandleSubCategories is the resolver's backing lookup. An empty category
// answers an empty list without touching the catalog.
func (ws *WebServer) HandleSubCategories(w http.ResponseWriter, r *http.Request) {
	common.DefaultHeaders(w, r, true, "600")
	category := r.URL.Query().Get("category")
	ret := []string{}
	if category != "" {
		subs, err := ws.Catalog.SubCategories(r.Context(), category)
		if err == nil {
			ret = subs
		}
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ret); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (ws *WebServer) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	go noSuggests.Inc()
	common.DefaultHeaders(w, r, true, "120")
	suggestions := ws.Catalog.Suggest(r.URL.Query().Get("q"))
	types.CurrentSettings.RLock()
	limit := types.CurrentSettings.SuggestLimit
	types.CurrentSettings.RUnlock()
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(suggestions); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// FilterAction is a single mutation of the session's filter state.
type FilterAction struct {
	Action string `json:"action"`
	Value  string `json:"value,omitempty"`
	Sku    string `json:"sku,omitempty"`
}

type FilterResponse struct {
	filterstate.Snapshot
	Items     []*types.Product `json:"items"`
	TotalHits int              `json:"totalHits"`
}

func (ws *WebServer) HandleFilters(w http.ResponseWriter, r *http.Request) {
	if r.Method == "OPTIONS" {
		common.RespondToOptions(w, r)
		return
	}
	sessionId := common.HandleSessionCookie(ws.Tracking, w, r)
	state := ws.Sessions.Get(sessionId)

	if r.Method == http.MethodPost {
		action := FilterAction{}
		if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := ws.applyFilterAction(r.Context(), state, &action); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		go noFilterUpdates.Inc()
		snap := state.Snapshot()
		if ws.Tracking != nil && (action.Action == "category" || action.Action == "subCategory") {
			go ws.Tracking.TrackFilter(sessionId, snap.Category, snap.SubCategory)
		}
	}

	snap := state.Snapshot()
	matching := ws.Catalog.Match(snap.Search, snap.Category, snap.SubCategory)
	sorted := SortProducts(matching, r.URL.Query().Get("sort"))
	pageSize := 40
	if ps, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && ps > 0 {
		pageSize = min(ps, 500)
	}
	common.DefaultHeaders(w, r, false, "0")
	data, err := sonic.Marshal(FilterResponse{
		Snapshot:  snap,
		Items:     Page(sorted, 0, pageSize),
		TotalHits: len(matching),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (ws *WebServer) applyFilterAction(ctx context.Context, state *filterstate.State, action *FilterAction) error {
	switch action.Action {
	case "search":
		state.SetSearch(action.Value)
	case "category":
		state.SetCategory(ctx, action.Value)
	case "subCategory":
		if !state.SetSubCategory(action.Value) {
			return errInvalidSubCategory
		}
	case "clear":
		state.Clear(ctx)
	case "selectCategory":
		item, ok := ws.Catalog.Get(action.Sku)
		if !ok {
			return errUnknownProduct
		}
		state.SelectCategory(ctx, item)
	case "selectSubCategory":
		item, ok := ws.Catalog.Get(action.Sku)
		if !ok {
			return errUnknownProduct
		}
		state.SelectSubCategory(ctx, item)
	default:
		return errUnknownAction
	}
	return nil
}
