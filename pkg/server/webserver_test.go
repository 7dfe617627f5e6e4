package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matst80/slask-catalog/pkg/catalog"
	"github.com/matst80/slask-catalog/pkg/filterstate"
	"github.com/matst80/slask-catalog/pkg/storage"
	"github.com/matst80/slask-catalog/pkg/types"
)

func testServer(t *testing.T) *WebServer {
	t.Helper()
	c := catalog.NewCatalog()
	c.Upsert(
		&types.Product{Sku: "1", Title: "MacBook Air", Category: "Laptops", SubCategory: "Ultrabooks", Price: 1099900},
		&types.Product{Sku: "2", Title: "Legion 5", Category: "Laptops", SubCategory: "Gaming", Price: 1299900},
		&types.Product{Sku: "3", Title: "Galaxy S24", Category: "Phones", SubCategory: "Android", Price: 899900},
	)
	sessions := filterstate.NewStore(c, time.Hour)
	t.Cleanup(sessions.Close)
	return &WebServer{
		Catalog:  c,
		Sessions: sessions,
		Db:       storage.NewDiskStorage(t.TempDir()),
		Auth:     &MockAuth{},
	}
}

func doRequest(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	r.AddCookie(&http.Cookie{Name: "sid", Value: "42"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestSubCategoriesEndpoint(t *testing.T) {
	ws := testServer(t)
	h := ws.ClientHandler()

	w := doRequest(h, "GET", "/categories/sub?category=Laptops", "")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	subs := []string{}
	if err := json.Unmarshal(w.Body.Bytes(), &subs); err != nil {
		t.Fatal(err)
	}
	if len(subs) != 2 || subs[0] != "Ultrabooks" || subs[1] != "Gaming" {
		t.Errorf("expected [Ultrabooks Gaming], got %v", subs)
	}
}

func TestSubCategoriesEndpointEmptyCategory(t *testing.T) {
	ws := testServer(t)
	w := doRequest(ws.ClientHandler(), "GET", "/categories/sub", "")
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("expected empty array, got %s", w.Body.String())
	}
}

func TestProductDetail(t *testing.T) {
	ws := testServer(t)
	h := ws.ClientHandler()

	w := doRequest(h, "GET", "/product?sku=3", "")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	item := types.Product{}
	if err := json.Unmarshal(w.Body.Bytes(), &item); err != nil {
		t.Fatal(err)
	}
	if item.Title != "Galaxy S24" {
		t.Errorf("unexpected product %+v", item)
	}
	if item.ImageUrls == nil {
		t.Error("expected normalized image urls in response")
	}

	w = doRequest(h, "GET", "/product?sku=nope", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown sku, got %d", w.Code)
	}
}

func TestProductListingFilters(t *testing.T) {
	ws := testServer(t)
	h := ws.ClientHandler()

	w := doRequest(h, "GET", "/products?category=Laptops&subCategory=Gaming", "")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	res := ListResponse{}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.TotalHits != 1 || len(res.Items) != 1 || res.Items[0].Sku != "2" {
		t.Errorf("expected only sku 2, got %+v", res)
	}
}

func TestProductListingSearch(t *testing.T) {
	ws := testServer(t)
	w := doRequest(ws.ClientHandler(), "GET", "/products?q=galaxy", "")
	res := ListResponse{}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.TotalHits != 1 || res.Items[0].Sku != "3" {
		t.Errorf("expected galaxy match, got %+v", res)
	}
}

func filterSnapshot(t *testing.T, h http.Handler) FilterResponse {
	t.Helper()
	w := doRequest(h, "GET", "/filters", "")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	res := FilterResponse{}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	return res
}

func waitForOptions(t *testing.T, h http.Handler, count int) FilterResponse {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		res := filterSnapshot(t, h)
		if len(res.SubCategories) == count {
			return res
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("option set never arrived")
	return FilterResponse{}
}

func TestFilterActions(t *testing.T) {
	ws := testServer(t)
	h := ws.ClientHandler()

	w := doRequest(h, "POST", "/filters", `{"action":"category","value":"Laptops"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}
	res := waitForOptions(t, h, 2)
	if res.Category != "Laptops" || res.SubCategory != "" {
		t.Errorf("unexpected state %+v", res.Snapshot)
	}

	w = doRequest(h, "POST", "/filters", `{"action":"subCategory","value":"Gaming"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	res = filterSnapshot(t, h)
	if res.SubCategory != "Gaming" {
		t.Errorf("expected subcategory Gaming, got %q", res.SubCategory)
	}
	if res.TotalHits != 1 || res.Items[0].Sku != "2" {
		t.Errorf("expected filtered listing, got %+v", res)
	}

	w = doRequest(h, "POST", "/filters", `{"action":"subCategory","value":"Android"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected invalid subcategory rejected, got %d", w.Code)
	}

	w = doRequest(h, "POST", "/filters", `{"action":"clear"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	res = filterSnapshot(t, h)
	if res.Search != "" || res.Category != "" || res.SubCategory != "" {
		t.Errorf("expected cleared state, got %+v", res.Snapshot)
	}
	if res.TotalHits != 3 {
		t.Errorf("expected full listing after clear, got %d", res.TotalHits)
	}
}

func TestFilterBadgeActions(t *testing.T) {
	ws := testServer(t)
	h := ws.ClientHandler()

	w := doRequest(h, "POST", "/filters", `{"action":"selectSubCategory","sku":"2"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		res := filterSnapshot(t, h)
		if res.Category == "Laptops" && res.SubCategory == "Gaming" {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("badge selection never applied")
}

func TestAdminUpsertAndDelete(t *testing.T) {
	ws := testServer(t)
	admin := ws.AdminHandler()
	client := ws.ClientHandler()

	w := doRequest(admin, "POST", "/products", `[{"sku":"9","title":"Pixel 9","category":"Phones","subCategory":"Android","price":799900}]`)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}
	w = doRequest(client, "GET", "/product?sku=9", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected upserted product to exist, got %d", w.Code)
	}

	w = doRequest(admin, "DELETE", "/products?sku=9", "")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	w = doRequest(client, "GET", "/product?sku=9", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}

func TestAdminSaveWritesSnapshot(t *testing.T) {
	ws := testServer(t)
	w := doRequest(ws.AdminHandler(), "POST", "/save", "")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}
	count := 0
	if err := ws.Db.LoadProducts(func(p *types.Product) { count++ }); err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("expected 3 products in snapshot, got %d", count)
	}
}
