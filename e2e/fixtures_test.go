//go:build e2e && unix

package main

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// writeConfig writes a config.toml under home pointing at baseURL, with
// the offline cache and system theme detection off. It returns the path.
func writeConfig(t *testing.T, home, baseURL string) string {
	t.Helper()
	dir := filepath.Join(home, ".config", "quotedesk")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	content := fmt.Sprintf(`version = 1

[api]
base_url = %q
retries = 0

[ui]
debounce = "50ms"

[theme]
cycle = ["light", "dark"]
current = "dark"
follow_system = false

[log]
dir = ""

[cache]
enabled = false
`, baseURL)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// startDemo runs quotedesk on the offline demo dataset
func startDemo(t *testing.T) *Terminal {
	t.Helper()
	term := newTerminal(t)
	term.Start("-demo", "-config", writeConfig(t, term.home, "http://127.0.0.1:1"))
	term.Expect("10 resultados encontrados")
	return term
}

// startWithBackend runs quotedesk against a fresh fake backend
func startWithBackend(t *testing.T) (*Terminal, *FakeBackend) {
	t.Helper()
	fb := startBackend(t)
	term := newTerminal(t)
	term.Start("-config", writeConfig(t, term.home, fb.URL))
	term.ExpectWithin("Ana Costa", 5*time.Second)
	return term, fb
}

const ordersPerPage = 2

// FakeBackend serves the JSON endpoints the TUI reads plus the form
// endpoints for batch operations, and records the mutations it gets.
type FakeBackend struct {
	*httptest.Server

	mu       sync.Mutex
	orders   []map[string]any
	approved []int
	deleted  []int
	flash    string
}

func startBackend(t *testing.T) *FakeBackend {
	t.Helper()
	fb := &FakeBackend{orders: []map[string]any{
		{"order_id": 41, "customer_name": "Ana Costa", "asset_name": "Duna", "total_value": 5100, "payment_type": "pix"},
		{"order_id": 42, "customer_name": "Bruno Lima", "asset_name": "Neuromancer", "total_value": 3900, "order_date": "2025-03-01"},
		{"order_id": 43, "customer_name": "Ana Costa", "asset_name": "Sapiens", "total_value": 4400, "delivery_date": "2025-03-09"},
	}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/customers", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"customers": []string{"Ana Costa", "Bruno Lima"}})
	})
	mux.HandleFunc("GET /api/assets", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"assets": []map[string]any{
			{"asset_code": 1, "name": "Duna", "price": 2500},
			{"asset_code": 2, "name": "Neuromancer", "price": 1800},
		}})
	})
	mux.HandleFunc("GET /api/orders", fb.ordersPage)
	mux.HandleFunc("GET /api/quotes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"quotes": []map[string]any{
			{"quote_id": 7, "customer_name": "Bruno Lima", "book_title": "Neuromancer", "total_jpy": 4200, "status": "pending"},
		}})
	})
	mux.HandleFunc("GET /api/exchange-rate", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"rate": 27.5, "source": "fixture"})
	})
	mux.HandleFunc("POST /api/quotes/{id}/approve", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		fb.mu.Lock()
		fb.approved = append(fb.approved, id)
		fb.mu.Unlock()
		writeJSON(w, map[string]any{"success": true, "order_id": 99, "customer_id": 2, "asset_code": 2})
	})
	mux.HandleFunc("POST /orders/batch-delete", fb.batchDelete)
	mux.HandleFunc("GET /orders", fb.ordersHTML)

	fb.Server = httptest.NewServer(mux)
	t.Cleanup(fb.Close)
	return fb
}

func (fb *FakeBackend) ordersPage(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()

	total := len(fb.orders)
	pages := max(1, (total+ordersPerPage-1)/ordersPerPage)
	from := min((page-1)*ordersPerPage, total)
	to := min(from+ordersPerPage, total)
	writeJSON(w, map[string]any{
		"orders":       fb.orders[from:to],
		"page":         page,
		"total_pages":  pages,
		"total_orders": total,
		"has_prev":     page > 1,
		"has_next":     page < pages,
	})
}

// batchDelete mirrors the server-rendered form: delete, then redirect to
// the orders page carrying a flash message.
func (fb *FakeBackend) batchDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var ids []int
	for _, s := range strings.Split(r.PostForm.Get("order_ids"), ",") {
		if id, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			ids = append(ids, id)
		}
	}

	fb.mu.Lock()
	fb.deleted = append(fb.deleted, ids...)
	fb.orders = slices.DeleteFunc(fb.orders, func(o map[string]any) bool {
		return slices.Contains(ids, o["order_id"].(int))
	})
	fb.flash = fmt.Sprintf("Successfully deleted %d orders", len(ids))
	fb.mu.Unlock()

	http.Redirect(w, r, "/orders", http.StatusSeeOther)
}

func (fb *FakeBackend) ordersHTML(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	msg := fb.flash
	fb.flash = ""
	fb.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<html><body><div class="flash">%s</div><table></table></body></html>`, html.EscapeString(msg))
}

// Approved returns the quote ids approved so far
func (fb *FakeBackend) Approved() []int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]int(nil), fb.approved...)
}

// Deleted returns the order ids batch-deleted so far
func (fb *FakeBackend) Deleted() []int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]int(nil), fb.deleted...)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
