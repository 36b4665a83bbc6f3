package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ordersPage = `<html><body>
<div class="flash-message success">
  Successfully updated 3 orders!
  <button class="close">&times;</button>
</div>
<table id="orders"></table>
</body></html>`

func TestParseFlash(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{"empty", "", ""},
		{"no flash", "<html><body><p>hello</p></body></html>", ""},
		{"flash with close button", ordersPage, "Successfully updated 3 orders!"},
		{"alert role", `<div role="alert"><i class="icon"></i> No orders selected for batch delete</div>`, "No orders selected for batch delete"},
		{"skips empty alerts", `<div class="alert"></div><ul class="messages"><li>Error updating orders: boom</li></ul>`, "Error updating orders: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFlash([]byte(tt.page)))
		})
	}
}

func TestBatchEditPostsForm(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /orders/batch-edit", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "orders", r.URL.Query().Get("return"))
		assert.Equal(t, "1,2,3", r.PostForm.Get("order_ids"))
		assert.Equal(t, "2025-03-01", r.PostForm.Get("delivery_date"))
		assert.Equal(t, "pix", r.PostForm.Get("payment_type"))
		http.Redirect(w, r, "/orders", http.StatusFound)
	})
	mux.HandleFunc("GET /orders", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(ordersPage))
	})
	c := newTestClient(t, mux)

	res, err := c.BatchEditOrders(context.Background(), []int{1, 2, 3}, "2025-03-01", "pix")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, res.OrderIDs)
	assert.Equal(t, "Successfully updated 3 orders!", res.Message)
	assert.False(t, res.At.IsZero())
}

func TestBatchEditValidation(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())
	ctx := context.Background()

	_, err := c.BatchEditOrders(ctx, nil, "2025-03-01", "")
	assert.True(t, errors.Is(err, ErrValidation))
	_, err = c.BatchEditOrders(ctx, []int{1}, "", "")
	assert.True(t, errors.Is(err, ErrValidation))
	_, err = c.BatchEditOrders(ctx, []int{1}, "01/03/2025", "")
	assert.True(t, errors.Is(err, ErrValidation))
	_, err = c.BatchDeleteOrders(ctx, nil)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestBatchDeleteFlashError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /orders/batch-delete", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/orders", http.StatusFound)
	})
	mux.HandleFunc("GET /orders", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<div class="alert alert-danger">Error deleting orders: locked</div>`))
	})
	c := newTestClient(t, mux)

	_, err := c.BatchDeleteOrders(context.Background(), []int{4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error deleting orders: locked")
}

func TestBatchRedirectToLoginIsUnauthorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /orders/batch-delete", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin/login", http.StatusFound)
	})
	mux.HandleFunc("GET /admin/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<form method="post"></form>`))
	})
	c := newTestClient(t, mux)

	_, err := c.BatchDeleteOrders(context.Background(), []int{4, 5})
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestJoinIDs(t *testing.T) {
	assert.Equal(t, "", joinIDs(nil))
	assert.Equal(t, "7", joinIDs([]int{7}))
	assert.Equal(t, "7,8,9", joinIDs([]int{7, 8, 9}))
}
