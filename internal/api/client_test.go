package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotedesk/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Options{
		BaseURL:       srv.URL,
		Timeout:       2 * time.Second,
		Retries:       2,
		RetryBackoff:  time.Millisecond,
		SessionCookie: "s3cret",
	})
	require.NoError(t, err)
	return c
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(Options{BaseURL: "ftp://x"})
	assert.Error(t, err)
	_, err = New(Options{BaseURL: "://"})
	assert.Error(t, err)
}

func TestCustomersSendsSessionAndRequestID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/customers", r.URL.Path)
		cookie, err := r.Cookie(SessionCookieName)
		require.NoError(t, err)
		assert.Equal(t, "s3cret", cookie.Value)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, 200, map[string]any{"success": true, "customers": []string{"Ana", "Bruno"}})
	}))

	got, err := c.Customers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Bruno"}, got)
}

func TestAssets(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"success": true, "assets": []map[string]any{
			{"name": "Harry Potter", "price": 1500},
			{"name": "The Hobbit", "price": 0},
		}})
	}))

	got, err := c.Assets(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.Asset{Name: "Harry Potter", Price: 1500}, got[0])
}

func TestOrdersPage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		writeJSON(w, 200, map[string]any{
			"orders": []map[string]any{{
				"order_id": 9, "customer_name": "Ana", "asset_name": "Duna",
				"order_date": "2025-01-02", "delivery_date": "", "total_value": 120.5,
			}},
			"page": 2, "total_pages": 3, "has_prev": true, "has_next": true, "total_orders": 41,
		})
	}))

	page, err := c.Orders(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNext)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, 9, page.Orders[0].OrderID)
	assert.Equal(t, domain.OrderProcessing, page.Orders[0].Status())
}

func TestUnauthorized(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, map[string]any{"success": false, "error": "Authentication required"})
	}))

	_, err := c.Quotes(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Authentication required", apiErr.Message)
}

func TestEnvelopeFailureWith200(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"success": false, "error": "Customer already exists"})
	}))

	_, err := c.CreateCustomer(context.Background(), "Ana")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Customer already exists")
}

func TestReadsRetryServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeJSON(w, 503, map[string]any{"success": false, "error": "busy"})
			return
		}
		writeJSON(w, 200, map[string]any{"rate": 27.5, "source": "API"})
	}))

	rate, err := c.ExchangeRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 27.5, rate.Rate)
	assert.Equal(t, int32(3), calls.Load())
}

func TestReadsDoNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, 404, map[string]any{"success": false, "error": "nope"})
	}))

	_, err := c.Quotes(context.Background())
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, int32(1), calls.Load())
}

func TestMutationsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, 500, map[string]any{"success": false, "error": "db down"})
	}))

	_, err := c.ApproveQuote(context.Background(), 4)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestConcurrentReadsShareOneRequest(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		writeJSON(w, 200, map[string]any{"success": true, "customers": []string{"Ana"}})
	}))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.Customers(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, []string{"Ana"}, got)
		}()
	}
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestDuplicateMutationIsRefused(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		writeJSON(w, 200, map[string]any{"success": true, "quote_id": 12})
	}))

	req := domain.QuoteRequest{CustomerName: "Ana", BookTitle: "Duna"}
	res := domain.QuoteResult{TotalJPY: 5000}

	done := make(chan error, 1)
	go func() {
		_, err := c.SaveQuote(context.Background(), req, res)
		done <- err
	}()
	<-entered

	_, err := c.SaveQuote(context.Background(), req, res)
	assert.True(t, errors.Is(err, ErrInFlight))

	close(release)
	assert.NoError(t, <-done)
}

func TestCalculateValidatesAndDefaultsProfit(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body domain.QuoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(30), body.ProfitPercent)
		writeJSON(w, 200, map[string]any{
			"success": true, "book_price": body.BookPrice, "profit": 30, "profit_percent": 30,
			"shipping_cost": body.ShippingCost, "total_brl": 150, "total_jpy": 4125,
			"exchange_rate": 27.5, "rate_source": "API",
		})
	}))

	_, err := c.Calculate(context.Background(), domain.QuoteRequest{BookPrice: 100})
	assert.True(t, errors.Is(err, ErrValidation))

	res, err := c.Calculate(context.Background(), domain.QuoteRequest{BookPrice: 100, ShippingCost: 20})
	require.NoError(t, err)
	assert.Equal(t, 4125, res.TotalJPY)
	assert.Equal(t, "API", res.RateSource)
}

func TestSaveQuoteValidation(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())
	ctx := context.Background()

	_, err := c.SaveQuote(ctx, domain.QuoteRequest{BookTitle: "x"}, domain.QuoteResult{TotalJPY: 1})
	assert.True(t, errors.Is(err, ErrValidation))
	_, err = c.SaveQuote(ctx, domain.QuoteRequest{CustomerName: "a", BookTitle: "  "}, domain.QuoteResult{TotalJPY: 1})
	assert.True(t, errors.Is(err, ErrValidation))
	_, err = c.SaveQuote(ctx, domain.QuoteRequest{CustomerName: "a", BookTitle: "b"}, domain.QuoteResult{})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestApproveAndReject(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/quotes/7/approve", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"success": true, "order_id": 55, "customer_id": 3, "asset_code": 8})
	})
	mux.HandleFunc("DELETE /api/quotes/7/reject", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"success": true, "message": "Quote rejected"})
	})
	mux.HandleFunc("DELETE /api/quotes/8/reject", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"success": false, "error": "Quote not found or already processed"})
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	approval, err := c.ApproveQuote(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.Approval{QuoteID: 7, OrderID: 55, CustomerID: 3, AssetCode: 8}, approval)

	require.NoError(t, c.RejectQuote(ctx, 7))

	err = c.RejectQuote(ctx, 8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already processed")
}

func TestCreateAsset(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"asset_name":"Duna","book_price":2200}`, string(body))
		writeJSON(w, 200, map[string]any{"success": true, "asset_code": 31, "asset_name": "Duna"})
	}))

	a, err := c.CreateAsset(context.Background(), " Duna ", 2200)
	require.NoError(t, err)
	assert.Equal(t, domain.Asset{Code: 31, Name: "Duna", Price: 2200}, a)
}

func TestContextCancelStopsRetries(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 503, map[string]any{"success": false})
	}))
	c.backoff = time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.Customers(ctx)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 900*time.Millisecond)
}
