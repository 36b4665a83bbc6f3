package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"quotedesk/internal/domain"
)

// Customers returns every customer name
func (c *Client) Customers(ctx context.Context) ([]string, error) {
	var out struct {
		Customers []string `json:"customers"`
	}
	if err := c.read(ctx, "/api/customers", nil, &out); err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	return out.Customers, nil
}

// Assets returns the catalog with default prices
func (c *Client) Assets(ctx context.Context) ([]domain.Asset, error) {
	var out struct {
		Assets []struct {
			Code  int     `json:"asset_code"`
			Name  string  `json:"name"`
			Price float64 `json:"price"`
		} `json:"assets"`
	}
	if err := c.read(ctx, "/api/assets", nil, &out); err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}
	assets := make([]domain.Asset, len(out.Assets))
	for i, a := range out.Assets {
		assets[i] = domain.Asset{Code: a.Code, Name: a.Name, Price: a.Price}
	}
	return assets, nil
}

// Orders returns one page of orders, newest first. Pages start at 1.
func (c *Client) Orders(ctx context.Context, page int) (domain.OrderPage, error) {
	if page < 1 {
		page = 1
	}
	var out domain.OrderPage
	q := url.Values{"page": {strconv.Itoa(page)}}
	if err := c.read(ctx, "/api/orders", q, &out); err != nil {
		return domain.OrderPage{}, fmt.Errorf("load orders page %d: %w", page, err)
	}
	if out.Page == 0 {
		out.Page = page
	}
	return out, nil
}

// Quotes returns the pending quotes
func (c *Client) Quotes(ctx context.Context) ([]domain.Quote, error) {
	var out struct {
		Quotes []domain.Quote `json:"quotes"`
	}
	if err := c.read(ctx, "/api/quotes", nil, &out); err != nil {
		return nil, fmt.Errorf("load quotes: %w", err)
	}
	return out.Quotes, nil
}

// ExchangeRate returns the BRL to JPY rate the backend will use
func (c *Client) ExchangeRate(ctx context.Context) (domain.ExchangeRate, error) {
	var out domain.ExchangeRate
	if err := c.read(ctx, "/api/exchange-rate", nil, &out); err != nil {
		return domain.ExchangeRate{}, fmt.Errorf("load exchange rate: %w", err)
	}
	return out, nil
}

// Calculate prices a quote. Book price and shipping are required; profit
// defaults to domain.DefaultProfitPercent.
func (c *Client) Calculate(ctx context.Context, req domain.QuoteRequest) (domain.QuoteResult, error) {
	if req.BookPrice <= 0 || req.ShippingCost <= 0 {
		return domain.QuoteResult{}, validation("Book price and shipping cost are required")
	}
	if req.ProfitPercent == 0 {
		req.ProfitPercent = domain.DefaultProfitPercent
	}
	var out domain.QuoteResult
	if err := c.mutate(ctx, "calculate", http.MethodPost, "/api/calculate", req, &out); err != nil {
		return domain.QuoteResult{}, fmt.Errorf("calculate quote: %w", err)
	}
	return out, nil
}

// SaveQuote persists a calculated quote and returns its id
func (c *Client) SaveQuote(ctx context.Context, req domain.QuoteRequest, res domain.QuoteResult) (int, error) {
	customer := strings.TrimSpace(req.CustomerName)
	title := strings.TrimSpace(req.BookTitle)
	switch {
	case customer == "":
		return 0, validation("customer_name is required")
	case title == "":
		return 0, validation("book_title is required")
	case res.TotalJPY <= 0:
		return 0, validation("total_jpy is required")
	}

	payload := map[string]any{
		"customer_name":           customer,
		"book_title":              title,
		"book_price":              res.BookPrice,
		"profit_percent":          res.ProfitPercent,
		"profit":                  res.Profit,
		"shipping_cost":           res.ShippingCost,
		"shipping_adjustment_jpy": res.ShippingAdjustmentJPY,
		"total_brl":               res.TotalBRL,
		"total_jpy":               res.TotalJPY,
		"exchange_rate":           res.ExchangeRate,
		"rate_source":             res.RateSource,
	}
	var out struct {
		QuoteID int `json:"quote_id"`
	}
	if err := c.mutate(ctx, "save-quote", http.MethodPost, "/api/save-quote", payload, &out); err != nil {
		return 0, fmt.Errorf("save quote: %w", err)
	}
	return out.QuoteID, nil
}

// ApproveQuote turns a pending quote into an order
func (c *Client) ApproveQuote(ctx context.Context, quoteID int) (domain.Approval, error) {
	var out domain.Approval
	path := fmt.Sprintf("/api/quotes/%d/approve", quoteID)
	if err := c.mutate(ctx, "quote-"+strconv.Itoa(quoteID), http.MethodPost, path, nil, &out); err != nil {
		return domain.Approval{}, fmt.Errorf("approve quote %d: %w", quoteID, err)
	}
	out.QuoteID = quoteID
	return out, nil
}

// RejectQuote discards a pending quote
func (c *Client) RejectQuote(ctx context.Context, quoteID int) error {
	path := fmt.Sprintf("/api/quotes/%d/reject", quoteID)
	if err := c.mutate(ctx, "quote-"+strconv.Itoa(quoteID), http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("reject quote %d: %w", quoteID, err)
	}
	return nil
}

// CreateCustomer registers a new customer name
func (c *Client) CreateCustomer(ctx context.Context, name string) (domain.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Customer{}, validation("Customer name is required")
	}
	var out struct {
		CustomerID   int    `json:"customer_id"`
		CustomerName string `json:"customer_name"`
	}
	payload := map[string]string{"customer_name": name}
	if err := c.mutate(ctx, "create-customer", http.MethodPost, "/api/create-customer", payload, &out); err != nil {
		return domain.Customer{}, fmt.Errorf("create customer: %w", err)
	}
	if out.CustomerName == "" {
		out.CustomerName = name
	}
	return domain.Customer{ID: out.CustomerID, Name: out.CustomerName}, nil
}

// CreateAsset registers a new book with its price
func (c *Client) CreateAsset(ctx context.Context, name string, price float64) (domain.Asset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Asset{}, validation("Asset name is required")
	}
	var out struct {
		AssetCode int    `json:"asset_code"`
		AssetName string `json:"asset_name"`
	}
	payload := map[string]any{"asset_name": name, "book_price": price}
	if err := c.mutate(ctx, "create-asset", http.MethodPost, "/api/create-asset", payload, &out); err != nil {
		return domain.Asset{}, fmt.Errorf("create asset: %w", err)
	}
	if out.AssetName == "" {
		out.AssetName = name
	}
	return domain.Asset{Code: out.AssetCode, Name: out.AssetName, Price: price}, nil
}
