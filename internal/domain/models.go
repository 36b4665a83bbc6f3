package domain

import "time"

// CategoryAll is the wildcard category: it disables the category stage.
const CategoryAll = "all"

// Record is one searchable item shown in a list.
// The filter only reads Title, Description and Category; every other field
// is carried through for display.
type Record struct {
	ID          int
	Title       string
	Description string
	Category    string
	Icon        string
	Price       float64
	Ref         string            // backend identifier (order id, quote id, asset code)
	Extra       map[string]string // display-only columns
}

// FilterState is the category/query pair a filter index recomputes from.
type FilterState struct {
	ActiveCategory string
	QueryText      string // stored lowercased
}

// NewFilterState returns the initial state: wildcard category, no query.
func NewFilterState() FilterState {
	return FilterState{ActiveCategory: CategoryAll}
}

// Customer is a customer known to the backend
type Customer struct {
	ID   int
	Name string
}

// Asset is a catalog item (a book) with its default price in JPY
type Asset struct {
	Code  int
	Name  string
	Price float64
}

// Order represents one row of the orders table
type Order struct {
	OrderID      int     `json:"order_id"`
	CustomerID   int     `json:"customer_id"`
	AssetCode    int     `json:"asset_code"`
	CustomerName string  `json:"customer_name"`
	AssetName    string  `json:"asset_name"`
	OrderDate    string  `json:"order_date"`
	OrderReal    float64 `json:"order_real"`
	OrderYen     float64 `json:"order_ien"`
	FreteBrasil  float64 `json:"frete_brasil"`
	FreteJP      float64 `json:"frete_jp"`
	TotalValue   float64 `json:"total_value"`
	DeliveryDate string  `json:"delivery_date"`
	PaymentType  string  `json:"payment_type"`
	CreatedAt    string  `json:"created_at"`
}

// Order status categories
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderDelivered  = "delivered"
)

// Status derives the order's display status.
// Delivered once a delivery date is recorded, processing once the order
// has been placed with the supplier, pending otherwise.
func (o Order) Status() string {
	switch {
	case o.DeliveryDate != "":
		return OrderDelivered
	case o.OrderDate != "":
		return OrderProcessing
	default:
		return OrderPending
	}
}

// OrderPage is one page of the paginated order listing
type OrderPage struct {
	Orders      []Order `json:"orders"`
	Page        int     `json:"page"`
	TotalPages  int     `json:"total_pages"`
	HasPrev     bool    `json:"has_prev"`
	HasNext     bool    `json:"has_next"`
	TotalOrders int     `json:"total_orders"`
}

// Quote is a saved price quotation awaiting approval
type Quote struct {
	QuoteID               int     `json:"quote_id"`
	CustomerName          string  `json:"customer_name"`
	BookTitle             string  `json:"book_title"`
	BookPrice             float64 `json:"book_price"`
	ProfitPercent         float64 `json:"profit_percent"`
	Profit                float64 `json:"profit"`
	ShippingCost          float64 `json:"shipping_cost"`
	ShippingAdjustmentJPY float64 `json:"shipping_adjustment_jpy"`
	TotalBRL              float64 `json:"total_brl"`
	TotalJPY              int     `json:"total_jpy"`
	ExchangeRate          float64 `json:"exchange_rate"`
	RateSource            string  `json:"rate_source"`
	Status                string  `json:"status"`
	CreatedAt             string  `json:"created_at"`
}

// QuoteRequest holds the calculator inputs
type QuoteRequest struct {
	CustomerName          string  `json:"customer_name"`
	BookTitle             string  `json:"book_title"`
	BookPrice             float64 `json:"book_price"`
	ShippingCost          float64 `json:"shipping_cost"`
	ProfitPercent         float64 `json:"profit_percent"`
	ShippingAdjustmentJPY float64 `json:"shipping_adjustment_jpy"`
}

// DefaultProfitPercent is applied when the calculator leaves profit empty
const DefaultProfitPercent = 30

// QuoteResult is the priced quote returned by the calculator endpoint
type QuoteResult struct {
	BookPrice             float64 `json:"book_price"`
	Profit                float64 `json:"profit"`
	ProfitPercent         float64 `json:"profit_percent"`
	ShippingCost          float64 `json:"shipping_cost"`
	TotalBRL              float64 `json:"total_brl"`
	ShippingAdjustmentJPY float64 `json:"shipping_adjustment_jpy"`
	TotalJPY              int     `json:"total_jpy"`
	ExchangeRate          float64 `json:"exchange_rate"`
	RateSource            string  `json:"rate_source"`
}

// ExchangeRate is the current BRL to JPY conversion rate
type ExchangeRate struct {
	Rate   float64 `json:"rate"`
	Source string  `json:"source"`
}

// Approval describes the order created from an approved quote
type Approval struct {
	QuoteID    int
	OrderID    int `json:"order_id"`
	CustomerID int `json:"customer_id"`
	AssetCode  int `json:"asset_code"`
}

// BatchResult reports a batch edit or delete
type BatchResult struct {
	OrderIDs []int
	Message  string // flash message rendered by the backend, if any
	At       time.Time
}
