// Package catalog turns backend entities into searchable records and owns
// the category vocabulary and the Portuguese display texts.
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"quotedesk/internal/domain"
)

// Record categories
const (
	CategoryCustomers = "customers"
	CategoryAssets    = "assets"

	CategoryClubs   = "clubs"
	CategoryEvents  = "events"
	CategoryMembers = "members"

	QuotePending  = "pending"
	QuoteApproved = "approved"
	QuoteRejected = "rejected"
)

// Result texts
const (
	EmptyTitle = "Nenhum resultado encontrado"
	EmptyHint  = "Tente ajustar sua busca ou filtros"
)

var labels = map[string]string{
	domain.CategoryAll: "Todos",

	CategoryCustomers: "Cliente",
	CategoryAssets:    "Livro",

	CategoryClubs:   "Clube",
	CategoryEvents:  "Evento",
	CategoryMembers: "Membro",

	domain.OrderPending:    "Pendente",
	domain.OrderProcessing: "Em andamento",
	domain.OrderDelivered:  "Entregue",

	QuoteApproved: "Aprovado",
	QuoteRejected: "Rejeitado",
}

// Label returns the display label of a category. Unknown categories are
// shown as-is.
func Label(category string) string {
	if l, ok := labels[category]; ok {
		return l
	}
	return category
}

// Categories lists the categories a source can be narrowed to, wildcard
// first, in cycling order.
func Categories(source domain.Source) []string {
	switch source {
	case domain.SourceCatalog:
		return []string{domain.CategoryAll, CategoryCustomers, CategoryAssets}
	case domain.SourceOrders:
		return []string{domain.CategoryAll, domain.OrderPending, domain.OrderProcessing, domain.OrderDelivered}
	case domain.SourceQuotes:
		return []string{domain.CategoryAll, QuotePending, QuoteApproved, QuoteRejected}
	case domain.SourceDemo:
		return []string{domain.CategoryAll, CategoryClubs, CategoryEvents, CategoryMembers}
	}
	return []string{domain.CategoryAll}
}

// CountText is the result count line
func CountText(n int) string {
	if n == 1 {
		return "1 resultado encontrado"
	}
	return fmt.Sprintf("%d resultados encontrados", n)
}

// FormatYen renders an amount in whole yen with thousands separators
func FormatYen(v float64) string {
	return "¥" + groupThousands(strconv.FormatInt(int64(v+0.5), 10))
}

func groupThousands(digits string) string {
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// number assigns ids 1..n in collection order
func number(records []domain.Record) []domain.Record {
	for i := range records {
		records[i].ID = i + 1
	}
	return records
}

// FromCatalog builds the catalog tab: customers first, then assets.
func FromCatalog(customers []string, assets []domain.Asset) []domain.Record {
	out := make([]domain.Record, 0, len(customers)+len(assets))
	for _, name := range customers {
		out = append(out, domain.Record{
			Title:       name,
			Description: "Cliente cadastrado",
			Category:    CategoryCustomers,
			Icon:        "👤",
			Ref:         name,
		})
	}
	for _, a := range assets {
		desc := "Sem preço padrão"
		if a.Price > 0 {
			desc = "Preço padrão " + FormatYen(a.Price)
		}
		out = append(out, domain.Record{
			Title:       a.Name,
			Description: desc,
			Category:    CategoryAssets,
			Icon:        "📚",
			Price:       a.Price,
			Ref:         strconv.Itoa(a.Code),
		})
	}
	return number(out)
}

// FromOrders builds the orders tab, categorized by derived status.
func FromOrders(orders []domain.Order) []domain.Record {
	out := make([]domain.Record, 0, len(orders))
	for _, o := range orders {
		desc := o.CustomerName
		if o.OrderDate != "" {
			desc += " · pedido em " + o.OrderDate
		}
		if o.DeliveryDate != "" {
			desc += " · entregue em " + o.DeliveryDate
		}
		out = append(out, domain.Record{
			Title:       fmt.Sprintf("#%d %s", o.OrderID, o.AssetName),
			Description: desc,
			Category:    o.Status(),
			Icon:        "📦",
			Price:       o.TotalValue,
			Ref:         strconv.Itoa(o.OrderID),
			Extra: map[string]string{
				"customer":      o.CustomerName,
				"order_date":    o.OrderDate,
				"delivery_date": o.DeliveryDate,
				"payment_type":  o.PaymentType,
				"order_yen":     FormatYen(o.OrderYen),
				"created_at":    o.CreatedAt,
			},
		})
	}
	return number(out)
}

// FromQuotes builds the quotes tab, categorized by quote status.
func FromQuotes(quotes []domain.Quote) []domain.Record {
	out := make([]domain.Record, 0, len(quotes))
	for _, q := range quotes {
		status := q.Status
		if status == "" {
			status = QuotePending
		}
		out = append(out, domain.Record{
			Title:       q.BookTitle,
			Description: fmt.Sprintf("%s · %s", q.CustomerName, FormatYen(float64(q.TotalJPY))),
			Category:    status,
			Icon:        "🧾",
			Price:       float64(q.TotalJPY),
			Ref:         strconv.Itoa(q.QuoteID),
			Extra: map[string]string{
				"customer":      q.CustomerName,
				"book_price":    strconv.FormatFloat(q.BookPrice, 'f', 2, 64),
				"profit":        strconv.FormatFloat(q.ProfitPercent, 'f', 0, 64) + "%",
				"shipping":      strconv.FormatFloat(q.ShippingCost, 'f', 2, 64),
				"exchange_rate": strconv.FormatFloat(q.ExchangeRate, 'f', 4, 64),
				"rate_source":   q.RateSource,
				"created_at":    q.CreatedAt,
			},
		})
	}
	return number(out)
}

// Assets recovers the asset list from catalog records, e.g. when they
// were served from the offline cache.
func Assets(records []domain.Record) []domain.Asset {
	var out []domain.Asset
	for _, r := range records {
		if r.Category != CategoryAssets {
			continue
		}
		code, _ := strconv.Atoi(r.Ref)
		out = append(out, domain.Asset{Code: code, Name: r.Title, Price: r.Price})
	}
	return out
}

// Customers recovers the customer names from catalog records.
func Customers(records []domain.Record) []string {
	var out []string
	for _, r := range records {
		if r.Category == CategoryCustomers {
			out = append(out, r.Title)
		}
	}
	return out
}

// AssetPrice returns the default price of the asset named name, matched
// case-insensitively. ok is false when the asset is unknown or has no price.
func AssetPrice(assets []domain.Asset, name string) (float64, bool) {
	for _, a := range assets {
		if strings.EqualFold(a.Name, name) {
			return a.Price, a.Price > 0
		}
	}
	return 0, false
}
