package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"quotedesk/internal/domain"
)

// flashSelectors match the flash message markup of the server-rendered pages
const flashSelectors = ".flash, .flash-message, .alert, [role=alert], .messages li"

// BatchEditOrders sets the delivery date and/or payment type on several
// orders. Empty fields are left unchanged; at least one must be set.
func (c *Client) BatchEditOrders(ctx context.Context, ids []int, deliveryDate, paymentType string) (domain.BatchResult, error) {
	if len(ids) == 0 {
		return domain.BatchResult{}, validation("No orders selected for batch edit")
	}
	if deliveryDate == "" && paymentType == "" {
		return domain.BatchResult{}, validation("No fields selected for update")
	}
	if deliveryDate != "" {
		if _, err := time.Parse(time.DateOnly, deliveryDate); err != nil {
			return domain.BatchResult{}, validation("delivery date must be YYYY-MM-DD")
		}
	}

	form := url.Values{"order_ids": {joinIDs(ids)}}
	if deliveryDate != "" {
		form.Set("delivery_date", deliveryDate)
	}
	if paymentType != "" {
		form.Set("payment_type", paymentType)
	}
	return c.batch(ctx, "batch-edit", "/orders/batch-edit", ids, form)
}

// BatchDeleteOrders removes several orders
func (c *Client) BatchDeleteOrders(ctx context.Context, ids []int) (domain.BatchResult, error) {
	if len(ids) == 0 {
		return domain.BatchResult{}, validation("No orders selected for batch delete")
	}
	form := url.Values{"order_ids": {joinIDs(ids)}}
	return c.batch(ctx, "batch-delete", "/orders/batch-delete", ids, form)
}

// batch posts a form to an HTML endpoint. The backend answers with a
// redirect to a page whose flash message reports the outcome.
func (c *Client) batch(ctx context.Context, action, path string, ids []int, form url.Values) (domain.BatchResult, error) {
	release, err := c.begin(action)
	if err != nil {
		return domain.BatchResult{}, err
	}
	defer release()

	resp, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        path,
		query:       url.Values{"return": {"orders"}},
		body:        []byte(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	})
	if err != nil {
		return domain.BatchResult{}, fmt.Errorf("%s: %w", action, err)
	}

	if resp.url != nil && strings.Contains(resp.url.Path, "login") {
		return domain.BatchResult{}, fmt.Errorf("%s: %w", action, ErrUnauthorized)
	}

	msg := ParseFlash(resp.body)
	if msg != "" && !strings.HasPrefix(msg, "Successfully") {
		return domain.BatchResult{}, fmt.Errorf("%s: %w", action, &APIError{Status: resp.status, Message: msg})
	}
	return domain.BatchResult{OrderIDs: append([]int(nil), ids...), Message: msg, At: time.Now()}, nil
}

// ParseFlash extracts the first flash message from an HTML page.
// It returns "" when the page has none or is not HTML.
func ParseFlash(page []byte) string {
	if len(page) == 0 {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return ""
	}
	var msg string
	doc.Find(flashSelectors).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		// drop close buttons and icons rendered inside the alert
		s = s.Clone()
		s.Find("button, .close, .btn-close, i").Remove()
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			return true
		}
		msg = text
		return false
	})
	return msg
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
