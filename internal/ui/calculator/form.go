// Package calculator is the quote form: customer and asset comboboxes plus
// the numeric inputs the pricing endpoint needs.
package calculator

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"quotedesk/internal/catalog"
	"quotedesk/internal/combobox"
	"quotedesk/internal/domain"
)

// Field identifies one input of the form
type Field int

const (
	FieldCustomer Field = iota
	FieldAsset
	FieldPrice
	FieldShipping
	FieldProfit
	FieldAdjustment
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Customer",
	"Book",
	"Book price (BRL)",
	"Shipping (BRL)",
	"Profit %",
	"Shipping adjustment (JPY)",
}

// Label returns the caption of f
func (f Field) Label() string {
	if f < 0 || f >= fieldCount {
		return ""
	}
	return fieldLabels[f]
}

// Outcome tells the model what a key press asked for
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeCancel
	OutcomeSubmit
	OutcomeCreateCustomer
	OutcomeCreateAsset
)

// Result is returned from HandleKey
type Result struct {
	Outcome Outcome
	Name    string  // value to create
	Price   float64 // asset price for OutcomeCreateAsset
}

// Options configure the two comboboxes
type Options struct {
	Limit               int
	AddNewCustomerLabel string
	AddNewAssetLabel    string
}

// Form is driven from the UI update loop only
type Form struct {
	inputs  [fieldCount]textinput.Model
	sources [2]*combobox.Input
	boxes   [2]*combobox.Combobox
	focus   Field

	assets []domain.Asset

	result *domain.QuoteResult
	rate   *domain.ExchangeRate
	busy   bool
}

// New creates the form over the known customers and assets
func New(customers []string, assets []domain.Asset, opts Options) *Form {
	f := &Form{}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 120
		f.inputs[i] = ti
	}
	f.inputs[FieldProfit].Placeholder = strconv.Itoa(domain.DefaultProfitPercent)
	f.inputs[FieldAdjustment].Placeholder = "0"

	f.sources[FieldCustomer] = combobox.NewInput("")
	f.sources[FieldAsset] = combobox.NewInput("")
	f.boxes[FieldCustomer] = combobox.New("customer", customers, combobox.Options{
		Limit:       opts.Limit,
		AddNewLabel: opts.AddNewCustomerLabel,
	})
	f.boxes[FieldAsset] = combobox.New("asset", nil, combobox.Options{
		Limit:       opts.Limit,
		AddNewLabel: opts.AddNewAssetLabel,
	})
	f.SetAssets(assets)
	f.setFocus(FieldCustomer)
	return f
}

// SetCustomers replaces the customer vocabulary
func (f *Form) SetCustomers(customers []string) {
	f.boxes[FieldCustomer].SetCandidates(customers)
}

// SetAssets replaces the asset vocabulary and the price table
func (f *Form) SetAssets(assets []domain.Asset) {
	f.assets = append([]domain.Asset(nil), assets...)
	names := make([]string, len(assets))
	for i, a := range assets {
		names[i] = a.Name
	}
	f.boxes[FieldAsset].SetCandidates(names)
}

// CustomerCreated adds name to the vocabulary and puts it in the field
func (f *Form) CustomerCreated(name string) {
	f.boxes[FieldCustomer].AddCandidate(name)
	f.setValue(FieldCustomer, name)
}

// AssetCreated adds a to the vocabulary and puts it in the field
func (f *Form) AssetCreated(a domain.Asset) {
	f.assets = append(f.assets, a)
	f.boxes[FieldAsset].AddCandidate(a.Name)
	f.setValue(FieldAsset, a.Name)
	f.autofillPrice()
}

// Focus returns the focused field
func (f *Form) Focus() Field { return f.focus }

// Value returns the text of field
func (f *Form) Value(field Field) string {
	return f.inputs[field].Value()
}

// InputView renders the input of field
func (f *Form) InputView(field Field) string {
	return f.inputs[field].View()
}

// Suggestions returns the open dropdown of the focused field and its cursor
func (f *Form) Suggestions() ([]combobox.Suggestion, int, bool) {
	box := f.box(f.focus)
	if box == nil || !box.IsOpen() {
		return nil, -1, false
	}
	return box.Suggestions(), box.Cursor(), true
}

// SetBusy marks a request in flight; keys other than esc are ignored
func (f *Form) SetBusy(busy bool) { f.busy = busy }

// Busy reports whether a request is in flight
func (f *Form) Busy() bool { return f.busy }

// SetResult stores the last calculation
func (f *Form) SetResult(res domain.QuoteResult) {
	f.result = &res
}

// SetRate stores the exchange rate announced by the backend
func (f *Form) SetRate(rate domain.ExchangeRate) {
	f.rate = &rate
}

// Rate returns the announced exchange rate, if any
func (f *Form) Rate() (domain.ExchangeRate, bool) {
	if f.rate == nil {
		return domain.ExchangeRate{}, false
	}
	return *f.rate, true
}

// LastResult returns the last calculation, if any
func (f *Form) LastResult() (domain.QuoteResult, bool) {
	if f.result == nil {
		return domain.QuoteResult{}, false
	}
	return *f.result, true
}

// Reset clears every field and focuses the customer
func (f *Form) Reset() {
	for i := range f.inputs {
		f.setValue(Field(i), "")
	}
	f.result = nil
	f.busy = false
	f.setFocus(FieldCustomer)
}

// Close releases the combobox bindings
func (f *Form) Close() {
	for _, b := range f.boxes {
		b.Detach()
	}
}

// HandleKey applies one key press
func (f *Form) HandleKey(msg tea.KeyMsg) (Result, tea.Cmd) {
	box := f.box(f.focus)
	open := box != nil && box.IsOpen()

	switch msg.String() {
	case "esc":
		if open {
			box.Close()
			return Result{}, nil
		}
		return Result{Outcome: OutcomeCancel}, nil
	}

	if f.busy {
		return Result{}, nil
	}

	switch msg.String() {
	case "ctrl+s":
		return Result{Outcome: OutcomeSubmit}, nil

	case "tab":
		return Result{}, f.setFocus((f.focus + 1) % fieldCount)

	case "shift+tab":
		return Result{}, f.setFocus((f.focus + fieldCount - 1) % fieldCount)

	case "down":
		if open {
			box.Next()
			return Result{}, nil
		}
		return Result{}, f.setFocus((f.focus + 1) % fieldCount)

	case "up":
		if open {
			box.Prev()
			return Result{}, nil
		}
		return Result{}, f.setFocus((f.focus + fieldCount - 1) % fieldCount)

	case "enter":
		if open {
			if s, ok := box.Accept(); ok {
				return f.accepted(s), nil
			}
		}
		if f.focus == fieldCount-1 {
			return Result{Outcome: OutcomeSubmit}, nil
		}
		return Result{}, f.setFocus(f.focus + 1)
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	if src := f.source(f.focus); src != nil {
		src.Set(f.inputs[f.focus].Value())
	}
	if f.focus == FieldAsset {
		f.autofillPrice()
	}
	return Result{}, cmd
}

// accepted handles a dropdown choice
func (f *Form) accepted(s combobox.Suggestion) Result {
	f.inputs[f.focus].SetValue(f.source(f.focus).Value())
	f.inputs[f.focus].CursorEnd()

	if !s.AddNew {
		if f.focus == FieldAsset {
			f.autofillPrice()
		}
		return Result{}
	}

	name := strings.TrimSpace(s.Value)
	if f.focus == FieldCustomer {
		return Result{Outcome: OutcomeCreateCustomer, Name: name}
	}
	price, _ := parseNumber(f.inputs[FieldPrice].Value())
	return Result{Outcome: OutcomeCreateAsset, Name: name, Price: price}
}

// autofillPrice copies the catalog price of the chosen asset
func (f *Form) autofillPrice() {
	if price, ok := catalog.AssetPrice(f.assets, f.inputs[FieldAsset].Value()); ok {
		f.inputs[FieldPrice].SetValue(strconv.FormatFloat(price, 'f', -1, 64))
	}
}

// Request validates the inputs and builds the pricing request
func (f *Form) Request() (domain.QuoteRequest, error) {
	req := domain.QuoteRequest{
		CustomerName: strings.TrimSpace(f.Value(FieldCustomer)),
		BookTitle:    strings.TrimSpace(f.Value(FieldAsset)),
	}
	if req.CustomerName == "" {
		return req, errors.New("customer is required")
	}
	if req.BookTitle == "" {
		return req, errors.New("book is required")
	}

	var err error
	if req.BookPrice, err = parseNumber(f.Value(FieldPrice)); err != nil || req.BookPrice <= 0 {
		return req, errors.New("book price must be a positive number")
	}
	if req.ShippingCost, err = parseNumber(f.Value(FieldShipping)); err != nil || req.ShippingCost <= 0 {
		return req, errors.New("shipping must be a positive number")
	}
	if req.ProfitPercent, err = parseNumber(f.Value(FieldProfit)); err != nil || req.ProfitPercent < 0 {
		return req, errors.New("profit % must be zero or more")
	}
	if req.ShippingAdjustmentJPY, err = parseNumber(f.Value(FieldAdjustment)); err != nil {
		return req, errors.New("shipping adjustment must be a number")
	}
	return req, nil
}

func (f *Form) setFocus(field Field) tea.Cmd {
	if box := f.box(f.focus); box != nil {
		box.Detach()
	}
	f.inputs[f.focus].Blur()

	f.focus = field
	if box := f.box(field); box != nil {
		box.Attach(f.source(field))
	}
	return f.inputs[field].Focus()
}

func (f *Form) setValue(field Field, v string) {
	f.inputs[field].SetValue(v)
	f.inputs[field].CursorEnd()
	if src := f.source(field); src != nil {
		src.Set(v)
	}
	if box := f.box(field); box != nil {
		box.Close()
	}
}

func (f *Form) box(field Field) *combobox.Combobox {
	if field == FieldCustomer || field == FieldAsset {
		return f.boxes[field]
	}
	return nil
}

func (f *Form) source(field Field) *combobox.Input {
	if field == FieldCustomer || field == FieldAsset {
		return f.sources[field]
	}
	return nil
}

// parseNumber accepts "1234.5", "1234,5" and blank (zero)
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}
