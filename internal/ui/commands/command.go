// Package commands turns backend operations into tea.Cmds. Every command
// runs off the UI goroutine and answers with a domain event: the success
// event, or a domain.ErrorEvent.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"quotedesk/internal/catalog"
	"quotedesk/internal/domain"
	"quotedesk/internal/eventbus"
	"quotedesk/internal/export"
	"quotedesk/internal/filter"
	"quotedesk/internal/logging"
)

var uiLog = logging.ForComponent(logging.CompUI)

// Backend is the part of the API client the UI mutates through
type Backend interface {
	ExchangeRate(ctx context.Context) (domain.ExchangeRate, error)
	Calculate(ctx context.Context, req domain.QuoteRequest) (domain.QuoteResult, error)
	SaveQuote(ctx context.Context, req domain.QuoteRequest, res domain.QuoteResult) (int, error)
	ApproveQuote(ctx context.Context, quoteID int) (domain.Approval, error)
	RejectQuote(ctx context.Context, quoteID int) error
	CreateCustomer(ctx context.Context, name string) (domain.Customer, error)
	CreateAsset(ctx context.Context, name string, price float64) (domain.Asset, error)
	BatchEditOrders(ctx context.Context, ids []int, deliveryDate, paymentType string) (domain.BatchResult, error)
	BatchDeleteOrders(ctx context.Context, ids []int) (domain.BatchResult, error)
}

// Command represents an executable action
type Command interface {
	Execute() tea.Cmd
}

// CommandContext provides context for command execution
type CommandContext struct {
	Backend Backend // nil in demo mode
	Loader  *catalog.Loader
	Bus     eventbus.EventBus
	Timeout time.Duration
}

// run executes fn with a timeout and converts its outcome into a message.
// Successful events are also published on the bus.
func (c *CommandContext) run(op string, fn func(ctx context.Context) (domain.DomainEvent, error)) tea.Cmd {
	return func() tea.Msg {
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		ev, err := fn(ctx)
		if err != nil {
			uiLog.Warn("command_failed", slog.String("op", op), slog.String("error", err.Error()))
			return domain.ErrorEvent{Message: fmt.Sprintf("%s failed", op), Err: err}
		}
		uiLog.Debug("command_done", slog.String("op", op), slog.Duration("took", time.Since(start)))
		if c.Bus != nil {
			c.Bus.Publish(ev)
		}
		return ev
	}
}

// errNoBackend is reported by mutations in demo mode
var errNoBackend = fmt.Errorf("no backend in demo mode")

// LoadCommand loads one source
type LoadCommand struct {
	ctx    *CommandContext
	source domain.Source
	page   int
}

func NewLoadCommand(ctx *CommandContext, src domain.Source, page int) *LoadCommand {
	return &LoadCommand{ctx: ctx, source: src, page: page}
}

// LoadFailedEvent reports a source that neither the backend nor the
// offline cache could serve
type LoadFailedEvent struct {
	Source domain.Source
	Err    error
}

func (e LoadFailedEvent) Type() domain.EventType { return domain.EventError }

func (c *LoadCommand) Execute() tea.Cmd {
	load := c.ctx.run("load "+string(c.source), func(ctx context.Context) (domain.DomainEvent, error) {
		snap, err := c.ctx.Loader.Load(ctx, c.source, c.page)
		if err != nil {
			return nil, err
		}
		return domain.RecordsLoadedEvent{Source: c.source, Records: snap.Records, Page: snap.Page, Stale: snap.Stale}, nil
	})
	return func() tea.Msg {
		msg := load()
		if ev, ok := msg.(domain.ErrorEvent); ok {
			return LoadFailedEvent{Source: c.source, Err: ev.Err}
		}
		return msg
	}
}

// CandidatesCommand loads the combobox vocabularies
type CandidatesCommand struct {
	ctx *CommandContext
}

func NewCandidatesCommand(ctx *CommandContext) *CandidatesCommand {
	return &CandidatesCommand{ctx: ctx}
}

func (c *CandidatesCommand) Execute() tea.Cmd {
	return c.ctx.run("load candidates", func(ctx context.Context) (domain.DomainEvent, error) {
		customers, assets, err := c.ctx.Loader.Candidates(ctx)
		if err != nil {
			return nil, err
		}
		return domain.CandidatesLoadedEvent{Customers: customers, Assets: assets}, nil
	})
}

// RateCommand fetches the exchange rate for the calculator
type RateCommand struct {
	ctx *CommandContext
}

func NewRateCommand(ctx *CommandContext) *RateCommand {
	return &RateCommand{ctx: ctx}
}

func (c *RateCommand) Execute() tea.Cmd {
	return c.ctx.run("exchange rate", func(ctx context.Context) (domain.DomainEvent, error) {
		if c.ctx.Backend == nil {
			return nil, errNoBackend
		}
		rate, err := c.ctx.Backend.ExchangeRate(ctx)
		if err != nil {
			return nil, err
		}
		return domain.RateLoadedEvent{Rate: rate}, nil
	})
}

// CalculateCommand prices a quote and, when save is set, persists it
type CalculateCommand struct {
	ctx  *CommandContext
	req  domain.QuoteRequest
	save bool
}

func NewCalculateCommand(ctx *CommandContext, req domain.QuoteRequest, save bool) *CalculateCommand {
	return &CalculateCommand{ctx: ctx, req: req, save: save}
}

func (c *CalculateCommand) Execute() tea.Cmd {
	return c.ctx.run("calculate", func(ctx context.Context) (domain.DomainEvent, error) {
		if c.ctx.Backend == nil {
			return nil, errNoBackend
		}
		res, err := c.ctx.Backend.Calculate(ctx, c.req)
		if err != nil {
			return nil, err
		}
		if !c.save {
			return domain.QuoteCalculatedEvent{Request: c.req, Result: res}, nil
		}
		id, err := c.ctx.Backend.SaveQuote(ctx, c.req, res)
		if err != nil {
			return nil, err
		}
		return QuoteStoredEvent{QuoteSavedEvent: domain.QuoteSavedEvent{QuoteID: id}, Result: res}, nil
	})
}

// QuoteStoredEvent is a saved quote together with its pricing
type QuoteStoredEvent struct {
	domain.QuoteSavedEvent
	Result domain.QuoteResult
}

// ApproveCommand turns a quote into an order
type ApproveCommand struct {
	ctx     *CommandContext
	quoteID int
}

func NewApproveCommand(ctx *CommandContext, quoteID int) *ApproveCommand {
	return &ApproveCommand{ctx: ctx, quoteID: quoteID}
}

func (c *ApproveCommand) Execute() tea.Cmd {
	return c.ctx.run("approve", func(ctx context.Context) (domain.DomainEvent, error) {
		if c.ctx.Backend == nil {
			return nil, errNoBackend
		}
		a, err := c.ctx.Backend.ApproveQuote(ctx, c.quoteID)
		if err != nil {
			return nil, err
		}
		return domain.QuoteApprovedEvent{Approval: a}, nil
	})
}

// RejectCommand discards a quote
type RejectCommand struct {
	ctx     *CommandContext
	quoteID int
}

func NewRejectCommand(ctx *CommandContext, quoteID int) *RejectCommand {
	return &RejectCommand{ctx: ctx, quoteID: quoteID}
}

func (c *RejectCommand) Execute() tea.Cmd {
	return c.ctx.run("reject", func(ctx context.Context) (domain.DomainEvent, error) {
		if c.ctx.Backend == nil {
			return nil, errNoBackend
		}
		if err := c.ctx.Backend.RejectQuote(ctx, c.quoteID); err != nil {
			return nil, err
		}
		return domain.QuoteRejectedEvent{QuoteID: c.quoteID}, nil
	})
}

// CreateCustomerCommand registers a customer chosen from the add-new entry
type CreateCustomerCommand struct {
	ctx  *CommandContext
	name string
}

func NewCreateCustomerCommand(ctx *CommandContext, name string) *CreateCustomerCommand {
	return &CreateCustomerCommand{ctx: ctx, name: name}
}

func (c *CreateCustomerCommand) Execute() tea.Cmd {
	return c.ctx.run("create customer", func(ctx context.Context) (domain.DomainEvent, error) {
		if c.ctx.Backend == nil {
			return nil, errNoBackend
		}
		cust, err := c.ctx.Backend.CreateCustomer(ctx, c.name)
		if err != nil {
			return nil, err
		}
		if c.ctx.Loader != nil && c.ctx.Loader.Store != nil {
			c.ctx.Loader.Store.AddCustomer(cust.Name)
		}
		return domain.CustomerCreatedEvent{Customer: cust}, nil
	})
}

// CreateAssetCommand registers an asset chosen from the add-new entry
type CreateAssetCommand struct {
	ctx   *CommandContext
	name  string
	price float64
}

func NewCreateAssetCommand(ctx *CommandContext, name string, price float64) *CreateAssetCommand {
	return &CreateAssetCommand{ctx: ctx, name: name, price: price}
}

func (c *CreateAssetCommand) Execute() tea.Cmd {
	return c.ctx.run("create asset", func(ctx context.Context) (domain.DomainEvent, error) {
		if c.ctx.Backend == nil {
			return nil, errNoBackend
		}
		a, err := c.ctx.Backend.CreateAsset(ctx, c.name, c.price)
		if err != nil {
			return nil, err
		}
		if c.ctx.Loader != nil && c.ctx.Loader.Store != nil {
			c.ctx.Loader.Store.AddAsset(a)
		}
		return domain.AssetCreatedEvent{Asset: a}, nil
	})
}

// BatchEditCommand updates several orders
type BatchEditCommand struct {
	ctx          *CommandContext
	ids          []int
	deliveryDate string
	paymentType  string
}

func NewBatchEditCommand(ctx *CommandContext, ids []int, deliveryDate, paymentType string) *BatchEditCommand {
	return &BatchEditCommand{ctx: ctx, ids: ids, deliveryDate: deliveryDate, paymentType: paymentType}
}

func (c *BatchEditCommand) Execute() tea.Cmd {
	return c.ctx.run("batch edit", func(ctx context.Context) (domain.DomainEvent, error) {
		if c.ctx.Backend == nil {
			return nil, errNoBackend
		}
		res, err := c.ctx.Backend.BatchEditOrders(ctx, c.ids, c.deliveryDate, c.paymentType)
		if err != nil {
			return nil, err
		}
		return domain.OrdersBatchEditedEvent{Result: res}, nil
	})
}

// BatchDeleteCommand removes several orders
type BatchDeleteCommand struct {
	ctx *CommandContext
	ids []int
}

func NewBatchDeleteCommand(ctx *CommandContext, ids []int) *BatchDeleteCommand {
	return &BatchDeleteCommand{ctx: ctx, ids: ids}
}

func (c *BatchDeleteCommand) Execute() tea.Cmd {
	return c.ctx.run("batch delete", func(ctx context.Context) (domain.DomainEvent, error) {
		if c.ctx.Backend == nil {
			return nil, errNoBackend
		}
		res, err := c.ctx.Backend.BatchDeleteOrders(ctx, c.ids)
		if err != nil {
			return nil, err
		}
		return domain.OrdersBatchDeletedEvent{Result: res}, nil
	})
}

// ExportedEvent reports a finished export
type ExportedEvent struct {
	Path  string
	Count int
}

func (e ExportedEvent) Type() domain.EventType { return "Exported" }

// ExportCommand writes a result set to an xlsx file
type ExportCommand struct {
	ctx   *CommandContext
	path  string
	sheet string
	rs    filter.ResultSet
}

func NewExportCommand(ctx *CommandContext, path, sheet string, rs filter.ResultSet) *ExportCommand {
	return &ExportCommand{ctx: ctx, path: path, sheet: sheet, rs: rs}
}

func (c *ExportCommand) Execute() tea.Cmd {
	return c.ctx.run("export", func(ctx context.Context) (domain.DomainEvent, error) {
		if err := export.WriteXLSX(c.path, c.sheet, c.rs, catalog.Label); err != nil {
			return nil, err
		}
		return ExportedEvent{Path: c.path, Count: c.rs.Len()}, nil
	})
}
