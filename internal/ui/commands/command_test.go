package commands

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotedesk/internal/catalog"
	"quotedesk/internal/domain"
	"quotedesk/internal/eventbus"
	"quotedesk/internal/filter"
)

type fakeBackend struct {
	saved    []domain.QuoteRequest
	approved []int
	deleted  []int
	err      error
}

func (f *fakeBackend) ExchangeRate(ctx context.Context) (domain.ExchangeRate, error) {
	return domain.ExchangeRate{Rate: 27.5, Source: "bcb"}, f.err
}

func (f *fakeBackend) Calculate(ctx context.Context, req domain.QuoteRequest) (domain.QuoteResult, error) {
	if f.err != nil {
		return domain.QuoteResult{}, f.err
	}
	return domain.QuoteResult{BookPrice: req.BookPrice, TotalBRL: req.BookPrice + req.ShippingCost}, nil
}

func (f *fakeBackend) SaveQuote(ctx context.Context, req domain.QuoteRequest, res domain.QuoteResult) (int, error) {
	f.saved = append(f.saved, req)
	return len(f.saved), nil
}

func (f *fakeBackend) ApproveQuote(ctx context.Context, quoteID int) (domain.Approval, error) {
	f.approved = append(f.approved, quoteID)
	return domain.Approval{QuoteID: quoteID, OrderID: 99}, nil
}

func (f *fakeBackend) RejectQuote(ctx context.Context, quoteID int) error { return f.err }

func (f *fakeBackend) CreateCustomer(ctx context.Context, name string) (domain.Customer, error) {
	return domain.Customer{ID: 5, Name: name}, nil
}

func (f *fakeBackend) CreateAsset(ctx context.Context, name string, price float64) (domain.Asset, error) {
	return domain.Asset{Code: 8, Name: name, Price: price}, nil
}

func (f *fakeBackend) BatchEditOrders(ctx context.Context, ids []int, deliveryDate, paymentType string) (domain.BatchResult, error) {
	return domain.BatchResult{OrderIDs: ids, Message: "2 pedidos atualizados"}, nil
}

func (f *fakeBackend) BatchDeleteOrders(ctx context.Context, ids []int) (domain.BatchResult, error) {
	f.deleted = append(f.deleted, ids...)
	return domain.BatchResult{OrderIDs: ids}, nil
}

func newContext(b Backend) *CommandContext {
	return &CommandContext{
		Backend: b,
		Loader:  &catalog.Loader{Store: catalog.NewMemoryStore()},
		Timeout: time.Second,
	}
}

func TestLoadDemo(t *testing.T) {
	msg := NewLoadCommand(newContext(nil), domain.SourceDemo, 1).Execute()()

	ev, ok := msg.(domain.RecordsLoadedEvent)
	require.True(t, ok)
	assert.Equal(t, domain.SourceDemo, ev.Source)
	assert.Len(t, ev.Records, 10)
	assert.False(t, ev.Stale)
}

func TestLoadWithoutBackendFails(t *testing.T) {
	msg := NewLoadCommand(newContext(nil), domain.SourceOrders, 1).Execute()()

	ev, ok := msg.(LoadFailedEvent)
	require.True(t, ok)
	assert.Equal(t, domain.SourceOrders, ev.Source)
	assert.Error(t, ev.Err)
}

func TestCalculateAndSave(t *testing.T) {
	b := &fakeBackend{}
	req := domain.QuoteRequest{CustomerName: "Ana", BookTitle: "Duna", BookPrice: 50, ShippingCost: 20}

	msg := NewCalculateCommand(newContext(b), req, false).Execute()()
	calc, ok := msg.(domain.QuoteCalculatedEvent)
	require.True(t, ok)
	assert.Equal(t, 70.0, calc.Result.TotalBRL)
	assert.Empty(t, b.saved)

	msg = NewCalculateCommand(newContext(b), req, true).Execute()()
	stored, ok := msg.(QuoteStoredEvent)
	require.True(t, ok)
	assert.Equal(t, 1, stored.QuoteID)
	assert.Equal(t, 70.0, stored.Result.TotalBRL)
	assert.Equal(t, []domain.QuoteRequest{req}, b.saved)
}

func TestRateCommand(t *testing.T) {
	msg := NewRateCommand(newContext(&fakeBackend{})).Execute()()

	ev, ok := msg.(domain.RateLoadedEvent)
	require.True(t, ok)
	assert.Equal(t, domain.ExchangeRate{Rate: 27.5, Source: "bcb"}, ev.Rate)
}

func TestBackendErrorBecomesErrorEvent(t *testing.T) {
	b := &fakeBackend{err: errors.New("503")}

	msg := NewRejectCommand(newContext(b), 3).Execute()()
	ev, ok := msg.(domain.ErrorEvent)
	require.True(t, ok)
	assert.Equal(t, "reject failed", ev.Message)
	assert.EqualError(t, ev.Err, "503")
}

func TestMutationsNeedBackend(t *testing.T) {
	ctx := newContext(nil)
	for _, cmd := range []Command{
		NewApproveCommand(ctx, 1),
		NewRejectCommand(ctx, 1),
		NewBatchDeleteCommand(ctx, []int{1}),
		NewCreateCustomerCommand(ctx, "Ana"),
	} {
		ev, ok := cmd.Execute()().(domain.ErrorEvent)
		require.True(t, ok)
		assert.ErrorIs(t, ev.Err, errNoBackend)
	}
}

func TestApprovePublishesOnBus(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	got := make(chan domain.QuoteApprovedEvent, 1)
	bus.Subscribe(domain.EventQuoteApproved, func(e eventbus.DomainEvent) {
		got <- e.(domain.QuoteApprovedEvent)
	})

	b := &fakeBackend{}
	ctx := newContext(b)
	ctx.Bus = bus
	msg := NewApproveCommand(ctx, 7).Execute()()

	assert.Equal(t, domain.QuoteApprovedEvent{Approval: domain.Approval{QuoteID: 7, OrderID: 99}}, msg)
	select {
	case ev := <-got:
		assert.Equal(t, 99, ev.Approval.OrderID)
	case <-time.After(2 * time.Second):
		t.Fatal("approval was not published")
	}
	assert.Equal(t, []int{7}, b.approved)
}

func TestCreateCustomerUpdatesStore(t *testing.T) {
	ctx := newContext(&fakeBackend{})
	msg := NewCreateCustomerCommand(ctx, "Carla").Execute()()

	ev, ok := msg.(domain.CustomerCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, "Carla", ev.Customer.Name)
	customers, _ := ctx.Loader.Store.Candidates()
	assert.Contains(t, customers, "Carla")
}

func TestBatchCommands(t *testing.T) {
	b := &fakeBackend{}
	ctx := newContext(b)

	msg := NewBatchEditCommand(ctx, []int{1, 2}, "2025-03-01", "pix").Execute()()
	edited, ok := msg.(domain.OrdersBatchEditedEvent)
	require.True(t, ok)
	assert.Equal(t, "2 pedidos atualizados", edited.Result.Message)

	msg = NewBatchDeleteCommand(ctx, []int{4}).Execute()()
	_, ok = msg.(domain.OrdersBatchDeletedEvent)
	require.True(t, ok)
	assert.Equal(t, []int{4}, b.deleted)
}

func TestExportWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.xlsx")
	rs := filter.New(catalog.Demo()).Recompute()

	msg := NewExportCommand(newContext(nil), path, "Demo", rs).Execute()()
	ev, ok := msg.(ExportedEvent)
	require.True(t, ok)
	assert.Equal(t, 10, ev.Count)
	assert.FileExists(t, path)
}
