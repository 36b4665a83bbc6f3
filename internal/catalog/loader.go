package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"quotedesk/internal/domain"
	"quotedesk/internal/logging"
)

var loadLog = logging.ForComponent(logging.CompCache)

// Backend is the part of the API client the loader reads from
type Backend interface {
	Customers(ctx context.Context) ([]string, error)
	Assets(ctx context.Context) ([]domain.Asset, error)
	Orders(ctx context.Context, page int) (domain.OrderPage, error)
	Quotes(ctx context.Context) ([]domain.Quote, error)
}

// Cache is the offline store the loader falls back to
type Cache interface {
	SaveRecords(kind string, records []domain.Record) error
	LoadRecords(kind string) ([]domain.Record, error)
	SaveCandidates(kind string, values []string) error
	LoadCandidates(kind string) ([]string, error)
}

// Loader fetches a source from the backend, mirrors it into the cache and
// serves the cached copy, marked stale, when the backend is unreachable.
// Backend and Cache may each be nil.
type Loader struct {
	Backend Backend
	Cache   Cache
	Store   *MemoryStore
}

// Load returns the records of src. page only applies to orders.
func (l *Loader) Load(ctx context.Context, src domain.Source, page int) (Snapshot, error) {
	if src == domain.SourceDemo {
		snap := Snapshot{Records: Demo()}
		l.remember(src, snap)
		return snap, nil
	}
	if l.Backend == nil {
		return l.fallback(src, fmt.Errorf("no backend configured"))
	}

	snap, err := l.fetch(ctx, src, page)
	if err != nil {
		return l.fallback(src, err)
	}
	if l.Cache != nil {
		if err := l.Cache.SaveRecords(string(src), snap.Records); err != nil {
			loadLog.Warn("cache_save_failed", slog.String("source", string(src)), slog.String("error", err.Error()))
		}
	}
	l.remember(src, snap)
	return snap, nil
}

func (l *Loader) fetch(ctx context.Context, src domain.Source, page int) (Snapshot, error) {
	switch src {
	case domain.SourceCatalog:
		customers, err := l.Backend.Customers(ctx)
		if err != nil {
			return Snapshot{}, err
		}
		assets, err := l.Backend.Assets(ctx)
		if err != nil {
			return Snapshot{}, err
		}
		l.setCandidates(customers, assets)
		return Snapshot{Records: FromCatalog(customers, assets)}, nil
	case domain.SourceOrders:
		p, err := l.Backend.Orders(ctx, page)
		if err != nil {
			return Snapshot{}, err
		}
		return Snapshot{Records: FromOrders(p.Orders), Page: &p}, nil
	case domain.SourceQuotes:
		quotes, err := l.Backend.Quotes(ctx)
		if err != nil {
			return Snapshot{}, err
		}
		return Snapshot{Records: FromQuotes(quotes)}, nil
	}
	return Snapshot{}, fmt.Errorf("unknown source %q", src)
}

func (l *Loader) fallback(src domain.Source, cause error) (Snapshot, error) {
	if l.Cache == nil {
		return Snapshot{}, cause
	}
	records, err := l.Cache.LoadRecords(string(src))
	if err != nil {
		return Snapshot{}, cause
	}
	loadLog.Info("serving_cached", slog.String("source", string(src)), slog.Int("count", len(records)), slog.String("cause", cause.Error()))
	snap := Snapshot{Records: records, Stale: true}
	if src == domain.SourceCatalog {
		l.rememberCandidates(Customers(records), Assets(records))
	}
	l.remember(src, snap)
	return snap, nil
}

// Candidates returns the combobox vocabularies: customer names and assets.
// They come from the backend, then the cache, then whatever the store holds.
func (l *Loader) Candidates(ctx context.Context) ([]string, []domain.Asset, error) {
	if l.Backend != nil {
		customers, err := l.Backend.Customers(ctx)
		if err == nil {
			var assets []domain.Asset
			assets, err = l.Backend.Assets(ctx)
			if err == nil {
				l.setCandidates(customers, assets)
				return customers, assets, nil
			}
		}
		loadLog.Warn("candidates_fetch_failed", slog.String("error", err.Error()))
	}
	if l.Cache != nil {
		customers, cerr := l.Cache.LoadCandidates(CategoryCustomers)
		records, rerr := l.Cache.LoadRecords(string(domain.SourceCatalog))
		if cerr == nil || rerr == nil {
			if cerr != nil {
				customers = Customers(records)
			}
			assets := Assets(records)
			l.rememberCandidates(customers, assets)
			return customers, assets, nil
		}
	}
	if l.Store != nil {
		customers, assets := l.Store.Candidates()
		return customers, assets, nil
	}
	return nil, nil, fmt.Errorf("no candidates available")
}

func (l *Loader) setCandidates(customers []string, assets []domain.Asset) {
	if l.Cache != nil {
		if err := l.Cache.SaveCandidates(CategoryCustomers, customers); err != nil {
			loadLog.Warn("cache_save_failed", slog.String("kind", CategoryCustomers), slog.String("error", err.Error()))
		}
	}
	l.rememberCandidates(customers, assets)
}

func (l *Loader) rememberCandidates(customers []string, assets []domain.Asset) {
	if l.Store != nil {
		l.Store.SetCandidates(customers, assets)
	}
}

func (l *Loader) remember(src domain.Source, snap Snapshot) {
	if l.Store != nil {
		l.Store.Put(src, snap)
	}
}
