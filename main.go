package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"quotedesk/internal/api"
	"quotedesk/internal/cache"
	"quotedesk/internal/catalog"
	"quotedesk/internal/config"
	"quotedesk/internal/domain"
	"quotedesk/internal/eventbus"
	"quotedesk/internal/logging"
	"quotedesk/internal/theme"
	"quotedesk/internal/ui"
)

// e2eEnv makes the binary announce readiness for the pty test driver
const e2eEnv = "QUOTEDESK_E2E_TEST"

func main() {
	var (
		configPath string
		apiURL     string
		demoOnly   bool
		debug      bool
	)
	flag.StringVar(&configPath, "config", "", "Path to config.toml (default: user config dir)")
	flag.StringVar(&apiURL, "api", "", "Backend base URL (overrides the config file)")
	flag.BoolVar(&demoOnly, "demo", false, "Show only the offline demo dataset")
	flag.BoolVar(&debug, "debug", false, "Write debug logs")
	flag.Parse()

	if err := run(configPath, apiURL, demoOnly, debug); err != nil {
		fmt.Fprintf(os.Stderr, "quotedesk: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, apiURL string, demoOnly, debug bool) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := eventbus.New()
	defer bus.Close()

	configSvc := config.NewConfigServiceWithBus(configPath, bus)
	cfg, err := configSvc.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}

	logging.Init(cfg.LoggingConfig(debug))
	defer logging.Shutdown()
	log := logging.Logger()
	log.Info("starting", slog.String("config", configSvc.Path()), slog.String("api", cfg.API.BaseURL), slog.Bool("demo", demoOnly))

	loader := &catalog.Loader{Store: catalog.NewMemoryStore()}
	var backend *api.Client
	if !demoOnly {
		backend, err = api.New(api.Options{
			BaseURL:       cfg.API.BaseURL,
			Timeout:       cfg.API.Timeout.Duration,
			Retries:       cfg.API.Retries,
			RetryBackoff:  cfg.API.RetryBackoff.Duration,
			RatePerSecond: cfg.API.RatePerSecond,
			Burst:         cfg.API.Burst,
			SessionCookie: cfg.API.SessionCookie,
		})
		if err != nil {
			return fmt.Errorf("api client: %w", err)
		}
		loader.Backend = backend
	}

	if cfg.Cache.Enabled && !demoOnly {
		db, err := openCache(cfg.Cache.Path)
		if err != nil {
			log.Warn("cache_unavailable", slog.String("path", cfg.Cache.Path), slog.String("error", err.Error()))
		} else {
			defer db.Close()
			loader.Cache = db
		}
	}

	current := cfg.Theme.Current
	if current == "" && cfg.Theme.FollowSystem {
		if name, ok := theme.Detect(); ok {
			current = name
		}
	}
	switcher := theme.NewSwitcher(cfg.Theme.Cycle, current)

	// The model owns its copy; main only reads cfg during startup
	uiCfg := *cfg
	opts := ui.Options{
		Config:   &uiCfg,
		Bus:      bus,
		Loader:   loader,
		Switcher: switcher,
		DemoOnly: demoOnly,
	}
	if backend != nil {
		opts.Backend = backend
	}
	model := ui.NewModel(opts)
	p := tea.NewProgram(model, tea.WithAltScreen())
	model.SetProgram(p)

	subscribe(bus, configSvc)

	watcher, err := config.NewWatcher(configSvc, bus, func(reloaded *config.Config) {
		p.Send(ui.ConfigReloadedMsg{Config: reloaded})
	})
	if err != nil {
		log.Warn("config_watch_failed", slog.String("error", err.Error()))
	} else {
		go watcher.Start()
		defer watcher.Stop()
	}

	if cfg.Theme.FollowSystem && cfg.Theme.Current == "" {
		if tw := theme.NewWatcher(ctx); tw != nil {
			defer tw.Close()
			go func() {
				for name := range tw.Changes() {
					p.Send(ui.SystemThemeMsg{Theme: name})
				}
			}()
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			p.Quit()
		case <-ctx.Done():
		}
	}()

	if os.Getenv(e2eEnv) == "1" {
		fmt.Println("__READY__")
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	log.Info("exited")
	return nil
}

func openCache(path string) (*cache.Cache, error) {
	db, err := cache.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return db, nil
}

// subscribe wires the bus listeners that outlive any single screen:
// theme persistence and the audit trail of backend mutations.
func subscribe(bus eventbus.EventBus, svc config.ConfigService) {
	audit := logging.ForComponent(logging.CompBus)

	bus.Subscribe(domain.EventThemeChanged, func(e eventbus.DomainEvent) {
		ev, ok := e.(domain.ThemeChangedEvent)
		if !ok {
			return
		}
		err := svc.Update(func(c *config.Config) { c.Theme.Current = ev.Theme })
		if err != nil {
			audit.Warn("theme_save_failed", slog.String("error", err.Error()))
		}
	})

	for _, t := range []domain.EventType{
		domain.EventQuoteSaved,
		domain.EventQuoteApproved,
		domain.EventQuoteRejected,
		domain.EventOrdersBatchEdited,
		domain.EventOrdersBatchDeleted,
		domain.EventCustomerCreated,
		domain.EventAssetCreated,
	} {
		bus.Subscribe(t, func(e eventbus.DomainEvent) {
			audit.Info("mutation", slog.String("event", string(e.Type())), slog.Any("detail", e))
		})
	}

	bus.Subscribe(domain.EventConfigChanged, func(e eventbus.DomainEvent) {
		if ev, ok := e.(domain.ConfigChangedEvent); ok {
			audit.Debug("config_changed", slog.String("path", ev.Path))
		}
	})
}
