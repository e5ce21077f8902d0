package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/samvad-hq/soccer-hub/internal/config"
	"github.com/samvad-hq/soccer-hub/internal/dashboard"
	"github.com/samvad-hq/soccer-hub/internal/footballdata"
	"github.com/samvad-hq/soccer-hub/internal/logger"
	"github.com/samvad-hq/soccer-hub/internal/storage"
	"github.com/samvad-hq/soccer-hub/internal/web"
	"github.com/samvad-hq/soccer-hub/pkg/competitions"
	"github.com/samvad-hq/soccer-hub/pkg/fetch"
	"github.com/samvad-hq/soccer-hub/pkg/httpclient"
	"github.com/samvad-hq/soccer-hub/pkg/publishers"
)

const shutdownTimeout = 10 * time.Second

// App represents the soccer-hub runtime. It owns the web server, the optional
// background refresher, the snapshot store and the publisher fan-out.
type App struct {
	cfg       *config.Config
	server    *web.Server
	refresher *Refresher
	fanout    *publishers.Fanout
	store     storage.Store
	log       logger.Logger
}

// New builds the runtime from config.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	catalog, err := competitions.Load(cfg.CompetitionsFile)
	if err != nil {
		return nil, fmt.Errorf("load competitions catalog: %w", err)
	}
	log.InfoObj("competitions catalog loaded", "competitions_meta", map[string]any{
		"codes":   catalog.Codes(),
		"seasons": catalog.Seasons(),
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		TTL:             cfg.CacheTTL,
		CleanupInterval: cfg.CacheCleanup,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"ttl_seconds":              int(cfg.CacheTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.CacheCleanup.Seconds()),
	})

	a := &App{cfg: cfg, store: store, log: log}
	if err := a.wire(ctx, catalog); err != nil {
		a.closeResources()
		return nil, err
	}
	return a, nil
}

func (a *App) wire(ctx context.Context, catalog *competitions.Catalog) error {
	transport := httpclient.NewRateLimited(httpclient.NewRestyClient(a.cfg.FetchTimeout), a.cfg.FootballAPIRate)
	fetcher := fetch.New(
		fetch.WithTransport(transport),
		fetch.WithMaxRetries(a.cfg.FetchMaxRetries),
		fetch.WithTimeout(a.cfg.FetchTimeout),
		fetch.WithLogger(a.log),
	)
	api, err := footballdata.NewClient(fetcher, a.cfg.FootballAPIBaseURL, a.cfg.FootballAPIToken)
	if err != nil {
		return fmt.Errorf("init football api client: %w", err)
	}
	pages := dashboard.NewService(api, a.store, footballdata.DefaultLogos(), a.log)

	a.server, err = web.NewServer(a.cfg.AppName, catalog, pages, a.log)
	if err != nil {
		return fmt.Errorf("init web server: %w", err)
	}

	if a.cfg.RefreshInterval <= 0 {
		a.log.InfoObj("background refresher disabled", "refresh_interval", a.cfg.RefreshInterval.String())
		return nil
	}

	a.fanout, err = buildFanout(ctx, a.cfg.PublishersFile, a.log)
	if err != nil {
		return err
	}
	a.refresher, err = NewRefresher(pages, catalog, a.fanout, a.cfg.RefreshInterval, a.log)
	if err != nil {
		return fmt.Errorf("init refresher: %w", err)
	}
	return nil
}

func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	publisherReg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := publisherReg.Enabled()
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// Server exposes the HTTP server.
func (a *App) Server() *web.Server { return a.server }

// Run serves HTTP and runs the refresher until ctx is cancelled, then shuts
// down gracefully and releases resources.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.server == nil {
		return fmt.Errorf("app is not initialized")
	}
	defer a.closeResources()

	ln, err := net.Listen("tcp", a.cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.HTTPAddr, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.InfoObj("http server listening", "http_addr", ln.Addr().String())
		if err := a.server.Serve(ln); err != nil && gctx.Err() == nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := a.server.Shutdown(shutdownCtx)
		_ = ln.Close()
		if err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		a.log.InfoObj("http server stopped", "http_addr", a.cfg.HTTPAddr)
		return nil
	})
	if a.refresher != nil {
		g.Go(func() error { return a.refresher.Run(gctx) })
	}

	return g.Wait()
}

// closeResources releases the store and publisher clients, logging failures.
func (a *App) closeResources() {
	var errs []error
	if a.fanout != nil {
		errs = append(errs, a.fanout.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if err := errors.Join(errs...); err != nil {
		a.log.ErrorObj("resource close failed", "error", err.Error())
	}
}
