package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/soccer-hub/internal/dashboard"
	"github.com/samvad-hq/soccer-hub/internal/logger"
	"github.com/samvad-hq/soccer-hub/pkg/competitions"
	"github.com/samvad-hq/soccer-hub/pkg/publishers"
)

// PageRefresher rebuilds a dashboard page, bypassing the cache.
type PageRefresher interface {
	Refresh(ctx context.Context, comp competitions.Competition, season int) (dashboard.Page, error)
}

// Dispatcher delivers refresh events downstream.
type Dispatcher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Refresher periodically warms the dashboard cache for every catalog
// competition and announces each refreshed page.
type Refresher struct {
	pages    PageRefresher
	catalog  *competitions.Catalog
	dispatch Dispatcher
	interval time.Duration
	log      logger.Logger
}

// NewRefresher builds a refresher. A nil dispatcher only warms the cache.
func NewRefresher(pages PageRefresher, catalog *competitions.Catalog, dispatch Dispatcher, interval time.Duration, log logger.Logger) (*Refresher, error) {
	if pages == nil {
		return nil, fmt.Errorf("page refresher must not be nil")
	}
	if catalog == nil {
		return nil, fmt.Errorf("competitions catalog must not be nil")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive")
	}
	return &Refresher{
		pages:    pages,
		catalog:  catalog,
		dispatch: dispatch,
		interval: interval,
		log:      logger.Ensure(log),
	}, nil
}

// Run refreshes immediately and then on every tick until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) error {
	r.log.InfoObj("refresher loop starting", "refresher_state", map[string]any{
		"competitions": r.catalog.Codes(),
		"season":       r.catalog.DefaultSeason(),
		"interval":     r.interval.String(),
	})

	if err := r.RunOnce(ctx); err != nil {
		r.log.ErrorObj("initial refresh failed", "error", err.Error())
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.InfoObj("refresher loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := r.RunOnce(ctx); err != nil {
				r.log.ErrorObj("scheduled refresh failed", "error", err.Error())
			}
		}
	}
}

// RunOnce refreshes each competition for the default season. Failures for one
// competition do not stop the others; all errors are joined.
func (r *Refresher) RunOnce(ctx context.Context) error {
	start := time.Now()
	season := r.catalog.DefaultSeason()

	var errs []error
	refreshed := 0
	for _, comp := range r.catalog.Competitions() {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		page, err := r.pages.Refresh(ctx, comp, season)
		if err != nil {
			errs = append(errs, fmt.Errorf("refresh %s/%d: %w", comp.Code, season, err))
			continue
		}
		refreshed++
		r.announce(ctx, page)
	}

	r.log.InfoObj("refresh completed", "refresh_meta", map[string]any{
		"refreshed":  refreshed,
		"failed":     len(errs),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return errors.Join(errs...)
}

func (r *Refresher) announce(ctx context.Context, page dashboard.Page) {
	if r.dispatch == nil {
		return
	}
	evt := eventFromPage(page)
	delivered, err := r.dispatch.Publish(ctx, evt)
	if err != nil {
		r.log.WarnObj("refresh event delivery failed", "publish_error", map[string]any{
			"event_id":    evt.ID,
			"competition": evt.Competition,
			"delivered":   delivered,
			"error":       err.Error(),
		})
		return
	}
	r.log.DebugObj("refresh event delivered", "publish_meta", map[string]any{
		"event_id":    evt.ID,
		"competition": evt.Competition,
		"delivered":   delivered,
	})
}

func eventFromPage(page dashboard.Page) publishers.Event {
	evt := publishers.NewEvent(page.Competition.Code, page.Competition.Name, page.Season)
	evt.TableRows = len(page.Table)
	evt.Scheduled = len(page.Scheduled)
	evt.Finished = len(page.Finished)
	if len(page.Table) > 0 {
		evt.Leader = page.Table[0].Team.Name
	}
	if !page.BuiltAt.IsZero() {
		evt.RefreshedAt = page.BuiltAt.UTC()
	}
	return evt
}
